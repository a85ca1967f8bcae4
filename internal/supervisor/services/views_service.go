// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// ViewPipeline is the part of eventprocessor.Pipeline the supervisor needs.
type ViewPipeline interface {
	Run(ctx context.Context) error
	Close() error
}

// ViewPipelineService runs the view consumer under suture.
//
// A watermill router cannot be restarted once it has stopped, so a failed
// run is reported with suture.ErrDoNotRestart. The pipeline is closed, so
// later views are rejected by its publisher.
type ViewPipelineService struct {
	pipeline ViewPipeline
}

// NewViewPipelineService wraps p.
func NewViewPipelineService(p ViewPipeline) *ViewPipelineService {
	return &ViewPipelineService{pipeline: p}
}

// Serve implements suture.Service.
func (s *ViewPipelineService) Serve(ctx context.Context) error {
	err := s.pipeline.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	closeErr := s.pipeline.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("%w: view pipeline stopped: %w", suture.ErrDoNotRestart, err)
	}
	return suture.ErrDoNotRestart
}

// String names the service in supervisor logs.
func (s *ViewPipelineService) String() string {
	return "view-pipeline"
}
