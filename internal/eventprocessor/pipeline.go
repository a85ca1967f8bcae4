// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/murmur/internal/config"
	"github.com/tomtom215/murmur/internal/logging"
	"github.com/tomtom215/murmur/internal/recommend"
)

const handlerName = "store_views"

// Pipeline is the asynchronous view path: Publisher -> gochannel -> router
// -> view store.
type Pipeline struct {
	pubsub    *gochannel.GoChannel
	router    *message.Router
	publisher *Publisher
	logger    zerolog.Logger
}

// NewPipeline wires a pipeline that writes to store. Run must be called
// before published views are delivered; views published earlier are lost.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPipeline(cfg config.ViewsConfig, store recommend.ViewRecorder, logger zerolog.Logger) (*Pipeline, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, logging.NewWatermillLogger(logger))

	router, err := newRouter(routerConfig(cfg), logger)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	h := &viewHandler{store: store, logger: logger}
	router.AddConsumerHandler(handlerName, TopicViews, pubsub, h.Handle)

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}

	return &Pipeline{
		pubsub:    pubsub,
		router:    router,
		publisher: NewPublisher(pubsub, limiter, logger),
		logger:    logger,
	}, nil
}

func routerConfig(cfg config.ViewsConfig) RouterConfig {
	rc := DefaultRouterConfig()
	rc.CloseTimeout = cfg.CloseTimeout
	rc.RetryMaxRetries = cfg.RetryCount
	if cfg.RetryInterval > 0 {
		rc.RetryInitialInterval = cfg.RetryInterval
		rc.RetryMaxInterval = 20 * cfg.RetryInterval
	}
	return rc
}

// Recorder returns the view recorder the engine should write to.
func (p *Pipeline) Recorder() *Publisher {
	return p.publisher
}

// Run consumes view events until ctx is canceled or Close is called.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info().Msg("View pipeline starting")
	if err := p.router.Run(ctx); err != nil {
		return fmt.Errorf("view router: %w", err)
	}
	return nil
}

// Running is closed once the router has subscribed and handlers are live.
func (p *Pipeline) Running() chan struct{} {
	return p.router.Running()
}

// Close stops accepting views, drains in-flight handlers and closes the bus.
func (p *Pipeline) Close() error {
	p.publisher.close()
	return errors.Join(p.router.Close(), p.pubsub.Close())
}

// NewRecorder returns the view recorder for cfg. With Async off it is the
// store itself and the returned pipeline is nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRecorder(cfg config.ViewsConfig, store recommend.ViewRecorder, logger zerolog.Logger) (recommend.ViewRecorder, *Pipeline, error) {
	if !cfg.Async {
		if store == nil {
			return nil, nil, ErrNilStore
		}
		return store, nil, nil
	}
	p, err := NewPipeline(cfg, store, logger)
	if err != nil {
		return nil, nil, err
	}
	return p.Recorder(), p, nil
}
