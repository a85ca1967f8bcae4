// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package graph

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/logging"
)

// driverLogger adapts the neo4j driver's log.Logger to zerolog.
type driverLogger struct {
	logger zerolog.Logger
}

func newDriverLogger() *driverLogger {
	return &driverLogger{logger: logging.WithComponent("neo4j")}
}

func (l *driverLogger) Error(name, id string, err error) {
	l.logger.Error().Str("driver_component", name).Str("id", id).Err(err).Msg("neo4j driver error")
}

func (l *driverLogger) Warnf(name, id string, msg string, args ...any) {
	l.logger.Warn().Str("driver_component", name).Str("id", id).Msg(fmt.Sprintf(msg, args...))
}

func (l *driverLogger) Infof(name, id string, msg string, args ...any) {
	l.logger.Debug().Str("driver_component", name).Str("id", id).Msg(fmt.Sprintf(msg, args...))
}

func (l *driverLogger) Debugf(name, id string, msg string, args ...any) {
	l.logger.Trace().Str("driver_component", name).Str("id", id).Msg(fmt.Sprintf(msg, args...))
}
