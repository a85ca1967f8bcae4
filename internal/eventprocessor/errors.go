// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package eventprocessor

import "errors"

// ErrNilStore is returned when a pipeline is built without a view store.
var ErrNilStore = errors.New("eventprocessor: view store cannot be nil")

// ErrClosed is returned by Publish after the pipeline has been closed.
var ErrClosed = errors.New("eventprocessor: pipeline closed")
