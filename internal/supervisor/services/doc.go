// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package services adapts Murmur components to suture.Service.
//
// HTTPServerService turns the ListenAndServe/Shutdown pair of the ops
// server into a context-aware Serve. ViewPipelineService runs the watermill
// view consumer until the tree shuts down.
package services
