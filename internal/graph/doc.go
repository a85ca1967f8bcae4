// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package graph is the neo4j-backed relationship graph store.
//
// Client implements recommend.GraphStore. Every query and write passes
// through a sony/gobreaker circuit breaker: after FailureThreshold
// consecutive failures the breaker opens and calls fail fast with
// ErrCircuitOpen until Timeout elapses and a probe succeeds. The engine
// treats any graph error as an empty signal, so an unavailable graph
// degrades recommendations instead of failing them.
//
// Driver values are normalized before they reach the engine: temporal
// types become time.Time in UTC and nodes become property maps.
//
// Graph model:
//
//	(:User {id})-[:FOLLOWS]->(:User)
//	(:User)-[:INTERESTED_IN {weight, updatedAt}]->(:Tag {name})
//	(:User)-[:INTERACTED_WITH {weight, createdAt}]->(:Post {id})
package graph
