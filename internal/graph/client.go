// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/murmur/internal/config"
	"github.com/tomtom215/murmur/internal/logging"
	"github.com/tomtom215/murmur/internal/metrics"
	"github.com/tomtom215/murmur/internal/recommend"
)

const breakerName = "neo4j-graph"

// runFunc executes one Cypher statement and returns normalized rows.
type runFunc func(ctx context.Context, cypher string, params map[string]any, mode neo4j.AccessMode) ([]recommend.Row, error)

// Client runs engine graph queries against neo4j behind a circuit breaker.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	run      runFunc
	cb       *gobreaker.CircuitBreaker[[]recommend.Row]
	name     string
}

// New creates a driver for cfg. The driver connects lazily; call Ping to
// verify the server is reachable.
func New(cfg config.GraphConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neo4jconfig.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
			if cfg.ConnectTimeout > 0 {
				c.SocketConnectTimeout = cfg.ConnectTimeout
				c.ConnectionAcquisitionTimeout = cfg.ConnectTimeout
			}
			c.Log = newDriverLogger()
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	c := newClient(nil, cfg.Breaker)
	c.driver = driver
	c.database = cfg.Database
	c.run = c.runSession
	return c, nil
}

// newClient wires a Client around run. Tests pass a fake.
func newClient(run runFunc, breaker config.BreakerConfig) *Client {
	return &Client{
		run:  run,
		cb:   newBreaker(breakerName, breaker),
		name: breakerName,
	}
}

// Run executes a read query. Failures and breaker rejections are returned
// to the caller, which treats them as an empty signal.
func (c *Client) Run(ctx context.Context, q recommend.GraphQuery, params map[string]any) ([]recommend.Row, error) {
	start := time.Now()
	rows, err := c.execute(func() ([]recommend.Row, error) {
		return c.run(ctx, q.Cypher, params, neo4j.AccessModeRead)
	})
	metrics.RecordGraphQuery(q.Name, time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("query", q.Name).Msg("Graph query failed")
		return nil, fmt.Errorf("graph query %s: %w", q.Name, err)
	}
	return rows, nil
}

// write executes a write statement through the breaker.
func (c *Client) write(ctx context.Context, name, cypher string, params map[string]any) error {
	start := time.Now()
	_, err := c.execute(func() ([]recommend.Row, error) {
		return c.run(ctx, cypher, params, neo4j.AccessModeWrite)
	})
	metrics.RecordGraphQuery(name, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("graph write %s: %w", name, err)
	}
	return nil
}

// runSession runs cypher in a managed transaction and collects every record.
func (c *Client) runSession(ctx context.Context, cypher string, params map[string]any, mode neo4j.AccessMode) ([]recommend.Row, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: c.database,
	})
	defer func() {
		if err := session.Close(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to close neo4j session")
		}
	}()

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]recommend.Row, 0, len(records))
		for _, rec := range records {
			rows = append(rows, toRow(rec.Keys, rec.Values))
		}
		return rows, nil
	}

	var (
		out any
		err error
	)
	if mode == neo4j.AccessModeWrite {
		out, err = session.ExecuteWrite(ctx, work)
	} else {
		out, err = session.ExecuteRead(ctx, work)
	}
	if err != nil {
		return nil, err
	}
	rows, _ := out.([]recommend.Row)
	return rows, nil
}

// Ping verifies connectivity. It bypasses the breaker so health checks
// reflect the server, not the breaker state.
func (c *Client) Ping(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.VerifyConnectivity(ctx)
}

// Close releases the driver's connections.
func (c *Client) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

var _ recommend.GraphStore = (*Client)(nil)
