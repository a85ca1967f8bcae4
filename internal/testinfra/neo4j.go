// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNeo4jImage is the neo4j image used by graph integration tests
	DefaultNeo4jImage = "neo4j:5-community"

	// Neo4jUser and Neo4jPassword are the credentials the container is started with.
	Neo4jUser     = "neo4j"
	Neo4jPassword = "murmur-test-pass"

	neo4jBoltPort = "7687/tcp"
)

// Neo4jInstance describes a running neo4j container.
type Neo4jInstance struct {
	URI      string
	Username string
	Password string
}

// StartNeo4j starts a neo4j container for the duration of the test and
// waits until it accepts bolt connections. The test is skipped without Docker.
func StartNeo4j(t *testing.T) Neo4jInstance {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        DefaultNeo4jImage,
			ExposedPorts: []string{neo4jBoltPort},
			Env: map[string]string{
				"NEO4J_AUTH": Neo4jUser + "/" + Neo4jPassword,
			},
			WaitingFor: wait.ForListeningPort(neo4jBoltPort).WithStartupTimeout(120 * time.Second),
		},
		Started: true,
	})
	CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("create neo4j container: %v", err)
	}

	addr, err := endpoint(ctx, container, neo4jBoltPort)
	if err != nil {
		t.Fatalf("neo4j endpoint: %v", err)
	}

	inst := Neo4jInstance{
		URI:      "neo4j://" + addr,
		Username: Neo4jUser,
		Password: Neo4jPassword,
	}

	driver, err := neo4j.NewDriverWithContext(inst.URI, neo4j.BasicAuth(inst.Username, inst.Password, ""))
	if err != nil {
		t.Fatalf("neo4j driver: %v", err)
	}
	defer driver.Close(ctx)

	// The bolt port opens before authentication is ready.
	if err := WaitForReady(ctx, driver.VerifyConnectivity, 60*time.Second); err != nil {
		t.Fatalf("neo4j not ready: %v", err)
	}

	return inst
}
