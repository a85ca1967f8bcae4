// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package validation

import (
	"errors"
	"strings"
	"testing"
)

type testCache struct {
	Backend   string `koanf:"backend" validate:"oneof=memory badger redis"`
	RedisAddr string `koanf:"redis_addr" validate:"required_if=Backend redis,omitempty,hostname_port"`
}

type testConfig struct {
	Name    string    `koanf:"name" validate:"required,max=10"`
	Workers int       `koanf:"workers" validate:"gte=1,lte=64"`
	Cache   testCache `koanf:"cache"`
	Secret  string    `koanf:"-" validate:"omitempty,min=8"`
}

func validConfig() testConfig {
	return testConfig{
		Name:    "murmur",
		Workers: 4,
		Cache:   testCache{Backend: "memory"},
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	if v1, v2 := GetValidator(), GetValidator(); v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*testConfig)
		wantField string
		wantMsg   string
	}{
		{name: "valid", mutate: func(*testConfig) {}},
		{
			name:      "missing name",
			mutate:    func(c *testConfig) { c.Name = "" },
			wantField: "name",
			wantMsg:   "name is required",
		},
		{
			name:      "long name",
			mutate:    func(c *testConfig) { c.Name = "a-very-long-name" },
			wantField: "name",
			wantMsg:   "name must be at most 10 characters",
		},
		{
			name:      "workers below range",
			mutate:    func(c *testConfig) { c.Workers = 0 },
			wantField: "workers",
			wantMsg:   "workers must be greater than or equal to 1",
		},
		{
			name:      "nested oneof uses koanf path",
			mutate:    func(c *testConfig) { c.Cache.Backend = "memcached" },
			wantField: "cache.backend",
			wantMsg:   "cache.backend must be one of: memory badger redis",
		},
		{
			name: "redis requires address",
			mutate: func(c *testConfig) {
				c.Cache.Backend = "redis"
			},
			wantField: "cache.redis_addr",
		},
		{
			name: "redis address format",
			mutate: func(c *testConfig) {
				c.Cache.Backend = "redis"
				c.Cache.RedisAddr = "no-port"
			},
			wantField: "cache.redis_addr",
			wantMsg:   "cache.redis_addr must be host:port",
		},
		{
			name:      "untagged koanf field falls back to Go name",
			mutate:    func(c *testConfig) { c.Secret = "short" },
			wantField: "Secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := ValidateStruct(&cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}

			var verr *StructValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateStruct() error = %v, want *StructValidationError", err)
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("errors = %v, want exactly one", verr.Errors())
			}
			fe := verr.Errors()[0]
			if fe.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", fe.Field(), tt.wantField)
			}
			if tt.wantMsg != "" && fe.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestStructValidationError_JoinsMessages(t *testing.T) {
	cfg := validConfig()
	cfg.Name = ""
	cfg.Workers = 100

	err := ValidateStruct(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "name is required") || !strings.Contains(msg, "workers must be less than or equal to 64") {
		t.Errorf("Error() = %q", msg)
	}
	if strings.Count(msg, "; ") != 1 {
		t.Errorf("Error() = %q, want two messages joined", msg)
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	var verr *StructValidationError
	if err := ValidateStruct(42); !errors.As(err, &verr) {
		t.Fatalf("ValidateStruct(42) error = %v", err)
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}
