// Copyright (c) 2026 - The bizproc authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type config struct {
	// Backend is the event store to use, "memory" or "mongodb".
	Backend    string `env:"HOTEL_BACKEND"     envDefault:"memory"`
	MongoURI   string `env:"HOTEL_MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB    string `env:"HOTEL_MONGODB_DB"  envDefault:"hotel"`
	ClearStore bool   `env:"HOTEL_MONGODB_CLEAR"`

	Tracing    bool   `env:"HOTEL_TRACING"`
	ZipkinHost string `env:"HOTEL_ZIPKIN_HOST" envDefault:"localhost"`

	// Guests is the number of guest stays in the group, of which Unsettled
	// leave with an open balance.
	Guests    int  `env:"HOTEL_GUESTS"    envDefault:"3"`
	Unsettled int  `env:"HOTEL_UNSETTLED" envDefault:"0"`
	Async     bool `env:"HOTEL_ASYNC"`
	Verbose   bool `env:"HOTEL_VERBOSE"`
}

func parseConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Backend {
	case "memory", "mongodb":
	default:
		return cfg, fmt.Errorf("unknown backend: %q", cfg.Backend)
	}

	if cfg.Guests < 1 {
		return cfg, fmt.Errorf("at least one guest is needed, got %d", cfg.Guests)
	}

	if cfg.Unsettled < 0 || cfg.Unsettled > cfg.Guests {
		return cfg, fmt.Errorf("unsettled guests must be between 0 and %d, got %d", cfg.Guests, cfg.Unsettled)
	}

	return cfg, nil
}
