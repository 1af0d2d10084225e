// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

/*
Command server runs the recommendation HTTP API.

# Startup

 1. Configuration: .env, config.yaml and environment variables via koanf
 2. Logging: zerolog with JSON or console output
 3. Sources: every reco.sources entry loads in parallel; any failure is fatal
 4. Engine: popularity list, registry seal, enabled-model validation
 5. Authentication: JWT manager, admin credentials, login limiter
 6. Supervisor tree: HTTP server plus maintenance services

The HTTP server is only added to the tree after the engine is built, so a
running server always has every enabled model available.

# Supervision

	RootSupervisor ("recoservice")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── limiter-prune
	│   └── engine-stats
	└── APISupervisor ("api-layer")
	    └── http-server

# Configuration

	HTTP_PORT=8080
	AUTH_MODE=jwt                 # jwt or none
	JWT_SECRET=<32+ chars>
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<password>     # or ADMIN_PASSWORD_HASH=<bcrypt>
	AVAILABLE_MODELS=top_frequent,user_knn
	K_RECS=10
	POPULARITY_PATH=data/top_100_frequent.json
	REDIS_ADDR=localhost:6379     # only for redis-format sources

Model sources are declared in config.yaml:

	reco:
	  sources:
	    - name: user_knn
	      kind: similarity
	      format: index
	      path: ./models

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SHUTDOWN_TIMEOUT before the process exits.
*/
package main
