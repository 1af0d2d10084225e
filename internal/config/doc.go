// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

/*
Package config provides centralized configuration management for RecoService.

Configuration is layered with koanf: built-in defaults, then an optional YAML
file (CONFIG_PATH, config.yaml or /etc/recoservice/config.yaml), then
environment variables. A .env file in the working directory is loaded into
the environment first when present.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - SERVER_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging, production

Authentication:
  - AUTH_MODE: jwt or none
  - JWT_SECRET: min 32 characters
  - ADMIN_USERNAME, ADMIN_PASSWORD or ADMIN_PASSWORD_HASH

Recommendations:
  - AVAILABLE_MODELS: comma-separated model names
  - K_RECS, USER_ID_CEILING, POPULAR_MODEL, POPULARITY_PATH

Redis (for redis-format sources):
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_BATCH_SIZE

# Model Sources

Sources are declared in the YAML file only:

	reco:
	  available_models: [top_frequent, user_knn, lightfm]
	  sources:
	    - name: user_knn
	      kind: similarity
	      format: index
	      path: /data/models
	    - name: lightfm
	      kind: export
	      format: redis
	      prefix: "reco:lightfm:"

# Thread Safety

Config is immutable after Load() and safe for concurrent read access.
*/
package config
