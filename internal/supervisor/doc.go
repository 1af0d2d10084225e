// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

/*
Package supervisor provides process supervision for the recommendation
service using suture v4.

# Overview

Long-running services are organized into two layers:

	RootSupervisor ("recoservice")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── LimiterPruneService
	│   └── EngineStatsService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure counter and backoff.
Restarts in the maintenance layer do not touch the HTTP server.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second, logger))
	tree.AddMaintenanceService(services.NewLimiterPruneService(limiter, time.Minute, time.Hour, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Configuration

TreeConfig zero values fall back to suture's defaults: 5 failures before
backoff, 30 second decay, 15 second backoff and a 10 second shutdown
timeout per service.

# Service Interface

Every service implements suture.Service. Returning nil stops the service
for good, returning an error restarts it, and context cancellation asks it
to return promptly. Services that linger past ShutdownTimeout show up in
UnstoppedServiceReport.

The recommendation engine itself is not supervised. It is immutable after
startup and holds no goroutines.
*/
package supervisor
