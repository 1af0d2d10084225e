// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

/*
Package middleware provides HTTP middleware shared by every route.

  - RequestID: accepts or generates an X-Request-ID and attaches a request
    scoped logger to the context
  - PrometheusMetrics: request counters, latency histograms and the active
    request gauge, labelled by chi route pattern
  - AccessLog: one structured log line per request

The functions use the http.HandlerFunc shape. The api package adapts them to
chi with its chiMiddleware helper:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
*/
package middleware
