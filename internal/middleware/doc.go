// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package middleware provides HTTP middleware shared by every route group.

Components:

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by chi route pattern
  - Compression: pooled gzip for clients that accept it
  - PerformanceMonitor: sliding window of request latencies with percentiles
  - SecurityHeaders: nosniff, frame denial, referrer policy and HSTS over TLS
  - AccessLog: one structured log line per request

Typical order on the root router:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.Use(middleware.Compression)

Metrics are recorded against the matched route pattern (for example
/api/v1/merchant/loans/{id}), never the raw path, so label cardinality stays
bounded.
*/
package middleware
