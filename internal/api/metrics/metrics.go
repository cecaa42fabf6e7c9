// Package metrics defines the custom Prometheus metrics for the vulnbank
// API. It is the single source of truth for metric names, labels, and help
// strings; everything registers against the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vulnbank"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts completed signups.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created through signup.",
	},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
)

// TransfersTotal counts transfer attempts on authenticated, owned accounts.
// Label:
//   - result: "success", "insufficient_funds", "over_limit", or "error"
var TransfersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transfers_total",
		Help:      "Total number of transfer attempts, by result.",
	},
	[]string{"result"},
)
