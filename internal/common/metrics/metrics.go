// Package metrics registers the Prometheus collectors for the dispatch
// pipeline. Collectors are registered once at init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications successfully dispatched",
		},
		[]string{"channel", "provider"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notifications whose dispatch failed",
		},
		[]string{"channel", "provider"},
	)

	UseCaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "usecase_duration_seconds",
			Help: "Duration of use-case execution in seconds",
		},
		[]string{"usecase"},
	)

	UseCaseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usecase_failures_total",
			Help: "Total number of use-case runs that returned an error",
		},
		[]string{"usecase", "error_kind"},
	)
)
