/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scoringFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moodroom",
		Name:      "scoring_failures_total",
		Help:      "Messages published with neutral sentiment because scoring failed.",
	})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moodroom",
		Name:      "submissions_rejected_total",
		Help:      "Submissions refused before reaching the history.",
	}, []string{"reason"})
)

func registerMetricsHandler(cfg *Config, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())
}
