/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moodroom",
		Name:      "messages_published_total",
		Help:      "Messages appended to the history and queued for broadcast.",
	})

	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "moodroom",
		Name:      "subscribers",
		Help:      "Subscribers currently registered with the relay.",
	})

	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moodroom",
		Name:      "subscribers_dropped_total",
		Help:      "Subscribers disconnected because their buffer was full.",
	})
)
