package daygrid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daygrid_client",
			Name:      "syncs_total",
			Help:      "Sync attempts by outcome.",
		},
		[]string{"result"},
	)

	changesReplayedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daygrid_client",
			Name:      "changes_replayed_total",
			Help:      "Pending changes confirmed by the remote during replay.",
		},
	)

	pendingDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "daygrid_client",
			Name:      "pending_queue_depth",
			Help:      "Mutations currently awaiting sync.",
		},
	)
)
