package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daygrid_client",
			Name:      "remote_requests_total",
			Help:      "Requests issued to the remote endpoint, by action.",
		},
		[]string{"action"},
	)

	requestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daygrid_client",
			Name:      "remote_request_failures_total",
			Help:      "Requests that ended in a transport or upstream error, by action.",
		},
		[]string{"action"},
	)
)
