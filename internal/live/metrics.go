package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cignito_live_clients",
		Help: "Connected live revalidation clients",
	})

	revalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cignito_revalidations_total",
		Help: "Revalidation broadcasts sent by the hub",
	})

	droppedClientsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cignito_live_dropped_clients_total",
		Help: "Websocket clients dropped for not keeping up",
	})
)
