package ws

import "github.com/prometheus/client_golang/prometheus"

var connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ws_connected_clients",
	Help: "Number of currently connected WebSocket viewers.",
})

func init() {
	prometheus.MustRegister(connectedClients)
}
