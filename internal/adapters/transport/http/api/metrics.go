package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const unknownOperation = "unknown"

var operationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "account",
		Name:      "operations_total",
		Help:      "Dispatched API operations by name and response code.",
	},
	[]string{"operation", "code"},
)

func init() {
	prometheus.MustRegister(operationsTotal)
}

func observe(operation string, code int) {
	operationsTotal.WithLabelValues(operation, strconv.Itoa(code)).Inc()
}
