package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/modlearn/modlearn/pkg/metrics"
)

type Metrics struct {
	apiResponseTime  *prometheus.HistogramVec
	apiErrorCounter  *prometheus.CounterVec
	presignTime      *prometheus.HistogramVec
	storageOpCounter *prometheus.CounterVec
	orderSweepGauge  *prometheus.GaugeVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:  metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:  metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		presignTime:      metrics.NewHistogramVec("presign_time", []string{"op"}),
		storageOpCounter: metrics.NewCounterVec("storage_op", []string{"op", "result"}),
		orderSweepGauge:  metrics.NewGaugeVec("order_sweep_expired", nil),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) PresignTimer(op string) *prometheus.Timer {
	return prometheus.NewTimer(m.presignTime.WithLabelValues(op))
}

func (m *Metrics) StorageOpInc(op, result string) {
	m.storageOpCounter.WithLabelValues(op, result).Inc()
}

func (m *Metrics) OrderSweepExpired(count float64) {
	m.orderSweepGauge.WithLabelValues().Set(count)
}
