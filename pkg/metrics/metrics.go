// Package metrics exposes Prometheus collectors for procedure calls and
// outbound weather fetches on a private registry.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

const namespace = "farmlink"

type Metrics struct {
	registry *prometheus.Registry

	rpcCalls    *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	weatherFetches       *prometheus.CounterVec
	weatherFetchDuration *prometheus.HistogramVec
}

func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_calls_total",
			Help:      "Procedure calls by path, kind and result code.",
		}, []string{"path", "kind", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_call_duration_seconds",
			Help:      "Procedure call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"path", "kind"}),
		weatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_fetches_total",
			Help:      "Weather provider fetches by provider and status.",
		}, []string{"provider", "status"}),
		weatherFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_fetch_duration_seconds",
			Help:      "Weather provider fetch latency including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"provider"}),
	}
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcCalls, m.rpcDuration, m.weatherFetches, m.weatherFetchDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// ObserveCall implements rpc.Observer.
func (m *Metrics) ObserveCall(path string, kind rpc.Kind, code string, d time.Duration) {
	m.rpcCalls.WithLabelValues(path, string(kind), code).Inc()
	m.rpcDuration.WithLabelValues(path, string(kind)).Observe(d.Seconds())
}

// ObserveWeatherFetch records one provider fetch.
func (m *Metrics) ObserveWeatherFetch(provider string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.weatherFetches.WithLabelValues(provider, status).Inc()
	m.weatherFetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
