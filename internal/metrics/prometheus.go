//go:build !noprom

package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	upstreamTotal   *prom.CounterVec
	upstreamSeconds *prom.HistogramVec
	toolTotal       *prom.CounterVec
	toolSeconds     *prom.HistogramVec
	filterBindings  *prom.CounterVec
}

func (p *promRecorder) IncUpstreamTotal(service string, success bool) {
	p.upstreamTotal.WithLabelValues(service, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveUpstreamSeconds(service string, success bool, seconds float64) {
	p.upstreamSeconds.WithLabelValues(service, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncToolTotal(tool string, success bool) {
	p.toolTotal.WithLabelValues(tool, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveToolSeconds(tool string, success bool, seconds float64) {
	p.toolSeconds.WithLabelValues(tool, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) ObserveFilter(kept, dropped int) {
	p.filterBindings.WithLabelValues("kept").Add(float64(kept))
	p.filterBindings.WithLabelValues("dropped").Add(float64(dropped))
}

func newPromRecorder(registry *prom.Registry) *promRecorder {
	p := &promRecorder{
		upstreamTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "upstream_calls_total",
			Help: "Total number of outbound calls to search, sparql and synonym services",
		}, []string{"service", "success"}),
		upstreamSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "upstream_call_seconds",
			Help:    "Outbound call duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"service", "success"}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "tool_calls_total",
			Help: "Total number of tool and endpoint handler calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "tool_call_seconds",
			Help:    "Tool handler duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"tool", "success"}),
		filterBindings: prom.NewCounterVec(prom.CounterOpts{
			Name: "filter_bindings_total",
			Help: "Graph bindings seen by the fuzzy filter, by outcome",
		}, []string{"outcome"}),
	}
	registry.MustRegister(p.upstreamTotal, p.upstreamSeconds, p.toolTotal, p.toolSeconds, p.filterBindings)
	return p
}

func enablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	SetRecorder(newPromRecorder(registry))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
