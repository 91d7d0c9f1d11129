// Package metrics instruments the buffer pool with prometheus counters.
// Nothing in this package starts an HTTP listener — the core is an
// in-process library, and exposing metrics over the network is left
// entirely to a host application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registry holds the buffer pool's counters in a private prometheus
// registry, so a host application decides if and how to expose them.
type Registry struct {
	reg *prometheus.Registry

	Pins      *prometheus.CounterVec
	Evictions prometheus.Counter
	Flushes   prometheus.Counter
	PoolFull  prometheus.Counter
}

// New builds a fresh, unregistered-with-anything Registry.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		Pins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagedb_bufferpool_pins_total",
			Help: "Number of PinPage calls, labeled by hit or miss.",
		}, []string{"result"}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagedb_bufferpool_evictions_total",
			Help: "Number of frames reused for a different page.",
		}),
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagedb_bufferpool_flushes_total",
			Help: "Number of successful write_page calls.",
		}),
		PoolFull: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagedb_bufferpool_pool_full_total",
			Help: "Number of pin/alloc attempts that failed because every frame was pinned.",
		}),
	}

	reg.MustRegister(r.Pins, r.Evictions, r.Flushes, r.PoolFull)
	return r
}

// Gather returns the current metric families for a host application to
// expose however it likes.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}
