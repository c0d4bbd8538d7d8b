// Package promhooks exports memocache hook events as Prometheus counters.
// Keys are never used as label values.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/unkn0wn-root/memocache"
)

type Options struct {
	Namespace   string            // metric namespace, default "memocache"
	Subsystem   string            // optional
	ConstLabels prometheus.Labels // e.g. {"cache": "greetings"}
}

type Hooks struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	setSkipped   *prometheus.CounterVec
	setRejected  prometheus.Counter
	decodeErrors prometheus.Counter
	storeErrors  *prometheus.CounterVec
}

var _ memocache.Hooks = (*Hooks)(nil)

// New registers the counters with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer, opts Options) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if opts.Namespace == "" {
		opts.Namespace = "memocache"
	}
	f := promauto.With(reg)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: opts.ConstLabels,
		}
	}

	h := &Hooks{
		hits:         f.NewCounter(counter("hits_total", "Total number of cache hits.")),
		misses:       f.NewCounter(counter("misses_total", "Total number of cache misses.")),
		setSkipped:   f.NewCounterVec(counter("set_skipped_total", "Memoized results not written to the cache."), []string{"reason"}),
		setRejected:  f.NewCounter(counter("set_rejected_total", "Writes rejected by the provider.")),
		decodeErrors: f.NewCounter(counter("decode_errors_total", "Stored values that failed to decode.")),
		storeErrors:  f.NewCounterVec(counter("store_errors_total", "Provider errors by operation."), []string{"op"}),
	}

	// pre-create label combinations so series exist from startup
	h.setSkipped.WithLabelValues("empty")
	for _, op := range []string{"get", "set", "del", "exists", "expire", "scan"} {
		h.storeErrors.WithLabelValues(op)
	}
	return h
}

func (h *Hooks) Hit(string)                               { h.hits.Inc() }
func (h *Hooks) Miss(string)                              { h.misses.Inc() }
func (h *Hooks) SetSkipped(_ string, reason string)       { h.setSkipped.WithLabelValues(reason).Inc() }
func (h *Hooks) ProviderSetRejected(string)               { h.setRejected.Inc() }
func (h *Hooks) DecodeFailed(string, error)               { h.decodeErrors.Inc() }
func (h *Hooks) StoreFailed(op string, _ string, _ error) { h.storeErrors.WithLabelValues(op).Inc() }
