// Package metrics holds the Prometheus collectors for certificate parsing.
package metrics

import (
	"github.com/certcat/lintx509/der"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics counts parse outcomes. A nil *Metrics records nothing.
type Metrics struct {
	// Parsed counts parse attempts by result and failure kind.
	Parsed *prometheus.CounterVec
	// InputBytes observes the DER size of every parsed certificate.
	InputBytes prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Parsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lintx509",
				Subsystem: "certificates",
				Name:      "parsed_total",
				Help:      "Counts certificate parse attempts by result and error kind.",
			},
			[]string{"result", "kind"},
		),
		InputBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "lintx509",
				Subsystem: "certificates",
				Name:      "input_bytes",
				Help:      "Size of the DER encoding of parsed certificates.",
				Buckets:   prometheus.ExponentialBuckets(256, 2, 8),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.Parsed, m.InputBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordParse records the outcome of parsing size bytes of DER.
func (m *Metrics) RecordParse(err error, size int) {
	if m == nil {
		return
	}
	m.InputBytes.Observe(float64(size))

	if err == nil {
		m.Parsed.WithLabelValues(ResultOK, "").Inc()
		return
	}
	kind := "Unknown"
	if k, ok := der.KindOf(err); ok {
		kind = k.String()
	}
	m.Parsed.WithLabelValues(ResultError, kind).Inc()
}
