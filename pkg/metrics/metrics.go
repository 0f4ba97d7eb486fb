// Package metrics provides Prometheus metrics for validation outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jsonv"

// Observer counts validation outcomes per schema and implements schema.Observer.
type Observer struct {
	ValidationsTotal *prometheus.CounterVec
	FailuresTotal    *prometheus.CounterVec
}

// NewObserver creates the validation counters and registers them with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		ValidationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of validated documents by schema and result",
		}, []string{"schema_id", "result"}),
		FailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Total number of failed validations by schema and failing keyword",
		}, []string{"schema_id", "keyword"}),
	}
}

// ObserveValidation records one validation; an empty keyword means the document was valid.
func (o *Observer) ObserveValidation(schemaID, keyword string) {
	if keyword == "" {
		o.ValidationsTotal.WithLabelValues(schemaID, "valid").Inc()
		return
	}
	o.ValidationsTotal.WithLabelValues(schemaID, "invalid").Inc()
	o.FailuresTotal.WithLabelValues(schemaID, keyword).Inc()
}
