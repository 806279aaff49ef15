package util

import (
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const metricsNamespace = "device_controller"

// Registry holds every metric of this process. There is no scrape endpoint,
// see WriteMetrics.
var Registry = prometheus.NewRegistry()

func MustRegisterCounterVec(subSystem, name, help string, labelNames ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: subSystem,
		Name:      name,
		Help:      help,
	}, labelNames)
	Registry.MustRegister(c)
	return c
}

func MustRegisterGaugeVec(subSystem, name, help string, labelNames ...string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: subSystem,
		Name:      name,
		Help:      help,
	}, labelNames)
	Registry.MustRegister(g)
	return g
}

// WriteMetrics dumps the registry in the prometheus text format.
func WriteMetrics(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrapf(err, "writing metric family %s", mf.GetName())
		}
	}
	return nil
}
