// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package report

import (
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/luxfi/dasim"
)

const (
	namespace     = "dasim"
	strategyLabel = "strategy"
	classLabel    = "class"
)

type summaryMetrics struct {
	blocks    *prometheus.GaugeVec
	blobs     *prometheus.GaugeVec
	confirmed *prometheus.GaugeVec
	contested *prometheus.GaugeVec
	mean      *prometheus.GaugeVec
	median    *prometheus.GaugeVec
	stddev    *prometheus.GaugeVec
	rolling   *prometheus.GaugeVec
	ewma      *prometheus.GaugeVec
}

func newSummaryMetrics(registerer prometheus.Registerer) (*summaryMetrics, error) {
	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, append([]string{strategyLabel}, labels...))
	}
	m := &summaryMetrics{
		blocks:    gauge("blocks", "number of simulated blocks"),
		blobs:     gauge("blobs", "number of created blobs"),
		confirmed: gauge("blobs_confirmed", "number of confirmed blobs"),
		contested: gauge("blobs_contested", "number of confirmed blobs with malicious support at least honest support"),
		mean:      gauge("votes_mean", "mean votes per confirmed blob", classLabel),
		median:    gauge("votes_median", "median votes per confirmed blob", classLabel),
		stddev:    gauge("votes_stddev", "sample standard deviation of votes per confirmed blob", classLabel),
		rolling:   gauge("votes_rolling_mean", "mean votes over the last window of confirmed blobs", classLabel),
		ewma:      gauge("votes_ewma", "exponentially weighted moving average of votes per confirmed blob", classLabel),
	}
	err := errors.Join(
		registerer.Register(m.blocks),
		registerer.Register(m.blobs),
		registerer.Register(m.confirmed),
		registerer.Register(m.contested),
		registerer.Register(m.mean),
		registerer.Register(m.median),
		registerer.Register(m.stddev),
		registerer.Register(m.rolling),
		registerer.Register(m.ewma),
	)
	return m, err
}

func (m *summaryMetrics) observe(s Summary) {
	m.blocks.WithLabelValues(s.Strategy).Set(float64(s.Blocks))
	m.blobs.WithLabelValues(s.Strategy).Set(float64(s.Blobs))
	m.confirmed.WithLabelValues(s.Strategy).Set(float64(s.Confirmed))
	m.contested.WithLabelValues(s.Strategy).Set(float64(s.Contested))
	for class, d := range map[string]Distribution{
		dasim.Status(true):  s.Honest,
		dasim.Status(false): s.Malicious,
	} {
		m.mean.WithLabelValues(s.Strategy, class).Set(d.Mean)
		m.median.WithLabelValues(s.Strategy, class).Set(d.Median)
		m.stddev.WithLabelValues(s.Strategy, class).Set(d.StdDev)
		m.rolling.WithLabelValues(s.Strategy, class).Set(d.Rolling)
		m.ewma.WithLabelValues(s.Strategy, class).Set(d.EWMA)
	}
}

// WriteMetrics writes summaries, followed by everything gathered from
// gatherers, in the Prometheus text exposition format suitable for a node
// exporter textfile collector
func WriteMetrics(w io.Writer, summaries []Summary, gatherers ...prometheus.Gatherer) error {
	registry := prometheus.NewRegistry()
	m, err := newSummaryMetrics(registry)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		m.observe(s)
	}

	families, err := append(prometheus.Gatherers{registry}, gatherers...).Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}
