// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"errors"

	"github.com/luxfi/metric"
)

const (
	classLabel = "class"
	voteLabel  = "vote"
)

var (
	classLabels     = []string{classLabel}
	classVoteLabels = []string{classLabel, voteLabel}
)

type metrics struct {
	blocks    metric.Counter
	confirmed metric.Counter
	pending   metric.Gauge
	height    metric.Gauge

	ballots  metric.CounterVec // class + vote
	tallied  metric.CounterVec // class
	released metric.Counter
}

func newMetrics(registerer metric.Registerer, namespace string) (*metrics, error) {
	m := &metrics{
		blocks: metric.NewCounter(metric.CounterOpts{
			Namespace: namespace,
			Name:      "blocks",
			Help:      "number of simulated blocks (n)",
		}),
		confirmed: metric.NewCounter(metric.CounterOpts{
			Namespace: namespace,
			Name:      "blobs_confirmed",
			Help:      "number of confirmed blobs (n)",
		}),
		pending: metric.NewGauge(metric.GaugeOpts{
			Namespace: namespace,
			Name:      "blobs_pending",
			Help:      "number of blobs awaiting confirmation",
		}),
		height: metric.NewGauge(metric.GaugeOpts{
			Namespace: namespace,
			Name:      "height",
			Help:      "height of the last simulated block",
		}),
		ballots: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Name:      "ballots",
				Help:      "number of ballots cast (n)",
			},
			classVoteLabels,
		),
		tallied: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Name:      "votes_tallied",
				Help:      "number of votes counted toward blob tallies (n)",
			},
			classLabels,
		),
		released: metric.NewCounter(metric.CounterOpts{
			Namespace: namespace,
			Name:      "votes_released",
			Help:      "number of buffered honest votes included by a later block (n)",
		}),
	}
	if registerer == nil {
		return m, nil
	}
	err := errors.Join(
		registerer.Register(m.blocks),
		registerer.Register(m.confirmed),
		registerer.Register(m.pending),
		registerer.Register(m.height),
		registerer.Register(m.ballots),
		registerer.Register(m.tallied),
		registerer.Register(m.released),
	)
	return m, err
}

func (m *metrics) observeBallots(ballots []Ballot, released []Ballot) {
	// counts[honest][vote]
	var counts [2][No + 1]int
	for _, ballot := range ballots {
		class := 0
		if ballot.Honest {
			class = 1
		}
		counts[class][ballot.Vote]++
	}
	for class := range counts {
		for vote, count := range counts[class] {
			if count == 0 {
				continue
			}
			m.ballots.With(metric.Labels{
				classLabel: Status(class == 1),
				voteLabel:  Vote(vote).String(),
			}).Add(float64(count))
		}
	}
	m.released.Add(float64(len(released)))
}

func (m *metrics) observeBlock(block *Block, numPending int) {
	m.blocks.Inc()
	m.height.Set(float64(block.Height))
	m.pending.Set(float64(numPending))
	m.confirmed.Add(float64(len(block.Confirmed)))

	honest, malicious := block.Tally()
	m.tallied.With(metric.Labels{classLabel: Status(true)}).Add(float64(honest))
	m.tallied.With(metric.Labels{classLabel: Status(false)}).Add(float64(malicious))
}
