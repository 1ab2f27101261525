// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"bytes"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/metric"
)

func TestResultsSummaries(t *testing.T) {
	require := require.New(t)

	confirmed := newBlob(0, 1, 3, true)
	confirmed.HonestVotes = 5
	confirmed.MaliciousVotes = 2
	confirmed.Confirmed = true
	pending := newBlob(1, 2, 8, false)
	pending.MaliciousVotes = 1

	results := &Results{
		Strategy: BaselineName,
		Blobs:    []*Blob{confirmed, pending},
	}
	results.record(&Block{
		Height:         2,
		Proposer:       8,
		ProposerHonest: false,
		Votes: []BlobVotes{
			{Blob: 0, Honest: 2, Malicious: 1},
			{Blob: 1, Honest: 0, Malicious: 1},
		},
	})

	require.Equal([]BlockSummary{{
		Height:    2,
		Proposer:  8,
		Total:     4,
		Honest:    2,
		Malicious: 2,
	}}, results.BlockSummaries())
	require.Equal([]BlobSummary{
		{ID: 0, ProposerHonest: true, Total: 7, Honest: 5, Malicious: 2, Confirmed: true},
		{ID: 1, Total: 1, Malicious: 1},
	}, results.BlobSummaries())

	require.Equal([]*Blob{confirmed}, results.Confirmed())
	blob, ok := results.Blob(1)
	require.True(ok)
	require.Equal(pending, blob)
	_, ok = results.Blob(2)
	require.False(ok)
}

func TestNewBlobVotes(t *testing.T) {
	require := require.New(t)

	ballots := []Ballot{
		{Node: 0, Honest: true, Vote: Yes, Counted: true},
		{Node: 1, Honest: true, Vote: Abstain},
		{Node: 8, Vote: No, Counted: true},
		{Node: 9, Vote: Yes},
	}
	released := []Ballot{
		{Node: 2, Honest: true, Vote: Yes, Counted: true},
	}

	votes := newBlobVotes(4, ballots, released, true)
	require.Equal(BlobID(4), votes.Blob)
	require.Equal(uint64(2), votes.Honest)
	require.Equal(uint64(1), votes.Malicious)
	require.Equal(ballots, votes.Ballots)
	require.Equal(released, votes.Released)

	compact := newBlobVotes(4, ballots, released, false)
	require.Equal(votes.Honest, compact.Honest)
	require.Equal(votes.Malicious, compact.Malicious)
	require.Nil(compact.Ballots)
	require.Nil(compact.Released)
}

func TestBlobCommitment(t *testing.T) {
	require := require.New(t)

	a := newBlob(0, 1, 3, true)
	b := newBlob(0, 1, 3, true)
	c := newBlob(1, 2, 3, true)
	require.Equal(a.Commitment, b.Commitment)
	require.NotEqual(a.Commitment, c.Commitment)
}

func TestMetricsObserve(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	m, err := newMetrics(registry, "test")
	require.NoError(err)

	m.observeBallots([]Ballot{
		{Node: 0, Honest: true, Vote: Yes, Counted: true},
		{Node: 1, Honest: true, Vote: Yes, Counted: true},
		{Node: 8, Vote: No, Counted: true},
	}, []Ballot{
		{Node: 2, Honest: true, Vote: Yes, Counted: true},
	})
	m.observeBlock(&Block{
		Height:    3,
		Votes:     []BlobVotes{{Blob: 0, Honest: 3, Malicious: 1}},
		Confirmed: []BlobID{0},
	}, 2)

	out := gatherText(t, registry)
	require.Contains(out, "test_blocks 1\n")
	require.Contains(out, "test_blobs_confirmed 1\n")
	require.Contains(out, "test_blobs_pending 2\n")
	require.Contains(out, "test_height 3\n")
	require.Contains(out, "test_votes_released 1\n")
	require.Contains(out, `test_ballots{class="honest",vote="yes"} 2`)
	require.Contains(out, `test_ballots{class="malicious",vote="no"} 1`)
	require.Contains(out, `test_votes_tallied{class="honest"} 3`)

	// A second registration of the same namespace collides
	_, err = newMetrics(registry, "test")
	require.Error(err)
}

// gatherText renders every family of registry in the text exposition format
func gatherText(t *testing.T, registry metric.Registry) string {
	families, err := registry.Gather()
	require.NoError(t, err)

	var buf bytes.Buffer
	for _, family := range families {
		_, err := expfmt.MetricFamilyToText(&buf, family)
		require.NoError(t, err)
	}
	return buf.String()
}
