// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/dasim"
	"github.com/luxfi/dasim/simmock"
	"github.com/luxfi/dasim/simtest"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

func TestSimulationDeterministic(t *testing.T) {
	config := simtest.NewConfig(100, 20, 10, 5, 60)
	config.ReliableNodes = 50
	for _, name := range dasim.StrategyNames() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			first := simtest.Run(t, config, name)
			second := simtest.Run(t, config, name)
			require.Equal(first.BlockSummaries(), second.BlockSummaries())
			require.Equal(first.BlobSummaries(), second.BlobSummaries())
			require.Equal(first.Blocks, second.Blocks)

			config := config
			config.Seed++
			third := simtest.Run(t, config, name)
			require.NotEqual(first.Blocks, third.Blocks)
		})
	}
}

func TestSimulationExactlyOnceConfirmation(t *testing.T) {
	require := require.New(t)

	const depth = 7
	config := simtest.NewConfig(50, 10, 5, depth, 40)
	results := simtest.Run(t, config, dasim.VoteCensorshipName)

	require.Len(results.Blobs, 40)
	confirmations := make(map[dasim.BlobID]int)
	for _, block := range results.Blocks {
		for _, id := range block.Confirmed {
			confirmations[id]++
			blob, ok := results.Blob(id)
			require.True(ok)
			require.Equal(block.Height, blob.ConfirmedAt)
		}
	}
	for _, blob := range results.Blobs {
		require.Equal(dasim.BlobID(blob.Height-1), blob.ID)
		if blob.Height+depth-1 <= config.TotalBlocks {
			require.True(blob.Confirmed)
			require.Equal(blob.Height+depth-1, blob.ConfirmedAt)
			require.Equal(1, confirmations[blob.ID])
		} else {
			require.False(blob.Confirmed)
			require.Zero(confirmations[blob.ID])
		}
	}
	require.Len(results.Confirmed(), 40-depth+1)
}

func TestSimulationPendingConsistency(t *testing.T) {
	require := require.New(t)

	config := simtest.NewConfig(30, 10, 4, 5, 25)
	strategy, err := dasim.NewStrategy(dasim.SmartDataWithholdingName, config)
	require.NoError(err)
	sim, err := dasim.New(config, strategy)
	require.NoError(err)

	ctx := context.Background()
	for sim.State() == dasim.Running {
		block, err := sim.Step(ctx)
		require.NoError(err)

		// Every block votes on exactly the blobs pending when it began
		for i, votes := range block.Votes {
			if i > 0 {
				require.Less(block.Votes[i-1].Blob, votes.Blob)
			}
		}

		tracker := sim.Tracker()
		pending := 0
		for _, blob := range tracker.Blobs() {
			require.Equal(!blob.Confirmed, tracker.IsPending(blob.ID))
			if !blob.Confirmed {
				pending++
			}
		}
		require.Equal(pending, tracker.NumPending())
	}
	require.Equal(config.TotalBlocks, sim.Height())
}

func TestSimulationCommitteeWellFormed(t *testing.T) {
	require := require.New(t)

	config := simtest.NewConfig(40, 8, 12, 3, 50)
	results := simtest.Run(t, config, dasim.BaselineName)
	for _, block := range results.Blocks {
		require.Len(block.Committee, config.NodesPerBlock)
		seen := make(map[dasim.NodeID]struct{})
		for _, node := range block.Committee {
			require.GreaterOrEqual(int(node), 0)
			require.Less(int(node), config.TotalNodes)
			_, dup := seen[node]
			require.False(dup)
			seen[node] = struct{}{}
		}
	}
}

func TestBaselineVoteConservation(t *testing.T) {
	require := require.New(t)

	const (
		committee = 6
		depth     = 8
	)
	config := simtest.NewConfig(60, 15, committee, depth, 50)
	results := simtest.Run(t, config, dasim.BaselineName)

	for _, blob := range results.Blobs {
		seen := uint64(0)
		for _, block := range results.Blocks {
			for _, votes := range block.Votes {
				if votes.Blob == blob.ID {
					seen += uint64(len(votes.Ballots))
				}
			}
		}
		require.Equal(seen, blob.TotalVotes())
		if blob.Confirmed {
			require.Equal(uint64(committee*depth), blob.TotalVotes())
		}
	}
}

func TestVoteCensorshipReleasesBufferedVotes(t *testing.T) {
	require := require.New(t)

	// Node 2 is malicious. Node 0 is the only committee member.
	config := simtest.NewConfig(3, 1, 1, 5, 3)
	sampler := simtest.NewSampler(
		simtest.Round{Proposer: 2, Committee: []dasim.NodeID{0}},
		simtest.Round{Proposer: 2, Committee: []dasim.NodeID{0}},
		simtest.Round{Proposer: 1, Committee: []dasim.NodeID{0}},
	)
	sim, err := dasim.New(config, dasim.NewVoteCensorship(), dasim.WithSampler(sampler))
	require.NoError(err)

	var tallies []uint64
	for sim.State() == dasim.Running {
		_, err := sim.Step(context.Background())
		require.NoError(err)

		blob, ok := sim.Tracker().Get(0)
		require.True(ok)
		tallies = append(tallies, blob.HonestVotes)
	}
	require.Equal([]uint64{0, 0, 3}, tallies)
	require.Equal(3, sampler.Replayed())

	results := sim.Results()
	last := results.Blocks[2]
	require.Len(last.Votes[0].Released, 2)
	require.Equal(uint64(3), last.Votes[0].Honest)
}

func TestDataWithholdingBoundary(t *testing.T) {
	require := require.New(t)

	const activation = 3
	config := simtest.NewConfig(3, 1, 2, 10, 5)
	config.MaliciousPowerBlock = activation
	strategy, err := dasim.NewStrategy(dasim.DataWithholdingName, config)
	require.NoError(err)
	sampler := simtest.NewSampler(simtest.Round{Proposer: 0, Committee: []dasim.NodeID{0, 2}})

	sim, err := dasim.New(config, strategy, dasim.WithSampler(sampler))
	require.NoError(err)
	results, err := sim.Run(context.Background())
	require.NoError(err)

	for _, block := range results.Blocks {
		for _, votes := range block.Votes {
			if block.Height < activation {
				require.Equal(uint64(1), votes.Honest, "height %d", block.Height)
				require.Zero(votes.Malicious, "height %d", block.Height)
			} else {
				require.Zero(votes.Honest, "height %d", block.Height)
				require.Equal(uint64(1), votes.Malicious, "height %d", block.Height)
			}
		}
	}

	blob, ok := results.Blob(0)
	require.True(ok)
	require.Equal(uint64(2), blob.HonestVotes)
	require.Equal(uint64(3), blob.MaliciousVotes)
}

func TestSmartDataWithholdingSwitch(t *testing.T) {
	require := require.New(t)

	config := simtest.NewConfig(3, 1, 2, 10, 4)
	config.SmartThreshold = 2
	strategy, err := dasim.NewStrategy(dasim.SmartDataWithholdingName, config)
	require.NoError(err)
	sampler := simtest.NewSampler(simtest.Round{Proposer: 0, Committee: []dasim.NodeID{0, 2}})

	sim, err := dasim.New(config, strategy, dasim.WithSampler(sampler))
	require.NoError(err)
	results, err := sim.Run(context.Background())
	require.NoError(err)

	// Blob 0 reaches an honest tally of 2 in block 2, before node 2 votes
	require.Len(simtest.Ballots(results, 0), 8)
	for _, block := range results.Blocks {
		ballot := block.Votes[0].Ballots[1]
		require.Equal(dasim.NodeID(2), ballot.Node)
		if block.Height < 2 {
			require.Equal(dasim.Yes, ballot.Vote)
			require.False(ballot.Counted)
		} else {
			require.Equal(dasim.No, ballot.Vote)
			require.True(ballot.Counted)
		}
	}

	blob, ok := results.Blob(0)
	require.True(ok)
	require.Equal(uint64(4), blob.HonestVotes)
	require.Equal(uint64(3), blob.MaliciousVotes)
}

func TestSimulationBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		depth     uint64
		blocks    uint64
		confirmed []dasim.BlobID
	}{
		{
			name:   "fewer blocks than depth",
			depth:  10,
			blocks: 5,
		},
		{
			name:      "blocks equal depth",
			depth:     5,
			blocks:    5,
			confirmed: []dasim.BlobID{0},
		},
		{
			name:      "depth one",
			depth:     1,
			blocks:    3,
			confirmed: []dasim.BlobID{0, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			config := simtest.NewConfig(20, 5, 3, tt.depth, tt.blocks)
			results := simtest.Run(t, config, dasim.BaselineName)

			var confirmed []dasim.BlobID
			for _, blob := range results.Confirmed() {
				confirmed = append(confirmed, blob.ID)
			}
			require.Equal(tt.confirmed, confirmed)
			require.Len(results.Blobs, int(tt.blocks))
			if len(tt.confirmed) == 1 {
				require.Equal(tt.blocks, results.Blobs[0].ConfirmedAt)
			}
		})
	}
}

func TestSimulationObserver(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	config := simtest.NewConfig(20, 5, 3, 4, 12)
	observer := simmock.NewObserver(ctrl, 12)

	strategy, err := dasim.NewStrategy(dasim.BaselineName, config)
	require.NoError(err)
	sim, err := dasim.New(config, strategy,
		dasim.WithObserver(observer),
		dasim.WithLogger(log.NewNoOpLogger()),
		dasim.WithMetrics(metric.NewRegistry(), "test"),
	)
	require.NoError(err)

	_, err = sim.Run(context.Background())
	require.NoError(err)
}

func TestSimulationMetrics(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	config := simtest.NewConfig(20, 5, 3, 4, 12)
	results := simtest.Run(t, config, dasim.BaselineName, dasim.WithMetrics(registry, "sim"))
	require.Len(results.Confirmed(), 9)

	families, err := registry.Gather()
	require.NoError(err)
	require.NotEmpty(families)

	var buf bytes.Buffer
	for _, family := range families {
		_, err := expfmt.MetricFamilyToText(&buf, family)
		require.NoError(err)
	}
	out := buf.String()
	require.Contains(out, "sim_blocks 12\n")
	require.Contains(out, "sim_height 12\n")
	require.Contains(out, "sim_blobs_confirmed 9\n")
	require.Contains(out, "sim_blobs_pending 3\n")
	require.Contains(out, "sim_votes_released 0\n")
}

func TestSimulationFinished(t *testing.T) {
	require := require.New(t)

	config := simtest.NewConfig(20, 5, 3, 2, 4)
	strategy, err := dasim.NewStrategy(dasim.BaselineName, config)
	require.NoError(err)
	sim, err := dasim.New(config, strategy)
	require.NoError(err)

	results, err := sim.Run(context.Background())
	require.NoError(err)
	require.Equal(dasim.Finished, sim.State())
	require.Len(results.Blocks, 4)

	_, err = sim.Step(context.Background())
	require.ErrorIs(err, dasim.ErrFinished)
	require.Equal(uint64(4), sim.Height())
}

func TestSimulationCancellation(t *testing.T) {
	require := require.New(t)

	config := simtest.NewConfig(20, 5, 3, 4, 100)
	strategy, err := dasim.NewStrategy(dasim.VoteCensorshipName, config)
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sim, err := dasim.New(config, strategy, dasim.WithObserver(dasim.ObserverFunc(func(block *dasim.Block) {
		if block.Height == 10 {
			cancel()
		}
	})))
	require.NoError(err)

	results, err := sim.Run(ctx)
	require.ErrorIs(err, context.Canceled)
	require.Equal(dasim.Running, sim.State())
	require.Equal(uint64(10), sim.Height())
	require.Len(results.Blocks, 10)
	require.Len(results.Blobs, 10)
	require.Equal(3, sim.Tracker().NumPending())
}

func TestSimulationSamplingErrors(t *testing.T) {
	config := simtest.NewConfig(10, 2, 3, 2, 5)

	tests := []struct {
		name   string
		expect func(sampler *simmock.MockSampler)
	}{
		{
			name: "committee error",
			expect: func(sampler *simmock.MockSampler) {
				sampler.EXPECT().Proposer().Return(dasim.NodeID(0))
				sampler.EXPECT().Committee(3).Return(nil, dasim.ErrSampling)
			},
		},
		{
			name: "short committee",
			expect: func(sampler *simmock.MockSampler) {
				sampler.EXPECT().Proposer().Return(dasim.NodeID(0))
				sampler.EXPECT().Committee(3).Return([]dasim.NodeID{0, 1}, nil)
			},
		},
		{
			name: "duplicate member",
			expect: func(sampler *simmock.MockSampler) {
				sampler.EXPECT().Proposer().Return(dasim.NodeID(0))
				sampler.EXPECT().Committee(3).Return([]dasim.NodeID{0, 1, 1}, nil)
			},
		},
		{
			name: "proposer out of range",
			expect: func(sampler *simmock.MockSampler) {
				sampler.EXPECT().Proposer().Return(dasim.NodeID(10))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			ctrl := gomock.NewController(t)
			sampler := simmock.NewMockSampler(ctrl)
			tt.expect(sampler)

			sim, err := dasim.New(config, &dasim.Baseline{}, dasim.WithSampler(sampler))
			require.NoError(err)

			_, err = sim.Step(context.Background())
			require.ErrorIs(err, dasim.ErrSampling)
			require.Zero(sim.Height())
			require.Zero(sim.Tracker().Len())
		})
	}
}

func TestReliableSamplingOversize(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	sampler := simmock.NewMockSampler(ctrl)
	sampler.EXPECT().Proposer().Return(dasim.NodeID(1))
	sampler.EXPECT().Committee(3).Return([]dasim.NodeID{0, 1, 9}, nil)
	sampler.EXPECT().Reliable(4).Return(nil, dasim.ErrSampling)

	config := simtest.NewConfig(10, 2, 3, 2, 5)
	config.ReliableNodes = 4
	sim, err := dasim.New(config, &dasim.Baseline{}, dasim.WithSampler(sampler))
	require.NoError(err)

	_, err = sim.Step(context.Background())
	require.ErrorIs(err, dasim.ErrSampling)
}

func TestNewSimulationInvalid(t *testing.T) {
	require := require.New(t)

	config := simtest.NewConfig(10, 2, 11, 2, 5)
	_, err := dasim.New(config, &dasim.Baseline{})
	require.ErrorIs(err, dasim.ErrConfig)

	config = simtest.NewConfig(10, 2, 3, 2, 5)
	_, err = dasim.New(config, nil)
	require.ErrorIs(err, dasim.ErrUnknownStrategy)
}

func TestRecordBallotsDisabled(t *testing.T) {
	require := require.New(t)

	config := simtest.NewConfig(50, 10, 5, 4, 20)
	recorded := simtest.Run(t, config, dasim.VoteCensorshipName)

	config.RecordBallots = false
	compact := simtest.Run(t, config, dasim.VoteCensorshipName)

	require.Equal(recorded.BlobSummaries(), compact.BlobSummaries())
	require.Equal(recorded.BlockSummaries(), compact.BlockSummaries())
	for _, block := range compact.Blocks {
		for _, votes := range block.Votes {
			require.Nil(votes.Ballots)
			require.Nil(votes.Released)
		}
	}
}
