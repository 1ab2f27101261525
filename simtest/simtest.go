// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package simtest provides helpers for driving small simulations in tests
package simtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/dasim"
)

// NewConfig returns a config of n nodes, f of them malicious, with committees
// of m, confirmation depth k and t blocks. Ballots are recorded.
func NewConfig(n, f, m int, k, t uint64) dasim.Config {
	return dasim.Config{
		TotalNodes:        n,
		MaliciousNodes:    f,
		NodesPerBlock:     m,
		ConfirmationDepth: k,
		TotalBlocks:       t,
		KF:                k,
		SmartThreshold:    dasim.DefaultSmartThreshold,
		Seed:              1,
		RecordBallots:     true,
	}
}

// Run runs config under the named strategy to completion
func Run(t testing.TB, config dasim.Config, strategy string, opts ...dasim.Option) *dasim.Results {
	t.Helper()

	s, err := dasim.NewStrategy(strategy, config)
	require.NoError(t, err)
	sim, err := dasim.New(config, s, opts...)
	require.NoError(t, err)
	results, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, dasim.Finished, sim.State())
	return results
}

// Ballots returns every ballot recorded for blob across the run, released
// ones included
func Ballots(results *dasim.Results, blob dasim.BlobID) []dasim.Ballot {
	var ballots []dasim.Ballot
	for _, block := range results.Blocks {
		for _, votes := range block.Votes {
			if votes.Blob != blob {
				continue
			}
			ballots = append(ballots, votes.Released...)
			ballots = append(ballots, votes.Ballots...)
		}
	}
	return ballots
}
