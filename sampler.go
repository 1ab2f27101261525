// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"fmt"
	"math/rand"

	"github.com/luxfi/math/set"
)

var _ Sampler = (*UniformSampler)(nil)

// Sampler draws the random participants of each block. The driver calls
// Proposer, Committee and, when the reliable refinement is enabled, Reliable
// exactly once per block in that order.
type Sampler interface {
	// Proposer returns the node producing the block
	Proposer() NodeID
	// Committee returns size distinct nodes drawn from the whole population
	Committee(size int) ([]NodeID, error)
	// Reliable returns size distinct honest nodes able to see the block's
	// data
	Reliable(size int) (set.Set[NodeID], error)
}

// UniformSampler draws uniformly at random without replacement from an
// explicitly seeded generator it owns.
type UniformSampler struct {
	rng *rand.Rand

	// all and honest are permuted in place by every draw. A draw only needs
	// the pool to hold the right elements, not a particular order.
	all    []NodeID
	honest []NodeID
}

// NewUniformSampler returns a sampler over nodes seeded with seed
func NewUniformSampler(nodes *NodeSet, seed int64) *UniformSampler {
	all := make([]NodeID, nodes.Len())
	for i := range all {
		all[i] = NodeID(i)
	}
	honest := make([]NodeID, nodes.NumHonest())
	copy(honest, all[:nodes.NumHonest()])

	return &UniformSampler{
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404
		all:    all,
		honest: honest,
	}
}

func (s *UniformSampler) Proposer() NodeID {
	return s.all[s.rng.Intn(len(s.all))]
}

func (s *UniformSampler) Committee(size int) ([]NodeID, error) {
	return s.sample(s.all, size)
}

func (s *UniformSampler) Reliable(size int) (set.Set[NodeID], error) {
	sampled, err := s.sample(s.honest, size)
	if err != nil {
		return nil, err
	}
	return set.Of(sampled...), nil
}

// sample runs the first size steps of a Fisher-Yates shuffle over pool and
// returns a copy of the shuffled prefix.
func (s *UniformSampler) sample(pool []NodeID, size int) ([]NodeID, error) {
	if size < 0 || size > len(pool) {
		return nil, fmt.Errorf("%w: requested %d nodes from a pool of %d", ErrSampling, size, len(pool))
	}
	for i := 0; i < size; i++ {
		j := i + s.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	sampled := make([]NodeID, size)
	copy(sampled, pool[:size])
	return sampled, nil
}
