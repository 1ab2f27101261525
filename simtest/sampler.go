// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simtest

import (
	"fmt"

	"github.com/luxfi/math/set"

	"github.com/luxfi/dasim"
)

var _ dasim.Sampler = (*Sampler)(nil)

// Round is the scripted draw of one block
type Round struct {
	Proposer  dasim.NodeID
	Committee []dasim.NodeID
	// Reliable is returned by Reliable. It is ignored when the simulation
	// does not enable the reliable refinement.
	Reliable []dasim.NodeID
}

// Sampler replays Rounds, one per block. Once every round has been replayed
// it starts again from the first.
type Sampler struct {
	Rounds []Round

	round    int
	replayed int
}

// NewSampler returns a sampler replaying rounds
func NewSampler(rounds ...Round) *Sampler {
	return &Sampler{
		Rounds: rounds,
		round:  -1,
	}
}

// Proposer starts the next round
func (s *Sampler) Proposer() dasim.NodeID {
	s.round = (s.round + 1) % len(s.Rounds)
	s.replayed++
	return s.current().Proposer
}

func (s *Sampler) Committee(size int) ([]dasim.NodeID, error) {
	committee := s.current().Committee
	if len(committee) != size {
		return nil, fmt.Errorf("%w: scripted committee has %d members, requested %d", dasim.ErrSampling, len(committee), size)
	}
	return append([]dasim.NodeID(nil), committee...), nil
}

func (s *Sampler) Reliable(size int) (set.Set[dasim.NodeID], error) {
	reliable := s.current().Reliable
	if len(reliable) != size {
		return nil, fmt.Errorf("%w: scripted reliable set has %d members, requested %d", dasim.ErrSampling, len(reliable), size)
	}
	return set.Of(reliable...), nil
}

// Replayed returns the number of rounds started so far
func (s *Sampler) Replayed() int {
	return s.replayed
}

func (s *Sampler) current() Round {
	if s.round < 0 {
		s.round = 0
	}
	return s.Rounds[s.round]
}
