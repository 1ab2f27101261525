// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"fmt"
	"strings"

	"github.com/luxfi/math/set"
)

// Names of the adversarial scenarios
const (
	BaselineName             = "basic"
	VoteCensorshipName       = "vote_censorship"
	DataWithholdingName      = "data_withholding"
	SmartDataWithholdingName = "smart_data_withholding"
)

var (
	_ Strategy = (*Baseline)(nil)
	_ Strategy = (*VoteCensorship)(nil)
	_ Strategy = (*DataWithholding)(nil)
	_ Strategy = (*SmartDataWithholding)(nil)

	strategyNames = []string{
		BaselineName,
		VoteCensorshipName,
		DataWithholdingName,
		SmartDataWithholdingName,
	}
)

// Strategy decides how a committee votes on pending blobs. Implementations
// may only mutate the tallies of the blob they are voting on, plus whatever
// per-blob state they own.
type Strategy interface {
	// Name returns the scenario name used in reports
	Name() string
	// BeginBlock is called once per block before any blob is voted on.
	// pending is in ascending blob id order. It returns buffered ballots
	// the block includes on behalf of earlier blocks, keyed by blob.
	BeginBlock(ctx *VoteContext, pending []*Blob) map[BlobID][]Ballot
	// CastVotes returns one ballot per committee member, in committee order,
	// and applies the counted ones to blob.
	CastVotes(ctx *VoteContext, blob *Blob, committee []NodeID) []Ballot
	// Confirmed is called once when blob leaves the pending set
	Confirmed(blob *Blob)
}

// VoteContext is the per-block information strategies vote with
type VoteContext struct {
	Height         uint64
	Proposer       NodeID
	ProposerHonest bool
	Nodes          *NodeSet
	// Reliable is the set of honest nodes able to see the block's data. A
	// nil set means every honest node can.
	Reliable set.Set[NodeID]
}

// CanSee reports whether node is able to download and verify the block's
// data. Malicious nodes always can.
func (c *VoteContext) CanSee(node NodeID) bool {
	if c.Reliable == nil || !c.Nodes.IsHonest(node) {
		return true
	}
	return c.Reliable.Contains(node)
}

// noOpStrategy provides the hooks strategies without per-blob state ignore
type noOpStrategy struct{}

func (noOpStrategy) BeginBlock(*VoteContext, []*Blob) map[BlobID][]Ballot {
	return nil
}

func (noOpStrategy) Confirmed(*Blob) {}

// honestYes is the ballot of an honest member that verified the data. Members
// that cannot see the data abstain.
func honestYes(ctx *VoteContext, blob *Blob, node NodeID) Ballot {
	if !ctx.CanSee(node) {
		return Ballot{Node: node, Honest: true, Vote: Abstain}
	}
	blob.HonestVotes++
	return Ballot{Node: node, Honest: true, Vote: Yes, Counted: true}
}

// malicious returns a malicious member's ballot, counting it if requested
func malicious(blob *Blob, node NodeID, vote Vote, counted bool) Ballot {
	if counted {
		blob.MaliciousVotes++
	}
	return Ballot{Node: node, Vote: vote, Counted: counted}
}

// StrategyNames returns the names accepted by NewStrategy
func StrategyNames() []string {
	names := make([]string, len(strategyNames))
	copy(names, strategyNames)
	return names
}

// NewStrategy returns a fresh instance of the named scenario parameterised by
// config. Strategies hold per-run state and must not be shared between
// simulations.
func NewStrategy(name string, config Config) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BaselineName, "baseline":
		return &Baseline{MaliciousVote: config.BaselineMaliciousVote}, nil
	case VoteCensorshipName, "censorship":
		return NewVoteCensorship(), nil
	case DataWithholdingName, "withholding":
		return &DataWithholding{ActivationHeight: config.ActivationHeight()}, nil
	case SmartDataWithholdingName, "smart":
		return &SmartDataWithholding{Threshold: config.SmartThreshold}, nil
	default:
		return nil, fmt.Errorf("%w: %q, expected one of %s", ErrUnknownStrategy, name, strings.Join(strategyNames, ", "))
	}
}
