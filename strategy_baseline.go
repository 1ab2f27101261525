// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

// Baseline is the scenario without an attack: every member's vote counts
// toward its class's tally.
type Baseline struct {
	noOpStrategy

	// MaliciousVote is cast by malicious members. The zero value means No.
	MaliciousVote Vote
}

func (*Baseline) Name() string {
	return BaselineName
}

func (b *Baseline) CastVotes(ctx *VoteContext, blob *Blob, committee []NodeID) []Ballot {
	vote := b.MaliciousVote
	if vote == Abstain {
		vote = No
	}

	ballots := make([]Ballot, len(committee))
	for i, node := range committee {
		if ctx.Nodes.IsHonest(node) {
			ballots[i] = honestYes(ctx, blob, node)
		} else {
			ballots[i] = malicious(blob, node, vote, true)
		}
	}
	return ballots
}
