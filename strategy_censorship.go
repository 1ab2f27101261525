// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

// VoteCensorship models malicious proposers dropping honest attestations from
// their blocks. Dropped votes are buffered and the next honest proposer
// includes all of them before its own votes, so censorship delays honest
// votes without destroying them. Votes still buffered when their blob is
// confirmed are lost.
type VoteCensorship struct {
	buffered *mailbox
}

// NewVoteCensorship returns a censorship strategy with an empty buffer
func NewVoteCensorship() *VoteCensorship {
	return &VoteCensorship{
		buffered: newMailbox(),
	}
}

func (*VoteCensorship) Name() string {
	return VoteCensorshipName
}

// Buffered returns the number of honest ballots waiting for inclusion on
// blob id
func (v *VoteCensorship) Buffered(id BlobID) int {
	return v.buffered.len(id)
}

// Stats returns the totals of buffered, released and dropped ballots
func (v *VoteCensorship) Stats() (enqueued, released, dropped uint64) {
	return v.buffered.enqueued, v.buffered.released, v.buffered.dropped
}

func (v *VoteCensorship) BeginBlock(ctx *VoteContext, pending []*Blob) map[BlobID][]Ballot {
	if !ctx.ProposerHonest || v.buffered.size == 0 {
		return nil
	}

	released := make(map[BlobID][]Ballot)
	for _, blob := range pending {
		ballots := v.buffered.drain(blob.ID)
		if len(ballots) == 0 {
			continue
		}
		for i := range ballots {
			ballots[i].Counted = true
		}
		blob.HonestVotes += uint64(len(ballots))
		released[blob.ID] = ballots
	}
	return released
}

func (v *VoteCensorship) CastVotes(ctx *VoteContext, blob *Blob, committee []NodeID) []Ballot {
	ballots := make([]Ballot, len(committee))
	for i, node := range committee {
		switch {
		case !ctx.Nodes.IsHonest(node):
			ballots[i] = malicious(blob, node, No, true)
		case !ctx.CanSee(node):
			ballots[i] = Ballot{Node: node, Honest: true, Vote: Abstain}
		case ctx.ProposerHonest:
			ballots[i] = honestYes(ctx, blob, node)
		default:
			v.buffered.push(blob.ID, Ballot{Node: node, Honest: true, Vote: Yes})
			ballots[i] = Ballot{Node: node, Honest: true, Vote: Abstain}
		}
	}
	return ballots
}

func (v *VoteCensorship) Confirmed(blob *Blob) {
	v.buffered.drop(blob.ID)
}
