// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

// DataWithholding models an attacker that stops serving data from
// ActivationHeight on. Honest members can no longer verify samples and
// reject, while malicious members vote yes to manufacture support.
//
// Tallies count support: before activation only honest yes votes count,
// from activation on only malicious yes votes do.
type DataWithholding struct {
	noOpStrategy

	ActivationHeight uint64
}

func (*DataWithholding) Name() string {
	return DataWithholdingName
}

// Active reports whether data is being withheld at height
func (d *DataWithholding) Active(height uint64) bool {
	return height >= d.ActivationHeight
}

func (d *DataWithholding) CastVotes(ctx *VoteContext, blob *Blob, committee []NodeID) []Ballot {
	active := d.Active(ctx.Height)

	ballots := make([]Ballot, len(committee))
	for i, node := range committee {
		switch {
		case ctx.Nodes.IsHonest(node) && active:
			ballots[i] = Ballot{Node: node, Honest: true, Vote: No}
		case ctx.Nodes.IsHonest(node):
			ballots[i] = honestYes(ctx, blob, node)
		case active:
			ballots[i] = malicious(blob, node, Yes, true)
		default:
			ballots[i] = malicious(blob, node, No, false)
		}
	}
	return ballots
}

// SmartDataWithholding models an adversary that stays quiet while a blob
// looks unlikely to confirm and attacks it once its honest tally reaches
// Threshold.
type SmartDataWithholding struct {
	noOpStrategy

	Threshold uint64
}

func (*SmartDataWithholding) Name() string {
	return SmartDataWithholdingName
}

func (s *SmartDataWithholding) CastVotes(ctx *VoteContext, blob *Blob, committee []NodeID) []Ballot {
	ballots := make([]Ballot, len(committee))
	for i, node := range committee {
		switch {
		case ctx.Nodes.IsHonest(node):
			ballots[i] = honestYes(ctx, blob, node)
		case blob.HonestVotes >= s.Threshold:
			ballots[i] = malicious(blob, node, No, true)
		default:
			// Uncounted so the attack is not signalled early.
			ballots[i] = malicious(blob, node, Yes, false)
		}
	}
	return ballots
}
