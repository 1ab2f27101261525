// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

// Block records one simulation step
type Block struct {
	Height         uint64
	Proposer       NodeID
	ProposerHonest bool
	Committee      []NodeID
	// Votes holds one entry per blob that was pending during this block, in
	// ascending blob id order
	Votes []BlobVotes
	// Confirmed lists the blobs confirmed at the end of this block
	Confirmed []BlobID
}

// BlobVotes is what happened to one blob in one block
type BlobVotes struct {
	Blob BlobID
	// Ballots has one entry per committee member, in committee order. It is
	// nil when ballot recording is disabled.
	Ballots []Ballot
	// Released holds buffered honest ballots that a censorship-free block
	// included on behalf of earlier blocks
	Released []Ballot
	// Honest and Malicious are the tally increments this block applied
	Honest    uint64
	Malicious uint64
}

// Tally returns the counted votes of the block across all blobs
func (b *Block) Tally() (honest uint64, malicious uint64) {
	for _, v := range b.Votes {
		honest += v.Honest
		malicious += v.Malicious
	}
	return honest, malicious
}

func newBlobVotes(id BlobID, ballots []Ballot, released []Ballot, record bool) BlobVotes {
	v := BlobVotes{Blob: id}
	for _, ballot := range ballots {
		if !ballot.Counted {
			continue
		}
		if ballot.Honest {
			v.Honest++
		} else {
			v.Malicious++
		}
	}
	for _, ballot := range released {
		if ballot.Counted {
			v.Honest++
		}
	}
	if record {
		v.Ballots = ballots
		v.Released = released
	}
	return v
}
