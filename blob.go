// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/luxfi/ids"
)

// Blob is one unit of data proposed at a height. Its tallies change only while
// it is pending; once Confirmed is set the blob is frozen.
type Blob struct {
	ID     BlobID
	Height uint64
	// Commitment is a digest of the blob's identity, stable across runs with
	// the same seed
	Commitment     ids.ID
	Proposer       NodeID
	ProposerHonest bool

	HonestVotes    uint64
	MaliciousVotes uint64

	Confirmed   bool
	ConfirmedAt uint64
}

func newBlob(id BlobID, height uint64, proposer NodeID, proposerHonest bool) *Blob {
	return &Blob{
		ID:             id,
		Height:         height,
		Commitment:     commitment(id, height, proposer),
		Proposer:       proposer,
		ProposerHonest: proposerHonest,
	}
}

// TotalVotes returns the number of counted votes
func (b *Blob) TotalVotes() uint64 {
	return b.HonestVotes + b.MaliciousVotes
}

func commitment(id BlobID, height uint64, proposer NodeID) ids.ID {
	var buf [3 * 8]byte
	binary.BigEndian.PutUint64(buf[0:], uint64(id))
	binary.BigEndian.PutUint64(buf[8:], height)
	binary.BigEndian.PutUint64(buf[16:], uint64(proposer))
	return ids.ID(sha256.Sum256(buf[:]))
}
