// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeID identifies a node in [0, N)
type NodeID int

func (n NodeID) String() string {
	return strconv.Itoa(int(n))
}

// BlobID identifies a blob. Ids are dense and assigned in creation order, so
// the blob produced at height h has id h-1.
type BlobID uint64

func (b BlobID) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

// Vote is the tri-state outcome of a committee member looking at a blob
type Vote uint8

const (
	// Abstain means the member could not see the blob or its vote was kept
	// out of the block.
	Abstain Vote = iota
	Yes
	No
)

func (v Vote) String() string {
	switch v {
	case Abstain:
		return "abstain"
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "vote(" + strconv.Itoa(int(v)) + ")"
	}
}

// ParseVote parses the textual form of a Yes or No vote
func ParseVote(s string) (Vote, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "1", "true":
		return Yes, nil
	case "no", "0", "false":
		return No, nil
	default:
		return Abstain, fmt.Errorf("%w: vote %q must be yes or no", ErrConfig, s)
	}
}

// Ballot is one committee member's decision on one blob in one block
type Ballot struct {
	Node   NodeID
	Honest bool
	Vote   Vote
	// Counted reports whether this ballot incremented the blob's tally
	Counted bool
}

// Status returns the honesty label used in reports
func Status(honest bool) string {
	if honest {
		return "honest"
	}
	return "malicious"
}
