// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"fmt"

	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
)

// Tracker owns the blob registry and applies the depth-K confirmation rule.
//
// A blob created at height h has id h-1 and is confirmed by Advance(h+K-1):
// depth counts the creation block, so a blob is confirmed once it has been
// voted on in K blocks.
type Tracker struct {
	depth uint64
	log   log.Logger

	// blobs is indexed by BlobID
	blobs []*Blob
	// pending holds exactly the ids of unconfirmed blobs
	pending set.Set[BlobID]
	// frontier is the lowest id that may still be pending
	frontier BlobID
}

// NewTracker returns an empty registry confirming blobs at depth
func NewTracker(log log.Logger, depth uint64) (*Tracker, error) {
	if depth == 0 {
		return nil, fmt.Errorf("%w: confirmation depth must be at least 1", ErrConfig)
	}
	return &Tracker{
		depth:   depth,
		log:     log,
		pending: set.NewSet[BlobID](int(min(depth, 1<<16))),
	}, nil
}

// Create registers the blob produced at height by proposer. Heights must be
// created in order starting at 1.
func (t *Tracker) Create(height uint64, proposer NodeID, proposerHonest bool) (*Blob, error) {
	id := BlobID(len(t.blobs))
	if height != uint64(id)+1 {
		return nil, fmt.Errorf("%w: blob for height %d created after %d blobs", ErrRegistryInvariant, height, len(t.blobs))
	}

	blob := newBlob(id, height, proposer, proposerHonest)
	t.blobs = append(t.blobs, blob)
	t.pending.Add(id)
	return blob, nil
}

// Advance confirms the blob that reached depth at height and returns it. It
// returns false if no blob is due. A due blob that is missing or already
// confirmed violates the registry invariant; it is logged and skipped.
func (t *Tracker) Advance(height uint64) (*Blob, bool) {
	if height < t.depth {
		return nil, false
	}

	id := BlobID(height - t.depth)
	blob, ok := t.Get(id)
	switch {
	case !ok:
		t.log.Warn("skipping confirmation",
			log.Uint64("height", height),
			log.Stringer("blobID", id),
			log.Err(fmt.Errorf("%w: blob does not exist", ErrRegistryInvariant)),
		)
		return nil, false
	case blob.Confirmed:
		t.log.Warn("skipping confirmation",
			log.Uint64("height", height),
			log.Stringer("blobID", id),
			log.Uint64("confirmedAt", blob.ConfirmedAt),
			log.Err(fmt.Errorf("%w: blob already confirmed", ErrRegistryInvariant)),
		)
		return nil, false
	}

	blob.Confirmed = true
	blob.ConfirmedAt = height
	t.pending.Remove(id)
	for int(t.frontier) < len(t.blobs) && t.blobs[t.frontier].Confirmed {
		t.frontier++
	}
	return blob, true
}

// Get returns the blob with id
func (t *Tracker) Get(id BlobID) (*Blob, bool) {
	if uint64(id) >= uint64(len(t.blobs)) {
		return nil, false
	}
	return t.blobs[id], true
}

// Pending returns the unconfirmed blobs in ascending id order
func (t *Tracker) Pending() []*Blob {
	pending := make([]*Blob, 0, t.pending.Len())
	for _, blob := range t.blobs[t.frontier:] {
		if !blob.Confirmed {
			pending = append(pending, blob)
		}
	}
	return pending
}

func (t *Tracker) IsPending(id BlobID) bool {
	return t.pending.Contains(id)
}

func (t *Tracker) NumPending() int {
	return t.pending.Len()
}

// Blobs returns every blob created so far, indexed by id. The slice must not
// be modified.
func (t *Tracker) Blobs() []*Blob {
	return t.blobs
}

// Len returns the number of blobs created so far
func (t *Tracker) Len() int {
	return len(t.blobs)
}
