// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

// Results holds the records of one run in creation order
type Results struct {
	Strategy string
	Config   Config
	Blocks   []*Block
	// Blobs is indexed by BlobID
	Blobs []*Blob
}

// BlockSummary is the per-block row of a run report
type BlockSummary struct {
	Height         uint64
	Proposer       NodeID
	ProposerHonest bool
	Total          uint64
	Honest         uint64
	Malicious      uint64
}

// BlobSummary is the per-blob row of a run report
type BlobSummary struct {
	ID             BlobID
	ProposerHonest bool
	Total          uint64
	Honest         uint64
	Malicious      uint64
	Confirmed      bool
}

func (r *Results) record(block *Block) {
	r.Blocks = append(r.Blocks, block)
}

// Blob returns the blob with id
func (r *Results) Blob(id BlobID) (*Blob, bool) {
	if uint64(id) >= uint64(len(r.Blobs)) {
		return nil, false
	}
	return r.Blobs[id], true
}

// Confirmed returns the confirmed blobs in id order
func (r *Results) Confirmed() []*Blob {
	confirmed := make([]*Blob, 0, len(r.Blobs))
	for _, blob := range r.Blobs {
		if blob.Confirmed {
			confirmed = append(confirmed, blob)
		}
	}
	return confirmed
}

func (r *Results) BlockSummaries() []BlockSummary {
	summaries := make([]BlockSummary, len(r.Blocks))
	for i, block := range r.Blocks {
		honest, malicious := block.Tally()
		summaries[i] = BlockSummary{
			Height:         block.Height,
			Proposer:       block.Proposer,
			ProposerHonest: block.ProposerHonest,
			Total:          honest + malicious,
			Honest:         honest,
			Malicious:      malicious,
		}
	}
	return summaries
}

func (r *Results) BlobSummaries() []BlobSummary {
	summaries := make([]BlobSummary, len(r.Blobs))
	for i, blob := range r.Blobs {
		summaries[i] = BlobSummary{
			ID:             blob.ID,
			ProposerHonest: blob.ProposerHonest,
			Total:          blob.TotalVotes(),
			Honest:         blob.HonestVotes,
			Malicious:      blob.MaliciousVotes,
			Confirmed:      blob.Confirmed,
		}
	}
	return summaries
}
