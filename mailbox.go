// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

// mailbox buffers honest ballots a censoring proposer kept out of its block,
// per blob, until a later honest proposer includes them. It is owned by a
// single strategy instance and is not safe for concurrent use.
type mailbox struct {
	queues map[BlobID][]Ballot
	size   int

	enqueued uint64
	released uint64
	dropped  uint64
}

func newMailbox() *mailbox {
	return &mailbox{
		queues: make(map[BlobID][]Ballot),
	}
}

func (m *mailbox) push(id BlobID, ballot Ballot) {
	m.queues[id] = append(m.queues[id], ballot)
	m.size++
	m.enqueued++
}

// drain removes and returns every ballot buffered for id in arrival order
func (m *mailbox) drain(id BlobID) []Ballot {
	ballots, ok := m.queues[id]
	if !ok {
		return nil
	}
	delete(m.queues, id)
	m.size -= len(ballots)
	m.released += uint64(len(ballots))
	return ballots
}

// drop discards the ballots buffered for id
func (m *mailbox) drop(id BlobID) int {
	ballots, ok := m.queues[id]
	if !ok {
		return 0
	}
	delete(m.queues, id)
	m.size -= len(ballots)
	m.dropped += uint64(len(ballots))
	return len(ballots)
}

// len returns the number of ballots buffered for id
func (m *mailbox) len(id BlobID) int {
	return len(m.queues[id])
}
