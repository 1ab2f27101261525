// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import "fmt"

// NodeSet partitions [0, N) into honest nodes [0, N-F) and malicious nodes
// [N-F, N). It is the only place that classifies nodes and is immutable after
// construction.
type NodeSet struct {
	total     int
	malicious int
}

// NewNodeSet returns the partition of total nodes of which malicious are
// adversarial
func NewNodeSet(total, malicious int) (*NodeSet, error) {
	switch {
	case total <= 0:
		return nil, fmt.Errorf("%w: total nodes %d must be positive", ErrConfig, total)
	case malicious < 0:
		return nil, fmt.Errorf("%w: malicious nodes %d cannot be negative", ErrConfig, malicious)
	case malicious > total:
		return nil, fmt.Errorf("%w: malicious nodes %d exceed total nodes %d", ErrConfig, malicious, total)
	}
	return &NodeSet{
		total:     total,
		malicious: malicious,
	}, nil
}

func (n *NodeSet) IsHonest(id NodeID) bool {
	return id >= 0 && int(id) < n.NumHonest()
}

func (n *NodeSet) IsMalicious(id NodeID) bool {
	return int(id) >= n.NumHonest() && int(id) < n.total
}

// Len returns N
func (n *NodeSet) Len() int {
	return n.total
}

func (n *NodeSet) NumHonest() int {
	return n.total - n.malicious
}

func (n *NodeSet) NumMalicious() int {
	return n.malicious
}
