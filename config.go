// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import "fmt"

// DefaultSmartThreshold is the honest tally at which smart withholders start
// attacking a blob when no threshold is configured.
const DefaultSmartThreshold = 2

// Config describes one simulation run
type Config struct {
	// TotalNodes is N, the size of the node population
	TotalNodes int `yaml:"total_nodes" json:"total_nodes"`
	// MaliciousNodes is F, the number of adversarial nodes
	MaliciousNodes int `yaml:"malicious_nodes" json:"malicious_nodes"`
	// NodesPerBlock is M, the committee size
	NodesPerBlock int `yaml:"nodes_per_block" json:"nodes_per_block"`
	// ConfirmationDepth is K, the number of blocks a blob collects votes in
	// before it is confirmed
	ConfirmationDepth uint64 `yaml:"confirmation_depth" json:"confirmation_depth"`
	// TotalBlocks is T, the number of blocks to produce
	TotalBlocks uint64 `yaml:"total_blocks" json:"total_blocks"`
	// ReliableNodes is the number of honest nodes able to see each block's
	// data. Zero disables the refinement and every honest node sees every
	// blob.
	ReliableNodes int `yaml:"reliable_nodes" json:"reliable_nodes"`
	// MaliciousPowerBlock is the absolute height at which data withholding
	// starts. Zero falls back to TotalBlocks - KF.
	MaliciousPowerBlock uint64 `yaml:"malicious_power_block" json:"malicious_power_block"`
	// KF is the number of trailing attack blocks used when
	// MaliciousPowerBlock is unset
	KF uint64 `yaml:"k_f" json:"k_f"`
	// SmartThreshold is the honest tally that flips smart withholders from
	// silent support to counted rejection
	SmartThreshold uint64 `yaml:"smart_withholding_threshold" json:"smart_withholding_threshold"`
	// BaselineMaliciousVote is what malicious members cast under the
	// baseline strategy. The zero value means No.
	BaselineMaliciousVote Vote `yaml:"-" json:"-"`
	// Seed feeds the run's random generator
	Seed int64 `yaml:"random_seed" json:"random_seed"`
	// RecordBallots keeps every ballot in the block records. Disabling it
	// keeps only per-blob tallies, which large runs need to fit in memory.
	RecordBallots bool `yaml:"record_ballots" json:"record_ballots"`
}

// DefaultConfig returns the parameters of the reference study
func DefaultConfig() Config {
	return Config{
		TotalNodes:            10_000,
		MaliciousNodes:        2_000,
		NodesPerBlock:         10,
		ConfirmationDepth:     150,
		TotalBlocks:           15_000,
		KF:                    150,
		SmartThreshold:        DefaultSmartThreshold,
		BaselineMaliciousVote: No,
		RecordBallots:         true,
	}
}

// Verify returns an error wrapping ErrConfig if the configuration is not
// internally consistent.
func (c Config) Verify() error {
	switch {
	case c.TotalNodes <= 0:
		return fmt.Errorf("%w: total nodes %d must be positive", ErrConfig, c.TotalNodes)
	case c.MaliciousNodes < 0:
		return fmt.Errorf("%w: malicious nodes %d cannot be negative", ErrConfig, c.MaliciousNodes)
	case c.MaliciousNodes > c.TotalNodes:
		return fmt.Errorf("%w: malicious nodes %d exceed total nodes %d", ErrConfig, c.MaliciousNodes, c.TotalNodes)
	case c.NodesPerBlock <= 0:
		return fmt.Errorf("%w: nodes per block %d must be positive", ErrConfig, c.NodesPerBlock)
	case c.NodesPerBlock > c.TotalNodes:
		return fmt.Errorf("%w: nodes per block %d exceed total nodes %d", ErrConfig, c.NodesPerBlock, c.TotalNodes)
	case c.ConfirmationDepth == 0:
		return fmt.Errorf("%w: confirmation depth must be at least 1", ErrConfig)
	case c.TotalBlocks == 0:
		return fmt.Errorf("%w: total blocks must be at least 1", ErrConfig)
	case c.ReliableNodes < 0:
		return fmt.Errorf("%w: reliable nodes %d cannot be negative", ErrConfig, c.ReliableNodes)
	case c.ReliableNodes > c.TotalNodes-c.MaliciousNodes:
		return fmt.Errorf("%w: reliable nodes %d exceed honest nodes %d", ErrConfig, c.ReliableNodes, c.TotalNodes-c.MaliciousNodes)
	}
	return nil
}

// ActivationHeight is the first height at which data withholding is active
func (c Config) ActivationHeight() uint64 {
	if c.MaliciousPowerBlock != 0 {
		return c.MaliciousPowerBlock
	}
	if c.KF >= c.TotalBlocks {
		return 0
	}
	return c.TotalBlocks - c.KF
}
