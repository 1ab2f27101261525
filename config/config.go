// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads simulation settings files. Files are YAML; JSON
// documents are accepted as well since they are valid YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luxfi/dasim"
)

// Settings file keys
const (
	TotalNodesKey            = "total_nodes"
	MaliciousNodesKey        = "malicious_nodes"
	NodesPerBlockKey         = "nodes_per_block"
	ConfirmationDepthKey     = "confirmation_depth"
	TotalBlocksKey           = "total_blocks"
	RandomSeedKey            = "random_seed"
	ReliableNodesKey         = "reliable_nodes"
	MaliciousPowerBlockKey   = "malicious_power_block"
	KFKey                    = "k_f"
	SmartThresholdKey        = "smart_withholding_threshold"
	BaselineMaliciousVoteKey = "baseline_malicious_vote"
	RecordBallotsKey         = "record_ballots"
)

var errEmptyFile = errors.New("settings file is empty")

// file mirrors the settings file. Required keys are pointers so that a
// missing key can be told apart from a zero value.
type file struct {
	TotalNodes        *int    `yaml:"total_nodes"`
	MaliciousNodes    *int    `yaml:"malicious_nodes"`
	NodesPerBlock     *int    `yaml:"nodes_per_block"`
	ConfirmationDepth *uint64 `yaml:"confirmation_depth"`
	TotalBlocks       *uint64 `yaml:"total_blocks"`
	RandomSeed        *int64  `yaml:"random_seed"`

	ReliableNodes         int     `yaml:"reliable_nodes"`
	MaliciousPowerBlock   uint64  `yaml:"malicious_power_block"`
	KF                    *uint64 `yaml:"k_f"`
	SmartThreshold        *uint64 `yaml:"smart_withholding_threshold"`
	BaselineMaliciousVote string  `yaml:"baseline_malicious_vote"`
	RecordBallots         *bool   `yaml:"record_ballots"`
}

// Load reads and verifies the settings file at path
func Load(path string) (dasim.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return dasim.Config{}, fmt.Errorf("%w: failed to read %s: %w", dasim.ErrConfig, path, err)
	}
	config, err := Parse(b)
	if err != nil {
		return dasim.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse decodes and verifies a settings document. Unknown keys, values of
// the wrong type and missing required keys are rejected.
func Parse(b []byte) (dasim.Config, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return dasim.Config{}, fmt.Errorf("%w: %w", dasim.ErrConfig, errEmptyFile)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)

	var f file
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return dasim.Config{}, fmt.Errorf("%w: %w", dasim.ErrConfig, err)
	}

	var missing []string
	required := func(key string, set bool) {
		if !set {
			missing = append(missing, key)
		}
	}
	required(TotalNodesKey, f.TotalNodes != nil)
	required(MaliciousNodesKey, f.MaliciousNodes != nil)
	required(NodesPerBlockKey, f.NodesPerBlock != nil)
	required(ConfirmationDepthKey, f.ConfirmationDepth != nil)
	required(TotalBlocksKey, f.TotalBlocks != nil)
	required(RandomSeedKey, f.RandomSeed != nil)
	if len(missing) > 0 {
		return dasim.Config{}, fmt.Errorf("%w: missing required keys %s", dasim.ErrConfig, strings.Join(missing, ", "))
	}

	config := dasim.Config{
		TotalNodes:            *f.TotalNodes,
		MaliciousNodes:        *f.MaliciousNodes,
		NodesPerBlock:         *f.NodesPerBlock,
		ConfirmationDepth:     *f.ConfirmationDepth,
		TotalBlocks:           *f.TotalBlocks,
		Seed:                  *f.RandomSeed,
		ReliableNodes:         f.ReliableNodes,
		MaliciousPowerBlock:   f.MaliciousPowerBlock,
		KF:                    *f.ConfirmationDepth,
		SmartThreshold:        dasim.DefaultSmartThreshold,
		BaselineMaliciousVote: dasim.No,
		RecordBallots:         true,
	}
	if f.KF != nil {
		config.KF = *f.KF
	}
	if f.SmartThreshold != nil {
		config.SmartThreshold = *f.SmartThreshold
	}
	if f.RecordBallots != nil {
		config.RecordBallots = *f.RecordBallots
	}
	if f.BaselineMaliciousVote != "" {
		vote, err := dasim.ParseVote(f.BaselineMaliciousVote)
		if err != nil {
			return dasim.Config{}, fmt.Errorf("%s: %w", BaselineMaliciousVoteKey, err)
		}
		config.BaselineMaliciousVote = vote
	}

	if err := config.Verify(); err != nil {
		return dasim.Config{}, err
	}
	return config, nil
}
