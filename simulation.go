// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
	"github.com/luxfi/metric"
)

// DefaultNamespace prefixes the engine's metrics
const DefaultNamespace = "dasim"

var _ Observer = ObserverFunc(nil)

// State of a simulation
type State uint8

const (
	Running State = iota
	Finished
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Observer is notified after every block is recorded
type Observer interface {
	Observe(block *Block)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(block *Block)

func (f ObserverFunc) Observe(block *Block) {
	f(block)
}

// Option configures a Simulation
type Option interface {
	apply(options *options)
}

type optionFunc func(options *options)

func (o optionFunc) apply(options *options) {
	o(options)
}

type options struct {
	log        log.Logger
	sampler    Sampler
	registerer metric.Registerer
	namespace  string
	observers  []Observer
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log log.Logger) Option {
	return optionFunc(func(options *options) {
		options.log = log
	})
}

// WithSampler replaces the uniform sampler seeded from the config
func WithSampler(sampler Sampler) Option {
	return optionFunc(func(options *options) {
		options.sampler = sampler
	})
}

// WithMetrics registers the engine's metrics under namespace
func WithMetrics(registerer metric.Registerer, namespace string) Option {
	return optionFunc(func(options *options) {
		options.registerer = registerer
		options.namespace = namespace
	})
}

// WithObserver adds an observer notified after each block
func WithObserver(observer Observer) Option {
	return optionFunc(func(options *options) {
		options.observers = append(options.observers, observer)
	})
}

// Simulation drives one run: every Step produces one block, samples its
// committee, lets the strategy vote on every pending blob and advances the
// confirmation frontier. A Simulation is not safe for concurrent use.
type Simulation struct {
	config   Config
	log      log.Logger
	nodes    *NodeSet
	sampler  Sampler
	strategy Strategy
	tracker  *Tracker
	metrics  *metrics

	observers []Observer
	results   *Results

	height uint64
	state  State
}

// New returns a simulation of config under strategy. strategy must be a
// fresh instance; it accumulates per-run state.
func New(config Config, strategy Strategy, opts ...Option) (*Simulation, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: nil strategy", ErrUnknownStrategy)
	}

	nodes, err := NewNodeSet(config.TotalNodes, config.MaliciousNodes)
	if err != nil {
		return nil, err
	}

	o := &options{
		log:        log.NewNoOpLogger(),
		registerer: metric.NewRegistry(),
		namespace:  DefaultNamespace,
	}
	for _, opt := range opts {
		opt.apply(o)
	}
	if o.sampler == nil {
		o.sampler = NewUniformSampler(nodes, config.Seed)
	}

	tracker, err := NewTracker(o.log, config.ConfirmationDepth)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(o.registerer, o.namespace)
	if err != nil {
		return nil, err
	}

	if config.TotalBlocks < config.ConfirmationDepth {
		o.log.Warn("run is shorter than the confirmation depth",
			log.Uint64("totalBlocks", config.TotalBlocks),
			log.Uint64("confirmationDepth", config.ConfirmationDepth),
		)
	}

	return &Simulation{
		config:    config,
		log:       o.log,
		nodes:     nodes,
		sampler:   o.sampler,
		strategy:  strategy,
		tracker:   tracker,
		metrics:   m,
		observers: o.observers,
		results: &Results{
			Strategy: strategy.Name(),
			Config:   config,
			Blocks:   make([]*Block, 0, min(config.TotalBlocks, 1<<20)),
		},
	}, nil
}

// Step produces the next block. Sampling failures are fatal: the block is not
// applied and the error is returned. Stepping a finished simulation returns
// ErrFinished.
func (s *Simulation) Step(ctx context.Context) (*Block, error) {
	if s.state == Finished {
		return nil, ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	height := s.height + 1

	// Draw everything first so that a failed draw leaves no partial block.
	proposer := s.sampler.Proposer()
	if int(proposer) < 0 || int(proposer) >= s.nodes.Len() {
		return nil, fmt.Errorf("%w: proposer %s out of range at height %d", ErrSampling, proposer, height)
	}
	committee, err := s.sampler.Committee(s.config.NodesPerBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to sample committee at height %d: %w", height, err)
	}
	if err := s.verifyCommittee(committee); err != nil {
		return nil, fmt.Errorf("invalid committee at height %d: %w", height, err)
	}
	var reliable set.Set[NodeID]
	if s.config.ReliableNodes > 0 {
		reliable, err = s.sampler.Reliable(s.config.ReliableNodes)
		if err != nil {
			return nil, fmt.Errorf("failed to sample reliable nodes at height %d: %w", height, err)
		}
	}

	proposerHonest := s.nodes.IsHonest(proposer)
	if _, err := s.tracker.Create(height, proposer, proposerHonest); err != nil {
		return nil, err
	}

	voteCtx := &VoteContext{
		Height:         height,
		Proposer:       proposer,
		ProposerHonest: proposerHonest,
		Nodes:          s.nodes,
		Reliable:       reliable,
	}
	pending := s.tracker.Pending()
	released := s.strategy.BeginBlock(voteCtx, pending)

	block := &Block{
		Height:         height,
		Proposer:       proposer,
		ProposerHonest: proposerHonest,
		Committee:      committee,
		Votes:          make([]BlobVotes, 0, len(pending)),
	}
	for _, blob := range pending {
		ballots := s.strategy.CastVotes(voteCtx, blob, committee)
		s.metrics.observeBallots(ballots, released[blob.ID])
		block.Votes = append(block.Votes, newBlobVotes(blob.ID, ballots, released[blob.ID], s.config.RecordBallots))
	}

	if confirmed, ok := s.tracker.Advance(height); ok {
		s.strategy.Confirmed(confirmed)
		block.Confirmed = append(block.Confirmed, confirmed.ID)
	}

	s.height = height
	s.results.record(block)
	s.metrics.observeBlock(block, s.tracker.NumPending())

	honest, malicious := block.Tally()
	s.log.Debug("produced block",
		log.Uint64("height", height),
		log.Stringer("proposer", proposer),
		log.Bool("proposerHonest", proposerHonest),
		log.Int("pending", len(pending)),
		log.Uint64("honestVotes", honest),
		log.Uint64("maliciousVotes", malicious),
		log.Int("confirmed", len(block.Confirmed)),
	)
	for _, observer := range s.observers {
		observer.Observe(block)
	}

	if height >= s.config.TotalBlocks {
		s.state = Finished
		s.log.Info("simulation finished",
			log.String("strategy", s.strategy.Name()),
			log.Uint64("blocks", height),
			log.Int("blobs", s.tracker.Len()),
			log.Int("pending", s.tracker.NumPending()),
		)
	}
	return block, nil
}

// Run steps until the last block. Cancellation is checked between blocks;
// when ctx is cancelled the results produced so far are returned with the
// context's error.
func (s *Simulation) Run(ctx context.Context) (*Results, error) {
	for s.state == Running {
		if _, err := s.Step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.log.Info("simulation interrupted",
					log.String("strategy", s.strategy.Name()),
					log.Uint64("height", s.height),
				)
			}
			return s.Results(), err
		}
	}
	return s.Results(), nil
}

func (s *Simulation) verifyCommittee(committee []NodeID) error {
	if len(committee) != s.config.NodesPerBlock {
		return fmt.Errorf("%w: committee has %d members, expected %d", ErrSampling, len(committee), s.config.NodesPerBlock)
	}
	seen := set.NewSet[NodeID](len(committee))
	for _, node := range committee {
		if int(node) < 0 || int(node) >= s.nodes.Len() {
			return fmt.Errorf("%w: node %s out of range", ErrSampling, node)
		}
		if seen.Contains(node) {
			return fmt.Errorf("%w: node %s sampled twice", ErrSampling, node)
		}
		seen.Add(node)
	}
	return nil
}

// Results returns the records produced so far
func (s *Simulation) Results() *Results {
	s.results.Blobs = s.tracker.Blobs()
	return s.results
}

// Height returns the height of the last produced block
func (s *Simulation) Height() uint64 {
	return s.height
}

func (s *Simulation) State() State {
	return s.state
}

func (s *Simulation) Nodes() *NodeSet {
	return s.nodes
}

// Tracker exposes the blob registry for inspection
func (s *Simulation) Tracker() *Tracker {
	return s.tracker
}
