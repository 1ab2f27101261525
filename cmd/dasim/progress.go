// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/luxfi/dasim"
	"github.com/luxfi/log"
)

const progressLogInterval = 5 * time.Second

var _ dasim.Observer = (*progress)(nil)

// progress is shared by every simulation of a sweep. On a terminal it drives
// a progress bar, otherwise it logs at most once per progressLogInterval.
type progress struct {
	log   log.Logger
	total uint64

	bar     *progressbar.ProgressBar
	limiter *rate.Limiter
	blocks  atomic.Uint64
}

func newProgress(logger log.Logger, total uint64, quiet bool) *progress {
	p := &progress{
		log:     logger,
		total:   total,
		limiter: rate.NewLimiter(rate.Every(progressLogInterval), 1),
	}
	if !quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		p.bar = progressbar.NewOptions64(
			int64(total),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("simulating"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *progress) Observe(*dasim.Block) {
	blocks := p.blocks.Add(1)
	if p.bar != nil {
		_ = p.bar.Add(1)
		return
	}
	if p.limiter.Allow() {
		p.log.Info("simulating",
			log.Uint64("blocks", blocks),
			log.Uint64("total", p.total),
		)
	}
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
