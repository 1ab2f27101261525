// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	safemath "github.com/luxfi/math"

	"github.com/luxfi/dasim"
)

// DefaultWindow is the number of blobs the moving averages run over
const DefaultWindow = 100

// Blob heights are mapped onto a synthetic clock so the averagers decay per
// blob rather than per wall-clock second.
var epoch = time.Unix(0, 0)

// Distribution describes one vote tally over the confirmed blobs
type Distribution struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	// Rolling is the simple mean of the last window confirmed blobs, or of
	// all of them when fewer were confirmed
	Rolling float64
	// EWMA is the exponentially weighted average at the last confirmed blob,
	// with a halflife of the summary window
	EWMA float64
}

// Summary is the outcome of one run
type Summary struct {
	Strategy  string
	Blocks    uint64
	Blobs     int
	Confirmed int
	Pending   int
	// Window is the number of blobs the moving averages run over
	Window int
	// Contested counts confirmed blobs whose malicious support is at least
	// their honest support
	Contested int

	Honest    Distribution
	Malicious Distribution
}

// ContestedRatio returns the share of confirmed blobs that were contested
func (s Summary) ContestedRatio() float64 {
	if s.Confirmed == 0 {
		return 0
	}
	return float64(s.Contested) / float64(s.Confirmed)
}

// Summarize computes the vote statistics of the confirmed blobs of results,
// averaging over window blobs
func Summarize(results *dasim.Results, window int) Summary {
	confirmed := results.Confirmed()
	summary := Summary{
		Strategy:  results.Strategy,
		Blocks:    uint64(len(results.Blocks)),
		Blobs:     len(results.Blobs),
		Confirmed: len(confirmed),
		Pending:   len(results.Blobs) - len(confirmed),
	}
	if window <= 0 {
		window = DefaultWindow
	}
	summary.Window = window
	if len(confirmed) == 0 {
		return summary
	}
	halflife := time.Duration(window) * time.Second

	honest := make([]float64, len(confirmed))
	malicious := make([]float64, len(confirmed))
	var (
		honestAvg    = safemath.NewAverager(float64(confirmed[0].HonestVotes), halflife, at(confirmed[0]))
		maliciousAvg = safemath.NewAverager(float64(confirmed[0].MaliciousVotes), halflife, at(confirmed[0]))
	)
	for i, blob := range confirmed {
		honest[i] = float64(blob.HonestVotes)
		malicious[i] = float64(blob.MaliciousVotes)
		if blob.MaliciousVotes >= blob.HonestVotes {
			summary.Contested++
		}
		if i > 0 {
			honestAvg.Observe(honest[i], at(blob))
			maliciousAvg.Observe(malicious[i], at(blob))
		}
	}

	summary.Honest = distribution(honest, window)
	summary.Honest.EWMA = honestAvg.Read()
	summary.Malicious = distribution(malicious, window)
	summary.Malicious.EWMA = maliciousAvg.Read()
	return summary
}

func at(blob *dasim.Blob) time.Time {
	return epoch.Add(time.Duration(blob.Height) * time.Second)
}

// distribution takes values in blob order and sorts them in place. StdDev is
// the sample standard deviation, zero for a single value.
func distribution(values []float64, window int) Distribution {
	d := Distribution{
		Rolling: stat.Mean(values[max(len(values)-window, 0):], nil),
	}

	sort.Float64s(values)
	d.Mean = stat.Mean(values, nil)
	d.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	if len(values) > 1 {
		d.StdDev = stat.StdDev(values, nil)
	}
	d.Min = floats.Min(values)
	d.Max = floats.Max(values)
	return d
}

// WriteSummary writes a human readable summary of each run. Contested
// confirmations are highlighted when colored is set.
func WriteSummary(w io.Writer, summaries []Summary, colored bool) error {
	title := color.New(color.Bold)
	alert := color.New(color.FgRed, color.Bold)
	ok := color.New(color.FgGreen)
	for _, c := range []*color.Color{title, alert, ok} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, s := range summaries {
		if _, err := title.Fprintf(w, "%s\n", s.Strategy); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			"  blocks %d, blobs %d, confirmed %d, pending %d\n"+
				"  honest votes:    mean %.2f median %.2f std %.2f min %.0f max %.0f ma%d %.2f ewma %.2f\n"+
				"  malicious votes: mean %.2f median %.2f std %.2f min %.0f max %.0f ma%d %.2f ewma %.2f\n",
			s.Blocks, s.Blobs, s.Confirmed, s.Pending,
			s.Honest.Mean, s.Honest.Median, s.Honest.StdDev, s.Honest.Min, s.Honest.Max, s.Window, s.Honest.Rolling, s.Honest.EWMA,
			s.Malicious.Mean, s.Malicious.Median, s.Malicious.StdDev, s.Malicious.Min, s.Malicious.Max, s.Window, s.Malicious.Rolling, s.Malicious.EWMA,
		)
		if err != nil {
			return err
		}

		highlight := ok
		if s.Contested > 0 {
			highlight = alert
		}
		if _, err := highlight.Fprintf(w, "  contested confirmations: %d (%.2f%%)\n", s.Contested, 100*s.ContestedRatio()); err != nil {
			return err
		}
	}
	return nil
}
