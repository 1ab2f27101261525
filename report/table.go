// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package report

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/luxfi/dasim"
)

// WriteBlockTable renders the per-block vote summary as a box table
func WriteBlockTable(w io.Writer, results *dasim.Results) error {
	table := tablewriter.NewWriter(w)
	table.Header("Block", "Block Proposer Status", "Total Votes", "Honest Votes", "Malicious Votes")
	for _, summary := range results.BlockSummaries() {
		err := table.Append([]string{
			strconv.FormatUint(summary.Height, 10),
			dasim.Status(summary.ProposerHonest),
			strconv.FormatUint(summary.Total, 10),
			strconv.FormatUint(summary.Honest, 10),
			strconv.FormatUint(summary.Malicious, 10),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteBlobTable renders the per-blob vote summary as a box table
func WriteBlobTable(w io.Writer, results *dasim.Results) error {
	table := tablewriter.NewWriter(w)
	table.Header("Blob", "Blob Proposer Status", "Total Votes", "Honest Votes", "Malicious Votes", "Confirmed")
	for _, summary := range results.BlobSummaries() {
		err := table.Append([]string{
			summary.ID.String(),
			dasim.Status(summary.ProposerHonest),
			strconv.FormatUint(summary.Total, 10),
			strconv.FormatUint(summary.Honest, 10),
			strconv.FormatUint(summary.Malicious, 10),
			strconv.FormatBool(summary.Confirmed),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}
