// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luxfi/dasim"
)

var (
	ballotsHeader = []string{"Block", "Proposer(Status)", "Blob ID", "Votes(Status)", "Honest Votes", "Malicious Votes"}
	blobsHeader   = []string{"blob_id", "total_votes", "honest_votes", "malicious_votes", "confirmed"}
)

// WriteBallotsCSV writes one row per (block, pending blob). The votes column
// lists every ballot that carried a vote as vote(status) joined by ';',
// released ballots last, whether or not it was counted. Blocks recorded
// without ballots have an empty votes column.
func WriteBallotsCSV(w io.Writer, results *dasim.Results) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ballotsHeader); err != nil {
		return err
	}

	var votes []string
	for _, block := range results.Blocks {
		proposer := fmt.Sprintf("%s(%s)", block.Proposer, dasim.Status(block.ProposerHonest))
		height := strconv.FormatUint(block.Height, 10)
		for _, blobVotes := range block.Votes {
			votes = votes[:0]
			votes = appendVotes(votes, blobVotes.Ballots)
			votes = appendVotes(votes, blobVotes.Released)

			err := writer.Write([]string{
				height,
				proposer,
				blobVotes.Blob.String(),
				strings.Join(votes, ";"),
				strconv.FormatUint(blobVotes.Honest, 10),
				strconv.FormatUint(blobVotes.Malicious, 10),
			})
			if err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func appendVotes(votes []string, ballots []dasim.Ballot) []string {
	for _, ballot := range ballots {
		if ballot.Vote != dasim.Abstain {
			votes = append(votes, ballot.Vote.String()+"("+dasim.Status(ballot.Honest)+")")
		}
	}
	return votes
}

// WriteBlobsCSV writes one row per blob in id order
func WriteBlobsCSV(w io.Writer, results *dasim.Results) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(blobsHeader); err != nil {
		return err
	}
	for _, summary := range results.BlobSummaries() {
		err := writer.Write([]string{
			summary.ID.String(),
			strconv.FormatUint(summary.Total, 10),
			strconv.FormatUint(summary.Honest, 10),
			strconv.FormatUint(summary.Malicious, 10),
			strconv.FormatBool(summary.Confirmed),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
