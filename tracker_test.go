// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/log"
)

func TestTrackerConfirmsAtDepth(t *testing.T) {
	require := require.New(t)

	tracker, err := NewTracker(log.NewNoOpLogger(), 3)
	require.NoError(err)

	for height := uint64(1); height <= 6; height++ {
		blob, err := tracker.Create(height, 0, true)
		require.NoError(err)
		require.Equal(BlobID(height-1), blob.ID)
		require.Equal(height, blob.Height)

		confirmed, ok := tracker.Advance(height)
		if height < 3 {
			require.False(ok)
			continue
		}
		require.True(ok)
		require.Equal(BlobID(height-3), confirmed.ID)
		require.Equal(height, confirmed.ConfirmedAt)
		require.Equal(confirmed.Height+2, confirmed.ConfirmedAt)
	}

	require.Equal(6, tracker.Len())
	require.Equal(2, tracker.NumPending())
	pending := tracker.Pending()
	require.Len(pending, 2)
	require.Equal(BlobID(4), pending[0].ID)
	require.Equal(BlobID(5), pending[1].ID)
}

func TestTrackerPendingConsistency(t *testing.T) {
	require := require.New(t)

	tracker, err := NewTracker(log.NewNoOpLogger(), 4)
	require.NoError(err)

	for height := uint64(1); height <= 20; height++ {
		_, err := tracker.Create(height, 0, true)
		require.NoError(err)
		tracker.Advance(height)

		var expected []BlobID
		for _, blob := range tracker.Blobs() {
			require.Equal(!blob.Confirmed, tracker.IsPending(blob.ID))
			if !blob.Confirmed {
				expected = append(expected, blob.ID)
			}
		}

		var actual []BlobID
		for _, blob := range tracker.Pending() {
			actual = append(actual, blob.ID)
		}
		require.Equal(expected, actual)
		require.Equal(len(expected), tracker.NumPending())
	}
}

func TestTrackerDepthOne(t *testing.T) {
	require := require.New(t)

	tracker, err := NewTracker(log.NewNoOpLogger(), 1)
	require.NoError(err)

	_, err = tracker.Create(1, 0, true)
	require.NoError(err)
	require.Len(tracker.Pending(), 1)

	blob, ok := tracker.Advance(1)
	require.True(ok)
	require.Equal(BlobID(0), blob.ID)
	require.Zero(tracker.NumPending())
	require.Empty(tracker.Pending())
}

func TestTrackerInvariantViolationsAreSkipped(t *testing.T) {
	require := require.New(t)

	tracker, err := NewTracker(log.NewNoOpLogger(), 2)
	require.NoError(err)

	_, err = tracker.Create(1, 0, true)
	require.NoError(err)
	_, err = tracker.Create(2, 0, true)
	require.NoError(err)

	blob, ok := tracker.Advance(2)
	require.True(ok)
	require.Equal(uint64(2), blob.ConfirmedAt)

	// Confirming again must not move the confirmation height
	_, ok = tracker.Advance(2)
	require.False(ok)
	require.Equal(uint64(2), blob.ConfirmedAt)

	// Blob 8 was never created
	_, ok = tracker.Advance(10)
	require.False(ok)
	require.Equal(1, tracker.NumPending())
}

func TestTrackerCreateOutOfOrder(t *testing.T) {
	require := require.New(t)

	tracker, err := NewTracker(log.NewNoOpLogger(), 2)
	require.NoError(err)

	_, err = tracker.Create(2, 0, true)
	require.ErrorIs(err, ErrRegistryInvariant)
	require.Zero(tracker.Len())

	_, err = NewTracker(log.NewNoOpLogger(), 0)
	require.ErrorIs(err, ErrConfig)
}
