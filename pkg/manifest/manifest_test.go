// Copyright 2020-2021 The OS-NVR Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package manifest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "manifest.db")

	wg := &sync.WaitGroup{}
	db := NewDB(dbPath, wg)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, db.Init(ctx))

	return db, func() {
		cancel()
		wg.Wait()
	}
}

func TestDB(t *testing.T) {
	t.Run("putAndGet", func(t *testing.T) {
		db, cancel := newTestDB(t)
		defer cancel()

		entry := Entry{
			RunID:           uuid.NewString(),
			Frames:          1800,
			Codec:           "jpg",
			AnnotatedFrames: 1800,
			Time:            4000,
		}
		require.NoError(t, db.Put("set00/V000", entry))

		actual, err := db.Get("set00/V000")
		require.NoError(t, err)
		require.Equal(t, entry, *actual)
	})
	t.Run("missing", func(t *testing.T) {
		db, cancel := newTestDB(t)
		defer cancel()

		actual, err := db.Get("set00/V000")
		require.NoError(t, err)
		require.Nil(t, actual)
	})
	t.Run("list", func(t *testing.T) {
		db, cancel := newTestDB(t)
		defer cancel()

		require.NoError(t, db.Put("set00/V000", Entry{Frames: 1}))
		require.NoError(t, db.Put("set00/V001", Entry{Frames: 2}))
		require.NoError(t, db.Put("set00/V001", Entry{Frames: 3}))
		require.NoError(t, db.Put("set01/V000", Entry{AnnotatedFrames: -1}))
		require.NoError(t, db.Delete("set00/V000"))

		entries, err := db.List()
		require.NoError(t, err)
		expected := map[string]Entry{
			"set00/V001": {Frames: 3},
			"set01/V000": {AnnotatedFrames: -1},
		}
		require.Equal(t, expected, entries)
	})
	t.Run("reopen", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "manifest.db")

		for i := 0; i < 2; i++ {
			wg := &sync.WaitGroup{}
			db := NewDB(dbPath, wg)
			ctx, cancel := context.WithCancel(context.Background())
			require.NoError(t, db.Init(ctx))

			if i == 0 {
				require.NoError(t, db.Put("set02/V003", Entry{Frames: 7}))
			} else {
				entry, err := db.Get("set02/V003")
				require.NoError(t, err)
				require.Equal(t, 7, entry.Frames)
			}
			cancel()
			wg.Wait()
		}
	})
}
