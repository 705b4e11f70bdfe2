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

// Package manifest records which videos have been extracted.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const dbAPIversion = "1"

// Entry extraction result of a single video.
type Entry struct {
	RunID  string `json:"runID"`
	Frames int    `json:"frames"`
	Codec  string `json:"codec"`

	// AnnotatedFrames is -1 if the video has no annotation file.
	AnnotatedFrames int `json:"annotatedFrames"`

	Time int64 `json:"time"` // UnixMilli.
}

// NewDB new manifest database.
func NewDB(dbPath string, wg *sync.WaitGroup) *DB {
	return &DB{
		dbPath: dbPath,
		wg:     wg,
	}
}

// DB manifest database, keys are video ids.
type DB struct {
	dbPath string

	db *bolt.DB
	wg *sync.WaitGroup
}

// Init opens the database, it is closed when ctx is canceled.
func (m *DB) Init(ctx context.Context) error {
	dbOpts := &bolt.Options{
		Timeout: 1 * time.Second,
	}

	db, err := bolt.Open(m.dbPath, 0o600, dbOpts)
	if err != nil {
		return fmt.Errorf("could not open database: %w: %v", err, m.dbPath)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(dbAPIversion))
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("could not create bucket: %v, %w", dbAPIversion, err)
	}

	m.db = db

	m.wg.Add(1)
	go func() {
		<-ctx.Done()
		db.Close()
		m.wg.Done()
	}()

	return nil
}

// Put saves the entry for a video.
func (m *DB) Put(videoID string, entry Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(dbAPIversion)).Put([]byte(videoID), value)
	})
}

// Get returns the entry for a video, nil if it doesn't exist.
func (m *DB) Get(videoID string) (*Entry, error) {
	var entry *Entry
	err := m.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(dbAPIversion)).Get([]byte(videoID))
		if value == nil {
			return nil
		}
		entry = &Entry{}
		if err := json.Unmarshal(value, entry); err != nil {
			return fmt.Errorf("could not unmarshal entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the entry for a video.
func (m *DB) Delete(videoID string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(dbAPIversion)).Delete([]byte(videoID))
	})
}

// List returns all entries.
func (m *DB) List() (map[string]Entry, error) {
	entries := make(map[string]Entry)
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(dbAPIversion)).ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("could not unmarshal entry %s: %w", k, err)
			}
			entries[string(k)] = entry
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
