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

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestDataset creates
//
//	<dataDir>
//	├── set00
//	│   ├── V001.seq
//	│   ├── V000.seq
//	│   ├── notes.txt
//	│   └── V002.seq/
//	└── annotations
func newTestDataset(t *testing.T) string {
	dataDir := t.TempDir()
	setDir := filepath.Join(dataDir, "set00")
	require.NoError(t, os.MkdirAll(filepath.Join(setDir, "V002.seq"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "annotations"), 0o755))

	for _, name := range []string{"V001.seq", "V000.seq", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(setDir, name), nil, 0o600))
	}
	return dataDir
}

func TestCrawler(t *testing.T) {
	t.Run("videos", func(t *testing.T) {
		dataDir := newTestDataset(t)
		c := NewCrawler(dataDir, ".vbb.json")

		videos, err := c.Videos("set00")
		require.NoError(t, err)

		expected := []Video{
			{
				Set:            "set00",
				Name:           "V000",
				SeqPath:        filepath.Join(dataDir, "set00", "V000.seq"),
				AnnotationPath: filepath.Join(dataDir, "annotations", "set00", "V000.vbb.json"),
			},
			{
				Set:            "set00",
				Name:           "V001",
				SeqPath:        filepath.Join(dataDir, "set00", "V001.seq"),
				AnnotationPath: filepath.Join(dataDir, "annotations", "set00", "V001.vbb.json"),
			},
		}
		require.Equal(t, expected, videos)
	})
	t.Run("missingSet", func(t *testing.T) {
		c := NewCrawler(newTestDataset(t), ".vbb.json")
		_, err := c.Videos("set01")
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestVideoPaths(t *testing.T) {
	v := Video{Set: "set03", Name: "V007"}
	require.Equal(t, "set03/V007", v.ID())
	require.Equal(t, "/out/set03/V007/images", v.ImageDir("/out"))
	require.Equal(t, "/out/set03/V007/annotations", v.AnnotationDir("/out"))
}
