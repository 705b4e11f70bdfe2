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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// The dataset is stored in the following format
//
// <dataDir>
// ├── set00
// │   ├── V000.seq
// │   └── V001.seq
// └── annotations
//     └── set00
//         ├── V000<annotationExt>
//         └── V001<annotationExt>
//
// and extracted to
//
// <saveDir>
// └── set00
//     └── V000
//         ├── images
//         │   └── I00000.jpg
//         └── annotations
//             └── I00000.json

const seqExt = ".seq"

// Video single video in the dataset.
type Video struct {
	Set  string
	Name string

	SeqPath        string
	AnnotationPath string
}

// ID returns "<set>/<name>".
func (v Video) ID() string {
	return v.Set + "/" + v.Name
}

// ImageDir returns the directory the frames are extracted to.
func (v Video) ImageDir(saveDir string) string {
	return filepath.Join(saveDir, v.Set, v.Name, "images")
}

// AnnotationDir returns the directory the annotations are extracted to.
func (v Video) AnnotationDir(saveDir string) string {
	return filepath.Join(saveDir, v.Set, v.Name, "annotations")
}

// Crawler finds videos in the dataset.
type Crawler struct {
	dataDir       string
	annotationExt string
}

// NewCrawler creates new crawler.
func NewCrawler(dataDir, annotationExt string) *Crawler {
	return &Crawler{
		dataDir:       dataDir,
		annotationExt: annotationExt,
	}
}

// Videos returns the videos of a set sorted by name.
func (c *Crawler) Videos(set string) ([]Video, error) {
	setDir := filepath.Join(c.dataDir, set)
	entries, err := os.ReadDir(setDir)
	if err != nil {
		return nil, fmt.Errorf("read set directory: %w", err)
	}

	var videos []Video
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), seqExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), seqExt)
		videos = append(videos, Video{
			Set:            set,
			Name:           name,
			SeqPath:        filepath.Join(setDir, entry.Name()),
			AnnotationPath: filepath.Join(c.dataDir, "annotations", set, name+c.annotationExt),
		})
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].Name < videos[j].Name
	})
	return videos, nil
}
