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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"seqvbb/pkg/seq"
	"seqvbb/pkg/vbb"
)

// FrameFilename returns "I<index>.<ext>", index padded to 5 digits.
func FrameFilename(index int, codec seq.Codec) string {
	return fmt.Sprintf("I%05d.%s", index, codec.Ext())
}

// AnnotationFilename returns "I<index>.json".
func AnnotationFilename(index int) string {
	return fmt.Sprintf("I%05d.json", index)
}

// FrameSource produces frames until io.EOF.
type FrameSource interface {
	Next() (*seq.Frame, error)
}

// WriteFrames writes each frame payload to its own file in dir
// and returns the number of frames written.
func WriteFrames(dir string, frames FrameSource) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create image directory: %w", err)
	}

	n := 0
	for {
		frame, err := frames.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		path := filepath.Join(dir, FrameFilename(frame.Index, frame.Codec))
		if err := os.WriteFile(path, frame.Payload, 0o644); err != nil {
			return n, fmt.Errorf("write frame: %w", err)
		}
		n++
	}
}

// WriteAnnotations writes one file per frame in [0, FrameCount) to dir.
func WriteAnnotations(dir string, a *vbb.Annotation) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create annotation directory: %w", err)
	}

	for i := 0; i < a.FrameCount; i++ {
		raw, err := MarshalObjects(a.Objects(i))
		if err != nil {
			return fmt.Errorf("marshal frame %d: %w", i, err)
		}

		path := filepath.Join(dir, AnnotationFilename(i))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("unable to write file: %v: %w", path, err)
		}
	}
	return nil
}

// MarshalObjects encodes objects as an indented JSON list with sorted keys.
func MarshalObjects(objects []vbb.Object) ([]byte, error) {
	if objects == nil {
		objects = []vbb.Object{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(objects); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
