package vbb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Box x, y, width, height.
type Box [4]float64

// MarshalJSON encodes coordinates as floats, whole
// numbers keep a fraction, "9" is written as "9.0".
func (b Box) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, '[')
	for i, v := range b {
		if i != 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("unsupported box value: %v", v)
		}
		buf = append(buf, formatFloat(v)...)
	}
	return append(buf, ']'), nil
}

// formatFloat formats like the shortest round trip repr,
// exponent notation below 1e-4 and from 1e16.
func formatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Object single object in a single frame. Fields are
// declared in key order so encoded keys are sorted.
type Object struct {
	End   int    `json:"end"` // Last frame of the object, inclusive.
	Hide  int    `json:"hide"`
	ID    int    `json:"id"`
	Init  int    `json:"init"`
	Label string `json:"lbl"`
	Lock  int    `json:"lock"`
	Occl  int    `json:"occl"`
	Pos   Box    `json:"pos"`
	PosV  Box    `json:"posv"` // Visible part, zero if not occluded.
	Start int    `json:"str"`  // First frame of the object.

	Frame int `json:"-"`
}

// Annotation decoded annotation file.
type Annotation struct {
	FrameCount     int
	MaxObjectCount int
	ChangeLog      []interface{}
	LogLength      int
	Altered        int

	// Frames has a key for every frame in [0, FrameCount).
	Frames map[int][]Object
}

// Objects returns the objects in frame, empty if there are none.
func (a *Annotation) Objects(frame int) []Object {
	if objects, exists := a.Frames[frame]; exists {
		return objects
	}
	return []Object{}
}
