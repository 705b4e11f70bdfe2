package vbb

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		input    Box
		expected string
	}{
		"whole":    {Box{9, 0, -3, 640}, "[9.0,0.0,-3.0,640.0]"},
		"fraction": {Box{4.5, 0.25, 10.125, 1.1}, "[4.5,0.25,10.125,1.1]"},
		"small":    {Box{1e-5, 0.0001, 0, 0}, "[1e-05,0.0001,0.0,0.0]"},
		"large":    {Box{1e16, 1.5e17, 1e15, 0}, "[1e+16,1.5e+17,1000000000000000.0,0.0]"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := json.Marshal(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, string(raw))
		})
	}
	t.Run("notFinite", func(t *testing.T) {
		_, err := json.Marshal(Box{math.Inf(1), 0, 0, 0})
		require.Error(t, err)
	})
}

func TestObjects(t *testing.T) {
	a := &Annotation{
		FrameCount: 2,
		Frames:     map[int][]Object{0: {{ID: 1}}},
	}
	require.Len(t, a.Objects(0), 1)
	require.NotNil(t, a.Objects(1))
	require.Empty(t, a.Objects(1))
}
