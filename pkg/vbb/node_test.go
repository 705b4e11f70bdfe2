package vbb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNode(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		cases := []struct {
			input    interface{}
			expected float64
		}{
			{3, 3},
			{int32(-2), -2},
			{uint8(7), 7},
			{1.5, 1.5},
			{true, 1},
			{[]interface{}{[]interface{}{4}}, 4},
			{[]float64{9}, 9},
		}
		for _, tc := range cases {
			v, ok := NewNode(tc.input).Number()
			require.True(t, ok, "%v", tc.input)
			require.Equal(t, tc.expected, v)
		}

		for _, input := range []interface{}{nil, "x", []int{1, 2}, map[string]interface{}{}} {
			_, ok := NewNode(input).Number()
			require.False(t, ok, "%v", input)
		}
	})
	t.Run("text", func(t *testing.T) {
		v, ok := NewNode([]interface{}{[]string{"person"}}).Text()
		require.True(t, ok)
		require.Equal(t, "person", v)

		_, ok = NewNode(1).Text()
		require.False(t, ok)
	})
	t.Run("array", func(t *testing.T) {
		n := NewNode([]interface{}{1, "a", nil})
		require.Equal(t, 3, n.Len())
		require.Equal(t, "a", n.Index(1).Value())
		require.Nil(t, n.Index(2).Value())
		require.Nil(t, n.Index(3).Value())
		require.Nil(t, n.Index(-1).Value())

		require.Equal(t, 0, NewNode(5).Len())
		require.Equal(t, 0, NewNode(nil).Len())
		require.Equal(t, 2, NewNode([2]int{1, 2}).Len())
	})
	t.Run("field", func(t *testing.T) {
		n := NewNode([]interface{}{map[string]interface{}{"a": 1}})
		a, exists := n.Field("a")
		require.True(t, exists)
		require.Equal(t, 1, a.Value())

		_, exists = n.Field("b")
		require.False(t, exists)

		_, exists = NewNode(map[interface{}]interface{}{"c": 2}).Field("c")
		require.True(t, exists)

		_, exists = NewNode(map[string]int{"d": 2}).Field("d")
		require.True(t, exists)

		_, exists = NewNode(3).Field("a")
		require.False(t, exists)
	})
}
