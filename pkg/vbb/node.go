package vbb

import "reflect"

// Node is a value in the tree returned by a structured matrix reader.
// Matrix readers often wrap scalars in single element arrays, Number
// and Text look through such wrappers.
type Node interface {
	// Field returns a named field of a struct node.
	Field(name string) (Node, bool)

	// Len returns the number of elements of an array node,
	// or 0 if the node is not an array.
	Len() int

	// Index returns the i-th element of an array node.
	Index(i int) Node

	Number() (float64, bool)
	Text() (string, bool)

	// Value returns the underlying value.
	Value() interface{}
}

// NewNode wraps generic decoded values, maps with string
// keys are structs, slices are arrays.
func NewNode(v interface{}) Node {
	return node{v: v}
}

type node struct {
	v interface{}
}

func (n node) Field(name string) (Node, bool) {
	v := unwrap(n.v)
	switch m := v.(type) {
	case map[string]interface{}:
		field, exists := m[name]
		return node{v: field}, exists
	case map[interface{}]interface{}:
		field, exists := m[name]
		return node{v: field}, exists
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	field := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
	if !field.IsValid() {
		return nil, false
	}
	return node{v: field.Interface()}, true
}

func (n node) Len() int {
	if !isArray(n.v) {
		return 0
	}
	return reflect.ValueOf(n.v).Len()
}

func (n node) Index(i int) Node {
	if i < 0 || i >= n.Len() {
		return node{}
	}
	return node{v: reflect.ValueOf(n.v).Index(i).Interface()}
}

func (n node) Number() (float64, bool) {
	switch v := unwrap(n.v).(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func (n node) Text() (string, bool) {
	v, ok := unwrap(n.v).(string)
	return v, ok
}

func (n node) Value() interface{} {
	return n.v
}

func isArray(v interface{}) bool {
	if v == nil {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// unwrap removes single element array wrappers.
func unwrap(v interface{}) interface{} {
	for isArray(v) {
		rv := reflect.ValueOf(v)
		if rv.Len() != 1 {
			return v
		}
		v = rv.Index(0).Interface()
	}
	return v
}
