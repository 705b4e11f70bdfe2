package vbb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TreeReader reads a structured matrix file into a tree.
type TreeReader interface {
	ReadTree(path string) (Node, error)
}

// FileTreeReader reads matrix trees that were exported
// to YAML or JSON. A top level "A" struct is unwrapped.
type FileTreeReader struct{}

// ReadTree implements TreeReader.
func (FileTreeReader) ReadTree(path string) (Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %v: %w", path, err)
	}

	root := NewNode(v)
	if a, exists := root.Field("A"); exists {
		return a, nil
	}
	return root, nil
}

// DecodeFile reads the file at path with r and decodes it.
func DecodeFile(r TreeReader, path string) (*Annotation, error) {
	root, err := r.ReadTree(path)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	annotation, err := Decode(root)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", path, err)
	}
	return annotation, nil
}
