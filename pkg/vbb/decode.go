package vbb

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Errors.
var (
	ErrSchema                 = errors.New("schema error")
	ErrInconsistentAnnotation = errors.New("inconsistent annotation")
)

// MaxFrameCount is the largest nFrame accepted, about
// ten hours of video at 30 frames per second.
const MaxFrameCount = 1 << 20

// Decode decodes the annotation tree.
func Decode(root Node) (*Annotation, error) {
	s, err := project(root)
	if err != nil {
		return nil, err
	}

	blockCount := s.blocks.Len()
	if blockCount > s.frameCount {
		return nil, fmt.Errorf("%w: %d frame blocks for %d frames",
			ErrInconsistentAnnotation, blockCount, s.frameCount)
	}

	frames := make(map[int][]Object, s.frameCount)
	for f := 0; f < s.frameCount; f++ {
		frames[f] = []Object{}
	}
	for f := 0; f < blockCount; f++ {
		objects, err := s.decodeBlock(f, s.blocks.Index(f))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", f, err)
		}
		frames[f] = objects
	}

	return &Annotation{
		FrameCount:     s.frameCount,
		MaxObjectCount: s.maxObj,
		ChangeLog:      s.changeLog,
		LogLength:      s.logLen,
		Altered:        s.altered,
		Frames:         frames,
	}, nil
}

// schema is the validated top level of the tree.
type schema struct {
	frameCount int
	maxObj     int
	altered    int
	logLen     int
	changeLog  []interface{}

	blocks Node

	// Object level tables, indexed by 0-origin object id.
	labels []string
	starts []int
	ends   []int
	hides  []int
	inits  []int
}

func project(root Node) (*schema, error) {
	var s schema
	var err error

	if s.frameCount, err = intField(root, "nFrame"); err != nil {
		return nil, err
	}
	if s.frameCount < 0 || s.frameCount > MaxFrameCount {
		return nil, fmt.Errorf("%w: nFrame %d", ErrSchema, s.frameCount)
	}
	if s.blocks, err = field(root, "objLists"); err != nil {
		return nil, err
	}
	s.blocks = flatten(s.blocks)
	if s.blocks.Len() == 0 && s.blocks.Value() != nil && !isEmptyArray(s.blocks) {
		// Single frame.
		s.blocks = toColumns(s.blocks, 1)
	}
	if s.maxObj, err = intField(root, "maxObj"); err != nil {
		return nil, err
	}
	if s.inits, err = intsField(root, "objInit"); err != nil {
		return nil, err
	}
	if s.labels, err = textsField(root, "objLbl"); err != nil {
		return nil, err
	}
	if s.starts, err = intsField(root, "objStr"); err != nil {
		return nil, err
	}
	if s.ends, err = intsField(root, "objEnd"); err != nil {
		return nil, err
	}
	if s.hides, err = intsField(root, "objHide"); err != nil {
		return nil, err
	}
	if s.altered, err = intField(root, "altered"); err != nil {
		return nil, err
	}

	log, err := field(root, "log")
	if err != nil {
		return nil, err
	}
	s.changeLog = toList(log.Value())

	if s.logLen, err = intField(root, "logLen"); err != nil {
		return nil, err
	}
	return &s, nil
}

// Frame block fields, parallel arrays with one column per detection.
const (
	blockID   = "id"
	blockPos  = "pos"
	blockOccl = "occl"
	blockLock = "lock"
	blockPosV = "posv"
)

func (s *schema) decodeBlock(frame int, block Node) ([]Object, error) {
	ids, exists := block.Field(blockID)
	if !exists {
		if !isEmptyBlock(block) {
			return nil, fmt.Errorf("%w: frame block is not a struct", ErrSchema)
		}
		return []Object{}, nil
	}

	ids = flatten(ids)
	if isEmptyArray(ids) {
		return []Object{}, nil
	}
	columns := ids.Len()
	if columns == 0 {
		columns = 1
	}
	ids = toColumns(ids, columns)

	var fields [4]Node
	for i, name := range []string{blockPos, blockOccl, blockLock, blockPosV} {
		n, err := field(block, name)
		if err != nil {
			return nil, err
		}
		n = toColumns(n, columns)
		if n.Len() != columns {
			return nil, fmt.Errorf("%w: %v has %d columns, id has %d",
				ErrSchema, name, n.Len(), columns)
		}
		fields[i] = n
	}
	pos, occl, lock, posv := fields[0], fields[1], fields[2], fields[3]

	objects := make([]Object, 0, columns)
	for c := 0; c < columns; c++ {
		obj, err := s.decodeColumn(
			frame,
			ids.Index(c),
			pos.Index(c),
			occl.Index(c),
			lock.Index(c),
			posv.Index(c),
		)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", c, err)
		}
		objects = append(objects, *obj)
	}
	return objects, nil
}

func (s *schema) decodeColumn(frame int, rawID, pos, occl, lock, posv Node) (*Object, error) {
	id, err := toInt(rawID, blockID)
	if err != nil {
		return nil, err
	}
	// Ids, positions and frames are 1-origin.
	id--

	box, err := toBox(pos, blockPos, false)
	if err != nil {
		return nil, err
	}
	box[0]--
	box[1]--

	visible, err := toBox(posv, blockPosV, true)
	if err != nil {
		return nil, err
	}

	obj := Object{
		ID:    id,
		Frame: frame,
		Pos:   box,
		PosV:  visible,
	}
	if obj.Occl, err = toInt(occl, blockOccl); err != nil {
		return nil, err
	}
	if obj.Lock, err = toInt(lock, blockLock); err != nil {
		return nil, err
	}

	if obj.Label, err = lookup(s.labels, id, "objLbl"); err != nil {
		return nil, err
	}
	if obj.Start, err = lookup(s.starts, id, "objStr"); err != nil {
		return nil, err
	}
	obj.Start--
	if obj.End, err = lookup(s.ends, id, "objEnd"); err != nil {
		return nil, err
	}
	obj.End--
	if obj.Hide, err = lookup(s.hides, id, "objHide"); err != nil {
		return nil, err
	}
	if obj.Init, err = lookup(s.inits, id, "objInit"); err != nil {
		return nil, err
	}

	if frame < obj.Start || frame > obj.End {
		return nil, fmt.Errorf("%w: object %d in frame %d outside lifespan [%d, %d]",
			ErrInconsistentAnnotation, id, frame, obj.Start, obj.End)
	}
	return &obj, nil
}

func lookup[T any](table []T, id int, name string) (T, error) {
	if id < 0 || id >= len(table) {
		var zero T
		return zero, fmt.Errorf("%w: object id %d out of range for %v of length %d",
			ErrInconsistentAnnotation, id, name, len(table))
	}
	return table[id], nil
}

func field(n Node, name string) (Node, error) {
	f, exists := n.Field(name)
	if !exists {
		return nil, fmt.Errorf("%w: missing field %q", ErrSchema, name)
	}
	return f, nil
}

func intField(n Node, name string) (int, error) {
	f, err := field(n, name)
	if err != nil {
		return 0, err
	}
	return toInt(f, name)
}

// intsField reads a 1-dimensional numeric array.
func intsField(n Node, name string) ([]int, error) {
	f, err := field(n, name)
	if err != nil {
		return nil, err
	}
	f = flatten(f)

	values := make([]int, f.Len())
	for i := range values {
		if values[i], err = toInt(f.Index(i), name); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func textsField(n Node, name string) ([]string, error) {
	f, err := field(n, name)
	if err != nil {
		return nil, err
	}
	f = flatten(f)

	values := make([]string, f.Len())
	for i := range values {
		text, ok := f.Index(i).Text()
		if !ok {
			return nil, fmt.Errorf("%w: %v[%d] is not text", ErrSchema, name, i)
		}
		values[i] = text
	}
	return values, nil
}

// toColumns strips single element wrappers around a row of
// columns. A lone column may be given without its row.
func toColumns(n Node, columns int) Node {
	for columns != 1 && n.Len() == 1 && n.Index(0).Len() > 0 {
		n = n.Index(0)
	}
	if columns == 1 && n.Len() != 1 {
		return NewNode([]interface{}{n.Value()})
	}
	return n
}

// isEmptyBlock reports if a block without ids is a frame without
// objects, either a struct or an empty matrix.
func isEmptyBlock(block Node) bool {
	v := unwrap(block.Value())
	if v == nil || isEmptyArray(block) {
		return true
	}
	return reflect.TypeOf(v).Kind() == reflect.Map
}

func isEmptyArray(n Node) bool {
	v := unwrap(n.Value())
	return isArray(v) && reflect.ValueOf(v).Len() == 0
}

// flatten removes outer single element wrappers around an array,
// a 1xN matrix becomes a list of N elements.
func flatten(n Node) Node {
	for n.Len() == 1 && n.Index(0).Len() > 0 {
		n = n.Index(0)
	}
	return n
}

func toInt(n Node, name string) (int, error) {
	v, ok := n.Number()
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v is not a number", ErrSchema, name)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v %v out of range", ErrSchema, name, v)
	}
	return int(v), nil
}

// toBox reads a 4 element position, degenerate
// positions are allowed to be empty.
func toBox(n Node, name string, allowEmpty bool) (Box, error) {
	n = flatten(n)
	if allowEmpty && (n.Len() == 0 || isEmptyArray(n)) {
		return Box{}, nil
	}
	if n.Len() != 4 {
		return Box{}, fmt.Errorf("%w: %v has %d elements, want 4", ErrSchema, name, n.Len())
	}

	var box Box
	for i := range box {
		v, ok := n.Index(i).Number()
		if !ok {
			return Box{}, fmt.Errorf("%w: %v[%d] is not a number", ErrSchema, name, i)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Box{}, fmt.Errorf("%w: %v[%d] is not finite", ErrInconsistentAnnotation, name, i)
		}
		box[i] = v
	}
	return box, nil
}

func toList(v interface{}) []interface{} {
	if !isArray(v) {
		if v == nil {
			return []interface{}{}
		}
		return []interface{}{v}
	}
	rv := reflect.ValueOf(v)
	list := make([]interface{}, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list
}
