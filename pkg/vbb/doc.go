// Package vbb decodes .vbb video annotations into per frame object lists.
//
// Reading the matrix file itself is left to a TreeReader. The decoder
// only expects the tree below, where every object level array is
// indexed by object id - 1 and every frame block is a struct of
// parallel arrays with one column per detection.
//
//	nFrame    scalar
//	objLists  [nFrame]{ id, pos[4], occl, lock, posv[4] }
//	maxObj    scalar
//	objInit   [maxObj]
//	objLbl    [maxObj]string
//	objStr    [maxObj] 1-origin first frame.
//	objEnd    [maxObj] 1-origin last frame.
//	objHide   [maxObj]
//	altered   scalar
//	log       []
//	logLen    scalar
package vbb
