// Package compiler implements the optimizing pipeline: loop tree
// building, run compaction, loop-shape recognition, and constant folding
// / dead-code elimination, iterated to a fixpoint.
package compiler

import (
	"reflect"

	"tapelang/internal/ir"
	"tapelang/internal/lexer"
)

// Compile turns raw source bytes into an optimized instruction tree. It
// never returns a partial result: a bracket-matching failure aborts
// before any of the later stages run.
func Compile(source []byte) ([]ir.Instr, error) {
	tokens := lexer.Scan(source)

	tree, err := buildLoopTree(tokens)
	if err != nil {
		return nil, err
	}

	return optimize(tree), nil
}

// optimize runs the run compactor, loop-shape recognizer, and folder/DCE
// to a fixpoint: recognizing a loop shape can expose a ModifyRun/Shift/
// Set neighborhood the folder can now combine, and folding can in turn
// simplify a loop body down to the single-instruction shape the
// recognizer looks for. Iterating until the tree stops changing resolves
// that mutual dependency.
func optimize(tree []ir.Instr) []ir.Instr {
	seq := compactRuns(tree)
	for {
		next := foldToFixpoint(recognizeLoopShapes(seq))
		if reflect.DeepEqual(next, seq) {
			return seq
		}
		seq = next
	}
}
