package compiler

import "tapelang/internal/ir"

// recognizeLoopShapes walks the tree produced by the run compactor and
// classifies every single-instruction Loop body into one of the
// specialized shapes: Clear, SearchLoop, LinearLoop, or SimpleLoop. Loops
// with any other body shape are recursed into and kept as a generic
// ir.Loop. Empty loops are dropped outright: an empty body can never
// change the guard cell, so the loop either never runs or never ends.
func recognizeLoopShapes(seq []ir.Instr) []ir.Instr {
	out := make([]ir.Instr, 0, len(seq))
	for _, instr := range seq {
		loop, ok := instr.(ir.Loop)
		if !ok {
			out = append(out, instr)
			continue
		}

		if len(loop.Body) == 0 {
			continue // empty loop: remove entirely
		}

		if len(loop.Body) != 1 {
			out = append(out, ir.Loop{Body: recognizeLoopShapes(loop.Body)})
			continue
		}

		out = append(out, recognizeSingleBodyLoop(loop.Body[0]))
	}
	return out
}

func recognizeSingleBodyLoop(body ir.Instr) ir.Instr {
	switch b := body.(type) {
	case ir.Modify:
		return ir.Clear{}

	case ir.ModifyRun:
		if b.Shift == 0 && b.Offset == 0 && len(b.Data) == 1 {
			return ir.Clear{}
		}
		if b.Shift == 0 && b.Offset <= 0 {
			idx := -b.Offset
			if idx < len(b.Data) && b.Data[idx] != 0 {
				return ir.LinearLoop{
					Offset: b.Offset,
					Factor: byte(256 - int(b.Data[idx])),
					Data:   b.Data,
				}
			}
		}
		return ir.SimpleLoop{Shift: b.Shift, Offset: b.Offset, Data: b.Data}

	case ir.Shift:
		if b.Delta != 0 {
			return ir.SearchLoop{Step: b.Delta}
		}
		return ir.Loop{Body: recognizeLoopShapes([]ir.Instr{body})}

	default:
		return ir.Loop{Body: recognizeLoopShapes([]ir.Instr{body})}
	}
}
