package compiler

import "tapelang/internal/ir"

// foldToFixpoint repeatedly runs the three adjacent-pair rewrites (Shift
// absorption, pairwise combination, dead/trivial elimination) across a
// sibling sequence and its nested loop bodies, until one full pass makes
// no change. Recognizing a LinearLoop or SimpleLoop can expose a fresh
// foldable neighborhood one level up, which is why the caller loops this
// together with the other stages rather than running it once.
func foldToFixpoint(seq []ir.Instr) []ir.Instr {
	for {
		next, changed := foldPass(seq)
		seq = next
		if !changed {
			return seq
		}
	}
}

// foldPass runs one left-to-right sweep, pushing each instruction onto an
// output stack and collapsing the tail against the three rewrite rules
// until none apply, before moving to the next input instruction. This is
// the classic peephole-optimizer shape: a rewrite at the tail can expose
// a new opportunity one position back, so the collapse loops locally
// before advancing.
func foldPass(seq []ir.Instr) ([]ir.Instr, bool) {
	changed := false
	out := make([]ir.Instr, 0, len(seq))

	for _, instr := range seq {
		if loop, ok := instr.(ir.Loop); ok {
			body, bodyChanged := foldPass(loop.Body)
			if bodyChanged {
				changed = true
			}
			instr = ir.Loop{Body: body}
		}

		out = append(out, instr)

		for collapseTail(&out) {
			changed = true
		}
	}

	return out, changed
}

// collapseTail applies the first applicable rewrite rule to the end of
// *out, mutating it in place, and reports whether it changed anything.
func collapseTail(out *[]ir.Instr) bool {
	n := len(*out)

	if n >= 1 {
		if norm, drop, ok := trivialize((*out)[n-1]); ok {
			if drop {
				*out = (*out)[:n-1]
			} else {
				(*out)[n-1] = norm
			}
			return true
		}
	}

	if n >= 3 {
		if merged, ok := absorbShift((*out)[n-3], (*out)[n-2], (*out)[n-1]); ok {
			*out = append((*out)[:n-3], merged...)
			return true
		}
	}

	if n >= 2 {
		if merged, ok := modifyOffsetThenMatchingShift((*out)[n-2], (*out)[n-1]); ok {
			*out = append((*out)[:n-2], merged...)
			return true
		}
		if merged, ok := combinePair((*out)[n-2], (*out)[n-1]); ok {
			*out = append((*out)[:n-2], merged)
			return true
		}
	}

	return false
}

// trivialize normalizes or drops a single dead/no-op instruction:
// Modify(0), ModifyOffset(0,_), Shift(0) vanish; SetOffset(v,0) becomes
// Set(v); ModifyOffset(v,0) becomes Modify(v).
func trivialize(instr ir.Instr) (norm ir.Instr, drop bool, ok bool) {
	switch v := instr.(type) {
	case ir.Modify:
		if v.Value == 0 {
			return nil, true, true
		}
	case ir.ModifyOffset:
		if v.Value == 0 {
			return nil, true, true
		}
		if v.Delta == 0 {
			return ir.Modify{Value: v.Value}, false, true
		}
	case ir.Shift:
		if v.Delta == 0 {
			return nil, true, true
		}
	case ir.SetOffset:
		if v.Delta == 0 {
			return ir.Set{Value: v.Value}, false, true
		}
	}
	return nil, false, false
}

// combinePair merges two adjacent instructions when one of the plain
// pairwise rules applies.
func combinePair(a, b ir.Instr) (ir.Instr, bool) {
	switch av := a.(type) {
	case ir.Set:
		switch bv := b.(type) {
		case ir.Modify:
			return ir.Set{Value: av.Value + bv.Value}, true
		case ir.Set:
			return bv, true
		}
	case ir.Modify:
		if bv, ok := b.(ir.Modify); ok {
			return ir.Modify{Value: av.Value + bv.Value}, true
		}
	case ir.Shift:
		if bv, ok := b.(ir.Shift); ok {
			return ir.Shift{Delta: av.Delta + bv.Delta}, true
		}
	}
	return nil, false
}

// modifyOffsetThenMatchingShift implements "ModifyOffset(v, a); Shift(b)
// with a=b -> Shift(a); Modify(v)": the offset write's own displacement
// exactly cancels the shift that follows it, so the pointer can move
// first and the write becomes an unoffset Modify at the new position.
func modifyOffsetThenMatchingShift(a, b ir.Instr) ([]ir.Instr, bool) {
	mo, ok := a.(ir.ModifyOffset)
	if !ok {
		return nil, false
	}
	sh, ok := b.(ir.Shift)
	if !ok || mo.Delta != sh.Delta {
		return nil, false
	}
	return []ir.Instr{ir.Shift{Delta: sh.Delta}, ir.Modify{Value: mo.Value}}, true
}

// absorbShift implements "Shift(a) | Set/Modify/SetOffset/ModifyOffset(v)
// | Shift(b) -> SetOffset-or-ModifyOffset(v, offset+a); Shift(a+b)".
func absorbShift(a, b, c ir.Instr) ([]ir.Instr, bool) {
	firstShift, ok := a.(ir.Shift)
	if !ok {
		return nil, false
	}
	lastShift, ok := c.(ir.Shift)
	if !ok {
		return nil, false
	}

	switch mid := b.(type) {
	case ir.Set:
		return []ir.Instr{
			ir.SetOffset{Value: mid.Value, Delta: firstShift.Delta},
			ir.Shift{Delta: firstShift.Delta + lastShift.Delta},
		}, true
	case ir.Modify:
		return []ir.Instr{
			ir.ModifyOffset{Value: mid.Value, Delta: firstShift.Delta},
			ir.Shift{Delta: firstShift.Delta + lastShift.Delta},
		}, true
	case ir.SetOffset:
		return []ir.Instr{
			ir.SetOffset{Value: mid.Value, Delta: mid.Delta + firstShift.Delta},
			ir.Shift{Delta: firstShift.Delta + lastShift.Delta},
		}, true
	case ir.ModifyOffset:
		return []ir.Instr{
			ir.ModifyOffset{Value: mid.Value, Delta: mid.Delta + firstShift.Delta},
			ir.Shift{Delta: firstShift.Delta + lastShift.Delta},
		}, true
	}
	return nil, false
}
