package compiler

import (
	"tapelang/internal/ir"
	"tapelang/internal/lexer"
)

// compactRuns scans a sibling sequence and collapses every maximal
// contiguous run of + - < > into a single ir.ModifyRun (or one of its
// degenerate forms: Shift, Modify, ModifyOffset, or nothing at all).
// Recurses into Loop bodies. Grounded on the virtual-cursor algorithm in
// the original implementation's run-compression pass: a cursor walks the
// run, a growable buffer of per-cell deltas follows it, and a leading
// offset accumulates whenever '<' walks off the buffer's left edge.
func compactRuns(seq []ir.Instr) []ir.Instr {
	out := make([]ir.Instr, 0, len(seq))

	i := 0
	for i < len(seq) {
		if p, ok := seq[i].(primitive); ok && isRunSymbol(p.sym) {
			run, next := scanRun(seq, i)
			out = append(out, run...)
			i = next
			continue
		}

		switch v := seq[i].(type) {
		case ir.Loop:
			out = append(out, ir.Loop{Body: compactRuns(v.Body)})
		case primitive:
			out = append(out, symbolToInstr(v.sym))
		default:
			out = append(out, v)
		}
		i++
	}

	return out
}

func isRunSymbol(s lexer.Symbol) bool {
	switch s {
	case lexer.Inc, lexer.Dec, lexer.Left, lexer.Right:
		return true
	default:
		return false
	}
}

func symbolToInstr(s lexer.Symbol) ir.Instr {
	switch s {
	case lexer.Output:
		return ir.Print{}
	case lexer.Input:
		return ir.Read{}
	default:
		panic("compactRuns: unexpected bare symbol " + string(rune(s)))
	}
}

// scanRun consumes the maximal run of + - < > starting at start and
// returns the instruction(s) it compiles down to, plus the index just
// past the run.
func scanRun(seq []ir.Instr, start int) ([]ir.Instr, int) {
	cursor := 0
	offset := 0
	data := []byte{0}

	i := start
	for i < len(seq) {
		p, ok := seq[i].(primitive)
		if !ok || !isRunSymbol(p.sym) {
			break
		}
		switch p.sym {
		case lexer.Inc:
			data[cursor]++
		case lexer.Dec:
			data[cursor]--
		case lexer.Right:
			cursor++
			if cursor >= len(data) {
				data = append(data, 0)
			}
		case lexer.Left:
			if cursor > 0 {
				cursor--
			} else {
				offset--
				data = append([]byte{0}, data...)
				// cursor stays 0: we just prepended the new
				// leftmost cell, which is where we now sit.
			}
		}
		i++
	}

	shift := cursor + offset

	// Trim trailing zeros.
	for len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	// Trim leading zeros, advancing offset to compensate.
	for len(data) > 0 && data[0] == 0 {
		data = data[1:]
		offset++
	}

	return runToInstrs(shift, offset, data), i
}

func runToInstrs(shift, offset int, data []byte) []ir.Instr {
	switch {
	case len(data) == 0 && shift != 0:
		return []ir.Instr{ir.Shift{Delta: shift}}
	case len(data) == 0:
		return nil
	case len(data) == 1 && offset == 0:
		instrs := []ir.Instr{ir.Modify{Value: data[0]}}
		if shift != 0 {
			instrs = append(instrs, ir.Shift{Delta: shift})
		}
		return instrs
	case len(data) == 1:
		instrs := []ir.Instr{ir.ModifyOffset{Value: data[0], Delta: offset}}
		if shift != 0 {
			instrs = append(instrs, ir.Shift{Delta: shift})
		}
		return instrs
	default:
		return []ir.Instr{ir.ModifyRun{Shift: shift, Offset: offset, Data: data}}
	}
}
