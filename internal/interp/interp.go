// Package interp executes a compiled instruction tree against a Tape.
// Execution is tree-walking: one recursive routine drives nested
// ir.Loop bodies, while the specialized single-opcode loop shapes
// (Clear, SearchLoop, LinearLoop, SimpleLoop) are handled inline so the
// common cases never recurse.
package interp

import (
	"io"

	"tapelang/internal/errors"
	"tapelang/internal/ir"
)

// Run executes program against a fresh tape of initialTapeSize cells,
// reading from in and writing to out. Any error returned is fatal: a
// *errors.RuntimeError describing a TapeUnderflow or IOError.
func Run(program []ir.Instr, in io.ByteReader, out io.ByteWriter, initialTapeSize int) error {
	tape := newTape(initialTapeSize)
	return execute(program, tape, in, out)
}

// RunReportingLength behaves like Run but also reports the tape's final
// length, for the CLI's post-run summary line.
func RunReportingLength(program []ir.Instr, in io.ByteReader, out io.ByteWriter, initialTapeSize int) (int, error) {
	tape := newTape(initialTapeSize)
	err := execute(program, tape, in, out)
	return tape.Len(), err
}

func execute(body []ir.Instr, tape *Tape, in io.ByteReader, out io.ByteWriter) error {
	for _, instr := range body {
		if err := step(instr, tape, in, out); err != nil {
			return err
		}
	}
	return nil
}

func step(instr ir.Instr, tape *Tape, in io.ByteReader, out io.ByteWriter) error {
	switch v := instr.(type) {
	case ir.Read:
		b, err := in.ReadByte()
		if err == io.EOF {
			b = 0
		} else if err != nil {
			return errors.NewIOError("read", err)
		}
		tape.set(b)

	case ir.Print:
		if err := out.WriteByte(tape.get()); err != nil {
			return errors.NewIOError("write", err)
		}

	case ir.Shift:
		return tape.shift(v.Delta)

	case ir.Set:
		tape.set(v.Value)

	case ir.Modify:
		tape.add(v.Value)

	case ir.SetOffset:
		idx, err := tape.at(v.Delta)
		if err != nil {
			return err
		}
		tape.cells[idx] = v.Value

	case ir.ModifyOffset:
		idx, err := tape.at(v.Delta)
		if err != nil {
			return err
		}
		tape.cells[idx] += v.Value

	case ir.ModifyRun:
		return applyModifyRun(tape, v.Shift, v.Offset, v.Data)

	case ir.Clear:
		tape.set(0)

	case ir.SearchLoop:
		for tape.get() != 0 {
			if err := tape.shift(v.Step); err != nil {
				return err
			}
		}

	case ir.LinearLoop:
		return applyLinearLoop(tape, v)

	case ir.SimpleLoop:
		for tape.get() != 0 {
			if err := applyModifyRun(tape, v.Shift, v.Offset, v.Data); err != nil {
				return err
			}
		}

	case ir.Loop:
		for tape.get() != 0 {
			if err := execute(v.Body, tape, in, out); err != nil {
				return err
			}
		}

	default:
		panic("interp: unhandled instruction type")
	}
	return nil
}

// applyModifyRun is shared by ir.ModifyRun itself and the per-iteration
// body of ir.SimpleLoop, which just re-applies the same run until the
// guard cell reads zero.
func applyModifyRun(tape *Tape, shift, offset int, data []byte) error {
	for i, d := range data {
		idx, err := tape.at(offset + i)
		if err != nil {
			return err
		}
		tape.cells[idx] += d
	}
	return tape.shift(shift)
}

// applyLinearLoop computes the closed-form multiply-and-add when the
// current cell is an exact multiple of Factor, otherwise degrades to the
// equivalent SimpleLoop semantics: wrapping division only commutes with
// the loop's repeated-subtraction semantics when the remainder is zero.
func applyLinearLoop(tape *Tape, v ir.LinearLoop) error {
	c := tape.get()
	if c == 0 {
		return nil
	}

	q := c / v.Factor
	r := c % v.Factor
	if r != 0 {
		for tape.get() != 0 {
			if err := applyModifyRun(tape, 0, v.Offset, v.Data); err != nil {
				return err
			}
		}
		return nil
	}

	for i, d := range v.Data {
		idx, err := tape.at(v.Offset + i)
		if err != nil {
			return err
		}
		tape.cells[idx] += d * q
	}
	return nil
}
