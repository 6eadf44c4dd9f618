package interp

import "tapelang/internal/errors"

// Tape is the growable byte-cell memory the interpreter operates on.
// Cells wrap modulo 256 by virtue of being plain bytes; the tape itself
// never shrinks and grows only up to the highest index ever touched.
type Tape struct {
	cells []byte
	ptr   int
}

func newTape(initialSize int) *Tape {
	if initialSize < 0 {
		initialSize = 0
	}
	return &Tape{cells: make([]byte, initialSize)}
}

// ensure grows the tape so index n is valid, zero-filling new cells.
func (t *Tape) ensure(n int) {
	if n < len(t.cells) {
		return
	}
	grown := make([]byte, n+1)
	copy(grown, t.cells)
	t.cells = grown
}

// at returns the absolute index for a write/read at ptr+offset, growing
// the tape if needed. A negative index is tape underflow: fatal, no
// cyclic wrap-around.
func (t *Tape) at(offset int) (int, error) {
	idx := t.ptr + offset
	if idx < 0 {
		return 0, errors.NewTapeUnderflow(t.ptr, offset)
	}
	t.ensure(idx)
	return idx, nil
}

func (t *Tape) get() byte { t.ensure(t.ptr); return t.cells[t.ptr] }

func (t *Tape) set(v byte) { t.ensure(t.ptr); t.cells[t.ptr] = v }

func (t *Tape) add(v byte) { t.ensure(t.ptr); t.cells[t.ptr] += v }

// shift moves ptr by delta, growing the tape so the new position is
// valid. A negative result is fatal tape underflow.
func (t *Tape) shift(delta int) error {
	idx, err := t.at(delta)
	if err != nil {
		return err
	}
	t.ptr = idx
	return nil
}

// Len reports the current tape length, for CLI reporting.
func (t *Tape) Len() int { return len(t.cells) }
