// Package formatter renders a compiled instruction tree as indented text,
// for the CLI's --dump-ir flag.
package formatter

import (
	"fmt"
	"strings"

	"github.com/kr/pretty"
	"github.com/kr/text"

	"tapelang/internal/ir"
)

// Format renders program one instruction after another, with nested Loop
// bodies indented under their header line. Leaf instructions use
// kr/pretty's Go-syntax layout, which puts a struct with a slice field
// (ModifyRun, LinearLoop, SimpleLoop) on several lines.
func Format(program []ir.Instr) string {
	var b strings.Builder
	writeBlock(&b, program)
	return b.String()
}

func writeBlock(b *strings.Builder, body []ir.Instr) {
	for _, instr := range body {
		if loop, ok := instr.(ir.Loop); ok {
			b.WriteString("Loop\n")
			inner := Format(loop.Body)
			b.WriteString(text.Indent(inner, "    "))
			continue
		}
		fmt.Fprintf(b, "%# v\n", pretty.Formatter(instr))
	}
}
