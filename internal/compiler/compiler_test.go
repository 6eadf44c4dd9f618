package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tapelang/internal/ir"
)

func TestCompileMultiplyLoopRecognizedAsLinearLoop(t *testing.T) {
	// Same source as the interpreter's multiply-loop end-to-end test.
	program, err := Compile([]byte("++++++++[>++++++++<-]>+."))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := []ir.Instr{
		ir.Modify{Value: 8},
		ir.LinearLoop{Offset: 0, Factor: 1, Data: []byte{255, 8}},
		ir.Shift{Delta: 1},
		ir.Modify{Value: 1},
		ir.Print{},
	}
	if diff := cmp.Diff(want, program); diff != "" {
		t.Errorf("Compile mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileClearIdiom(t *testing.T) {
	program, err := Compile([]byte("[-]"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []ir.Instr{ir.Clear{}}
	if diff := cmp.Diff(want, program); diff != "" {
		t.Errorf("Compile mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileEmptyLoopVanishesEntirely(t *testing.T) {
	program, err := Compile([]byte("+[]+"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []ir.Instr{ir.Modify{Value: 2}}
	if diff := cmp.Diff(want, program); diff != "" {
		t.Errorf("Compile mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileRejectsUnbalancedBrackets(t *testing.T) {
	if _, err := Compile([]byte("[[]")); err == nil {
		t.Error("expected an error for unbalanced brackets")
	}
	if _, err := Compile([]byte("]")); err == nil {
		t.Error("expected an error for a stray close bracket")
	}
}

// Comments and whitespace interleaved in the source must not change the
// compiled program.
func TestCompileIgnoresComments(t *testing.T) {
	clean, err := Compile([]byte("++[>+<-]"))
	if err != nil {
		t.Fatalf("Compile(clean): %v", err)
	}
	noisy, err := Compile([]byte("+ start\n+[> step\n+< back\n- dec\n] done"))
	if err != nil {
		t.Fatalf("Compile(noisy): %v", err)
	}
	if diff := cmp.Diff(clean, noisy); diff != "" {
		t.Errorf("comments changed the compiled program (-clean +noisy):\n%s", diff)
	}
}
