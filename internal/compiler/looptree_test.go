package compiler

import (
	"testing"

	"tapelang/internal/errors"
	"tapelang/internal/ir"
	"tapelang/internal/lexer"
)

func tok(sym lexer.Symbol, line int) lexer.Token { return lexer.Token{Sym: sym, Line: line} }

func TestBuildLoopTreeFlat(t *testing.T) {
	tokens := []lexer.Token{tok(lexer.Inc, 1), tok(lexer.Output, 1)}
	got, err := buildLoopTree(tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if p, ok := got[0].(primitive); !ok || p.sym != lexer.Inc {
		t.Errorf("got[0] = %#v, want primitive{Inc}", got[0])
	}
	if p, ok := got[1].(primitive); !ok || p.sym != lexer.Output {
		t.Errorf("got[1] = %#v, want primitive{Output}", got[1])
	}
}

func TestBuildLoopTreeNestedAndEmptyLoopsSurvive(t *testing.T) {
	// "[[]]" -- an outer loop containing one empty inner loop. The builder
	// must emit both: pruning empty loops is the recognizer's job, not
	// this stage's.
	tokens := []lexer.Token{
		tok(lexer.Open, 1), tok(lexer.Open, 1), tok(lexer.Close, 1), tok(lexer.Close, 1),
	}
	got, err := buildLoopTree(tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	outer, ok := got[0].(ir.Loop)
	if !ok {
		t.Fatalf("got[0] is %T, want ir.Loop", got[0])
	}
	if len(outer.Body) != 1 {
		t.Fatalf("outer body len = %d, want 1 (empty inner loop must still be emitted)", len(outer.Body))
	}
	if _, ok := outer.Body[0].(ir.Loop); !ok {
		t.Fatalf("outer.Body[0] is %T, want ir.Loop", outer.Body[0])
	}
}

func TestBuildLoopTreeUnmatchedClose(t *testing.T) {
	tokens := []lexer.Token{tok(lexer.Close, 3)}
	_, err := buildLoopTree(tokens)
	if err == nil {
		t.Fatal("expected an UnmatchedClose error")
	}
	ce, ok := err.(*errors.CompileError)
	if !ok || ce.Kind != errors.UnmatchedClose {
		t.Errorf("err = %v, want UnmatchedClose", err)
	}
	if ce.Pos.Line != 3 {
		t.Errorf("Pos.Line = %d, want 3", ce.Pos.Line)
	}
}

func TestBuildLoopTreeUnmatchedOpen(t *testing.T) {
	tokens := []lexer.Token{tok(lexer.Open, 5), tok(lexer.Inc, 5)}
	_, err := buildLoopTree(tokens)
	if err == nil {
		t.Fatal("expected an UnmatchedOpen error")
	}
	ce, ok := err.(*errors.CompileError)
	if !ok || ce.Kind != errors.UnmatchedOpen {
		t.Errorf("err = %v, want UnmatchedOpen", err)
	}
	if ce.Pos.Line != 5 {
		t.Errorf("Pos.Line = %d, want 5", ce.Pos.Line)
	}
}
