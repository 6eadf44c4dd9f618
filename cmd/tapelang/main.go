// cmd/tapelang/main.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	pkgerrors "github.com/pkg/errors"

	"tapelang/internal/compiler"
	"tapelang/internal/errors"
	"tapelang/internal/formatter"
	"tapelang/internal/interp"
	"tapelang/internal/ir"
)

const defaultTapeSize = 64

func main() {
	os.Exit(run())
}

// run implements the CLI and returns a process exit code rather than
// calling os.Exit directly, so it can be driven from a testscript command
// registration (cmd/tapelang/main_test.go) as well as from main itself.
func run() int {
	flagSet := flag.NewFlagSet("tapelang", flag.ContinueOnError)
	memFlag := flagSet.String("m", "", "initial tape size, e.g. 64, 1k, 4M (alias --memory)")
	memFlagLong := flagSet.String("memory", "", "initial tape size, e.g. 64, 1k, 4M")
	dumpIR := flagSet.Bool("dump-ir", false, "print the compiled instruction tree instead of running it")
	flagSet.Usage = func() { showUsage(flagSet) }
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return 2
	}

	memSpec := *memFlag
	if memSpec == "" {
		memSpec = *memFlagLong
	}

	colorize := isatty.IsTerminal(os.Stderr.Fd())
	runID := uuid.New()

	tapeSize := defaultTapeSize
	if memSpec != "" {
		n, err := humanize.ParseBytes(memSpec)
		if err != nil {
			printDiagnostic(colorize, fmt.Sprintf("invalid -m/--memory value %q: %v", memSpec, err))
			return 2
		}
		tapeSize = int(n)
	}

	source, err := readSource(flagSet.Args())
	if err != nil {
		printDiagnostic(colorize, err.Error())
		return 2
	}

	program, err := compileGuarded(source)
	if err != nil {
		return reportExitCode(colorize, err)
	}

	if *dumpIR {
		fmt.Print(formatter.Format(program))
		return 0
	}

	start := time.Now()
	var finalLen int
	err = runGuarded(program, tapeSize, &finalLen)
	elapsed := time.Since(start)
	if err != nil {
		return reportExitCode(colorize, err)
	}

	fmt.Fprintf(os.Stderr, "[%s] ran in %s, tape grew to %s\n",
		runID, elapsed, humanize.Bytes(uint64(finalLen)))
	return 0
}

func readSource(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(bufio.NewReader(os.Stdin))
	}
	return os.ReadFile(args[0])
}

// compileGuarded recovers from any panic escaping the compiler so a bug in
// an optimization pass is reported like any other fatal error instead of
// crashing the process with a Go stack trace.
func compileGuarded(source []byte) (program []ir.Instr, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	return compiler.Compile(source)
}

func runGuarded(program []ir.Instr, tapeSize int, finalLen *int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	in := bufio.NewReader(os.Stdin)
	n, runErr := interp.RunReportingLength(program, in, out, tapeSize)
	*finalLen = n
	return runErr
}

func panicToError(r interface{}) error {
	if err, ok := r.(error); ok {
		return pkgerrors.WithStack(err)
	}
	return pkgerrors.Errorf("panic: %v", r)
}

func reportExitCode(colorize bool, err error) int {
	var compileErr *errors.CompileError
	var runtimeErr *errors.RuntimeError
	switch {
	case asCompileError(err, &compileErr):
		printDiagnostic(colorize, compileErr.Error())
		return 1
	case asRuntimeError(err, &runtimeErr):
		printDiagnostic(colorize, runtimeErr.Error())
		return 1
	default:
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 2
	}
}

func asCompileError(err error, target **errors.CompileError) bool {
	if e, ok := err.(*errors.CompileError); ok {
		*target = e
		return true
	}
	return false
}

func asRuntimeError(err error, target **errors.RuntimeError) bool {
	if e, ok := err.(*errors.RuntimeError); ok {
		*target = e
		return true
	}
	return false
}

func printDiagnostic(colorize bool, msg string) {
	if colorize {
		fmt.Fprintf(os.Stderr, "\x1b[31merror:\x1b[0m %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}

func showUsage(flagSet *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "tapelang - an optimizing interpreter for an 8-symbol tape language")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  tapelang [flags] <file>     Run a program from a file")
	fmt.Fprintln(os.Stderr, "  tapelang [flags]            Run a program from standard input")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flagSet.PrintDefaults()
}
