// Command mimic assembles and runs MIPS32 assembly source, optionally
// dropping into an interactive debugger.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jeraldlt/mimic/config"
	"github.com/jeraldlt/mimic/debugger"
	"github.com/jeraldlt/mimic/loader"
	"github.com/jeraldlt/mimic/vm"
)

// Version is overridden at build time with -ldflags "-X main.Version=v1.2.3".
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		maxTicks    = flag.Uint64("max-ticks", 0, "Maximum instructions before halt (0: use config default)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("mimic %s\n", Version)
		os.Exit(0)
	}
	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	limit := *maxTicks
	if limit == 0 {
		limit = cfg.Execution.MaxCycles
	}

	asmFile := flag.Arg(0)
	if *verboseMode {
		fmt.Printf("Assembling %s\n", asmFile)
	}

	prog, err := loader.LoadFile(asmFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly error:\n%v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Entry: $pc=0x%08X, %d symbols\n", prog.Core.PC, len(prog.Symbols))
	}

	sys := newSyscallHandler(prog.Core, os.Stdout)

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(prog.Core)
		dbg.SetHandler(sys.handle)
		dbg.LoadSymbols(prog.Symbols)
		dbg.LoadSourceMap(prog.SourceLines)

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("mimic debugger - type 'help' for commands")
			fmt.Printf("Program loaded: %s\n", asmFile)
			fmt.Println()
			if err := debugger.RunCLI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
				os.Exit(1)
			}
		}
		os.Exit(dbg.ExitCode)
	}

	exitCode, err := run(prog.Core, sys, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nRuntime error at pc=0x%08X: %v\n", prog.Core.PC, err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Println("\nExecution complete")
		fmt.Printf("Exit code: %d\n", exitCode)
		dumpRegisters(prog.Core)
	}
	os.Exit(exitCode)
}

// run ticks core until the exit syscall sets sys.exited, or limit
// instructions have executed (a crude runaway-loop guard; this core has no
// separate halted state of its own, so syscall 10 communicates completion
// through the handler rather than through *vm.Core).
func run(core *vm.Core, sys *exitAwareHandler, limit uint64) (int, error) {
	var ticks uint64
	for {
		if sys.exited {
			return sys.code, nil
		}
		if limit > 0 && ticks >= limit {
			return 0, fmt.Errorf("exceeded max-ticks (%d)", limit)
		}
		if err := core.Tick(sys.handle); err != nil {
			return 0, err
		}
		ticks++
	}
}

func dumpRegisters(core *vm.Core) {
	regs := core.DumpRegisters()
	names := make([]string, vm.NumRegisters)
	for name, idx := range vm.RegisterNames {
		names[idx] = name
	}
	for i, name := range names {
		fmt.Printf("$%-4s = 0x%08X\n", name, regs[i])
	}
	fmt.Printf("pc   = 0x%08X\n", core.PC)
	fmt.Printf("hi   = 0x%08X, lo = 0x%08X\n", core.HI, core.LO)
}

func printHelp() {
	fmt.Printf(`mimic %s - MIPS32 assembler and emulator

Usage: mimic [options] <assembly-file>

Options:
  -help          Show this help message
  -version       Show version information
  -debug         Start in debugger mode (CLI)
  -tui           Start in TUI debugger mode
  -max-ticks N   Maximum instructions before halt (default: from config)
  -verbose       Enable verbose output

Examples:
  mimic examples/hello.s
  mimic -debug examples/fibonacci.s
  mimic -tui examples/bubble_sort.s

Debugger commands (when in -debug mode): run, continue, step, next,
break ADDR, watch EXPR, print EXPR, info registers, list, help.
`, Version)
}

// newSyscallHandler implements the small syscall ABI needed to run the
// example programs: print-integer ($v0=1), print-string ($v0=4), and exit
// ($v0=10). $a0 holds the argument; for print-string it's a data address
// read as a NUL-terminated, word-packed byte string.
func newSyscallHandler(core *vm.Core, out *os.File) *exitAwareHandler {
	return &exitAwareHandler{core: core, out: bufio.NewWriter(out)}
}

type exitAwareHandler struct {
	out    *bufio.Writer
	core   *vm.Core
	exited bool
	code   int
}

func (h *exitAwareHandler) handle(inst uint32, regs [vm.NumRegisters]uint32) [vm.NumRegisters]uint32 {
	switch regs[vm.RegV0] {
	case 1: // print_int
		fmt.Fprintf(h.out, "%d", int32(regs[vm.RegA0]))
		h.out.Flush()
	case 4: // print_string
		h.out.WriteString(h.readCString(regs[vm.RegA0]))
		h.out.Flush()
	case 10: // exit
		h.exited = true
		h.code = int(regs[vm.RegA0])
	}
	return regs
}

// readCString walks word-packed bytes starting at addr (a byte address in
// the data segment) until a NUL, mirroring the packing loader.packWords
// performs when it loads .asciiz data.
func (h *exitAwareHandler) readCString(addr uint32) string {
	if h.core == nil {
		return ""
	}
	var sb strings.Builder
	for i := uint32(0); ; i++ {
		byteAddr := addr + i
		wordAddr := vm.DataWordStart + (byteAddr-vm.DataByteStart)/4
		word, err := h.core.Memory.Get(wordAddr)
		if err != nil {
			break
		}
		b := byte(word >> (8 * ((byteAddr - vm.DataByteStart) % 4)))
		if b == 0 {
			break
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
