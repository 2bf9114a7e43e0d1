package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeraldlt/mimic/vm"
)

// Debugger wraps a vm.Core with breakpoint/watchpoint management, command
// history, and the symbol table needed to resolve label operands typed at
// the prompt. It holds no opinion about how commands reach it — RunCLI and
// the tview-based TUI both drive the same ExecuteCommand entry point.
type Debugger struct {
	Core    *vm.Core
	Handler vm.SyscallHandler

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	Running    bool
	StepMode   StepMode
	StepOverPC uint32

	// Symbols maps label name to its resolved address/index, merging the
	// assembler's data and text tables (spec §6).
	Symbols map[string]uint32

	// SourceMap maps a text word index to the source line it was encoded
	// from, for the `list` command.
	SourceMap map[uint32]string

	LastCommand string
	ExitCode    int
	Halted      bool

	Output strings.Builder
}

// StepMode is the debugger's current single-step strategy.
type StepMode int

const (
	StepNone StepMode = iota
	StepSingle
	StepOver
)

// NewDebugger wraps core. Syscalls are executed through Handler, which
// defaults to nil and must be set (directly, or via SetHandler) before
// running any program that issues one.
func NewDebugger(core *vm.Core) *Debugger {
	return &Debugger{
		Core:        core,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Symbols:     make(map[string]uint32),
		SourceMap:   make(map[uint32]string),
	}
}

// SetHandler installs the syscall handler used by run/continue/step.
func (d *Debugger) SetHandler(handler vm.SyscallHandler) {
	d.Handler = handler
}

// LoadSymbols installs the label table used to resolve operands like
// `break main` or `print count`.
func (d *Debugger) LoadSymbols(symbols map[string]uint32) {
	d.Symbols = symbols
}

// LoadSourceMap installs the instruction-index-to-source-line mapping used
// by the `list` command.
func (d *Debugger) LoadSourceMap(sourceMap map[uint32]string) {
	d.SourceMap = sourceMap
}

// ResolveAddress resolves addrStr as a label first, then as a decimal or
// 0x-prefixed hexadecimal literal.
func (d *Debugger) ResolveAddress(addrStr string) (uint32, error) {
	if addr, ok := d.Symbols[addrStr]; ok {
		return addr, nil
	}
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		v, err := strconv.ParseUint(addrStr[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
		return uint32(v), nil
	}
	v, err := strconv.ParseUint(addrStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return uint32(v), nil
}

// ExecuteCommand parses and runs one command line, repeating LastCommand on
// an empty line (gdb's convention for step/next).
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}
	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "watch", "w":
		return d.cmdWatch(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "list", "l":
		return d.cmdList(args)

	case "set":
		return d.cmdSet(args)

	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause before the
// instruction at the current PC runs.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.Core.PC

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"
	case StepOver:
		if pc == d.StepOverPC {
			d.StepMode = StepNone
			return true, "step over complete"
		}
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil && bp.Enabled {
		bp.HitCount++
		if bp.Temporary {
			_ = d.Breakpoints.DeleteBreakpoint(bp.ID)
		}
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.Core); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// GetOutput drains and returns the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// SetStepOver arms a single step; this core has no call-depth tracking
// (no CALL/RET instruction pair), so step-over degrades to step-into.
func (d *Debugger) SetStepOver() {
	d.StepMode = StepSingle
	d.Running = true
}
