package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeraldlt/mimic/vm"
)

func (d *Debugger) cmdRun(args []string) error {
	d.Core.PC = vm.TextWordStart
	d.Halted = false
	d.Running = true
	d.Println("Running...")
	return nil
}

func (d *Debugger) cmdContinue(args []string) error {
	if d.Halted {
		return fmt.Errorf("program has halted; use 'run' to restart")
	}
	d.Running = true
	d.Println("Continuing...")
	return nil
}

func (d *Debugger) cmdStep(args []string) error {
	return d.singleStep()
}

// cmdNext behaves like cmdStep: this core has no call instruction whose
// callee it could skip over, so "step over" degrades to "step into".
func (d *Debugger) cmdNext(args []string) error {
	return d.singleStep()
}

func (d *Debugger) singleStep() error {
	if d.Halted {
		return fmt.Errorf("program has halted; use 'run' to restart")
	}
	if err := d.Core.Tick(d.Handler); err != nil {
		d.Halted = true
		return fmt.Errorf("fault at PC=0x%08X: %w", d.Core.PC, err)
	}
	d.Printf("PC = 0x%08X\n", d.Core.PC)
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	return d.addBreakpoint(args, false)
}

func (d *Debugger) cmdTBreak(args []string) error {
	return d.addBreakpoint(args, true)
}

func (d *Debugger) addBreakpoint(args []string, temporary bool) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: break <address-or-label>")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(addr, temporary, "")
	d.Printf("Breakpoint %d at 0x%08X\n", bp.ID, addr)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) < 1 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.EnableBreakpoint(id)
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.DisableBreakpoint(id)
}

func (d *Debugger) cmdWatch(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: watch <register-or-address>")
	}
	name := strings.TrimPrefix(args[0], "$")
	if regNum, ok := vm.RegisterNames[name]; ok {
		wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, args[0], 0, true, int(regNum))
		_ = d.Watchpoints.InitializeWatchpoint(wp.ID, d.Core)
		d.Printf("Watchpoint %d on $%s\n", wp.ID, name)
		return nil
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return fmt.Errorf("not a register or resolvable address: %s", args[0])
	}
	wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, args[0], addr, false, 0)
	_ = d.Watchpoints.InitializeWatchpoint(wp.ID, d.Core)
	d.Printf("Watchpoint %d on 0x%08X\n", wp.ID, addr)
	return nil
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: print <register-or-symbol>")
	}
	name := strings.TrimPrefix(args[0], "$")
	if regNum, ok := vm.RegisterNames[name]; ok {
		d.Printf("$%s = 0x%08X (%d)\n", name, d.Core.Registers.Get(regNum), d.Core.Registers.Get(regNum))
		return nil
	}
	if addr, ok := d.Symbols[args[0]]; ok {
		d.Printf("%s = 0x%08X\n", args[0], addr)
		return nil
	}
	return fmt.Errorf("unknown register or symbol: %s", args[0])
}

func (d *Debugger) cmdExamine(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: x <address> [count]")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	count := 8
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			count = n
		}
	}
	for i := 0; i < count; i++ {
		word, err := d.Core.Memory.Get(addr + uint32(i))
		if err != nil {
			d.Printf("0x%08X: <fault>\n", addr+uint32(i))
			continue
		}
		d.Printf("0x%08X: 0x%08X\n", addr+uint32(i), word)
	}
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: info registers|breakpoints|watchpoints")
	}
	switch args[0] {
	case "registers", "reg":
		regs := d.Core.DumpRegisters()
		for name, num := range vm.RegisterNames {
			d.Printf("$%-4s = 0x%08X\n", name, regs[num])
		}
		d.Printf("PC = 0x%08X  HI = 0x%08X  LO = 0x%08X\n", d.Core.PC, d.Core.HI, d.Core.LO)
	case "breakpoints":
		for _, bp := range d.Breakpoints.GetAllBreakpoints() {
			d.Printf("%d: 0x%08X enabled=%v hits=%d\n", bp.ID, bp.Address, bp.Enabled, bp.HitCount)
		}
	case "watchpoints":
		for _, wp := range d.Watchpoints.GetAllWatchpoints() {
			d.Printf("%d: %s enabled=%v hits=%d\n", wp.ID, wp.Expression, wp.Enabled, wp.HitCount)
		}
	default:
		return fmt.Errorf("unknown info topic: %s", args[0])
	}
	return nil
}

func (d *Debugger) cmdList(args []string) error {
	if len(d.SourceMap) == 0 {
		return fmt.Errorf("no source map loaded")
	}
	pc := d.Core.PC
	for i := int64(pc) - 3; i <= int64(pc)+3; i++ {
		if i < 0 {
			continue
		}
		marker := "  "
		if uint32(i) == pc {
			marker = "->"
		}
		if line, ok := d.SourceMap[uint32(i)]; ok {
			d.Printf("%s %d: %s\n", marker, i, line)
		}
	}
	return nil
}

func (d *Debugger) cmdSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <register> <value>")
	}
	name := strings.TrimPrefix(args[0], "$")
	regNum, ok := vm.RegisterNames[name]
	if !ok {
		return fmt.Errorf("unknown register: %s", args[0])
	}
	value, err := d.ResolveAddress(args[1])
	if err != nil {
		return err
	}
	d.Core.Registers.Set(regNum, value)
	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.Core.Registers = vm.NewRegisterFile()
	d.Core.PC = vm.TextWordStart
	d.Core.HI = 0
	d.Core.LO = 0
	d.Halted = false
	d.Running = false
	d.Println("Core reset")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println(`Commands:
  run, r                 reset PC and start execution
  continue, c             resume execution
  step, s                 execute one instruction
  next, n                 alias for step (no call stack to skip over)
  break, b <addr|label>   set a breakpoint
  tbreak, tb <addr|label> set a one-shot breakpoint
  delete, d [id]          delete a breakpoint (all if no id given)
  enable/disable <id>     toggle a breakpoint
  watch, w <reg|addr>     set a watchpoint
  print, p <reg|symbol>   print a register or resolved label address
  x <addr> [count]        dump memory words starting at addr
  info registers|breakpoints|watchpoints
  list, l                 show source lines around PC
  set <reg> <value>       write a register
  reset                   reset registers and PC
  help, h, ?              this text`)
	return nil
}
