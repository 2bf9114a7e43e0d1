package main

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/jeraldlt/mimic/vm"
)

func newTestHandler(core *vm.Core) (*exitAwareHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	return &exitAwareHandler{core: core, out: bufio.NewWriter(&buf)}, &buf
}

func TestHandlePrintInt(t *testing.T) {
	core := vm.NewCore()
	h, buf := newTestHandler(core)

	regs := core.DumpRegisters()
	regs[vm.RegV0] = 1
	regs[vm.RegA0] = uint32(int32(-7))
	h.handle(0, regs)
	h.out.Flush()

	if buf.String() != "-7" {
		t.Errorf("print_int wrote %q, want %q", buf.String(), "-7")
	}
}

func TestHandlePrintString(t *testing.T) {
	core := vm.NewCore()
	core.LoadData([]uint32{0x00006948}) // "Hi\0\0" little-endian
	h, buf := newTestHandler(core)

	regs := core.DumpRegisters()
	regs[vm.RegV0] = 4
	regs[vm.RegA0] = vm.DataByteStart
	h.handle(0, regs)
	h.out.Flush()

	if buf.String() != "Hi" {
		t.Errorf("print_string wrote %q, want %q", buf.String(), "Hi")
	}
}

func TestHandleExitSetsCode(t *testing.T) {
	core := vm.NewCore()
	h, _ := newTestHandler(core)

	regs := core.DumpRegisters()
	regs[vm.RegV0] = 10
	regs[vm.RegA0] = 5
	h.handle(0, regs)

	if !h.exited || h.code != 5 {
		t.Errorf("expected exited=true code=5, got exited=%v code=%d", h.exited, h.code)
	}
}

func TestRunStopsAtExitSyscall(t *testing.T) {
	core := vm.NewCore()
	// ori $v0, $zero, 10 ; syscall
	ori := uint32(0x0D)<<26 | (0 << 21) | (2 << 16) | 10
	syscall := uint32(0x0C)
	core.LoadText([]uint32{ori, syscall})

	h, _ := newTestHandler(core)
	code, err := run(core, h, 100)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}
