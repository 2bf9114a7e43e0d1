package assembler_test

import (
	"strings"
	"testing"

	"github.com/jeraldlt/mimic/assembler"
)

func TestDisassembleRoundTripsAddi(t *testing.T) {
	prog, errs := assembler.AssembleFromString("test.asm", ".text\nmain:\naddi $t0, $zero, 5\n")
	if errs.HasErrors() {
		t.Fatalf("assemble error: %v", errs)
	}
	got := assembler.Disassemble(prog.TextWords[0])
	if !strings.HasPrefix(got, "addi $t0, $zero, 5") {
		t.Errorf("Disassemble = %q, want prefix %q", got, "addi $t0, $zero, 5")
	}
}

func TestDisassembleSyscall(t *testing.T) {
	prog, errs := assembler.AssembleFromString("test.asm", ".text\nmain:\nsyscall\n")
	if errs.HasErrors() {
		t.Fatalf("assemble error: %v", errs)
	}
	if got := assembler.Disassemble(prog.TextWords[0]); got != "syscall" {
		t.Errorf("Disassemble = %q, want %q", got, "syscall")
	}
}

func TestDisassembleUnknownEncodingIsPlaceholder(t *testing.T) {
	got := assembler.Disassemble(0xFFFFFFFF)
	if got != "; unknown encoding" {
		t.Errorf("Disassemble(garbage) = %q, want placeholder", got)
	}
}
