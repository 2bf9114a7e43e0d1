package assembler_test

import (
	"testing"

	"github.com/jeraldlt/mimic/assembler"
	"github.com/jeraldlt/mimic/vm"
)

func TestAssembleDataSectionPacksAsciizAndNullTerminates(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".data\nmsg: .asciiz \"hi\"\n.text\nsyscall")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	want := []byte{'h', 'i', 0}
	if string(prog.DataBytes) != string(want) {
		t.Errorf("data bytes = %v, want %v", prog.DataBytes, want)
	}
	addr, ok := prog.Symbols.Data["msg"]
	if !ok || addr != vm.DataByteStart {
		t.Errorf("msg address = %v/%v, want %v/true", addr, ok, vm.DataByteStart)
	}
}

func TestAssembleUnsupportedDataDirectiveIsFatal(t *testing.T) {
	_, errs := assembler.AssembleFromString("t.asm", ".data\nn: .word 5\n.text\nsyscall")
	if !errs.HasErrors() {
		t.Fatal("expected an unsupported-directive error for .word")
	}
}

func TestAssembleLiExpandsToSingleAddiuForSmallImmediate(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nli $t0, 5")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	if len(prog.TextWords) != 1 {
		t.Fatalf("got %d words, want 1 (addiu only)", len(prog.TextWords))
	}
	want := uint32(vm.OpAddiu)<<26 | (0 << 21) | (8 << 16) | 5
	if prog.TextWords[0] != want {
		t.Errorf("word = 0x%08X, want 0x%08X", prog.TextWords[0], want)
	}
}

func TestAssembleLiExpandsToLuiOriForLargeImmediate(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nli $t0, 0x12345678")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	if len(prog.TextWords) != 2 {
		t.Fatalf("got %d words, want 2 (lui+ori)", len(prog.TextWords))
	}
}

func TestAssembleMoveExpandsToAddu(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nmove $t0, $sp")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	want := uint32(0)<<26 | (29 << 21) | (0 << 16) | (8 << 11) | vm.FunctAddu
	if prog.TextWords[0] != want {
		t.Errorf("word = 0x%08X, want 0x%08X", prog.TextWords[0], want)
	}
}

func TestAssembleBltExpandsToSltThenBne(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nblt $t0, $t1, target\naddi $t2, $zero, 0\ntarget:\naddi $t3, $zero, 1")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	if len(prog.TextWords) != 4 {
		t.Fatalf("got %d words, want 4 (slt, bne, addi, addi)", len(prog.TextWords))
	}
	sltOpcode := prog.TextWords[0] >> 26
	if sltOpcode != vm.OpRType {
		t.Errorf("first expanded word is not R-type, opcode = 0x%X", sltOpcode)
	}
	bneOpcode := prog.TextWords[1] >> 26
	if bneOpcode != vm.OpBne {
		t.Errorf("second expanded word opcode = 0x%X, want OpBne", bneOpcode)
	}
}

func TestAssembleLabelPinsToFirstExpandedInstruction(t *testing.T) {
	// A label written directly on a pseudo-instruction must resolve to
	// the first of its expanded real instructions, not the pseudo-op
	// itself (there is no such "instruction" once expansion runs).
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nstart:\nli $t0, 0x12345678\nj start")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	jWord := prog.TextWords[len(prog.TextWords)-1]
	wantTarget := vm.TextWordStart + 0
	got := jWord & 0x03FFFFFF
	if got != uint32(wantTarget) {
		t.Errorf("j target = 0x%X, want 0x%X", got, wantTarget)
	}
}
