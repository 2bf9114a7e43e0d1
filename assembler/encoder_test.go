package assembler_test

import (
	"testing"

	"github.com/jeraldlt/mimic/assembler"
	"github.com/jeraldlt/mimic/vm"
)

// addi $t7, $zero, 42 -- spec §8 scenario 6, bit-exact against the
// literal word core_test.go feeds to vm.Core.Tick.
func TestAssembleAddiMatchesCoreScenario(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".text\naddi $t7, $zero, 42")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	if len(prog.TextWords) != 1 {
		t.Fatalf("got %d words, want 1", len(prog.TextWords))
	}
	if prog.TextWords[0] != 0x200F002A {
		t.Errorf("word = 0x%08X, want 0x200F002A", prog.TextWords[0])
	}
}

func TestAssembleRTypeEncoding(t *testing.T) {
	// addu $t1, $zero, $sp -> rd=9, rs=0, rt=29, funct=0x21
	prog, errs := assembler.AssembleFromString("t.asm", ".text\naddu $t1, $zero, $sp")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	want := uint32(0)<<26 | (0 << 21) | (29 << 16) | (9 << 11) | vm.FunctAddu
	if prog.TextWords[0] != want {
		t.Errorf("word = 0x%08X, want 0x%08X", prog.TextWords[0], want)
	}
}

func TestAssembleSyscallEncoding(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nsyscall")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	if prog.TextWords[0] != 0x0000000C {
		t.Errorf("word = 0x%08X, want 0x0000000C", prog.TextWords[0])
	}
}

func TestAssembleForwardJumpEmbedsTextWordStart(t *testing.T) {
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nj target\naddi $t0, $zero, 1\ntarget:\naddi $t1, $zero, 2")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	// target is instruction index 2 (0-based): j, addi, target:addi.
	want := uint32(vm.OpJ)<<26 | ((vm.TextWordStart + 2) & 0x03FFFFFF)
	if prog.TextWords[0] != want {
		t.Errorf("j word = 0x%08X, want 0x%08X", prog.TextWords[0], want)
	}
}

func TestAssembleBackwardBranchOffsetMatchesMinusOneConvention(t *testing.T) {
	// loop: addi $t0,$t0,-1 ; bne $t0,$zero,loop -- branch is at index 1,
	// target is index 0, so offset = 0 - 1 - 1 = -2 -> imm16 0xFFFE.
	prog, errs := assembler.AssembleFromString("t.asm", ".text\nloop:\naddi $t0, $t0, -1\nbne $t0, $zero, loop")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Error())
	}
	imm := prog.TextWords[1] & 0xFFFF
	if imm != 0xFFFE {
		t.Errorf("branch imm16 = 0x%04X, want 0xFFFE", imm)
	}
}

func TestAssembleDuplicateLabelIsFatal(t *testing.T) {
	_, errs := assembler.AssembleFromString("t.asm", ".text\nloop:\naddi $t0, $zero, 1\nloop:\naddi $t1, $zero, 2")
	if !errs.HasErrors() {
		t.Fatal("expected a duplicate-label error")
	}
}

func TestAssembleUndefinedLabelIsFatal(t *testing.T) {
	_, errs := assembler.AssembleFromString("t.asm", ".text\nj nowhere")
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-label error")
	}
}
