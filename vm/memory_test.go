package vm_test

import (
	"testing"

	"github.com/jeraldlt/mimic/vm"
)

func TestMemoryReadUnwrittenIsZero(t *testing.T) {
	m := vm.NewMemory(64)
	got, err := m.Get(vm.TextWordStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("unwritten word = 0x%X, want 0", got)
	}
}

func TestMemoryOutOfBoundsReadFaults(t *testing.T) {
	m := vm.NewMemory(64)
	_, err := m.Get(0)
	if err == nil {
		t.Fatal("expected a fault reading address 0")
	}
	var fault *vm.Fault
	if !errorsAs(err, &fault) {
		t.Fatalf("expected *vm.Fault, got %T: %v", err, err)
	}
}

func TestMemoryOutOfBoundsWriteIsSilent(t *testing.T) {
	m := vm.NewMemory(64)
	m.Set(0, 0xFF) // outside both segments; must not panic
}

func TestMemorySetGetRoundTrip(t *testing.T) {
	m := vm.NewMemory(8)
	m.Set(vm.DataWordStart+3, 0xCAFEBABE)
	got, err := m.Get(vm.DataWordStart + 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Errorf("got 0x%X, want 0xCAFEBABE", got)
	}
}

func TestMemoryGrowsPastInitialBlock(t *testing.T) {
	m := vm.NewMemory(4)
	m.Set(vm.TextWordStart+100, 1)
	got, err := m.Get(vm.TextWordStart + 100)
	if err != nil || got != 1 {
		t.Fatalf("got %d, %v; want 1, nil", got, err)
	}
}

func TestMemoryGenerationBumpsOnEveryWrite(t *testing.T) {
	m := vm.NewMemory(64)
	before := m.DataGeneration()
	m.Set(vm.DataWordStart, 5)
	m.Set(vm.DataWordStart, 5) // same value: still bumps
	after := m.DataGeneration()
	if after <= before+1 {
		t.Errorf("expected generation to advance by at least 2, got %d -> %d", before, after)
	}
}

func TestMemoryCloneIfChanged(t *testing.T) {
	m := vm.NewMemory(64)
	var lastGen uint32
	if snap := m.CloneDataIfChanged(&lastGen); snap != nil {
		t.Fatalf("expected no snapshot before any write, got %v", snap)
	}
	m.Set(vm.DataWordStart, 9)
	snap := m.CloneDataIfChanged(&lastGen)
	if snap == nil || snap[0] != 9 {
		t.Fatalf("expected snapshot with first word 9, got %v", snap)
	}
	if again := m.CloneDataIfChanged(&lastGen); again != nil {
		t.Fatalf("expected nil when generation has not advanced, got %v", again)
	}
}

func TestMemoryLoadTextAndData(t *testing.T) {
	m := vm.NewMemory(64)
	m.LoadText([]uint32{0x0C, 0x01})
	m.LoadData([]uint32{0x41424344})

	if got, _ := m.Get(vm.TextWordStart); got != 0x0C {
		t.Errorf("text[0] = 0x%X, want 0x0C", got)
	}
	if got, _ := m.Get(vm.TextWordStart + 1); got != 0x01 {
		t.Errorf("text[1] = 0x%X, want 0x01", got)
	}
	if got, _ := m.Get(vm.DataWordStart); got != 0x41424344 {
		t.Errorf("data[0] = 0x%X, want 0x41424344", got)
	}
}

// errorsAs is a tiny local shim so this file doesn't need to import
// "errors" just for a single As call in one test.
func errorsAs(err error, target **vm.Fault) bool {
	f, ok := err.(*vm.Fault)
	if !ok {
		return false
	}
	*target = f
	return true
}
