package vm

// SyscallHandler is the sole escape hatch from the execution core to
// host code. It receives the raw `syscall` instruction word (always
// 0x0000000C for this core, but passed through so a handler can in
// principle distinguish call sites by preceding convention) and the
// full register snapshot at the moment of the trap, and returns the
// register state to install afterward. The handler has no reference to
// memory or the PC; any wider side effects belong to a collaborator the
// host wires in separately (§6.H/§9 of the spec this core implements).
type SyscallHandler func(inst uint32, regs [NumRegisters]uint32) [NumRegisters]uint32

// NopSyscallHandler returns the registers unchanged. Useful for tests
// and for single-stepping code that never traps.
func NopSyscallHandler(_ uint32, regs [NumRegisters]uint32) [NumRegisters]uint32 {
	return regs
}
