package vm

// Opcodes and funct codes for the subset of MIPS32 this core executes.
// These mirror the encoder's table (spec §4.E) exactly — the two must
// never drift, since round-tripping encode→decode is a tested invariant.
const (
	OpRType  = 0x00
	OpJ      = 0x02
	OpBeq    = 0x04
	OpBne    = 0x05
	OpAddi   = 0x08
	OpAddiu  = 0x09
	OpSlti   = 0x0A
	OpAndi   = 0x0C
	OpOri    = 0x0D
	OpXori   = 0x0E
	OpLui    = 0x0F

	FunctSll    = 0x00
	FunctAdd    = 0x20
	FunctAddu   = 0x21
	FunctAnd    = 0x24
	FunctOr     = 0x25
	FunctXor    = 0x26
	FunctMult   = 0x28
	FunctSlt    = 0x2A
	FunctSyscall = 0x0C

	// TextBase and DataBase are the byte addresses of the two segment
	// starts, duplicated here (rather than imported from the assembler
	// package) so that vm has no compile-time dependency on assembler —
	// only the reverse dependency (assembler producing words this core
	// loads) is allowed.
	TextBase = TextByteStart
	DataBase = DataByteStart
)
