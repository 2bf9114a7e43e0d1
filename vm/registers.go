package vm

import "fmt"

// Conventional register aliases, in index order (also accepted by the
// assembler's operand parser).
const (
	RegZero = 0
	RegAt   = 1
	RegV0   = 2
	RegV1   = 3
	RegA0   = 4
	RegA1   = 5
	RegA2   = 6
	RegA3   = 7
	RegT0   = 8
	RegT1   = 9
	RegT2   = 10
	RegT3   = 11
	RegT4   = 12
	RegT5   = 13
	RegT6   = 14
	RegT7   = 15
	RegS0   = 16
	RegS1   = 17
	RegS2   = 18
	RegS3   = 19
	RegS4   = 20
	RegS5   = 21
	RegS6   = 22
	RegS7   = 23
	RegT8   = 24
	RegT9   = 25
	RegK0   = 26
	RegK1   = 27
	RegGp   = 28
	RegSp   = 29
	RegFp   = 30
	RegRa   = 31

	// NumRegisters is the fixed size of the general-purpose register file.
	NumRegisters = 32

	// GpInit and SpInit are the reset values of $gp and $sp.
	GpInit uint32 = 0x10000000
	SpInit uint32 = 0x7FFFEFFC
)

// RegisterNames maps the canonical lowercase register name (without the
// leading '$') to its index. A bare numeric spelling ("$8") is not a
// key here; the assembler's operand resolver falls back to parsing the
// name as an integer when the symbolic lookup misses.
var RegisterNames = map[string]uint32{
	"zero": RegZero, "at": RegAt,
	"v0": RegV0, "v1": RegV1,
	"a0": RegA0, "a1": RegA1, "a2": RegA2, "a3": RegA3,
	"t0": RegT0, "t1": RegT1, "t2": RegT2, "t3": RegT3,
	"t4": RegT4, "t5": RegT5, "t6": RegT6, "t7": RegT7,
	"s0": RegS0, "s1": RegS1, "s2": RegS2, "s3": RegS3,
	"s4": RegS4, "s5": RegS5, "s6": RegS6, "s7": RegS7,
	"t8": RegT8, "t9": RegT9,
	"k0": RegK0, "k1": RegK1,
	"gp": RegGp, "sp": RegSp, "fp": RegFp, "ra": RegRa,
}

// RegisterFile is the 32-entry MIPS32 general-purpose register bank.
// $zero always reads as 0; writes to it are silently dropped.
type RegisterFile struct {
	regs [NumRegisters]uint32
}

// NewRegisterFile returns a register file initialized per the MIPS32
// convention used by this core: $gp = 0x10000000, $sp = 0x7FFFEFFC, all
// others zero.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.regs[RegGp] = GpInit
	rf.regs[RegSp] = SpInit
	return rf
}

// Get returns the value of register i. Indices outside [0,31] are a
// programmer error in the decoder, not user input, and are fatal.
func (rf *RegisterFile) Get(i uint32) uint32 {
	if i >= NumRegisters {
		panic(fmt.Sprintf("vm: register index %d out of range", i))
	}
	return rf.regs[i]
}

// Set writes value to register i, except that writes to $zero (index 0)
// are silently dropped. Indices outside [0,31] are fatal.
func (rf *RegisterFile) Set(i uint32, value uint32) {
	if i >= NumRegisters {
		panic(fmt.Sprintf("vm: register index %d out of range", i))
	}
	if i != RegZero {
		rf.regs[i] = value
	}
}

// Dump returns a snapshot of all 32 registers, including $zero.
func (rf *RegisterFile) Dump() [NumRegisters]uint32 {
	return rf.regs
}

// Load overwrites all 32 registers, including index 0. This is used by
// the syscall bridge to let a handler set conventional result registers
// (and, if it chooses to, a nonzero $zero — the core does not protect
// against that here, only through Set).
func (rf *RegisterFile) Load(values [NumRegisters]uint32) {
	rf.regs = values
}
