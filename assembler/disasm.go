package assembler

import (
	"fmt"

	"github.com/jeraldlt/mimic/vm"
)

// Disassemble reconstructs a mnemonic and operand string from an encoded
// word, for the debugger's instruction panel. It covers
// exactly the opcodes encodeOne can produce (spec §4.E); any other
// encoding returns a placeholder rather than panicking, since a disassembly
// view may be asked to render words the encoder itself never emits (raw
// data mistaken for text, or a future opcode this core doesn't execute).
func Disassemble(word uint32) string {
	opcode := (word >> 26) & 0x3F
	rs := (word >> 21) & 0x1F
	rt := (word >> 16) & 0x1F
	rd := (word >> 11) & 0x1F
	shamt := (word >> 6) & 0x1F
	imm := word & 0xFFFF
	funct := word & 0x3F

	reg := func(n uint32) string { return "$" + regName(n) }

	switch opcode {
	case vm.OpRType:
		switch funct {
		case vm.FunctSyscall:
			return "syscall"
		case vm.FunctSll:
			return fmt.Sprintf("sll %s, %s, %d", reg(rd), reg(rt), shamt)
		case vm.FunctAdd:
			return fmt.Sprintf("add %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case vm.FunctAddu:
			return fmt.Sprintf("addu %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case vm.FunctAnd:
			return fmt.Sprintf("and %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case vm.FunctOr:
			return fmt.Sprintf("or %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case vm.FunctXor:
			return fmt.Sprintf("xor %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case vm.FunctMult:
			return fmt.Sprintf("mult %s, %s", reg(rs), reg(rt))
		case vm.FunctSlt:
			return fmt.Sprintf("slt %s, %s, %s", reg(rd), reg(rs), reg(rt))
		default:
			return "; unknown encoding"
		}
	case vm.OpJ:
		return fmt.Sprintf("j 0x%08X", (word&0x03FFFFFF))
	case vm.OpBeq:
		return fmt.Sprintf("beq %s, %s, %d", reg(rs), reg(rt), int16(imm))
	case vm.OpBne:
		return fmt.Sprintf("bne %s, %s, %d", reg(rs), reg(rt), int16(imm))
	case vm.OpAddi:
		return fmt.Sprintf("addi %s, %s, %d", reg(rt), reg(rs), int16(imm))
	case vm.OpAddiu:
		return fmt.Sprintf("addiu %s, %s, %d", reg(rt), reg(rs), int16(imm))
	case vm.OpSlti:
		return fmt.Sprintf("slti %s, %s, %d", reg(rt), reg(rs), int16(imm))
	case vm.OpAndi:
		return fmt.Sprintf("andi %s, %s, 0x%04X", reg(rt), reg(rs), imm)
	case vm.OpOri:
		return fmt.Sprintf("ori %s, %s, 0x%04X", reg(rt), reg(rs), imm)
	case vm.OpXori:
		return fmt.Sprintf("xori %s, %s, 0x%04X", reg(rt), reg(rs), imm)
	case vm.OpLui:
		return fmt.Sprintf("lui %s, 0x%04X", reg(rt), imm)
	default:
		return "; unknown encoding"
	}
}

// regName reverses vm.RegisterNames for disassembly output.
func regName(n uint32) string {
	for name, idx := range vm.RegisterNames {
		if idx == n {
			return name
		}
	}
	return fmt.Sprintf("%d", n)
}
