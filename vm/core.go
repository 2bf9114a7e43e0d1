package vm

import "fmt"

// Core is the fetch/decode/execute engine: a register file plus
// segmented memory plus the PC/HI/LO execution state. It has no
// knowledge of the assembler, the syscall ABI, or any host front-end —
// those are all supplied by the caller (spec §5: the core makes no
// timing guarantees and has no suspension points besides the syscall
// handler call-out).
type Core struct {
	Memory    *Memory
	Registers *RegisterFile

	// PC is word-indexed (not byte-indexed), per spec §3.
	PC uint32
	HI uint32
	LO uint32
}

// NewCore constructs a core with PC at the word address of the text
// segment base, HI/LO zeroed, and the default register reset values
// (spec §3/§6: Core::new_mips_default).
func NewCore() *Core {
	return &Core{
		Memory:    NewMemory(DefaultBlockSize),
		Registers: NewRegisterFile(),
		PC:        TextWordStart,
	}
}

// LoadText bulk-stores words at the text segment base.
func (c *Core) LoadText(words []uint32) { c.Memory.LoadText(words) }

// LoadData bulk-stores words at the data segment base.
func (c *Core) LoadData(words []uint32) { c.Memory.LoadData(words) }

// DumpRegisters returns a snapshot of all 32 general-purpose registers.
func (c *Core) DumpRegisters() [NumRegisters]uint32 { return c.Registers.Dump() }

// CloneDataIfChanged returns a snapshot of the data segment iff its
// generation counter has advanced past lastGen.
func (c *Core) CloneDataIfChanged(lastGen *uint32) []uint32 {
	return c.Memory.CloneDataIfChanged(lastGen)
}

// CloneTextIfChanged returns a snapshot of the text segment iff its
// generation counter has advanced past lastGen.
func (c *Core) CloneTextIfChanged(lastGen *uint32) []uint32 {
	return c.Memory.CloneTextIfChanged(lastGen)
}

// Tick fetches, decodes, and executes exactly one instruction, then
// advances the PC by one word. There is no visible branch delay slot:
// a taken branch or jump rewrites PC during execute, anticipating the
// increment that follows it (spec §4.H).
func (c *Core) Tick(handler SyscallHandler) error {
	inst, err := c.Memory.Get(c.PC)
	if err != nil {
		return err
	}

	c.execute(inst, handler)

	c.PC++
	return nil
}

func (c *Core) execute(inst uint32, handler SyscallHandler) {
	opcode := (inst >> 26) & 0x3F

	if opcode == OpRType && (inst&0x3F) == FunctSyscall {
		newRegs := handler(inst, c.Registers.Dump())
		c.Registers.Load(newRegs)
		return
	}

	switch opcode {
	case OpRType:
		c.executeRType(inst)
	case OpJ:
		index := inst & 0x03FFFFFF
		target := (c.PC & 0xFC000000) | index
		c.PC = target - 1 // tick's increment lands us on target

	case OpBeq:
		rs, rt, imm := extractI(inst)
		if c.Registers.Get(rs) == c.Registers.Get(rt) {
			c.branch(imm)
		}
	case OpBne:
		rs, rt, imm := extractI(inst)
		if c.Registers.Get(rs) != c.Registers.Get(rt) {
			c.branch(imm)
		}
	case OpAddi:
		rs, rt, imm := extractI(inst)
		c.Registers.Set(rt, c.Registers.Get(rs)+imm)
	case OpAddiu:
		rs, rt, imm := extractI(inst)
		c.Registers.Set(rt, c.Registers.Get(rs)+imm)
	case OpSlti:
		rs, rt, imm := extractI(inst)
		if c.Registers.Get(rs) < imm {
			c.Registers.Set(rt, 1)
		} else {
			c.Registers.Set(rt, 0)
		}
	case OpAndi:
		rs, rt, imm := extractI(inst)
		c.Registers.Set(rt, c.Registers.Get(rs)&imm)
	case OpOri:
		rs, rt, imm := extractI(inst)
		c.Registers.Set(rt, c.Registers.Get(rs)|imm)
	case OpXori:
		rs, rt, imm := extractI(inst)
		c.Registers.Set(rt, c.Registers.Get(rs)^imm)
	case OpLui:
		_, rt, imm := extractI(inst)
		c.Registers.Set(rt, imm<<16)
	default:
		panic(fmt.Sprintf("vm: unimplemented opcode 0x%02X", opcode))
	}
}

func (c *Core) executeRType(inst uint32) {
	funct := inst & 0x3F
	shamt := (inst >> 6) & 0x1F
	rd := (inst >> 11) & 0x1F
	rt := (inst >> 16) & 0x1F
	rs := (inst >> 21) & 0x1F

	rtVal := c.Registers.Get(rt)
	rsVal := c.Registers.Get(rs)

	switch funct {
	case FunctSll:
		c.Registers.Set(rd, rtVal<<shamt)
	case FunctAdd:
		c.Registers.Set(rd, rsVal+rtVal)
	case FunctAddu:
		c.Registers.Set(rd, rsVal+rtVal)
	case FunctAnd:
		c.Registers.Set(rd, rsVal&rtVal)
	case FunctOr:
		c.Registers.Set(rd, rsVal|rtVal)
	case FunctXor:
		c.Registers.Set(rd, rsVal^rtVal)
	case FunctMult:
		product := int64(int32(rsVal)) * int64(int32(rtVal))
		c.LO = uint32(product)
		c.HI = uint32(product >> 32)
	case FunctSlt:
		// Unsigned comparison, matching slti (core.go's OpSlti case) and
		// the original reference core's funct 0x2A: this subset's slt
		// does not sign-extend, unlike canonical MIPS.
		if rsVal < rtVal {
			c.Registers.Set(rd, 1)
		} else {
			c.Registers.Set(rd, 0)
		}
	default:
		panic(fmt.Sprintf("vm: unimplemented funct 0x%02X", funct))
	}
}

// branch applies a sign-extended 16-bit word delta to the PC, per the
// reference core's convention: bit 15 set means negative.
func (c *Core) branch(imm16 uint32) {
	if imm16&0x8000 != 0 {
		extended := imm16 | 0xFFFF0000
		c.PC -= ^extended + 1
	} else {
		c.PC += imm16
	}
}

// extractI pulls (rs, rt, imm16) out of an I-type word. imm is
// zero-extended: addi/addiu/andi/ori/xori in this core perform
// unsigned wrap rather than the canonical MIPS sign-extension of the
// immediate (spec §9 design note — a deliberate deviation).
func extractI(inst uint32) (rs, rt, imm uint32) {
	return (inst >> 21) & 0x1F, (inst >> 16) & 0x1F, inst & 0xFFFF
}
