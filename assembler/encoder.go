package assembler

import (
	"strconv"
	"strings"

	"github.com/jeraldlt/mimic/vm"
)

type instForm int

const (
	formR instForm = iota
	formRShift
	formRMultOnly
	formI
	formLui
	formBranch
	formJ
	formSyscall
)

type instSpec struct {
	form   instForm
	opcode uint32
	funct  uint32
}

var mnemonicTable = map[string]instSpec{
	"add":  {form: formR, funct: vm.FunctAdd},
	"addu": {form: formR, funct: vm.FunctAddu},
	"and":  {form: formR, funct: vm.FunctAnd},
	"or":   {form: formR, funct: vm.FunctOr},
	"xor":  {form: formR, funct: vm.FunctXor},
	"slt":  {form: formR, funct: vm.FunctSlt},

	"sll": {form: formRShift, funct: vm.FunctSll},

	"mult": {form: formRMultOnly, funct: vm.FunctMult},

	"addi":  {form: formI, opcode: vm.OpAddi},
	"addiu": {form: formI, opcode: vm.OpAddiu},
	"slti":  {form: formI, opcode: vm.OpSlti},
	"andi":  {form: formI, opcode: vm.OpAndi},
	"ori":   {form: formI, opcode: vm.OpOri},
	"xori":  {form: formI, opcode: vm.OpXori},

	"lui": {form: formLui, opcode: vm.OpLui},

	"beq": {form: formBranch, opcode: vm.OpBeq},
	"bne": {form: formBranch, opcode: vm.OpBne},

	"j": {form: formJ, opcode: vm.OpJ},

	"syscall": {form: formSyscall},
}

// Encoder performs the two-pass label resolution and bit-exact word
// encoding described in spec §4.E: pass one walks the already
// pseudo-expanded `.text` statement stream assigning each real
// instruction its index (skipping LabelDecls, which bind to the next
// instruction's index); pass two re-walks the same stream producing
// one little-endian-significant uint32 word per instruction, now that
// every label used as an operand has a resolved index or address.
type Encoder struct {
	syms   *SymbolTable
	errs   *ErrorList
	source *Source
}

// NewEncoder returns an encoder that resolves labels through syms and
// reports fatal mismatches into errs.
func NewEncoder(syms *SymbolTable, errs *ErrorList, src *Source) *Encoder {
	return &Encoder{syms: syms, errs: errs, source: src}
}

// AssignTextLabels is encoder pass one.
func (e *Encoder) AssignTextLabels(stmts []Stmt) {
	var index uint32
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *LabelDecl:
			if !e.syms.defineText(s.Label, index) {
				e.errs.add(newError(ErrDuplicateLabel, &s.Span, e.source, "label %q already defined", s.Label))
			}
		case *Instruction:
			index++
		}
	}
}

// Encode is pass two: it returns one word per Instruction in stmts, in
// order, skipping LabelDecls.
func (e *Encoder) Encode(stmts []Stmt) []uint32 {
	var words []uint32
	var index uint32
	for _, stmt := range stmts {
		inst, ok := stmt.(*Instruction)
		if !ok {
			continue
		}
		words = append(words, e.encodeOne(inst, index))
		index++
	}
	return words
}

func (e *Encoder) encodeOne(inst *Instruction, index uint32) uint32 {
	spec, ok := mnemonicTable[inst.Mnemonic]
	if !ok {
		e.errs.add(newError(ErrUnknownMnemonic, &inst.Span, e.source, "unknown mnemonic %q", inst.Mnemonic))
		return 0
	}

	switch spec.form {
	case formSyscall:
		return vm.FunctSyscall

	case formR:
		rd := e.regArg(inst, 0)
		rs := e.regArg(inst, 1)
		rt := e.regArg(inst, 2)
		return (rs << 21) | (rt << 16) | (rd << 11) | spec.funct

	case formRShift:
		rd := e.regArg(inst, 0)
		rt := e.regArg(inst, 1)
		shamt := e.immArg(inst, 2) & 0x1F
		return (rt << 16) | (rd << 11) | (shamt << 6) | spec.funct

	case formRMultOnly:
		rs := e.regArg(inst, 0)
		rt := e.regArg(inst, 1)
		return (rs << 21) | (rt << 16) | spec.funct

	case formI:
		rt := e.regArg(inst, 0)
		rs := e.regArg(inst, 1)
		imm := e.immOrLabelArg(inst, 2) & 0xFFFF
		return (spec.opcode << 26) | (rs << 21) | (rt << 16) | imm

	case formLui:
		rt := e.regArg(inst, 0)
		imm := e.immOrLabelArg(inst, 1) & 0xFFFF
		return (spec.opcode << 26) | (rt << 16) | imm

	case formBranch:
		rs := e.regArg(inst, 0)
		rt := e.regArg(inst, 1)
		target := e.labelTargetIndex(inst, 2)
		offset := int32(target) - int32(index) - 1
		return (spec.opcode << 26) | (rs << 21) | (rt << 16) | (uint32(offset) & 0xFFFF)

	case formJ:
		// The core's jump target is the raw encoded field reinterpreted
		// as an absolute word address (spec §4.E): since every text
		// address's top 6 bits are zero, the field must carry
		// vm.TextWordStart + index, not the bare 0-based index.
		target := vm.TextWordStart + e.labelTargetIndex(inst, 0)
		return (spec.opcode << 26) | (target & 0x03FFFFFF)

	default:
		return 0
	}
}

func (e *Encoder) arg(inst *Instruction, n int) Expr {
	if n >= len(inst.Args) {
		e.errs.add(newError(ErrMissingArgument, &inst.Span, e.source,
			"%s requires at least %d argument(s)", inst.Mnemonic, n+1))
		return Expr{}
	}
	return inst.Args[n]
}

func (e *Encoder) regArg(inst *Instruction, n int) uint32 {
	a := e.arg(inst, n)
	if a.Kind != ExprRegister {
		e.errs.add(newError(ErrWrongArgumentType, &a.Span, e.source, "expected a register argument"))
		return 0
	}
	return e.regNumber(a)
}

func (e *Encoder) regNumber(a Expr) uint32 {
	name := strings.TrimPrefix(a.Text, "$")
	if num, ok := vm.RegisterNames[name]; ok {
		return num
	}
	if n, err := strconv.ParseUint(name, 10, 32); err == nil && n < vm.NumRegisters {
		return uint32(n)
	}
	e.errs.add(newError(ErrUnknownRegister, &a.Span, e.source, "unknown register %q", a.Text))
	return 0
}

func (e *Encoder) immArg(inst *Instruction, n int) uint32 {
	a := e.arg(inst, n)
	if a.Kind != ExprInt {
		e.errs.add(newError(ErrWrongArgumentType, &a.Span, e.source, "expected an integer argument"))
		return 0
	}
	return uint32(a.Int)
}

// immOrLabelArg accepts either a literal integer or a hi:/lo: tagged
// label produced by the `la` expansion (spec §4.D), splitting the
// resolved address into its upper or lower half.
func (e *Encoder) immOrLabelArg(inst *Instruction, n int) uint32 {
	a := e.arg(inst, n)
	switch a.Kind {
	case ExprInt:
		return uint32(a.Int)
	case ExprLabel:
		addr, half, ok := e.resolveLabelHalf(a)
		if !ok {
			e.errs.add(newError(ErrUndefinedLabel, &a.Span, e.source, "undefined label %q", a.Text))
			return 0
		}
		if half == "hi" {
			return (addr >> 16) & 0xFFFF
		}
		return addr & 0xFFFF
	case ExprIdent:
		addr, ok := e.syms.Resolve(a.Text)
		if !ok {
			e.errs.add(newError(ErrUndefinedLabel, &a.Span, e.source, "undefined label %q", a.Text))
			return 0
		}
		return addr & 0xFFFF
	default:
		e.errs.add(newError(ErrWrongArgumentType, &a.Span, e.source, "expected an integer or label argument"))
		return 0
	}
}

func (e *Encoder) resolveLabelHalf(a Expr) (addr uint32, half string, ok bool) {
	name := a.Text
	switch {
	case strings.HasPrefix(name, "hi:"):
		half, name = "hi", strings.TrimPrefix(name, "hi:")
	case strings.HasPrefix(name, "lo:"):
		half, name = "lo", strings.TrimPrefix(name, "lo:")
	}
	v, found := e.syms.Resolve(name)
	return v, half, found
}

func (e *Encoder) labelTargetIndex(inst *Instruction, n int) uint32 {
	a := e.arg(inst, n)
	if a.Kind != ExprIdent {
		e.errs.add(newError(ErrWrongArgumentType, &a.Span, e.source, "expected a label argument"))
		return 0
	}
	idx, ok := e.syms.Text[a.Text]
	if !ok {
		e.errs.add(newError(ErrUndefinedLabel, &a.Span, e.source, "undefined label %q", a.Text))
		return 0
	}
	return idx
}
