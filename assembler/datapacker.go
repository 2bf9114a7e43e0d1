package assembler

import "github.com/jeraldlt/mimic/vm"

// packData walks every `.data` section in document order and lays out
// its declarations into a flat byte buffer, recording each label's
// absolute byte address into syms. Only `.asciiz` is supported (spec
// §4.C); any other type directive, or an Instruction appearing inside
// a data section, is a fatal ErrUnsupportedDirective.
func packData(sections []Section, syms *SymbolTable, errs *ErrorList, src *Source) []byte {
	var buf []byte

	for _, sec := range sections {
		if sec.Directive != "data" {
			continue
		}
		for _, stmt := range sec.Stmts {
			switch s := stmt.(type) {
			case *LabelDecl:
				addr := dataVmBase() + uint32(len(buf))
				if !syms.defineData(s.Label, addr) {
					errs.add(newError(ErrDuplicateLabel, &s.Span, src, "label %q already defined", s.Label))
				}

			case *DataDecl:
				addr := dataVmBase() + uint32(len(buf))
				if !syms.defineData(s.Label, addr) {
					errs.add(newError(ErrDuplicateLabel, &s.Span, src, "label %q already defined", s.Label))
				}
				if s.Directive != "asciiz" {
					errs.add(newError(ErrUnsupportedDirective, &s.Span, src, "unsupported data directive %q", s.Directive))
					continue
				}
				for _, op := range s.Operands {
					if op.Kind != ExprString {
						errs.add(newError(ErrWrongArgumentType, &op.Span, src, ".asciiz requires a string literal"))
						continue
					}
					buf = append(buf, unquote(op.Text)...)
					buf = append(buf, 0)
				}

			case *Instruction:
				errs.add(newError(ErrWrongArgumentType, &s.Span, src, "instruction %q is not valid inside a .data section", s.Mnemonic))
			}
		}
	}
	return buf
}

func dataVmBase() uint32 { return vm.DataByteStart }
