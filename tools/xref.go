package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeraldlt/mimic/assembler"
)

// ReferenceType indicates how a symbol is used at one site.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota // symbol defined here
	RefBranch                          // conditional branch target (beq/bne/blt)
	RefJump                            // unconditional jump target (j)
	RefData                            // referenced as a data address (la)
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefBranch:
		return "branch"
	case RefJump:
		return "jump"
	case RefData:
		return "data"
	default:
		return "unknown"
	}
}

// Reference is a single use or definition site of a symbol.
type Reference struct {
	Type ReferenceType
	Line int
}

// Symbol is a label together with every place it's defined and used.
type Symbol struct {
	Name        string
	Definition  *Reference
	References  []*Reference
	IsDataLabel bool
}

// XRefGenerator walks a parsed program building a symbol cross-reference.
type XRefGenerator struct {
	source  *assembler.Source
	symbols map[string]*Symbol
}

// NewXRefGenerator returns an empty generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate parses input and returns its full symbol table.
func (x *XRefGenerator) Generate(input, filename string) (map[string]*Symbol, error) {
	x.source = &assembler.Source{Name: filename, Text: input}
	errs := &assembler.ErrorList{}

	lexer := assembler.NewLexer(x.source, errs)
	toks := lexer.Tokenize()
	parser := assembler.NewParser(toks, x.source, errs)
	sections := parser.ParseProgram()

	if errs.HasErrors() {
		var sb strings.Builder
		errs.Render(&sb)
		return nil, fmt.Errorf("parse error:\n%s", sb.String())
	}

	x.collectDefinitions(sections)
	x.collectReferences(sections)

	return x.symbols, nil
}

func (x *XRefGenerator) symbol(name string) *Symbol {
	sym, ok := x.symbols[name]
	if !ok {
		sym = &Symbol{Name: name}
		x.symbols[name] = sym
	}
	return sym
}

// lineOf returns the 1-based line number containing offset. The assembler
// package keeps its own line-mapping unexported, so callers outside it
// recompute it the same way lint.go does.
func (x *XRefGenerator) lineOf(offset int) int {
	line := 1
	for i := 0; i < offset && i < len(x.source.Text); i++ {
		if x.source.Text[i] == '\n' {
			line++
		}
	}
	return line
}

func (x *XRefGenerator) collectDefinitions(sections []assembler.Section) {
	for _, sec := range sections {
		for _, stmt := range sec.Stmts {
			switch s := stmt.(type) {
			case *assembler.LabelDecl:
				sym := x.symbol(s.Label)
				sym.Definition = &Reference{Type: RefDefinition, Line: x.lineOf(s.Span.Lo)}
				if sec.Directive == "data" {
					sym.IsDataLabel = true
				}
			case *assembler.DataDecl:
				sym := x.symbol(s.Label)
				sym.Definition = &Reference{Type: RefDefinition, Line: x.lineOf(s.Span.Lo)}
				sym.IsDataLabel = true
			}
		}
	}
}

func (x *XRefGenerator) collectReferences(sections []assembler.Section) {
	for _, sec := range sections {
		for _, stmt := range sec.Stmts {
			inst, ok := stmt.(*assembler.Instruction)
			if !ok {
				continue
			}
			for _, arg := range inst.Args {
				refType, ok := labelRefType(inst.Mnemonic, arg)
				if !ok {
					continue
				}
				sym := x.symbol(arg.Text)
				sym.References = append(sym.References, &Reference{Type: refType, Line: x.lineOf(arg.Span.Lo)})
			}
		}
	}
}

// labelRefType reports how arg is used as a label reference, if at all.
func labelRefType(mnemonic string, arg assembler.Expr) (ReferenceType, bool) {
	if arg.Kind != assembler.ExprIdent {
		return 0, false
	}
	switch mnemonic {
	case "beq", "bne", "blt":
		return RefBranch, true
	case "j":
		return RefJump, true
	case "la":
		return RefData, true
	default:
		return 0, false
	}
}

// XRefReport renders a symbol cross-reference as text.
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport sorts symbols by name for deterministic output.
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &XRefReport{symbols: sorted}
}

func (r *XRefReport) String() string {
	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-30s", sym.Name))
		if sym.IsDataLabel {
			sb.WriteString(" [data]")
		} else {
			sb.WriteString(" [label]")
		}
		sb.WriteString("\n")

		if sym.Definition != nil {
			sb.WriteString(fmt.Sprintf("  Defined:     line %d\n", sym.Definition.Line))
		} else {
			sb.WriteString("  Defined:     (undefined)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  Referenced:  (never)\n")
		} else {
			sb.WriteString(fmt.Sprintf("  Referenced:  %d time(s)\n", len(sym.References)))
			byType := make(map[ReferenceType][]int)
			for _, ref := range sym.References {
				byType[ref.Type] = append(byType[ref.Type], ref.Line)
			}
			for _, refType := range []ReferenceType{RefJump, RefBranch, RefData} {
				lines := byType[refType]
				if len(lines) == 0 {
					continue
				}
				strs := make([]string, len(lines))
				for i, l := range lines {
					strs[i] = fmt.Sprintf("%d", l)
				}
				sb.WriteString(fmt.Sprintf("    %-10s: line(s) %s\n", refType.String(), strings.Join(strs, ", ")))
			}
		}
		sb.WriteString("\n")
	}

	defined, undefined, unused := 0, 0, 0
	for _, sym := range r.symbols {
		if sym.Definition != nil {
			defined++
		} else {
			undefined++
		}
		if len(sym.References) == 0 {
			unused++
		}
	}
	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total symbols:     %d\n", len(r.symbols)))
	sb.WriteString(fmt.Sprintf("Defined:           %d\n", defined))
	sb.WriteString(fmt.Sprintf("Undefined:         %d\n", undefined))
	sb.WriteString(fmt.Sprintf("Unused:            %d\n", unused))
	return sb.String()
}

// GenerateXRef parses input and renders its cross-reference report.
func GenerateXRef(input, filename string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(input, filename)
	if err != nil {
		return "", err
	}
	return NewXRefReport(symbols).String(), nil
}

// GetUndefinedSymbols returns symbols referenced but never defined.
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	var undefined []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition == nil && len(sym.References) > 0 {
			undefined = append(undefined, sym)
		}
	}
	sort.Slice(undefined, func(i, j int) bool { return undefined[i].Name < undefined[j].Name })
	return undefined
}

// GetUnusedSymbols returns symbols defined but never referenced, excluding
// the conventional entry-point labels.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	var unused []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition != nil && len(sym.References) == 0 && !isSpecialLabel(sym.Name) {
			unused = append(unused, sym)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Name < unused[j].Name })
	return unused
}
