package assembler

import "os"

// Program is the fully assembled output of one source file: the
// encoded `.text` words in instruction order, the packed `.data`
// bytes, and the symbol table that produced them (spec §6).
type Program struct {
	TextWords []uint32
	DataBytes []byte
	Symbols   *SymbolTable

	// SourceLines maps a text word index to the source line it was
	// encoded from, letting a debugger's `list` command show assembly
	// alongside the program counter.
	SourceLines map[uint32]string
}

// AssembleFromFile reads path and assembles it. A file that cannot be
// opened is reported as ErrFileNotFound rather than returned as a raw
// os error, keeping every failure mode inside the Error taxonomy.
func AssembleFromFile(path string) (*Program, *ErrorList) {
	data, err := os.ReadFile(path)
	if err != nil {
		errs := &ErrorList{}
		errs.add(newError(ErrFileNotFound, nil, nil, "cannot read %s: %v", path, err))
		return nil, errs
	}
	return AssembleFromString(path, string(data))
}

// AssembleFromString runs the full pipeline — lex, parse, expand
// pseudo-instructions, pack data, resolve labels, encode — over text
// read from an in-memory buffer named name for diagnostics.
//
// Every stage keeps going after recording an error so a single pass
// surfaces as many diagnostics as possible; the returned *Program is
// only meaningful when the *ErrorList has no errors.
func AssembleFromString(name, text string) (*Program, *ErrorList) {
	src := &Source{Name: name, Text: text}
	errs := &ErrorList{}

	lexer := NewLexer(src, errs)
	toks := lexer.Tokenize()

	parser := NewParser(toks, src, errs)
	sections := parser.ParseProgram()

	syms := NewSymbolTable()
	dataBytes := packData(sections, syms, errs, src)

	var textStmts []Stmt
	for _, sec := range sections {
		if sec.Directive != "text" {
			continue
		}
		textStmts = append(textStmts, expandPseudo(sec.Stmts, errs, src)...)
	}

	enc := NewEncoder(syms, errs, src)
	enc.AssignTextLabels(textStmts)
	words := enc.Encode(textStmts)
	lines := sourceLineMap(textStmts, src)

	if errs.HasErrors() {
		return nil, errs
	}
	return &Program{TextWords: words, DataBytes: dataBytes, Symbols: syms, SourceLines: lines}, errs
}

// sourceLineMap walks the same expanded statement stream the encoder
// assigns indices over, recording the source line text for each real
// instruction's index. Pseudo-expansion means several indices can share
// one original source line (spec §4.D).
func sourceLineMap(stmts []Stmt, src *Source) map[uint32]string {
	lines := make(map[uint32]string)
	var index uint32
	for _, stmt := range stmts {
		inst, ok := stmt.(*Instruction)
		if !ok {
			continue
		}
		_, text := src.line(inst.Span.Lo)
		lines[index] = text
		index++
	}
	return lines
}
