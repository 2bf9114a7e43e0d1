package assembler

// Parser turns the lexer's token stream into a list of Sections,
// following the grammar in spec §4.B:
//
//	Program       ::= Section+
//	Section       ::= SectionDirective Statement*
//	Statement     ::= DataDecl | Instruction | LabelDecl
//	DataDecl      ::= Label TypeDirective PrimaryExpr ("," PrimaryExpr)*
//	Instruction   ::= "syscall" | Ident (Argument ("," Argument)*)?
//	LabelDecl     ::= Ident ":"
//	Label         ::= Ident ":"
//	Argument      ::= Register | PrimaryExpr
//	PrimaryExpr   ::= IntLit | FloatLit | StrLit | Ident
//
// `Label` is ambiguous between LabelDecl and the prefix of DataDecl;
// the parser looks one token past the colon and picks DataDecl only if
// a type directive follows.
type Parser struct {
	toks   []Token
	pos    int
	source *Source
	errors *ErrorList
}

// NewParser returns a parser over toks, reporting fatal structural
// errors into errs.
func NewParser(toks []Token, src *Source, errs *ErrorList) *Parser {
	return &Parser{toks: toks, source: src, errors: errs}
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) atEnd() bool { return p.cur().Type == TokEOF }

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) peekAt(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) fail(kind ErrorKind, span Span, format string, args ...any) {
	p.errors.add(newError(kind, &span, p.source, format, args...))
}

// ParseProgram parses the whole token stream into an ordered list of
// sections. It returns as much as it could parse even after recording
// an error, so a caller inspecting p.errors sees every structural
// problem rather than only the first.
func (p *Parser) ParseProgram() []Section {
	var sections []Section
	for !p.atEnd() {
		if p.cur().Type != TokSectionDirective {
			p.fail(ErrWrongArgumentType, p.cur().Span, "expected .text or .data, found %s", p.cur().Type)
			p.advance()
			continue
		}
		sections = append(sections, p.parseSection())
	}
	return sections
}

func (p *Parser) parseSection() Section {
	dirTok := p.advance()
	sec := Section{Directive: normalizeDirective(dirTok.Literal), Span: dirTok.Span}

	for !p.atEnd() && p.cur().Type != TokSectionDirective {
		stmt := p.parseStatement()
		if stmt != nil {
			sec.Stmts = append(sec.Stmts, stmt)
		}
	}
	return sec
}

func normalizeDirective(lit string) string {
	if len(lit) > 0 && lit[0] == '.' {
		lit = lit[1:]
	}
	return lit
}

func (p *Parser) parseStatement() Stmt {
	tok := p.cur()

	switch tok.Type {
	case TokSyscall:
		p.advance()
		return &Instruction{Mnemonic: "syscall", Span: tok.Span}

	case TokIdent:
		// Could be Label, DataDecl, or Instruction.
		if p.peekAt(1).Type == TokColon {
			if p.peekAt(2).Type == TokTypeDirective {
				return p.parseDataDecl()
			}
			return p.parseLabelDecl()
		}
		return p.parseInstruction()

	default:
		p.fail(ErrWrongArgumentType, tok.Span, "unexpected %s in statement position", tok.Type)
		p.advance()
		return nil
	}
}

func (p *Parser) parseLabelDecl() Stmt {
	nameTok := p.advance() // ident
	colonTok := p.advance()
	return &LabelDecl{Label: nameTok.Literal, Span: Span{nameTok.Span.Lo, colonTok.Span.Hi}}
}

func (p *Parser) parseDataDecl() Stmt {
	nameTok := p.advance() // ident
	p.advance()            // colon
	dirTok := p.advance()  // type directive

	decl := &DataDecl{Label: nameTok.Literal, Directive: normalizeDirective(dirTok.Literal)}
	decl.Operands = append(decl.Operands, p.parsePrimaryExpr())
	for p.cur().Type == TokComma {
		p.advance()
		decl.Operands = append(decl.Operands, p.parsePrimaryExpr())
	}
	last := decl.Operands[len(decl.Operands)-1]
	decl.Span = Span{nameTok.Span.Lo, last.Span.Hi}
	return decl
}

func (p *Parser) parseInstruction() Stmt {
	mnemonicTok := p.advance()
	inst := &Instruction{Mnemonic: mnemonicTok.Literal, Span: mnemonicTok.Span}

	if p.canStartArgument() {
		inst.Args = append(inst.Args, p.parseArgument())
		for p.cur().Type == TokComma {
			p.advance()
			inst.Args = append(inst.Args, p.parseArgument())
		}
		inst.Span.Hi = inst.Args[len(inst.Args)-1].Span.Hi
	}
	return inst
}

func (p *Parser) canStartArgument() bool {
	switch p.cur().Type {
	case TokRegister, TokInt, TokFloat, TokString, TokIdent:
		return true
	default:
		return false
	}
}

func (p *Parser) parseArgument() Expr {
	if p.cur().Type == TokRegister {
		tok := p.advance()
		return Expr{Kind: ExprRegister, Text: tok.Literal, Span: tok.Span}
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() Expr {
	tok := p.cur()
	switch tok.Type {
	case TokInt:
		p.advance()
		return Expr{Kind: ExprInt, Text: tok.Literal, Int: tok.IntVal, Span: tok.Span}
	case TokFloat:
		p.advance()
		return Expr{Kind: ExprFloat, Text: tok.Literal, Span: tok.Span}
	case TokString:
		p.advance()
		return Expr{Kind: ExprString, Text: tok.Literal, Span: tok.Span}
	case TokIdent:
		p.advance()
		return Expr{Kind: ExprIdent, Text: tok.Literal, Span: tok.Span}
	default:
		p.fail(ErrMissingArgument, tok.Span, "expected an operand, found %s", tok.Type)
		p.advance()
		return Expr{Kind: ExprIdent, Text: "", Span: tok.Span}
	}
}
