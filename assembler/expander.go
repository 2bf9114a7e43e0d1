package assembler

// expandPseudo walks a `.text` section's statements in order and
// replaces each pseudo-instruction with the sequence of real
// instructions it stands for (spec §4.D). LabelDecls pass through
// untouched; because a label always binds to whatever instruction
// follows it in the output stream, a label written immediately before
// a pseudo-instruction that expands to N real instructions correctly
// ends up pinned to the first of the N — no separate bookkeeping is
// needed as long as expansion never reorders a label relative to its
// following instruction.
func expandPseudo(stmts []Stmt, errs *ErrorList, src *Source) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		inst, ok := stmt.(*Instruction)
		if !ok {
			out = append(out, stmt)
			continue
		}
		out = append(out, expandOne(inst, errs, src)...)
	}
	return out
}

func expandOne(inst *Instruction, errs *ErrorList, src *Source) []Stmt {
	switch inst.Mnemonic {
	case "li":
		return expandLi(inst, errs, src)
	case "la":
		return expandLa(inst, errs, src)
	case "move":
		return expandMove(inst, errs, src)
	case "blt":
		return expandBlt(inst, errs, src)
	default:
		return []Stmt{inst}
	}
}

func expandLi(inst *Instruction, errs *ErrorList, src *Source) []Stmt {
	if len(inst.Args) != 2 {
		errs.add(newError(ErrMissingArgument, &inst.Span, src, "li requires 2 arguments, got %d", len(inst.Args)))
		return nil
	}
	rd, imm := inst.Args[0], inst.Args[1]
	val := imm.Int

	if uint32(val) <= 0xFFFF {
		return []Stmt{&Instruction{
			Mnemonic: "addiu",
			Args:     []Expr{rd, regExpr("zero", imm.Span), imm},
			Span:     inst.Span,
		}}
	}

	upper := uint32(val>>16) & 0xFFFF
	lower := uint32(val) & 0xFFFF
	return []Stmt{
		&Instruction{Mnemonic: "lui", Args: []Expr{regExpr("at", imm.Span), intExpr(int64(upper), imm.Span)}, Span: inst.Span},
		&Instruction{Mnemonic: "ori", Args: []Expr{rd, regExpr("at", imm.Span), intExpr(int64(lower), imm.Span)}, Span: inst.Span},
	}
}

func expandLa(inst *Instruction, errs *ErrorList, src *Source) []Stmt {
	if len(inst.Args) != 2 {
		errs.add(newError(ErrMissingArgument, &inst.Span, src, "la requires 2 arguments, got %d", len(inst.Args)))
		return nil
	}
	rd, label := inst.Args[0], inst.Args[1]
	return []Stmt{
		&Instruction{Mnemonic: "lui", Args: []Expr{regExpr("at", label.Span), labelHiExpr(label)}, Span: inst.Span},
		&Instruction{Mnemonic: "ori", Args: []Expr{rd, regExpr("at", label.Span), labelLoExpr(label)}, Span: inst.Span},
	}
}

func expandMove(inst *Instruction, errs *ErrorList, src *Source) []Stmt {
	if len(inst.Args) != 2 {
		errs.add(newError(ErrMissingArgument, &inst.Span, src, "move requires 2 arguments, got %d", len(inst.Args)))
		return nil
	}
	rd, rs := inst.Args[0], inst.Args[1]
	return []Stmt{&Instruction{
		Mnemonic: "addu",
		Args:     []Expr{rd, rs, regExpr("zero", rs.Span)},
		Span:     inst.Span,
	}}
}

func expandBlt(inst *Instruction, errs *ErrorList, src *Source) []Stmt {
	if len(inst.Args) != 3 {
		errs.add(newError(ErrMissingArgument, &inst.Span, src, "blt requires 3 arguments, got %d", len(inst.Args)))
		return nil
	}
	rs, rt, label := inst.Args[0], inst.Args[1], inst.Args[2]
	return []Stmt{
		&Instruction{Mnemonic: "slt", Args: []Expr{regExpr("at", label.Span), rs, rt}, Span: inst.Span},
		&Instruction{Mnemonic: "bne", Args: []Expr{regExpr("at", label.Span), regExpr("zero", label.Span), label}, Span: inst.Span},
	}
}

func regExpr(name string, span Span) Expr {
	return Expr{Kind: ExprRegister, Text: name, Span: span}
}

func intExpr(v int64, span Span) Expr {
	return Expr{Kind: ExprInt, Int: v, Span: span}
}

// labelHiExpr/labelLoExpr tag an identifier expression so the encoder
// knows to split the label's resolved address across the lui/ori pair
// instead of treating it as a 16-bit immediate (spec §4.D/§4.E).
func labelHiExpr(label Expr) Expr {
	e := label
	e.Kind = ExprLabel
	e.Text = "hi:" + label.Text
	return e
}

func labelLoExpr(label Expr) Expr {
	e := label
	e.Kind = ExprLabel
	e.Text = "lo:" + label.Text
	return e
}
