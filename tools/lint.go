package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeraldlt/mimic/assembler"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError   LintLevel = iota // syntax errors, undefined references
	LintWarning                  // best-practice violations, likely bugs
	LintInfo                     // style suggestions
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding anchored to a source line/column.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Column  int
	Message string
	Code    string // e.g. "UNDEF_LABEL", "UNREACHABLE_CODE"
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d:%d: %s: %s [%s]", i.Line, i.Column, i.Level, i.Message, i.Code)
}

// LintOptions controls which passes Linter.Lint runs.
type LintOptions struct {
	CheckUnused  bool // warn about labels defined but never referenced
	CheckReach   bool // warn about code after an unconditional jump
	SuggestFixes bool // append a Levenshtein-nearest label to undefined-label errors
}

// DefaultLintOptions enables every pass.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{CheckUnused: true, CheckReach: true, SuggestFixes: true}
}

// Linter analyzes assembly source for likely mistakes beyond what the
// assembler's own error taxonomy catches.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue
	source  *assembler.Source

	definedLabels    map[string]int   // label -> line number
	referencedLabels map[string][]int // label -> line numbers where used
	sections         []assembler.Section
}

// NewLinter returns a Linter configured by options, or DefaultLintOptions
// if options is nil.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options:          options,
		definedLabels:    make(map[string]int),
		referencedLabels: make(map[string][]int),
	}
}

// Lint analyzes input and returns every finding, sorted by position.
func (l *Linter) Lint(input, filename string) []*LintIssue {
	l.source = &assembler.Source{Name: filename, Text: input}
	errs := &assembler.ErrorList{}

	lexer := assembler.NewLexer(l.source, errs)
	toks := lexer.Tokenize()
	parser := assembler.NewParser(toks, l.source, errs)
	l.sections = parser.ParseProgram()

	for _, e := range errs.Errors {
		line, col := 1, 1
		if e.Span != nil {
			line, col = l.lineCol(e.Span.Lo)
		}
		l.issues = append(l.issues, &LintIssue{
			Level:   LintError,
			Line:    line,
			Column:  col,
			Message: e.Message,
			Code:    "PARSE_ERROR",
		})
	}
	if errs.HasErrors() {
		return l.issues
	}

	l.collectLabels()
	l.checkUndefinedLabels()

	if l.options.CheckUnused {
		l.checkUnusedLabels()
	}
	if l.options.CheckReach {
		l.checkUnreachableCode()
	}
	l.checkDataDecls()

	sort.Slice(l.issues, func(i, j int) bool {
		if l.issues[i].Line == l.issues[j].Line {
			return l.issues[i].Column < l.issues[j].Column
		}
		return l.issues[i].Line < l.issues[j].Line
	})
	return l.issues
}

func (l *Linter) lineCol(offset int) (line, col int) {
	line = 1
	lineStart := 0
	for i := 0; i < offset && i < len(l.source.Text); i++ {
		if l.source.Text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

func (l *Linter) collectLabels() {
	for _, sec := range l.sections {
		for _, stmt := range sec.Stmts {
			var label string
			var span assembler.Span
			switch s := stmt.(type) {
			case *assembler.LabelDecl:
				label, span = s.Label, s.Span
			case *assembler.DataDecl:
				label, span = s.Label, s.Span
			default:
				continue
			}
			if _, exists := l.definedLabels[label]; exists {
				line, col := l.lineCol(span.Lo)
				l.issues = append(l.issues, &LintIssue{
					Level:   LintWarning,
					Line:    line,
					Column:  col,
					Message: fmt.Sprintf("duplicate label %q", label),
					Code:    "DUPLICATE_LABEL",
				})
				continue
			}
			line, _ := l.lineCol(span.Lo)
			l.definedLabels[label] = line
		}
	}
}

// branchMnemonics names every instruction whose final argument is a
// label reference (spec §4.B).
var branchMnemonics = map[string]bool{
	"beq": true, "bne": true, "blt": true, "j": true, "la": true,
}

func (l *Linter) checkUndefinedLabels() {
	for _, sec := range l.sections {
		for _, stmt := range sec.Stmts {
			inst, ok := stmt.(*assembler.Instruction)
			if !ok || !branchMnemonics[inst.Mnemonic] || len(inst.Args) == 0 {
				continue
			}
			target := inst.Args[len(inst.Args)-1]
			if target.Kind != assembler.ExprIdent {
				continue
			}
			line, col := l.lineCol(target.Span.Lo)
			l.referencedLabels[target.Text] = append(l.referencedLabels[target.Text], line)
			if _, exists := l.definedLabels[target.Text]; !exists {
				msg := fmt.Sprintf("undefined label %q", target.Text)
				if l.options.SuggestFixes {
					if s := l.findSimilarLabel(target.Text); s != "" {
						msg += fmt.Sprintf(" (did you mean %q?)", s)
					}
				}
				l.issues = append(l.issues, &LintIssue{Level: LintError, Line: line, Column: col, Message: msg, Code: "UNDEF_LABEL"})
			}
		}
	}
}

func (l *Linter) checkUnusedLabels() {
	for label, line := range l.definedLabels {
		if isSpecialLabel(label) {
			continue
		}
		if _, used := l.referencedLabels[label]; !used {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Line:    line,
				Column:  1,
				Message: fmt.Sprintf("label %q defined but never referenced", label),
				Code:    "UNUSED_LABEL",
			})
		}
	}
}

// checkUnreachableCode flags an instruction immediately following an
// unconditional jump when it isn't itself a label target (spec §4.D:
// `j` has no condition, unlike beq/bne/blt). Code after an exit
// syscall is not detected.
func (l *Linter) checkUnreachableCode() {
	for _, sec := range l.sections {
		stmts := sec.Stmts
		for i, stmt := range stmts {
			inst, ok := stmt.(*assembler.Instruction)
			if !ok || inst.Mnemonic != "j" {
				continue
			}
			next := nextInstruction(stmts, i+1)
			if next != nil {
				line, col := l.lineCol(next.Span.Lo)
				l.issues = append(l.issues, &LintIssue{
					Level:   LintWarning,
					Line:    line,
					Column:  col,
					Message: "unreachable code after unconditional jump",
					Code:    "UNREACHABLE_CODE",
				})
			}
		}
	}
}

// nextInstruction returns the first *Instruction at or after index,
// or nil if a label intervenes first (a label makes it a valid jump
// target, so it isn't unreachable).
func nextInstruction(stmts []assembler.Stmt, index int) *assembler.Instruction {
	for i := index; i < len(stmts); i++ {
		switch s := stmts[i].(type) {
		case *assembler.LabelDecl:
			return nil
		case *assembler.Instruction:
			return s
		}
	}
	return nil
}

func (l *Linter) checkDataDecls() {
	for _, sec := range l.sections {
		if sec.Directive != "data" {
			continue
		}
		for _, stmt := range sec.Stmts {
			d, ok := stmt.(*assembler.DataDecl)
			if !ok {
				continue
			}
			if d.Directive != "asciiz" {
				line, col := l.lineCol(d.Span.Lo)
				l.issues = append(l.issues, &LintIssue{
					Level:   LintError,
					Line:    line,
					Column:  col,
					Message: fmt.Sprintf("unsupported data directive %q", "."+d.Directive),
					Code:    "INVALID_DIRECTIVE",
				})
				continue
			}
			if len(d.Operands) == 0 {
				line, col := l.lineCol(d.Span.Lo)
				l.issues = append(l.issues, &LintIssue{
					Level:   LintError,
					Line:    line,
					Column:  col,
					Message: ".asciiz requires at least one string operand",
					Code:    "INVALID_DIRECTIVE",
				})
			}
		}
	}
}

func (l *Linter) findSimilarLabel(target string) string {
	target = strings.ToLower(target)
	bestMatch := ""
	bestDistance := 999
	for label := range l.definedLabels {
		dist := levenshteinDistance(strings.ToLower(label), target)
		if dist < bestDistance && dist <= 3 {
			bestMatch, bestDistance = label, dist
		}
	}
	return bestMatch
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min3(matrix[i-1][j]+1, matrix[i][j-1]+1, matrix[i-1][j-1]+cost)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func isSpecialLabel(label string) bool {
	for _, s := range []string{"main", "_start", "start"} {
		if strings.EqualFold(label, s) {
			return true
		}
	}
	return false
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
