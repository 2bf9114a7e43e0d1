package tools

import (
	"strings"
	"testing"
)

func TestXRef_DefinitionRecorded(t *testing.T) {
	source := ".text\nmain:\nsyscall\n"
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	sym, ok := symbols["main"]
	if !ok {
		t.Fatal("expected main to be recorded")
	}
	if sym.Definition == nil {
		t.Error("expected main to have a definition site")
	}
}

func TestXRef_BranchReferenceClassified(t *testing.T) {
	source := ".text\nloop:\nbeq $t0, $zero, loop\n"
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	sym := symbols["loop"]
	if len(sym.References) != 1 || sym.References[0].Type != RefBranch {
		t.Errorf("expected one RefBranch reference, got %+v", sym.References)
	}
}

func TestXRef_JumpReferenceClassified(t *testing.T) {
	source := ".text\nmain:\nj main\n"
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	sym := symbols["main"]
	found := false
	for _, ref := range sym.References {
		if ref.Type == RefJump {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a RefJump reference, got %+v", sym.References)
	}
}

func TestXRef_DataReferenceClassified(t *testing.T) {
	source := ".data\nmsg: .asciiz \"hi\"\n.text\nmain:\nla $a0, msg\nsyscall\n"
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	sym := symbols["msg"]
	if !sym.IsDataLabel {
		t.Error("expected msg to be marked as a data label")
	}
	if len(sym.References) != 1 || sym.References[0].Type != RefData {
		t.Errorf("expected one RefData reference, got %+v", sym.References)
	}
}

func TestXRef_UndefinedSymbol(t *testing.T) {
	source := ".text\nmain:\nj nowhere\n"
	gen := NewXRefGenerator()
	if _, err := gen.Generate(source, "test.asm"); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	undefined := gen.GetUndefinedSymbols()
	if len(undefined) != 1 || undefined[0].Name != "nowhere" {
		t.Errorf("expected nowhere to be undefined, got %+v", undefined)
	}
}

func TestXRef_UnusedSymbolExcludesMain(t *testing.T) {
	source := ".text\nmain:\nunused:\nsyscall\n"
	gen := NewXRefGenerator()
	if _, err := gen.Generate(source, "test.asm"); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	unused := gen.GetUnusedSymbols()
	if len(unused) != 1 || unused[0].Name != "unused" {
		t.Errorf("expected only unused to be reported, got %+v", unused)
	}
}

func TestXRef_ParseErrorReturnsErr(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate(".text\nmain:\n$$$\n", "test.asm")
	if err == nil {
		t.Fatal("expected a parse error for a statement that starts with a register")
	}
}

func TestGenerateXRef_ReportContainsSummary(t *testing.T) {
	source := ".data\nmsg: .asciiz \"hi\"\n.text\nmain:\nla $a0, msg\nsyscall\n"
	report, err := GenerateXRef(source, "test.asm")
	if err != nil {
		t.Fatalf("GenerateXRef error: %v", err)
	}
	if !strings.Contains(report, "Summary") {
		t.Errorf("expected a summary section, got: %s", report)
	}
	if !strings.Contains(report, "msg") || !strings.Contains(report, "main") {
		t.Errorf("expected both symbols in report, got: %s", report)
	}
}
