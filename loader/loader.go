// Package loader bridges an assembled program into a running core. The
// assembler does all the work of encoding instructions and packing data
// (spec §4.E/§4.C); loading a *vm.Core just means copying those words
// into memory and translating the assembler's symbol table into the
// absolute addresses a debugger or syscall handler can use directly.
package loader

import (
	"fmt"
	"os"

	"github.com/jeraldlt/mimic/assembler"
	"github.com/jeraldlt/mimic/vm"
)

// Program is a fully loaded, ready-to-run core plus the debugging
// metadata produced alongside it.
type Program struct {
	Core *vm.Core

	// Symbols merges the assembler's data and text tables into a single
	// lookup of absolute addresses: data labels keep their byte address
	// (the convention syscalls like print_string expect), text labels
	// are shifted to the absolute word address a PC comparison needs.
	Symbols map[string]uint32

	// SourceLines maps an absolute text word address to the source line
	// it was assembled from.
	SourceLines map[uint32]string
}

// LoadFile reads, assembles, and loads path into a fresh core.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return LoadString(path, string(data))
}

// LoadString assembles text and loads the result into a fresh core.
func LoadString(name, text string) (*Program, error) {
	prog, errs := assembler.AssembleFromString(name, text)
	if errs.HasErrors() {
		return nil, errs
	}
	return LoadProgram(prog), nil
}

// LoadProgram copies an already-assembled program's words into a fresh
// core and builds its debugging metadata.
func LoadProgram(prog *assembler.Program) *Program {
	core := vm.NewCore()
	core.LoadText(prog.TextWords)
	core.LoadData(packWords(prog.DataBytes))

	symbols := make(map[string]uint32, len(prog.Symbols.Data)+len(prog.Symbols.Text))
	for name, addr := range prog.Symbols.Data {
		symbols[name] = addr
	}
	for name, index := range prog.Symbols.Text {
		symbols[name] = vm.TextWordStart + index
	}

	sourceLines := make(map[uint32]string, len(prog.SourceLines))
	for index, line := range prog.SourceLines {
		sourceLines[vm.TextWordStart+index] = line
	}

	return &Program{Core: core, Symbols: symbols, SourceLines: sourceLines}
}

// packWords groups data bytes into little-endian words, padding the
// final word with zeros if the byte count isn't a multiple of four.
func packWords(data []byte) []uint32 {
	n := (len(data) + 3) / 4
	words := make([]uint32, n)
	for i := 0; i < len(data); i++ {
		words[i/4] |= uint32(data[i]) << (8 * uint(i%4))
	}
	return words
}
