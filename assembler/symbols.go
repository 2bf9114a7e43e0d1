package assembler

// SymbolTable holds the two disjoint namespaces labels resolve into:
// data labels carry an absolute byte address, text labels carry an
// instruction index (not a byte address — the encoder turns these into
// word-indexed PC-relative/absolute values per spec §4.E). The two
// tables are checked independently: a name defined in both is accepted
// (Resolve then returns the Data entry); duplicates within a table are
// fatal (spec §4.C/§4.D, §9 Open Question resolved in favor of strict
// rejection).
type SymbolTable struct {
	Data map[string]uint32
	Text map[string]uint32
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Data: map[string]uint32{}, Text: map[string]uint32{}}
}

func (st *SymbolTable) defineData(name string, addr uint32) bool {
	if _, ok := st.Data[name]; ok {
		return false
	}
	st.Data[name] = addr
	return true
}

func (st *SymbolTable) defineText(name string, index uint32) bool {
	if _, ok := st.Text[name]; ok {
		return false
	}
	st.Text[name] = index
	return true
}

// Resolve looks a label up in either namespace, preferring Data (an
// `la` can only ever target a data label; `j`/branches only ever
// target a text label, so collisions across the two namespaces never
// arise from valid programs).
func (st *SymbolTable) Resolve(name string) (uint32, bool) {
	if addr, ok := st.Data[name]; ok {
		return addr, true
	}
	if idx, ok := st.Text[name]; ok {
		return idx, true
	}
	return 0, false
}
