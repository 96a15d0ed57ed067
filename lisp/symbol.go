package lisp

import "sync"

// SymbolID is the canonical identity of an interned symbol. Two symbols
// with the same spelling always share the same SymbolID, so symbol
// equality (for eq? and for environment lookup) is comparison of SymbolID
// values rather than string comparison.
type SymbolID uint32

// symbolTable is a process-wide map from spelling to identity: Intern
// inserts-or-finds, Peek finds without inserting, and the reverse map lets
// errors and the printer recover the spelling from an ID. Symbol strings
// are never reclaimed, so the table only ever grows.
type symbolTable struct {
	mu   sync.Mutex
	ids  map[string]SymbolID
	strs []string // strs[id-1] is the spelling of SymbolID(id)
}

func newSymbolTable() *symbolTable {
	return &symbolTable{ids: make(map[string]SymbolID)}
}

func (t *symbolTable) intern(s string) SymbolID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[s]; ok {
		return id
	}
	t.strs = append(t.strs, s)
	id := SymbolID(len(t.strs))
	t.ids[s] = id
	return id
}

func (t *symbolTable) peek(s string) (SymbolID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.ids[s]
	return id, ok
}

func (t *symbolTable) name(id SymbolID) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == 0 || int(id) > len(t.strs) {
		return "#<unknown-symbol>"
	}
	return t.strs[id-1]
}

// globalSymbols is the single process-wide symbol table used by Intern and
// SymbolName.
var globalSymbols = newSymbolTable()

// Intern returns the canonical SymbolID for spelling s, interning it if
// this is the first time s has been seen.
func Intern(s string) SymbolID { return globalSymbols.intern(s) }

// PeekSymbol returns the SymbolID already assigned to s, if any, without
// interning it.
func PeekSymbol(s string) (SymbolID, bool) { return globalSymbols.peek(s) }

// SymbolName returns the spelling that was interned to produce id.
func SymbolName(id SymbolID) string { return globalSymbols.name(id) }

// SymbolValue is a convenience constructor combining Intern and Sym.
func SymbolValue(s string) Value { return Sym(Intern(s)) }
