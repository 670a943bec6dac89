package main

// symbols.go implements spec §4.4: hashed string→symbol interning under a
// package. Grounded on the teacher's symbols.go string table, generalized
// from a flat name→id map (sufficient for FIRST/THIRD, which never needs
// per-symbol cells) into full Common-Lisp symbol objects with value,
// function, macro-function, and property-list cells.

const packageHashSize = 1021

// Symbol is the iref object backing every interned (and uninterned) symbol.
type Symbol struct {
	Name string

	Value    Value
	Function Value
	Macro    Value

	Plist Value

	Special  bool
	Constant bool

	// BuiltinIndex indexes into the Interpreter's built-in function table
	// when this symbol names a built-in; -1 otherwise.
	BuiltinIndex int

	Package Value // back-reference to owning Package iref, or Nil if uninterned
}

func newSymbol(name string) *Symbol {
	return &Symbol{
		Name:         name,
		Value:        Unbound,
		Function:     Unbound,
		Macro:        Unbound,
		Plist:        Nil,
		BuiltinIndex: -1,
	}
}

func (s *Symbol) irefSubtype() IrefSubtype { return SubSymbol }

func (s *Symbol) markChildren(h *Heap) {
	h.mark(s.Value)
	h.mark(s.Function)
	h.mark(s.Macro)
	h.mark(s.Plist)
	h.mark(s.Package)
}

func (it *Interpreter) symbolOf(v Value) *Symbol {
	return it.heap.iref(v).(*Symbol)
}

// Package is the iref object backing a symbol-name table, per spec §4.4:
// two fixed-size hash tables (external and internal) of 1021 chains.
type Package struct {
	Name     string
	External [packageHashSize][]Value // chains of Symbol values
	Internal [packageHashSize][]Value

	Uses []Value // packages used, as Package values
}

func newPackage(name string) *Package { return &Package{Name: name} }

func (p *Package) irefSubtype() IrefSubtype { return SubPackage }

func (p *Package) markChildren(h *Heap) {
	for _, chain := range p.External {
		for _, sym := range chain {
			h.mark(sym)
		}
	}
	for _, chain := range p.Internal {
		for _, sym := range chain {
			h.mark(sym)
		}
	}
	for _, u := range p.Uses {
		h.mark(u)
	}
}

func (it *Interpreter) packageOf(v Value) *Package {
	return it.heap.iref(v).(*Package)
}

// hashName computes the "PJW-ish" hash named in spec §4.4: shift-left-4,
// XOR in the next byte, and fold a nonzero top nibble back into the low
// bits.
func hashName(s string) uint {
	var h uint
	for i := 0; i < len(s); i++ {
		h = (h << 4) ^ uint(s[i])
		if top := h & 0xf0000000; top != 0 {
			h ^= top >> 24
			h &^= top
		}
	}
	return h % packageHashSize
}

// findInChains looks for a symbol named s in a set of hash chains,
// returning it and whether it was present.
func (it *Interpreter) findInChains(chains *[packageHashSize][]Value, s string, idx uint) (Value, bool) {
	for _, sym := range chains[idx] {
		if it.symbolOf(sym).Name == s {
			return sym, true
		}
	}
	return Nil, false
}

// intern implements spec §4.4's interning algorithm: look in both the
// package's external and internal tables, and if absent allocate a fresh
// symbol and prepend it to the internal chain.
func (it *Interpreter) intern(pkg Value, name string) Value {
	p := it.packageOf(pkg)
	idx := hashName(name)

	if sym, ok := it.findInChains(&p.External, name, idx); ok {
		return sym
	}
	if sym, ok := it.findInChains(&p.Internal, name, idx); ok {
		return sym
	}

	sym := newSymbol(name)
	sv := it.heap.allocIref(sym)
	sym.Package = pkg
	p.Internal[idx] = append([]Value{sv}, p.Internal[idx]...)

	if pkg == it.keywordPackage {
		sym.Value = sv
		sym.Constant = true
		it.exportSymbol(pkg, sv)
	}

	return sv
}

// exportSymbol moves a symbol from its package's internal chain to its
// external chain, as happens automatically for keywords.
func (it *Interpreter) exportSymbol(pkg, sym Value) {
	p := it.packageOf(pkg)
	name := it.symbolOf(sym).Name
	idx := hashName(name)

	chain := p.Internal[idx]
	for i, s := range chain {
		if Eq(s, sym) {
			p.Internal[idx] = append(chain[:i], chain[i+1:]...)
			break
		}
	}
	for _, s := range p.External[idx] {
		if Eq(s, sym) {
			return
		}
	}
	p.External[idx] = append(p.External[idx], sym)
}

// findPackageChain reports which of a package's two tables holds sym, used
// by spec §8's "hash mod 1021 equals the chain index" testable property.
func (it *Interpreter) findPackageChain(pkg, sym Value) (idx uint, external, found bool) {
	p := it.packageOf(pkg)
	name := it.symbolOf(sym).Name
	idx = hashName(name)
	for _, s := range p.External[idx] {
		if Eq(s, sym) {
			return idx, true, true
		}
	}
	for _, s := range p.Internal[idx] {
		if Eq(s, sym) {
			return idx, false, true
		}
	}
	return idx, false, false
}

// gensym builds a fresh, uninterned symbol with a generated name, for the
// `gensym` built-in.
func (it *Interpreter) gensym(prefix string) Value {
	it.gensymCounter++
	sym := newSymbol(prefixNum(prefix, it.gensymCounter))
	return it.heap.allocIref(sym)
}

func prefixNum(prefix string, n int) string {
	var digits [20]byte
	i := len(digits)
	if n == 0 {
		i--
		digits[i] = '0'
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return prefix + string(digits[i:])
}
