package main

import (
	"fmt"
	"strconv"
	"strings"
)

// printer.go implements spec §6's print/write side: rendering a Value back
// to text, readably enough that `read` on the output reproduces an equal
// structure for every type the reader accepts (spec §8's round-trip
// property).

// WriteString renders v using write syntax (strings quoted, characters as
// #\x) and returns the text.
func (it *Interpreter) WriteString(v Value) string {
	var b strings.Builder
	it.writeValue(&b, v, true)
	return b.String()
}

// PrintString renders v using princ syntax (strings/characters printed raw,
// no escaping) for human-facing `princ`; `print` and `write` use WriteString.
func (it *Interpreter) PrintString(v Value) string {
	var b strings.Builder
	it.writeValue(&b, v, false)
	return b.String()
}

func (it *Interpreter) writeValue(b *strings.Builder, v Value, readably bool) {
	switch v.Tag() {
	case TagNil:
		b.WriteString("NIL")
	case TagFixnum:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case TagChar:
		if readably {
			b.WriteString("#\\")
			b.WriteString(charName(v.Rune()))
		} else {
			b.WriteRune(v.Rune())
		}
	case TagCons:
		it.writeCons(b, v, readably)
	case TagIref:
		it.writeIref(b, v, readably)
	case TagJref:
		it.writeJref(b, v, readably)
	case TagUnbound:
		b.WriteString("#<UNBOUND>")
	}
}

func charName(r rune) string {
	switch r {
	case ' ':
		return "Space"
	case '\n':
		return "Newline"
	case '\t':
		return "Tab"
	case '\r':
		return "Return"
	case 0:
		return "Null"
	case 0x7f:
		return "Rubout"
	}
	return string(r)
}

func (it *Interpreter) writeCons(b *strings.Builder, v Value, readably bool) {
	if isSymbolNamed(it, it.car(v), "QUOTE") {
		if cdr := it.cdr(v); cdr.IsCons() && it.cdr(cdr).IsNil() {
			b.WriteByte('\'')
			it.writeValue(b, it.car(cdr), readably)
			return
		}
	}

	b.WriteByte('(')
	first := true
	for v.IsCons() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		it.writeValue(b, it.car(v), readably)
		v = it.cdr(v)
	}
	if !v.IsNil() {
		b.WriteString(" . ")
		it.writeValue(b, v, readably)
	}
	b.WriteByte(')')
}

func (it *Interpreter) writeIref(b *strings.Builder, v Value, readably bool) {
	switch obj := it.heap.iref(v).(type) {
	case *Symbol:
		if readably && obj.Package == it.keywordPackage {
			b.WriteByte(':')
		}
		b.WriteString(obj.Name)
	case *Package:
		fmt.Fprintf(b, "#<PACKAGE %s>", obj.Name)
	case *Vector:
		b.WriteString("#(")
		for i, e := range obj.Elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			it.writeValue(b, e, readably)
		}
		b.WriteByte(')')
	case *Function:
		if obj.IsBuiltin() {
			fmt.Fprintf(b, "#<BUILTIN-FUNCTION %s>", obj.Name)
		} else {
			fmt.Fprintf(b, "#<FUNCTION %s>", obj.Name)
		}
	case *Struct:
		fmt.Fprintf(b, "#S(%s", obj.TypeName)
		for _, s := range obj.Slots {
			b.WriteByte(' ')
			it.writeValue(b, s, readably)
		}
		b.WriteByte(')')
	default:
		b.WriteString("#<IREF>")
	}
}

func (it *Interpreter) writeJref(b *strings.Builder, v Value, readably bool) {
	switch obj := it.heap.jref(v).(type) {
	case *LString:
		if readably {
			b.WriteByte('"')
			for _, r := range obj.String() {
				if r == '"' || r == '\\' {
					b.WriteByte('\\')
				}
				b.WriteRune(r)
			}
			b.WriteByte('"')
		} else {
			b.WriteString(obj.String())
		}
	case *Double:
		if obj.isNaN() {
			b.WriteString("NAN")
		} else {
			b.WriteString(strconv.FormatFloat(obj.F, 'g', -1, 64))
		}
	case *BitVector:
		b.WriteString("#*")
		for _, bit := range obj.Bits {
			if bit {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	case *Stream:
		fmt.Fprintf(b, "#<STREAM %s>", obj.Name)
	default:
		b.WriteString("#<JREF>")
	}
}
