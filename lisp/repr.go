package lisp

import (
	"bytes"
	"strconv"

	"github.com/toolness/ascheme/heap"
)

// Repr renders v the way it would be printed at a REPL or by the display
// primitive. Quote sugar is expanded back into (quote x), matching the
// reader's own expansion of 'x, so reading and then printing a canonical
// datum (no comments, no quote-shortening) yields the same text.
func Repr(h *heap.Heap, v Value) string {
	var buf bytes.Buffer
	writeValue(&buf, h, v)
	return buf.String()
}

func writeValue(buf *bytes.Buffer, h *heap.Heap, v Value) {
	switch v.Tag {
	case TagNumber:
		buf.WriteString(formatNumber(v.Num))
	case TagBool:
		if v.Bool {
			buf.WriteString("#t")
		} else {
			buf.WriteString("#f")
		}
	case TagString:
		buf.WriteString(strconv.Quote(v.Str))
	case TagSymbol:
		buf.WriteString(SymbolName(v.Sym))
	case TagNil:
		buf.WriteString("()")
	case TagUnspecified:
		buf.WriteString("#<unspecified>")
	case TagPair:
		writePair(buf, h, v)
	case TagProcedure:
		writeProcedure(buf, h, v)
	case TagBoundProcedure:
		buf.WriteString("#<bound-procedure>")
	default:
		buf.WriteString("#<invalid>")
	}
}

func formatNumber(x float64) string {
	if x == float64(int64(x)) && x < 1e15 && x > -1e15 {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// writePair prints a pair chain as a proper list "(a b c)" or, when the
// chain ends in something other than Nil, a dotted pair "(a b . c)".
func writePair(buf *bytes.Buffer, h *heap.Heap, v Value) {
	buf.WriteByte('(')
	first := true
	for {
		car, cdr, ok := DerefPair(h, v)
		if !ok {
			buf.WriteString("<stale-pair>")
			break
		}
		if !first {
			buf.WriteByte(' ')
		}
		first = false
		writeValue(buf, h, car)
		if cdr.IsNil() {
			break
		}
		if cdr.IsPair() {
			v = cdr
			continue
		}
		buf.WriteString(" . ")
		writeValue(buf, h, cdr)
		break
	}
	buf.WriteByte(')')
}

func writeProcedure(buf *bytes.Buffer, h *heap.Heap, v Value) {
	info, ok := derefProcedure(h, v)
	if !ok {
		buf.WriteString("#<stale-procedure>")
		return
	}
	if info.Name != "" {
		buf.WriteString("#<procedure " + info.Name + ">")
		return
	}
	buf.WriteString("#<procedure>")
}
