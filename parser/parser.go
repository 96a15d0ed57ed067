// Package parser implements the reader: a recursive-descent parser over
// parser/lexer's token stream that builds lisp.Value data directly on a
// heap.Heap, the way the lisp package's Eval expects to find it.
package parser

import (
	"bytes"
	"io"
	"strconv"

	"github.com/toolness/ascheme/heap"
	"github.com/toolness/ascheme/lisp"
	"github.com/toolness/ascheme/parser/lexer"
	"github.com/toolness/ascheme/parser/token"
)

// Parser reads a stream of top-level expressions one at a time, keeping
// one token of lookahead the way a classic recursive-descent reader does.
type Parser struct {
	heap *heap.Heap
	lex  *lexer.Lexer
	curr *token.Token
	peek *token.Token

	// strLits dedups string-literal text within one Parser's lifetime.
	// Symbol spellings need no such table here: lisp.Intern already
	// dedups those process-wide the moment SymbolValue interns one.
	strLits map[string]string
}

// New returns a Parser reading from r, allocating any pairs it builds on h.
// name identifies the source in error positions (a file path, or "<repl>").
func New(h *heap.Heap, name string, r io.Reader) *Parser {
	p := &Parser{
		heap:    h,
		lex:     lexer.New(token.NewScanner(name, r)),
		strLits: make(map[string]string),
	}
	p.readToken()
	return p
}

// internString returns a string equal to s, reusing a prior literal with the
// same text when this Parser has already seen one.
func (p *Parser) internString(s string) string {
	if cached, ok := p.strLits[s]; ok {
		return cached
	}
	p.strLits[s] = s
	return s
}

// Read parses every top-level expression in r and returns them in order. It
// is the entry point a script runner uses to load a whole file.
func Read(h *heap.Heap, name string, r io.Reader) ([]lisp.Value, *lisp.Error) {
	p := New(h, name, r)
	return p.ParseProgram()
}

// ParseProgram reads expressions until EOF.
func (p *Parser) ParseProgram() ([]lisp.Value, *lisp.Error) {
	var exprs []lisp.Value
	for {
		if p.peek.Type == token.EOF {
			return exprs, nil
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

// AtEOF reports whether the parser has consumed every token up to EOF.
func (p *Parser) AtEOF() bool {
	return p.peek.Type == token.EOF
}

// ParseExpression reads one complete datum.
func (p *Parser) ParseExpression() (lisp.Value, *lisp.Error) {
	switch p.peek.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		return p.parseString()
	case token.BOOL:
		return p.parseBool()
	case token.SYMBOL:
		return p.parseSymbol()
	case token.QUOTE:
		return p.parseQuote()
	case token.PAREN_L:
		return p.parseList()
	case token.EOF:
		return lisp.Value{}, p.incompleteErrorf("unexpected end of input")
	case token.PAREN_R:
		p.readToken()
		return lisp.Value{}, p.errorf("unexpected %q", ")")
	case token.DOT:
		p.readToken()
		return lisp.Value{}, p.errorf("unexpected %q outside of a list", ".")
	case token.ERROR, token.INVALID:
		p.readToken()
		return lisp.Value{}, p.errorf("%s", p.curr.Text)
	default:
		p.readToken()
		return lisp.Value{}, p.errorf("unexpected token %s", p.curr.Type)
	}
}

func (p *Parser) parseNumber() (lisp.Value, *lisp.Error) {
	p.readToken()
	text := p.curr.Text
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return lisp.Value{}, p.errorf("invalid number literal: %s", text)
	}
	return lisp.Number(x), nil
}

func (p *Parser) parseString() (lisp.Value, *lisp.Error) {
	p.readToken()
	s, err := strconv.Unquote(p.curr.Text)
	if err != nil {
		return lisp.Value{}, p.errorf("invalid string literal: %s", p.curr.Text)
	}
	return lisp.String(p.internString(s)), nil
}

func (p *Parser) parseBool() (lisp.Value, *lisp.Error) {
	p.readToken()
	switch p.curr.Text {
	case "#t", "#T":
		return lisp.Bool(true), nil
	case "#f", "#F":
		return lisp.Bool(false), nil
	default:
		return lisp.Value{}, p.errorf("invalid boolean literal: %s", p.curr.Text)
	}
}

func (p *Parser) parseSymbol() (lisp.Value, *lisp.Error) {
	p.readToken()
	return lisp.SymbolValue(p.curr.Text), nil
}

func (p *Parser) parseQuote() (lisp.Value, *lisp.Error) {
	p.readToken() // consume '
	expr, err := p.ParseExpression()
	if err != nil {
		return lisp.Value{}, err
	}
	return lisp.List(p.heap, lisp.SymbolValue("quote"), expr), nil
}

// parseList parses "(...)", "()", and dotted pairs "(a b . c)".
func (p *Parser) parseList() (lisp.Value, *lisp.Error) {
	p.readToken() // consume (
	open := p.curr

	var elems []lisp.Value
	tail := lisp.Nil
	for {
		switch p.peek.Type {
		case token.EOF:
			return lisp.Value{}, lisp.NewIncompleteReaderError(open.Source, "unclosed list starting here")
		case token.PAREN_R:
			p.readToken()
			return buildList(p.heap, elems, tail), nil
		case token.DOT:
			if len(elems) == 0 {
				p.readToken()
				return lisp.Value{}, p.errorf("malformed dotted list: nothing before %q", ".")
			}
			p.readToken() // consume .
			t, err := p.ParseExpression()
			if err != nil {
				return lisp.Value{}, err
			}
			tail = t
			if p.peek.Type != token.PAREN_R {
				return lisp.Value{}, p.errorf("malformed dotted list: expected %q after the tail", ")")
			}
			p.readToken()
			return buildList(p.heap, elems, tail), nil
		default:
			expr, err := p.ParseExpression()
			if err != nil {
				return lisp.Value{}, err
			}
			elems = append(elems, expr)
		}
	}
}

// ParseOne attempts to parse exactly one expression from data. ok is false
// and err is nil when the input ended before a complete datum was read
// (including when data held only whitespace); the repl package uses this to
// decide whether to prompt for another line instead of reporting a failure.
// A genuine syntax error is returned as a non-nil err.
func ParseOne(h *heap.Heap, name string, data []byte) (expr lisp.Value, ok bool, err *lisp.Error) {
	p := New(h, name, bytes.NewReader(data))
	if p.peek.Type == token.EOF {
		return lisp.Value{}, false, nil
	}
	expr, perr := p.ParseExpression()
	if perr != nil {
		if lisp.IsIncomplete(perr) {
			return lisp.Value{}, false, nil
		}
		return lisp.Value{}, false, perr
	}
	return expr, true, nil
}

func buildList(h *heap.Heap, elems []lisp.Value, tail lisp.Value) lisp.Value {
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = lisp.Cons(h, elems[i], result)
	}
	return result
}

func (p *Parser) readToken() {
	p.curr = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) errorf(format string, v ...interface{}) *lisp.Error {
	return lisp.NewReaderError(p.curr.Source, format, v...)
}

func (p *Parser) incompleteErrorf(format string, v ...interface{}) *lisp.Error {
	return lisp.NewIncompleteReaderError(p.curr.Source, format, v...)
}
