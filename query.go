package stocargo

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Expr is a compiled search expression.
// The concrete types are Literal, And, Or and Not. Expressions are
// immutable and safe to evaluate against any number of records.
type Expr interface {
	// Eval reports whether the record matches. Only the named fields are
	// searched; a nil fields slice searches every field of the record.
	Eval(r Record, fields []string) bool

	// String returns the expression in canonical, fully parenthesised form.
	String() string

	expr()
}

// Literal matches records containing Phrase, ignoring case.
type Literal struct {
	Phrase string
}

// And matches records matching both Left and Right.
type And struct {
	Left, Right Expr
}

// Or matches records matching Left or Right.
type Or struct {
	Left, Right Expr
}

// Not matches records that do not match X.
type Not struct {
	X Expr
}

func (Literal) expr() {}
func (And) expr()     {}
func (Or) expr()      {}
func (Not) expr()     {}

// Eval implements Expr.
func (l Literal) Eval(r Record, fields []string) bool {
	phrase := fold(l.Phrase)
	if fields == nil {
		for _, v := range r {
			if v != nil && strings.Contains(fold(stringify(v)), phrase) {
				return true
			}
		}
		return false
	}
	for _, f := range fields {
		if v := r[f]; v != nil && strings.Contains(fold(stringify(v)), phrase) {
			return true
		}
	}
	return false
}

// Eval implements Expr.
func (e And) Eval(r Record, fields []string) bool {
	return e.Left.Eval(r, fields) && e.Right.Eval(r, fields)
}

// Eval implements Expr.
func (e Or) Eval(r Record, fields []string) bool {
	return e.Left.Eval(r, fields) || e.Right.Eval(r, fields)
}

// Eval implements Expr.
func (e Not) Eval(r Record, fields []string) bool {
	return !e.X.Eval(r, fields)
}

func (l Literal) String() string { return fmt.Sprintf("%q", l.Phrase) }
func (e And) String() string     { return "(" + e.Left.String() + " and " + e.Right.String() + ")" }
func (e Or) String() string      { return "(" + e.Left.String() + " or " + e.Right.String() + ")" }
func (e Not) String() string     { return "not " + e.X.String() }

// fold returns s in a form suitable for caseless comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}

// SyntaxError describes why a search expression failed to compile.
type SyntaxError struct {
	// Pos is the byte offset of the offending token in the expression.
	Pos int

	// Snippet is the expression text starting at Pos, truncated.
	Snippet string

	// Msg describes the problem.
	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s at end of input", e.Msg)
	}
	return fmt.Sprintf("%s at column %d near %q", e.Msg, e.Pos+1, e.Snippet)
}

// Compile parses a search expression.
//
// Terms are double-quoted phrases or bare words, combined with the
// case-insensitive keywords "and", "or" and "not" and grouped with
// parentheses. A comma is shorthand for "or". Precedence from loosest to
// tightest is or, and, not, then groups and terms. Terms are never joined
// implicitly.
//
// Returns an ESYNTAX error wrapping a *SyntaxError on failure.
func Compile(s string) (Expr, error) {
	p := &parser{src: s}
	if err := p.lex(); err != nil {
		return nil, p.wrap(err)
	}
	if p.peek().kind == tokEOF {
		return nil, p.wrap(p.errorAt(0, "empty search expression"))
	}

	e, err := p.parseOr()
	if err != nil {
		return nil, p.wrap(err)
	}

	switch tok := p.peek(); tok.kind {
	case tokEOF:
		return e, nil
	case tokRParen:
		return nil, p.wrap(p.errorAt(tok.pos, "unbalanced parentheses: unexpected ')'"))
	default:
		return nil, p.wrap(p.errorAt(tok.pos, "unexpected input, terms must be joined with 'and' or 'or'"))
	}
}

// MustCompile is like Compile but panics on error.
func MustCompile(s string) Expr {
	e, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return e
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
	tokPhrase
	tokWord
)

type token struct {
	kind tokenKind
	pos  int
	text string
}

type parser struct {
	src    string
	tokens []token
	i      int
}

// snippetLen bounds the length of SyntaxError.Snippet.
const snippetLen = 20

func (p *parser) errorAt(pos int, msg string) *SyntaxError {
	snippet := ""
	if pos < len(p.src) {
		snippet = p.src[pos:]
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
			for !utf8.ValidString(snippet) {
				snippet = snippet[:len(snippet)-1]
			}
		}
	}
	return &SyntaxError{Pos: pos, Snippet: snippet, Msg: msg}
}

func (p *parser) wrap(se *SyntaxError) error {
	return WrapError(ESYNTAX, se, "invalid search expression")
}

func (p *parser) lex() *SyntaxError {
	s := p.src
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			p.tokens = append(p.tokens, token{kind: tokLParen, pos: i, text: "("})
			i++
		case r == ')':
			p.tokens = append(p.tokens, token{kind: tokRParen, pos: i, text: ")"})
			i++
		case r == ',':
			p.tokens = append(p.tokens, token{kind: tokOr, pos: i, text: ","})
			i++
		case r == '"':
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				return p.errorAt(i, "unterminated quoted phrase")
			}
			phrase := s[i+1 : i+1+end]
			if strings.TrimSpace(phrase) == "" {
				return p.errorAt(i, "empty quoted phrase")
			}
			p.tokens = append(p.tokens, token{kind: tokPhrase, pos: i, text: phrase})
			i += end + 2
		default:
			start := i
			for i < len(s) {
				r, size := utf8.DecodeRuneInString(s[i:])
				if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' || r == ',' {
					break
				}
				i += size
			}
			word := s[start:i]
			p.tokens = append(p.tokens, token{kind: keyword(word), pos: start, text: word})
		}
	}
	p.tokens = append(p.tokens, token{kind: tokEOF, pos: len(s)})
	return nil
}

func keyword(word string) tokenKind {
	switch {
	case strings.EqualFold(word, "and"):
		return tokAnd
	case strings.EqualFold(word, "or"):
		return tokOr
	case strings.EqualFold(word, "not"):
		return tokNot
	}
	return tokWord
}

func (p *parser) peek() token {
	return p.tokens[p.i]
}

func (p *parser) next() token {
	tok := p.tokens[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

func (p *parser) parseOr() (Expr, *SyntaxError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, *SyntaxError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, *SyntaxError) {
	if p.peek().kind == tokNot {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, *SyntaxError) {
	tok := p.next()
	switch tok.kind {
	case tokPhrase, tokWord:
		return Literal{Phrase: tok.text}, nil
	case tokLParen:
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorAt(tok.pos, "unbalanced parentheses: missing ')'")
		}
		p.next()
		return e, nil
	case tokRParen:
		return nil, p.errorAt(tok.pos, "missing operand before ')'")
	case tokAnd, tokOr:
		return nil, p.errorAt(tok.pos, fmt.Sprintf("missing operand before %q", tok.text))
	}
	return nil, p.errorAt(tok.pos, "missing operand")
}
