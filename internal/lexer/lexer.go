// Package lexer tokenizes Olympus IDL source text. It walks the source one
// Unicode grapheme cluster at a time (via github.com/rivo/uniseg) so that
// multi-byte clusters never get split across a token boundary, while byte
// offsets — not grapheme or rune counts — are what every span records,
// since those are what diag needs to slice the original source.
package lexer

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/olympusrpc/olympus/internal/ast"
	"github.com/olympusrpc/olympus/internal/diag"
)

// Lexer holds the grapheme decomposition of one source and the cursor
// into it. byteIdx advances by the byte length of each popped grapheme:
// spans are byte offsets into the original source string, never grapheme
// or rune counts.
type Lexer struct {
	source    *diag.Source
	graphemes []string
	idx       int // index into graphemes
	byteIdx   int // byte offset into source.Text

	Tokens []Token
}

// New returns a Lexer over src. name is used only for diagnostics.
func New(name, src string) *Lexer {
	return &Lexer{
		source:    &diag.Source{Name: name, Text: src},
		graphemes: splitGraphemes(src),
	}
}

func splitGraphemes(s string) []string {
	var out []string
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cluster)
	}
	return out
}

func (l *Lexer) isEOF() bool {
	return l.idx >= len(l.graphemes)
}

func (l *Lexer) peek() (string, bool) {
	if l.isEOF() {
		return "", false
	}
	return l.graphemes[l.idx], true
}

func (l *Lexer) pop() (string, bool) {
	g, ok := l.peek()
	if !ok {
		return "", false
	}
	l.idx++
	l.byteIdx += len(g)
	return g, true
}

func (l *Lexer) popIf(pred func(string) bool) (string, bool) {
	g, ok := l.peek()
	if !ok || !pred(g) {
		return "", false
	}
	return l.pop()
}

// popIfAll pops the next grapheme only if every rune within it satisfies
// pred (a multi-rune cluster should never be half-accepted).
func (l *Lexer) popIfAll(pred func(rune) bool) (string, bool) {
	g, ok := l.peek()
	if !ok {
		return "", false
	}
	for _, r := range g {
		if !pred(r) {
			return "", false
		}
	}
	return l.pop()
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentRest(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAsciiWhitespace(g string) bool {
	for _, r := range g {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return true
}

func (l *Lexer) skipWhitespace() {
	for {
		if _, ok := l.popIf(isAsciiWhitespace); !ok {
			break
		}
	}
}

func (l *Lexer) span(start int) ast.Span {
	return ast.Span{Start: start, End: l.byteIdx}
}

func (l *Lexer) add(kind Kind, start int) {
	l.Tokens = append(l.Tokens, Token{Kind: kind, Span: l.span(start)})
}

// popIdent consumes an identifier, optionally seeded by a grapheme already
// popped by the caller (so "@array" and a bare "array" share this helper).
func (l *Lexer) popIdent(seed string) string {
	ident := seed
	for {
		g, ok := l.popIfAll(isIdentRest)
		if !ok {
			break
		}
		ident += g
	}
	return ident
}

var builtinTypes = map[string]Token{
	"int8":      {Kind: TypeFixedInt, Bits: 8, Signed: true},
	"uint8":     {Kind: TypeFixedInt, Bits: 8, Signed: false},
	"int16":     {Kind: TypeFixedInt, Bits: 16, Signed: true},
	"uint16":    {Kind: TypeFixedInt, Bits: 16, Signed: false},
	"int32":     {Kind: TypeFixedInt, Bits: 32, Signed: true},
	"uint32":    {Kind: TypeFixedInt, Bits: 32, Signed: false},
	"int64":     {Kind: TypeFixedInt, Bits: 64, Signed: true},
	"uint64":    {Kind: TypeFixedInt, Bits: 64, Signed: false},
	"varint8":   {Kind: TypeVarInt, Bits: 8, Signed: true},
	"varuint8":  {Kind: TypeVarInt, Bits: 8, Signed: false},
	"varint16":  {Kind: TypeVarInt, Bits: 16, Signed: true},
	"varuint16": {Kind: TypeVarInt, Bits: 16, Signed: false},
	"varint32":  {Kind: TypeVarInt, Bits: 32, Signed: true},
	"varuint32": {Kind: TypeVarInt, Bits: 32, Signed: false},
	"varint64":  {Kind: TypeVarInt, Bits: 64, Signed: true},
	"varuint64": {Kind: TypeVarInt, Bits: 64, Signed: false},
	"string":    {Kind: TypeString},
	"array":     {Kind: TypeArray},
	"option":    {Kind: TypeOption},
}

var keywords = map[string]Kind{
	"enum":   KeywordEnum,
	"struct": KeywordStruct,
	"rpc":    KeywordRPC,
	"proc":   KeywordProc,
	"import": KeywordImport,
}

// Lex tokenizes the full source, returning a diagnostic on the first
// unrecognized grapheme, malformed "@type", or overflowing enum tag.
// Lexing is not recovered past the first error (mirrors the parser).
func (l *Lexer) Lex() *diag.Diagnostic {
	for !l.isEOF() {
		l.skipWhitespace()
		if l.isEOF() {
			break
		}

		start := l.byteIdx
		g, _ := l.pop()

		switch {
		case g == "#":
			comment := ""
			for {
				next, ok := l.peek()
				if !ok || next == "\n" {
					break
				}
				g, _ := l.pop()
				comment += g
			}
			if len(comment) > 0 && comment[0] == ' ' {
				comment = comment[1:]
			}
			l.Tokens = append(l.Tokens, Token{Kind: Comment, Span: l.span(start), Text: comment})

		case g == "{":
			l.add(OpenBrace, start)
		case g == "}":
			l.add(CloseBrace, start)
		case g == "(":
			l.add(OpenParen, start)
		case g == ")":
			l.add(CloseParen, start)
		case g == "[":
			l.add(OpenBracket, start)
		case g == "]":
			l.add(CloseBracket, start)
		case g == ";":
			l.add(Semicolon, start)
		case g == ",":
			l.add(Comma, start)

		case g == "-":
			if _, ok := l.popIf(func(v string) bool { return v == ">" }); ok {
				l.add(Arrow, start)
				continue
			}
			return diag.Error(l.source, fmt.Sprintf("unexpected character: %q", g), l.span(start))

		case g == "@":
			next, ok := l.peek()
			if !ok || !allRunes(next, isIdentStart) {
				return diag.Error(l.source, "'@' must be followed by a built-in type name", l.span(start))
			}
			first, _ := l.pop()
			ident := l.popIdent(first)
			builtin, ok := builtinTypes[ident]
			if !ok {
				return diag.Error(l.source, fmt.Sprintf("unrecognized built-in type %q", ident), l.span(start))
			}
			builtin.Span = l.span(start)
			l.Tokens = append(l.Tokens, builtin)

		case allRunes(g, isIdentStart):
			ident := l.popIdent(g)
			if kw, ok := keywords[ident]; ok {
				l.add(kw, start)
			} else {
				l.Tokens = append(l.Tokens, Token{Kind: Ident, Span: l.span(start), Text: ident})
			}

		case allRunes(g, isDigit):
			digits := g
			for {
				next, ok := l.popIfAll(isDigit)
				if !ok {
					break
				}
				digits += next
			}
			n, err := parseInt16(digits)
			if err != nil {
				return diag.Error(l.source, "enum tag does not fit in a signed 16-bit integer", l.span(start))
			}
			l.Tokens = append(l.Tokens, Token{Kind: Number, Span: l.span(start), Num: n})

		default:
			return diag.Error(l.source, fmt.Sprintf("unexpected character: %q", g), l.span(start))
		}
	}

	return nil
}

func allRunes(g string, pred func(rune) bool) bool {
	for _, r := range g {
		if !pred(r) {
			return false
		}
	}
	return true
}

func parseInt16(digits string) (int16, error) {
	var n int64
	for _, r := range digits {
		n = n*10 + int64(r-'0')
		if n > 1<<15-1 {
			return 0, fmt.Errorf("overflow")
		}
	}
	return int16(n), nil
}
