// Package parser turns a lexed token stream into an ast.File by
// recursive descent. Top-level declarations (enum/struct/rpc/import) may
// appear in any order; the grammar itself has no left recursion so a
// single token of lookahead is always enough.
package parser

import (
	"fmt"

	"github.com/olympusrpc/olympus/internal/ast"
	"github.com/olympusrpc/olympus/internal/diag"
	"github.com/olympusrpc/olympus/internal/lexer"
)

// Parse lexes and parses src in one step, returning the first error from
// either phase. name identifies the source in diagnostics.
func Parse(name, src string) (*ast.File, *diag.Diagnostic) {
	lx := lexer.New(name, src)
	if d := lx.Lex(); d != nil {
		return nil, d
	}
	return ParseTokens(name, src, lx.Tokens)
}

// ParseTokens parses an already-lexed token stream. src is kept only so
// diagnostics can quote source lines.
func ParseTokens(name, src string, tokens []lexer.Token) (*ast.File, *diag.Diagnostic) {
	p := &parser{
		source: &diag.Source{Name: name, Text: src},
		tokens: filterComments(tokens),
	}
	return p.parseFile(name)
}

func filterComments(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != lexer.Comment {
			out = append(out, t)
		}
	}
	return out
}

type parser struct {
	source *diag.Source
	tokens []lexer.Token
	pos    int
}

func (p *parser) isEOF() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() (lexer.Token, bool) {
	if p.isEOF() {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) eofSpan() ast.Span {
	if len(p.tokens) == 0 {
		return ast.Span{}
	}
	last := p.tokens[len(p.tokens)-1]
	return ast.Span{Start: last.Span.End, End: last.Span.End}
}

func (p *parser) errAt(span ast.Span, format string, args ...any) *diag.Diagnostic {
	return diag.Error(p.source, fmt.Sprintf(format, args...), span)
}

// expect consumes the next token if it has kind, otherwise fails with a
// "expected X, found Y" diagnostic anchored at the offending span.
func (p *parser) expect(kind lexer.Kind) (lexer.Token, *diag.Diagnostic) {
	tok, ok := p.peek()
	if !ok {
		return lexer.Token{}, p.errAt(p.eofSpan(), "expected %s, found end of input", kind)
	}
	if tok.Kind != kind {
		return lexer.Token{}, p.errAt(tok.Span, "expected %s, found %s", kind, tok.Kind)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent() (ast.Ident, *diag.Diagnostic) {
	tok, err := p.expect(lexer.Ident)
	if err != nil {
		return ast.Ident{}, err
	}
	return ast.Ident{Name: tok.Text, Span: tok.Span}, nil
}

func (p *parser) parseFile(name string) (*ast.File, *diag.Diagnostic) {
	file := &ast.File{Name: name}

	for !p.isEOF() {
		tok, _ := p.peek()
		switch tok.Kind {
		case lexer.KeywordEnum:
			e, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			file.Enums = append(file.Enums, *e)

		case lexer.KeywordStruct:
			s, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			file.Structs = append(file.Structs, *s)

		case lexer.KeywordRPC:
			procs, err := p.parseRPCBlock()
			if err != nil {
				return nil, err
			}
			file.Procedures = append(file.Procedures, procs...)

		case lexer.KeywordImport:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			file.Imports = append(file.Imports, *imp)

		default:
			return nil, p.errAt(tok.Span, "expected 'enum', 'struct', 'rpc' or 'import', found %s", tok.Kind)
		}
	}

	return file, nil
}

func (p *parser) parseImport() (*ast.Import, *diag.Diagnostic) {
	if _, err := p.expect(lexer.KeywordImport); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Import{Name: name}, nil
}

func (p *parser) parseEnum() (*ast.Enum, *diag.Diagnostic) {
	if _, err := p.expect(lexer.KeywordEnum); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.OpenBrace); err != nil {
		return nil, err
	}

	enum := &ast.Enum{Name: name}
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errAt(p.eofSpan(), "unterminated enum %q", name.Name)
		}
		if tok.Kind == lexer.CloseBrace {
			p.advance()
			break
		}

		variantName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Arrow); err != nil {
			return nil, err
		}
		numTok, err := p.expect(lexer.Number)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}

		enum.Variants = append(enum.Variants, ast.EnumVariant{
			Name:    variantName,
			Tag:     numTok.Num,
			TagSpan: numTok.Span,
		})
	}

	return enum, nil
}

func (p *parser) parseStruct() (*ast.Struct, *diag.Diagnostic) {
	if _, err := p.expect(lexer.KeywordStruct); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.OpenBrace); err != nil {
		return nil, err
	}

	st := &ast.Struct{Name: name}
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errAt(p.eofSpan(), "unterminated struct %q", name.Name)
		}
		if tok.Kind == lexer.CloseBrace {
			p.advance()
			break
		}

		fieldName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Arrow); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}

		st.Fields = append(st.Fields, ast.StructField{Name: fieldName, Type: *typ})
	}

	return st, nil
}

func (p *parser) parseRPCBlock() ([]ast.Procedure, *diag.Diagnostic) {
	if _, err := p.expect(lexer.KeywordRPC); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.OpenBrace); err != nil {
		return nil, err
	}

	var procs []ast.Procedure
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errAt(p.eofSpan(), "unterminated rpc block")
		}
		if tok.Kind == lexer.CloseBrace {
			p.advance()
			break
		}

		proc, err := p.parseProc()
		if err != nil {
			return nil, err
		}
		procs = append(procs, *proc)
	}

	return procs, nil
}

func (p *parser) parseProc() (*ast.Procedure, *diag.Diagnostic) {
	if _, err := p.expect(lexer.KeywordProc); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.OpenParen); err != nil {
		return nil, err
	}

	proc := &ast.Procedure{Name: name}

	if tok, ok := p.peek(); ok && tok.Kind != lexer.CloseParen {
		for {
			paramName, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Arrow); err != nil {
				return nil, err
			}
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			proc.Params = append(proc.Params, ast.Param{Name: paramName, Type: *typ})

			tok, ok := p.peek()
			if !ok {
				return nil, p.errAt(p.eofSpan(), "expected ',' or ')', found end of input")
			}
			if tok.Kind == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
	}

	if _, err := p.expect(lexer.CloseParen); err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok && tok.Kind == lexer.Arrow {
		p.advance()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		proc.Return = *typ
	} else {
		proc.Return = ast.TypeRef{Kind: ast.KindNothing}
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return proc, nil
}

func (p *parser) parseType() (*ast.TypeRef, *diag.Diagnostic) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errAt(p.eofSpan(), "expected a type, found end of input")
	}

	switch tok.Kind {
	case lexer.TypeFixedInt:
		p.advance()
		return &ast.TypeRef{Kind: ast.KindFixedInt, Bits: tok.Bits, Signed: tok.Signed, Span: tok.Span}, nil

	case lexer.TypeVarInt:
		p.advance()
		return &ast.TypeRef{Kind: ast.KindVarInt, Bits: tok.Bits, Signed: tok.Signed, Span: tok.Span}, nil

	case lexer.TypeString:
		p.advance()
		return &ast.TypeRef{Kind: ast.KindString, Span: tok.Span}, nil

	case lexer.TypeArray:
		start := tok.Span
		p.advance()
		if _, err := p.expect(lexer.OpenBracket); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(lexer.CloseBracket)
		if err != nil {
			return nil, err
		}
		return &ast.TypeRef{Kind: ast.KindArray, Elem: elem, Span: ast.Span{Start: start.Start, End: end.Span.End}}, nil

	case lexer.TypeOption:
		start := tok.Span
		p.advance()
		if _, err := p.expect(lexer.OpenBracket); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(lexer.CloseBracket)
		if err != nil {
			return nil, err
		}
		return &ast.TypeRef{Kind: ast.KindOption, Elem: elem, Span: ast.Span{Start: start.Start, End: end.Span.End}}, nil

	case lexer.Ident:
		p.advance()
		return &ast.TypeRef{
			Kind:     ast.KindExternal,
			External: ast.Ident{Name: tok.Text, Span: tok.Span},
			Span:     tok.Span,
		}, nil

	default:
		return nil, p.errAt(tok.Span, "expected a type, found %s", tok.Kind)
	}
}
