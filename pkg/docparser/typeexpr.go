package docparser

import (
	"fmt"
	"strings"

	"github.com/gmoothart/clutzgo/pkg/ast"
)

// ParseTypeExpression parses a single Closure type-expression string (the
// content of a `{...}` doc-comment type slot, without the braces) into the
// spec.md §3 type-expression grammar, rooted by the appropriate Kind.
//
// It does not perform the spec.md §4.1 conversion into the typed-declaration
// sub-grammar — that happens in pkg/annotate. This parser only builds the
// pre-conversion tree (KindBang, KindQMark, KindPipe, KindString, KindLC,
// KindEllipsis, KindEquals, "function(...)" as a named-ish construct, etc.).
func ParseTypeExpression(src string) (*ast.Node, error) {
	if strings.TrimSpace(src) == "" {
		return ast.NewNode(ast.KindEmpty), nil
	}
	p := &typeParser{lex: newLexer(src), src: src}
	p.advance()
	n, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing token %v in type expression %q", p.tok, src)
	}
	return n, nil
}

type typeParser struct {
	lex *lexer
	tok token
	src string
}

func (p *typeParser) advance() {
	p.tok = p.lex.next()
}

func (p *typeParser) expect(k tokenKind) (token, error) {
	if p.tok.kind != k {
		return token{}, fmt.Errorf("expected %v, got %v in type expression %q", k, p.tok, p.src)
	}
	t := p.tok
	p.advance()
	return t, nil
}

// parseUnion parses `A|B|...` outside of parens (top-level bare pipe is
// also accepted, since doc comments often omit the wrapping parens).
func (p *typeParser) parseUnion() (*ast.Node, error) {
	first, err := p.parseParam()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPipe {
		return first, nil
	}

	members := []*ast.Node{first}
	for p.tok.kind == tokPipe {
		p.advance()
		next, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	return ast.NewParent(ast.KindPipe, members...), nil
}

// parseParam handles the param-position markers `...T` and `T=`, which only
// make sense while parsing an @param type or a function-type parameter
// list entry, but are tolerated anywhere since the grammar doesn't carry
// positional context into this parser.
func (p *typeParser) parseParam() (*ast.Node, error) {
	if p.tok.kind == tokEllipsis {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewParent(ast.KindEllipsis, inner), nil
	}

	inner, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if p.tok.kind == tokEquals {
		p.advance()
		return ast.NewParent(ast.KindEquals, inner), nil
	}
	return inner, nil
}

func (p *typeParser) parseUnary() (*ast.Node, error) {
	switch p.tok.kind {
	case tokBang:
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewParent(ast.KindBang, inner), nil

	case tokQMark:
		p.advance()
		// A bare "?" (no following type) means "any" per the
		// conversion table; detect it by checking whether a type can
		// follow.
		if !p.startsType() {
			return ast.NewNode(ast.KindQMark), nil
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewParent(ast.KindQMark, inner), nil

	default:
		return p.parsePrimary()
	}
}

// startsType reports whether the current token can begin a type
// expression, used to disambiguate a bare "?" from "?T".
func (p *typeParser) startsType() bool {
	switch p.tok.kind {
	case tokIdent, tokStar, tokLBrace, tokLParen, tokBang, tokQMark, tokEllipsis:
		return true
	default:
		return false
	}
}

func (p *typeParser) parsePrimary() (*ast.Node, error) {
	switch p.tok.kind {
	case tokStar:
		p.advance()
		return ast.NewNode(ast.KindStar), nil

	case tokLParen:
		p.advance()
		inner, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case tokLBrace:
		return p.parseRecord()

	case tokIdent:
		return p.parseNamedOrFunction()

	default:
		return nil, fmt.Errorf("unexpected token %v in type expression %q", p.tok, p.src)
	}
}

// parseNamedOrFunction handles bare identifiers, primitive keywords,
// parameterized names (Array<T>, Map<K,V>), and the `function(...)` form.
func (p *typeParser) parseNamedOrFunction() (*ast.Node, error) {
	name := p.tok.text
	p.advance()

	if name == "function" && p.tok.kind == tokLParen {
		return p.parseFunctionType()
	}

	leaf := ast.NewLeaf(ast.KindString, name)

	if p.tok.kind == tokLAngle {
		p.advance()
		block := ast.NewNode(ast.KindBlock)
		for {
			arg, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			block.AddChild(arg)
			if p.tok.kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(tokRAngle); err != nil {
			return nil, err
		}
		leaf.AddChild(block)
	}

	return leaf, nil
}

// parseFunctionType parses `function(new: X, this: Y, T, ...V, U=): R`.
// Parameters are unnamed types. `new` and `this` positional parameters are
// consumed and discarded per spec.md §4.1's conversion table. The return
// type is always the last child: an EMPTY node when `: R` is absent.
func (p *typeParser) parseFunctionType() (*ast.Node, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	fn := ast.NewNode(ast.KindString)
	fn.Payload = "function"

	for p.tok.kind != tokRParen {
		if p.tok.kind == tokIdent && (p.tok.text == "new" || p.tok.text == "this") {
			p.advance()
			if p.tok.kind == tokColon {
				p.advance()
				if _, err := p.parseUnion(); err != nil {
					return nil, err
				}
			}
		} else {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			fn.AddChild(param)
		}

		if p.tok.kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	if p.tok.kind == tokColon {
		p.advance()
		ret, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		fn.AddChild(ret)
	} else {
		fn.AddChild(ast.NewNode(ast.KindEmpty))
	}

	return fn, nil
}

// parseRecord parses `{ field: T, 'quoted': U, untyped, ... }`.
func (p *typeParser) parseRecord() (*ast.Node, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	record := ast.NewNode(ast.KindLC)
	for p.tok.kind != tokRBrace {
		var key string
		switch p.tok.kind {
		case tokString:
			key = p.tok.text
			p.advance()
		case tokIdent:
			key = p.tok.text
			p.advance()
		default:
			return nil, fmt.Errorf("expected record field name, got %v in type expression %q", p.tok, p.src)
		}

		keyLeaf := ast.NewLeaf(ast.KindString, key)

		var valueNode *ast.Node
		if p.tok.kind == tokColon {
			p.advance()
			v, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			valueNode = v
		} else {
			valueNode = ast.NewNode(ast.KindEmpty)
		}

		field := ast.NewParent(ast.KindColon, keyLeaf, valueNode)
		record.AddChild(field)

		if p.tok.kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return record, nil
}
