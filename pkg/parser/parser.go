// Package parser implements a recursive descent parser producing
// evaluable AST nodes. Comments are parsed as nodes of the enclosing
// body, so they stay queryable at run time.
package parser

import (
	"github.com/sidenote-lang/sidenote/pkg/ast"
	"github.com/sidenote-lang/sidenote/pkg/errors"
	"github.com/sidenote-lang/sidenote/pkg/lexer"
	"github.com/sidenote-lang/sidenote/pkg/runtime"
)

// Parser consumes tokens and produces top-level AST nodes one statement
// unit at a time.
type Parser struct {
	lex     *lexer.Lexer
	current *lexer.Token
	peek    *lexer.Token
	last    *lexer.Token
}

// NewParser creates a parser over the given source text
func NewParser(src string) (*Parser, error) {
	p := &Parser{lex: lexer.NewLexer(src)}
	// Prime the two-token window
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseTopLevel parses the whole input into a flat list of top-level
// nodes: statements interleaved with the comments adjacent to them.
func ParseTopLevel(src string) ([]runtime.Node, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}
	var nodes []runtime.Node
	for {
		unit, err := p.Next()
		if err != nil {
			return nodes, err
		}
		if unit == nil {
			return nodes, nil
		}
		nodes = append(nodes, unit...)
	}
}

// Next parses one statement unit: leading comments, the statement, and
// any same-line trailing comment. It returns nil when the input is
// exhausted, so top-level units can be evaluated incrementally.
func (p *Parser) Next() ([]runtime.Node, error) {
	if p.current.Type == lexer.TokenEOF {
		return nil, nil
	}
	return p.parseUnit(lexer.TokenEOF)
}

func (p *Parser) advance() error {
	p.last = p.current
	p.current = p.peek
	token, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.peek = token
	return nil
}

func (p *Parser) errorf(msg string) *errors.Error {
	pos := errors.Position{}
	if p.current != nil {
		pos = p.current.Range.Start
	}
	return errors.New(msg, pos, errors.ErrorTypeParser)
}

func (p *Parser) expect(typ lexer.TokenType, what string) (*lexer.Token, error) {
	if p.current.Type != typ {
		return nil, p.errorf("expected " + what + ", got " + p.current.Type.String())
	}
	tok := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	return tok, nil
}

func (p *Parser) rangeFrom(start errors.Position) errors.Range {
	end := start
	if p.last != nil {
		end = p.last.Range.End
	}
	return errors.Range{Start: start, End: end}
}

// parseUnit parses comment* statement terminator plus trailing comments.
// until is the token that legally ends a statement without a semicolon:
// EOF at the top level, '}' inside a function body.
func (p *Parser) parseUnit(until lexer.TokenType) ([]runtime.Node, error) {
	var nodes []runtime.Node
	var leading []*ast.Comment

	for p.current.Type == lexer.TokenComment {
		comment := ast.NewComment(p.current.Range, p.current.Text)
		nodes = append(nodes, comment)
		leading = append(leading, comment)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	// A run of comments with nothing after it is a complete unit
	if p.current.Type == until || p.current.Type == lexer.TokenEOF {
		return nodes, nil
	}

	start := p.current.Range.Start
	var node runtime.Node
	if p.current.Type == lexer.TokenIdentifier && p.peek.Type == lexer.TokenEquals {
		name := p.current.Text
		if err := p.advance(); err != nil { // name
			return nil, err
		}
		if err := p.advance(); err != nil { // =
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node = ast.NewAssignment(p.rangeFrom(start), name, expr)
	} else {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node = expr
	}

	stmtRange := p.rangeFrom(start)

	switch p.current.Type {
	case lexer.TokenSemicolon:
		if err := p.advance(); err != nil {
			return nil, err
		}
	case until, lexer.TokenEOF:
		// end of unit
	default:
		return nil, p.errorf("expected ';', got " + p.current.Type.String())
	}

	// A comment on the same line attaches to the statement it follows
	attached := leading
	var trailing []runtime.Node
	statementLine := p.last.Range.End.Line
	for p.current.Type == lexer.TokenComment && p.current.Range.Start.Line == statementLine {
		comment := ast.NewComment(p.current.Range, p.current.Text)
		attached = append(attached, comment)
		trailing = append(trailing, comment)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	nodes = append(nodes, ast.NewStatement(stmtRange, node, attached))
	nodes = append(nodes, trailing...)
	return nodes, nil
}

// parseExpression parses a primary followed by postfix calls and member
// accesses, left associative.
func (p *Parser) parseExpression() (runtime.Node, error) {
	start := p.current.Range.Start
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current.Type {
		case lexer.TokenOpenParen:
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []runtime.Node
			for p.current.Type != lexer.TokenCloseParen {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.current.Type != lexer.TokenComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(lexer.TokenCloseParen, "')'"); err != nil {
				return nil, err
			}
			node = ast.NewCall(p.rangeFrom(start), node, args)
		case lexer.TokenDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			field := p.current
			if field.Type != lexer.TokenIdentifier && field.Type != lexer.TokenInteger {
				return nil, p.errorf("expected field name after '.'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			node = ast.NewMemberAccess(p.rangeFrom(start), field.Text, node)
		default:
			return node, nil
		}
	}
}

func (p *Parser) parsePrimary() (runtime.Node, error) {
	start := p.current.Range.Start
	switch p.current.Type {
	case lexer.TokenInteger:
		num, ok := runtime.ParseNumber(p.current.Text)
		if !ok {
			return nil, p.errorf("malformed integer literal")
		}
		rng := p.current.Range
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(rng, num), nil

	case lexer.TokenString:
		text := p.current.Text
		rng := p.current.Range
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(rng, text), nil

	case lexer.TokenIdentifier:
		name := p.current.Text
		rng := p.current.Range
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewIdentifier(rng, name), nil

	case lexer.TokenMentionOpen, lexer.TokenIndirectMentionOpen:
		return p.parseMention(start)

	case lexer.TokenOpenParen:
		return p.parseRecord(start)

	case lexer.TokenOpenBrace:
		return p.parseFunction(start)

	default:
		return nil, p.errorf("expected expression, got " + p.current.Type.String())
	}
}

func (p *Parser) parseMention(start errors.Position) (runtime.Node, error) {
	indirect := p.current.Type == lexer.TokenIndirectMentionOpen
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.TokenIdentifier, "mentioned name")
	if err != nil {
		return nil, err
	}

	var words []string
	for p.current.Type == lexer.TokenIdentifier {
		words = append(words, p.current.Text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenMentionClose, "']'"); err != nil {
		return nil, err
	}

	return ast.NewMention(p.rangeFrom(start), name.Text, words, indirect), nil
}

func (p *Parser) parseRecord(start errors.Position) (runtime.Node, error) {
	if err := p.advance(); err != nil { // (
		return nil, err
	}

	var fields []ast.RecordField
	for p.current.Type != lexer.TokenCloseParen {
		var field ast.RecordField
		if p.current.Type == lexer.TokenIdentifier && p.peek.Type == lexer.TokenColon {
			field.Name = p.current.Text
			if err := p.advance(); err != nil { // name
				return nil, err
			}
			if err := p.advance(); err != nil { // :
				return nil, err
			}
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		field.Expr = expr
		fields = append(fields, field)
		if p.current.Type != lexer.TokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenCloseParen, "')'"); err != nil {
		return nil, err
	}

	return ast.NewRecordNode(p.rangeFrom(start), fields), nil
}

func (p *Parser) parseFunction(start errors.Position) (runtime.Node, error) {
	if err := p.advance(); err != nil { // {
		return nil, err
	}

	var params []string
	if p.current.Type != lexer.TokenPipe {
		for {
			name, err := p.expect(lexer.TokenIdentifier, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, name.Text)
			if p.current.Type != lexer.TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(lexer.TokenPipe, "'|'"); err != nil {
		return nil, err
	}

	var body []runtime.Node
	for p.current.Type != lexer.TokenCloseBrace {
		if p.current.Type == lexer.TokenEOF {
			return nil, p.errorf("unexpected end of input in function body")
		}
		unit, err := p.parseUnit(lexer.TokenCloseBrace)
		if err != nil {
			return nil, err
		}
		body = append(body, unit...)
	}
	if _, err := p.expect(lexer.TokenCloseBrace, "'}'"); err != nil {
		return nil, err
	}

	return ast.NewFunctionNode(p.rangeFrom(start), params, body), nil
}
