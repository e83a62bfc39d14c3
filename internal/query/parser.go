package query

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/leengari/fltq/internal/value"
)

// Parse parses one statement of the narrow SQL dialect (spec §4.4):
//
//	SELECT <col_list | *> FROM <table> [ WHERE <col> <op> <literal> [AND ...]* ] [ LIMIT <n> ]
//	SELECT COUNT(*) FROM <table>
func Parse(sql string) (*SelectStmt, error) {
	p := &parser{lexer: newLexer(sql)}
	p.advance()
	return p.parseSelect()
}

type parser struct {
	lexer *lexer
	cur   token
}

func (p *parser) advance() { p.cur = p.lexer.next() }

func (p *parser) syntaxErrorf(msg string) error {
	return &SyntaxError{Pos: p.cur.Pos, Message: msg}
}

func (p *parser) expect(t tokenType, what string) (token, error) {
	if p.cur.Type != t {
		return token{}, p.syntaxErrorf("expected " + what + ", got " + p.cur.Literal)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *parser) parseSelect() (*SelectStmt, error) {
	if _, err := p.expect(tokSELECT, "SELECT"); err != nil {
		return nil, err
	}

	stmt := &SelectStmt{}

	switch p.cur.Type {
	case tokCOUNT:
		p.advance()
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokAsterisk, "*"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		stmt.CountStar = true
	case tokAsterisk:
		p.advance()
	case tokIdent:
		cols, err := p.parseColumnList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	default:
		return nil, p.syntaxErrorf("expected column list, *, or COUNT(*)")
	}

	if _, err := p.expect(tokFROM, "FROM"); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(tokIdent, "table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = tableTok.Literal

	if p.cur.Type == tokWHERE {
		p.advance()
		preds, err := p.parsePredicateList()
		if err != nil {
			return nil, err
		}
		stmt.Where = preds
	}

	if p.cur.Type == tokLIMIT {
		p.advance()
		numTok, err := p.expect(tokNumber, "integer")
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(numTok.Literal)
		if err != nil {
			return nil, &SyntaxError{Pos: numTok.Pos, Message: "invalid LIMIT value " + numTok.Literal}
		}
		stmt.Limit = &n
	}

	if p.cur.Type != tokEOF {
		return nil, p.syntaxErrorf("unexpected trailing input " + p.cur.Literal)
	}

	return stmt, nil
}

func (p *parser) parseColumnList() ([]string, error) {
	var cols []string
	for {
		tok, err := p.expect(tokIdent, "column name")
		if err != nil {
			return nil, err
		}
		cols = append(cols, tok.Literal)
		if p.cur.Type != tokComma {
			break
		}
		p.advance()
	}
	return cols, nil
}

func (p *parser) parsePredicateList() ([]Predicate, error) {
	var preds []Predicate
	for {
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
		if p.cur.Type != tokAND {
			break
		}
		p.advance()
	}
	return preds, nil
}

func (p *parser) parsePredicate() (Predicate, error) {
	colTok, err := p.expect(tokIdent, "column name")
	if err != nil {
		return Predicate{}, err
	}
	op, err := p.parseOperator()
	if err != nil {
		return Predicate{}, err
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Column: colTok.Literal, Op: op, Literal: lit}, nil
}

func (p *parser) parseOperator() (Operator, error) {
	var op Operator
	switch p.cur.Type {
	case tokEq:
		op = OpEq
	case tokNeq:
		op = OpNeq
	case tokLt:
		op = OpLt
	case tokLe:
		op = OpLe
	case tokGt:
		op = OpGt
	case tokGe:
		op = OpGe
	default:
		return 0, p.syntaxErrorf("expected comparison operator, got " + p.cur.Literal)
	}
	p.advance()
	return op, nil
}

func (p *parser) parseLiteral() (value.Value, error) {
	tok := p.cur
	switch tok.Type {
	case tokNULL:
		p.advance()
		return value.OfNull(), nil
	case tokString:
		p.advance()
		return value.OfString(tok.Literal), nil
	case tokHexBytes:
		p.advance()
		b, err := hex.DecodeString(tok.Literal)
		if err != nil {
			return value.Value{}, &SyntaxError{Pos: tok.Pos, Message: "invalid hex byte literal x'" + tok.Literal + "'"}
		}
		return value.OfBytes(b), nil
	case tokNumber:
		p.advance()
		if strings.ContainsAny(tok.Literal, ".eE") {
			f, err := strconv.ParseFloat(tok.Literal, 64)
			if err != nil {
				return value.Value{}, &SyntaxError{Pos: tok.Pos, Message: "invalid float literal " + tok.Literal}
			}
			return value.OfFloat(f), nil
		}
		i, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return value.Value{}, &SyntaxError{Pos: tok.Pos, Message: "invalid integer literal " + tok.Literal}
		}
		return value.OfInt(i), nil
	default:
		return value.Value{}, p.syntaxErrorf("expected literal, got " + tok.Literal)
	}
}
