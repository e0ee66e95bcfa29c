// Package sqlparse parses SQL statements and extracts the table
// references and object definitions a statement touches.
//
// # Usage
//
//	refs, err := sqlparse.ExtractRefs(sql, sqlparse.GetDialect("duckdb"))
//	defs, err := sqlparse.ExtractDefs(sql, sqlparse.GetDialect("duckdb"))
//
// The parser is a recursive descent parser over a practical subset of
// SQL: SELECT (with CTEs, set operations, joins, subqueries), the DML
// statements, and the DDL forms that introduce or remove named objects
// (CREATE/ALTER/DROP TABLE|VIEW|SCHEMA|DATABASE, ATTACH, DETACH).
//
// It is deliberately permissive: the goal is dependency discovery, not
// validation, so unknown constructs are skipped rather than rejected
// wherever that is safe.
package sqlparse

import "fmt"

// Parser parses SQL into an AST.
type Parser struct {
	lexer   *Lexer
	token   Token // current token
	peek    Token // lookahead token
	peek2   Token // second lookahead token
	errors  []error
	dialect Dialect
}

// NewParser creates a parser for a single SQL statement.
func NewParser(sql string, d Dialect) *Parser {
	p := &Parser{
		lexer:   NewLexer(sql),
		dialect: d,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the SQL and returns the statement AST.
func Parse(sql string, d Dialect) (Statement, error) {
	p := NewParser(sql, d)
	stmt := p.parseStatement()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return stmt, nil
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t TokenType) bool {
	return p.peek.Type == t
}

// checkPeek2 returns true if the peek2 token is of the given type.
func (p *Parser) checkPeek2(t TokenType) bool {
	return p.peek2.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("unexpected token %s, expected %s", p.token.Type, t))
	return false
}

// addError adds a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// ---------- Keyword Helpers ----------

// isKeyword returns true if the token is a reserved keyword that can't
// be used as a bare alias.
func (p *Parser) isKeyword(tok Token) bool {
	switch tok.Type {
	case TOKEN_FROM, TOKEN_UNION, TOKEN_INTERSECT, TOKEN_EXCEPT,
		TOKEN_LEFT, TOKEN_RIGHT, TOKEN_INNER, TOKEN_OUTER, TOKEN_FULL,
		TOKEN_CROSS, TOKEN_JOIN, TOKEN_ON, TOKEN_LATERAL, TOKEN_USING:
		return true
	}
	return p.isClauseKeyword(tok)
}

// isJoinKeyword returns true if token is a JOIN-related keyword.
func (p *Parser) isJoinKeyword(tok Token) bool {
	switch tok.Type {
	case TOKEN_JOIN, TOKEN_LEFT, TOKEN_RIGHT, TOKEN_INNER, TOKEN_OUTER,
		TOKEN_FULL, TOKEN_CROSS, TOKEN_ON, TOKEN_LATERAL, TOKEN_USING:
		return true
	}
	return false
}

// isClauseKeyword returns true if token starts a new clause.
func (p *Parser) isClauseKeyword(tok Token) bool {
	switch tok.Type {
	case TOKEN_WHERE, TOKEN_GROUP, TOKEN_HAVING, TOKEN_QUALIFY,
		TOKEN_ORDER, TOKEN_LIMIT, TOKEN_OFFSET,
		TOKEN_UNION, TOKEN_INTERSECT, TOKEN_EXCEPT, TOKEN_SET:
		return true
	}
	return false
}
