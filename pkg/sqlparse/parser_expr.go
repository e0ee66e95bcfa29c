package sqlparse

import (
	"fmt"
	"strings"
)

// Expression parsing via precedence climbing.
//
// Precedence levels:
//
//	precNone       = 0
//	precOr         = 1
//	precAnd        = 2
//	precNot        = 3
//	precComparison = 4  (=, !=, <, >, <=, >=, IS, IN, BETWEEN, LIKE, ILIKE)
//	precAddition   = 5  (+, -, ||)
//	precMultiply   = 6  (*, /, %)
//	precUnary      = 7  (-, +, NOT)

const (
	precNone = iota
	precOr
	precAnd
	precNot
	precComparison
	precAddition
	precMultiply
	precUnary
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := p.infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			break
		}

		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses unary operators and primary expressions.
func (p *Parser) parsePrefixExpr() Expr {
	switch p.token.Type {
	case TOKEN_NOT:
		if p.checkPeek(TOKEN_EXISTS) {
			p.nextToken()
			return p.parseExistsExpr(true)
		}
		p.nextToken()
		return &UnaryExpr{Op: "NOT", Expr: p.parseExpressionWithPrecedence(precNot)}

	case TOKEN_MINUS:
		p.nextToken()
		return &UnaryExpr{Op: "-", Expr: p.parseExpressionWithPrecedence(precUnary)}

	case TOKEN_PLUS:
		p.nextToken()
		return &UnaryExpr{Op: "+", Expr: p.parseExpressionWithPrecedence(precUnary)}

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of t as an infix operator,
// or precNone if it is not one.
func (p *Parser) infixPrecedence(t TokenType) int {
	switch t {
	case TOKEN_OR:
		return precOr
	case TOKEN_AND:
		return precAnd
	case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE,
		TOKEN_IS, TOKEN_IN, TOKEN_BETWEEN, TOKEN_LIKE, TOKEN_ILIKE, TOKEN_NOT:
		return precComparison
	case TOKEN_PLUS, TOKEN_MINUS, TOKEN_DPIPE:
		return precAddition
	case TOKEN_STAR, TOKEN_SLASH, TOKEN_PERCENT:
		return precMultiply
	default:
		return precNone
	}
}

// parseInfixExpr parses an infix expression given the left operand.
func (p *Parser) parseInfixExpr(left Expr, prec int) Expr {
	switch p.token.Type {
	case TOKEN_NOT:
		return p.parseNotInfixExpr(left)

	case TOKEN_IS:
		return p.parseIsExpr(left)

	case TOKEN_IN:
		p.nextToken()
		return p.parseInExpr(left, false)

	case TOKEN_BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)

	case TOKEN_LIKE, TOKEN_ILIKE:
		op := p.token.Type.String()
		p.nextToken()
		return &BinaryExpr{Left: left, Op: op, Right: p.parseExpressionWithPrecedence(precAddition)}
	}

	op := p.token
	p.nextToken()

	// Left-associative: right side binds one level tighter
	right := p.parseExpressionWithPrecedence(prec + 1)

	return &BinaryExpr{Left: left, Op: op.Literal, Right: right}
}

// parseNotInfixExpr handles NOT as an infix modifier (NOT IN, NOT BETWEEN, NOT LIKE).
func (p *Parser) parseNotInfixExpr(left Expr) Expr {
	p.nextToken() // consume NOT

	switch p.token.Type {
	case TOKEN_IN:
		p.nextToken()
		return p.parseInExpr(left, true)

	case TOKEN_BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)

	case TOKEN_LIKE, TOKEN_ILIKE:
		op := "NOT " + p.token.Type.String()
		p.nextToken()
		return &BinaryExpr{Left: left, Op: op, Right: p.parseExpressionWithPrecedence(precAddition)}

	default:
		p.addError("expected IN, BETWEEN, LIKE, or ILIKE after NOT")
		return left
	}
}

// parseIsExpr parses IS [NOT] NULL / TRUE / FALSE.
func (p *Parser) parseIsExpr(left Expr) Expr {
	p.nextToken() // consume IS

	isNot := p.match(TOKEN_NOT)

	switch p.token.Type {
	case TOKEN_NULL:
		p.nextToken()
		return &IsNullExpr{Expr: left, Not: isNot}

	case TOKEN_TRUE, TOKEN_FALSE:
		val := p.token.Literal
		p.nextToken()
		return &BinaryExpr{Left: left, Op: "IS", Right: &Literal{Value: val}}

	default:
		p.addError("expected NULL, TRUE, or FALSE after IS")
		return left
	}
}

// parseInExpr parses an IN expression.
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	p.expect(TOKEN_LPAREN)
	in := &InExpr{Expr: left, Not: not}

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		in.Subquery = p.parseSelectStmt()
	} else {
		in.Values = p.parseExpressionList()
	}

	p.expect(TOKEN_RPAREN)
	return in
}

// parseBetweenExpr parses a BETWEEN expression. Both bounds parse at
// addition precedence so the separating AND is not captured.
func (p *Parser) parseBetweenExpr(left Expr, not bool) Expr {
	between := &BetweenExpr{Expr: left, Not: not}
	between.Low = p.parseExpressionWithPrecedence(precAddition)
	p.expect(TOKEN_AND)
	between.High = p.parseExpressionWithPrecedence(precAddition)
	return between
}

// ---------- Primary Expressions ----------

// parsePrimary parses literals, column refs, function calls, CASE,
// CAST, EXISTS, subqueries, and parenthesized expressions.
func (p *Parser) parsePrimary() Expr {
	switch p.token.Type {
	case TOKEN_NUMBER, TOKEN_STRING:
		lit := &Literal{Value: p.token.Literal}
		p.nextToken()
		return lit

	case TOKEN_TRUE, TOKEN_FALSE, TOKEN_NULL:
		lit := &Literal{Value: p.token.Literal}
		p.nextToken()
		return lit

	case TOKEN_CASE:
		return p.parseCaseExpr()

	case TOKEN_CAST:
		return p.parseCastExpr()

	case TOKEN_EXISTS:
		return p.parseExistsExpr(false)

	case TOKEN_IDENT:
		return p.parseIdentifierExpr()

	case TOKEN_LPAREN:
		return p.parseParenExpr()

	case TOKEN_STAR:
		p.nextToken()
		return &StarExpr{}

	default:
		p.addError(fmt.Sprintf("unexpected token in expression: %s", p.token.Type))
		p.nextToken()
		return nil
	}
}

// parseIdentifierExpr parses an identifier as a column ref or function call.
func (p *Parser) parseIdentifierExpr() Expr {
	name := p.token.Literal
	p.nextToken()

	if p.check(TOKEN_LPAREN) {
		return p.parseFuncCall(name)
	}

	if p.check(TOKEN_DOT) {
		return p.parseQualifiedColumnRef(name)
	}

	return &ColumnRef{Column: name}
}

// parseQualifiedColumnRef parses table.column (or longer chains; only
// the last two parts are kept).
func (p *Parser) parseQualifiedColumnRef(firstPart string) Expr {
	parts := []string{firstPart}

	for p.match(TOKEN_DOT) {
		if p.check(TOKEN_STAR) {
			p.nextToken()
			return &StarExpr{}
		}
		if p.check(TOKEN_IDENT) {
			parts = append(parts, p.token.Literal)
			p.nextToken()
		}
	}

	ref := &ColumnRef{Column: parts[len(parts)-1]}
	if len(parts) > 1 {
		ref.Table = parts[len(parts)-2]
	}
	return ref
}

// parseFuncCall parses a function call.
func (p *Parser) parseFuncCall(name string) Expr {
	fn := &FuncCall{Name: strings.ToUpper(name)}

	p.expect(TOKEN_LPAREN)

	if p.check(TOKEN_STAR) {
		fn.Args = append(fn.Args, &StarExpr{})
		p.nextToken()
	} else if !p.check(TOKEN_RPAREN) {
		p.match(TOKEN_DISTINCT)
		fn.Args = p.parseExpressionList()
	}

	p.expect(TOKEN_RPAREN)

	// OVER clause: consume the window spec without modeling it
	if p.match(TOKEN_OVER) {
		p.skipParenGroup()
	}

	return fn
}

// skipParenGroup consumes a balanced parenthesized group, or a single
// identifier when a named window follows OVER.
func (p *Parser) skipParenGroup() {
	if p.check(TOKEN_IDENT) {
		p.nextToken()
		return
	}
	if !p.match(TOKEN_LPAREN) {
		return
	}
	depth := 1
	for depth > 0 && !p.check(TOKEN_EOF) {
		switch p.token.Type {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
		}
		p.nextToken()
	}
}

// parseParenExpr parses a parenthesized expression or a scalar subquery.
func (p *Parser) parseParenExpr() Expr {
	p.expect(TOKEN_LPAREN)

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		sub := &SubqueryExpr{Select: p.parseSelectStmt()}
		p.expect(TOKEN_RPAREN)
		return sub
	}

	expr := p.parseExpression()
	p.expect(TOKEN_RPAREN)
	return &ParenExpr{Expr: expr}
}

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() Expr {
	p.expect(TOKEN_CASE)
	caseExpr := &CaseExpr{}

	// Simple CASE has an operand before WHEN
	if !p.check(TOKEN_WHEN) {
		caseExpr.Operand = p.parseExpression()
	}

	for p.match(TOKEN_WHEN) {
		when := &WhenClause{}
		when.Condition = p.parseExpression()
		p.expect(TOKEN_THEN)
		when.Result = p.parseExpression()
		caseExpr.Whens = append(caseExpr.Whens, when)
	}

	if p.match(TOKEN_ELSE) {
		caseExpr.Else = p.parseExpression()
	}

	p.expect(TOKEN_END)
	return caseExpr
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() Expr {
	p.expect(TOKEN_CAST)
	p.expect(TOKEN_LPAREN)

	cast := &CastExpr{}
	cast.Expr = p.parseExpression()

	p.expect(TOKEN_AS)

	// Type name, possibly parameterized: DECIMAL(10, 2)
	if p.check(TOKEN_IDENT) {
		cast.Type = p.token.Literal
		p.nextToken()
		if p.check(TOKEN_LPAREN) {
			p.skipParenGroup()
		}
	} else {
		p.addError("expected type name in CAST")
	}

	p.expect(TOKEN_RPAREN)
	return cast
}

// parseExistsExpr parses [NOT] EXISTS (subquery).
func (p *Parser) parseExistsExpr(not bool) Expr {
	p.expect(TOKEN_EXISTS)
	p.expect(TOKEN_LPAREN)
	exists := &ExistsExpr{Not: not}
	exists.Select = p.parseSelectStmt()
	p.expect(TOKEN_RPAREN)
	return exists
}
