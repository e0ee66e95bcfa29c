package sqlparse

import "strings"

// Statement parsing: dispatch, WITH clause, CTEs, SELECT body and clauses.
//
// Grammar:
//
//	statement     → select_stmt | update_stmt | insert_stmt | delete_stmt
//	              | create_stmt | alter_stmt | drop_stmt
//	              | attach_stmt | detach_stmt
//	select_stmt   → [WITH [RECURSIVE] cte_list] select_body
//	cte_list      → cte ("," cte)*
//	cte           → identifier AS "(" select_stmt ")"
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body]
//	select_core   → SELECT [DISTINCT|ALL] select_list
//	                [FROM from_clause] [WHERE expr] [GROUP BY expr_list]
//	                [HAVING expr] [QUALIFY expr] [ORDER BY order_list]
//	                [LIMIT expr] [OFFSET expr]

// parseStatement dispatches on the leading keyword.
func (p *Parser) parseStatement() Statement {
	switch p.token.Type {
	case TOKEN_SELECT, TOKEN_WITH, TOKEN_LPAREN:
		return p.parseSelectStmt()
	case TOKEN_UPDATE:
		return p.parseUpdateStmt()
	case TOKEN_INSERT, TOKEN_REPLACE:
		return p.parseInsertStmt()
	case TOKEN_DELETE:
		return p.parseDeleteStmt()
	case TOKEN_CREATE:
		return p.parseCreateStmt()
	case TOKEN_ALTER:
		return p.parseAlterStmt()
	case TOKEN_DROP:
		return p.parseDropStmt()
	case TOKEN_ATTACH:
		return p.parseAttachStmt()
	case TOKEN_DETACH:
		return p.parseDetachStmt()
	default:
		p.addError("unexpected token " + p.token.Type.String() + " at start of statement")
		return nil
	}
}

// parseSelectStmt parses a complete SELECT statement.
func (p *Parser) parseSelectStmt() *SelectStmt {
	stmt := &SelectStmt{}

	// Optional WITH clause
	if p.check(TOKEN_WITH) {
		stmt.With = p.parseWithClause()
	}

	// Parenthesized body: (SELECT ...) UNION ...
	if p.check(TOKEN_LPAREN) && (p.checkPeek(TOKEN_SELECT) || p.checkPeek(TOKEN_WITH) || p.checkPeek(TOKEN_LPAREN)) {
		p.nextToken()
		inner := p.parseSelectStmt()
		p.expect(TOKEN_RPAREN)
		stmt.Body = inner.Body
		if inner.With != nil && stmt.With == nil {
			stmt.With = inner.With
		}
		p.parseSetOpTail(stmt.Body)
		return stmt
	}

	stmt.Body = p.parseSelectBody()
	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *WithClause {
	p.expect(TOKEN_WITH)
	with := &WithClause{}

	if p.match(TOKEN_RECURSIVE) {
		with.Recursive = true
	}

	for {
		cte := p.parseCTE()
		with.CTEs = append(with.CTEs, cte)

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return with
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE() *CTE {
	cte := &CTE{}

	if !p.check(TOKEN_IDENT) {
		p.addError("expected CTE name")
		return cte
	}
	cte.Name = p.token.Literal
	p.nextToken()

	// Optional column list: name (a, b) AS (...)
	if p.check(TOKEN_LPAREN) {
		p.nextToken()
		for !p.check(TOKEN_RPAREN) && !p.check(TOKEN_EOF) {
			p.nextToken()
		}
		p.expect(TOKEN_RPAREN)
	}

	p.expect(TOKEN_AS)

	p.expect(TOKEN_LPAREN)
	cte.Select = p.parseSelectStmt()
	p.expect(TOKEN_RPAREN)

	return cte
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *SelectBody {
	body := &SelectBody{}
	body.Left = p.parseSelectCore()
	p.parseSetOpTail(body)
	return body
}

// parseSetOpTail parses a trailing set operation chain onto body.
func (p *Parser) parseSetOpTail(body *SelectBody) {
	if body == nil {
		return
	}
	// A parenthesized operand may already carry an operation chain;
	// append to its tail rather than overwriting it.
	for body.Op != SetOpNone {
		if body.Right == nil {
			return
		}
		body = body.Right
	}
	if !p.check(TOKEN_UNION) && !p.check(TOKEN_INTERSECT) && !p.check(TOKEN_EXCEPT) {
		return
	}

	switch p.token.Type {
	case TOKEN_UNION:
		p.nextToken()
		body.Op = SetOpUnion
		if p.match(TOKEN_ALL) {
			body.All = true
		} else {
			p.match(TOKEN_DISTINCT) // optional
		}
	case TOKEN_INTERSECT:
		p.nextToken()
		body.Op = SetOpIntersect
		p.match(TOKEN_ALL)
	case TOKEN_EXCEPT:
		p.nextToken()
		body.Op = SetOpExcept
		p.match(TOKEN_ALL)
	}

	// Parse the right side (recursively for chained operations)
	if p.check(TOKEN_LPAREN) {
		p.nextToken()
		inner := p.parseSelectStmt()
		p.expect(TOKEN_RPAREN)
		body.Right = inner.Body
		p.parseSetOpTail(body.Right)
	} else {
		body.Right = p.parseSelectBody()
	}
}

// parseSelectCore parses a single SELECT clause.
func (p *Parser) parseSelectCore() *SelectCore {
	p.expect(TOKEN_SELECT)
	core := &SelectCore{}

	if p.match(TOKEN_DISTINCT) {
		core.Distinct = true
	} else {
		p.match(TOKEN_ALL)
	}

	core.Columns = p.parseSelectList()

	if p.match(TOKEN_FROM) {
		core.From = p.parseFromClause()
	}

	p.parseClauses(core)

	return core
}

// parseClauses parses the optional trailing clauses of a SELECT core.
func (p *Parser) parseClauses(core *SelectCore) {
	if p.match(TOKEN_WHERE) {
		core.Where = p.parseExpression()
	}
	if p.check(TOKEN_GROUP) && p.checkPeek(TOKEN_BY) {
		p.nextToken()
		p.nextToken()
		core.GroupBy = p.parseExpressionList()
	}
	if p.match(TOKEN_HAVING) {
		core.Having = p.parseExpression()
	}
	if p.match(TOKEN_QUALIFY) {
		core.Qualify = p.parseExpression()
	}
	if p.check(TOKEN_ORDER) && p.checkPeek(TOKEN_BY) {
		p.nextToken()
		p.nextToken()
		core.OrderBy = p.parseOrderByList()
	}
	if p.match(TOKEN_LIMIT) {
		core.Limit = p.parseExpression()
	}
	if p.match(TOKEN_OFFSET) {
		core.Offset = p.parseExpression()
	}
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem

	for {
		item := p.parseSelectItem()
		items = append(items, item)

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() SelectItem {
	item := SelectItem{}

	if p.check(TOKEN_STAR) {
		item.Star = true
		p.nextToken()
		return item
	}

	// table.* via 3-token lookahead, no rollback needed
	if p.check(TOKEN_IDENT) && p.checkPeek(TOKEN_DOT) && p.checkPeek2(TOKEN_STAR) {
		item.TableStar = p.token.Literal
		p.nextToken()
		p.nextToken()
		p.nextToken()
		return item
	}

	item.Expr = p.parseExpression()

	// Optional alias
	if p.match(TOKEN_AS) {
		if p.check(TOKEN_IDENT) {
			item.Alias = p.token.Literal
			p.nextToken()
		} else {
			p.addError("expected alias after AS")
		}
	} else if p.check(TOKEN_IDENT) && !p.isKeyword(p.token) {
		item.Alias = p.token.Literal
		p.nextToken()
	}

	return item
}

// parseOrderByList parses ORDER BY items. Direction and null ordering
// are consumed but not recorded.
func (p *Parser) parseOrderByList() []Expr {
	var exprs []Expr

	for {
		exprs = append(exprs, p.parseExpression())

		if !p.match(TOKEN_ASC) {
			p.match(TOKEN_DESC)
		}
		// NULLS FIRST | NULLS LAST
		if p.check(TOKEN_IDENT) && strings.EqualFold(p.token.Literal, "nulls") {
			p.nextToken()
			if p.check(TOKEN_IDENT) {
				p.nextToken()
			}
		}

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return exprs
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []Expr {
	var exprs []Expr

	for {
		exprs = append(exprs, p.parseExpression())

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return exprs
}
