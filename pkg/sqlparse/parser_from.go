package sqlparse

// FROM clause parsing: table references, derived tables, lateral joins,
// table functions, JOINs.
//
// Grammar:
//
//	from_clause   → table_ref (join)*
//	table_ref     → table_name | derived_table | lateral_table | table_func
//	table_name    → identifier ("." identifier)* [AS identifier]
//	derived_table → "(" select_stmt ")" [AS] identifier
//	lateral_table → LATERAL "(" select_stmt ")" [AS] identifier
//	table_func    → identifier "(" [expr_list] ")" [AS identifier]
//	join          → join_type JOIN table_ref [ON expr | USING "(" columns ")"]
//	              | "," table_ref
//	join_type     → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *FromClause {
	from := &FromClause{}
	from.Source = p.parseTableRef()

	for {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}

	return from
}

// parseTableRef parses a table reference.
func (p *Parser) parseTableRef() TableRef {
	// LATERAL subquery
	if p.match(TOKEN_LATERAL) {
		return p.parseLateralTable()
	}

	// Derived table (subquery)
	if p.check(TOKEN_LPAREN) {
		return p.parseDerivedTable()
	}

	// Table function: read_csv('x'), range(10), ...
	if p.check(TOKEN_IDENT) && p.checkPeek(TOKEN_LPAREN) {
		return p.parseTableFunc()
	}

	return p.parseTableName()
}

// parseTableName parses a table name with optional schema/catalog
// qualifiers. Two-part names are schema.table; three-part names are
// catalog.schema.table.
func (p *Parser) parseTableName() *TableName {
	table := &TableName{}

	if !p.check(TOKEN_IDENT) && !p.check(TOKEN_STRING) {
		p.addError("expected table name")
		return table
	}

	parts := []string{p.token.Literal}
	p.nextToken()

	for p.match(TOKEN_DOT) {
		if p.check(TOKEN_IDENT) {
			parts = append(parts, p.token.Literal)
			p.nextToken()
		}
	}

	switch len(parts) {
	case 1:
		table.Name = parts[0]
	case 2:
		table.Schema = parts[0]
		table.Name = parts[1]
	default:
		table.Catalog = parts[0]
		table.Schema = parts[1]
		table.Name = parts[len(parts)-1]
	}

	table.Alias = p.parseTableAlias()
	return table
}

// parseTableAlias parses an optional [AS] alias after a table reference.
func (p *Parser) parseTableAlias() string {
	if p.match(TOKEN_AS) {
		if p.check(TOKEN_IDENT) {
			alias := p.token.Literal
			p.nextToken()
			return alias
		}
		p.addError("expected alias after AS")
		return ""
	}
	if p.check(TOKEN_IDENT) && !p.isJoinKeyword(p.token) && !p.isClauseKeyword(p.token) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}

// parseDerivedTable parses a derived table (subquery in FROM).
func (p *Parser) parseDerivedTable() *DerivedTable {
	p.expect(TOKEN_LPAREN)
	derived := &DerivedTable{}
	derived.Select = p.parseSelectStmt()
	p.expect(TOKEN_RPAREN)
	derived.Alias = p.parseTableAlias()
	return derived
}

// parseLateralTable parses a LATERAL subquery.
func (p *Parser) parseLateralTable() *LateralTable {
	p.expect(TOKEN_LPAREN)
	lateral := &LateralTable{}
	lateral.Select = p.parseSelectStmt()
	p.expect(TOKEN_RPAREN)
	lateral.Alias = p.parseTableAlias()
	return lateral
}

// parseTableFunc parses a table-producing function call.
func (p *Parser) parseTableFunc() *TableFunc {
	fn := &TableFunc{Name: p.token.Literal}
	p.nextToken()
	p.expect(TOKEN_LPAREN)

	if !p.check(TOKEN_RPAREN) {
		fn.Args = p.parseExpressionList()
	}
	p.expect(TOKEN_RPAREN)

	fn.Alias = p.parseTableAlias()
	return fn
}

// parseJoin parses a JOIN clause. Returns nil when no join follows.
func (p *Parser) parseJoin() *Join {
	join := &Join{}

	// Comma join (implicit cross join)
	if p.match(TOKEN_COMMA) {
		join.Type = "CROSS"
		join.Right = p.parseTableRef()
		return join
	}

	switch p.token.Type {
	case TOKEN_JOIN:
		join.Type = "INNER"
	case TOKEN_INNER:
		join.Type = "INNER"
		p.nextToken()
	case TOKEN_LEFT:
		join.Type = "LEFT"
		p.nextToken()
		p.match(TOKEN_OUTER)
	case TOKEN_RIGHT:
		join.Type = "RIGHT"
		p.nextToken()
		p.match(TOKEN_OUTER)
	case TOKEN_FULL:
		join.Type = "FULL"
		p.nextToken()
		p.match(TOKEN_OUTER)
	case TOKEN_CROSS:
		join.Type = "CROSS"
		p.nextToken()
	default:
		return nil
	}

	if !p.expect(TOKEN_JOIN) {
		return nil
	}

	join.Right = p.parseTableRef()

	switch {
	case p.match(TOKEN_ON):
		join.On = p.parseExpression()
	case p.match(TOKEN_USING):
		join.Using = p.parseUsingColumns()
	}

	return join
}

// parseUsingColumns parses the column list in USING (col1, col2, ...).
func (p *Parser) parseUsingColumns() []string {
	p.expect(TOKEN_LPAREN)
	var cols []string
	for {
		if !p.check(TOKEN_IDENT) {
			p.addError("expected column name in USING clause")
			break
		}
		cols = append(cols, p.token.Literal)
		p.nextToken()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.expect(TOKEN_RPAREN)
	return cols
}
