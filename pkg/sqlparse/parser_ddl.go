package sqlparse

// DML and DDL statement parsing.
//
// Grammar:
//
//	update_stmt → UPDATE table_name [AS identifier] SET assignment_list
//	              [FROM from_clause] [WHERE expr]
//	insert_stmt → INSERT [OR REPLACE] INTO table_name ["(" columns ")"]
//	              (select_stmt | VALUES value_lists | DEFAULT VALUES)
//	delete_stmt → DELETE FROM table_name [WHERE expr]
//	create_stmt → CREATE [OR REPLACE] [TEMP|TEMPORARY] object_kind
//	              [IF NOT EXISTS] object_name [column_defs] [[AS] select_stmt]
//	alter_stmt  → ALTER object_kind object_name rest
//	drop_stmt   → DROP object_kind [IF EXISTS] object_name rest
//	attach_stmt → ATTACH [DATABASE] [IF NOT EXISTS] target [AS identifier] rest
//	detach_stmt → DETACH [DATABASE] identifier
//
// ALTER and DROP model only the object being operated on; the rest of
// the statement is consumed without interpretation.

// parseUpdateStmt parses an UPDATE statement.
func (p *Parser) parseUpdateStmt() *UpdateStmt {
	p.expect(TOKEN_UPDATE)
	stmt := &UpdateStmt{}
	stmt.Table = p.parseTableName()

	p.expect(TOKEN_SET)

	// SET assignments: col = expr, ...
	for {
		if p.check(TOKEN_IDENT) {
			p.nextToken()
			// qualified column target
			for p.match(TOKEN_DOT) {
				if p.check(TOKEN_IDENT) {
					p.nextToken()
				}
			}
		} else {
			p.addError("expected column name in SET clause")
			break
		}
		p.expect(TOKEN_EQ)
		stmt.Exprs = append(stmt.Exprs, p.parseExpression())

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	if p.match(TOKEN_FROM) {
		stmt.From = p.parseFromClause()
	}

	if p.match(TOKEN_WHERE) {
		stmt.Where = p.parseExpression()
	}

	return stmt
}

// parseInsertStmt parses an INSERT statement.
func (p *Parser) parseInsertStmt() *InsertStmt {
	if !p.match(TOKEN_INSERT) {
		p.expect(TOKEN_REPLACE)
	} else if p.match(TOKEN_OR) {
		p.match(TOKEN_REPLACE)
	}
	p.expect(TOKEN_INTO)

	stmt := &InsertStmt{}
	stmt.Table = p.parseTableName()

	// Optional column list
	if p.check(TOKEN_LPAREN) && !p.checkPeek(TOKEN_SELECT) && !p.checkPeek(TOKEN_WITH) {
		p.skipParenGroup()
	}

	switch {
	case p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) || p.check(TOKEN_LPAREN):
		stmt.Select = p.parseSelectStmt()
	case p.match(TOKEN_VALUES):
		for {
			p.skipParenGroup()
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}

	return stmt
}

// parseDeleteStmt parses a DELETE statement.
func (p *Parser) parseDeleteStmt() *DeleteStmt {
	p.expect(TOKEN_DELETE)
	p.expect(TOKEN_FROM)

	stmt := &DeleteStmt{}
	stmt.Table = p.parseTableName()

	if p.match(TOKEN_WHERE) {
		stmt.Where = p.parseExpression()
	}

	return stmt
}

// ---------- DDL ----------

// parseObjectKind reads the object kind keyword following CREATE,
// ALTER, or DROP.
func (p *Parser) parseObjectKind() (ObjectKind, bool) {
	switch p.token.Type {
	case TOKEN_TABLE:
		p.nextToken()
		return ObjectTable, true
	case TOKEN_VIEW:
		p.nextToken()
		return ObjectView, true
	case TOKEN_SCHEMA:
		p.nextToken()
		return ObjectSchema, true
	case TOKEN_DATABASE:
		p.nextToken()
		return ObjectDatabase, true
	case TOKEN_INDEX:
		p.nextToken()
		return ObjectIndex, true
	default:
		return "", false
	}
}

// parseObjectName parses a dotted object name. Single-quoted parts are
// accepted: duckdb permits string literals in DDL name positions.
func (p *Parser) parseObjectName() *ObjectName {
	obj := &ObjectName{}

	if !p.check(TOKEN_IDENT) && !p.check(TOKEN_STRING) {
		p.addError("expected object name")
		return obj
	}
	obj.Parts = append(obj.Parts, p.token.Literal)
	p.nextToken()

	for p.match(TOKEN_DOT) {
		if p.check(TOKEN_IDENT) || p.check(TOKEN_STRING) {
			obj.Parts = append(obj.Parts, p.token.Literal)
			p.nextToken()
		}
	}

	return obj
}

// parseCreateStmt parses CREATE TABLE/VIEW/SCHEMA/DATABASE/INDEX.
func (p *Parser) parseCreateStmt() *CreateStmt {
	p.expect(TOKEN_CREATE)
	stmt := &CreateStmt{}

	if p.match(TOKEN_OR) {
		if p.match(TOKEN_REPLACE) {
			stmt.OrReplace = true
		} else {
			p.addError("expected REPLACE after OR")
		}
	}

	if p.match(TOKEN_TEMP) || p.match(TOKEN_TEMPORARY) {
		stmt.Temporary = true
	}

	p.match(TOKEN_UNIQUE) // CREATE UNIQUE INDEX

	kind, ok := p.parseObjectKind()
	if !ok {
		p.addError("expected TABLE, VIEW, SCHEMA, DATABASE, or INDEX after CREATE")
		return stmt
	}
	stmt.Kind = kind

	if p.check(TOKEN_IF) {
		p.nextToken()
		p.expect(TOKEN_NOT)
		p.expect(TOKEN_EXISTS)
		stmt.IfNotExists = true
	}

	stmt.Object = p.parseObjectName()

	if kind == ObjectIndex {
		// CREATE INDEX name ON table (cols): consume the remainder
		p.skipToEOF()
		return stmt
	}

	// Column definitions
	if p.check(TOKEN_LPAREN) {
		p.skipParenGroup()
	}

	// AS SELECT body
	if p.match(TOKEN_AS) || p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) || p.check(TOKEN_LPAREN) {
			stmt.Select = p.parseSelectStmt()
		}
	}

	return stmt
}

// parseAlterStmt parses ALTER TABLE/VIEW and records the target object.
func (p *Parser) parseAlterStmt() *AlterStmt {
	p.expect(TOKEN_ALTER)
	stmt := &AlterStmt{}

	kind, ok := p.parseObjectKind()
	if !ok {
		p.addError("expected TABLE or VIEW after ALTER")
		return stmt
	}
	stmt.Kind = kind

	if p.check(TOKEN_IF) {
		p.nextToken()
		p.expect(TOKEN_EXISTS)
	}

	stmt.Object = p.parseObjectName()
	p.skipToEOF()
	return stmt
}

// parseDropStmt parses DROP TABLE/VIEW/SCHEMA/DATABASE/INDEX.
func (p *Parser) parseDropStmt() *DropStmt {
	p.expect(TOKEN_DROP)
	stmt := &DropStmt{}

	kind, ok := p.parseObjectKind()
	if !ok {
		p.addError("expected object kind after DROP")
		return stmt
	}
	stmt.Kind = kind

	if p.check(TOKEN_IF) {
		p.nextToken()
		p.expect(TOKEN_EXISTS)
		stmt.IfExists = true
	}

	stmt.Object = p.parseObjectName()
	p.skipToEOF()
	return stmt
}

// parseAttachStmt parses ATTACH [DATABASE] 'target' [AS alias].
func (p *Parser) parseAttachStmt() *AttachStmt {
	p.expect(TOKEN_ATTACH)
	stmt := &AttachStmt{}

	p.match(TOKEN_DATABASE)

	if p.check(TOKEN_IF) {
		p.nextToken()
		p.expect(TOKEN_NOT)
		p.expect(TOKEN_EXISTS)
	}

	switch p.token.Type {
	case TOKEN_STRING, TOKEN_IDENT:
		stmt.Target = p.token.Literal
		p.nextToken()
	default:
		p.addError("expected attach target")
		return stmt
	}

	if p.match(TOKEN_AS) {
		if p.check(TOKEN_IDENT) {
			stmt.Alias = p.token.Literal
			p.nextToken()
		} else {
			p.addError("expected alias after AS")
		}
	}

	// Trailing options: (READ_ONLY), (TYPE sqlite), ...
	p.skipToEOF()
	return stmt
}

// parseDetachStmt parses DETACH [DATABASE] name.
func (p *Parser) parseDetachStmt() *DetachStmt {
	p.expect(TOKEN_DETACH)
	stmt := &DetachStmt{}

	p.match(TOKEN_DATABASE)

	if p.check(TOKEN_IF) {
		p.nextToken()
		p.expect(TOKEN_EXISTS)
	}

	if p.check(TOKEN_IDENT) {
		stmt.Name = p.token.Literal
		p.nextToken()
	} else {
		p.addError("expected database name in DETACH")
	}

	return stmt
}

// skipToEOF consumes the remaining tokens of the statement.
func (p *Parser) skipToEOF() {
	for !p.check(TOKEN_EOF) {
		p.nextToken()
	}
}
