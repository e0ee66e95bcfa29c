package sqlparse

// AST traversal for base-table collection. The walk visits clauses in
// source order so collected references come out in first-occurrence
// order: WITH bodies before the main body, FROM sources before join
// targets, filter clauses after the FROM clause.

// collector receives every base table reference reachable from a
// statement, after CTE shadowing has been applied.
type collector func(*TableName)

// collectTables walks a statement and emits its base table references.
func collectTables(stmt Statement, scope *Scope, emit collector) {
	switch s := stmt.(type) {
	case *SelectStmt:
		collectSelect(s, scope, emit)
	case *UpdateStmt:
		emitTable(s.Table, scope, emit)
		for _, e := range s.Exprs {
			collectExpr(e, scope, emit)
		}
		if s.From != nil {
			collectFrom(s.From, scope, emit)
		}
		collectExpr(s.Where, scope, emit)
	case *InsertStmt:
		emitTable(s.Table, scope, emit)
		if s.Select != nil {
			collectSelect(s.Select, scope, emit)
		}
	case *DeleteStmt:
		emitTable(s.Table, scope, emit)
		collectExpr(s.Where, scope, emit)
	case *CreateStmt:
		// The created object is a definition, not a reference; only a
		// SELECT body contributes references.
		if s.Select != nil {
			collectSelect(s.Select, scope, emit)
		}
	}
	// ALTER, DROP, ATTACH, DETACH reference no base tables.
}

// collectSelect walks a SELECT statement in a child scope.
func collectSelect(stmt *SelectStmt, scope *Scope, emit collector) {
	if stmt == nil {
		return
	}
	child := scope.Child()

	if stmt.With != nil {
		for _, cte := range stmt.With.CTEs {
			if stmt.With.Recursive {
				// the CTE may reference itself
				child.RegisterCTE(cte.Name)
				collectSelect(cte.Select, child, emit)
			} else {
				collectSelect(cte.Select, child, emit)
				child.RegisterCTE(cte.Name)
			}
		}
	}

	collectBody(stmt.Body, child, emit)
}

func collectBody(body *SelectBody, scope *Scope, emit collector) {
	if body == nil {
		return
	}
	collectCore(body.Left, scope, emit)
	collectBody(body.Right, scope, emit)
}

func collectCore(core *SelectCore, scope *Scope, emit collector) {
	if core == nil {
		return
	}

	if core.From != nil {
		collectFrom(core.From, scope, emit)
	}

	for _, item := range core.Columns {
		collectExpr(item.Expr, scope, emit)
	}
	collectExpr(core.Where, scope, emit)
	for _, e := range core.GroupBy {
		collectExpr(e, scope, emit)
	}
	collectExpr(core.Having, scope, emit)
	collectExpr(core.Qualify, scope, emit)
	for _, e := range core.OrderBy {
		collectExpr(e, scope, emit)
	}
	collectExpr(core.Limit, scope, emit)
	collectExpr(core.Offset, scope, emit)
}

func collectFrom(from *FromClause, scope *Scope, emit collector) {
	collectTableRef(from.Source, scope, emit)
	for _, join := range from.Joins {
		collectTableRef(join.Right, scope, emit)
		collectExpr(join.On, scope, emit)
	}
}

func collectTableRef(ref TableRef, scope *Scope, emit collector) {
	switch r := ref.(type) {
	case *TableName:
		emitTable(r, scope, emit)
	case *DerivedTable:
		collectSelect(r.Select, scope, emit)
	case *LateralTable:
		collectSelect(r.Select, scope, emit)
	case *TableFunc:
		for _, arg := range r.Args {
			collectExpr(arg, scope, emit)
		}
	}
}

// emitTable emits a base table unless an unqualified name is shadowed
// by a visible CTE.
func emitTable(t *TableName, scope *Scope, emit collector) {
	if t == nil || t.Name == "" {
		return
	}
	if t.Catalog == "" && t.Schema == "" && scope.IsCTE(t.Name) {
		return
	}
	emit(t)
}

func collectExpr(expr Expr, scope *Scope, emit collector) {
	switch e := expr.(type) {
	case nil:
		return
	case *FuncCall:
		for _, arg := range e.Args {
			collectExpr(arg, scope, emit)
		}
	case *BinaryExpr:
		collectExpr(e.Left, scope, emit)
		collectExpr(e.Right, scope, emit)
	case *UnaryExpr:
		collectExpr(e.Expr, scope, emit)
	case *ParenExpr:
		collectExpr(e.Expr, scope, emit)
	case *CaseExpr:
		collectExpr(e.Operand, scope, emit)
		for _, when := range e.Whens {
			collectExpr(when.Condition, scope, emit)
			collectExpr(when.Result, scope, emit)
		}
		collectExpr(e.Else, scope, emit)
	case *CastExpr:
		collectExpr(e.Expr, scope, emit)
	case *InExpr:
		collectExpr(e.Expr, scope, emit)
		for _, v := range e.Values {
			collectExpr(v, scope, emit)
		}
		collectSelect(e.Subquery, scope, emit)
	case *BetweenExpr:
		collectExpr(e.Expr, scope, emit)
		collectExpr(e.Low, scope, emit)
		collectExpr(e.High, scope, emit)
	case *IsNullExpr:
		collectExpr(e.Expr, scope, emit)
	case *SubqueryExpr:
		collectSelect(e.Select, scope, emit)
	case *ExistsExpr:
		collectSelect(e.Select, scope, emit)
	}
}
