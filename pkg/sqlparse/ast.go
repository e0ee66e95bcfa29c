package sqlparse

// Statement represents a single parsed SQL statement.
type Statement interface {
	stmtNode()
}

// Expr represents an expression.
type Expr interface {
	exprNode()
}

// TableRef represents a table reference in a FROM clause.
type TableRef interface {
	tableRefNode()
}

// ---------- Statements ----------

// SelectStmt represents a complete SELECT statement with optional WITH clause.
type SelectStmt struct {
	With *WithClause
	Body *SelectBody
}

func (*SelectStmt) stmtNode() {}

// WithClause represents a WITH clause with CTEs.
type WithClause struct {
	Recursive bool
	CTEs      []*CTE
}

// CTE represents a Common Table Expression.
type CTE struct {
	Name   string
	Select *SelectStmt
}

// SetOpType represents the type of set operation.
type SetOpType string

// Set operation kinds.
const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectBody represents the body of a SELECT with possible set operations.
type SelectBody struct {
	Left  *SelectCore
	Op    SetOpType
	All   bool
	Right *SelectBody
}

// SelectCore represents a single SELECT clause.
type SelectCore struct {
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	Qualify  Expr
	OrderBy  []Expr
	Limit    Expr
	Offset   Expr
}

// SelectItem represents one item in a SELECT list.
type SelectItem struct {
	Star      bool   // SELECT *
	TableStar string // SELECT t.*
	Expr      Expr
	Alias     string
}

// FromClause represents a FROM clause with its joins.
type FromClause struct {
	Source TableRef
	Joins  []*Join
}

// Join represents a joined table reference.
type Join struct {
	Type  string // INNER, LEFT, RIGHT, FULL, CROSS
	Right TableRef
	On    Expr
	Using []string
}

// TableName is a (possibly qualified) base table reference.
type TableName struct {
	Catalog string
	Schema  string
	Name    string
	Alias   string
}

func (*TableName) tableRefNode() {}

// DerivedTable is a subquery in a FROM clause.
type DerivedTable struct {
	Select *SelectStmt
	Alias  string
}

func (*DerivedTable) tableRefNode() {}

// LateralTable is a LATERAL subquery; it may reference outer scope tables.
type LateralTable struct {
	Select *SelectStmt
	Alias  string
}

func (*LateralTable) tableRefNode() {}

// TableFunc is a table-producing function call in a FROM clause,
// e.g. read_csv('x') or VALUES lists.
type TableFunc struct {
	Name  string
	Args  []Expr
	Alias string
}

func (*TableFunc) tableRefNode() {}

// UpdateStmt represents an UPDATE statement. The target table is a
// reference, not a definition.
type UpdateStmt struct {
	Table *TableName
	Exprs []Expr // SET assignments
	From  *FromClause
	Where Expr
}

func (*UpdateStmt) stmtNode() {}

// InsertStmt represents an INSERT statement.
type InsertStmt struct {
	Table  *TableName
	Select *SelectStmt // nil for VALUES-only inserts
}

func (*InsertStmt) stmtNode() {}

// DeleteStmt represents a DELETE statement.
type DeleteStmt struct {
	Table *TableName
	Where Expr
}

func (*DeleteStmt) stmtNode() {}

// ObjectKind classifies the object a DDL statement operates on.
type ObjectKind string

// DDL object kinds.
const (
	ObjectTable    ObjectKind = "TABLE"
	ObjectView     ObjectKind = "VIEW"
	ObjectSchema   ObjectKind = "SCHEMA"
	ObjectDatabase ObjectKind = "DATABASE"
	ObjectIndex    ObjectKind = "INDEX"
)

// ObjectName is a dotted object name as written, up to three parts.
// Parts are stored leading-qualifier first (e.g. catalog.schema.name).
type ObjectName struct {
	Parts []string
}

// Name returns the final (unqualified) part.
func (o *ObjectName) Name() string {
	if len(o.Parts) == 0 {
		return ""
	}
	return o.Parts[len(o.Parts)-1]
}

// CreateStmt represents CREATE TABLE/VIEW/SCHEMA/DATABASE/INDEX.
type CreateStmt struct {
	Kind        ObjectKind
	Object      *ObjectName
	OrReplace   bool
	Temporary   bool
	IfNotExists bool
	Select      *SelectStmt // CREATE ... AS SELECT body, if any
}

func (*CreateStmt) stmtNode() {}

// AlterStmt represents ALTER TABLE/VIEW. The remainder of the statement
// after the object name is not modeled.
type AlterStmt struct {
	Kind   ObjectKind
	Object *ObjectName
}

func (*AlterStmt) stmtNode() {}

// DropStmt represents DROP TABLE/VIEW/SCHEMA/DATABASE/INDEX.
type DropStmt struct {
	Kind     ObjectKind
	Object   *ObjectName
	IfExists bool
}

func (*DropStmt) stmtNode() {}

// AttachStmt represents ATTACH [DATABASE] 'target' [AS alias].
type AttachStmt struct {
	Target string // the attached path or remote address, unquoted
	Alias  string
}

func (*AttachStmt) stmtNode() {}

// DetachStmt represents DETACH [DATABASE] name.
type DetachStmt struct {
	Name string
}

func (*DetachStmt) stmtNode() {}

// ---------- Expressions ----------

// ColumnRef is a (possibly qualified) column reference.
type ColumnRef struct {
	Table  string
	Column string
}

func (*ColumnRef) exprNode() {}

// Literal is a literal value (number, string, boolean, NULL).
type Literal struct {
	Value string
}

func (*Literal) exprNode() {}

// StarExpr is a bare * inside an expression position (e.g. count(*)).
type StarExpr struct{}

func (*StarExpr) exprNode() {}

// FuncCall is a function invocation.
type FuncCall struct {
	Name string
	Args []Expr
}

func (*FuncCall) exprNode() {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    string
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is a unary operation (NOT, -).
type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// CaseExpr is a CASE expression.
type CaseExpr struct {
	Operand Expr
	Whens   []*WhenClause
	Else    Expr
}

// WhenClause is one WHEN ... THEN ... arm of a CASE expression.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

func (*CaseExpr) exprNode() {}

// CastExpr is CAST(expr AS type).
type CastExpr struct {
	Expr Expr
	Type string
}

func (*CastExpr) exprNode() {}

// InExpr is expr [NOT] IN (values | subquery).
type InExpr struct {
	Expr     Expr
	Not      bool
	Values   []Expr
	Subquery *SelectStmt
}

func (*InExpr) exprNode() {}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// IsNullExpr is expr IS [NOT] NULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// SubqueryExpr is a scalar subquery.
type SubqueryExpr struct {
	Select *SelectStmt
}

func (*SubqueryExpr) exprNode() {}

// ExistsExpr is [NOT] EXISTS (subquery).
type ExistsExpr struct {
	Not    bool
	Select *SelectStmt
}

func (*ExistsExpr) exprNode() {}
