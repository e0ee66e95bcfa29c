package sqlparse

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
const (
	// TOKEN_EOF represents end of input.
	TOKEN_EOF TokenType = iota
	// TOKEN_ILLEGAL represents an illegal/unrecognized token.
	TOKEN_ILLEGAL

	// TOKEN_IDENT represents an identifier (quoted identifiers lex to this
	// type with their literal unescaped value).
	TOKEN_IDENT
	// TOKEN_NUMBER represents a numeric literal.
	TOKEN_NUMBER // 123, 45.67, 1e10
	// TOKEN_STRING represents a single-quoted string literal.
	TOKEN_STRING // 'hello'

	TOKEN_PLUS      // +
	TOKEN_MINUS     // -
	TOKEN_STAR      // *
	TOKEN_SLASH     // /
	TOKEN_PERCENT   // %
	TOKEN_DPIPE     // ||
	TOKEN_EQ        // =
	TOKEN_NE        // != or <>
	TOKEN_LT        // <
	TOKEN_GT        // >
	TOKEN_LE        // <=
	TOKEN_GE        // >=
	TOKEN_DOT       // .
	TOKEN_COMMA     // ,
	TOKEN_COLON     // :
	TOKEN_SEMICOLON // ;
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]

	// Keywords (alphabetical)
	TOKEN_ADD
	TOKEN_ALL
	TOKEN_ALTER
	TOKEN_AND
	TOKEN_AS
	TOKEN_ASC
	TOKEN_ATTACH
	TOKEN_BETWEEN
	TOKEN_BY
	TOKEN_CASE
	TOKEN_CAST
	TOKEN_COLUMN
	TOKEN_CREATE
	TOKEN_CROSS
	TOKEN_DATABASE
	TOKEN_DELETE
	TOKEN_DESC
	TOKEN_DETACH
	TOKEN_DISTINCT
	TOKEN_DROP
	TOKEN_ELSE
	TOKEN_END
	TOKEN_EXCEPT
	TOKEN_EXISTS
	TOKEN_FALSE
	TOKEN_FROM
	TOKEN_FULL
	TOKEN_GROUP
	TOKEN_HAVING
	TOKEN_IF
	TOKEN_ILIKE
	TOKEN_IN
	TOKEN_INDEX
	TOKEN_INNER
	TOKEN_INSERT
	TOKEN_INTERSECT
	TOKEN_INTO
	TOKEN_IS
	TOKEN_JOIN
	TOKEN_LATERAL
	TOKEN_LEFT
	TOKEN_LIKE
	TOKEN_LIMIT
	TOKEN_NOT
	TOKEN_NULL
	TOKEN_OFFSET
	TOKEN_ON
	TOKEN_OR
	TOKEN_ORDER
	TOKEN_OUTER
	TOKEN_OVER
	TOKEN_PARTITION
	TOKEN_QUALIFY
	TOKEN_RECURSIVE
	TOKEN_REPLACE
	TOKEN_RIGHT
	TOKEN_SCHEMA
	TOKEN_SELECT
	TOKEN_SET
	TOKEN_TABLE
	TOKEN_TEMP
	TOKEN_TEMPORARY
	TOKEN_THEN
	TOKEN_TRUE
	TOKEN_UNION
	TOKEN_UNIQUE
	TOKEN_UPDATE
	TOKEN_USING
	TOKEN_VALUES
	TOKEN_VIEW
	TOKEN_WHEN
	TOKEN_WHERE
	TOKEN_WITH
)

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position represents a location in the source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(t))
}

var tokenNames = map[TokenType]string{
	TOKEN_EOF:     "EOF",
	TOKEN_ILLEGAL: "ILLEGAL",

	TOKEN_IDENT:  "IDENT",
	TOKEN_NUMBER: "NUMBER",
	TOKEN_STRING: "STRING",

	TOKEN_PLUS:      "+",
	TOKEN_MINUS:     "-",
	TOKEN_STAR:      "*",
	TOKEN_SLASH:     "/",
	TOKEN_PERCENT:   "%",
	TOKEN_DPIPE:     "||",
	TOKEN_EQ:        "=",
	TOKEN_NE:        "!=",
	TOKEN_LT:        "<",
	TOKEN_GT:        ">",
	TOKEN_LE:        "<=",
	TOKEN_GE:        ">=",
	TOKEN_DOT:       ".",
	TOKEN_COMMA:     ",",
	TOKEN_COLON:     ":",
	TOKEN_SEMICOLON: ";",
	TOKEN_LPAREN:    "(",
	TOKEN_RPAREN:    ")",
	TOKEN_LBRACKET:  "[",
	TOKEN_RBRACKET:  "]",

	TOKEN_ADD:       "ADD",
	TOKEN_ALL:       "ALL",
	TOKEN_ALTER:     "ALTER",
	TOKEN_AND:       "AND",
	TOKEN_AS:        "AS",
	TOKEN_ASC:       "ASC",
	TOKEN_ATTACH:    "ATTACH",
	TOKEN_BETWEEN:   "BETWEEN",
	TOKEN_BY:        "BY",
	TOKEN_CASE:      "CASE",
	TOKEN_CAST:      "CAST",
	TOKEN_COLUMN:    "COLUMN",
	TOKEN_CREATE:    "CREATE",
	TOKEN_CROSS:     "CROSS",
	TOKEN_DATABASE:  "DATABASE",
	TOKEN_DELETE:    "DELETE",
	TOKEN_DESC:      "DESC",
	TOKEN_DETACH:    "DETACH",
	TOKEN_DISTINCT:  "DISTINCT",
	TOKEN_DROP:      "DROP",
	TOKEN_ELSE:      "ELSE",
	TOKEN_END:       "END",
	TOKEN_EXCEPT:    "EXCEPT",
	TOKEN_EXISTS:    "EXISTS",
	TOKEN_FALSE:     "FALSE",
	TOKEN_FROM:      "FROM",
	TOKEN_FULL:      "FULL",
	TOKEN_GROUP:     "GROUP",
	TOKEN_HAVING:    "HAVING",
	TOKEN_IF:        "IF",
	TOKEN_ILIKE:     "ILIKE",
	TOKEN_IN:        "IN",
	TOKEN_INDEX:     "INDEX",
	TOKEN_INNER:     "INNER",
	TOKEN_INSERT:    "INSERT",
	TOKEN_INTERSECT: "INTERSECT",
	TOKEN_INTO:      "INTO",
	TOKEN_IS:        "IS",
	TOKEN_JOIN:      "JOIN",
	TOKEN_LATERAL:   "LATERAL",
	TOKEN_LEFT:      "LEFT",
	TOKEN_LIKE:      "LIKE",
	TOKEN_LIMIT:     "LIMIT",
	TOKEN_NOT:       "NOT",
	TOKEN_NULL:      "NULL",
	TOKEN_OFFSET:    "OFFSET",
	TOKEN_ON:        "ON",
	TOKEN_OR:        "OR",
	TOKEN_ORDER:     "ORDER",
	TOKEN_OUTER:     "OUTER",
	TOKEN_OVER:      "OVER",
	TOKEN_PARTITION: "PARTITION",
	TOKEN_QUALIFY:   "QUALIFY",
	TOKEN_RECURSIVE: "RECURSIVE",
	TOKEN_REPLACE:   "REPLACE",
	TOKEN_RIGHT:     "RIGHT",
	TOKEN_SCHEMA:    "SCHEMA",
	TOKEN_SELECT:    "SELECT",
	TOKEN_SET:       "SET",
	TOKEN_TABLE:     "TABLE",
	TOKEN_TEMP:      "TEMP",
	TOKEN_TEMPORARY: "TEMPORARY",
	TOKEN_THEN:      "THEN",
	TOKEN_TRUE:      "TRUE",
	TOKEN_UNION:     "UNION",
	TOKEN_UNIQUE:    "UNIQUE",
	TOKEN_UPDATE:    "UPDATE",
	TOKEN_USING:     "USING",
	TOKEN_VALUES:    "VALUES",
	TOKEN_VIEW:      "VIEW",
	TOKEN_WHEN:      "WHEN",
	TOKEN_WHERE:     "WHERE",
	TOKEN_WITH:      "WITH",
}

var keywords = map[string]TokenType{
	"add":       TOKEN_ADD,
	"all":       TOKEN_ALL,
	"alter":     TOKEN_ALTER,
	"and":       TOKEN_AND,
	"as":        TOKEN_AS,
	"asc":       TOKEN_ASC,
	"attach":    TOKEN_ATTACH,
	"between":   TOKEN_BETWEEN,
	"by":        TOKEN_BY,
	"case":      TOKEN_CASE,
	"cast":      TOKEN_CAST,
	"column":    TOKEN_COLUMN,
	"create":    TOKEN_CREATE,
	"cross":     TOKEN_CROSS,
	"database":  TOKEN_DATABASE,
	"delete":    TOKEN_DELETE,
	"desc":      TOKEN_DESC,
	"detach":    TOKEN_DETACH,
	"distinct":  TOKEN_DISTINCT,
	"drop":      TOKEN_DROP,
	"else":      TOKEN_ELSE,
	"end":       TOKEN_END,
	"except":    TOKEN_EXCEPT,
	"exists":    TOKEN_EXISTS,
	"false":     TOKEN_FALSE,
	"from":      TOKEN_FROM,
	"full":      TOKEN_FULL,
	"group":     TOKEN_GROUP,
	"having":    TOKEN_HAVING,
	"if":        TOKEN_IF,
	"ilike":     TOKEN_ILIKE,
	"in":        TOKEN_IN,
	"index":     TOKEN_INDEX,
	"inner":     TOKEN_INNER,
	"insert":    TOKEN_INSERT,
	"intersect": TOKEN_INTERSECT,
	"into":      TOKEN_INTO,
	"is":        TOKEN_IS,
	"join":      TOKEN_JOIN,
	"lateral":   TOKEN_LATERAL,
	"left":      TOKEN_LEFT,
	"like":      TOKEN_LIKE,
	"limit":     TOKEN_LIMIT,
	"not":       TOKEN_NOT,
	"null":      TOKEN_NULL,
	"offset":    TOKEN_OFFSET,
	"on":        TOKEN_ON,
	"or":        TOKEN_OR,
	"order":     TOKEN_ORDER,
	"outer":     TOKEN_OUTER,
	"over":      TOKEN_OVER,
	"partition": TOKEN_PARTITION,
	"qualify":   TOKEN_QUALIFY,
	"recursive": TOKEN_RECURSIVE,
	"replace":   TOKEN_REPLACE,
	"right":     TOKEN_RIGHT,
	"schema":    TOKEN_SCHEMA,
	"select":    TOKEN_SELECT,
	"set":       TOKEN_SET,
	"table":     TOKEN_TABLE,
	"temp":      TOKEN_TEMP,
	"temporary": TOKEN_TEMPORARY,
	"then":      TOKEN_THEN,
	"true":      TOKEN_TRUE,
	"union":     TOKEN_UNION,
	"unique":    TOKEN_UNIQUE,
	"update":    TOKEN_UPDATE,
	"using":     TOKEN_USING,
	"values":    TOKEN_VALUES,
	"view":      TOKEN_VIEW,
	"when":      TOKEN_WHEN,
	"where":     TOKEN_WHERE,
	"with":      TOKEN_WITH,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}
