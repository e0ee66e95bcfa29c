package sqlparse

import "strings"

// Statements splits a SQL script into individual statements on
// semicolons, honoring string literals, quoted identifiers, and both
// comment forms. Empty statements are dropped; trailing semicolons are
// not required.
func Statements(sql string) []string {
	var out []string
	var start int
	i := 0
	n := len(sql)
	for i < n {
		switch c := sql[i]; c {
		case '\'', '"', '`':
			i = skipQuoted(sql, i, c)
		case '-':
			if i+1 < n && sql[i+1] == '-' {
				i = skipLineComment(sql, i)
			} else {
				i++
			}
		case '/':
			if i+1 < n && sql[i+1] == '*' {
				i = skipBlockComment(sql, i)
			} else {
				i++
			}
		case ';':
			if stmt := strings.TrimSpace(sql[start:i]); stmt != "" {
				out = append(out, stmt)
			}
			i++
			start = i
		default:
			i++
		}
	}
	if stmt := strings.TrimSpace(sql[start:]); stmt != "" {
		out = append(out, stmt)
	}
	return out
}

// skipQuoted advances past a quoted region starting at sql[i] == q.
// Doubled delimiters escape themselves.
func skipQuoted(sql string, i int, q byte) int {
	i++
	n := len(sql)
	for i < n {
		if sql[i] == q {
			if i+1 < n && sql[i+1] == q {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return n
}

func skipLineComment(sql string, i int) int {
	for i < len(sql) && sql[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(sql string, i int) int {
	i += 2
	n := len(sql)
	for i+1 < n {
		if sql[i] == '*' && sql[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return n
}
