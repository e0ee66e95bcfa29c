package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "single statement",
			sql:  "SELECT 1",
			want: []string{"SELECT 1"},
		},
		{
			name: "two statements with trailing semicolon",
			sql:  "SELECT 1; SELECT 2;",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "semicolon inside string literal",
			sql:  "SELECT 'a;b'; SELECT 2",
			want: []string{"SELECT 'a;b'", "SELECT 2"},
		},
		{
			name: "semicolon inside quoted identifier",
			sql:  `SELECT * FROM "t;1"; SELECT 2`,
			want: []string{`SELECT * FROM "t;1"`, "SELECT 2"},
		},
		{
			name: "semicolon inside line comment",
			sql:  "SELECT 1 -- not a split; really\n; SELECT 2",
			want: []string{"SELECT 1 -- not a split; really", "SELECT 2"},
		},
		{
			name: "semicolon inside block comment",
			sql:  "SELECT 1 /* ; */; SELECT 2",
			want: []string{"SELECT 1 /* ; */", "SELECT 2"},
		},
		{
			name: "empty statements are dropped",
			sql:  ";;  ;SELECT 1;;",
			want: []string{"SELECT 1"},
		},
		{
			name: "doubled quote escape",
			sql:  `SELECT 'it''s;fine'; SELECT 2`,
			want: []string{`SELECT 'it''s;fine'`, "SELECT 2"},
		},
		{
			name: "empty input",
			sql:  "",
			want: nil,
		},
		{
			name: "unterminated string swallows the rest",
			sql:  "SELECT 'oops; SELECT 2",
			want: []string{"SELECT 'oops; SELECT 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Statements(tt.sql))
		})
	}
}
