package sqlparse

import "strings"

// SourceRef is a resolved reference to a base table or view. Catalog
// and Schema are empty when the reference did not need them to be
// distinguishing: omission is a normalization rule, not missing data.
type SourceRef struct {
	Catalog string `json:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Name    string `json:"name"`
}

// Parts returns the reference as its qualifier parts in order.
func (r SourceRef) Parts() []string {
	var parts []string
	if r.Catalog != "" {
		parts = append(parts, r.Catalog)
	}
	if r.Schema != "" {
		parts = append(parts, r.Schema)
	}
	return append(parts, r.Name)
}

// String returns the dotted form of the reference.
func (r SourceRef) String() string {
	return strings.Join(r.Parts(), ".")
}

// ExtractRefs parses a SQL script and returns every base table it
// reads or writes, in first-occurrence order with duplicates removed.
//
// Qualifiers are normalized per the dialect:
//   - a reference under the dialect's default in-memory catalog keeps
//     only its table name; the default schema is not distinguishing
//     across catalogs
//   - a reference under any other catalog keeps catalog and name, with
//     the schema dropped for the same reason
//   - a schema-only reference keeps schema and name
//
// Statements that fail to parse are skipped; extraction of the rest of
// the script proceeds.
func ExtractRefs(sql string, d Dialect) []SourceRef {
	refs := []SourceRef{}
	seen := make(map[SourceRef]struct{})

	emit := func(t *TableName) {
		ref := normalizeRef(t, d)
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	for _, stmtSQL := range Statements(sql) {
		stmt, err := Parse(stmtSQL, d)
		if err != nil {
			continue
		}
		collectTables(stmt, NewScope(), emit)
	}

	return refs
}

// normalizeRef applies the dialect's qualifier elision rules.
func normalizeRef(t *TableName, d Dialect) SourceRef {
	switch {
	case t.Catalog != "" && d.DefaultCatalog != "" && strings.EqualFold(t.Catalog, d.DefaultCatalog):
		return SourceRef{Name: t.Name}
	case t.Catalog != "":
		return SourceRef{Catalog: t.Catalog, Name: t.Name}
	case t.Schema != "":
		return SourceRef{Schema: t.Schema, Name: t.Name}
	default:
		return SourceRef{Name: t.Name}
	}
}
