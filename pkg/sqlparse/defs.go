package sqlparse

import "strings"

// Definitions is everything a script's DDL creates or removes, plus
// the containers it implicitly touches while doing so. All lists are
// duplicate-free in first-occurrence order.
type Definitions struct {
	Tables   []string `json:"tables"`
	Views    []string `json:"views"`
	Schemas  []string `json:"schemas"`
	Catalogs []string `json:"catalogs"`

	// Containers referenced by qualified DDL names, e.g. the catalog in
	// CREATE TABLE my_catalog.my_schema.t. The dialect's implicit
	// defaults are scrubbed: they are not user-defined entities.
	ReferencedSchemas  []string `json:"referenced_schemas"`
	ReferencedCatalogs []string `json:"referenced_catalogs"`
}

// Empty reports whether no definitions were found.
func (d *Definitions) Empty() bool {
	return len(d.Tables) == 0 && len(d.Views) == 0 &&
		len(d.Schemas) == 0 && len(d.Catalogs) == 0 &&
		len(d.ReferencedSchemas) == 0 && len(d.ReferencedCatalogs) == 0
}

// ExtractDefs parses a SQL script and collects the names its DDL
// statements define. Statements that fail to parse are skipped, as are
// DDL shapes that define nothing (indexes, DETACH).
func ExtractDefs(sql string, d Dialect) *Definitions {
	b := &defsBuilder{dialect: d}

	for _, stmtSQL := range Statements(sql) {
		stmt, err := Parse(stmtSQL, d)
		if err != nil {
			continue
		}
		b.addStatement(stmt)
	}

	return b.finish()
}

// defsBuilder accumulates definition names across statements.
type defsBuilder struct {
	dialect  Dialect
	tables   []string
	views    []string
	schemas  []string
	catalogs []string
	refSch   []string
	refCat   []string
}

func (b *defsBuilder) addStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *CreateStmt:
		b.addObject(s.Kind, s.Object)
	case *AlterStmt:
		b.addObject(s.Kind, s.Object)
	case *DropStmt:
		b.addObject(s.Kind, s.Object)
	case *AttachStmt:
		if name := attachCatalogName(s); name != "" {
			b.catalogs = append(b.catalogs, name)
		}
	}
}

// addObject records a DDL object by kind. Index DDL defines no
// dependency-visible name.
func (b *defsBuilder) addObject(kind ObjectKind, obj *ObjectName) {
	if obj == nil || len(obj.Parts) == 0 {
		return
	}

	switch kind {
	case ObjectView:
		b.views = append(b.views, obj.Name())
		b.addContainers(obj)

	case ObjectTable:
		b.tables = append(b.tables, obj.Name())
		if len(obj.Parts) == 2 {
			// Two-part table names carry no database context, so the
			// qualifier is the container, not a schema.
			b.refCat = append(b.refCat, obj.Parts[0])
		} else {
			b.addContainers(obj)
		}

	case ObjectSchema:
		b.schemas = append(b.schemas, obj.Name())
		if len(obj.Parts) >= 2 {
			b.refCat = append(b.refCat, obj.Parts[0])
		}

	case ObjectDatabase:
		b.catalogs = append(b.catalogs, obj.Name())
	}
}

// addContainers records the catalog and schema qualifiers of a three-
// part name, or the schema of a two-part name.
func (b *defsBuilder) addContainers(obj *ObjectName) {
	switch len(obj.Parts) {
	case 2:
		b.refSch = append(b.refSch, obj.Parts[0])
	case 3:
		b.refCat = append(b.refCat, obj.Parts[0])
		b.refSch = append(b.refSch, obj.Parts[1])
	}
}

// attachCatalogName derives the logical catalog name an ATTACH mounts.
// An explicit alias wins; otherwise a path-style target keeps its
// prefix before the first dot, and a remote-address target keeps the
// suffix after the last colon.
func attachCatalogName(s *AttachStmt) string {
	if s.Alias != "" {
		return s.Alias
	}
	target := s.Target
	if i := strings.Index(target, "."); i >= 0 {
		return target[:i]
	}
	if i := strings.LastIndex(target, ":"); i >= 0 {
		return target[i+1:]
	}
	return target
}

// finish deduplicates each list and scrubs the dialect's implicit
// defaults from the referenced containers.
func (b *defsBuilder) finish() *Definitions {
	return &Definitions{
		Tables:             dedupe(b.tables, ""),
		Views:              dedupe(b.views, ""),
		Schemas:            dedupe(b.schemas, ""),
		Catalogs:           dedupe(b.catalogs, ""),
		ReferencedSchemas:  dedupe(b.refSch, b.dialect.DefaultSchema),
		ReferencedCatalogs: dedupe(b.refCat, b.dialect.DefaultCatalog),
	}
}

// dedupe removes duplicates preserving first-occurrence order, and
// drops the given implicit name when set.
func dedupe(names []string, implicit string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, name := range names {
		if implicit != "" && strings.EqualFold(name, implicit) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
