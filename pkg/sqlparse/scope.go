package sqlparse

import "strings"

// Scope tracks the CTE names visible at a point in the query. A bare
// table reference that matches a visible CTE name is not an external
// dependency and is skipped during collection.
type Scope struct {
	parent *Scope
	ctes   map[string]struct{} // normalized to lowercase
}

// NewScope creates a new root scope.
func NewScope() *Scope {
	return &Scope{ctes: make(map[string]struct{})}
}

// Child creates a child scope for nested queries. CTEs declared in the
// parent remain visible through the chain.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, ctes: make(map[string]struct{})}
}

// RegisterCTE makes a CTE name visible in this scope.
func (s *Scope) RegisterCTE(name string) {
	s.ctes[strings.ToLower(name)] = struct{}{}
}

// IsCTE reports whether name matches a CTE visible in this scope or
// any ancestor.
func (s *Scope) IsCTE(name string) bool {
	normalized := strings.ToLower(name)
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.ctes[normalized]; ok {
			return true
		}
	}
	return false
}
