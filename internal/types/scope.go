package types

import "strings"

// ScopeMatches reports whether an entry with entryScope applies to a
// request for requestScope. An empty request scope matches everything; an
// empty entry scope is global and matches any request. Entry scopes ending
// in "*" match any request under their prefix; otherwise the entry scope
// must be a path prefix of the request scope.
func ScopeMatches(entryScope, requestScope string) bool {
	if requestScope == "" || entryScope == "" {
		return true
	}
	if prefix, ok := strings.CutSuffix(entryScope, "*"); ok {
		return strings.HasPrefix(requestScope, prefix)
	}
	return strings.HasPrefix(requestScope, entryScope)
}

// ScopeSpecificity scores how precisely entryScope targets requestScope on
// a [0,1] scale: 0 for global entries, 1 for an exact match, and the
// matched-prefix share of the request scope otherwise. Wildcard scopes
// score on their prefix, so an exact or longer literal scope always ranks
// above the wildcard that covers it.
func ScopeSpecificity(entryScope, requestScope string) float64 {
	if entryScope == "" || requestScope == "" {
		return 0
	}
	if entryScope == requestScope {
		return 1
	}

	prefix := entryScope
	if p, ok := strings.CutSuffix(entryScope, "*"); ok {
		prefix = p
	}
	if !strings.HasPrefix(requestScope, prefix) {
		return 0
	}
	return float64(len(prefix)) / float64(len(requestScope))
}
