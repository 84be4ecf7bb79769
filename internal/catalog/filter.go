package catalog

import (
	"strings"

	"drugdex/m/domain"
)

// Mode selects between the full listing and the favorites tab.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeFavorites Mode = "fav"
)

// CategoryAll disables the category predicate.
const CategoryAll = "all"

// Scope picks which fields the text search looks at.
type Scope int

const (
	// ScopeViewer searches names, NHI code and indication.
	ScopeViewer Scope = iota
	// ScopeEditor searches the generic name and the Chinese brand name.
	ScopeEditor
)

// Membership is satisfied by the favorites set.
type Membership interface {
	Contains(id domain.RecordID) bool
}

// Query is the set of predicates a listing is filtered by. The zero value
// matches every record.
type Query struct {
	Search    string
	Category  string
	Mode      Mode
	Scope     Scope
	Favorites Membership
}

// Filter returns the records matching every predicate in q, in input order.
// The input slice is not modified.
func Filter(drugs []domain.Drug, q Query) []domain.Drug {
	out := make([]domain.Drug, 0, len(drugs))
	for _, d := range drugs {
		if q.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// Matches reports whether a single record passes the query.
func (q Query) Matches(d domain.Drug) bool {
	return q.matchSearch(d) && q.matchCategory(d) && q.matchFavorite(d)
}

func (q Query) matchSearch(d domain.Drug) bool {
	if q.Search == "" {
		return true
	}
	folded := strings.ToLower(q.Search)
	contains := func(field string) bool {
		return field != "" && strings.Contains(strings.ToLower(field), folded)
	}
	// Chinese brand names are matched as typed.
	if d.BrandNameZH != "" && strings.Contains(d.BrandNameZH, q.Search) {
		return true
	}
	if contains(d.GenericName) {
		return true
	}
	if q.Scope == ScopeEditor {
		return false
	}
	return contains(d.BrandNameEN) || contains(d.NHICode) || contains(d.Indication)
}

func (q Query) matchCategory(d domain.Drug) bool {
	if q.Category == "" || q.Category == CategoryAll {
		return true
	}
	return strings.Contains(d.Category, q.Category)
}

func (q Query) matchFavorite(d domain.Drug) bool {
	if q.Mode != ModeFavorites {
		return true
	}
	return q.Favorites != nil && q.Favorites.Contains(d.ID)
}

// ParseMode maps a request value to a Mode, defaulting to ModeAll.
func ParseMode(raw string) Mode {
	if Mode(strings.TrimSpace(raw)) == ModeFavorites {
		return ModeFavorites
	}
	return ModeAll
}
