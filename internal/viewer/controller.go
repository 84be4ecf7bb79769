// Package viewer turns user events into catalog queries and hands the result
// to a Renderer. It holds no rendering logic of its own.
package viewer

import (
	"drugdex/m/domain"
	"drugdex/m/internal/catalog"
	"drugdex/m/internal/favorites"
)

const (
	emptyFavorites = "no favorites yet"
	emptyResults   = "no matching drugs"
)

// EmptyMessage is shown when a listing comes back empty.
func EmptyMessage(mode catalog.Mode) string {
	if mode == catalog.ModeFavorites {
		return emptyFavorites
	}
	return emptyResults
}

// Card is one listed record with its favorite flag.
type Card struct {
	Drug     domain.Drug `json:"drug"`
	Favorite bool        `json:"favorite"`
}

// Detail is the expanded view of a selected record.
type Detail struct {
	Drug           domain.Drug          `json:"drug"`
	Favorite       bool                 `json:"favorite"`
	PregnancyLabel string               `json:"pregnancy_label"`
	PregnancyRisk  domain.PregnancyRisk `json:"pregnancy_risk"`
}

// NewDetail builds the detail view for d.
func NewDetail(d domain.Drug, favs *favorites.Set) Detail {
	return Detail{
		Drug:           d,
		Favorite:       favs.Contains(d.ID),
		PregnancyLabel: d.PregnancyLabel(),
		PregnancyRisk:  d.PregnancyRisk(),
	}
}

// View is everything a renderer needs to draw the page.
type View struct {
	Cards    []Card  `json:"cards"`
	Empty    string  `json:"empty,omitempty"`
	Selected *Detail `json:"selected,omitempty"`
}

// Renderer draws a View.
type Renderer interface {
	Render(View)
}

// Controller owns the current query and selection for one viewer session.
type Controller struct {
	store    *catalog.Store
	favs     *favorites.Set
	renderer Renderer
	query    catalog.Query
	selected domain.RecordID
}

// NewController returns a controller with an unfiltered viewer query.
func NewController(store *catalog.Store, favs *favorites.Set, r Renderer) *Controller {
	return &Controller{
		store:    store,
		favs:     favs,
		renderer: r,
		query: catalog.Query{
			Category:  catalog.CategoryAll,
			Mode:      catalog.ModeAll,
			Scope:     catalog.ScopeViewer,
			Favorites: favs,
		},
	}
}

// Query returns the current predicates.
func (c *Controller) Query() catalog.Query { return c.query }

// Refresh re-renders without changing state.
func (c *Controller) Refresh() { c.renderer.Render(c.View()) }

// OnSearchChanged sets the search term.
func (c *Controller) OnSearchChanged(text string) {
	c.query.Search = text
	c.Refresh()
}

// OnCategorySelected sets the category filter.
func (c *Controller) OnCategorySelected(category string) {
	c.query.Category = category
	c.Refresh()
}

// OnModeSelected switches between all drugs and favorites.
func (c *Controller) OnModeSelected(mode catalog.Mode) {
	c.query.Mode = mode
	c.Refresh()
}

// OnRecordSelected opens the detail for id. An unknown id clears the selection.
func (c *Controller) OnRecordSelected(id domain.RecordID) {
	if _, ok := c.store.Get(id); !ok {
		id = domain.NewID
	}
	c.selected = id
	c.Refresh()
}

// OnSelectionCleared closes the detail view.
func (c *Controller) OnSelectionCleared() {
	c.selected = domain.NewID
	c.Refresh()
}

// OnFavoriteToggled flips id in the favorites set. The caller persists the set.
func (c *Controller) OnFavoriteToggled(id domain.RecordID) bool {
	fav := c.favs.Toggle(id)
	c.Refresh()
	return fav
}

// View computes the current view.
func (c *Controller) View() View {
	drugs := catalog.Filter(c.store.List(), c.query)
	v := View{Cards: make([]Card, 0, len(drugs))}
	for _, d := range drugs {
		v.Cards = append(v.Cards, Card{Drug: d, Favorite: c.favs.Contains(d.ID)})
	}
	if len(v.Cards) == 0 {
		v.Empty = EmptyMessage(c.query.Mode)
	}
	if !c.selected.IsNew() {
		if d, ok := c.store.Get(c.selected); ok {
			detail := NewDetail(d, c.favs)
			v.Selected = &detail
		}
	}
	return v
}
