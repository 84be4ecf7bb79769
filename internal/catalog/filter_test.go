package catalog

import (
	"reflect"
	"testing"

	"drugdex/m/domain"
)

type idSet map[domain.RecordID]bool

func (s idSet) Contains(id domain.RecordID) bool { return s[id] }

func ids(drugs []domain.Drug) []domain.RecordID {
	out := make([]domain.RecordID, 0, len(drugs))
	for _, d := range drugs {
		out = append(out, d.ID)
	}
	return out
}

func TestFilter_Scenario(t *testing.T) {
	drugs := sampleDrugs()
	if got := ids(Filter(drugs, Query{Search: "metf"})); !reflect.DeepEqual(got, []domain.RecordID{2}) {
		t.Fatalf("search metf: %v", got)
	}
	if got := ids(Filter(drugs, Query{Category: "NSAID"})); !reflect.DeepEqual(got, []domain.RecordID{1}) {
		t.Fatalf("category NSAID: %v", got)
	}
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	drugs := sampleDrugs()
	q := Query{Search: "", Category: CategoryAll, Mode: ModeAll}
	if got := Filter(drugs, q); !reflect.DeepEqual(got, drugs) {
		t.Fatalf("expected full collection, got %+v", got)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	drugs := []domain.Drug{
		{ID: 1, GenericName: "Aspirin", Category: "NSAID, Antiplatelet"},
		{ID: 2, GenericName: "Metformin", Category: "Biguanide"},
		{ID: 3, GenericName: "Naproxen", Category: "NSAID"},
	}
	q := Query{Category: "NSAID", Mode: ModeFavorites, Favorites: idSet{1: true, 2: true}}
	once := Filter(drugs, q)
	twice := Filter(once, q)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %v vs %v", ids(once), ids(twice))
	}
	if !reflect.DeepEqual(ids(once), []domain.RecordID{1}) {
		t.Fatalf("unexpected result %v", ids(once))
	}
}

func TestFilter_ViewerFields(t *testing.T) {
	drugs := []domain.Drug{
		{ID: 1, GenericName: "Amlodipine", BrandNameEN: "Norvasc", BrandNameZH: "脈優", NHICode: "AC12345100", Indication: "Hypertension"},
		{ID: 2, GenericName: "Metformin", BrandNameEN: "Glucophage", BrandNameZH: "庫魯化", Indication: "Type 2 diabetes"},
	}
	cases := []struct {
		term string
		want []domain.RecordID
	}{
		{"norv", []domain.RecordID{1}},
		{"脈", []domain.RecordID{1}},
		{"ac1234", []domain.RecordID{1}},
		{"DIABETES", []domain.RecordID{2}},
		{"zzz", []domain.RecordID{}},
	}
	for _, tc := range cases {
		got := ids(Filter(drugs, Query{Search: tc.term, Scope: ScopeViewer}))
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("search %q: got %v want %v", tc.term, got, tc.want)
		}
	}
}

func TestFilter_EditorScopeIgnoresViewerOnlyFields(t *testing.T) {
	drugs := []domain.Drug{
		{ID: 1, GenericName: "Amlodipine", BrandNameEN: "Norvasc", BrandNameZH: "脈優", Indication: "Hypertension"},
	}
	if got := Filter(drugs, Query{Search: "norv", Scope: ScopeEditor}); len(got) != 0 {
		t.Fatalf("editor search should not match english brand name")
	}
	if got := Filter(drugs, Query{Search: "AMLO", Scope: ScopeEditor}); len(got) != 1 {
		t.Fatalf("editor search should fold case on generic name")
	}
	if got := Filter(drugs, Query{Search: "脈優", Scope: ScopeEditor}); len(got) != 1 {
		t.Fatalf("editor search should match chinese brand name")
	}
}

func TestFilter_CategoryContainment(t *testing.T) {
	drugs := []domain.Drug{
		{ID: 1, Category: "NSAID, Analgesic"},
		{ID: 2, Category: "Analgesic"},
		{ID: 3, Category: ""},
	}
	got := ids(Filter(drugs, Query{Category: "Analgesic"}))
	if !reflect.DeepEqual(got, []domain.RecordID{1, 2}) {
		t.Fatalf("category containment: %v", got)
	}
}

func TestFilter_FavoritesMode(t *testing.T) {
	drugs := sampleDrugs()
	got := ids(Filter(drugs, Query{Mode: ModeFavorites, Favorites: idSet{2: true}}))
	if !reflect.DeepEqual(got, []domain.RecordID{2}) {
		t.Fatalf("favorites mode: %v", got)
	}
	if got := Filter(drugs, Query{Mode: ModeFavorites}); len(got) != 0 {
		t.Fatalf("favorites mode without a set should match nothing")
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	drugs := sampleDrugs()
	before := append([]domain.Drug(nil), drugs...)
	_ = Filter(drugs, Query{Search: "asp"})
	if !reflect.DeepEqual(drugs, before) {
		t.Fatalf("input mutated")
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("fav") != ModeFavorites {
		t.Fatalf("fav should parse")
	}
	for _, raw := range []string{"", "all", "other"} {
		if ParseMode(raw) != ModeAll {
			t.Fatalf("%q should default to all", raw)
		}
	}
}
