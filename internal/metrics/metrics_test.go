package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Mutation("create", 3)
	m.FavoriteToggled()
	m.Exported("json")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`drugdex_catalog_mutations_total{op="create"} 1`,
		`drugdex_favorite_toggles_total 1`,
		`drugdex_exports_total{format="json"} 1`,
		`drugdex_catalog_records 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in metrics output", want)
		}
	}
}
