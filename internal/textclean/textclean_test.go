package textclean

import (
	"testing"

	"drugdex/m/domain"
)

func TestHasMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Aspirin", false},
		{"Reduce dose if CrCl<normal range", false},
		{"AT&amp;T < 3 & x", false},
		{"a &amp; b", false},
		{"eGFR <30 mL/min", false},
		{"<b>Aspirin</b>", true},
		{"Take with food<script>alert(1)</script>", true},
		{"<p>GI upset</p>", true},
		{"line<br>break", true},
		{"<title>x</title>", true},
	}
	for _, tc := range cases {
		if got := HasMarkup(tc.in); got != tc.want {
			t.Errorf("HasMarkup(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMarkupField(t *testing.T) {
	clean := domain.Drug{ID: 4, GenericName: "Ibuprofen", Precautions: "Avoid if CrCl<normal range"}
	if field, found := MarkupField(clean); found {
		t.Fatalf("clinical text flagged as markup in %s", field)
	}

	dirty := domain.Drug{ID: 4, GenericName: "Ibuprofen", SideEffect: "<b>GI</b> upset"}
	field, found := MarkupField(dirty)
	if !found || field != "side_effect" {
		t.Fatalf("expected side_effect, got %q %v", field, found)
	}
}
