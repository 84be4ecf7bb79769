package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordIDUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want RecordID
	}{
		{`7`, 7},
		{`"12"`, 12},
		{`"new"`, NewID},
		{`null`, NewID},
	}
	for _, tc := range cases {
		var id RecordID
		if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if id != tc.want {
			t.Fatalf("unmarshal %s: got %d want %d", tc.in, id, tc.want)
		}
	}

	var id RecordID
	if err := json.Unmarshal([]byte(`"abc"`), &id); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	if err := json.Unmarshal([]byte(`1.5`), &id); err == nil {
		t.Fatalf("expected error for fractional id")
	}
}

func TestRecordIDString(t *testing.T) {
	if NewID.String() != "new" {
		t.Fatalf("sentinel should print as new, got %q", NewID.String())
	}
	if RecordID(42).String() != "42" {
		t.Fatalf("unexpected string %q", RecordID(42).String())
	}
}

func TestDrugJSONFieldOrder(t *testing.T) {
	d := Drug{ID: 1, GenericName: "Aspirin", Category: "NSAID"}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	last := -1
	for _, f := range Fields {
		idx := strings.Index(s, `"`+f+`"`)
		if idx < 0 {
			t.Fatalf("field %s missing from %s", f, s)
		}
		if idx < last {
			t.Fatalf("field %s out of order in %s", f, s)
		}
		last = idx
	}
	if len(d.Values()) != len(Fields) {
		t.Fatalf("values/fields length mismatch")
	}
}

func TestPregnancyRisk(t *testing.T) {
	cases := []struct {
		cat   string
		risk  PregnancyRisk
		label string
	}{
		{"a", RiskLow, "Cat. A"},
		{"B", RiskLow, "Cat. B"},
		{" c ", RiskModerate, "Cat. C"},
		{"D", RiskHigh, "Cat. D"},
		{"x", RiskHigh, "Cat. X"},
		{"", RiskUnknown, "Cat. ?"},
		{"N", RiskUnknown, "Cat. N"},
	}
	for _, tc := range cases {
		d := Drug{PregnancyCategory: tc.cat}
		if got := d.PregnancyRisk(); got != tc.risk {
			t.Errorf("%q: risk %s want %s", tc.cat, got, tc.risk)
		}
		if got := d.PregnancyLabel(); got != tc.label {
			t.Errorf("%q: label %s want %s", tc.cat, got, tc.label)
		}
	}
}
