package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RecordID identifies a drug record. NewID marks a record that has not been
// assigned an id by the catalog yet.
type RecordID int64

const NewID RecordID = 0

const newIDLiteral = "new"

// IsNew reports whether the id is the unsaved sentinel.
func (id RecordID) IsNew() bool { return id == NewID }

func (id RecordID) String() string {
	if id.IsNew() {
		return newIDLiteral
	}
	return strconv.FormatInt(int64(id), 10)
}

// ParseRecordID accepts "new" or a decimal integer.
func ParseRecordID(raw string) (RecordID, error) {
	raw = strings.TrimSpace(raw)
	if raw == newIDLiteral {
		return NewID, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", raw)
	}
	return RecordID(n), nil
}

// UnmarshalJSON accepts numbers, numeric strings and the "new" sentinel,
// since the editor form posts its hidden id field as a string.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseRecordID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = NewID
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid record id %s", data)
	}
	*id = RecordID(n)
	return nil
}

// Drug is one catalog entry. Field order matches the exported JSON layout.
type Drug struct {
	ID                RecordID `db:"id" json:"id"`
	GenericName       string   `db:"generic_name" json:"generic_name"`
	BrandNameEN       string   `db:"brand_name_en" json:"brand_name_en"`
	BrandNameZH       string   `db:"brand_name_zh" json:"brand_name_zh"`
	ATCCode           string   `db:"atc_code" json:"atc_code"`
	NHICode           string   `db:"nhi_code" json:"nhi_code"`
	Category          string   `db:"category" json:"category"`
	PregnancyCategory string   `db:"pregnancy_category" json:"pregnancy_category"`
	Mechanism         string   `db:"mechanism" json:"mechanism"`
	Indication        string   `db:"indication" json:"indication"`
	SideEffect        string   `db:"side_effect" json:"side_effect"`
	Precautions       string   `db:"precautions" json:"precautions"`
}

// Fields lists the exported JSON keys in order, id first.
var Fields = []string{
	"id", "generic_name", "brand_name_en", "brand_name_zh",
	"atc_code", "nhi_code", "category", "pregnancy_category",
	"mechanism", "indication", "side_effect", "precautions",
}

// Values returns the record's fields in the same order as Fields.
func (d Drug) Values() []string {
	return []string{
		d.ID.String(), d.GenericName, d.BrandNameEN, d.BrandNameZH,
		d.ATCCode, d.NHICode, d.Category, d.PregnancyCategory,
		d.Mechanism, d.Indication, d.SideEffect, d.Precautions,
	}
}

// PregnancyRisk groups pregnancy categories into display tiers.
type PregnancyRisk string

const (
	RiskLow      PregnancyRisk = "low"
	RiskModerate PregnancyRisk = "moderate"
	RiskHigh     PregnancyRisk = "high"
	RiskUnknown  PregnancyRisk = "unknown"
)

func (d Drug) pregnancyLetter() string {
	letter := strings.ToUpper(strings.TrimSpace(d.PregnancyCategory))
	if letter == "" {
		return "?"
	}
	return letter
}

// PregnancyRisk maps A/B to low, C to moderate and D/X to high.
func (d Drug) PregnancyRisk() PregnancyRisk {
	switch d.pregnancyLetter() {
	case "A", "B":
		return RiskLow
	case "C":
		return RiskModerate
	case "D", "X":
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// PregnancyLabel renders the badge text, e.g. "Cat. C".
func (d Drug) PregnancyLabel() string {
	return "Cat. " + d.pregnancyLetter()
}
