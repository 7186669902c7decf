package ledger

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number accepts a JSON number or a numeric string ("10", "10.5").
// Weight and charge fields arrive both ways from the client forms.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n *Number) Float() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

// OutPayload: required fields of a material-given entry.
type OutPayload struct {
	KaragirName string  `json:"karagirName" validate:"required"`
	MetalType   string  `json:"metalType" validate:"required,oneof=gold silver others"`
	GramsGiven  *Number `json:"gramsGiven" validate:"required,gte=0"`
	PurityGiven string  `json:"purityGiven" validate:"required"`
}

// InPayload: required fields of a material-returned entry. The
// metal-specific identity field (huidNo vs karatCarat) is validated in
// the engine because the rule depends on metalType and on the item store.
type InPayload struct {
	KaragirName    string  `json:"karagirName" validate:"required"`
	MetalType      string  `json:"metalType" validate:"required,oneof=gold silver others"`
	JewelleryName  string  `json:"jewelleryName" validate:"required"`
	Subtype        string  `json:"subtype" validate:"required"`
	HUIDNo         string  `json:"huidNo" validate:"omitempty,alphanum,len=6"`
	KaratCarat     string  `json:"karatCarat"`
	GrossWeight    *Number `json:"grossWeight" validate:"required,gte=0"`
	NetWeight      *Number `json:"netWeight" validate:"required,gte=0"`
	PurityReceived string  `json:"purityReceived" validate:"required"`
	LabourCharge   *Number `json:"labourCharge" validate:"required,gte=0"`
	Balance        string  `json:"balance"`
}

// OutPatch: the fields an out entry accepts on update. Anything else in
// the request body (in-only fields, status, immutable fields) is simply
// not bound and therefore silently dropped.
type OutPatch struct {
	KaragirName *string `json:"karagirName"`
	MetalType   *string `json:"metalType" validate:"omitempty,oneof=gold silver others"`
	GramsGiven  *Number `json:"gramsGiven" validate:"omitempty,gte=0"`
	PurityGiven *string `json:"purityGiven"`
}

// InPatch: the fields an in entry accepts on update. linkedItemId and
// completesOutEntry are engine-owned and not bound here.
type InPatch struct {
	KaragirName    *string `json:"karagirName"`
	MetalType      *string `json:"metalType" validate:"omitempty,oneof=gold silver others"`
	JewelleryName  *string `json:"jewelleryName"`
	Subtype        *string `json:"subtype"`
	HUIDNo         *string `json:"huidNo"`
	KaratCarat     *string `json:"karatCarat"`
	GrossWeight    *Number `json:"grossWeight" validate:"omitempty,gte=0"`
	NetWeight      *Number `json:"netWeight" validate:"omitempty,gte=0"`
	PurityReceived *string `json:"purityReceived"`
	LabourCharge   *Number `json:"labourCharge" validate:"omitempty,gte=0"`
	Balance        *string `json:"balance"`
}
