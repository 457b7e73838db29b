package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field names accepted in a required field set.
const (
	FieldCapital    = "capital"
	FieldPopulation = "population"
	FieldArea       = "area"
	FieldLanguages  = "languages"
	FieldHistory    = "history"
	FieldCulture    = "culture"
	FieldMainImage  = "mainImage"
	FieldHighlights = "highlights"
)

// DefaultRequiredFields is the minimum bar for a usable record.
var DefaultRequiredFields = []string{FieldCapital, FieldHistory, FieldCulture}

var knownFields = map[string]bool{
	FieldCapital:    true,
	FieldPopulation: true,
	FieldArea:       true,
	FieldLanguages:  true,
	FieldHistory:    true,
	FieldCulture:    true,
	FieldMainImage:  true,
	FieldHighlights: true,
}

// Validator checks a parsed object against a configured required field set
// and converts it into a RegionRecord.
type Validator struct {
	required []string
}

// NewValidator builds a Validator. An empty field list selects DefaultRequiredFields.
func NewValidator(required []string) (*Validator, error) {
	if len(required) == 0 {
		required = DefaultRequiredFields
	}
	fields := make([]string, 0, len(required))
	for _, f := range required {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !knownFields[f] {
			return nil, fmt.Errorf("unknown required field %q", f)
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("required field set is empty")
	}
	return &Validator{required: fields}, nil
}

// RequiredFields returns a copy of the configured field set.
func (v *Validator) RequiredFields() []string {
	return append([]string(nil), v.required...)
}

// Validate rejects obj with ErrValidation when a required field is absent or
// empty. Fields outside the required set are passed through as-is.
func (v *Validator) Validate(obj ParsedObject) (RegionRecord, error) {
	var missing []string
	for _, f := range v.required {
		if !present(obj, f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return RegionRecord{}, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	return RegionRecord{
		Capital:    text(obj[FieldCapital]),
		Population: text(obj[FieldPopulation]),
		Area:       text(obj[FieldArea]),
		Languages:  text(obj[FieldLanguages]),
		History:    text(obj[FieldHistory]),
		Culture:    text(obj[FieldCulture]),
		MainImage:  text(obj[FieldMainImage]),
		Highlights: highlights(obj[FieldHighlights]),
	}, nil
}

func present(obj ParsedObject, field string) bool {
	if field == FieldHighlights {
		list, ok := obj[field].([]any)
		return ok && len(list) > 0
	}
	s, ok := obj[field].(string)
	return ok && s != ""
}

// text renders a loosely typed JSON value as display text. Models sometimes
// emit population or area as bare numbers.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func highlights(v any) []Highlight {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Highlight, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Highlight{Name: text(m["name"]), Image: text(m["image"])})
	}
	return out
}
