package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParsedObject is a JSON object recovered from model output, before validation.
type ParsedObject map[string]any

// ExtractObject parses the span from the first '{' to the last '}' in text.
// It returns ErrExtraction when there is no such span and ErrParse when the
// span is not valid JSON.
func ExtractObject(text string) (ParsedObject, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %.80q", ErrExtraction, text)
	}

	var obj ParsedObject
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return obj, nil
}
