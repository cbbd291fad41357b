package lesson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SubPoint is a numbered point inside a content section.
type SubPoint struct {
	SubNumber string       `json:"sub_number"`
	Text      SubPointText `json:"text"`
}

// SubPointText is the text of a sub-point. It is always one of PlainText
// or SectionText.
type SubPointText interface {
	subPointText()
}

// PlainText is sub-point text given as a bare string.
type PlainText string

// SectionText is sub-point text given as a nested content section.
type SectionText ContentSection

func (PlainText) subPointText()   {}
func (SectionText) subPointText() {}

// UnmarshalJSON decodes text as a string or as a nested section object.
func (s *SubPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		SubNumber string          `json:"sub_number"`
		Text      json.RawMessage `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	text, err := decodeSubPointText(raw.Text)
	if err != nil {
		return fmt.Errorf("sub-point %q: %w", raw.SubNumber, err)
	}
	s.SubNumber = raw.SubNumber
	s.Text = text
	return nil
}

func decodeSubPointText(raw json.RawMessage) (SubPointText, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("text is missing")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return PlainText(s), nil
	case '{':
		var section ContentSection
		if err := json.Unmarshal(trimmed, &section); err != nil {
			return nil, err
		}
		return SectionText(section), nil
	default:
		return nil, fmt.Errorf("text must be a string or a section object")
	}
}
