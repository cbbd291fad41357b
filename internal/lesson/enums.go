package lesson

import (
	"encoding/json"
	"fmt"
)

// ClassLevel is a grade band. The set is closed.
type ClassLevel string

const (
	Primary1 ClassLevel = "PRIMARY_1"
	Primary2 ClassLevel = "PRIMARY_2"
	Primary3 ClassLevel = "PRIMARY_3"
	Primary4 ClassLevel = "PRIMARY_4"
	Primary5 ClassLevel = "PRIMARY_5"
	JSS1     ClassLevel = "JSS_1"
	JSS2     ClassLevel = "JSS_2"
	JSS3     ClassLevel = "JSS_3"
)

// ClassLevels lists every class level in order.
var ClassLevels = []ClassLevel{Primary1, Primary2, Primary3, Primary4, Primary5, JSS1, JSS2, JSS3}

// ParseClassLevel parses a wire value such as "PRIMARY_3".
func ParseClassLevel(s string) (ClassLevel, error) {
	for _, c := range ClassLevels {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown class level %q", s)
}

// Valid reports whether c is one of ClassLevels.
func (c ClassLevel) Valid() bool {
	_, err := ParseClassLevel(string(c))
	return err == nil
}

func (c *ClassLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("class level: %w", err)
	}
	parsed, err := ParseClassLevel(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Term is a school term. The set is closed.
type Term string

const (
	First  Term = "FIRST"
	Second Term = "SECOND"
	Third  Term = "THIRD"
)

// Terms lists every term in order.
var Terms = []Term{First, Second, Third}

// ParseTerm parses a wire value such as "SECOND".
func ParseTerm(s string) (Term, error) {
	for _, t := range Terms {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown term %q", s)
}

// Valid reports whether t is one of Terms.
func (t Term) Valid() bool {
	_, err := ParseTerm(string(t))
	return err == nil
}

func (t *Term) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("term: %w", err)
	}
	parsed, err := ParseTerm(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
