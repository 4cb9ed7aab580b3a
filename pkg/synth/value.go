package synth

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// ValueKind tags which variant a Value holds.
type ValueKind uint8

const (
	NumericValue ValueKind = iota
	TextValue
)

func (k ValueKind) String() string {
	switch k {
	case NumericValue:
		return "numeric"
	case TextValue:
		return "text"
	}

	return "unknown"
}

// Value is a single synthetic cell. It is either a whole number or a piece
// of text, never both. Generalization turns numeric values into text.
type Value struct {
	kind ValueKind
	num  int64
	text string
}

func Number(n int64) Value {
	return Value{kind: NumericValue, num: n}
}

func Text(s string) Value {
	return Value{kind: TextValue, text: s}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNumeric() bool {
	return v.kind == NumericValue
}

// Int returns the numeric payload and whether the value was numeric.
func (v Value) Int() (int64, bool) {
	if v.kind != NumericValue {
		return 0, false
	}

	return v.num, true
}

// String renders the value the way it appears in CSV output.
func (v Value) String() string {
	if v.kind == NumericValue {
		return strconv.FormatInt(v.num, 10)
	}

	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == NumericValue {
		return []byte(strconv.FormatInt(v.num, 10)), nil
	}

	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*v = Text(s)

		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("synthetic value must be a string or an integer, got %s", data)
	}

	*v = Number(n)

	return nil
}
