package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexList is a row field that accepts either a delimited string or an
// array of strings at the JSON boundary. Splitting happens later, when the
// field's delimiter is known (comma for most fields, pipe for learning
// outcomes).
type FlexList struct {
	raw    string
	items  []string
	isList bool
	set    bool
}

// FlexFromString wraps a raw delimited string (used by the CSV reader).
func FlexFromString(s string) FlexList {
	return FlexList{raw: s, set: true}
}

// FlexFromList wraps an explicit list of values.
func FlexFromList(items []string) FlexList {
	return FlexList{items: items, isList: true, set: true}
}

// UnmarshalJSON accepts a string, an array of strings, or null.
func (f *FlexList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexFromString(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*f = FlexFromList(items)
		return nil
	}

	return fmt.Errorf("expected string or array of strings, got %s", string(data))
}

// IsEmpty reports whether the field is missing for validation purposes:
// unset, a blank string, or a zero-length array. An array of blank strings
// counts as present even though it parses to no values.
func (f *FlexList) IsEmpty() bool {
	if !f.set {
		return true
	}
	if f.isList {
		return len(f.items) == 0
	}
	return strings.TrimSpace(f.raw) == ""
}

// Values parses the field into its elements: array elements are used
// directly, strings are split on the delimiter. Each element is trimmed and
// empty elements are dropped.
func (f *FlexList) Values(delimiter string) []string {
	if !f.set {
		return nil
	}

	var parts []string
	if f.isList {
		parts = f.items
	} else {
		parts = strings.Split(f.raw, delimiter)
	}

	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// FlexBool is a row field that accepts a boolean or a string token.
// Only boolean true and the exact strings "true" and "Yes" are truthy;
// everything else (including "YES", "1", and numeric 1) is falsy. The
// narrow literal set is deliberate and matches the documented import
// contract, even though it looks like a general boolean parser was meant.
type FlexBool struct {
	boolVal  bool
	strVal   string
	isBool   bool
	isString bool
}

// UnmarshalJSON accepts a boolean, a string, or any other JSON value
// (which is falsy).
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool{boolVal: b, isBool: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexBool{strVal: s, isString: true}
		return nil
	}

	// Numbers and other shapes are falsy, not errors
	return nil
}

// True reports whether the field matches the truthy set.
func (f *FlexBool) True() bool {
	if f.isBool {
		return f.boolVal
	}
	if f.isString {
		return f.strVal == "true" || f.strVal == "Yes"
	}
	return false
}

// FlexNumber is a row field that accepts a JSON number or a numeric string.
type FlexNumber struct {
	raw      string
	num      float64
	isNumber bool
	set      bool
}

// FlexNumberFromString wraps a raw string (used by the CSV reader).
// Blank strings leave the field unset.
func FlexNumberFromString(s string) FlexNumber {
	if strings.TrimSpace(s) == "" {
		return FlexNumber{}
	}
	return FlexNumber{raw: s, set: true}
}

// UnmarshalJSON accepts a number, a string, or null.
func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexNumber{num: n, isNumber: true, set: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexNumberFromString(s)
		return nil
	}

	return fmt.Errorf("expected number or string, got %s", string(data))
}

// IsSet reports whether a value was supplied.
func (f *FlexNumber) IsSet() bool {
	return f.set
}

// Value coerces the field to a float, reporting failure for non-numeric
// strings.
func (f *FlexNumber) Value() (float64, bool) {
	if !f.set {
		return 0, false
	}
	if f.isNumber {
		return f.num, true
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns the original representation for error messages.
func (f *FlexNumber) String() string {
	if f.isNumber {
		return strconv.FormatFloat(f.num, 'f', -1, 64)
	}
	return f.raw
}
