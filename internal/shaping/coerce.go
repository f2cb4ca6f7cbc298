package shaping

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// intValue reads a number or a numeric string (optionally suffixed with %) and rounds it.
func intValue(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		return int(math.Round(r.Num)), true
	case gjson.String:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(r.Str), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}

// boolValue accepts true/false and their string forms.
func boolValue(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.String:
		b, _ := strconv.ParseBool(strings.TrimSpace(r.Str))
		return b
	default:
		return false
	}
}

// stringValue returns a trimmed scalar; objects and arrays yield "".
func stringValue(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number:
		return strings.TrimSpace(r.String())
	default:
		return ""
	}
}

// stringList accepts an array of scalars or a single string and never returns nil.
// Empty entries are dropped.
func stringList(r gjson.Result) []string {
	out := []string{}
	if r.IsArray() {
		for _, item := range r.Array() {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := stringValue(r); s != "" {
		out = append(out, s)
	}
	return out
}

// firstOf returns the first existing path in doc.
func firstOf(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}
