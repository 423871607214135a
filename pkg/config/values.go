package config

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Values maps fully-qualified config keys (<module>.<property>) to their stored value.
type Values map[string]interface{}

func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bool reads <namespace>.<property> as a flag, see ParseBool.
func (v Values) Bool(namespace, property string, def bool) bool {
	return ParseBool(v[namespace+"."+property], def)
}

// String reads <namespace>.<property>, falling back to def when absent or blank.
func (v Values) String(namespace, property string, def string) string {
	raw, ok := v[namespace+"."+property]
	if !ok || raw == nil {
		return def
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return def
	}
	return s
}

// Int reads <namespace>.<property> as an integer, falling back to def when it is absent
// or not a whole number.
func (v Values) Int(namespace, property string, def int) int {
	switch raw := v[namespace+"."+property].(type) {
	case float64:
		if raw == math.Trunc(raw) {
			return int(raw)
		}
	case int:
		return raw
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return n
		}
	}
	return def
}

// ParseBool interprets a stored flag value. It never fails: absent, blank and unparseable
// values all resolve to def.
//
//   - nil or "" -> def
//   - bool -> itself
//   - "true" / "false", any case, surrounding space ignored
//   - anything else is decoded as JSON and coerced the way JavaScript's Boolean() does
//     (0, null and "" are false, other numbers, strings, objects and arrays are true)
func ParseBool(raw interface{}, def bool) bool {
	switch v := raw.(type) {
	case nil:
		return def
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case int64:
		return v != 0
	case string:
		return parseBoolString(v, def)
	case *string:
		if v == nil {
			return def
		}
		return parseBoolString(*v, def)
	}
	return def
}

func parseBoolString(s string, def bool) bool {
	if s == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true
	case "false":
		return false
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return def
	}
	return truthy(decoded)
}

func truthy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	// objects and arrays
	return true
}
