package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// reservedIDs cannot be used as component ids since the id becomes a C++
// variable name in the generated code.
var reservedIDs = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "asm": true, "auto": true,
	"bool": true, "break": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "constexpr": true, "continue": true,
	"decltype": true, "default": true, "delete": true, "do": true,
	"double": true, "else": true, "enum": true, "explicit": true,
	"export": true, "extern": true, "false": true, "float": true, "for": true,
	"friend": true, "goto": true, "if": true, "inline": true, "int": true,
	"long": true, "mutable": true, "namespace": true, "new": true,
	"noexcept": true, "not": true, "nullptr": true, "operator": true,
	"or": true, "private": true, "protected": true, "public": true,
	"register": true, "return": true, "short": true, "signed": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"template": true, "this": true, "throw": true, "true": true, "try": true,
	"typedef": true, "typename": true, "union": true, "unsigned": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true, "xor": true,
	// host runtime globals
	"App": true, "esphome": true, "setup": true, "loop": true,
}

// Validate checks raw against the option registry and returns the fully
// populated configuration. Either every option validates or no config is
// returned; all problems are reported together.
func Validate(raw map[string]any) (*ProxyConfig, error) {
	v := &validator{raw: raw}
	cfg := &ProxyConfig{
		ID:         v.id(KeyID),
		Server:     v.str(KeyServer, false),
		Username:   v.str(KeyUsername, true),
		Password:   v.str(KeyPassword, true),
		SharedPath: v.str(KeySharedPath, false),
		LocalPort:  v.port(KeyLocalPort, DefaultLocalPort),
	}
	v.extraKeys()

	if len(v.errs) > 0 {
		return nil, errors.Join(v.errs...)
	}
	return cfg, nil
}

type validator struct {
	raw  map[string]any
	errs []error
}

func (v *validator) fail(err error) {
	v.errs = append(v.errs, err)
}

func (v *validator) invalid(key, format string, args ...any) {
	v.fail(&InvalidValueError{Key: key, Constraint: fmt.Sprintf(format, args...)})
}

func (v *validator) required(key string) (any, bool) {
	value, ok := v.raw[key]
	if !ok {
		v.fail(&MissingOptionError{Key: key})
	}
	return value, ok
}

func (v *validator) str(key string, allowEmpty bool) string {
	value, ok := v.required(key)
	if !ok {
		return ""
	}
	s, err := coerceString(value)
	if err != nil {
		v.invalid(key, "%v", err)
		return ""
	}
	if !allowEmpty && s == "" {
		v.invalid(key, "string must not be empty")
		return ""
	}
	return s
}

func (v *validator) id(key string) string {
	value, ok := v.required(key)
	if !ok {
		return ""
	}
	s, isString := value.(string)
	if !isString {
		v.invalid(key, "id must be a string, got %s", typeName(value))
		return ""
	}
	if err := checkIdentifier(s); err != nil {
		v.invalid(key, "%v", err)
		return ""
	}
	return s
}

func (v *validator) port(key string, def int) int {
	value, ok := v.raw[key]
	if !ok {
		return def
	}
	n, err := coerceInt(value)
	if err != nil {
		v.invalid(key, "%v", err)
		return def
	}
	if n < MinPort || n > MaxPort {
		v.invalid(key, "port must be in range %d-%d, got %d", MinPort, MaxPort, n)
		return def
	}
	return int(n)
}

func (v *validator) extraKeys() {
	var extra []string
	for key := range v.raw {
		if _, known := LookupOption(key); !known {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		v.invalid(key, "extra keys not allowed")
	}
}

// coerceString accepts strings and numbers. Floats keep their fractional
// part (9000.0 stays "9000.0").
func coerceString(value any) (string, error) {
	switch s := value.(type) {
	case string:
		return s, nil
	case bool:
		return "", fmt.Errorf("expected a string, got boolean (wrap the value in quotes)")
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case uint64:
		return strconv.FormatUint(s, 10), nil
	case float64:
		return formatFloat(s), nil
	case nil:
		return "", fmt.Errorf("expected a string, got null")
	default:
		return "", fmt.Errorf("expected a string, got %s", typeName(value))
	}
}

// formatFloat renders f in shortest round-trip form with at least one
// fractional digit, switching to exponent notation below 1e-4 and from 1e16.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if _, e, ok := strings.Cut(sci, "e"); ok && f != 0 {
		if exp, err := strconv.Atoi(e); err == nil && (exp < -4 || exp >= 16) {
			return sci
		}
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// coerceInt accepts integers, integral floats and decimal or 0x-prefixed
// hexadecimal strings.
func coerceInt(value any) (int64, error) {
	switch n := value.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d out of range", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int64(n), nil
	case string:
		digits, base := strings.ToLower(strings.TrimSpace(n)), 10
		if rest, ok := strings.CutPrefix(digits, "0x"); ok {
			digits, base = rest, 16
		}
		i, err := strconv.ParseInt(digits, base, 64)
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %s", typeName(value))
	}
}

func checkIdentifier(s string) error {
	if s == "" {
		return fmt.Errorf("id must not be empty")
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return fmt.Errorf("id %q must not start with a digit", s)
			}
		default:
			return fmt.Errorf("id %q contains invalid character %q (allowed: a-z, A-Z, 0-9, _)", s, r)
		}
	}
	if reservedIDs[s] {
		return fmt.Errorf("id %q is a reserved word", s)
	}
	return nil
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int64, uint64, float64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", value)
	}
}
