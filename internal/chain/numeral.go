package chain

import (
	"errors"
	"strconv"
	"strings"
)

var errEmptyNumeral = errors.New("empty numeral")

// NormalizeNumeral strips digit-group separators from a human-readable
// numeral: "1,000" -> "1000".
func NormalizeNumeral(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, ",_") {
		return s
	}
	return strings.NewReplacer(",", "", "_", "").Replace(s)
}

// ParseNumeral parses a possibly comma-grouped unsigned integer.
func ParseNumeral(s string) (uint64, error) {
	n := NormalizeNumeral(s)
	if n == "" {
		return 0, errEmptyNumeral
	}
	return strconv.ParseUint(n, 10, 64)
}

// parseOptionalNumeral parses a nullable numeral field. JSON null and a
// missing field both yield nil.
func parseOptionalNumeral(s *string) (*uint64, error) {
	if s == nil {
		return nil, nil
	}
	v, err := ParseNumeral(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
