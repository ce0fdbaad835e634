package resolver

import (
	"strconv"
	"strings"
	"unicode"

	strs "github.com/resgen-dev/resgen/internal/util/strings"
)

// Casing is the identifier convention applied to raw keys
type Casing string

const (
	// CasingAuto defers to the renderer's convention
	CasingAuto       Casing = "auto"
	CasingPascal     Casing = "pascal"
	CasingCamel      Casing = "camel"
	CasingUpperSnake Casing = "upper_snake"
	CasingSnake      Casing = "snake"
)

// Casings lists every accepted casing name
var Casings = []string{
	string(CasingAuto),
	string(CasingPascal),
	string(CasingCamel),
	string(CasingUpperSnake),
	string(CasingSnake),
}

// ParseCasing converts a configuration value
func ParseCasing(s string) (Casing, bool) {
	c := Casing(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case "":
		return CasingAuto, true
	case CasingAuto, CasingPascal, CasingCamel, CasingUpperSnake, CasingSnake:
		return c, true
	}
	return "", false
}

// CollisionPolicy decides what happens when two keys share an identifier
type CollisionPolicy string

const (
	// CollisionFail reports later duplicates as errors
	CollisionFail CollisionPolicy = "fail"
	// CollisionSuffix renames later duplicates with a numeric suffix
	CollisionSuffix CollisionPolicy = "suffix"
)

// CollisionPolicies lists every accepted policy name
var CollisionPolicies = []string{string(CollisionFail), string(CollisionSuffix)}

// ParseCollisionPolicy converts a configuration value
func ParseCollisionPolicy(s string) (CollisionPolicy, bool) {
	p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return CollisionFail, true
	case CollisionFail, CollisionSuffix:
		return p, true
	}
	return "", false
}

// join applies the casing to already split words
func (c Casing) join(words []string, initialisms bool) string {
	switch c {
	case CasingCamel:
		return strs.ToCamelCase(words, initialisms)
	case CasingUpperSnake:
		return strs.ToUpperSnakeCase(words)
	case CasingSnake:
		return strings.Join(words, "_")
	default:
		return strs.ToPascalCase(words, initialisms)
	}
}

// suffixed returns the n-th alternative for a taken identifier
func (c Casing) suffixed(id string, n int) string {
	switch c {
	case CasingUpperSnake, CasingSnake:
		return id + "_" + strconv.Itoa(n)
	default:
		return id + strconv.Itoa(n)
	}
}

// validSegment reports whether s can be used as a package path segment
func validSegment(s string) (bool, string) {
	if s == "" {
		return false, "empty segment"
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return false, "segments must not start with a digit"
			}
		default:
			return false, "segments may only contain letters, digits and underscores"
		}
	}
	return true, ""
}
