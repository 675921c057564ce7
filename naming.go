package flatjson

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NamingPolicy derives a JSON key from a field name when no explicit path is
// declared.
type NamingPolicy int

const (
	Identity NamingPolicy = iota
	UpperCamelCase
	UpperCamelCaseWithSpaces
	UpperCaseWithUnderscores
	LowerCaseWithUnderscores
	LowerCaseWithDashes
	LowerCaseWithDots
)

var namingNames = map[NamingPolicy]string{
	Identity:                 "identity",
	UpperCamelCase:           "upper_camel_case",
	UpperCamelCaseWithSpaces: "upper_camel_case_with_spaces",
	UpperCaseWithUnderscores: "upper_case_with_underscores",
	LowerCaseWithUnderscores: "lower_case_with_underscores",
	LowerCaseWithDashes:      "lower_case_with_dashes",
	LowerCaseWithDots:        "lower_case_with_dots",
}

func (p NamingPolicy) String() string {
	if s, ok := namingNames[p]; ok {
		return s
	}
	return fmt.Sprintf("NamingPolicy(%d)", int(p))
}

// ParseNamingPolicy resolves a policy from its snake_case name.
func ParseNamingPolicy(s string) (NamingPolicy, error) {
	if s == "" {
		return Identity, nil
	}
	for p, name := range namingNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown naming policy %q", s)
}

// ApplyNaming transforms name according to policy. It is a pure function.
//
//	ApplyNaming(LowerCaseWithUnderscores, "someFieldName") == "some_field_name"
//	ApplyNaming(UpperCamelCaseWithSpaces, "someFieldName") == "Some Field Name"
func ApplyNaming(policy NamingPolicy, name string) string {
	switch policy {
	case UpperCamelCase:
		return upperFirstLetter(name)
	case UpperCamelCaseWithSpaces:
		return upperFirstLetter(separateCamelCase(name, " "))
	case UpperCaseWithUnderscores:
		return cases.Upper(language.English).String(separateCamelCase(name, "_"))
	case LowerCaseWithUnderscores:
		return cases.Lower(language.English).String(separateCamelCase(name, "_"))
	case LowerCaseWithDashes:
		return cases.Lower(language.English).String(separateCamelCase(name, "-"))
	case LowerCaseWithDots:
		return cases.Lower(language.English).String(separateCamelCase(name, "."))
	default:
		return name
	}
}

// separateCamelCase inserts sep before every upper-case rune except a leading one.
func separateCamelCase(name, sep string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) && b.Len() != 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upperFirstLetter upper-cases the first letter, skipping leading non-letters.
func upperFirstLetter(name string) string {
	for i, r := range name {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) {
			return name
		}
		size := utf8.RuneLen(r)
		return name[:i] + cases.Upper(language.English).String(name[i:i+size]) + name[i+size:]
	}
	return name
}
