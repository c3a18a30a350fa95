// Package naming implements the case transformations the code generator
// applies to emitted identifiers: every identifier is first split into
// lowercase words, then rejoined according to the requested Case.
// Identifiers that differ only in letter case or word separators map to
// the same output: "getFile" and "get_file" both become "get_file" in
// Snake.
package naming

import "strings"

// Case selects one of the six output conventions a NamingConventionConfig
// category can choose.
type Case int

const (
	Pascal Case = iota
	LowerCamel
	Snake
	ShoutySnake
	Kebab
	ShoutyKebab
)

// Category is one of the four identifier classes the code generator
// rewrites independently: types, enum variants, struct fields, procedures.
type Category int

const (
	CategoryTypes Category = iota
	CategoryEnumVariants
	CategoryStructFields
	CategoryProcedures
)

// Config selects a Case per Category. A zero Config rewrites every
// category to Pascal.
type Config struct {
	Types        Case
	EnumVariants Case
	StructFields Case
	Procedures   Case
}

// Uniform returns a Config that applies c to every category, the
// behavior behind the global --naming-convention override.
func Uniform(c Case) Config {
	return Config{Types: c, EnumVariants: c, StructFields: c, Procedures: c}
}

func (cfg Config) forCategory(cat Category) Case {
	switch cat {
	case CategoryEnumVariants:
		return cfg.EnumVariants
	case CategoryStructFields:
		return cfg.StructFields
	case CategoryProcedures:
		return cfg.Procedures
	default:
		return cfg.Types
	}
}

// Apply rewrites ident (ascii alphanumerics and underscores) into the
// case configured for cat. The IDL-source identifier used for the wire
// Fingerprint must never pass through this function.
func Apply(ident string, cat Category, cfg Config) string {
	return Convert(ident, cfg.forCategory(cat))
}

// Convert splits ident into words and rejoins it in the requested Case.
func Convert(ident string, c Case) string {
	words := splitWords(ident)
	if len(words) == 0 {
		return ident
	}

	switch c {
	case Pascal:
		return joinPascal(words)
	case LowerCamel:
		return joinLowerCamel(words)
	case Snake:
		return strings.Join(words, "_")
	case ShoutySnake:
		return strings.ToUpper(strings.Join(words, "_"))
	case Kebab:
		return strings.Join(words, "-")
	case ShoutyKebab:
		return strings.ToUpper(strings.Join(words, "-"))
	default:
		return strings.Join(words, "_")
	}
}

// splitWords breaks an identifier into lowercase words on underscores,
// hyphens and case-shift boundaries (aB -> a, B; ABc -> A, Bc). An
// uppercase letter after a digit does not start a new word.
func splitWords(ident string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}

	runes := []rune(ident)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			flush()
		case r >= 'A' && r <= 'Z':
			prevLower := i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || (cur.Len() > 0 && nextLower && i > 0 && runes[i-1] >= 'A' && runes[i-1] <= 'Z') {
				flush()
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

func joinPascal(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func joinLowerCamel(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
		} else {
			b.WriteString(capitalize(w))
		}
	}
	return b.String()
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
