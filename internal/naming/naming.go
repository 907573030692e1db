// Package naming derives the canonical identifiers and project-relative paths
// of a generated module from the name a user typed.
//
// Everything here is pure; the same raw name always resolves to the same
// Descriptor.
package naming

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

// ErrInvalidName is returned when a module or project name cannot be turned
// into a filesystem segment and a Python identifier.
var ErrInvalidName = errors.New("invalid name")

// SourceDir is the project-relative directory that holds every module package.
const SourceDir = "src"

// Ext is the extension of every generated source file.
const Ext = ".py"

// reservedNames can't be used as a package name in generated imports, or
// clash with method parameters in generated classes (self, cls).
var reservedNames = map[string]bool{
	"self": true, "cls": true,
	"false": true, "none": true, "true": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// Descriptor identifies one generated module.
type Descriptor struct {
	Raw  string // as typed: "UserProfile"
	Name string // canonical: "user_profile"
	Type string // type name: "UserProfile"
}

// Resolve builds the Descriptor for a raw module name.
//
// Accepted characters are ASCII letters, digits, '_', '-' and spaces.
// camelCase and PascalCase are split into snake_case, '-' and spaces become
// '_', and the result must start with a letter.
//
// Examples: "item" → item/Item, "UserProfile" → user_profile/UserProfile,
// "order-line" → order_line/OrderLine.
func Resolve(raw string) (Descriptor, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Descriptor{}, fmt.Errorf("%w: name is empty", ErrInvalidName)
	}

	for _, r := range trimmed {
		if r > unicode.MaxASCII || !(isAlnum(r) || r == '_' || r == '-' || r == ' ') {
			return Descriptor{}, fmt.Errorf("%w: %q contains illegal character %q", ErrInvalidName, raw, r)
		}
	}

	canonical := canonicalize(trimmed)
	if canonical == "" {
		return Descriptor{}, fmt.Errorf("%w: %q has no letters or digits", ErrInvalidName, raw)
	}
	if !unicode.IsLetter(rune(canonical[0])) {
		return Descriptor{}, fmt.Errorf("%w: %q must start with a letter", ErrInvalidName, raw)
	}
	if reservedNames[canonical] {
		return Descriptor{}, fmt.Errorf("%w: %q is a reserved word", ErrInvalidName, raw)
	}

	return Descriptor{
		Raw:  raw,
		Name: canonical,
		Type: PascalCase(canonical),
	}, nil
}

// Dir returns the module's package directory, e.g. "src/item".
func (d Descriptor) Dir() string {
	return path.Join(SourceDir, d.Name)
}

// File returns the path of one of the module's role files,
// e.g. File("service") → "src/item/item_service.py".
func (d Descriptor) File(role string) string {
	return path.Join(d.Dir(), d.Name+"_"+role+Ext)
}

// InitFile returns the module's package marker path.
func (d Descriptor) InitFile() string {
	return path.Join(d.Dir(), "__init__"+Ext)
}

// Import returns the dotted import path of a role file, e.g. "src.item.item_module".
func (d Descriptor) Import(role string) string {
	return SourceDir + "." + d.Name + "." + d.Name + "_" + role
}

// ModuleClass is the name of the generated module wiring class, e.g. "ItemModule".
func (d Descriptor) ModuleClass() string {
	return d.Type + "Module"
}

// ValidateProjectName checks that a project name is a single, safe directory segment.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) != name || name == "" {
		return fmt.Errorf("%w: project name %q is empty or padded with spaces", ErrInvalidName, name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: project name %q is not a directory name", ErrInvalidName, name)
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !(isAlnum(r) || r == '_' || r == '-' || r == '.') {
			return fmt.Errorf("%w: project name %q contains illegal character %q", ErrInvalidName, name, r)
		}
	}
	return nil
}

// canonicalize lowers and snake-cases s, folding '-' and ' ' into '_'.
func canonicalize(s string) string {
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)

	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// HTTPServer → http_server, userName → user_name
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	return strings.Join(parts, "_")
}

// PascalCase converts snake_case to PascalCase: "order_line" → "OrderLine".
func PascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
