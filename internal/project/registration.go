package project

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/simonhull/nestling/internal/generator"
	"github.com/simonhull/nestling/internal/naming"
)

const (
	modulesList   = "modules"
	documentsList = "document_models"
)

// registerModule imports the module class into app.py and appends it to
// App(modules=[...]). Applying it twice changes nothing.
func registerModule(d naming.Descriptor) generator.PatchFunc {
	line := fmt.Sprintf("from %s import %s", d.Import("module"), d.ModuleClass())
	return registration(line, modulesList, d.ModuleClass())
}

// registerDocument does the same for a beanie entity in config.py's
// document_models=[...].
func registerDocument(d naming.Descriptor) generator.PatchFunc {
	line := fmt.Sprintf("from %s import %s", d.Import("entity"), d.Type)
	return registration(line, documentsList, d.Type)
}

func registration(importLine, list, item string) generator.PatchFunc {
	return func(content []byte) ([]byte, error) {
		src, err := appendToList(string(content), list, item)
		if err != nil {
			return nil, err
		}
		return []byte(insertImport(src, importLine)), nil
	}
}

// insertImport adds line after the last import of the file's leading import
// block, or at the top if there is none.
func insertImport(src, line string) string {
	lines := strings.Split(src, "\n")
	last := -1
	inParens := false

scan:
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if t == line {
			return src
		}
		switch {
		case inParens:
			last = i
			if strings.Contains(t, ")") {
				inParens = false
			}
		case strings.HasPrefix(t, "import "), strings.HasPrefix(t, "from "):
			last = i
			inParens = strings.Contains(t, "(") && !strings.Contains(t, ")")
		case t == "", strings.HasPrefix(t, "#"):
		default:
			break scan
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:last+1]...)
	out = append(out, line)
	return strings.Join(append(out, lines[last+1:]...), "\n")
}

func listPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*=\s*\[`)
}

// findList returns the offsets just inside the brackets of name=[...].
func findList(src, name string) (open, close int, err error) {
	loc := listPattern(name).FindStringIndex(src)
	if loc == nil {
		return 0, 0, fmt.Errorf("%w: no %s=[...] list found", ErrMissingConfig, name)
	}

	depth := 0
	for i := loc[1] - 1; i < len(src); i++ {
		switch src[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return loc[1], i, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: %s=[ is never closed", ErrMissingConfig, name)
}

// listItems returns the entries of a Python list body, ignoring comments.
func listItems(body string) []string {
	var items []string
	for _, l := range strings.Split(body, "\n") {
		if i := strings.Index(l, "#"); i >= 0 {
			l = l[:i]
		}
		for _, item := range strings.Split(l, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// appendToList adds item to name=[...] keeping the list's layout: inline
// lists stay inline, one-per-line lists get a new line at the same indent.
// A comment after the last entry stays after it.
func appendToList(src, name, item string) (string, error) {
	open, close, err := findList(src, name)
	if err != nil {
		return "", err
	}

	body := src[open:close]
	for _, existing := range listItems(body) {
		if existing == item {
			return src, nil
		}
	}

	trimmed := strings.TrimRight(body, " \t\n")
	tail := body[len(trimmed):]
	start, end, comma, ok := lastEntry(trimmed)

	var updated string
	switch {
	case strings.TrimSpace(body) == "":
		updated = item
	case !ok:
		// only comments so far
		updated = trimmed + "\n" + indentOf(trimmed[strings.LastIndex(trimmed, "\n")+1:]) + item + tail
	case !strings.Contains(trimmed, "\n") && !strings.Contains(trimmed[end:], "#"):
		if comma {
			updated = trimmed + " " + item + tail
		} else {
			updated = trimmed + ", " + item + tail
		}
	default:
		head := trimmed[:end]
		suffix := ""
		if comma {
			suffix = ","
		} else {
			head += ","
		}
		updated = head + trimmed[end:] + "\n" + indentOf(trimmed[start:]) + item + suffix + tail
	}

	return src[:open] + updated + src[close:], nil
}

// lastEntry finds the line holding the last entry of a list body. start is
// where that line begins, end is just past its code (before any comment),
// and comma reports whether the code already ends with one.
func lastEntry(body string) (start, end int, comma, ok bool) {
	lineEnd := len(body)
	for {
		start = strings.LastIndex(body[:lineEnd], "\n") + 1
		code := body[start:lineEnd]
		if i := strings.Index(code, "#"); i >= 0 {
			code = code[:i]
		}
		code = strings.TrimRight(code, " \t")
		if strings.TrimSpace(code) != "" {
			return start, start + len(code), strings.HasSuffix(code, ","), true
		}
		if start == 0 {
			return 0, 0, false, false
		}
		lineEnd = start - 1
	}
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

var fromImport = regexp.MustCompile(`(?m)^[ \t]*from[ \t]+([\w.]+)[ \t]+import[ \t]+(\([^)]*\)|[^\n]*)`)

// importSources returns the modules that name is imported from in src,
// following "as" aliases.
func importSources(src, name string) []string {
	var out []string
	for _, m := range fromImport.FindAllStringSubmatch(src, -1) {
		for _, n := range listItems(strings.Trim(m[2], "()")) {
			fields := strings.Fields(n)
			if fields[len(fields)-1] == name {
				out = append(out, m[1])
				break
			}
		}
	}
	return out
}

// registeredModules lists the entries of App(modules=[...]).
func registeredModules(src string) ([]string, error) {
	open, close, err := findList(src, modulesList)
	if err != nil {
		return nil, err
	}
	return listItems(src[open:close]), nil
}
