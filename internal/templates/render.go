package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

//go:embed files
var files embed.FS

// Renderer parses embedded templates once and executes them on demand.
type Renderer struct {
	fs      embed.FS
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex // Protect cache for concurrent access
}

// NewRenderer creates a renderer over the built-in template files.
func NewRenderer() *Renderer {
	return &Renderer{
		fs:      files,
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Render executes the template at path (relative to the files/ tree) with data.
func (r *Renderer) Render(path string, data any) ([]byte, error) {
	tmpl, err := r.lookup(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", path, err)
	}
	// An empty template leaves buf unallocated; files still need non-nil content.
	return []byte(buf.String()), nil
}

func (r *Renderer) lookup(path string) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[path]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	src, err := r.fs.ReadFile("files/" + path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template '%s': %w", path, err)
	}

	tmpl, err := template.New(path).Funcs(r.funcMap).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", path, err)
	}

	r.mu.Lock()
	r.cache[path] = tmpl
	r.mu.Unlock()

	return tmpl, nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"snakeCase": SnakeCase, // My-Shop → my_shop
		"quote":     Quote,     // mysql → "mysql"
	}
}

// SnakeCase lowers s and replaces every run of characters that can't appear
// in a Python identifier with a single underscore.
func SnakeCase(s string) string {
	var b strings.Builder
	pending := false
	for i, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			pending = true
			continue
		}
		if unicode.IsUpper(r) && i > 0 && !pending {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				pending = true
			}
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Quote wraps s in double quotes, escaping as Go does (compatible with Python for plain text).
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}
