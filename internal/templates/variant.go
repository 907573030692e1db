package templates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedDialect is returned for a dialect/mode combination that has
// no template family, or for a dialect name that isn't known at all.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Dialect selects the persistence backend of a generated project.
// Its value is what settings.yaml stores under config.db_type.
type Dialect string

const (
	PostgreSQL Dialect = "postgresql"
	MySQL      Dialect = "mysql"
	SQLite     Dialect = "sqlite"
	MongoDB    Dialect = "mongodb"
)

// Dialects lists every dialect in a stable order.
func Dialects() []Dialect {
	return []Dialect{PostgreSQL, MySQL, SQLite, MongoDB}
}

func (d Dialect) String() string {
	return string(d)
}

// ParseDialect maps a settings or flag value onto a Dialect.
// Matching is case-insensitive; "postgres" is accepted as an alias.
func ParseDialect(s string) (Dialect, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "postgres" {
		v = string(PostgreSQL)
	}
	for _, d := range Dialects() {
		if string(d) == v {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnsupportedDialect, s, dialectList())
}

func dialectList() string {
	names := make([]string, 0, len(Dialects()))
	for _, d := range Dialects() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

// Mode is the execution flavour of generated database code.
type Mode int

const (
	Sync Mode = iota
	Async
)

// Modes lists both modes.
func Modes() []Mode {
	return []Mode{Sync, Async}
}

// ModeOf converts the settings.yaml is_async flag.
func ModeOf(async bool) Mode {
	if async {
		return Async
	}
	return Sync
}

// IsAsync reports whether m is Async.
func (m Mode) IsAsync() bool {
	return m == Async
}

func (m Mode) String() string {
	if m == Async {
		return "async"
	}
	return "sync"
}

// Variant is one cell of the {dialect × mode} table.
type Variant struct {
	Dialect Dialect
	Mode    Mode
}

func (v Variant) String() string {
	return fmt.Sprintf("%s/%s", v.Dialect, v.Mode)
}
