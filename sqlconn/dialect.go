package sqlconn

import "strconv"

// Dialect captures the few points where postgres and sqlite SQL differ
// for read-only querying.
type Dialect interface {
	Name() string
	// Placeholder returns the parameter marker for the n-th argument
	// (1-based).
	Placeholder(n int) string
	// ContainsFold renders a case-insensitive substring match of the
	// placeholder ph against column col.
	ContainsFold(col, ph string) string
}

type postgresDialect struct{}

func (postgresDialect) Name() string             { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
func (postgresDialect) ContainsFold(col, ph string) string {
	return col + " ILIKE " + ph
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string           { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) ContainsFold(col, ph string) string {
	// sqlite LIKE has no default escape character.
	return "lower(" + col + ") LIKE lower(" + ph + ") ESCAPE '\\'"
}

// quoteIdent wraps a validated identifier in double quotes; both
// dialects accept this form.
func quoteIdent(name string) string { return `"` + name + `"` }
