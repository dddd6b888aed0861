package sqlconn

// ArgBuilder collects query arguments and hands out dialect-appropriate
// placeholders in order.
type ArgBuilder struct {
	dialect Dialect
	args    []any
}

func NewArgBuilder(d Dialect) *ArgBuilder {
	return &ArgBuilder{dialect: d, args: make([]any, 0, 8)}
}

// Arg records a value and returns its placeholder.
func (b *ArgBuilder) Arg(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// Args returns the collected values in placeholder order.
func (b *ArgBuilder) Args() []any { return b.args }

func (b *ArgBuilder) Len() int { return len(b.args) }
