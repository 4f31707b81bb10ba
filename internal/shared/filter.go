package shared

import (
	"fmt"
	"strings"
)

// Filter is a composable predicate rendered into a SQL WHERE fragment with
// positional arguments. Variants are explicit so the query contract stays
// statically checkable and search text is always escaped.
type Filter interface {
	// Render appends the filter's SQL to the condition list starting at
	// placeholder position pos, returning the updated position.
	render(conds *[]string, args *[]any, pos int) int
}

// None matches everything.
type None struct{}

func (None) render(conds *[]string, args *[]any, pos int) int { return pos }

// Equals constrains a column to an exact value.
type Equals struct {
	Column string
	Value  any
}

func (f Equals) render(conds *[]string, args *[]any, pos int) int {
	*conds = append(*conds, fmt.Sprintf("%s = $%d", f.Column, pos))
	*args = append(*args, f.Value)
	return pos + 1
}

// TextSearchOr matches when any of the columns contains the needle,
// case-insensitively. The needle is treated as literal text: ILIKE
// metacharacters are escaped before the pattern is built.
type TextSearchOr struct {
	Columns []string
	Needle  string
}

func (f TextSearchOr) render(conds *[]string, args *[]any, pos int) int {
	if len(f.Columns) == 0 || f.Needle == "" {
		return pos
	}
	pattern := "%" + EscapeLike(f.Needle) + "%"
	parts := make([]string, len(f.Columns))
	for i, col := range f.Columns {
		parts[i] = fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, pos)
	}
	*conds = append(*conds, "("+strings.Join(parts, " OR ")+")")
	*args = append(*args, pattern)
	return pos + 1
}

// And combines filters; empty variants contribute nothing.
type And []Filter

func (f And) render(conds *[]string, args *[]any, pos int) int {
	for _, sub := range f {
		if sub == nil {
			continue
		}
		pos = sub.render(conds, args, pos)
	}
	return pos
}

// WhereClause renders the filter into a WHERE clause (or the empty string
// when nothing constrains the query) plus its positional arguments.
func WhereClause(f Filter) (string, []any) {
	var conds []string
	var args []any
	if f != nil {
		f.render(&conds, &args, 1)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// EscapeLike escapes LIKE/ILIKE metacharacters so the input matches
// literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
