// Package filter translates declarative criteria into SQL predicates and
// equivalent in-memory matchers. Absent criteria are no-ops; present ones are
// combined with AND.
package filter

import (
	"fmt"
	"strings"
)

// Builder accumulates parameterized predicates using $n placeholders.
type Builder struct {
	clauses []string
	args    []interface{}
}

// NewBuilder returns a Builder whose placeholders continue after the given args.
func NewBuilder(args ...interface{}) *Builder {
	return &Builder{args: args}
}

// Add appends a predicate. expr must contain exactly one %d verb for the placeholder index.
func (b *Builder) Add(expr string, arg interface{}) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, fmt.Sprintf(expr, len(b.args)))
}

// Where returns the WHERE clause, or an empty string when nothing was added.
func (b *Builder) Where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.clauses, " AND ")
}

// Args returns the positional arguments for the built clause.
func (b *Builder) Args() []interface{} {
	return b.args
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE metacharacters escaped.
func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// prefixPattern builds a LIKE pattern matching values starting with s.
func prefixPattern(s string) string {
	return escapeLike(s) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
