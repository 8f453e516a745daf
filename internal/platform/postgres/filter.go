package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/taskify-api/internal/store"
)

// predicates collects column comparisons and their positional arguments.
type predicates struct {
	conds []string
	args  []any
}

func (p *predicates) add(column string, value any) {
	p.args = append(p.args, value)
	p.conds = append(p.conds, fmt.Sprintf("%s = $%d", column, len(p.args)))
}

// where renders "deleted = false" followed by the collected predicates,
// joined with joiner. The result includes the WHERE keyword.
func (p *predicates) where(joiner string) string {
	if len(p.conds) == 0 {
		return "WHERE deleted = false"
	}
	return "WHERE deleted = false AND (" + strings.Join(p.conds, joiner) + ")"
}

// next returns the placeholder for the argument that would be appended next.
func (p *predicates) next() string {
	return fmt.Sprintf("$%d", len(p.args)+1)
}

func userPredicates(f store.UserFilter) (string, []any) {
	var p predicates
	if f.ID != 0 {
		p.add("id", f.ID)
	}
	if f.Username != "" {
		p.add("username", f.Username)
	}
	if f.Email != "" {
		p.add("email", f.Email)
	}

	joiner := " AND "
	if f.MatchAny {
		joiner = " OR "
	}
	return p.where(joiner), p.args
}

func taskPredicates(f store.TaskFilter) *predicates {
	p := &predicates{}
	if f.ID != 0 {
		p.add("id", f.ID)
	}
	if f.OwnerID != 0 {
		p.add("owner_id", f.OwnerID)
	}
	if f.Status != nil {
		p.add("status", int(*f.Status))
	}
	return p
}
