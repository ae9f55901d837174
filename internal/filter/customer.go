package filter

import (
	"strings"
	"time"

	"crm/internal/domain"
)

// CustomerFilter holds the customer listing criteria. Columns are qualified with alias c.
type CustomerFilter struct {
	NameContains  *string
	EmailContains *string
	CreatedAtGte  *time.Time
	CreatedAtLte  *time.Time
	PhonePrefix   *string
}

// SQL appends the filter predicates to b.
func (f CustomerFilter) SQL(b *Builder) {
	if f.NameContains != nil {
		b.Add("c.name ILIKE $%d", containsPattern(*f.NameContains))
	}
	if f.EmailContains != nil {
		b.Add("c.email ILIKE $%d", containsPattern(*f.EmailContains))
	}
	if f.CreatedAtGte != nil {
		b.Add("c.created_at >= $%d", *f.CreatedAtGte)
	}
	if f.CreatedAtLte != nil {
		b.Add("c.created_at <= $%d", *f.CreatedAtLte)
	}
	if f.PhonePrefix != nil {
		b.Add("c.phone LIKE $%d", prefixPattern(*f.PhonePrefix))
	}
}

// Match reports whether c satisfies every criterion.
func (f CustomerFilter) Match(c *domain.Customer) bool {
	if f.NameContains != nil && !containsFold(c.Name, *f.NameContains) {
		return false
	}
	if f.EmailContains != nil && !containsFold(c.Email, *f.EmailContains) {
		return false
	}
	if f.CreatedAtGte != nil && c.CreatedAt.Before(*f.CreatedAtGte) {
		return false
	}
	if f.CreatedAtLte != nil && c.CreatedAt.After(*f.CreatedAtLte) {
		return false
	}
	if f.PhonePrefix != nil && (c.Phone == nil || !strings.HasPrefix(*c.Phone, *f.PhonePrefix)) {
		return false
	}
	return true
}
