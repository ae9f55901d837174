package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"crm/internal/domain"
	"crm/internal/filter"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(name, email string, phone *string, createdAt time.Time) *domain.Customer {
	return &domain.Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestProperty_CustomerCreationPreservesAttributes(t *testing.T) {
	resetTables(t)
	repo := NewCustomerRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a customer preserves all attributes", prop.ForAll(
		func(name string, local string) bool {
			email := fmt.Sprintf("%s-%s@example.com", local, uuid.NewString()[:8])
			phone := "+1234567890"
			customer := newTestCustomer(name, email, &phone, time.Now().UTC().Truncate(time.Microsecond))

			if err := repo.Create(ctx, customer); err != nil {
				t.Logf("Failed to create customer: %v", err)
				return false
			}

			found, err := repo.FindByID(ctx, customer.ID)
			if err != nil {
				t.Logf("Failed to find customer: %v", err)
				return false
			}

			return found.Name == name &&
				found.Email == email &&
				found.Phone != nil && *found.Phone == phone &&
				found.CreatedAt.Equal(customer.CreatedAt)
		},
		gen.Identifier().SuchThat(func(s string) bool { return len(s) <= 100 }),
		gen.Identifier().SuchThat(func(s string) bool { return len(s) <= 40 }),
	))

	properties.TestingRun(t)
}

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	resetTables(t)
	repo := NewCustomerRepository(testDB)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, newTestCustomer("Alice", "alice@example.com", nil, now)))

	err := repo.Create(ctx, newTestCustomer("Other Alice", "alice@example.com", nil, now))
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail), "got %v", err)

	exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCustomerRepository_FindByIDNotFound(t *testing.T) {
	_, err := NewCustomerRepository(testDB).FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerRepository_ListFilterAndSort(t *testing.T) {
	resetTables(t)
	repo := NewCustomerRepository(testDB)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	phone := "+15550001"
	other := "+44207000"
	customers := []*domain.Customer{
		newTestCustomer("Alice Smith", "alice@example.com", &phone, base),
		newTestCustomer("Bob Jones", "bob@corp.io", &other, base.Add(time.Hour)),
		newTestCustomer("alicia keys", "keys@example.com", nil, base.Add(2*time.Hour)),
	}
	for _, c := range customers {
		require.NoError(t, repo.Create(ctx, c))
	}

	nameFilter := "ALIC"
	found, err := repo.List(ctx, filter.CustomerFilter{NameContains: &nameFilter}, filter.ParseCustomerSort("name"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Alice Smith", found[0].Name)
	assert.Equal(t, "alicia keys", found[1].Name)

	prefix := "+1"
	found, err = repo.List(ctx, filter.CustomerFilter{PhonePrefix: &prefix}, filter.DefaultCustomerSort)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, customers[0].ID, found[0].ID)

	after := base.Add(30 * time.Minute)
	found, err = repo.List(ctx, filter.CustomerFilter{CreatedAtGte: &after}, filter.DefaultCustomerSort)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, customers[2].ID, found[0].ID, "newest first by default")

	// LIKE metacharacters are matched literally
	percent := "%"
	found, err = repo.List(ctx, filter.CustomerFilter{EmailContains: &percent}, filter.DefaultCustomerSort)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCustomerRepository_ListMatchesInMemoryFilter(t *testing.T) {
	resetTables(t)
	repo := NewCustomerRepository(testDB)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var all []*domain.Customer
	for i, name := range []string{"Ann", "Andrew", "Bea", "Dan", "Zoe"} {
		c := newTestCustomer(name, fmt.Sprintf("%s%d@mail.test", name, i), nil, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, c))
		all = append(all, c)
	}

	properties := gopter.NewProperties(nil)

	properties.Property("SQL filtering agrees with Match", prop.ForAll(
		func(fragment string) bool {
			f := filter.CustomerFilter{NameContains: &fragment}
			found, err := repo.List(ctx, f, filter.ParseCustomerSort("name"))
			if err != nil {
				t.Logf("Failed to list customers: %v", err)
				return false
			}

			var expected []*domain.Customer
			for _, c := range all {
				if f.Match(c) {
					expected = append(expected, c)
				}
			}
			filter.SortCustomers(expected, filter.ParseCustomerSort("name"))

			if len(found) != len(expected) {
				return false
			}
			for i := range found {
				if found[i].ID != expected[i].ID {
					return false
				}
			}
			return true
		},
		gen.OneConstOf("an", "AN", "e", "zo", "x", ""),
	))

	properties.TestingRun(t)
}
