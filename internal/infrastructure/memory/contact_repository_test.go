package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
)

func fields(first string) entity.ContactFields {
	return entity.ContactFields{
		FirstName:    first,
		LastName:     "Doe",
		BirthdayDate: time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC),
		Email:        first + "@example.com",
		PhoneNumber:  "0501234567",
	}
}

func TestContactRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository()

	a, err := repo.Create(ctx, fields("Ann"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, fields("Bob"))
	require.NoError(t, err)
	assert.Less(t, a.ID, b.ID)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	updated, err := repo.Update(ctx, a.ID, fields("Anna"))
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, "Anna", updated.FirstName)

	deleted, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", deleted.FirstName)

	missing, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = repo.Update(ctx, 999, fields("Nobody"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContactRepositoryListWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository()
	for _, n := range []string{"A", "B", "C", "D"} {
		_, err := repo.Create(ctx, fields(n))
		require.NoError(t, err)
	}

	cases := []struct {
		name        string
		skip, limit int
		want        []string
	}{
		{"middle page", 1, 2, []string{"B", "C"}},
		{"tail shorter than limit", 3, 10, []string{"D"}},
		{"skip past end", 10, 10, []string{}},
		{"zero limit", 0, 0, []string{}},
		{"negative skip", -5, 1, []string{"A"}},
		{"huge limit", 1, math.MaxInt, []string{"B", "C", "D"}},
		{"huge skip and limit", math.MaxInt, math.MaxInt, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var page []entity.Contact
			var err error
			require.NotPanics(t, func() { page, err = repo.List(ctx, tc.skip, tc.limit) })
			require.NoError(t, err)
			require.NotNil(t, page)
			names := make([]string, 0, len(page))
			for _, c := range page {
				names = append(names, c.FirstName)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}
