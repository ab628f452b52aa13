package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userapi-backend/domain/user"
)

func TestUserRepository_CreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	seen := make(map[int64]bool)
	for i := 0; i < 200; i++ {
		created, err := repo.Create(ctx, &user.User{
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		})
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		assert.False(t, seen[created.ID], "duplicate id %d", created.ID)
		seen[created.ID] = true
	}
}

func TestUserRepository_CreateSetsTimestampsAndNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &user.User{
		Name:  "Alice",
		Email: "  Alice@Example.COM ",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", created.Email)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestUserRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &user.User{
				Name:  fmt.Sprintf("User %d", i),
				Email: fmt.Sprintf("user%d@example.com", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, n)

	seen := make(map[int64]bool)
	for _, u := range users {
		assert.False(t, seen[u.ID])
		seen[u.ID] = true
	}
}

func TestUserRepository_FindAllPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var ids []int64
	for i := 0; i < 5; i++ {
		created, err := repo.Create(ctx, &user.User{
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)
	for i, u := range users {
		assert.Equal(t, ids[i], u.ID)
	}
}

func TestUserRepository_FindPage(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var ids []int64
	for i := 0; i < 25; i++ {
		created, err := repo.Create(ctx, &user.User{
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	page, err := repo.FindPage(ctx, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Users, 10)
	for i, u := range page.Users {
		assert.Equal(t, ids[10+i], u.ID)
	}
}

func TestUserRepository_FindPageNonPositiveInputs(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &user.User{
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		page  int
		limit int
		want  int
	}{
		{"zero page clamps to start", 0, 10, 3},
		{"negative page clamps to start", -5, 10, 3},
		{"zero limit yields empty window", 1, 0, 0},
		{"negative limit yields empty window", 2, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.FindPage(ctx, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, 3, page.Total)
			assert.Len(t, page.Users, tt.want)
		})
	}
}

func TestUserRepository_FindPagePastEnd(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.Create(ctx, &user.User{Name: "Only", Email: "only@example.com"})
	require.NoError(t, err)

	page, err := repo.FindPage(ctx, 5, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Total)
	assert.Empty(t, page.Users)
}

func TestUserRepository_FindByIDMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	found, err := repo.FindByID(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_FindByEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &user.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "ALICE@Example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &user.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	age := 30
	updated, err := repo.Update(ctx, &user.User{
		ID:    created.ID,
		Name:  "Alice B",
		Email: "alice.b@example.com",
		Age:   &age,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, "alice.b@example.com", updated.Email)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 30, *updated.Age)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	updated, err := repo.Update(ctx, &user.User{ID: 99, Name: "Ghost", Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUserRepository_DeleteReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &user.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "Alice", deleted.Name)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_DeleteMissingLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &user.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID+1)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
