package pgdb

import (
	"context"
	"sync"
	"testing"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryRepo(t *testing.T) *CategoryRepo {
	return NewCategoryRepo(requireDB(t), converter.CategoryConverterImpl{})
}

func TestCategoryRepo_CreateAndGet(t *testing.T) {
	repo := newCategoryRepo(t)
	ctx := context.Background()
	desc := "All shoes"

	created, err := repo.Create(ctx, domain.NewCategory("Shoes", &desc, nil, []domain.Property{
		{Key: "size", Values: []string{"41", "42"}},
	}))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Zero(t, created.UsedCount)
	assert.Zero(t, created.ParentFor)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shoes", got.Name)
	assert.Equal(t, "All shoes", *got.Description)
	assert.Equal(t, []domain.Property{{Key: "size", Values: []string{"41", "42"}}}, got.Properties)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, e.ErrCategoryNotFound)
}

func TestCategoryRepo_UniqueName(t *testing.T) {
	repo := newCategoryRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.NewCategory("Shoes", nil, nil, nil))
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.NewCategory("Shoes", nil, nil, nil))
	assert.ErrorIs(t, err, e.ErrCategoryExists)

	exists, err := repo.ExistsByName(ctx, "Shoes", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "Shoes", first.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByName(ctx, "shoes", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCategoryRepo_ListOrder(t *testing.T) {
	repo := newCategoryRepo(t)
	ctx := context.Background()

	ids := map[string]int64{}
	for _, name := range []string{"Beta", "Alpha", "Gamma"} {
		c, err := repo.Create(ctx, domain.NewCategory(name, nil, nil, nil))
		require.NoError(t, err)
		ids[name] = c.ID
	}
	_, err := repo.AdjustUsage(ctx, ids["Gamma"], 3)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, names)
}

func TestCategoryRepo_AdjustUsage(t *testing.T) {
	repo := newCategoryRepo(t)
	ctx := context.Background()
	c, err := repo.Create(ctx, domain.NewCategory("Counter", nil, nil, nil))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustUsage(ctx, c.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.UsedCount)

	got, err = repo.AdjustUsage(ctx, c.ID, -50)
	require.NoError(t, err)
	assert.Zero(t, got.UsedCount)

	_, err = repo.AdjustUsage(ctx, c.ID+1, 1)
	assert.ErrorIs(t, err, e.ErrCategoryNotFound)
}

func TestCategoryRepo_HierarchyAndDelete(t *testing.T) {
	repo := newCategoryRepo(t)
	ctx := context.Background()

	root, err := repo.Create(ctx, domain.NewCategory("Root", nil, nil, nil))
	require.NoError(t, err)
	child, err := repo.Create(ctx, domain.NewCategory("Child", nil, &root.ID, nil))
	require.NoError(t, err)
	leaf, err := repo.Create(ctx, domain.NewCategory("Leaf", nil, &child.ID, nil))
	require.NoError(t, err)
	require.NoError(t, repo.RefreshParentFor(ctx, root.ID))

	got, err := repo.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ParentFor)

	descendant, err := repo.IsDescendant(ctx, root.ID, leaf.ID)
	require.NoError(t, err)
	assert.True(t, descendant)

	descendant, err = repo.IsDescendant(ctx, leaf.ID, root.ID)
	require.NoError(t, err)
	assert.False(t, descendant)

	deleted, err := repo.Delete(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Child", deleted.Name)

	orphan, err := repo.GetByID(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.Parent)

	_, err = repo.Delete(ctx, child.ID)
	assert.ErrorIs(t, err, e.ErrCategoryNotFound)

	_, err = repo.Create(ctx, domain.NewCategory("Dangling", nil, &child.ID, nil))
	assert.ErrorIs(t, err, e.ErrParentNotFound)
}

func TestCategoryRepo_UpdateKeepsCounters(t *testing.T) {
	repo := newCategoryRepo(t)
	ctx := context.Background()
	c, err := repo.Create(ctx, domain.NewCategory("Old", nil, nil, nil))
	require.NoError(t, err)
	_, err = repo.AdjustUsage(ctx, c.ID, 2)
	require.NoError(t, err)

	c.Name = "New"
	c.UsedCount = 99
	updated, err := repo.Update(ctx, c)
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, int64(2), updated.UsedCount)
	assert.NotNil(t, updated.UpdatedAt)

	c.ID += 100
	_, err = repo.Update(ctx, c)
	assert.ErrorIs(t, err, e.ErrCategoryNotFound)
}

func TestCategoryRepo_TransactionRollback(t *testing.T) {
	pool := requireDB(t)
	repo := NewCategoryRepo(pool, converter.CategoryConverterImpl{})
	trm := manager.Must(trmpgx.NewDefaultFactory(pool))
	ctx := context.Background()

	err := trm.Do(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, domain.NewCategory("Temp", nil, nil, nil)); err != nil {
			return err
		}
		return e.ErrCategoryExists
	})
	require.ErrorIs(t, err, e.ErrCategoryExists)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
