package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrimarket_backend/internal/feature/cart/domain/entity"
)

func TestCartMemory(t *testing.T) {
	ctx := context.Background()
	store := NewCartMemory()

	empty, err := store.Load(ctx, "user_1")
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	c := &entity.Cart{}
	c.Add(entity.Item{ProductID: "product_1", Price: 5})
	require.NoError(t, store.Save(ctx, "user_1", c))

	// 保存後の変更はストアに影響しない
	c.Items[0].Quantity = 99

	got, err := store.Load(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Quantity)

	other, err := store.Load(ctx, "user_2")
	require.NoError(t, err)
	assert.Empty(t, other.Items, "carts are scoped per user")
}
