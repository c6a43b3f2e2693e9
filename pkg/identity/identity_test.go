package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallerFrom(t *testing.T) {
	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	_, ok = CallerFrom(WithCaller(context.Background(), Caller{Email: "x@example.com"}))
	assert.False(t, ok, "a caller without subject is not authenticated")

	c, ok := CallerFrom(WithCaller(context.Background(), Caller{ExternalID: "user_1", Email: "x@example.com"}))
	require.True(t, ok)
	assert.Equal(t, "user_1", c.ExternalID)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"ADMIN", "GUEST"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}
	for _, s := range []string{"", "admin", "OWNER", " ADMIN"} {
		_, err := ParseRole(s)
		assert.Error(t, err, s)
	}
}

func TestMetadataStore(t *testing.T) {
	ctx := context.Background()
	m := NewMetadataStore(2, time.Hour)

	_, ok, err := m.ReadRole(ctx, "user_1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.WriteRole(ctx, "user_1", RoleGuest))
	require.NoError(t, m.WriteRole(ctx, "user_1", RoleAdmin))
	r, ok, err := m.ReadRole(ctx, "user_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)
}

func TestMetadataStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	m := NewMetadataStore(2, time.Hour)

	require.NoError(t, m.WriteRole(ctx, "a", RoleAdmin))
	require.NoError(t, m.WriteRole(ctx, "b", RoleGuest))
	require.NoError(t, m.WriteRole(ctx, "c", RoleGuest))

	_, ok, _ := m.ReadRole(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = m.ReadRole(ctx, "c")
	assert.True(t, ok)
}

func TestMetadataStoreExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMetadataStore(8, 20*time.Millisecond)
	require.NoError(t, m.WriteRole(ctx, "a", RoleAdmin))

	assert.Eventually(t, func() bool {
		_, ok, _ := m.ReadRole(ctx, "a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
