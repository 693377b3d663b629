package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"readverse/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) SetUserRole(ctx context.Context, userID string, role Role, vipUntil *time.Time) error {
	args := m.Called(ctx, userID, role, vipUntil)
	return args.Error(0)
}

func (m *MockUserStore) CreateAuthorProfile(ctx context.Context, userID, penName string) error {
	args := m.Called(ctx, userID, penName)
	return args.Error(0)
}

var _ UserStore = (*MockUserStore)(nil)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newResolver(store UserStore) *Resolver {
	return NewResolver(store).WithClock(func() time.Time { return fixedNow })
}

func TestResolveRole_AnonymousIsGuest(t *testing.T) {
	store := new(MockUserStore)
	ent, err := newResolver(store).ResolveRole(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, RoleGuest, ent.Role)
	assert.True(t, ent.IsGuest())
	store.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestResolveRole_ReadsStoreEveryTime(t *testing.T) {
	store := new(MockUserStore)
	ctx := context.Background()

	store.On("GetUser", ctx, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleUser, IsActive: true}, nil).Once()
	until := fixedNow.Add(30 * 24 * time.Hour)
	store.On("GetUser", ctx, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleVIP, VIPUntil: &until, IsActive: true}, nil).Once()

	resolver := newResolver(store)

	first, err := resolver.ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, first.Role)

	second, err := resolver.ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleVIP, second.Role)
	assert.Equal(t, &until, second.VIPUntil)

	store.AssertExpectations(t)
}

func TestResolveRole_ExpiredVIPIsUser(t *testing.T) {
	store := new(MockUserStore)
	ctx := context.Background()
	expired := fixedNow.Add(-time.Hour)
	store.On("GetUser", ctx, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleVIP, VIPUntil: &expired, IsActive: true}, nil)

	ent, err := newResolver(store).ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, ent.Role)
}

func TestResolveRole_UnknownUserIsGuest(t *testing.T) {
	store := new(MockUserStore)
	ctx := context.Background()
	store.On("GetUser", ctx, "ghost").Return(nil, ErrUserNotFound)

	ent, err := newResolver(store).ResolveRole(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, RoleGuest, ent.Role)
}

func TestResolveRole_InactiveUserIsGuest(t *testing.T) {
	store := new(MockUserStore)
	ctx := context.Background()
	store.On("GetUser", ctx, "user-1").Return(&models.User{ID: "user-1", Role: models.RoleAdmin, IsActive: false}, nil)

	ent, err := newResolver(store).ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleGuest, ent.Role)
}

func TestResolveRole_StoreErrorPropagates(t *testing.T) {
	store := new(MockUserStore)
	ctx := context.Background()
	store.On("GetUser", ctx, "user-1").Return(nil, errors.New("connection reset"))

	_, err := newResolver(store).ResolveRole(ctx, "user-1")
	assert.Error(t, err)
}

func TestSetRole_DropsVIPUntilForOtherRoles(t *testing.T) {
	store := new(MockUserStore)
	ctx := context.Background()
	until := fixedNow.Add(time.Hour)
	store.On("SetUserRole", ctx, "user-1", RoleAuthor, (*time.Time)(nil)).Return(nil)

	err := newResolver(store).SetRole(ctx, "user-1", RoleAuthor, &until)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSetRole_RejectsGuest(t *testing.T) {
	store := new(MockUserStore)
	err := newResolver(store).SetRole(context.Background(), "user-1", RoleGuest, nil)
	assert.Error(t, err)
	store.AssertNotCalled(t, "SetUserRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRole_Unlimited(t *testing.T) {
	assert.True(t, RoleAdmin.Unlimited())
	assert.True(t, RoleAuthor.Unlimited())
	assert.True(t, RoleVIP.Unlimited())
	assert.False(t, RoleUser.Unlimited())
	assert.False(t, RoleGuest.Unlimited())
}
