package usecase

import (
	"context"
	"io"

	"readverse/pkg/entitlement"
	"readverse/pkg/queue"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, event queue.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var (
	_ EventPublisher = (*MockPublisher)(nil)
	_ ReceiptStorage = (*MockReceiptStorage)(nil)
)

func admin() *entitlement.Entitlement {
	return &entitlement.Entitlement{UserID: "admin-1", Role: entitlement.RoleAdmin}
}

func reader(id string) *entitlement.Entitlement {
	return &entitlement.Entitlement{UserID: id, Role: entitlement.RoleUser}
}

func author(id string) *entitlement.Entitlement {
	return &entitlement.Entitlement{UserID: id, Role: entitlement.RoleAuthor}
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e queue.Event) bool { return e.Type == eventType })
}
