package service_test

import (
	"context"

	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
	"github.com/dlcaspar/apt-journal/backend/internal/entry/domain"
	entryrepo "github.com/dlcaspar/apt-journal/backend/internal/entry/repository"
	userdomain "github.com/dlcaspar/apt-journal/backend/internal/user/domain"
	userrepo "github.com/dlcaspar/apt-journal/backend/internal/user/repository"
)

type mockTxManager struct {
	withTxFunc func(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error {
	if m.withTxFunc != nil {
		return m.withTxFunc(ctx, fn)
	}
	return fn(ctx, nil)
}

type mockUserRepo struct {
	createFunc         func(ctx context.Context, q db.Querier, user userdomain.User) error
	findByUsernameFunc func(ctx context.Context, q db.Querier, username string) (userdomain.User, error)
	existsFunc         func(ctx context.Context, q db.Querier, username string) (bool, error)
	listUsernamesFunc  func(ctx context.Context, q db.Querier) ([]string, error)
	deleteFunc         func(ctx context.Context, q db.Querier, username string) error
}

func (m *mockUserRepo) Create(ctx context.Context, q db.Querier, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, q, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, q db.Querier, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, q, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) Exists(ctx context.Context, q db.Querier, username string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, q, username)
	}
	return true, nil
}

func (m *mockUserRepo) ListUsernames(ctx context.Context, q db.Querier) ([]string, error) {
	if m.listUsernamesFunc != nil {
		return m.listUsernamesFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, q db.Querier, username string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, q, username)
	}
	return nil
}

type mockEntryRepo struct {
	insertFunc      func(ctx context.Context, q db.Querier, username, title, content string) (domain.Entry, error)
	findByIDFunc    func(ctx context.Context, q db.Querier, id int64) (domain.Entry, error)
	listByOwnerFunc func(ctx context.Context, q db.Querier, username string) ([]domain.Summary, error)
	updateFunc      func(ctx context.Context, q db.Querier, id int64, title, content string) (domain.Entry, error)
	deleteFunc      func(ctx context.Context, q db.Querier, id int64) error
}

func (m *mockEntryRepo) Insert(ctx context.Context, q db.Querier, username, title, content string) (domain.Entry, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, q, username, title, content)
	}
	return domain.Entry{}, nil
}

func (m *mockEntryRepo) FindByID(ctx context.Context, q db.Querier, id int64) (domain.Entry, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, q, id)
	}
	return domain.Entry{}, entryrepo.ErrEntryNotFound
}

func (m *mockEntryRepo) ListByOwner(ctx context.Context, q db.Querier, username string) ([]domain.Summary, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, q, username)
	}
	return []domain.Summary{}, nil
}

func (m *mockEntryRepo) Update(ctx context.Context, q db.Querier, id int64, title, content string) (domain.Entry, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, q, id, title, content)
	}
	return domain.Entry{}, entryrepo.ErrEntryNotFound
}

func (m *mockEntryRepo) Delete(ctx context.Context, q db.Querier, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, q, id)
	}
	return nil
}
