package service_test

import (
	"context"
	"errors"

	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
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
	return []string{}, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, q db.Querier, username string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, q, username)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}
