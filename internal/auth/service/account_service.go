package service

import (
	"context"
	"errors"

	commoncrypto "github.com/dlcaspar/apt-journal/backend/internal/common/crypto"
	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
	commonerrors "github.com/dlcaspar/apt-journal/backend/internal/common/errors"
	"github.com/dlcaspar/apt-journal/backend/internal/common/logger"
	"github.com/dlcaspar/apt-journal/backend/internal/observability/metrics"
	userdomain "github.com/dlcaspar/apt-journal/backend/internal/user/domain"
	userrepo "github.com/dlcaspar/apt-journal/backend/internal/user/repository"
)

// AccountService owns the account lifecycle: signup, signin, the public
// username listing, and self-deletion with its entry cascade.
type AccountService struct {
	tx     db.TxManager
	pool   db.Querier
	users  userrepo.Repository
	hasher commoncrypto.PasswordHasher
	tokens *TokenIssuer
	log    *logger.Logger
}

func NewAccountService(
	tx db.TxManager,
	pool db.Querier,
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	tokens *TokenIssuer,
	log *logger.Logger,
) *AccountService {
	return &AccountService{
		tx:     tx,
		pool:   pool,
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

// Signup hashes the password, persists the account, and returns a token for
// it. Duplicate usernames surface as UserConflict via the storage unique
// constraint rather than a racy pre-check.
func (s *AccountService) Signup(ctx context.Context, username, password string) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "signup_attempt",
	}).Info("signup attempt")

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Errorf("signup failed: password hash error: %v", err)
		return "", err
	}

	user := userdomain.User{
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, s.pool, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "signup_conflict",
			}).Warn("signup failed: username taken")
			return "", commonerrors.ErrUserConflict
		}
		s.log.Errorf("signup failed: %v", err)
		return "", err
	}

	token, err := s.tokens.IssueToken(username)
	if err != nil {
		s.log.Errorf("signup failed: token issue error: %v", err)
		return "", err
	}

	metrics.SignupsTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "signup_success",
	}).Info("signup success")

	return token, nil
}

func (s *AccountService) Signin(ctx context.Context, username, password string) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "signin_attempt",
	}).Info("signin attempt")

	user, err := s.users.FindByUsername(ctx, s.pool, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "signin_user_not_found",
			}).Warn("signin failed: not found")
			return "", commonerrors.ErrUsernameNotFound
		}
		s.log.Errorf("signin failed: %v", err)
		return "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "signin_incorrect_password",
		}).Warn("signin failed: incorrect password")
		return "", commonerrors.ErrIncorrectPassword
	}

	token, err := s.tokens.IssueToken(username)
	if err != nil {
		s.log.Errorf("signin failed: token issue error: %v", err)
		return "", err
	}

	metrics.SigninsTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "signin_success",
	}).Info("signin success")

	return token, nil
}

func (s *AccountService) ListUsernames(ctx context.Context) ([]string, error) {
	return s.users.ListUsernames(ctx, s.pool)
}

// DeleteAccount removes the principal's own account inside a transaction.
// The existence re-check makes a stale token fail with ExpiredUser, and the
// foreign-key cascade deletes every entry the account owned before the
// transaction commits.
func (s *AccountService) DeleteAccount(ctx context.Context, principal string) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		exists, err := s.users.Exists(ctx, q, principal)
		if err != nil {
			return err
		}
		if !exists {
			metrics.ExpiredUserRejections.Inc()
			return commonerrors.ErrExpiredUser
		}

		return s.users.Delete(ctx, q, principal)
	})
	if err != nil {
		return err
	}

	metrics.AccountsDeleted.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": principal,
		"action":   "account_deleted",
	}).Info("account deleted")

	return nil
}
