package service

import (
	"context"
	"errors"

	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
	commonerrors "github.com/dlcaspar/apt-journal/backend/internal/common/errors"
	"github.com/dlcaspar/apt-journal/backend/internal/common/logger"
	"github.com/dlcaspar/apt-journal/backend/internal/entry/domain"
	entryrepo "github.com/dlcaspar/apt-journal/backend/internal/entry/repository"
	"github.com/dlcaspar/apt-journal/backend/internal/observability/metrics"
	userrepo "github.com/dlcaspar/apt-journal/backend/internal/user/repository"
)

// Service implements the journal entry operations. Every operation runs in
// one transaction that is committed or rolled back before the caller can
// respond, and every operation re-checks that the principal's account still
// exists before trusting the token's claim.
type Service struct {
	tx      db.TxManager
	users   userrepo.Repository
	entries entryrepo.Repository
	log     *logger.Logger
}

func NewService(tx db.TxManager, users userrepo.Repository, entries entryrepo.Repository, log *logger.Logger) *Service {
	return &Service{
		tx:      tx,
		users:   users,
		entries: entries,
		log:     log,
	}
}

// Index is the list-entries response shape.
type Index struct {
	Count   int
	User    string
	Entries []domain.Summary
}

func (s *Service) List(ctx context.Context, principal string) (Index, error) {
	var index Index
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := s.ensureAccount(ctx, q, principal); err != nil {
			return err
		}

		summaries, err := s.entries.ListByOwner(ctx, q, principal)
		if err != nil {
			return err
		}

		index = Index{
			Count:   len(summaries),
			User:    principal,
			Entries: summaries,
		}
		return nil
	})
	return index, err
}

func (s *Service) Create(ctx context.Context, principal, title, content string) (domain.Entry, error) {
	var entry domain.Entry
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := s.ensureAccount(ctx, q, principal); err != nil {
			return err
		}

		created, err := s.entries.Insert(ctx, q, principal, title, content)
		if err != nil {
			return err
		}

		entry = created
		return nil
	})
	if err != nil {
		return domain.Entry{}, err
	}

	metrics.EntriesCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": principal,
		"entry_id": entry.ID,
		"action":   "entry_created",
	}).Info("entry created")

	return entry, nil
}

func (s *Service) Get(ctx context.Context, principal string, entryID int64) (domain.Entry, error) {
	var entry domain.Entry
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := s.ensureAccount(ctx, q, principal); err != nil {
			return err
		}

		found, err := s.fetchOwned(ctx, q, principal, entryID)
		if err != nil {
			return err
		}

		entry = found
		return nil
	})
	return entry, err
}

func (s *Service) Replace(ctx context.Context, principal string, entryID int64, title, content string) (domain.Entry, error) {
	var entry domain.Entry
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := s.ensureAccount(ctx, q, principal); err != nil {
			return err
		}

		if _, err := s.fetchOwned(ctx, q, principal, entryID); err != nil {
			return err
		}

		updated, err := s.entries.Update(ctx, q, entryID, title, content)
		if err != nil {
			return err
		}

		entry = updated
		return nil
	})
	if err != nil {
		return domain.Entry{}, err
	}

	metrics.EntriesUpdated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": principal,
		"entry_id": entryID,
		"action":   "entry_replaced",
	}).Info("entry replaced")

	return entry, nil
}

func (s *Service) Delete(ctx context.Context, principal string, entryID int64) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := s.ensureAccount(ctx, q, principal); err != nil {
			return err
		}

		if _, err := s.fetchOwned(ctx, q, principal, entryID); err != nil {
			return err
		}

		return s.entries.Delete(ctx, q, entryID)
	})
	if err != nil {
		return err
	}

	metrics.EntriesDeleted.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": principal,
		"entry_id": entryID,
		"action":   "entry_deleted",
	}).Info("entry deleted")

	return nil
}

// ensureAccount re-resolves the principal against storage. A token can
// verify long after its account was deleted; such requests fail here with
// ExpiredUser instead of acting on ghost identities.
func (s *Service) ensureAccount(ctx context.Context, q db.Querier, principal string) error {
	exists, err := s.users.Exists(ctx, q, principal)
	if err != nil {
		return err
	}
	if !exists {
		metrics.ExpiredUserRejections.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"username": principal,
			"action":   "expired_user",
		}).Warn("token names a nonexistent account")
		return commonerrors.ErrExpiredUser
	}
	return nil
}

// fetchOwned loads the entry by primary key and then compares its stored
// owner against the principal. The fetch-then-compare order keeps a missing
// entry (404) distinguishable from someone else's entry (403).
func (s *Service) fetchOwned(ctx context.Context, q db.Querier, principal string, entryID int64) (domain.Entry, error) {
	entry, err := s.entries.FindByID(ctx, q, entryID)
	if err != nil {
		if errors.Is(err, entryrepo.ErrEntryNotFound) {
			return domain.Entry{}, commonerrors.ErrEntryNotFound
		}
		return domain.Entry{}, err
	}

	if entry.Username != principal {
		metrics.OwnershipDenials.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"username": principal,
			"owner":    entry.Username,
			"entry_id": entryID,
			"action":   "entry_access_denied",
		}).Warn("entry access denied")
		return domain.Entry{}, commonerrors.ErrEntryNoAccess
	}

	return entry, nil
}
