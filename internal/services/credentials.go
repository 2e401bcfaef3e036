package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/users"
)

// Bootstrap account created in an empty auth database.
const (
	DefaultUsername = "user"
	DefaultPassword = "password"
)

// CredentialStore manages accounts in the auth database.
type CredentialStore struct {
	db     DatabaseHandle
	repos  repomanager.RepositoryManager
	hasher cryptox.Hasher
	log    logging.Logger
	now    func() time.Time
}

// NewCredentialStore hashes new passwords with hasher. Existing hashes of any
// supported scheme keep verifying.
func NewCredentialStore(db DatabaseHandle, repos repomanager.RepositoryManager, hasher cryptox.Hasher, log logging.Logger, opts ...Option) *CredentialStore {
	o := applyOptions(opts)
	return &CredentialStore{
		db:     db,
		repos:  repos,
		hasher: hasher,
		log:    logging.ForComponent(log, "credentials"),
		now:    o.now,
	}
}

func (s *CredentialStore) repo() users.Repository {
	return s.repos.Users(s.db.DB())
}

func (s *CredentialStore) timestamp() time.Time {
	return s.now().Truncate(time.Second)
}

// Bootstrap inserts the default account when the user table is empty.
func (s *CredentialStore) Bootstrap(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		hash, err := s.hasher.Hash(DefaultPassword)
		if err != nil {
			return err
		}
		u := &models.User{Username: DefaultUsername, PasswordHash: hash, CreatedAt: s.timestamp()}
		if err := repo.Create(ctx, u); err != nil {
			return err
		}
		s.log.Info(ctx, "default account created", "op", "Bootstrap", "username", DefaultUsername)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "bootstrap failed", "op", "Bootstrap", "error", err)
		return fmt.Errorf("bootstrap accounts: %w", err)
	}
	return nil
}

// UserExists reports whether username is taken. The match is case-sensitive.
func (s *CredentialStore) UserExists(ctx context.Context, username string) Result[bool] {
	return read(ctx, s.log, "UserExists", false, func() (bool, error) {
		return s.repo().Exists(ctx, username)
	}, "username", username)
}

// Register creates an account. It returns false when the input is empty or
// the username is taken.
func (s *CredentialStore) Register(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	repo := s.repo()
	exists, err := repo.Exists(ctx, username)
	if err != nil {
		s.log.Error(ctx, "register failed", "op", "Register", "username", username, "error", err)
		return false, err
	}
	if exists {
		s.log.Info(ctx, "username taken", "op", "Register", "username", username)
		return false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "hash failed", "op", "Register", "username", username, "error", err)
		return false, err
	}

	u := &models.User{Username: username, PasswordHash: hash, CreatedAt: s.timestamp()}
	if err := repo.Create(ctx, u); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return false, nil
		}
		s.log.Error(ctx, "register failed", "op", "Register", "username", username, "error", err)
		return false, err
	}

	s.log.Info(ctx, "user registered", "op", "Register", "username", username, "user_id", u.ID)
	return true, nil
}

// Login returns the account when username and password match, recording
// the login time. Value is nil for an unknown user or a wrong password alike.
func (s *CredentialStore) Login(ctx context.Context, username, password string) Result[*models.User] {
	return read[*models.User](ctx, s.log, "Login", nil, func() (*models.User, error) {
		repo := s.repo()

		u, err := notFoundAsNil(repo.GetByUsername(ctx, username))
		if err != nil || u == nil {
			return nil, err
		}
		if !cryptox.Verify(password, u.PasswordHash) {
			s.log.Info(ctx, "password mismatch", "op", "Login", "username", username)
			return nil, nil
		}

		at := s.timestamp()
		if err := repo.UpdateLastLogin(ctx, u.ID, at); err != nil {
			s.log.Warn(ctx, "last login not recorded", "op", "Login", "user_id", u.ID, "error", err)
		} else {
			u.LastLogin = &at
		}
		return u, nil
	}, "username", username)
}

// VerifyPassword checks password against the stored hash of userID.
func (s *CredentialStore) VerifyPassword(ctx context.Context, userID int64, password string) Result[bool] {
	return read(ctx, s.log, "VerifyPassword", false, func() (bool, error) {
		u, err := notFoundAsNil(s.repo().GetByID(ctx, userID))
		if err != nil || u == nil {
			return false, err
		}
		return cryptox.Verify(password, u.PasswordHash), nil
	}, "user_id", userID)
}

// ChangePassword replaces the password after re-verifying the current one.
// It returns false without changes when verification fails.
func (s *CredentialStore) ChangePassword(ctx context.Context, userID int64, current, next string) (bool, error) {
	if next == "" {
		return false, nil
	}

	repo := s.repo()
	u, err := notFoundAsNil(repo.GetByID(ctx, userID))
	if err != nil {
		s.log.Error(ctx, "change password failed", "op", "ChangePassword", "user_id", userID, "error", err)
		return false, err
	}
	if u == nil || !cryptox.Verify(current, u.PasswordHash) {
		s.log.Info(ctx, "current password rejected", "op", "ChangePassword", "user_id", userID)
		return false, nil
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return false, err
	}
	if err := repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.log.Error(ctx, "change password failed", "op", "ChangePassword", "user_id", userID, "error", err)
		return false, err
	}

	s.log.Info(ctx, "password changed", "op", "ChangePassword", "user_id", userID)
	return true, nil
}

// DeleteAccount removes the account after re-verifying password. It returns
// false without changes when verification fails.
func (s *CredentialStore) DeleteAccount(ctx context.Context, userID int64, password string) (bool, error) {
	var deleted bool
	err := dbx.WithTx(ctx, s.db.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		u, err := notFoundAsNil(repo.GetByID(ctx, userID))
		if err != nil {
			return err
		}
		if u == nil || !cryptox.Verify(password, u.PasswordHash) {
			return nil
		}

		deleted, err = repo.Delete(ctx, userID)
		return err
	})
	if err != nil {
		s.log.Error(ctx, "delete account failed", "op", "DeleteAccount", "user_id", userID, "error", err)
		return false, err
	}

	if deleted {
		s.log.Info(ctx, "account deleted", "op", "DeleteAccount", "user_id", userID)
	} else {
		s.log.Info(ctx, "password rejected", "op", "DeleteAccount", "user_id", userID)
	}
	return deleted, nil
}

func (s *CredentialStore) GetUserByUsername(ctx context.Context, username string) Result[*models.User] {
	return read[*models.User](ctx, s.log, "GetUserByUsername", nil, func() (*models.User, error) {
		return notFoundAsNil(s.repo().GetByUsername(ctx, username))
	}, "username", username)
}

func (s *CredentialStore) GetUserByID(ctx context.Context, userID int64) Result[*models.User] {
	return read[*models.User](ctx, s.log, "GetUserByID", nil, func() (*models.User, error) {
		return notFoundAsNil(s.repo().GetByID(ctx, userID))
	}, "user_id", userID)
}

func (s *CredentialStore) GetTotalUsers(ctx context.Context) Result[int] {
	return read(ctx, s.log, "GetTotalUsers", 0, func() (int, error) {
		return s.repo().Count(ctx)
	})
}
