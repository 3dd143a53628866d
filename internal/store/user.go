package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"uk.co.dudmesh.quotedesk/internal/model"
)

// CreateUserResult tags the outcome of an insert attempt so callers can
// branch on a conflict without inspecting driver errors.
type CreateUserResult int

const (
	UserInserted CreateUserResult = iota
	UserConflict
)

// CreateUser inserts a new user row. A uniqueness violation on UserID is
// reported as UserConflict with a nil error: a concurrent writer winning
// the race is an expected outcome, not a failure.
func (s *Store) CreateUser(user *model.User) (CreateUserResult, error) {
	res, err := s.db.NamedExec(`insert into user
		(UserID, CreatedAt, Name, IsAdmin)
		values(:UserID, :CreatedAt, :Name, :IsAdmin)`, user)

	if err != nil {
		var sqliteError sqlite3.Error
		if errors.As(err, &sqliteError) {
			switch sqliteError.ExtendedCode {
			case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
				return UserConflict, nil
			}
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return 0, fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return UserInserted, nil
}

func (s *Store) FetchUser(userID model.UserID) (*model.User, error) {
	user := &model.User{}
	err := s.db.Get(user, `select * from user where UserID = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorUserNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}
