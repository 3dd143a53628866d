package store

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Config interface {
	DataDirectory() string
}

type Store struct {
	db *sqlx.DB
}

func New(config Config) (*Store, error) {
	dbName := path.Join(config.DataDirectory(), "quotedesk.db")

	isCreating := false
	_, err := os.Stat(dbName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			isCreating = true
		}
	}

	db, err := sqlx.Connect("sqlite3", "file:"+dbName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	datastore := &Store{db}
	if isCreating {
		err = datastore.createTables()
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}

	return datastore, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	// the primary key on user.UserID is the sole cross-process guard
	// against duplicate registration
	_, err := s.db.Exec(`create table user(
		UserID    text not null primary key,
		CreatedAt DATETIME not null,
		Name      text not null,
		IsAdmin   boolean not null default false
	)`)
	if err != nil {
		return fmt.Errorf("creating user table: %w", err)
	}

	_, err = s.db.Exec(`create table motive(
		ID     text not null primary key,
		Motive text not null
	)`)
	if err != nil {
		return fmt.Errorf("creating motive table: %w", err)
	}

	_, err = s.db.Exec(`create table final_budget(
		ID          text not null primary key,
		CreatedAt   DATETIME not null,
		Name        text not null,
		IsAdmin     boolean not null default false,
		Value       real not null,
		Motive      text not null,
		Notes       text not null default '',
		Status      text not null,
		ContactName text not null default ''
	)`)
	if err != nil {
		return fmt.Errorf("creating final_budget table: %w", err)
	}

	return nil
}
