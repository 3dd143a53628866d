package store

import (
	"fmt"

	"uk.co.dudmesh.quotedesk/internal/model"
)

func (s *Store) CreateMotive(motive *model.Motive) error {
	res, err := s.db.NamedExec(`insert into motive (ID, Motive) values(:ID, :Motive)`, motive)
	if err != nil {
		return fmt.Errorf("inserting motive: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *Store) ListMotives() ([]model.Motive, error) {
	motives := []model.Motive{}
	err := s.db.Select(&motives, `select * from motive order by Motive`)
	if err != nil {
		return nil, fmt.Errorf("listing motives: %w", err)
	}
	return motives, nil
}
