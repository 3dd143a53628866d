package store

import (
	"fmt"

	"uk.co.dudmesh.quotedesk/internal/model"
)

func (s *Store) CreateFinalBudget(budget *model.FinalBudget) error {
	res, err := s.db.NamedExec(`insert into final_budget
		(ID, CreatedAt, Name, IsAdmin, Value, Motive, Notes, Status, ContactName)
		values(:ID, :CreatedAt, :Name, :IsAdmin, :Value, :Motive, :Notes, :Status, :ContactName)`, budget)
	if err != nil {
		return fmt.Errorf("inserting final budget: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *Store) ListFinalBudgets() ([]model.FinalBudget, error) {
	budgets := []model.FinalBudget{}
	err := s.db.Select(&budgets, `select * from final_budget order by CreatedAt desc, ID desc`)
	if err != nil {
		return nil, fmt.Errorf("listing final budgets: %w", err)
	}
	return budgets, nil
}

func (s *Store) BudgetStats() (*model.BudgetStats, error) {
	stats := &model.BudgetStats{}

	err := s.db.Get(&stats.Total, `select count(*) from final_budget`)
	if err != nil {
		return nil, fmt.Errorf("counting final budgets: %w", err)
	}

	statusQuery := `select count(*) as Count, coalesce(sum(Value), 0) as Value
		from final_budget where Status = ?`
	if err := s.db.Get(&stats.Won, statusQuery, model.BudgetStatusWon); err != nil {
		return nil, fmt.Errorf("aggregating won budgets: %w", err)
	}
	if err := s.db.Get(&stats.Lost, statusQuery, model.BudgetStatusLost); err != nil {
		return nil, fmt.Errorf("aggregating lost budgets: %w", err)
	}

	err = s.db.Select(&stats.ByMotive, `select Motive, count(*) as Count, coalesce(sum(Value), 0) as Value
		from final_budget group by Motive order by Count desc, Motive`)
	if err != nil {
		return nil, fmt.Errorf("aggregating budgets by motive: %w", err)
	}

	return stats, nil
}
