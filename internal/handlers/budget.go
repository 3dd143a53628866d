package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.quotedesk/internal/model"
)

type BudgetStore interface {
	CreateFinalBudget(budget *model.FinalBudget) error
	ListFinalBudgets() ([]model.FinalBudget, error)
	BudgetStats() (*model.BudgetStats, error)
}

type budgetResponse struct {
	Success bool                `json:"success"`
	Budget  *model.FinalBudget  `json:"budget,omitempty"`
	Budgets []model.FinalBudget `json:"budgets,omitempty"`
	Stats   *model.BudgetStats  `json:"stats,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func CreateFinalBudget(store BudgetStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreateFinalBudgetParams{}
		if err := c.Bind(params); err != nil {
			return err
		}
		if params.Name == "" || params.Value == 0 || params.Motive == "" || params.Status == "" {
			return c.JSON(http.StatusBadRequest, budgetResponse{Error: "name, value, motive and status are required"})
		}
		if !params.Status.Valid() {
			return c.JSON(http.StatusBadRequest, budgetResponse{Error: "status must be won or lost"})
		}

		budget := &model.FinalBudget{
			ID:          model.CreateID(),
			CreatedAt:   time.Now().UTC(),
			Name:        params.Name,
			IsAdmin:     params.IsAdmin,
			Value:       params.Value,
			Motive:      params.Motive,
			Notes:       params.Notes,
			Status:      params.Status,
			ContactName: params.ContactName,
		}
		if err := store.CreateFinalBudget(budget); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, budgetResponse{Success: true, Budget: budget})
	}
}

func ListFinalBudgets(store BudgetStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		budgets, err := store.ListFinalBudgets()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, budgetResponse{Success: true, Budgets: budgets})
	}
}

func BudgetStats(store BudgetStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := store.BudgetStats()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, budgetResponse{Success: true, Stats: stats})
	}
}
