package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.quotedesk/internal/model"
)

type MotiveStore interface {
	CreateMotive(motive *model.Motive) error
	ListMotives() ([]model.Motive, error)
}

type motiveResponse struct {
	Success bool           `json:"success"`
	Motive  *model.Motive  `json:"motive,omitempty"`
	Motives []model.Motive `json:"motives,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func CreateMotive(store MotiveStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreateMotiveParams{}
		if err := c.Bind(params); err != nil {
			return err
		}
		if params.Motive == "" {
			return c.JSON(http.StatusBadRequest, motiveResponse{Error: "motive is required"})
		}

		motive := &model.Motive{
			ID:     model.CreateID(),
			Motive: params.Motive,
		}
		if err := store.CreateMotive(motive); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, motiveResponse{Success: true, Motive: motive})
	}
}

func ListMotives(store MotiveStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		motives, err := store.ListMotives()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, motiveResponse{Success: true, Motives: motives})
	}
}
