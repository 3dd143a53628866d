package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.quotedesk/internal/model"
	"uk.co.dudmesh.quotedesk/internal/service/register"
)

// AlreadyRegisteredMessage tells the extension to proceed without
// treating the response as a failure.
const AlreadyRegisteredMessage = "account already registered, continuing"

type RegisterService interface {
	Reconcile(ctx context.Context, userID string, channelIDs []string) (*register.Outcome, error)
	ClearSessionCache() error
}

type UserStore interface {
	FetchUser(userID model.UserID) (*model.User, error)
}

type registeredUser struct {
	ChannelID string      `json:"channelId"`
	User      *model.User `json:"user"`
}

type registerResponse struct {
	Success bool             `json:"success"`
	Users   []registeredUser `json:"users,omitempty"`
	// "erros" is the extension's wire contract, do not rename
	Errors []register.ChannelError `json:"erros,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

func RegisterUser(service RegisterService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.RegisterUserParams{}
		if err := c.Bind(params); err != nil {
			return err
		}

		outcome, err := service.Reconcile(c.Request().Context(), params.UserID, params.ChannelIDs)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrorMissingInput):
				return c.JSON(http.StatusBadRequest, registerResponse{Error: err.Error()})
			case errors.Is(err, model.ErrorRegistrationInProgress):
				return c.JSON(http.StatusConflict, registerResponse{Error: err.Error()})
			}
			var resolutionError *register.ResolutionError
			if errors.As(err, &resolutionError) {
				return c.JSON(http.StatusOK, registerResponse{Errors: resolutionError.Errors})
			}
			return err
		}

		if outcome.Status == register.StatusAlreadyRegistered {
			return c.JSON(http.StatusOK, registerResponse{Error: AlreadyRegisteredMessage})
		}

		return c.JSON(http.StatusOK, registerResponse{
			Success: true,
			Users:   []registeredUser{{ChannelID: outcome.ChannelID, User: outcome.User}},
			Errors:  outcome.Errors,
		})
	}
}

type existsResponse struct {
	Success bool        `json:"success"`
	Exists  bool        `json:"exists"`
	User    *model.User `json:"user,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func GetUserInfo(store UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.QueryParam("userId")
		if userID == "" {
			return c.JSON(http.StatusBadRequest, existsResponse{Error: "userId is required"})
		}

		user, err := store.FetchUser(model.UserID(userID))
		if err != nil {
			if errors.Is(err, model.ErrorUserNotFound) {
				return c.JSON(http.StatusOK, existsResponse{Success: true, Exists: false})
			}
			return err
		}
		return c.JSON(http.StatusOK, existsResponse{Success: true, Exists: true, User: user})
	}
}

type userResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func FetchUser(store UserStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Param("userId")
		if userID == "" {
			return c.JSON(http.StatusBadRequest, userResponse{Error: "userId is required"})
		}

		user, err := store.FetchUser(model.UserID(userID))
		if err != nil {
			if errors.Is(err, model.ErrorUserNotFound) {
				return c.JSON(http.StatusNotFound, userResponse{Error: model.ErrorUserNotFound.Error()})
			}
			return err
		}
		return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
	}
}

func ClearSessionCache(service RegisterService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := service.ClearSessionCache(); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}
