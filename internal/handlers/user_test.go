package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.quotedesk/internal/model"
	"uk.co.dudmesh.quotedesk/internal/service/register"
)

type fakeRegisterService struct {
	outcome *register.Outcome
	err     error
	cleared bool
}

func (s *fakeRegisterService) Reconcile(ctx context.Context, userID string, channelIDs []string) (*register.Outcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func (s *fakeRegisterService) ClearSessionCache() error {
	s.cleared = true
	return nil
}

type fakeUserStore struct {
	users map[model.UserID]*model.User
}

func (s *fakeUserStore) FetchUser(userID model.UserID) (*model.User, error) {
	if user, ok := s.users[userID]; ok {
		return user, nil
	}
	return nil, model.ErrorUserNotFound
}

func postUserInfo(t *testing.T, service RegisterService, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	server := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/user-info", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := RegisterUser(service)(server.NewContext(req, rec))
	if err != nil {
		t.Fatalf("handler returned error: %+v", err)
	}

	response := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %+v", err)
	}
	return rec, response
}

func TestRegisterUser(t *testing.T) {
	assert := assert.New(t)

	t.Run("registered", func(t *testing.T) {
		service := &fakeRegisterService{outcome: &register.Outcome{
			Status:    register.StatusRegistered,
			ChannelID: "chanA",
			User:      &model.User{UserID: "u1", Name: "Alice", IsAdmin: true},
		}}

		rec, response := postUserInfo(t, service, `{"userId":"u1","channelIds":["chanA"]}`)
		assert.Equal(http.StatusOK, rec.Code)
		assert.Equal(true, response["success"])

		users := response["users"].([]any)
		assert.Len(users, 1)
		first := users[0].(map[string]any)
		assert.Equal("chanA", first["channelId"])
		assert.Equal("Alice", first["user"].(map[string]any)["name"])
	})

	t.Run("already registered", func(t *testing.T) {
		service := &fakeRegisterService{outcome: &register.Outcome{Status: register.StatusAlreadyRegistered}}

		rec, response := postUserInfo(t, service, `{"userId":"u1","channelIds":["chanA"]}`)
		assert.Equal(http.StatusOK, rec.Code)
		assert.Equal(false, response["success"])
		assert.Equal(AlreadyRegisteredMessage, response["error"])
	})

	t.Run("missing input", func(t *testing.T) {
		service := &fakeRegisterService{err: model.ErrorMissingInput}

		rec, response := postUserInfo(t, service, `{"userId":"u1","channelIds":[]}`)
		assert.Equal(http.StatusBadRequest, rec.Code)
		assert.Equal(false, response["success"])
	})

	t.Run("in progress", func(t *testing.T) {
		service := &fakeRegisterService{err: model.ErrorRegistrationInProgress}

		rec, _ := postUserInfo(t, service, `{"userId":"u1","channelIds":["chanA"]}`)
		assert.Equal(http.StatusConflict, rec.Code)
	})

	t.Run("resolution failed surfaces per-channel errors", func(t *testing.T) {
		service := &fakeRegisterService{err: &register.ResolutionError{Errors: []register.ChannelError{
			{ChannelID: "chanA", Detail: "connection refused"},
			{ChannelID: "chanB", Detail: "incomplete user profile"},
		}}}

		rec, response := postUserInfo(t, service, `{"userId":"u1","channelIds":["chanA","chanB"]}`)
		assert.Equal(http.StatusOK, rec.Code)
		assert.Equal(false, response["success"])

		channelErrors := response["erros"].([]any)
		assert.Len(channelErrors, 2)
		assert.Equal("chanA", channelErrors[0].(map[string]any)["channelId"])
	})
}

func TestGetUserInfo(t *testing.T) {
	assert := assert.New(t)

	store := &fakeUserStore{users: map[model.UserID]*model.User{
		"u1": {UserID: "u1", Name: "Alice", IsAdmin: true},
	}}

	get := func(target string) (*httptest.ResponseRecorder, map[string]any) {
		server := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		assert.Nil(GetUserInfo(store)(server.NewContext(req, rec)))

		response := map[string]any{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &response))
		return rec, response
	}

	t.Run("existing user", func(t *testing.T) {
		rec, response := get("/user-info?userId=u1")
		assert.Equal(http.StatusOK, rec.Code)
		assert.Equal(true, response["success"])
		assert.Equal(true, response["exists"])
		assert.Equal("Alice", response["user"].(map[string]any)["name"])
	})

	t.Run("unknown user", func(t *testing.T) {
		rec, response := get("/user-info?userId=nobody")
		assert.Equal(http.StatusOK, rec.Code)
		assert.Equal(true, response["success"])
		assert.Equal(false, response["exists"])
	})

	t.Run("missing userId", func(t *testing.T) {
		rec, _ := get("/user-info")
		assert.Equal(http.StatusBadRequest, rec.Code)
	})
}

func TestFetchUser(t *testing.T) {
	assert := assert.New(t)

	store := &fakeUserStore{users: map[model.UserID]*model.User{
		"u1": {UserID: "u1", Name: "Alice"},
	}}

	fetch := func(userID string) *httptest.ResponseRecorder {
		server := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := server.NewContext(req, rec)
		c.SetPath("/user-info/:userId")
		c.SetParamNames("userId")
		c.SetParamValues(userID)
		assert.Nil(FetchUser(store)(c))
		return rec
	}

	t.Run("found", func(t *testing.T) {
		rec := fetch("u1")
		assert.Equal(http.StatusOK, rec.Code)
		assert.Contains(rec.Body.String(), "Alice")
	})

	t.Run("not found", func(t *testing.T) {
		rec := fetch("nobody")
		assert.Equal(http.StatusNotFound, rec.Code)
	})
}

func TestClearSessionCache(t *testing.T) {
	assert := assert.New(t)

	service := &fakeRegisterService{}
	server := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/session-cache", nil)
	rec := httptest.NewRecorder()

	assert.Nil(ClearSessionCache(service)(server.NewContext(req, rec)))
	assert.Equal(http.StatusOK, rec.Code)
	assert.True(service.cleared)
}
