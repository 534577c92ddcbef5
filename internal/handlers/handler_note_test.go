package handlers_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/core/services"
	"github.com/notely/notely_backend/internal/handlers"
	"github.com/notely/notely_backend/internal/platform/config"
	"github.com/notely/notely_backend/internal/utils"
)

type noteEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Content    string `json:"content"`
		IsArchived bool   `json:"isArchived"`
	} `json:"data"`
}

type noteListEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Notes []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"notes"`
		NextToken string `json:"nextToken"`
	} `json:"data"`
}

type NoteHandlerTestSuite struct {
	suite.Suite
	cfg    *config.Config
	router *gin.Engine

	aliceCookie *http.Cookie
	bobCookie   *http.Cookie
}

func (suite *NoteHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		Port:                     "8080",
		JWTSecret:                "note-test-secret",
		JWTExpiryDuration:        time.Hour,
		JWTIssuer:                "notely-backend",
		SessionCookieName:        "jwt",
		SessionCookieMaxAge:      720 * time.Hour,
		ResetTokenExpiryDuration: 10 * time.Minute,
		FrontendBaseURL:          "http://localhost:3000",
	}

	userRepo := newFakeUserRepo()
	accountRepo := newFakeAccountRepo()
	noteRepo := newFakeNoteRepo()

	container := &portssvc.ServiceContainer{
		User:               services.NewUserService(userRepo, accountRepo),
		TokenService:       services.NewTokenService(suite.cfg, userRepo),
		GoogleOAuthHandler: services.NewGoogleOAuthHandlerService(suite.cfg),
		Notifier:           &fakeNotifier{},
		Note:               services.NewNoteService(noteRepo),
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, container, utils.InitializePosthogClient("", slog.Default()))

	suite.aliceCookie = suite.registerAndGetCookie("Alice", "alice@example.com")
	suite.bobCookie = suite.registerAndGetCookie("Bob", "bob@example.com")
}

func (suite *NoteHandlerTestSuite) registerAndGetCookie(name, email string) *http.Cookie {
	w := suite.do(http.MethodPost, "/auth/register", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == suite.cfg.SessionCookieName {
			return c
		}
	}
	suite.Require().FailNow("no session cookie in register response")
	return nil
}

func (suite *NoteHandlerTestSuite) do(method, path string, payload any, cookie *http.Cookie) *httptest.ResponseRecorder {
	body := bytes.NewBuffer(nil)
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *NoteHandlerTestSuite) createNote(cookie *http.Cookie, title, content string) string {
	w := suite.do(http.MethodPost, "/api/v1/notes", gin.H{"title": title, "content": content}, cookie)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var body noteEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().NotEmpty(body.Data.ID)
	return body.Data.ID
}

func (suite *NoteHandlerTestSuite) TestCreateAndGetNote() {
	noteID := suite.createNote(suite.aliceCookie, "Groceries", "milk, eggs")

	w := suite.do(http.MethodGet, "/api/v1/notes/"+noteID, nil, suite.aliceCookie)

	suite.Equal(http.StatusOK, w.Code)
	var body noteEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("Groceries", body.Data.Title)
	suite.Equal("milk, eggs", body.Data.Content)
	suite.False(body.Data.IsArchived)
}

func (suite *NoteHandlerTestSuite) TestNotesRequireAuth() {
	w := suite.do(http.MethodGet, "/api/v1/notes", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/notes", gin.H{"title": "t", "content": "c"}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *NoteHandlerTestSuite) TestNotesAreOwnerScoped() {
	noteID := suite.createNote(suite.aliceCookie, "Private", "alice only")

	// Another user's session sees the note as missing, on every operation.
	w := suite.do(http.MethodGet, "/api/v1/notes/"+noteID, nil, suite.bobCookie)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/notes/"+noteID, gin.H{"title": "stolen"}, suite.bobCookie)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/notes/"+noteID, nil, suite.bobCookie)
	suite.Equal(http.StatusNotFound, w.Code)

	// The owner still sees it untouched.
	w = suite.do(http.MethodGet, "/api/v1/notes/"+noteID, nil, suite.aliceCookie)
	suite.Equal(http.StatusOK, w.Code)
	var body noteEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("Private", body.Data.Title)
}

func (suite *NoteHandlerTestSuite) TestListNotes() {
	suite.createNote(suite.aliceCookie, "first", "1")
	suite.createNote(suite.aliceCookie, "second", "2")
	suite.createNote(suite.bobCookie, "bobs", "b")

	w := suite.do(http.MethodGet, "/api/v1/notes", nil, suite.aliceCookie)

	suite.Equal(http.StatusOK, w.Code)
	var body noteListEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Data.Notes, 2, "Only the caller's notes are listed")
	suite.Empty(body.Data.NextToken)
}

func (suite *NoteHandlerTestSuite) TestUpdateNote() {
	noteID := suite.createNote(suite.aliceCookie, "draft", "wip")

	w := suite.do(http.MethodPatch, "/api/v1/notes/"+noteID, gin.H{"title": "final", "isArchived": true}, suite.aliceCookie)

	suite.Equal(http.StatusOK, w.Code)
	var body noteEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("final", body.Data.Title)
	suite.Equal("wip", body.Data.Content, "Omitted fields keep their value")
	suite.True(body.Data.IsArchived)
}

func (suite *NoteHandlerTestSuite) TestDeleteNote() {
	noteID := suite.createNote(suite.aliceCookie, "doomed", "x")

	w := suite.do(http.MethodDelete, "/api/v1/notes/"+noteID, nil, suite.aliceCookie)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/notes/"+noteID, nil, suite.aliceCookie)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *NoteHandlerTestSuite) TestDeleteNote_Unknown() {
	w := suite.do(http.MethodDelete, "/api/v1/notes/does-not-exist", nil, suite.aliceCookie)

	suite.Equal(http.StatusNotFound, w.Code)
	var body noteEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("Note not found", body.Message)
}

// --- Run Suite ---
func TestNoteHandler(t *testing.T) {
	suite.Run(t, new(NoteHandlerTestSuite))
}
