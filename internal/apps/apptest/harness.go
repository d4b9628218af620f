// Package apptest runs a single plugin behind the real access gate on an
// in-memory database.
package apptest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jollyhome/jollyhome-api/internal/apps"
	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/middleware"
	"github.com/jollyhome/jollyhome-api/internal/services"
	"github.com/jollyhome/jollyhome-api/internal/testutil"
)

type Harness struct {
	App    *fiber.App
	DB     *gorm.DB
	Tokens *services.TokenService
	Users  *services.UserService
}

func New(t *testing.T, hardened bool, plugin apps.Plugin) *Harness {
	t.Helper()

	db := testutil.NewDB(t, plugin.Models()...)
	tokens := services.NewTokenService("test-secret", time.Hour, nil)
	users := services.NewUserService(db)
	gate := middleware.NewGate(tokens, users, hardened)

	app := fiber.New()
	plugin.RegisterRoutes(app, gate, db, &config.Config{HardenedAccess: hardened})

	return &Harness{App: app, DB: db, Tokens: tokens, Users: users}
}

func (h *Harness) Token(t *testing.T, email string) string {
	t.Helper()
	token, err := h.Tokens.Issue(map[string]interface{}{"email": email})
	require.NoError(t, err)
	return token
}

// Admin stores email as an admin and returns a token for it.
func (h *Harness) Admin(t *testing.T, email string) string {
	t.Helper()
	require.NoError(t, h.Users.EnsureAdmins(context.Background(), []string{email}))
	return h.Token(t, email)
}

func (h *Harness) Member(t *testing.T, email string) string {
	t.Helper()
	_, err := h.Users.Upsert(context.Background(), &dto.UpsertUserRequest{Email: email})
	require.NoError(t, err)
	return h.Token(t, email)
}

// Do sends body as JSON when it is not nil and returns the status and raw
// response body.
func (h *Harness) Do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// Decode unmarshals a response body into v.
func Decode(t *testing.T, raw []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}
