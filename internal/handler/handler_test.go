package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftster/internal/auth"
	"giftster/internal/exchange"
	"giftster/internal/handler"
	"giftster/internal/models"
	"giftster/internal/server"
	"giftster/internal/service"
	"giftster/internal/storage/memory"
)

type nopMailer struct{}

func (nopMailer) Send(ctx context.Context, to, subject, htmlBody string) error { return nil }

// newTestServer wires the full router over a fresh in-memory store, exactly
// as main does, minus the listener.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := service.NewGuard(store)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	resetTokens := auth.NewResetTokenManager("test-secret", time.Hour)
	resetFlow := auth.NewPasswordResetFlow(store, resetTokens, nopMailer{}, "https://giftster.test", logger)

	h := server.Handlers{
		Auth:     handler.NewAuthHandler(authenticator, jwtManager, resetFlow, store),
		Group:    handler.NewGroupHandler(service.NewGroupService(store, guard, logger)),
		Gift:     handler.NewGiftHandler(service.NewGiftService(store, guard, logger)),
		Exchange: handler.NewExchangeHandler(service.NewExchangeService(store, guard, exchange.NewSeeded(3, 5), logger)),
	}

	ts := httptest.NewServer(server.NewRouter(h, jwtManager))
	t.Cleanup(ts.Close)
	return ts
}

// client is a tiny JSON API client for tests; token, when set, is sent as a
// bearer token.
type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func (c *client) post(path string, body any, want int, out any) {
	c.t.Helper()
	resp, data := c.do(http.MethodPost, path, body)
	require.Equal(c.t, want, resp.StatusCode, "POST %s: %s", path, data)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(data, out))
	}
}

func (c *client) get(path string, want int, out any) {
	c.t.Helper()
	resp, data := c.do(http.MethodGet, path, nil)
	require.Equal(c.t, want, resp.StatusCode, "GET %s: %s", path, data)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(data, out))
	}
}

type session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func register(t *testing.T, base, firstName, email string) *client {
	t.Helper()
	c := &client{t: t, base: base}
	var s session
	c.post("/api/v1/auth/register", map[string]string{
		"firstName": firstName,
		"lastName":  "Tester",
		"email":     email,
		"password":  "password123",
	}, http.StatusCreated, &s)
	require.NotEmpty(t, s.Token)
	c.token = s.Token
	return c
}

// TestAPIFlow drives the whole product over HTTP: register two users, create
// a group, join it by code, add an item, claim it, and run the exchange.
func TestAPIFlow(t *testing.T) {
	ts := newTestServer(t)

	alice := register(t, ts.URL, "Alice", "alice@example.com")
	bob := register(t, ts.URL, "Bob", "bob@example.com")

	// Alice creates the group.
	var group models.Group
	alice.post("/api/v1/groups", map[string]string{"name": "Family"}, http.StatusCreated, &group)
	require.Len(t, group.JoinCode, models.JoinCodeLength)

	// Bob joins with the code.
	var joined struct {
		Group         models.Group `json:"group"`
		AlreadyMember bool         `json:"alreadyMember"`
	}
	bob.post("/api/v1/groups/join", map[string]string{"joinCode": group.JoinCode}, http.StatusOK, &joined)
	assert.Equal(t, group.ID, joined.Group.ID)
	assert.False(t, joined.AlreadyMember)

	// Joining again reports membership instead of failing.
	bob.post("/api/v1/groups/join", map[string]string{"joinCode": group.JoinCode}, http.StatusOK, &joined)
	assert.True(t, joined.AlreadyMember)

	// Alice adds a bike to her list.
	var bike models.GiftItem
	alice.post(fmt.Sprintf("/api/v1/groups/%s/gifts", group.ID), map[string]string{"name": "Bike"}, http.StatusCreated, &bike)

	// Bob sees it on the group page, unclaimed.
	var detail service.GroupDetail
	bob.get("/api/v1/groups/"+group.ID, http.StatusOK, &detail)
	require.Len(t, detail.Members, 1)
	require.Len(t, detail.Members[0].Gifts, 1)
	assert.False(t, detail.Members[0].Gifts[0].IsClaimed)

	// Bob claims it; Alice's own list never shows the claim.
	resp, _ := bob.do(http.MethodPost, "/api/v1/gifts/"+bike.ID+"/claim", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var myList []models.GiftItem
	alice.get(fmt.Sprintf("/api/v1/groups/%s/my-list", group.ID), http.StatusOK, &myList)
	require.Len(t, myList, 1)

	bob.get("/api/v1/groups/"+group.ID, http.StatusOK, &detail)
	assert.True(t, detail.Members[0].Gifts[0].IsClaimed)
	assert.Equal(t, 1, detail.Members[0].ClaimedByMe)

	// Alice cannot claim her own item.
	resp, _ = alice.do(http.MethodPost, "/api/v1/gifts/"+bike.ID+"/claim", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Bob's dashboard shows nothing left to shop for.
	var dashboard []service.GroupSummary
	bob.get("/api/v1/groups", http.StatusOK, &dashboard)
	require.Len(t, dashboard, 1)
	assert.Equal(t, 2, dashboard[0].MemberCount)
	assert.Equal(t, 0, dashboard[0].NeedsGiftCount)

	// Only the creator can start the exchange.
	resp, _ = bob.do(http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/exchange", group.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	alice.post(fmt.Sprintf("/api/v1/groups/%s/exchange", group.ID), nil, http.StatusCreated, nil)

	// With two members each gives to the other.
	var assignment struct {
		Receiver models.User `json:"receiver"`
	}
	alice.get(fmt.Sprintf("/api/v1/groups/%s/exchange/assignment", group.ID), http.StatusOK, &assignment)
	assert.Equal(t, "Bob", assignment.Receiver.FirstName)

	bob.get(fmt.Sprintf("/api/v1/groups/%s/exchange/assignment", group.ID), http.StatusOK, &assignment)
	assert.Equal(t, "Alice", assignment.Receiver.FirstName)

	// Starting twice is rejected.
	resp, _ = alice.do(http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/exchange", group.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPIAuth(t *testing.T) {
	ts := newTestServer(t)

	t.Run("protected routes need a token", func(t *testing.T) {
		c := &client{t: t, base: ts.URL}
		resp, _ := c.do(http.MethodGet, "/api/v1/groups", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		c := &client{t: t, base: ts.URL, token: "not-a-token"}
		resp, _ := c.do(http.MethodGet, "/api/v1/me", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("register then me", func(t *testing.T) {
		alice := register(t, ts.URL, "Alice", "alice@example.com")

		var me models.User
		alice.get("/api/v1/me", http.StatusOK, &me)
		assert.Equal(t, "alice@example.com", me.Email)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		c := &client{t: t, base: ts.URL}
		var errResp handler.ErrorResponse
		c.post("/api/v1/auth/register", map[string]string{
			"firstName": "Alicia",
			"lastName":  "Tester",
			"email":     "ALICE@example.com",
			"password":  "password123",
		}, http.StatusConflict, &errResp)
		assert.Equal(t, "email_taken", errResp.Error)
	})

	t.Run("login", func(t *testing.T) {
		c := &client{t: t, base: ts.URL}
		var s session
		c.post("/api/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		}, http.StatusOK, &s)
		assert.NotEmpty(t, s.Token)

		c.post("/api/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrongpassword",
		}, http.StatusUnauthorized, nil)
	})

	t.Run("password reset request never reveals accounts", func(t *testing.T) {
		c := &client{t: t, base: ts.URL}
		c.post("/api/v1/auth/password-reset", map[string]string{"email": "alice@example.com"}, http.StatusAccepted, nil)
		c.post("/api/v1/auth/password-reset", map[string]string{"email": "nobody@example.com"}, http.StatusAccepted, nil)
	})

	t.Run("healthz is public", func(t *testing.T) {
		c := &client{t: t, base: ts.URL}
		resp, body := c.do(http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", string(body))
	})
}
