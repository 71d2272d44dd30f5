package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"potluck/internal/models"
)

func staticToken(token string) TokenSource {
	return func() string { return token }
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.c", req.Email)

		_ = json.NewEncoder(w).Encode(AuthResponse{
			Token: "tok-123",
			User:  models.Identity{ID: "u1", Username: "alice"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken(""))
	resp, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "tok-123", resp.Token)
	require.Equal(t, "alice", resp.User.Username)
}

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.Identity{ID: "u1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken("tok-9"))
	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-9", gotAuth)
}

func TestNoBearerHeaderWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken(""))
	require.NoError(t, c.Health(context.Background()))
	require.Empty(t, gotAuth)
}

func TestAPIErrorFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"email already taken"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken(""))
	_, err := c.Signup(context.Background(), SignupRequest{Email: "a@b.c", Password: "pw"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "email already taken", apiErr.Message)
}

func TestAPIErrorGenericFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken("t"))
	err := c.LikeRecipe(context.Background(), "r1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestUnauthorizedMatchesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken("stale"))
	_, err := c.Friends(context.Background())
	require.True(t, errors.Is(err, ErrUnauthorized), "401 should match ErrUnauthorized, got %v", err)
}

func TestTransportErrorWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, staticToken(""))
	err := c.Health(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "network error")
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/send", r.URL.Path)

		var req struct {
			RecipientID string `json:"recipientId"`
			Message     string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "u2", req.RecipientID)

		_ = json.NewEncoder(w).Encode(models.Message{
			ID:          "m1",
			SenderID:    "u1",
			RecipientID: req.RecipientID,
			Body:        req.Message,
			SentAt:      1700000000000,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken("t"))
	msg, err := c.SendMessage(context.Background(), "u2", "dinner?")
	require.NoError(t, err)
	require.Equal(t, "m1", msg.ID)
	require.Equal(t, "dinner?", msg.Body)
	require.NotZero(t, msg.SentAt)
}

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "image/png", r.FormValue("mimeType"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		require.Equal(t, "avatar.png", hdr.Filename)

		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://img/u1.png"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken("t"))
	url, err := c.UploadImage(context.Background(), "avatar.png", "image/png", []byte{0x89, 0x50})
	require.NoError(t, err)
	require.Equal(t, "https://img/u1.png", url)
}
