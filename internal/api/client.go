// Package api is the JSON client for the Potluck backend. All authenticated
// calls carry the bearer credential supplied by the token source.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"potluck/internal/models"
)

// TokenSource returns the current bearer credential, or "" when
// unauthenticated. The session manager provides one; the client itself
// never holds auth state.
type TokenSource func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp)
	return resp, err
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &resp)
	return resp, err
}

func (c *Client) Profile(ctx context.Context) (models.Identity, error) {
	var id models.Identity
	err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &id)
	return id, err
}

func (c *Client) UpdateProfile(ctx context.Context, patch models.IdentityPatch) (models.Identity, error) {
	var id models.Identity
	err := c.do(ctx, http.MethodPut, "/api/users/profile", patch, &id)
	return id, err
}

// User resolves a single public profile by id.
func (c *Client) User(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &p)
	return p, err
}

func (c *Client) Friends(ctx context.Context) ([]models.Profile, error) {
	var friends []models.Profile
	err := c.do(ctx, http.MethodGet, "/api/friends", nil, &friends)
	return friends, err
}

func (c *Client) FriendRequests(ctx context.Context) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := c.do(ctx, http.MethodGet, "/api/friends/requests", nil, &reqs)
	return reqs, err
}

func (c *Client) Suggestions(ctx context.Context) ([]models.Profile, error) {
	var suggestions []models.Profile
	err := c.do(ctx, http.MethodGet, "/api/friends/suggestions", nil, &suggestions)
	return suggestions, err
}

func (c *Client) SendFriendRequest(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/request/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) AcceptFriendRequest(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/accept/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) RejectFriendRequest(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/reject/"+url.PathEscape(userID), nil, nil)
}

// Messages fetches the full transcript with one friend, oldest first.
func (c *Client) Messages(ctx context.Context, friendID string) ([]models.Message, error) {
	var msgs []models.Message
	err := c.do(ctx, http.MethodGet, "/api/chat/messages/"+url.PathEscape(friendID), nil, &msgs)
	return msgs, err
}

// SendMessage is the authoritative send path: it returns the canonical
// stored message with its server-assigned id and timestamp.
func (c *Client) SendMessage(ctx context.Context, recipientID, body string) (models.Message, error) {
	req := struct {
		RecipientID string `json:"recipientId"`
		Message     string `json:"message"`
	}{RecipientID: recipientID, Message: body}

	var msg models.Message
	err := c.do(ctx, http.MethodPost, "/api/chat/send", req, &msg)
	return msg, err
}

func (c *Client) Feed(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	path := "/api/recipes/feed?limit=" + strconv.Itoa(limit)
	err := c.do(ctx, http.MethodGet, path, nil, &recipes)
	return recipes, err
}

type CreateRecipeRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

func (c *Client) CreateRecipe(ctx context.Context, req CreateRecipeRequest) (models.Recipe, error) {
	var recipe models.Recipe
	err := c.do(ctx, http.MethodPost, "/api/recipes", req, &recipe)
	return recipe, err
}

func (c *Client) Recipe(ctx context.Context, id string) (models.Recipe, error) {
	var recipe models.Recipe
	err := c.do(ctx, http.MethodGet, "/api/recipes/"+url.PathEscape(id), nil, &recipe)
	return recipe, err
}

func (c *Client) UpdateRecipe(ctx context.Context, id string, req CreateRecipeRequest) (models.Recipe, error) {
	var recipe models.Recipe
	err := c.do(ctx, http.MethodPut, "/api/recipes/"+url.PathEscape(id), req, &recipe)
	return recipe, err
}

func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/recipes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) LikeRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/recipes/"+url.PathEscape(id)+"/like", nil, nil)
}

func (c *Client) CommentRecipe(ctx context.Context, id, body string) (models.Comment, error) {
	req := struct {
		Text string `json:"text"`
	}{Text: body}

	var comment models.Comment
	err := c.do(ctx, http.MethodPost, "/api/recipes/"+url.PathEscape(id)+"/comment", req, &comment)
	return comment, err
}

func (c *Client) StoryFeed(ctx context.Context) ([]models.Story, error) {
	var stories []models.Story
	err := c.do(ctx, http.MethodGet, "/api/stories/feed", nil, &stories)
	return stories, err
}

type CreateStoryRequest struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption,omitempty"`
}

func (c *Client) CreateStory(ctx context.Context, req CreateStoryRequest) (models.Story, error) {
	var story models.Story
	err := c.do(ctx, http.MethodPost, "/api/stories", req, &story)
	return story, err
}

func (c *Client) MarkStoryViewed(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/stories/"+url.PathEscape(id)+"/view", nil, nil)
}

// UploadImage posts image bytes as multipart form data and returns the URL
// the backend stored them under. Callers sniff the payload with the media
// package first; mimeType comes from there.
func (c *Client) UploadImage(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.WriteField("mimeType", mimeType); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/image", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	c.setAuth(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("network error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	return result.URL, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}

	// The backend reports errors as {"message": "..."}; fall back to a
	// generic message for anything else.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
