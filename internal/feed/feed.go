// Package feed loads the home screen and carries the low-stakes social
// mutations. Likes, comments, friend actions and story views log failures
// and otherwise no-op, leaving local state unchanged.
package feed

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"potluck/internal/models"
)

type feedAPI interface {
	Feed(ctx context.Context, limit int) ([]models.Recipe, error)
	StoryFeed(ctx context.Context) ([]models.Story, error)
	Friends(ctx context.Context) ([]models.Profile, error)
	LikeRecipe(ctx context.Context, id string) error
	CommentRecipe(ctx context.Context, id, body string) (models.Comment, error)
	SendFriendRequest(ctx context.Context, userID string) error
	AcceptFriendRequest(ctx context.Context, userID string) error
	RejectFriendRequest(ctx context.Context, userID string) error
	MarkStoryViewed(ctx context.Context, id string) error
}

// Home is everything the landing screen renders.
type Home struct {
	Recipes []models.Recipe
	Stories []models.Story
	Friends []models.Profile
}

type Service struct {
	api    feedAPI
	limit  int
	logger *slog.Logger
}

func NewService(api feedAPI, limit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = 10
	}
	return &Service{api: api, limit: limit, logger: logger}
}

// LoadHome fetches recipes, stories and friends concurrently. Any single
// failure fails the load; the screen retries as a whole.
func (s *Service) LoadHome(ctx context.Context) (Home, error) {
	var home Home

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recipes, err := s.api.Feed(gCtx, s.limit)
		if err != nil {
			return err
		}
		home.Recipes = recipes
		return nil
	})

	g.Go(func() error {
		stories, err := s.api.StoryFeed(gCtx)
		if err != nil {
			return err
		}
		home.Stories = stories
		return nil
	})

	g.Go(func() error {
		friends, err := s.api.Friends(gCtx)
		if err != nil {
			return err
		}
		home.Friends = friends
		return nil
	})

	if err := g.Wait(); err != nil {
		return Home{}, err
	}
	return home, nil
}

// Like toggles a like on the backend. Failure is logged and swallowed.
func (s *Service) Like(ctx context.Context, recipeID string) {
	if err := s.api.LikeRecipe(ctx, recipeID); err != nil {
		s.logger.Warn("like failed", "recipe_id", recipeID, "error", err)
	}
}

// Comment posts a comment. Failure is logged and swallowed.
func (s *Service) Comment(ctx context.Context, recipeID, body string) {
	if _, err := s.api.CommentRecipe(ctx, recipeID, body); err != nil {
		s.logger.Warn("comment failed", "recipe_id", recipeID, "error", err)
	}
}

func (s *Service) RequestFriend(ctx context.Context, userID string) {
	if err := s.api.SendFriendRequest(ctx, userID); err != nil {
		s.logger.Warn("friend request failed", "user_id", userID, "error", err)
	}
}

func (s *Service) AcceptFriend(ctx context.Context, userID string) {
	if err := s.api.AcceptFriendRequest(ctx, userID); err != nil {
		s.logger.Warn("friend accept failed", "user_id", userID, "error", err)
	}
}

func (s *Service) RejectFriend(ctx context.Context, userID string) {
	if err := s.api.RejectFriendRequest(ctx, userID); err != nil {
		s.logger.Warn("friend reject failed", "user_id", userID, "error", err)
	}
}

func (s *Service) ViewStory(ctx context.Context, storyID string) {
	if err := s.api.MarkStoryViewed(ctx, storyID); err != nil {
		s.logger.Warn("story view failed", "story_id", storyID, "error", err)
	}
}
