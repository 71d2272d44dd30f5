package commands

import (
	"bufio"
	"context"
	"fmt"
)

// Like toggles a like on a recipe. Per the app's error tier this never
// fails loudly; the feed service logs and moves on.
func Like(ctx context.Context, d *Deps, recipeID string) error {
	if !d.Session.Authenticated() {
		return fmt.Errorf("log in first")
	}
	d.Feed.Like(ctx, recipeID)
	return nil
}

// Friends lists friends and walks through pending requests one by one.
func Friends(ctx context.Context, d *Deps) error {
	if !d.Session.Authenticated() {
		return fmt.Errorf("log in first")
	}

	out := d.out()

	friends, err := d.API.Friends(ctx)
	if err != nil {
		return fmt.Errorf("failed to load friends: %w", err)
	}
	for _, f := range friends {
		fmt.Fprintf(out, "  @%s (%s)\n", f.Username, f.FullName)
	}
	if len(friends) == 0 {
		fmt.Fprintln(out, "No friends yet.")
	}

	requests, err := d.API.FriendRequests(ctx)
	if err != nil {
		return fmt.Errorf("failed to load friend requests: %w", err)
	}
	if len(requests) == 0 {
		return nil
	}

	r := bufio.NewReader(d.in())
	for _, req := range requests {
		answer, err := prompt(d, r, fmt.Sprintf("Friend request from @%s, accept? [y/N]", req.From.Username))
		if err != nil {
			return err
		}
		if answer == "y" || answer == "Y" {
			d.Feed.AcceptFriend(ctx, req.From.ID)
		} else {
			d.Feed.RejectFriend(ctx, req.From.ID)
		}
	}
	return nil
}
