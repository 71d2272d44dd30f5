package commands

import (
	"context"
	"fmt"
	"time"

	"potluck/internal/content"
)

// ShowFeed loads the home screen and prints it. Recipe descriptions are
// markdown; they are rendered and sanitized before display.
func ShowFeed(ctx context.Context, d *Deps) error {
	if !d.Session.Authenticated() {
		return fmt.Errorf("log in first")
	}

	home, err := d.Feed.LoadHome(ctx)
	if err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}

	out := d.out()

	if len(home.Stories) > 0 {
		fmt.Fprintf(out, "Stories (%d):", len(home.Stories))
		for _, s := range home.Stories {
			fmt.Fprintf(out, " @%s", s.Author.Username)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)
	}

	for _, r := range home.Recipes {
		fmt.Fprintf(out, "== %s by @%s (%d likes, %d comments)\n",
			r.Title, r.Author.Username, len(r.Likes), len(r.Comments))

		desc, err := content.Render(r.Description)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(desc))
		fmt.Fprintf(out, "   posted %s\n\n", time.UnixMilli(r.CreatedAt).Format(time.DateTime))
	}

	fmt.Fprintf(out, "%d friends online.\n", len(home.Friends))
	return nil
}
