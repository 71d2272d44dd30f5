package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"potluck/internal/api"
	"potluck/internal/commands"
	"potluck/internal/config"
	"potluck/internal/directory"
	"potluck/internal/feed"
	"potluck/internal/messenger"
	"potluck/internal/models"
	"potluck/internal/relay"
	"potluck/internal/session"
	"potluck/internal/storage"
)

func run(ctx context.Context) error {
	doLogin := flag.Bool("login", false, "Log in with an existing account")
	doSignup := flag.Bool("signup", false, "Create a new account")
	doLogout := flag.Bool("logout", false, "Log out and clear local state")
	doSetup := flag.Bool("setup", false, "Run the profile setup wizard")
	doFeed := flag.Bool("feed", false, "Show the home feed")
	doFriends := flag.Bool("friends", false, "List friends and handle pending requests")
	likeID := flag.String("like", "", "Recipe id to like")
	chatWith := flag.String("chat", "", "Friend username to chat with")
	doShop := flag.Bool("shop", false, "Browse the ingredient shop")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.NewBboltStore(cfg.StateFile, cfg.StateKeyFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sess := session.NewManager(store, logger)
	sess.Restore()

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, sess.Credential)
	dir := directory.New(ctx, client, directory.DefaultTTL)
	channel := relay.NewChannel(cfg.RelayURL, logger)

	deps := &commands.Deps{
		Config:    cfg,
		Session:   sess,
		API:       client,
		Feed:      feed.NewService(client, cfg.FeedLimit, logger),
		Messenger: messenger.New(client, channel, dir, sess, logger),
	}

	// Warm the directory with the profile already known locally.
	if id, ok := sess.Identity(); ok {
		dir.Prime(models.Profile{
			ID:             id.ID,
			Username:       id.Username,
			FullName:       id.FullName,
			ProfilePicture: id.ProfilePicture,
		})
	}

	switch {
	case *doLogin:
		return commands.Login(ctx, deps)
	case *doSignup:
		return commands.Signup(ctx, deps)
	case *doLogout:
		return commands.Logout(deps)
	case *doSetup:
		return commands.SetupProfile(ctx, deps)
	case *doFeed:
		return commands.ShowFeed(ctx, deps)
	case *doFriends:
		return commands.Friends(ctx, deps)
	case *likeID != "":
		return commands.Like(ctx, deps, *likeID)
	case *chatWith != "":
		return commands.Chat(ctx, deps, *chatWith)
	case *doShop:
		return commands.Shop(ctx, deps)
	}

	return status(deps)
}

func status(deps *commands.Deps) error {
	switch deps.Session.Stage() {
	case session.StageUnauthenticated:
		fmt.Println("Not logged in. Use -login or -signup.")
	case session.StageOnboarding:
		id, _ := deps.Session.Identity()
		fmt.Printf("Logged in as @%s. Profile setup pending; run with -setup.\n", id.Username)
	case session.StageReady:
		id, _ := deps.Session.Identity()
		fmt.Printf("Logged in as @%s.\n", id.Username)
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("potluck: %v", err)
	}
}
