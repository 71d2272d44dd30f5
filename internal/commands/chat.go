package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"potluck/internal/messenger"
	"potluck/internal/models"
)

// Chat opens a live conversation with a friend, printing the transcript,
// streaming inbound pushes, and sending stdin lines until EOF or ctx
// cancellation.
func Chat(ctx context.Context, d *Deps, friendUsername string) error {
	if !d.Session.Authenticated() {
		return fmt.Errorf("log in first")
	}

	peer, err := findFriend(ctx, d, friendUsername)
	if err != nil {
		return err
	}

	out := d.out()

	if err := d.Messenger.Start(ctx); err != nil {
		return err
	}
	defer d.Messenger.Stop()

	t, err := d.Messenger.OpenConversation(ctx, peer.ID)
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}
	defer d.Messenger.CloseConversation(peer.ID)

	self, _ := d.Session.Identity()
	for _, msg := range t.Messages() {
		printMessage(out, msg, self.ID, peer)
	}

	d.Messenger.OnInbound(func(in messenger.Inbound) {
		// Pushes for other conversations land in their transcripts; only
		// this peer's are echoed to the screen.
		if in.Sender.ID == peer.ID {
			printMessage(out, in.Message, self.ID, in.Sender)
		}
	})

	fmt.Fprintf(out, "-- chatting with @%s, ^D to leave --\n", peer.Username)

	r := bufio.NewReader(d.in())
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if _, err := d.Messenger.Send(ctx, peer.ID, line[:len(line)-1]); err != nil {
			if errors.Is(err, messenger.ErrEmptyMessage) {
				continue
			}
			fmt.Fprintf(out, "!! not sent: %v\n", err)
		}
	}
}

func findFriend(ctx context.Context, d *Deps, username string) (models.Profile, error) {
	friends, err := d.API.Friends(ctx)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to load friends: %w", err)
	}
	for _, f := range friends {
		if f.Username == username {
			return f, nil
		}
	}
	return models.Profile{}, fmt.Errorf("no friend named %q", username)
}

func printMessage(out io.Writer, msg models.Message, selfID string, peer models.Profile) {
	who := "@" + peer.Username
	if msg.SenderID == selfID {
		who = "me"
	}
	stamp := time.UnixMilli(msg.SentAt).Format("15:04")
	fmt.Fprintf(out, "[%s] %s: %s\n", stamp, who, msg.Body)
}
