package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"potluck/internal/api"
	"potluck/internal/content"
	"potluck/internal/session"
)

// Login prompts for credentials and authenticates against the backend.
// Validation errors block the request; backend rejections surface the
// response message.
func Login(ctx context.Context, d *Deps) error {
	r := bufio.NewReader(d.in())

	email, err := prompt(d, r, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword(d, r, "Password")
	if err != nil {
		return err
	}
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	resp, err := d.API.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return loginError(err)
	}

	d.Session.Login(resp.Token, resp.User)

	fmt.Fprintf(d.out(), "Logged in as %s\n", resp.User.Username)
	if d.Session.Stage() == session.StageOnboarding {
		fmt.Fprintln(d.out(), "Profile setup is incomplete. Run with -setup to finish it.")
	}
	return nil
}

// Signup registers a new account and logs it in.
func Signup(ctx context.Context, d *Deps) error {
	r := bufio.NewReader(d.in())

	email, err := prompt(d, r, "Email")
	if err != nil {
		return err
	}
	username, err := prompt(d, r, "Username")
	if err != nil {
		return err
	}
	if err := content.ValidateUsername(username); err != nil {
		return err
	}
	fullName, err := prompt(d, r, "Full name")
	if err != nil {
		return err
	}
	password, err := promptPassword(d, r, "Password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(d, r, "Confirm password")
	if err != nil {
		return err
	}

	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	resp, err := d.API.Signup(ctx, api.SignupRequest{
		Email:    email,
		Password: password,
		Username: username,
		FullName: fullName,
	})
	if err != nil {
		return loginError(err)
	}

	d.Session.Login(resp.Token, resp.User)

	fmt.Fprintf(d.out(), "Welcome, %s! Run with -setup to complete your profile.\n", resp.User.Username)
	return nil
}

// Logout clears the local session. The relay channel, if open, is closed
// first so no push outlives the identity.
func Logout(d *Deps) error {
	if d.Messenger != nil {
		d.Messenger.Stop()
	}
	d.Session.Logout()
	fmt.Fprintln(d.out(), "Logged out.")
	return nil
}

func loginError(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("login rejected: %s", apiErr.Message)
	}
	return fmt.Errorf("network error, try again: %w", err)
}
