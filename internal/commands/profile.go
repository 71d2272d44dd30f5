package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"potluck/internal/content"
	"potluck/internal/media"
	"potluck/internal/models"
)

// SetupProfile runs the post-signup wizard: optional avatar upload and bio.
// Leaving both prompts empty skips the wizard; either way the session is
// marked onboarded afterwards.
func SetupProfile(ctx context.Context, d *Deps) error {
	if !d.Session.Authenticated() {
		return fmt.Errorf("log in first")
	}

	r := bufio.NewReader(d.in())

	avatarPath, err := prompt(d, r, "Avatar image path (empty to skip)")
	if err != nil {
		return err
	}
	bio, err := prompt(d, r, "Bio (empty to skip)")
	if err != nil {
		return err
	}
	bio = content.Sanitize(bio)

	patch := models.IdentityPatch{}

	if avatarPath != "" {
		data, err := os.ReadFile(avatarPath)
		if err != nil {
			return fmt.Errorf("failed to read avatar file: %w", err)
		}
		mimeType, err := media.SniffImage(data)
		if err != nil {
			return err
		}
		url, err := d.API.UploadImage(ctx, filepath.Base(avatarPath), mimeType, data)
		if err != nil {
			return fmt.Errorf("avatar upload failed: %w", err)
		}
		patch.ProfilePicture = &url
	}
	if bio != "" {
		patch.Bio = &bio
	}

	if patch.ProfilePicture != nil || patch.Bio != nil {
		updated, err := d.API.UpdateProfile(ctx, patch)
		if err != nil {
			return fmt.Errorf("profile update failed: %w", err)
		}
		d.Session.PatchIdentity(models.IdentityPatch{
			Bio:            &updated.Bio,
			ProfilePicture: &updated.ProfilePicture,
		})
	}

	// Finishing and skipping are indistinguishable afterwards.
	d.Session.MarkOnboardingComplete()
	fmt.Fprintln(d.out(), "Profile setup complete.")
	return nil
}
