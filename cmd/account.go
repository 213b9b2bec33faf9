// Identity actions: login, registration, likes, follows
package main

import (
	"context"
	"fmt"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountLogin signs in by email and reports the outcome.
func (r *Runner) AccountLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	kind := models.Kind(cmd.String("as"))

	ok, err := r.session.Login(email, kind)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		r.writePlain("✗ no %s account for %s\n", kind, email)
		return nil
	}

	user := r.session.CurrentUser()
	r.writePlain("✓ signed in as %s (%s)\n", user.Account().Username, kind)
	return nil
}

// AccountRegisterListener creates a listener account.
func (r *Runner) AccountRegisterListener(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	username := cmd.String("username")

	ok, err := r.session.RegisterListener(email, username)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if !ok {
		r.writePlain("✗ email or username already taken\n")
		return nil
	}

	r.writePlain("✓ listener %s registered\n", username)
	return nil
}

// AccountRegisterMusician creates a musician account, drafting a biography.
func (r *Runner) AccountRegisterMusician(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	name := cmd.String("name")
	genres := cmd.StringSlice("genre")

	for _, genre := range genres {
		if !models.ValidGenre(genre) {
			return fmt.Errorf("%w: unknown genre %q (choose from %v)", shared.ErrValidation, genre, models.AllGenres)
		}
	}

	ok, err := r.session.RegisterMusician(ctx, email, name, genres)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if !ok {
		r.writePlain("✗ email or artist name already taken, or no genre given\n")
		return nil
	}

	musician := r.session.CurrentMusician()
	r.writePlain("✓ musician %s registered\n", musician.ArtistName)
	r.writePlainln("Bio: %s", musician.Bio)
	return nil
}

// AccountLike toggles a like on a song for the given listener.
func (r *Runner) AccountLike(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	songID := cmd.String("song")

	ok, err := r.session.Login(email, models.KindListener)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: no listener account for %s", shared.ErrNotFound, email)
	}

	liked, err := r.session.ToggleLike(songID)
	if err != nil {
		return fmt.Errorf("like toggle failed: %w", err)
	}

	if liked {
		r.writePlain("♥ liked %s\n", songID)
	} else {
		r.writePlain("♡ unliked %s\n", songID)
	}
	return nil
}

// AccountFollow toggles following an artist for the given listener.
func (r *Runner) AccountFollow(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	musicianID := cmd.String("artist")

	ok, err := r.session.Login(email, models.KindListener)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: no listener account for %s", shared.ErrNotFound, email)
	}

	if r.session.IsFollowing(musicianID) {
		if _, err := r.session.UnfollowArtist(musicianID); err != nil {
			return fmt.Errorf("unfollow failed: %w", err)
		}
		r.writePlain("✗ unfollowed %s\n", musicianID)
		return nil
	}

	if _, err := r.session.FollowArtist(musicianID); err != nil {
		return fmt.Errorf("follow failed: %w", err)
	}
	r.writePlain("✓ following %s\n", musicianID)
	return nil
}
