package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/embracefm/embrace/internal/shared"
)

// BioDrafter defines the contract for the biography drafting collaborator.
type BioDrafter interface {
	// Draft generates a short artist biography. May fail or time out; callers
	// must treat failure as recoverable and substitute [FallbackBio].
	Draft(ctx context.Context, artistName, genreLabel string) (string, error)

	// Name returns the name of the drafting backend (e.g. "Gemini")
	Name() string
}

// FallbackBio returns the deterministic local biography used whenever drafting
// fails or no credential is configured. The reason selects between the
// no-credential and call-failure templates.
func FallbackBio(artistName, genreLabel string, reason error) string {
	if errors.Is(reason, shared.ErrMissingCredentials) {
		return fmt.Sprintf(
			"A promising %s artist known as %s, ready to make their mark on the music scene with a unique and captivating sound.",
			genreLabel, artistName,
		)
	}
	return fmt.Sprintf(
		"An emerging talent in the %s world, %s is quickly gaining attention for their innovative sound and compelling performances.",
		genreLabel, artistName,
	)
}
