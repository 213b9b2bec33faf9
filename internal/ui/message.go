package ui

import (
	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/identity"
	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/playback"
)

// songsLoadedMsg carries a fresh ranked song listing.
type songsLoadedMsg struct {
	songs []*models.Song
	err   error
}

// artistLoadedMsg carries an artist profile with its discography and
// donation total.
type artistLoadedMsg struct {
	artist *models.Musician
	songs  []*models.Song
	total  float64
	err    error
}

// catalogEventMsg surfaces a catalog change notification.
type catalogEventMsg catalog.Event

// sessionEventMsg surfaces an identity change notification.
type sessionEventMsg identity.Event

// playerStateMsg surfaces a playback snapshot.
type playerStateMsg playback.State

// statusMsg carries a transient status line for the footer.
type statusMsg string
