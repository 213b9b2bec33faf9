package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/embracefm/embrace/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	return fmt.Sprintf("%s • %s • %d plays, %d likes",
		i.song.MusicianName, i.song.Genre, i.song.PlayCount, i.song.Likes)
}

func songItems(songs []*models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song}
	}
	return items
}
