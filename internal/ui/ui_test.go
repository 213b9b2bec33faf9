package ui

import (
	"testing"
	"time"

	"github.com/embracefm/embrace/internal/models"
)

func TestFormatClock(t *testing.T) {
	for _, tc := range []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{90 * time.Second, "1:30"},
		{5 * time.Minute, "5:00"},
		{-time.Second, "0:00"},
	} {
		if got := formatClock(tc.in); got != tc.want {
			t.Errorf("formatClock(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSongItem(t *testing.T) {
	song := &models.Song{
		Title:        "Neon Dreams",
		MusicianName: "Nova Wave",
		Genre:        "Synth-pop",
		PlayCount:    8,
		Likes:        2,
	}
	item := songItem{song: song}

	if item.Title() != "Neon Dreams" {
		t.Errorf("unexpected title %q", item.Title())
	}
	if item.FilterValue() != "Neon Dreams" {
		t.Errorf("unexpected filter value %q", item.FilterValue())
	}
	want := "Nova Wave • Synth-pop • 8 plays, 2 likes"
	if item.Description() != want {
		t.Errorf("description = %q, want %q", item.Description(), want)
	}
}

func TestSongItems(t *testing.T) {
	songs := []*models.Song{
		{Title: "a"}, {Title: "b"},
	}
	items := songItems(songs)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].FilterValue() != "a" || items[1].FilterValue() != "b" {
		t.Error("items out of order")
	}
}
