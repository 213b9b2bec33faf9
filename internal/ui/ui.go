package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/identity"
	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/playback"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DiscoverView ViewState = iota
	ArtistView
	LoginView
	DonateView
)

const seekStep = 5 * time.Second

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	catalog *catalog.Catalog
	session *identity.Store
	player  *playback.Session

	width  int
	height int

	songList list.Model
	listed   bool

	artist       *models.Musician
	artistSongs  []*models.Song
	artistTotal  float64
	donateTarget string

	emailInput   textinput.Model
	loginKind    models.Kind
	amountInput  textinput.Model
	messageInput textinput.Model
	donateFocus  int

	playerState playback.State
	seekBar     progress.Model

	catalogEvents <-chan catalog.Event
	sessionEvents <-chan identity.Event
	playerStates  <-chan playback.State

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, cat *catalog.Catalog, session *identity.Store, player *playback.Session) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 64

	amount := textinput.New()
	amount.Placeholder = "amount"
	amount.CharLimit = 10

	message := textinput.New()
	message.Placeholder = "message (optional)"
	message.CharLimit = 120

	return &Model{
		ctx:          ctx,
		view:         DiscoverView,
		catalog:      cat,
		session:      session,
		player:       player,
		emailInput:   email,
		loginKind:    models.KindListener,
		amountInput:  amount,
		messageInput: message,
		seekBar:      progress.New(progress.WithDefaultGradient()),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init subscribes to the stores and loads the ranked listing.
func (m *Model) Init() tea.Cmd {
	m.catalogEvents = m.catalog.Subscribe()
	m.sessionEvents = m.session.Subscribe()
	m.playerStates = m.player.Subscribe()

	return tea.Batch(
		m.loadSongs(),
		m.waitForCatalog(),
		m.waitForSession(),
		m.waitForPlayer(),
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listed {
			m.songList.SetSize(msg.Width-4, msg.Height-10)
		}
		m.seekBar.Width = msg.Width - 20
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case DiscoverView:
			return m.handleDiscoverKeys(msg)
		case ArtistView:
			return m.handleArtistKeys(msg)
		case LoginView:
			return m.handleLoginKeys(msg)
		case DonateView:
			return m.handleDonateKeys(msg)
		}

	case songsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		selected := 0
		if m.listed {
			selected = m.songList.Index()
		}
		m.songList = list.New(songItems(msg.songs), list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = "Discover"
		m.songList.SetSize(m.width-4, m.height-10)
		m.songList.Select(selected)
		m.listed = true
		return m, nil

	case artistLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("artist unavailable: %v", msg.err)
			m.view = DiscoverView
			return m, nil
		}
		m.artist = msg.artist
		m.artistSongs = msg.songs
		m.artistTotal = msg.total
		m.view = ArtistView
		return m, nil

	case catalogEventMsg:
		// Any catalog change can reorder the ranked listing.
		cmds := []tea.Cmd{m.waitForCatalog(), m.loadSongs()}
		if m.view == ArtistView && m.artist != nil {
			cmds = append(cmds, m.loadArtist(m.artist.ID))
		}
		return m, tea.Batch(cmds...)

	case sessionEventMsg:
		return m, m.waitForSession()

	case playerStateMsg:
		m.playerState = playback.State(msg)
		return m, m.waitForPlayer()

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	if m.listed && m.view == DiscoverView {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case DiscoverView:
		body = m.renderDiscover()
	case ArtistView:
		body = m.renderArtist()
	case LoginView:
		body = m.renderLogin()
	case DonateView:
		body = m.renderDonate()
	}

	footer := m.renderPlayerBar()
	if m.status != "" {
		footer += "\n" + styles.warn.Render(m.status)
	}
	return fmt.Sprintf("%s\n%s", body, footer)
}

func (m *Model) handleDiscoverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if song := m.selectedSong(); song != nil {
			return m, m.playSong(song.ID)
		}
	case key.Matches(msg, m.keys.toggle):
		m.player.TogglePlay()
		return m, nil
	case key.Matches(msg, m.keys.seekB):
		m.player.Seek(m.playerState.Position - seekStep)
		return m, nil
	case key.Matches(msg, m.keys.seekF):
		m.player.Seek(m.playerState.Position + seekStep)
		return m, nil
	case key.Matches(msg, m.keys.like):
		if song := m.selectedSong(); song != nil {
			return m, m.toggleLike(song.ID)
		}
	case key.Matches(msg, m.keys.artist):
		if song := m.selectedSong(); song != nil {
			return m, m.loadArtist(song.MusicianID)
		}
	case key.Matches(msg, m.keys.donate):
		if song := m.selectedSong(); song != nil {
			m.openDonate(song.MusicianID)
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.login):
		m.view = LoginView
		m.emailInput.SetValue("")
		m.emailInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleArtistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DiscoverView
		return m, nil
	case key.Matches(msg, m.keys.follow):
		if m.artist != nil {
			return m, m.toggleFollow(m.artist.ID)
		}
	case key.Matches(msg, m.keys.donate):
		if m.artist != nil {
			m.openDonate(m.artist.ID)
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.toggle):
		m.player.TogglePlay()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = DiscoverView
		m.emailInput.Blur()
		return m, nil
	case "tab":
		if m.loginKind == models.KindListener {
			m.loginKind = models.KindMusician
		} else {
			m.loginKind = models.KindListener
		}
		return m, nil
	case "enter":
		email := m.emailInput.Value()
		kind := m.loginKind
		m.view = DiscoverView
		m.emailInput.Blur()
		return m, func() tea.Msg {
			ok, err := m.session.Login(email, kind)
			if err != nil {
				return statusMsg(fmt.Sprintf("sign in failed: %v", err))
			}
			if !ok {
				return statusMsg(fmt.Sprintf("no %s account for %s", kind, email))
			}
			return statusMsg(fmt.Sprintf("signed in as %s", email))
		}
	}

	var cmd tea.Cmd
	m.emailInput, cmd = m.emailInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDonateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = DiscoverView
		m.amountInput.Blur()
		m.messageInput.Blur()
		return m, nil
	case "tab":
		m.donateFocus = (m.donateFocus + 1) % 2
		if m.donateFocus == 0 {
			m.messageInput.Blur()
			m.amountInput.Focus()
		} else {
			m.amountInput.Blur()
			m.messageInput.Focus()
		}
		return m, textinput.Blink
	case "enter":
		amountRaw := m.amountInput.Value()
		message := m.messageInput.Value()
		target := m.donateTarget
		m.view = DiscoverView
		m.amountInput.Blur()
		m.messageInput.Blur()
		return m, func() tea.Msg {
			amount, err := strconv.ParseFloat(amountRaw, 64)
			if err != nil {
				return statusMsg(fmt.Sprintf("invalid amount %q", amountRaw))
			}

			draft := models.DonationDraft{
				RecipientID: target,
				Amount:      amount,
				Message:     message,
			}
			if user := m.session.CurrentUser(); user != nil {
				draft.DonorID = user.Account().ID
				draft.DonorName = user.Account().Username
			}

			if _, err := m.catalog.AddDonation(draft); err != nil {
				return statusMsg(fmt.Sprintf("donation rejected: %v", err))
			}
			return statusMsg(fmt.Sprintf("donated $%.2f", amount))
		}
	}

	var cmd tea.Cmd
	if m.donateFocus == 0 {
		m.amountInput, cmd = m.amountInput.Update(msg)
	} else {
		m.messageInput, cmd = m.messageInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) openDonate(recipientID string) {
	m.donateTarget = recipientID
	m.donateFocus = 0
	m.amountInput.SetValue("")
	m.messageInput.SetValue("")
	m.amountInput.Focus()
	m.messageInput.Blur()
	m.view = DonateView
}

func (m *Model) selectedSong() *models.Song {
	if !m.listed {
		return nil
	}
	if item, ok := m.songList.SelectedItem().(songItem); ok {
		return item.song
	}
	return nil
}

func (m *Model) loadSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.catalog.ListSongsRanked()
		return songsLoadedMsg{songs: songs, err: err}
	}
}

func (m *Model) loadArtist(musicianID string) tea.Cmd {
	return func() tea.Msg {
		artist, err := m.catalog.GetMusician(musicianID)
		if err != nil {
			return artistLoadedMsg{err: err}
		}
		songs, err := m.catalog.SongsByArtist(musicianID)
		if err != nil {
			return artistLoadedMsg{err: err}
		}
		total, err := m.catalog.DonationTotal(musicianID)
		if err != nil {
			return artistLoadedMsg{err: err}
		}
		return artistLoadedMsg{artist: artist, songs: songs, total: total}
	}
}

func (m *Model) playSong(songID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.player.Play(songID); err != nil {
			return statusMsg(fmt.Sprintf("playback failed: %v", err))
		}
		return statusMsg("")
	}
}

func (m *Model) toggleLike(songID string) tea.Cmd {
	return func() tea.Msg {
		if m.session.CurrentListener() == nil {
			return statusMsg("sign in as a listener to like songs")
		}
		liked, err := m.session.ToggleLike(songID)
		if err != nil {
			return statusMsg(fmt.Sprintf("like failed: %v", err))
		}
		if liked {
			return statusMsg("liked")
		}
		return statusMsg("unliked")
	}
}

func (m *Model) toggleFollow(musicianID string) tea.Cmd {
	return func() tea.Msg {
		if m.session.CurrentListener() == nil {
			return statusMsg("sign in as a listener to follow artists")
		}
		if m.session.IsFollowing(musicianID) {
			if _, err := m.session.UnfollowArtist(musicianID); err != nil {
				return statusMsg(fmt.Sprintf("unfollow failed: %v", err))
			}
			return statusMsg("unfollowed")
		}
		if _, err := m.session.FollowArtist(musicianID); err != nil {
			return statusMsg(fmt.Sprintf("follow failed: %v", err))
		}
		return statusMsg("following")
	}
}

func (m *Model) waitForCatalog() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.catalogEvents
		if !ok {
			return nil
		}
		return catalogEventMsg(ev)
	}
}

func (m *Model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.sessionEvents
		if !ok {
			return nil
		}
		return sessionEventMsg(ev)
	}
}

func (m *Model) waitForPlayer() tea.Cmd {
	return func() tea.Msg {
		state, ok := <-m.playerStates
		if !ok {
			return nil
		}
		return playerStateMsg(state)
	}
}

func (m *Model) renderDiscover() string {
	if !m.listed {
		return styles.help.Render("Loading catalog...")
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.like, m.keys.artist, m.keys.donate, m.keys.login, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderArtist() string {
	title := styles.title.Render(m.artist.ArtistName)
	info := fmt.Sprintf("%s\n\nGenres: %v\nDonations received: $%.2f\n",
		m.artist.Bio, m.artist.Genres, m.artistTotal)

	songs := "\nSongs:\n"
	for i, song := range m.artistSongs {
		songs += fmt.Sprintf("  %d. %s [%d plays, %d likes]\n", i+1, song.Title, song.PlayCount, song.Likes)
	}

	following := ""
	if m.session.IsFollowing(m.artist.ID) {
		following = styles.ok.Render("✓ following") + "\n"
	}

	helpKeys := []key.Binding{m.keys.follow, m.keys.donate, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s%s", title, info, songs, following, helpView)
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign In")
	kind := fmt.Sprintf("Account kind: %s (tab to switch)", m.loginKind)
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
		m.keys.back,
	})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, kind, m.emailInput.View(), helpView)
}

func (m *Model) renderDonate() string {
	target := m.donateTarget
	if target == models.LabelRecipient {
		target = "the label"
	}
	title := styles.title.Render(fmt.Sprintf("Donate to %s", target))
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		m.keys.back,
	})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, m.amountInput.View(), m.messageInput.View(), helpView)
}

func (m *Model) renderPlayerBar() string {
	state := m.playerState
	if state.Empty() {
		return styles.help.Render("─ nothing playing ─")
	}

	icon := "▶"
	if !state.Playing {
		icon = "⏸"
	}

	var bar string
	if state.Duration > 0 {
		percent := float64(state.Position) / float64(state.Duration)
		bar = m.seekBar.ViewAs(percent)
	}

	return fmt.Sprintf("%s %s - %s  %s/%s\n%s",
		icon,
		state.Song.MusicianName,
		state.Song.Title,
		formatClock(state.Position),
		formatClock(state.Duration),
		bar,
	)
}

// formatClock renders a duration as m:ss.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
