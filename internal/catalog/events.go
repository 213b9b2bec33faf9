package catalog

// EventKind enumerates catalog change notifications.
type EventKind int

const (
	SongUploaded EventKind = iota
	SongDeleted
	SongPlayed
	SongLiked
	DonationAdded
	MusicianAdded
	MusicianUpdated
)

func (k EventKind) String() string {
	switch k {
	case SongUploaded:
		return "song_uploaded"
	case SongDeleted:
		return "song_deleted"
	case SongPlayed:
		return "song_played"
	case SongLiked:
		return "song_liked"
	case DonationAdded:
		return "donation_added"
	case MusicianAdded:
		return "musician_added"
	case MusicianUpdated:
		return "musician_updated"
	default:
		return ""
	}
}

// Event is a catalog change notification. ID names the affected song,
// donation, or musician depending on the kind.
type Event struct {
	Kind EventKind
	ID   string
}
