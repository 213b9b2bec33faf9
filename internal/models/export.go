package models

// ArtistExport bundles everything exported for one musician: the profile,
// the ranked discography, and the donation ledger with its running total.
type ArtistExport struct {
	Musician  Musician    `json:"musician"`
	Songs     []*Song     `json:"songs"`
	Donations []*Donation `json:"donations"`
	Total     float64     `json:"total"`
}
