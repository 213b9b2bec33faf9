// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
)

// ExportToCSV converts an ArtistExport's discography to CSV format with
// columns: ID, Title, Genre, PlayCount, Likes, UploadDate
func ExportToCSV(export *models.ArtistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "PlayCount", "Likes", "UploadDate"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range export.Songs {
		record := []string{
			song.ID,
			song.Title,
			song.Genre,
			strconv.Itoa(song.PlayCount),
			strconv.Itoa(song.Likes),
			song.UploadDate.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// DonationsToCSV converts an ArtistExport's donation ledger to CSV format
// with columns: ID, Donor, Amount, Message, Date
func DonationsToCSV(export *models.ArtistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Donor", "Amount", "Message", "Date"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, donation := range export.Donations {
		record := []string{
			donation.ID,
			donation.DonorName,
			strconv.FormatFloat(donation.Amount, 'f', 2, 64),
			donation.Message,
			donation.Date.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an ArtistExport to Markdown format with optional profile image
func ExportToMarkdown(export *models.ArtistExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Musician.ArtistName))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Profile](%s)\n\n", imageFilename))
	}

	if export.Musician.Bio != "" {
		buf.WriteString(fmt.Sprintf("%s\n\n", export.Musician.Bio))
	}

	buf.WriteString(fmt.Sprintf("**Genres**: %s\n", strings.Join(export.Musician.Genres, ", ")))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(export.Songs)))
	buf.WriteString(fmt.Sprintf("**Donations received**: $%.2f\n\n", export.Total))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [%d plays, %d likes]\n",
			i+1, song.Title, song.Genre, song.PlayCount, song.Likes))
	}

	if len(export.Donations) > 0 {
		buf.WriteString("\n## Donations\n\n")
		for _, donation := range export.Donations {
			line := fmt.Sprintf("- %s: $%.2f", donation.DonorName, donation.Amount)
			if donation.Message != "" {
				line += fmt.Sprintf(" (%q)", donation.Message)
			}
			buf.WriteString(line + "\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts an ArtistExport to plain text format
func ExportToText(export *models.ArtistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Artist: %s\n", export.Musician.ArtistName))
	if export.Musician.Bio != "" {
		buf.WriteString(fmt.Sprintf("Bio: %s\n", export.Musician.Bio))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(export.Songs)))

	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s [%d plays]\n", i+1, song.Title, song.PlayCount))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToProfileJSON generates a JSON representation of a musician profile (without songs)
func ToProfileJSON(musician models.Musician) ([]byte, error) {
	return shared.MarshalJSON(musician, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile     string
	DonationsFile string
	ProfileFile   string
}

// WriteCSVExport exports an artist to CSV format with an accompanying profile JSON file.
//
// Defaults to the musician ID as the base filename & creates {base}_songs.csv,
// {base}_donations.csv, and {base}_profile.json
func WriteCSVExport(export *models.ArtistExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Musician.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	donationsData, err := DonationsToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations CSV: %w", err)
	}

	donationsFile := baseFilepath + "_donations.csv"
	if err := os.WriteFile(donationsFile, donationsData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write donations file: %w", err)
	}

	profileJSON, err := ToProfileJSON(export.Musician)
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile JSON: %w", err)
	}

	profileFile := baseFilepath + "_profile.json"
	if err := os.WriteFile(profileFile, profileJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write profile file: %w", err)
	}

	return &CSVExportResult{
		SongsFile:     songsFile,
		DonationsFile: donationsFile,
		ProfileFile:   profileFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory    string
	Files        []string
	ProfileImage string
}

// WriteMarkdownExport exports an artist to Markdown format in a dedicated directory.
//
// Directory name defaults to the musician ID.
// The imageURL parameter is optional - if provided, attempts to download the profile photo.
// Creates a directory structure: {dir}/README.md and optionally {dir}/profile.jpg
func WriteMarkdownExport(export *models.ArtistExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Musician.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var profileImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download profile photo: %v\n", err)
		} else {
			profileImageFilename = "profile.jpg"
			profileImagePath := filepath.Join(outputDir, profileImageFilename)
			if err := os.WriteFile(profileImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save profile photo: %v\n", err)
				profileImageFilename = ""
			} else {
				result.ProfileImage = profileImagePath
				result.Files = append(result.Files, profileImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, profileImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports an artist to plain text format.
//
// Defaults to {musician.ID}_songs.txt as the filename.
func WriteTextExport(export *models.ArtistExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_songs.txt", export.Musician.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
