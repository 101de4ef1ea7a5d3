// package formatter renders track lists as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
)

// Format names an output format.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
)

// ParseFormat converts a flag value to a [Format]. "md" and "text" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text", "":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, markdown, txt)", shared.ErrInvalidArgument, s)
	}
}

// TrackList is a titled list of tracks with optional favorite markers.
type TrackList struct {
	Title     string          `json:"title"`
	Tracks    []models.Track  `json:"tracks"`
	Favorites map[string]bool `json:"-"`
}

// ExportToCSV converts a track list to CSV with columns: ID, Title, Artist, Genre, Duration, Uploaded By, Uploaded At, Audio URL, Image URL
func ExportToCSV(list TrackList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Duration", "Uploaded By", "Uploaded At", "Audio URL", "Image URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range list.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Genre,
			strconv.Itoa(track.Duration),
			track.UploadedBy,
			track.UploadedAt.UTC().Format(time.RFC3339),
			track.AudioURL,
			track.ImageURL,
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

// ExportToMarkdown converts a track list to Markdown. Upload times are shown relative to now.
func ExportToMarkdown(list TrackList, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", list.Title)
	fmt.Fprintf(&buf, "**Tracks**: %s\n", humanize.Comma(int64(len(list.Tracks))))
	fmt.Fprintf(&buf, "**Total time**: %s\n\n", shared.FormatDuration(TotalDuration(list.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range list.Tracks {
		fmt.Fprintf(&buf, "%d. %s%s - %s [%s]", i+1, favoriteMark(list, track), track.Artist, track.Title, shared.FormatDuration(track.Duration))
		if !track.UploadedAt.IsZero() {
			fmt.Fprintf(&buf, " _uploaded %s_", humanize.RelTime(track.UploadedAt, now, "ago", "from now"))
		}
		buf.WriteString("\n")
		if track.HasCover() {
			fmt.Fprintf(&buf, "   ![Cover](%s)\n", track.ImageURL)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a track list to plain text
func ExportToText(list TrackList) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", list.Title)
	fmt.Fprintf(&buf, "Tracks: %s\n\n", humanize.Comma(int64(len(list.Tracks))))

	for i, track := range list.Tracks {
		fmt.Fprintf(&buf, "%d. %s%s - %s (%s)\n", i+1, favoriteMark(list, track), track.Artist, track.Title, shared.FormatDuration(track.Duration))
	}

	return buf.Bytes(), nil
}

// Export renders list in the given format.
func Export(list TrackList, format Format, now time.Time) ([]byte, error) {
	switch format {
	case JSON:
		return shared.MarshalJSON(list, true)
	case CSV:
		return ExportToCSV(list)
	case Markdown:
		return ExportToMarkdown(list, now)
	case Text:
		return ExportToText(list)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// Write renders list to w.
func Write(w io.Writer, list TrackList, format Format) error {
	data, err := Export(list, format, time.Now())
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile renders list to the file at path.
func WriteFile(path string, list TrackList, format Format) error {
	data, err := Export(list, format, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}

// TotalDuration sums the durations of tracks in seconds.
func TotalDuration(tracks []models.Track) int {
	total := 0
	for _, t := range tracks {
		total += t.Duration
	}
	return total
}

// Size formats a byte count for display, e.g. "3.2 MB".
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Ago formats t relative to now, e.g. "3 minutes ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func favoriteMark(list TrackList, track models.Track) string {
	if list.Favorites[track.ID] {
		return "♥ "
	}
	return ""
}
