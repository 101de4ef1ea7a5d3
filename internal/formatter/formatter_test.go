package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
	th "github.com/desertthunder/sangeet/internal/testing"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleList() TrackList {
	return TrackList{
		Title: "Library",
		Tracks: []models.Track{
			{
				ID:         "track1",
				Title:      "Song One",
				Artist:     "Artist One",
				Genre:      "Folk",
				Duration:   180,
				AudioURL:   "http://cdn/audio/1.mp3",
				ImageURL:   "http://cdn/image/1.png",
				UploadedBy: "u1",
				UploadedAt: now.Add(-2 * time.Hour),
			},
			{
				ID:         "track2",
				Title:      "Song, Two",
				Artist:     "Artist Two",
				Duration:   3725,
				AudioURL:   "http://cdn/audio/2.mp3",
				UploadedBy: "u2",
				UploadedAt: now.Add(-72 * time.Hour),
			},
		},
		Favorites: map[string]bool{"track2": true},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{"CSV", CSV, false},
		{"md", Markdown, false},
		{"markdown", Markdown, false},
		{"", Text, false},
		{"text", Text, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleList())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Artist,Genre,Duration,Uploaded By,Uploaded At,Audio URL,Image URL\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV did not quote field with comma: %s", output)
		}
		if !strings.Contains(output, "2025-03-01T10:00:00Z") {
			t.Errorf("CSV missing RFC3339 upload time: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleList(), now)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Library",
			"**Tracks**: 2",
			"**Total time**: 1:05:05",
			"1. Artist One - Song One [3:00] _uploaded 2 hours ago_",
			"![Cover](http://cdn/image/1.png)",
			"2. ♥ Artist Two - Song, Two [1:02:05] _uploaded 3 days ago_",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleList())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "1. Artist One - Song One (3:00)") {
			t.Errorf("Text missing first track, got: %s", output)
		}
		if !strings.Contains(output, "2. ♥ Artist Two") {
			t.Errorf("Text missing favorite marker, got: %s", output)
		}
	})

	t.Run("ExportJSON", func(t *testing.T) {
		data, err := Export(sampleList(), JSON, now)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		var decoded struct {
			Title  string         `json:"title"`
			Tracks []models.Track `json:"tracks"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Title != "Library" || len(decoded.Tracks) != 2 {
			t.Errorf("unexpected decoded list %+v", decoded)
		}
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		if _, err := Export(sampleList(), Format("xml"), now); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("Writer", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, sampleList(), Text); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "Library\n") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("FailingWriter", func(t *testing.T) {
		if err := Write(th.FWriter{}, sampleList(), CSV); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.csv")
		if err := WriteFile(path, sampleList(), CSV); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "track1") {
			t.Errorf("file missing track, got %s", content)
		}
	})
}

func TestHelpers(t *testing.T) {
	if got := TotalDuration(sampleList().Tracks); got != 3905 {
		t.Errorf("TotalDuration() = %d, want 3905", got)
	}
	if got := Size(3_200_000); got != "3.2 MB" {
		t.Errorf("Size() = %q", got)
	}
	if got := Size(-1); got != "0 B" {
		t.Errorf("Size(-1) = %q", got)
	}
	if got := Ago(time.Time{}); got != "never" {
		t.Errorf("Ago(zero) = %q", got)
	}
}
