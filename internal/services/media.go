package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dhowden/tag"

	"github.com/desertthunder/sangeet/internal/shared"
)

// ExtUnknown is used for objects whose content could not be identified.
const ExtUnknown = ".bin"

// AudioMetadata holds the descriptive tags embedded in an audio file.
type AudioMetadata struct {
	Title  string
	Artist string
	Genre  string
}

// DetectAudio identifies the container of an audio stream and returns its file extension.
//
// Streams that carry no recognisable tag header fall back to content sniffing. The reader is rewound to the start
// before returning.
func DetectAudio(r io.ReadSeeker) (string, error) {
	format, fileType, err := tag.Identify(r)
	if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to rewind audio: %w", seekErr)
	}
	if err != nil {
		return sniffAudio(r)
	}

	switch fileType {
	case tag.MP3:
		return ".mp3", nil
	case tag.FLAC:
		return ".flac", nil
	case tag.OGG:
		return ".ogg", nil
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return ".m4a", nil
	case tag.DSF:
		return ".dsf", nil
	}
	if format == tag.MP4 {
		return ".mp4", nil
	}
	return sniffAudio(r)
}

// sniffAudio covers streams without a recognisable tag header, such as bare MPEG frames or WAV.
func sniffAudio(r io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind audio: %w", err)
	}
	head = head[:n]

	if len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0 {
		return ".mp3", nil
	}

	switch http.DetectContentType(head) {
	case "audio/wave":
		return ".wav", nil
	case "audio/mpeg":
		return ".mp3", nil
	case "application/ogg":
		return ".ogg", nil
	case "audio/aiff":
		return ".aiff", nil
	}
	return ExtUnknown, nil
}

// ReadAudioMetadata reads the embedded title, artist and genre tags.
func ReadAudioMetadata(r io.ReadSeeker) (AudioMetadata, error) {
	m, err := tag.ReadFrom(r)
	if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
		return AudioMetadata{}, fmt.Errorf("failed to rewind audio: %w", seekErr)
	}
	if err != nil {
		return AudioMetadata{}, fmt.Errorf("failed to read audio tags: %w", err)
	}
	return AudioMetadata{Title: m.Title(), Artist: m.Artist(), Genre: m.Genre()}, nil
}

// DetectImage returns the file extension for an image payload from its sniffed MIME type.
func DetectImage(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	}
	return ExtUnknown
}

// DetectExtension picks the stored file extension for an asset payload of the given kind.
func DetectExtension(data []byte, kind AssetKind) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty %s asset", shared.ErrInvalidArgument, kind)
	}
	if kind == AssetImage {
		return DetectImage(data), nil
	}
	return DetectAudio(bytes.NewReader(data))
}
