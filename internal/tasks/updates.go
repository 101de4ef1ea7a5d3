package tasks

import (
	"fmt"

	"github.com/desertthunder/sangeet/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within the operation
	Total   int    // Total steps in the operation
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	UploadAudio
	UploadImage
	SaveTrack
	FetchTracks
	FetchProfile
	FetchFavorites
	FetchPlaylists
	ToggleFavorite
	AttachTrack
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case UploadAudio:
		return "upload_audio"
	case UploadImage:
		return "upload_image"
	case SaveTrack:
		return "save_track"
	case FetchTracks:
		return "fetch_tracks"
	case FetchProfile:
		return "fetch_profile"
	case FetchFavorites:
		return "fetch_favorites"
	case FetchPlaylists:
		return "fetch_playlists"
	case ToggleFavorite:
		return "toggle_favorite"
	case AttachTrack:
		return "attach_track"
	default:
		return ""
	}
}

const uploadSteps = 4

func validateUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: Validate, Step: 1, Total: uploadSteps, Message: "Validating track details..."}
}

func uploadAudioUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: UploadAudio, Step: 2, Total: uploadSteps, Message: "Uploading audio..."}
}

func uploadImageUpdate(skipped bool) ProgressUpdate {
	msg := "Uploading cover image..."
	if skipped {
		msg = "No cover image supplied"
	}
	return ProgressUpdate{Phase: UploadImage, Step: 3, Total: uploadSteps, Message: msg}
}

func saveTrackUpdate(track *models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveTrack,
		Step:    4,
		Total:   uploadSteps,
		Message: fmt.Sprintf("Saving track: %s - %s", track.Artist, track.Title),
		Data:    track,
	}
}

func fetchUpdate(op fetchOp, step, total int) ProgressUpdate {
	return ProgressUpdate{Phase: op.phase, Step: step, Total: total, Message: op.message}
}

func fetchDoneUpdate(op fetchOp, step, total int, data any) ProgressUpdate {
	return ProgressUpdate{Phase: op.phase, Step: step, Total: total, Message: fmt.Sprintf("Loaded %s", op.name), Data: data}
}

func toggleFavoriteUpdate(trackID string) ProgressUpdate {
	return ProgressUpdate{Phase: ToggleFavorite, Step: 1, Total: 2, Message: fmt.Sprintf("Toggling favorite %s...", trackID)}
}

func reloadFavoritesUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchFavorites, Step: 2, Total: 2, Message: "Reloading favorites..."}
}

func attachTrackUpdate(trackID, playlistID string) ProgressUpdate {
	return ProgressUpdate{Phase: AttachTrack, Step: 1, Total: 1, Message: fmt.Sprintf("Adding %s to playlist %s...", trackID, playlistID)}
}
