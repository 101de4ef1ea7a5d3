package tasks

import "github.com/desertthunder/sangeet/internal/models"

// Default sizes of the derived track views.
const (
	DefaultRecentLimit      = 15
	DefaultRecommendedLimit = 10
	LibraryRecentLimit      = 20
)

// RecentlyPlayed returns the last n tracks in their original order.
func RecentlyPlayed(tracks []models.Track, n int) []models.Track {
	if n <= 0 {
		return []models.Track{}
	}
	if n > len(tracks) {
		n = len(tracks)
	}
	return append([]models.Track{}, tracks[len(tracks)-n:]...)
}

// Recommended returns the first n tracks.
func Recommended(tracks []models.Track, n int) []models.Track {
	if n <= 0 {
		return []models.Track{}
	}
	if n > len(tracks) {
		n = len(tracks)
	}
	return append([]models.Track{}, tracks[:n]...)
}

// LibraryRecent returns the last [LibraryRecentLimit] tracks, newest first.
func LibraryRecent(tracks []models.Track) []models.Track {
	recent := RecentlyPlayed(tracks, LibraryRecentLimit)
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent
}

// FavoriteSet indexes favorite tracks by id.
func FavoriteSet(favorites []models.Track) map[string]bool {
	set := make(map[string]bool, len(favorites))
	for _, t := range favorites {
		set[t.ID] = true
	}
	return set
}
