package models

import "testing"

func TestTrackValidate(t *testing.T) {
	valid := func() Track {
		return Track{ID: "t1", Title: "Song", Artist: "Artist", AudioURL: "http://a", UploadedBy: "u1"}
	}

	tests := []struct {
		name    string
		mutate  func(*Track)
		wantErr bool
	}{
		{"valid", func(*Track) {}, false},
		{"missing id", func(t *Track) { t.ID = "" }, true},
		{"blank title", func(t *Track) { t.Title = "   " }, true},
		{"blank artist", func(t *Track) { t.Artist = "" }, true},
		{"missing audio", func(t *Track) { t.AudioURL = "" }, true},
		{"missing uploader", func(t *Track) { t.UploadedBy = "" }, true},
		{"negative duration", func(t *Track) { t.Duration = -1 }, true},
		{"no cover is fine", func(t *Track) { t.ImageURL = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := valid()
			tt.mutate(&track)
			if err := track.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlaylist(t *testing.T) {
	p := Playlist{ID: "p1", Owner: "u1", Name: "Mix", TrackIDs: []string{"a", "b", "a"}}

	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.TrackCount() != 3 {
		t.Errorf("TrackCount() = %d, want 3", p.TrackCount())
	}
	if !p.Contains("b") || p.Contains("c") {
		t.Error("Contains() returned unexpected result")
	}

	p.Name = ""
	if err := p.Validate(); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestKeys(t *testing.T) {
	fav := Favorite{UserID: "u1", TrackID: "t1"}
	if fav.Key() != "u1:t1" {
		t.Errorf("Favorite.Key() = %q", fav.Key())
	}
	if err := (&Favorite{UserID: "u1"}).Validate(); err == nil {
		t.Error("expected error for favorite without track")
	}
	if err := (&User{ID: "u1", Name: " "}).Validate(); err == nil {
		t.Error("expected error for blank user name")
	}
}
