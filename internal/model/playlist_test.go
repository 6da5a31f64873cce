package model

import (
	"errors"
	"testing"
)

func TestNewPlaylist(t *testing.T) {
	p := NewPlaylist("https://www.youtube.com/playlist?list=PL123")

	if p.Status != PlaylistStatusParsing {
		t.Errorf("Expected status %s, got %s", PlaylistStatusParsing, p.Status)
	}
	if len(p.Videos) != 0 || p.TotalVideos != 0 {
		t.Errorf("Expected empty playlist, got %d videos", len(p.Videos))
	}
	if p.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestPlaylist_AddVideo(t *testing.T) {
	p := NewPlaylist("https://www.youtube.com/playlist?list=PL123")
	p.AddVideo(&PlaylistVideo{ID: "a", Title: "First"})
	p.AddVideo(&PlaylistVideo{ID: "b", Title: "Second"})

	if p.TotalVideos != 2 {
		t.Errorf("Expected 2 videos, got %d", p.TotalVideos)
	}
	if p.Videos[1].ID != "b" {
		t.Errorf("Expected insertion order to be kept, got %s", p.Videos[1].ID)
	}
}

func TestPlaylist_Fail(t *testing.T) {
	p := NewPlaylist("https://www.youtube.com/playlist?list=PL123")
	p.Fail(errors.New("boom"))

	if p.Status != PlaylistStatusError {
		t.Errorf("Expected status %s, got %s", PlaylistStatusError, p.Status)
	}
	if p.Error != "boom" {
		t.Errorf("Expected error 'boom', got '%s'", p.Error)
	}
}
