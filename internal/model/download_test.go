package model

import "testing"

func TestParseMediaKind(t *testing.T) {
	tests := []struct {
		format   string
		expected MediaKind
	}{
		{"audio", MediaAudio},
		{"mp3", MediaAudio},
		{" MP3 ", MediaAudio},
		{"mp4", MediaVideo},
		{"video", MediaVideo},
		{"", MediaVideo},
	}

	for _, test := range tests {
		if got := ParseMediaKind(test.format); got != test.expected {
			t.Errorf("ParseMediaKind(%q) = %s, expected %s", test.format, got, test.expected)
		}
	}
}

func TestVideoInfo_IsPlaylist(t *testing.T) {
	var nilInfo *VideoInfo
	if nilInfo.IsPlaylist() {
		t.Error("nil info should not be a playlist")
	}
	if (&VideoInfo{Type: InfoVideo}).IsPlaylist() {
		t.Error("video info reported as playlist")
	}
	if !(&VideoInfo{Type: InfoPlaylist}).IsPlaylist() {
		t.Error("playlist info not reported as playlist")
	}
}
