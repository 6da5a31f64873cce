package model

import "testing"

func TestFormatETA(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7323, "02:02:03"},
	}

	for _, test := range tests {
		result := FormatETA(test.etaSec)
		if result != test.expected {
			t.Errorf("FormatETA(%d) = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size     float64
		expected string
	}{
		{0, "0.00 B"},
		{512, "512.00 B"},
		{1536, "1.50 KB"},
		{1024 * 1024 * 3, "3.00 MB"},
		{1024 * 1024 * 1024 * 1024 * 2, "2.00 TB"},
	}

	for _, test := range tests {
		if got := FormatBytes(test.size); got != test.expected {
			t.Errorf("FormatBytes(%v) = %s, expected %s", test.size, got, test.expected)
		}
	}
}

func TestCompressionTask_GetDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/home/user/Videos/clip.mp4", "clip.mp4"},
		{`C:\Videos\clip.mkv`, "clip.mkv"},
		{"clip.avi", "clip.avi"},
		{"", ""},
	}

	for _, test := range tests {
		task := &CompressionTask{InputPath: test.input}
		if got := task.GetDisplayName(); got != test.expected {
			t.Errorf("GetDisplayName() with InputPath='%s' = '%s', expected '%s'", test.input, got, test.expected)
		}
	}
}
