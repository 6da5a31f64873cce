package model

import (
	"fmt"
	"strings"
	"time"
)

// CompressionTask represents a single compression task
type CompressionTask struct {
	ID         string
	InputPath  string
	OutputPath string
	Status     TaskStatus
	Progress   float64 // 0.0 to 1.0
	Percent    int     // 0 to 100
	LastError  string  // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}

// GetDisplayName returns the input file name without directories
func (ct *CompressionTask) GetDisplayName() string {
	if ct.InputPath == "" {
		return ""
	}
	parts := strings.FieldsFunc(ct.InputPath, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return ct.InputPath
	}
	return parts[len(parts)-1]
}

// FormatETA returns ETA formatted as hh:mm:ss or mm:ss, or "—" if unknown
func FormatETA(etaSec int) string {
	if etaSec <= 0 {
		return "—"
	}

	hours := etaSec / 3600
	minutes := (etaSec % 3600) / 60
	seconds := etaSec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatBytes renders a byte count with a binary unit suffix ("1.50 MB")
func FormatBytes(size float64) string {
	units := []string{"B", "KB", "MB", "GB"}
	for _, unit := range units {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", size)
}
