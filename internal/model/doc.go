package model

// Package model defines domain data structures shared across the app: download
// requests and results, progress snapshots, video/playlist info, and the task
// and operation status enums used by the tool windows.
