package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, file manager integration, and playlist listing via
// the ytdlp library.
