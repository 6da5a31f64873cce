// Package download implements the YouTube download engine built on top of
// yt-dlp (via github.com/lrstanley/go-ytdlp). It fetches metadata, resolves
// playlists, selects formats and reports transfer progress to the caller.
// Every download is whole-or-nothing: the result is a single success or
// failure record, never a partial one.
package download
