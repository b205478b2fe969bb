// Package models defines the domain entities shared across the mixtape core.
//
// [Track] is the central value: immutable once fetched from the catalog, and
// referenced (never mutably copied) by both search results and the working
// playlist. [RemotePlaylist] describes a playlist resource that already lives
// in the user's account, as opposed to the local draft owned by the playlist
// package.
package models
