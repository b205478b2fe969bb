package models

// Artist identifies a performing artist on a track.
type Artist struct {
	Name string `json:"name"`
}

// Image is an album or playlist cover art resource.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Album holds the album metadata carried by a track.
type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track is a catalog track. ID is the provider-unique catalog identifier;
// URI is the distinct opaque identifier used to command playback.
type Track struct {
	ID      string   `json:"id"`
	URI     string   `json:"uri"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   Album    `json:"album"`
}

// ArtistLine renders the track's artists as a single display string.
func (t Track) ArtistLine() string {
	switch len(t.Artists) {
	case 0:
		return ""
	case 1:
		return t.Artists[0].Name
	}

	line := t.Artists[0].Name
	for _, a := range t.Artists[1:] {
		line += ", " + a.Name
	}
	return line
}

// RemotePlaylist is a playlist resource in the user's account.
type RemotePlaylist struct {
	ID         string  `json:"id"`
	URI        string  `json:"uri"`
	Name       string  `json:"name"`
	TrackCount int     `json:"track_count"`
	Public     bool    `json:"public"`
	Images     []Image `json:"images"`
}
