package spotify

// spotifyImage is an entry of an album's image list, largest first.
type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

// spotifyTrack is the track object shared by search and recommendations.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	PreviewURL string          `json:"preview_url"`
}

type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type recommendationsResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

// spotifyAudioFeatures uses pointers so absent or null fields stay absent.
type spotifyAudioFeatures struct {
	Danceability *float64 `json:"danceability"`
	Energy       *float64 `json:"energy"`
	Valence      *float64 `json:"valence"`
	Tempo        *float64 `json:"tempo"`
}
