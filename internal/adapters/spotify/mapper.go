package spotify

import "github.com/ewilliams-labs/aidj/backend/internal/core/domain"

// mapTrackToDomain converts a raw Spotify track to a domain track. Audio
// features are not part of the track object, so they start at the neutral
// defaults.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	artist := ""
	if len(st.Artists) > 0 {
		artist = st.Artists[0].Name
	}

	imageURL := ""
	if len(st.Album.Images) > 0 {
		imageURL = st.Album.Images[0].URL
	}

	return domain.Track{
		ID:         st.ID,
		Title:      st.Name,
		Artist:     artist,
		ImageURL:   imageURL,
		PreviewURL: st.PreviewURL,
		Features:   domain.DefaultAudioFeatures(),
	}
}

func mapTracksToDomain(sts []spotifyTrack) []domain.Track {
	tracks := make([]domain.Track, 0, len(sts))
	for _, st := range sts {
		tracks = append(tracks, mapTrackToDomain(st))
	}
	return tracks
}

// mapFeaturesToDomain keeps only the fields the API actually returned.
func mapFeaturesToDomain(af spotifyAudioFeatures) domain.Features {
	f := domain.Features{}
	set := func(name string, v *float64) {
		if v != nil {
			f[name] = *v
		}
	}
	set(domain.FeatureDanceability, af.Danceability)
	set(domain.FeatureEnergy, af.Energy)
	set(domain.FeatureValence, af.Valence)
	set(domain.FeatureTempo, af.Tempo)
	return f
}
