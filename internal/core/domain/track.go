package domain

// Neutral feature values used whenever the catalog omits audio-feature data.
// Context bucketing depends on these exact numbers.
const (
	DefaultDanceability = 0.5
	DefaultEnergy       = 0.5
	DefaultValence      = 0.5
	DefaultTempo        = 120.0
)

// Feature names as they appear in catalog payloads and feedback requests.
const (
	FeatureDanceability = "danceability"
	FeatureEnergy       = "energy"
	FeatureValence      = "valence"
	FeatureTempo        = "tempo"
)

// Track represents a musical track in the domain layer.
type Track struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Artist     string        `json:"artist"`
	ImageURL   string        `json:"image_url,omitempty"`   // optional
	PreviewURL string        `json:"preview_url,omitempty"` // optional; tracks without one are not recommended
	Features   AudioFeatures `json:"features"`
}

// HasPreview reports whether the track carries a playable preview reference.
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// AudioFeatures is the fixed feature vector attached to every track.
// Danceability, Energy and Valence are normalized to [0,1]; Tempo is in BPM.
type AudioFeatures struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// DefaultAudioFeatures returns the neutral vector (0.5, 0.5, 0.5, 120).
func DefaultAudioFeatures() AudioFeatures {
	return AudioFeatures{
		Danceability: DefaultDanceability,
		Energy:       DefaultEnergy,
		Valence:      DefaultValence,
		Tempo:        DefaultTempo,
	}
}

// NewAudioFeatures builds a full vector from a partial observation,
// filling every missing field with its neutral default. A nil map yields
// DefaultAudioFeatures.
func NewAudioFeatures(observed Features) AudioFeatures {
	return AudioFeatures{
		Danceability: observed.ValueOr(FeatureDanceability, DefaultDanceability),
		Energy:       observed.ValueOr(FeatureEnergy, DefaultEnergy),
		Valence:      observed.ValueOr(FeatureValence, DefaultValence),
		Tempo:        observed.ValueOr(FeatureTempo, DefaultTempo),
	}
}

// Features is a partial feature observation keyed by feature name.
// Unlike AudioFeatures it can express that a field was not supplied.
type Features map[string]float64

// ValueOr returns the named feature or fallback when it is absent.
func (f Features) ValueOr(name string, fallback float64) float64 {
	if v, ok := f[name]; ok {
		return v
	}
	return fallback
}

// Clone returns an independent copy of the observation.
func (f Features) Clone() Features {
	if f == nil {
		return nil
	}
	out := make(Features, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
