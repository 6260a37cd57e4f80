package domain

import "testing"

func TestNewAudioFeatures(t *testing.T) {
	tests := []struct {
		name     string
		observed Features
		want     AudioFeatures
	}{
		{
			name:     "nil observation uses neutral defaults",
			observed: nil,
			want:     AudioFeatures{Danceability: 0.5, Energy: 0.5, Valence: 0.5, Tempo: 120},
		},
		{
			name:     "partial observation fills per field",
			observed: Features{FeatureEnergy: 0.9, FeatureTempo: 95},
			want:     AudioFeatures{Danceability: 0.5, Energy: 0.9, Valence: 0.5, Tempo: 95},
		},
		{
			name:     "zero is a real value, not missing",
			observed: Features{FeatureDanceability: 0, FeatureEnergy: 0, FeatureValence: 0, FeatureTempo: 0},
			want:     AudioFeatures{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewAudioFeatures(tc.observed); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDefaultAudioFeatures(t *testing.T) {
	want := AudioFeatures{Danceability: 0.5, Energy: 0.5, Valence: 0.5, Tempo: 120}
	if got := DefaultAudioFeatures(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
