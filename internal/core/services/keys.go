package services

import (
	"sort"
	"strings"
)

const (
	searchKeyPrefix    = "search_"
	recsKeyPrefix      = "recs_"
	maxSearchKeyRunes  = 50
	maxRecsKeySeeds    = 3
	maxProviderSeedIDs = 5
)

// SearchCacheKey derives the cache key for a free-text query: the lower-cased
// query truncated to 50 characters.
func SearchCacheKey(query string) string {
	q := []rune(strings.ToLower(query))
	if len(q) > maxSearchKeyRunes {
		q = q[:maxSearchKeyRunes]
	}
	return searchKeyPrefix + string(q)
}

// RecommendationsCacheKey derives the cache key for a seed list: the first
// three IDs after sorting, joined with underscores.
func RecommendationsCacheKey(seedIDs []string) string {
	sorted := append([]string(nil), seedIDs...)
	sort.Strings(sorted)
	if len(sorted) > maxRecsKeySeeds {
		sorted = sorted[:maxRecsKeySeeds]
	}
	return recsKeyPrefix + strings.Join(sorted, "_")
}
