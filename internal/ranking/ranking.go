// Package ranking orders films by popularity. Popularity is the like-count;
// it is computed over whatever film list the caller supplies, so the package
// has no storage dependency.
package ranking

import (
	"sort"

	"github.com/filmring/filmring/internal/domain"
)

// PopularFilms returns at most count films sorted by like-count descending.
// Ties break by identifier ascending so the order is deterministic. A
// non-positive count yields an empty slice. The input is not modified.
func PopularFilms(films []domain.Film, count int) []domain.Film {
	if count <= 0 || len(films) == 0 {
		return []domain.Film{}
	}

	ranked := make([]domain.Film, len(films))
	copy(ranked, films)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LikeCount() != ranked[j].LikeCount() {
			return ranked[i].LikeCount() > ranked[j].LikeCount()
		}
		return ranked[i].ID < ranked[j].ID
	})

	if count < len(ranked) {
		ranked = ranked[:count]
	}
	return ranked
}
