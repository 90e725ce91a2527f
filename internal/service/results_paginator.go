package service

import (
	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

// ResultsPageSize is the number of generated matches shown per page.
const ResultsPageSize = 10

// TotalPages returns ceil(n / ResultsPageSize).
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + ResultsPageSize - 1) / ResultsPageSize
}

// ClampPage keeps page inside [1, max(totalPages, 1)].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageOf slices the requested page out of matches, clamping out-of-range pages.
func PageOf(matches []models.ScheduledMatch, page int) dto.ResultsPage {
	total := TotalPages(len(matches))
	page = ClampPage(page, total)

	start := (page - 1) * ResultsPageSize
	end := start + ResultsPageSize
	if start > len(matches) {
		start = len(matches)
	}
	if end > len(matches) {
		end = len(matches)
	}
	items := make([]models.ScheduledMatch, end-start)
	copy(items, matches[start:end])

	return dto.ResultsPage{
		Matches: items,
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   ResultsPageSize,
			TotalCount: len(matches),
			TotalPages: total,
		},
		HasPrev: page > 1,
		HasNext: page < total,
	}
}
