package helpers

import "github.com/yigit/rankpredictor/internal/app/models/dto"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// TotalPages returns the number of pages needed for totalItems. An empty
// result set has zero pages.
func TotalPages(totalItems, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + size - 1) / size
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page is echoed back as requested, even past the last page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  TotalPages(int(totalItems), size),
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	if totalItems < 0 {
		totalItems = 0
	}

	start = (page - 1) * size
	end = start + size

	if start >= totalItems {
		return totalItems, totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return start, end
}
