package models

// FilterOptions is the resolved set of legal filter values for one
// college and exam. It is read-only once returned by the resolver.
type FilterOptions struct {
	CollegeSlug         string   `json:"collegeSlug,omitempty"`
	ExamType            string   `json:"examType"`
	Source              string   `json:"source"`
	Years               []string `json:"years"`
	SubCategories       []string `json:"subCategories"`
	QuotaOptions        []string `json:"quotaOptions"`
	SeatTypeOptions     []string `json:"seatTypeOptions"`
	RequiresSubCategory bool     `json:"requiresSubCategory"`
	RequiresQuota       bool     `json:"requiresQuota"`
}

// AllowsSeatType reports whether seatType is one of the options.
func (o *FilterOptions) AllowsSeatType(seatType string) bool {
	return contains(o.SeatTypeOptions, seatType)
}

// AllowsSubCategory reports whether subCategory is one of the options.
func (o *FilterOptions) AllowsSubCategory(subCategory string) bool {
	return contains(o.SubCategories, subCategory)
}

// AllowsQuota reports whether quota is one of the options.
func (o *FilterOptions) AllowsQuota(quota string) bool {
	return contains(o.QuotaOptions, quota)
}

// HasYear reports whether year is one of the resolved years.
func (o *FilterOptions) HasYear(year string) bool {
	return contains(o.Years, year)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
