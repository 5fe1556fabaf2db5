package salary

import "strings"

// SummaryFilter narrows the salary summary table. Nil fields are inactive.
type SummaryFilter struct {
	DriverID     *string
	Status       *string
	IsFreelancer *bool
	Search       *string
}

// Matches reports whether s satisfies every active filter.
func (f SummaryFilter) Matches(s Summary) bool {
	if f.DriverID != nil && *f.DriverID != "" && s.DriverID != *f.DriverID {
		return false
	}
	if f.Status != nil && *f.Status != "" && !strings.EqualFold(s.Status(), *f.Status) {
		return false
	}
	if f.IsFreelancer != nil && s.IsFreelancer != *f.IsFreelancer {
		return false
	}
	if f.Search != nil {
		term := strings.ToLower(strings.TrimSpace(*f.Search))
		if term != "" &&
			!strings.Contains(strings.ToLower(s.DriverName), term) &&
			!strings.Contains(s.Mobile, term) &&
			!strings.Contains(strings.ToLower(s.VehicleNumber), term) {
			return false
		}
	}
	return true
}

// Filter keeps the summaries matching f, preserving order.
func Filter(summaries []Summary, f SummaryFilter) []Summary {
	result := make([]Summary, 0, len(summaries))
	for _, s := range summaries {
		if f.Matches(s) {
			result = append(result, s)
		}
	}
	return result
}
