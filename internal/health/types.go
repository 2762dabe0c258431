package health

import (
	"encoding/json"
	"time"
)

// HealthStatus is the outcome of the last check of a feed source.
type HealthStatus string

const (
	StatusOK      HealthStatus = "ok"
	StatusWarning HealthStatus = "warning"
	StatusError   HealthStatus = "error"
)

// HealthCategory groups feed sources. The feed directory is checked as a
// whole; each feed document inside it is tracked on its own.
type HealthCategory string

const (
	CategoryFeedDirectory HealthCategory = "feedDirectory"
	CategoryFeeds         HealthCategory = "feeds"
)

// AllCategories lists the categories, directory first.
func AllCategories() []HealthCategory {
	return []HealthCategory{
		CategoryFeedDirectory,
		CategoryFeeds,
	}
}

// ParseCategory maps a route segment such as "feeds" to its category.
func ParseCategory(name string) (HealthCategory, bool) {
	for _, cat := range AllCategories() {
		if string(cat) == name {
			return cat, true
		}
	}
	return "", false
}

// HealthItem is one tracked source. For feeds the ID is the document path
// and the name its file name; Message carries the decode or slug error.
type HealthItem struct {
	ID        string         `json:"id"`
	Category  HealthCategory `json:"category"`
	Name      string         `json:"name"`
	Status    HealthStatus   `json:"status"`
	Message   string         `json:"message,omitempty"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
}

// MarshalJSON drops a stale message and timestamp once a source is OK again.
func (h HealthItem) MarshalJSON() ([]byte, error) {
	type plain HealthItem
	out := plain(h)

	if h.Status == StatusOK {
		out.Timestamp = nil
		out.Message = ""
	}

	return json.Marshal(out)
}

// CategorySummary counts the sources of a category by status.
type CategorySummary struct {
	Category HealthCategory `json:"category"`
	OK       int            `json:"ok"`
	Warning  int            `json:"warning"`
	Error    int            `json:"error"`
}

// Total is the number of tracked sources.
func (c CategorySummary) Total() int {
	return c.OK + c.Warning + c.Error
}

// HasIssues reports whether any feed was skipped or flagged.
func (c CategorySummary) HasIssues() bool {
	return c.Warning > 0 || c.Error > 0
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	FeedDirectory []HealthItem `json:"feedDirectory"`
	Feeds         []HealthItem `json:"feeds"`
}

// HealthSummary is the body of GET /api/v1/health/summary.
type HealthSummary struct {
	Categories []CategorySummary `json:"categories"`
	HasIssues  bool              `json:"hasIssues"`
}

// IsBinaryCategory reports whether a category has no warning state. The feed
// directory is either readable or not.
func IsBinaryCategory(category HealthCategory) bool {
	return category == CategoryFeedDirectory
}
