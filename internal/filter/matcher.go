package filter

import (
	"time"

	"go-dgpa-watcher/internal/models"
)

// Taipei is the time zone of the DGPA validity dates. Falls back to a fixed UTC+8.
var Taipei = loadTaipei()

func loadTaipei() *time.Location {
	if loc, err := time.LoadLocation("Asia/Taipei"); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*60*60)
}

// IsActive reports whether now falls before the end of the posting's validity period.
// Unknown or unparsable periods count as active.
func IsActive(p models.JobPosting, now time.Time) bool {
	if p.ValidityPeriod == "" {
		return true
	}
	_, to, ok := ValidityRange(p.ValidityPeriod, Taipei)
	if !ok {
		return true
	}
	//the last day is valid until midnight
	return now.Before(to.AddDate(0, 0, 1))
}

// Active keeps the postings that are still open at now, preserving order.
func Active(postings []models.JobPosting, now time.Time) []models.JobPosting {
	out := make([]models.JobPosting, 0, len(postings))
	for _, p := range postings {
		if IsActive(p, now) {
			out = append(out, p)
		}
	}
	return out
}
