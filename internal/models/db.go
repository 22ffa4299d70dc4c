package models

import (
	"time"
)

type PostingRecord struct {
	ID          int64      `json:"id"`
	Fingerprint string     `json:"fingerprint"`
	Keyword     string     `json:"keyword"`
	Posting     JobPosting `json:"posting"`
	FirstSeenAt time.Time  `json:"first_seen_at"`
	LastSeenAt  time.Time  `json:"last_seen_at"`
}

type Run struct {
	ID        int64     `json:"id"`
	Keyword   string    `json:"keyword"`
	Postings  int       `json:"postings"`
	Unparsed  int       `json:"unparsed"`
	CreatedAt time.Time `json:"created_at"`
}
