package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go-dgpa-watcher/internal/models"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

type seenEntry struct {
	Fingerprint string `json:"fingerprint"`
	Timestamp   int64  `json:"timestamp"`
}

// PostingCache remembers which postings were already announced.
type PostingCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
	logger   *zap.Logger
	now      func() time.Time
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// Fingerprint identifies a posting across runs. The table has no stable id, so the
// fields that change between vacancies are joined.
func Fingerprint(p models.JobPosting) string {
	return strings.Join([]string{p.Title, p.Organization, p.JobFamily, p.WorkLocation, p.ValidityPeriod}, "|")
}

// NewPostingCache creates or loads a posting cache
func NewPostingCache(cacheDir string, logger *zap.Logger) *PostingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		logger.Warn("⚠️ Failed to create cache directory", zap.Error(err))
	}
	cache := &PostingCache{
		filePath: filepath.Join(cacheDir, "seen_postings.json"),
		seen:     make(map[string]int64),
		logger:   logger,
		now:      time.Now,
	}
	cache.load()
	return cache
}

// IsSeen checks if a posting has already been announced
func (pc *PostingCache) IsSeen(p models.JobPosting) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	_, exists := pc.seen[Fingerprint(p)]
	return exists
}

// Unseen returns the postings not in the cache, preserving order.
func (pc *PostingCache) Unseen(postings []models.JobPosting) []models.JobPosting {
	out := make([]models.JobPosting, 0, len(postings))
	for _, p := range postings {
		if !pc.IsSeen(p) {
			out = append(out, p)
		}
	}
	return out
}

// Add marks postings as seen and persists the cache when anything changed.
func (pc *PostingCache) Add(postings []models.JobPosting) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.now().UnixMilli()
	changed := false
	for _, p := range postings {
		fp := Fingerprint(p)
		if _, exists := pc.seen[fp]; !exists {
			pc.seen[fp] = now
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return pc.save()
}

// load reads the cache from disk, dropping entries older than 30 days
func (pc *PostingCache) load() {
	loaded, expired := pc.merge()
	pc.logger.Info("📋 Loaded previously seen postings",
		zap.Int("loaded", loaded),
		zap.Int("expired", expired))
}

// merge adds the unexpired entries of the cache file that are not in memory yet.
// A missing or corrupt file merges nothing.
func (pc *PostingCache) merge() (loaded, expired int) {
	data, err := os.ReadFile(pc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			pc.logger.Warn("⚠️ Failed to read seen_postings.json", zap.Error(err))
		}
		return 0, 0
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		pc.logger.Warn("⚠️ Failed to parse seen_postings.json", zap.Error(err))
		return 0, 0
	}

	thirtyDaysAgo := pc.now().UnixMilli() - thirtyDaysMs
	for _, e := range entries {
		if e.Timestamp <= thirtyDaysAgo {
			expired++
			continue
		}
		if _, exists := pc.seen[e.Fingerprint]; !exists {
			pc.seen[e.Fingerprint] = e.Timestamp
		}
		loaded++
	}
	return loaded, expired
}

// save writes the current cache to disk. Caller holds mu.
func (pc *PostingCache) save() error {
	//overlapping scheduled runs share the cache file, so pick up their entries under the lock
	lock := flock.New(pc.filePath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", pc.filePath, err)
	}
	defer lock.Unlock()

	pc.merge()

	entries := make([]seenEntry, 0, len(pc.seen))
	for fp, ts := range pc.seen {
		entries = append(entries, seenEntry{Fingerprint: fp, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen postings: %w", err)
	}

	if err := os.WriteFile(pc.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", pc.filePath, err)
	}
	pc.logger.Info("💾 Saved seen postings to cache", zap.Int("count", len(entries)))
	return nil
}
