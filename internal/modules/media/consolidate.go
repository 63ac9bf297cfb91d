package media

import (
	"context"
	"fmt"
	"log"
	"path"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Addition is one uploaded payload queued for a prefix. Submission order
// determines the file's position after consolidation.
type Addition struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DeletionReport records the outcome of the best-effort deletion phase so
// callers can surface a partial-success warning instead of losing it.
type DeletionReport struct {
	Deleted []string          `json:"deleted,omitempty"`
	Failed  map[string]string `json:"failed,omitempty"`
}

func (r DeletionReport) AllSucceeded() bool { return len(r.Failed) == 0 }

// Consolidate applies an edit to the objects under prefix and compacts the
// result: deletions are removed best-effort, additions are appended after
// the surviving max index, and every indexed object is renamed so indices
// form a dense run 1..N. Survivors keep their relative order and their
// extensions; additions land after them in submission order. The returned
// count is what the caller persists as the post's file count.
//
// Deletion failures never abort the edit; they are logged and collected
// into the report. Any listing, write, or rename failure is fatal and the
// store is left as far as the completed sub-operations got it.
func (s *Service) Consolidate(ctx context.Context, prefix string, deletions []string, additions []Addition) (int, DeletionReport, error) {
	report := DeletionReport{Failed: map[string]string{}}
	if s.store == nil {
		return 0, report, ErrStoreUnavailable
	}
	if prefix == "" {
		return 0, report, fmt.Errorf("consolidate: empty prefix")
	}

	unlock := s.prefixes.lock(prefix)
	defer unlock()

	// Phase 1: fan out deletions, join before listing.
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, name := range dedupe(deletions) {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			key := prefix + name
			if err := s.store.Delete(ctx, key); err != nil {
				log.Printf("media consolidate delete_failed key=%s error=%q", key, err)
				mu.Lock()
				report.Failed[name] = err.Error()
				mu.Unlock()
				return
			}
			s.cache.Invalidate(key)
			mu.Lock()
			report.Deleted = append(report.Deleted, name)
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	// Phase 2: settle on the surviving max index.
	survivors, err := s.store.List(ctx, prefix)
	if err != nil {
		return 0, report, fmt.Errorf("consolidate list %q: %w", prefix, err)
	}
	maxIndex := 0
	for _, obj := range survivors {
		idx := ParseIndex(obj.Key)
		if idx < 0 {
			// A name without a numeric index under a post prefix means some
			// other writer put it there; warn instead of silently skipping.
			log.Printf("media consolidate foreign_object key=%s", obj.Key)
			continue
		}
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	// Phase 3: fan out the new writes after the surviving max index, join
	// before computing the rename plan.
	g, gctx := errgroup.WithContext(ctx)
	for i, add := range additions {
		key := MakeKey(prefix, maxIndex+1+i, ExtOrDefault(add.Filename))
		data, contentType := add.Data, add.ContentType
		g.Go(func() error {
			if err := s.store.Write(gctx, key, data, contentType); err != nil {
				return fmt.Errorf("consolidate write %q: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, report, err
	}

	// Phase 4: re-list and close the index gaps. Renaming in ascending
	// target order never overwrites an object that still needs moving.
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return 0, report, fmt.Errorf("consolidate relist %q: %w", prefix, err)
	}
	type indexed struct {
		key   string
		index int
	}
	var plan []indexed
	for _, obj := range objects {
		if idx := ParseIndex(obj.Key); idx >= 0 {
			plan = append(plan, indexed{key: obj.Key, index: idx})
		}
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].index < plan[j].index })

	for i, entry := range plan {
		target := MakeKey(prefix, i+1, path.Ext(entry.key))
		if entry.key == target {
			continue
		}
		if err := s.store.Move(ctx, entry.key, target); err != nil {
			return 0, report, fmt.Errorf("consolidate rename %q to %q: %w", entry.key, target, err)
		}
		s.cache.Invalidate(entry.key)
		s.cache.Invalidate(target)
	}

	return len(plan), report, nil
}

// SyncCount persists finalCount as the post's denormalized file count.
// Called only after Consolidate succeeds; the count is a cache of the
// store, never the authority.
func (s *Service) SyncCount(ctx context.Context, postID int64, finalCount int) error {
	if s.counts == nil {
		return nil
	}
	return s.counts.UpdateFileCount(ctx, postID, finalCount)
}

// RemoveAll deletes every object under prefix. Runs when a post is deleted
// and its media directory cascades with it.
func (s *Service) RemoveAll(ctx context.Context, prefix string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	unlock := s.prefixes.lock(prefix)
	defer unlock()
	return s.store.DeleteAll(ctx, prefix)
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// prefixLocks serializes consolidations per prefix so two concurrent edits
// of the same post cannot interleave their list/write/rename phases.
// Edits on different prefixes stay fully independent.
type prefixLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *prefixLocks) lock(prefix string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	m, ok := p.locks[prefix]
	if !ok {
		m = &sync.Mutex{}
		p.locks[prefix] = m
	}
	p.mu.Unlock()
	m.Lock()
	return m.Unlock
}
