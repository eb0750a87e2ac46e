package objective

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"mender/internal/signal"
	"mender/pkg/logx"
)

// Store holds the backlog. All mutations funnel through one mutex so the
// single-writer contract holds regardless of how many readers poll it.
//
// Objectives are never deleted; only the execution history elsewhere is
// bounded. Callers own backlog growth.
type Store struct {
	mu sync.Mutex

	log logx.Logger
	now func() time.Time

	objectives []*Objective
	byID       map[string]*Objective

	markedTotal int
}

func NewStore(log logx.Logger) *Store {
	return &Store{
		log:  log,
		now:  time.Now,
		byID: map[string]*Objective{},
	}
}

// Generate runs the extractors over one signal snapshot, dedupes the batch by
// focus area (first extractor wins), stamps ids and lifecycle fields, inserts
// the survivors, and returns them.
//
// Dedup is batch-local only: a later Generate call can legitimately add a
// second objective with an already-seen focus area. That is the store's
// contract, not an oversight.
func (s *Store) Generate(snap signal.Snapshot) []Objective {
	batch := make([]Objective, 0, 8)
	seen := map[string]bool{}
	for _, extract := range extractors {
		for _, o := range extract(snap) {
			if seen[o.FocusArea] {
				continue
			}
			seen[o.FocusArea] = true
			batch = append(batch, o)
		}
	}

	if len(batch) == 0 {
		return nil
	}

	now := s.now()
	s.mu.Lock()
	for i := range batch {
		batch[i].ID = uuid.NewString()
		batch[i].Status = StatusActive
		batch[i].CreatedAt = now

		cp := batch[i]
		s.objectives = append(s.objectives, &cp)
		s.byID[cp.ID] = &cp
	}
	total := len(s.objectives)
	s.mu.Unlock()

	s.log.Debug("objectives generated",
		logx.Int("batch", len(batch)), logx.Int("total", total))
	return batch
}

// Prioritized returns the active objectives ordered by (urgency rank,
// 1-impact) ascending: critical first, and within one urgency class the
// highest impact first. No further tie-break is defined; the stable sort
// keeps insertion order for exact ties.
func (s *Store) Prioritized() []Objective {
	s.mu.Lock()
	out := make([]Objective, 0, len(s.objectives))
	for _, o := range s.objectives {
		if o.Status == StatusActive {
			out = append(out, *o)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Objective) int {
		if ra, rb := a.Urgency.Rank(), b.Urgency.Rank(); ra != rb {
			return ra - rb
		}
		switch {
		case a.ImpactScore > b.ImpactScore:
			return -1
		case a.ImpactScore < b.ImpactScore:
			return 1
		default:
			return 0
		}
	})
	return out
}

// MarkAddressed flips an objective to addressed and bumps the cumulative
// marked counter. Marking an already-addressed id is not rejected and counts
// again; callers that care must not double-report success.
func (s *Store) MarkAddressed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("mark addressed %q: %w", id, ErrNotFound)
	}
	o.Status = StatusAddressed
	s.markedTotal++
	return nil
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Total:       len(s.objectives),
		ByType:      map[Type]int{},
		ByUrgency:   map[Urgency]int{},
		MarkedTotal: s.markedTotal,
	}
	for _, o := range s.objectives {
		switch o.Status {
		case StatusAddressed:
			st.Addressed++
		default:
			st.Active++
		}
		st.ByType[o.Type]++
		st.ByUrgency[o.Urgency]++
	}
	return st
}
