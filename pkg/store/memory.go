package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is the in-process Store used when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   []memRow

	loc *time.Location
	now func() time.Time
}

type memRow struct {
	Record
	at time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory(opts Options) *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		loc:    opts.location(),
		now:    opts.clock(),
	}
}

func (s *MemoryStore) Add(_ context.Context, name, content string) (Record, error) {
	if name == "" {
		return Record{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().In(s.loc)
	date, timeOfDay, timestamp, tz := stamp(at, s.loc)
	for _, row := range s.rows {
		if row.Name == name && row.CreatedDate == date && row.CreatedTime == timeOfDay {
			return Record{}, ErrDuplicate
		}
	}

	rec := Record{
		ID:               s.nextID,
		Name:             name,
		Content:          content,
		CreatedDate:      date,
		CreatedTime:      timeOfDay,
		CreatedTimestamp: timestamp,
		Timezone:         tz,
	}
	s.nextID++
	s.rows = append(s.rows, memRow{Record: rec, at: at})
	return rec, nil
}

func (s *MemoryStore) All(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row.Record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedTimestamp > out[j].CreatedTimestamp
	})
	return out, nil
}

func (s *MemoryStore) ByDate(_ context.Context, date string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, row := range s.rows {
		if row.CreatedDate == date {
			out = append(out, row.Record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedTime < out[j].CreatedTime
	})
	return out, nil
}

func (s *MemoryStore) ByDateAndName(_ context.Context, date, name string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  Record
		found bool
	)
	for _, row := range s.rows {
		if row.CreatedDate != date || row.Name != name {
			continue
		}
		if !found || row.CreatedTime > best.CreatedTime {
			best = row.Record
			found = true
		}
	}
	if !found {
		return Record{}, ErrNotFound
	}
	return best, nil
}

func (s *MemoryStore) Dates(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var dates []string
	for _, row := range s.rows {
		if _, ok := seen[row.CreatedDate]; ok {
			continue
		}
		seen[row.CreatedDate] = struct{}{}
		dates = append(dates, row.CreatedDate)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (s *MemoryStore) NamesByDate(_ context.Context, date string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var names []string
	for _, row := range s.rows {
		if row.CreatedDate != date {
			continue
		}
		if _, ok := seen[row.Name]; ok {
			continue
		}
		seen[row.Name] = struct{}{}
		names = append(names, row.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.rows {
		if row.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, row := range s.rows {
		dates[row.CreatedDate] = struct{}{}
		names[row.Name] = struct{}{}
	}
	return Stats{
		TotalDockerfiles: len(s.rows),
		UniqueDates:      len(dates),
		UniqueNames:      len(names),
	}, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
