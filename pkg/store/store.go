package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Errors reported by Store implementations.
var (
	// ErrEmptyName rejects records stored without a name.
	ErrEmptyName = errors.New("a Dockerfile with no name cannot be stored")
	// ErrDuplicate signals a record with the same name at the exact same
	// timestamp. With microsecond precision this is best-effort uniqueness.
	ErrDuplicate = errors.New("duplicate Dockerfile entry at this timestamp")
	// ErrNotFound signals a lookup miss.
	ErrNotFound = errors.New("dockerfile not found")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05.000000"
)

// Record is a stored Dockerfile with its creation metadata. Date, time and
// timestamp are rendered in the timezone the store was constructed with.
type Record struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Content          string `json:"content"`
	CreatedDate      string `json:"created_date"`      // YYYY-MM-DD
	CreatedTime      string `json:"created_time"`      // HH:MM:SS.ffffff
	CreatedTimestamp string `json:"created_timestamp"` // RFC 3339
	Timezone         string `json:"timezone"`
}

// Stats aggregates the contents of a store.
type Stats struct {
	TotalDockerfiles int `json:"total_dockerfiles"`
	UniqueDates      int `json:"unique_dates"`
	UniqueNames      int `json:"unique_names"`
}

// Store persists generated Dockerfiles keyed by name and creation time.
// Callers must not assume anything about the backing storage.
type Store interface {
	// Add stores content under name at the current time.
	Add(ctx context.Context, name, content string) (Record, error)
	// All returns every record, newest first.
	All(ctx context.Context) ([]Record, error)
	// ByDate returns the records created on date, oldest first.
	ByDate(ctx context.Context, date string) ([]Record, error)
	// ByDateAndName returns the most recent record for name on date.
	ByDateAndName(ctx context.Context, date, name string) (Record, error)
	// Dates returns the distinct dates with stored records, newest first.
	Dates(ctx context.Context) ([]string, error)
	// NamesByDate returns the distinct names stored on date, ascending.
	NamesByDate(ctx context.Context, date string) ([]string, error)
	// Delete removes a record by ID and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
	// Stats returns aggregate counts.
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Options configures a store. The timezone is deliberately an explicit
// constructor value rather than package state.
type Options struct {
	// Location is the timezone applied to record timestamps. Defaults to UTC.
	Location *time.Location
	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.UTC
}

func (o Options) clock() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return time.Now
}

// Open returns a Postgres-backed store when dsn is non-empty and an
// in-memory store otherwise.
func Open(dsn string, opts Options) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return NewMemory(opts), nil
	}
	return NewPostgres(dsn, opts)
}

// stamp renders the creation metadata for a new record.
func stamp(now time.Time, loc *time.Location) (date, timeOfDay, timestamp, tz string) {
	t := now.In(loc)
	return t.Format(dateLayout), t.Format(timeLayout), t.Format(time.RFC3339Nano), loc.String()
}
