package extractions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// NameSet is a case-insensitive membership set of known names.
type NameSet map[string]struct{}

func newNameSet(names []string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			set[strings.ToLower(name)] = struct{}{}
		}
	}
	return set
}

// Contains reports case-insensitive membership. An empty set matches
// nothing.
func (s NameSet) Contains(name string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func sortedNames(s NameSet) []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupSets holds the known-name sets the approval gate matches against.
type LookupSets struct {
	Patients NameSet `json:"patients"`
	Doctors  NameSet `json:"doctors"`
	Contacts NameSet `json:"contacts"`
}

// lookupSource pairs a dedicated lookup table with the extraction column
// used as a fallback when the table is empty or unreadable.
type lookupSource struct {
	table          string
	fallbackColumn string
}

var lookupSources = map[string]lookupSource{
	"patients": {"lookup_patients", "patient_name"},
	"doctors":  {"lookup_doctors", "assigned_doctor"},
	"contacts": {"lookup_contacts", "source_contact"},
}

// loadLookups loads the three name sets concurrently. A lookup table that
// errors or is empty falls back to the distinct values seen in prior
// extractions, so approval still has a matching baseline on fresh
// deployments.
func loadLookups(ctx context.Context, db *sql.DB, logger *slog.Logger) (*LookupSets, error) {
	sets := &LookupSets{}
	targets := map[string]*NameSet{
		"patients": &sets.Patients,
		"doctors":  &sets.Doctors,
		"contacts": &sets.Contacts,
	}

	g, ctx := errgroup.WithContext(ctx)
	for name, source := range lookupSources {
		g.Go(func() error {
			set, err := loadNameSet(ctx, db, logger, name, source)
			if err != nil {
				return err
			}
			*targets[name] = set
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sets, nil
}

func loadNameSet(
	ctx context.Context,
	db *sql.DB,
	logger *slog.Logger,
	name string,
	source lookupSource,
) (NameSet, error) {
	names, err := queryNames(ctx, db,
		fmt.Sprintf("SELECT name FROM %s", source.table))

	if err != nil {
		logger.Warn("lookup table unavailable, falling back to prior extractions",
			"lookup", name,
			"table", source.table,
			"error", err)
	}

	if err == nil && len(names) > 0 {
		return newNameSet(names), nil
	}

	fallback, err := queryNames(ctx, db, fmt.Sprintf(
		"SELECT DISTINCT %s FROM extractions WHERE %s <> ''",
		source.fallbackColumn, source.fallbackColumn))
	if err != nil {
		return nil, fmt.Errorf("load %s lookup fallback: %w", name, err)
	}

	return newNameSet(fallback), nil
}

func queryNames(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
