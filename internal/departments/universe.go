// Package departments holds the closed set of departments that may appear
// in standings at a given moment.
package departments

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/models"
)

// DefaultVersion tags the built-in seed list.
const DefaultVersion = "2025.2"

// DefaultSeed is the department list used when none is configured.
var DefaultSeed = []models.Department{
	{ID: "AE"}, {ID: "AIML"}, {ID: "AS"}, {ID: "C_CYCLE"}, {ID: "CG"},
	{ID: "CH"}, {ID: "CSE"}, {ID: "CV"}, {ID: "DSE"}, {ID: "ECE"},
	{ID: "ECE_ACT"}, {ID: "EEE"}, {ID: "IIOT"}, {ID: "ISE"}, {ID: "ME"},
	{ID: "P_CYCLE"}, {ID: "VLSI"}, {ID: "MBA"},
}

// Universe is an immutable, ordered snapshot of the active departments.
type Universe struct {
	version     string
	departments []models.Department
	byID        map[string]models.Department
}

// NewUniverse keeps only active departments, ordered by SortOrder then ID.
// Later duplicates of an ID are dropped.
func NewUniverse(version string, all []models.Department) *Universe {
	u := &Universe{version: version, byID: make(map[string]models.Department)}
	for _, d := range all {
		if !d.Active {
			continue
		}
		if _, dup := u.byID[d.ID]; dup {
			continue
		}
		if d.Label == "" {
			d.Label = models.DefaultLabel(d.ID)
		}
		u.byID[d.ID] = d
		u.departments = append(u.departments, d)
	}
	sort.SliceStable(u.departments, func(i, j int) bool {
		a, b := u.departments[i], u.departments[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})
	return u
}

// Version identifies the department list this universe was built from.
func (u *Universe) Version() string { return u.version }

// Len is the number of departments.
func (u *Universe) Len() int { return len(u.departments) }

// Departments returns a copy of the departments in display order.
func (u *Universe) Departments() []models.Department {
	return append([]models.Department(nil), u.departments...)
}

// IDs returns department ids in display order.
func (u *Universe) IDs() []string {
	ids := make([]string, len(u.departments))
	for i, d := range u.departments {
		ids[i] = d.ID
	}
	return ids
}

// Contains reports whether id is an active department.
func (u *Universe) Contains(id string) bool {
	_, ok := u.byID[id]
	return ok
}

// Label returns the display label for id. Unknown ids (retired departments
// still present in old records) fall back to the default label.
func (u *Universe) Label(id string) string {
	if d, ok := u.byID[id]; ok {
		return d.Label
	}
	return models.DefaultLabel(id)
}

// Validate returns a validation error for ids outside the universe,
// suggesting the closest match when there is one.
func (u *Universe) Validate(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.Validation("department is required")
	}
	if u.Contains(id) {
		return nil
	}
	if s := u.Suggest(id); s != "" {
		return errors.Validationf("unknown department %q (did you mean %q?)", id, s)
	}
	return errors.Validationf("unknown department %q", id)
}

// Suggest returns the department id closest to input, or "" when nothing
// is reasonably close.
func (u *Universe) Suggest(input string) string {
	ids := u.IDs()
	if len(ids) == 0 {
		return ""
	}

	// Case or separator slips: "cse", "c-cycle".
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(input), "-", "_"))
	if u.Contains(normalized) {
		return normalized
	}

	ranks := fuzzy.RankFindNormalizedFold(input, ids)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	for _, id := range ids {
		if d := fuzzy.LevenshteinDistance(normalized, id); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// ParseSeed reads "ID[:Label]" entries separated by commas. Order in the
// list becomes SortOrder. Blank entries are skipped.
func ParseSeed(list string) []models.Department {
	var out []models.Department
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, label, _ := strings.Cut(item, ":")
		id = strings.TrimSpace(id)
		label = strings.TrimSpace(label)
		if label == "" {
			label = models.DefaultLabel(id)
		}
		out = append(out, models.Department{ID: id, Label: label, SortOrder: len(out), Active: true})
	}
	return out
}

// Seed returns DefaultSeed with labels, sort order and the active flag filled in.
func Seed() []models.Department {
	out := make([]models.Department, len(DefaultSeed))
	for i, d := range DefaultSeed {
		d.Label = models.DefaultLabel(d.ID)
		d.SortOrder = i
		d.Active = true
		out[i] = d
	}
	return out
}
