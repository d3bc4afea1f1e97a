package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/collegefest/champboard/internal/departments"
	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/repository"
)

// settingDepartmentsVersion records which seed list the stored departments follow.
const settingDepartmentsVersion = "departments_version"

var departmentIDPattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

// DepartmentServiceRepository defines the repository methods needed by DepartmentService
type DepartmentServiceRepository interface {
	repository.DepartmentRepository
	repository.SettingsRepository
}

// DepartmentService manages the department universe
type DepartmentService struct {
	log         logger.Logger
	repo        DepartmentServiceRepository
	version     string
	broadcaster Broadcaster
}

// NewDepartmentService creates a new DepartmentService. version tags the
// universes it hands out until Seed records another one.
func NewDepartmentService(log logger.Logger, repo DepartmentServiceRepository, version string) *DepartmentService {
	if version == "" {
		version = departments.DefaultVersion
	}
	return &DepartmentService{log: log, repo: repo, version: version}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *DepartmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// DepartmentInput is an admin request to add a department
type DepartmentInput struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

// DepartmentPatch changes a department's presentation or status. The id never changes.
type DepartmentPatch struct {
	Label     *string `json:"label,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// SeedResult summarises a startup seed
type SeedResult struct {
	Version     string `json:"version"`
	Inserted    int    `json:"inserted"`
	Retired     int    `json:"retired"`
	Reactivated int    `json:"reactivated"`
	Backfilled  int64  `json:"backfilled"`
}

// Universe builds the current universe from storage
func (s *DepartmentService) Universe(ctx context.Context) (*departments.Universe, error) {
	all, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, translate(err, "departments")
	}
	return departments.NewUniverse(s.version, all), nil
}

// ListDepartments returns every department, retired ones included
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	all, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, translate(err, "departments")
	}
	return all, nil
}

// Seed inserts missing departments from seed and backfills their score
// records. When version differs from the stored one, the seed becomes
// authoritative: active departments absent from it are retired and retired
// ones listed in it come back.
func (s *DepartmentService) Seed(ctx context.Context, version string, seed []models.Department) (*SeedResult, error) {
	if version == "" {
		version = departments.DefaultVersion
	}
	result := &SeedResult{Version: version}

	stored, err := s.repo.GetSetting(ctx, settingDepartmentsVersion)
	if err != nil && err != repository.ErrNotFound {
		return nil, translate(err, "departments version")
	}
	bump := err == nil && stored != version

	inSeed := make(map[string]bool, len(seed))
	for _, d := range seed {
		inSeed[d.ID] = true
		inserted, err := s.repo.InsertDepartmentIfMissing(ctx, d)
		if err != nil {
			return nil, translate(err, "department "+d.ID)
		}
		if !inserted {
			continue
		}
		result.Inserted++
		n, err := s.repo.BackfillScores(ctx, d.ID)
		if err != nil {
			return nil, translate(err, "scores")
		}
		result.Backfilled += n
	}

	if bump {
		all, err := s.repo.ListDepartments(ctx)
		if err != nil {
			return nil, translate(err, "departments")
		}
		for _, d := range all {
			switch {
			case d.Active && !inSeed[d.ID]:
				d.Active = false
				if err := s.repo.UpdateDepartment(ctx, d); err != nil {
					return nil, translate(err, "department "+d.ID)
				}
				result.Retired++
			case !d.Active && inSeed[d.ID]:
				d.Active = true
				if err := s.repo.UpdateDepartment(ctx, d); err != nil {
					return nil, translate(err, "department "+d.ID)
				}
				n, err := s.repo.BackfillScores(ctx, d.ID)
				if err != nil {
					return nil, translate(err, "scores")
				}
				result.Reactivated++
				result.Backfilled += n
			}
		}
		s.log.Info("Department universe version changed", "from", stored, "to", version,
			"retired", result.Retired, "reactivated", result.Reactivated)
	}

	if err := s.repo.SetSetting(ctx, settingDepartmentsVersion, version); err != nil {
		return nil, translate(err, "departments version")
	}
	s.version = version
	return result, nil
}

// AddDepartment creates a department and gives it a zero score record in
// every existing sport event. It returns the number of records backfilled.
func (s *DepartmentService) AddDepartment(ctx context.Context, in DepartmentInput) (*models.Department, int64, error) {
	id := strings.ToUpper(strings.TrimSpace(in.ID))
	if !departmentIDPattern.MatchString(id) {
		return nil, 0, ErrInvalidDepartment
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = models.DefaultLabel(id)
	}

	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	} else {
		all, err := s.repo.ListDepartments(ctx)
		if err != nil {
			return nil, 0, translate(err, "departments")
		}
		for _, d := range all {
			if d.SortOrder >= order {
				order = d.SortOrder + 1
			}
		}
	}

	d := models.Department{ID: id, Label: label, SortOrder: order, Active: true}
	n, err := s.repo.CreateDepartment(ctx, d)
	if err != nil {
		return nil, 0, translate(err, "department "+id)
	}
	s.log.Info("Department added", "id", id, "label", label, "backfilled", n)
	s.notify()

	created, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		return nil, n, translate(err, "department "+id)
	}
	return created, n, nil
}

// UpdateDepartment relabels, reorders, retires or reactivates a department.
// Reactivation backfills score records for events created while it was retired.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id string, patch DepartmentPatch) (*models.Department, error) {
	if patch.Label == nil && patch.SortOrder == nil && patch.Active == nil {
		return nil, ErrNoFieldsToUpdate
	}
	d, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		return nil, translate(err, "department "+id)
	}

	wasActive := d.Active
	if patch.Label != nil {
		label := strings.TrimSpace(*patch.Label)
		if label == "" {
			return nil, errors.Validation("label must not be empty")
		}
		d.Label = label
	}
	if patch.SortOrder != nil {
		d.SortOrder = *patch.SortOrder
	}
	if patch.Active != nil {
		d.Active = *patch.Active
	}

	if err := s.repo.UpdateDepartment(ctx, *d); err != nil {
		return nil, translate(err, "department "+id)
	}
	if d.Active && !wasActive {
		if _, err := s.repo.BackfillScores(ctx, id); err != nil {
			return nil, translate(err, "scores")
		}
	}
	s.log.Info("Department updated", "id", id, "label", d.Label, "active", d.Active)
	s.notify()
	return d, nil
}

// RetireDepartment archives a department: it leaves the universe but its
// stored records are kept.
func (s *DepartmentService) RetireDepartment(ctx context.Context, id string) error {
	inactive := false
	_, err := s.UpdateDepartment(ctx, id, DepartmentPatch{Active: &inactive})
	return err
}

func (s *DepartmentService) notify() {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStandingsUpdated(models.DomainDepartments, "")
	}
}
