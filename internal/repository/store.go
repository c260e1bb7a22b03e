package repository

import (
	"fmt"

	"gorm.io/gorm"

	"workforce-backend/internal/model"
	"workforce-backend/internal/pipeline"
)

// Store groups the repositories a reconciliation run reads from and
// writes to.
type Store struct {
	db        *gorm.DB
	Employees EmployeeRepository
	Shifts    ShiftRepository
	Swaps     ShiftSwapRepository
	Events    AttendanceRepository
	Sessions  SessionRepository
	Summary   SummaryRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Employees: NewEmployeeRepository(db),
		Shifts:    NewShiftRepository(db),
		Swaps:     NewShiftSwapRepository(db),
		Events:    NewAttendanceRepository(db),
		Sessions:  NewSessionRepository(db),
		Summary:   NewSummaryRepository(db),
	}
}

// LoadInput reads the full pipeline input. from and to bound the event
// timestamps when both are set.
func (s *Store) LoadInput(from, to string) (pipeline.Input, error) {
	var (
		in  pipeline.Input
		err error
	)
	if from != "" && to != "" {
		in.Events, err = s.Events.GetByRange(from, to)
	} else {
		in.Events, err = s.Events.GetAll()
	}
	if err != nil {
		return in, fmt.Errorf("load events: %w", err)
	}
	if in.Employees, err = s.Employees.GetAll(); err != nil {
		return in, fmt.Errorf("load employees: %w", err)
	}
	if in.Shifts, err = s.Shifts.GetAll(); err != nil {
		return in, fmt.Errorf("load shifts: %w", err)
	}
	if in.Swaps, err = s.Swaps.GetApproved(); err != nil {
		return in, fmt.Errorf("load swaps: %w", err)
	}
	return in, nil
}

// SaveSessions replaces the stored sessions of runID in a single
// transaction; rows of an earlier save under the same id are removed.
func (s *Store) SaveSessions(runID string, sessions []model.WorkSession) error {
	records := make([]model.SessionRecord, 0, len(sessions))
	for _, ws := range sessions {
		rec, err := model.NewSessionRecord(runID, ws)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewSessionRepository(tx)
		if err := repo.DeleteRun(runID); err != nil {
			return fmt.Errorf("clear run %s: %w", runID, err)
		}
		return repo.UpsertBatch(records)
	})
}

// Import upserts the directory, shifts and swaps, then appends
// events, all in one transaction.
func (s *Store) Import(in pipeline.Input) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := NewEmployeeRepository(tx).UpsertBatch(in.Employees); err != nil {
			return fmt.Errorf("import employees: %w", err)
		}
		if err := NewShiftRepository(tx).UpsertBatch(in.Shifts); err != nil {
			return fmt.Errorf("import shifts: %w", err)
		}
		if err := NewShiftSwapRepository(tx).UpsertBatch(in.Swaps); err != nil {
			return fmt.Errorf("import swaps: %w", err)
		}
		if err := NewAttendanceRepository(tx).CreateMany(in.Events); err != nil {
			return fmt.Errorf("import events: %w", err)
		}
		return nil
	})
}
