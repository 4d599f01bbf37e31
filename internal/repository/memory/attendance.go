package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
	"github.com/google/uuid"
)

type attendanceRepo struct{ s *Store }

func (r *attendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.Date = utils.DateOf(a.Date)
	if r.activeLocked(a.EmployeeID, a.Date) != nil {
		return attendance.Attendance{}, attendance.ErrDuplicateAttendance
	}

	a.ID = uuid.NewString()
	a.DocStatus = attendance.DocStatusDraft
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.s.state.attendances[a.ID] = a
	return a, nil
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.state.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepo) Submit(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.state.attendances[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if a.DocStatus != attendance.DocStatusDraft {
		return attendance.ErrAttendanceNotDraft
	}
	a.DocStatus = attendance.DocStatusSubmitted
	a.UpdatedAt = r.s.now()
	r.s.state.attendances[id] = a
	return nil
}

func (r *attendanceRepo) Cancel(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.state.attendances[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	switch a.DocStatus {
	case attendance.DocStatusDraft:
		return attendance.ErrCannotCancelDraft
	case attendance.DocStatusCancelled:
		return attendance.ErrAlreadyCancelled
	}
	if r.s.state.references[id] {
		return attendance.ErrAttendanceReferenced
	}

	a.DocStatus = attendance.DocStatusCancelled
	a.UpdatedAt = r.s.now()
	r.s.state.attendances[id] = a
	r.unlinkLocked(id)
	return nil
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.state.attendances[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if a.DocStatus == attendance.DocStatusSubmitted {
		return attendance.ErrCannotDeleteSubmitted
	}
	for cid, c := range r.s.state.checkins {
		if c.AttendanceID != nil && *c.AttendanceID == id {
			c.AttendanceID = nil
			r.s.state.checkins[cid] = c
		}
	}
	delete(r.s.state.attendances, id)
	delete(r.s.state.references, id)
	return nil
}

func (r *attendanceRepo) GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.activeLocked(employeeID, utils.DateOf(date)), nil
}

func (r *attendanceRepo) GetSubmittedByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.activeLocked(employeeID, utils.DateOf(date))
	if a == nil || a.DocStatus != attendance.DocStatusSubmitted {
		return nil, nil
	}
	return a, nil
}

func (r *attendanceRepo) ListMarkedDates(ctx context.Context, employeeID string, from time.Time, to time.Time) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	from, to = utils.DateOf(from), utils.DateOf(to)
	var dates []time.Time
	for _, a := range r.s.state.attendances {
		if a.EmployeeID != employeeID || a.DocStatus == attendance.DocStatusCancelled {
			continue
		}
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		dates = append(dates, a.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (r *attendanceRepo) activeLocked(employeeID string, date time.Time) *attendance.Attendance {
	for _, a := range r.s.state.attendances {
		if a.EmployeeID == employeeID && a.Date.Equal(date) && a.DocStatus != attendance.DocStatusCancelled {
			found := a
			return &found
		}
	}
	return nil
}

func (r *attendanceRepo) unlinkLocked(attendanceID string) {
	for id, c := range r.s.state.checkins {
		if c.AttendanceID != nil && *c.AttendanceID == attendanceID {
			c.AttendanceID = nil
			c.SkipAutoAttendance = false
			r.s.state.checkins[id] = c
		}
	}
}
