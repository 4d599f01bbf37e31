package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/comment"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
	"github.com/google/uuid"
)

type deviceRepo struct{ s *Store }

func (r *deviceRepo) List(ctx context.Context) ([]device.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]device.Device, 0, len(r.s.state.devices))
	for _, d := range r.s.state.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *deviceRepo) GetByID(ctx context.Context, id string) (device.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.state.devices[id]
	if !ok {
		return device.Device{}, device.ErrDeviceNotFound
	}
	return d, nil
}

func (r *deviceRepo) UpdateLastSync(ctx context.Context, id string, lastSync time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.state.devices[id]
	if !ok {
		return device.ErrDeviceNotFound
	}
	if d.LastSyncOfCheckin == nil || lastSync.After(*d.LastSyncOfCheckin) {
		d.LastSyncOfCheckin = &lastSync
	}
	r.s.state.devices[id] = d
	return nil
}

type shiftTypeRepo struct{ s *Store }

func (r *shiftTypeRepo) GetByID(ctx context.Context, id string) (shift.ShiftType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.state.shiftTypes[id]
	if !ok {
		return shift.ShiftType{}, shift.ErrShiftTypeNotFound
	}
	return st, nil
}

func (r *shiftTypeRepo) ListAutoAttendanceEnabled(ctx context.Context) ([]shift.ShiftType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []shift.ShiftType
	for _, st := range r.s.state.shiftTypes {
		if st.EnableAutoAttendance {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *shiftTypeRepo) UpdateLastSync(ctx context.Context, id string, lastSync time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.state.shiftTypes[id]
	if !ok {
		return shift.ErrShiftTypeNotFound
	}
	if st.LastSyncOfCheckin == nil || lastSync.After(*st.LastSyncOfCheckin) {
		st.LastSyncOfCheckin = &lastSync
	}
	r.s.state.shiftTypes[id] = st
	return nil
}

type employeeRepo struct{ s *Store }

func (r *employeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.state.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepo) ListAssignedToShift(ctx context.Context, shiftTypeID string, from time.Time, includeDefault bool) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	from = utils.DateOf(from)
	var out []employee.Employee
	for _, e := range r.s.state.employees {
		if e.EmploymentStatus != employee.EmploymentStatusActive {
			continue
		}
		assigned := includeDefault && e.DefaultShiftTypeID != nil && *e.DefaultShiftTypeID == shiftTypeID
		for _, a := range r.s.state.assignments {
			if a.EmployeeID == e.ID && a.ShiftTypeID == shiftTypeID && (a.EndDate == nil || !a.EndDate.Before(from)) {
				assigned = true
			}
		}
		if assigned {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *employeeRepo) GetShiftTypeIDOn(ctx context.Context, employeeID string, date time.Time) (*string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.state.employees[employeeID]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}

	date = utils.DateOf(date)
	var best *shift.Assignment
	for i, a := range r.s.state.assignments {
		if a.EmployeeID != employeeID || a.StartDate.After(date) {
			continue
		}
		if a.EndDate != nil && a.EndDate.Before(date) {
			continue
		}
		if best == nil || a.StartDate.After(best.StartDate) {
			best = &r.s.state.assignments[i]
		}
	}
	if best != nil {
		return utils.StrPtr(best.ShiftTypeID), nil
	}
	return e.DefaultShiftTypeID, nil
}

type holidayRepo struct{ s *Store }

func (r *holidayRepo) ListDates(ctx context.Context, holidayListID string, from time.Time, to time.Time) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	from, to = utils.DateOf(from), utils.DateOf(to)
	var out []time.Time
	for _, d := range r.s.state.holidays[holidayListID] {
		if !d.Before(from) && !d.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = uuid.NewString()
	c.CreatedAt = r.s.now()
	r.s.state.comments = append(r.s.state.comments, c)
	return c, nil
}

func (r *commentRepo) ListByReference(ctx context.Context, referenceType comment.ReferenceType, referenceID string) ([]comment.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []comment.Comment
	for _, c := range r.s.state.comments {
		if c.ReferenceType == referenceType && c.ReferenceID == referenceID {
			out = append(out, c)
		}
	}
	return out, nil
}
