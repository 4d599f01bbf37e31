package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
)

type checkinRepo struct{ s *Store }

func (r *checkinRepo) Create(ctx context.Context, c checkin.CheckIn) (checkin.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = ""
	c.AttendanceID = nil
	return r.s.insertCheckin(c), nil
}

func (r *checkinRepo) GetByID(ctx context.Context, id string) (checkin.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.state.checkins[id]
	if !ok {
		return checkin.CheckIn{}, checkin.ErrCheckinNotFound
	}
	return c, nil
}

func (r *checkinRepo) ListUnprocessed(ctx context.Context, f checkin.UnprocessedFilter) ([]checkin.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []checkin.CheckIn
	for _, c := range r.s.state.checkins {
		if c.SkipAutoAttendance || c.AttendanceID != nil {
			continue
		}
		if c.Time.Before(f.TimeFrom) || c.ShiftActualEnd == nil || !c.ShiftActualEnd.Before(f.ShiftActualEndBefore) {
			continue
		}
		if c.ShiftTypeID == nil || *c.ShiftTypeID != f.ShiftTypeID || c.DeviceID != f.DeviceID {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out, nil
}

func (r *checkinRepo) ListSkipped(ctx context.Context, f checkin.SkippedFilter) ([]checkin.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []checkin.CheckIn
	for _, c := range r.s.state.checkins {
		if !c.SkipAutoAttendance || c.Time.Before(f.From) {
			continue
		}
		if f.To != nil && !c.Time.Before(*f.To) {
			continue
		}
		out = append(out, c)
	}
	sortCheckins(out)
	return out, nil
}

func (r *checkinRepo) ListByAttendance(ctx context.Context, attendanceID string) ([]checkin.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []checkin.CheckIn
	for _, c := range r.s.state.checkins {
		if c.AttendanceID != nil && *c.AttendanceID == attendanceID {
			out = append(out, c)
		}
	}
	sortCheckins(out)
	return out, nil
}

func (r *checkinRepo) MarkSkipped(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return checkin.ErrNoCheckinIDs
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		if c, ok := r.s.state.checkins[id]; ok {
			c.SkipAutoAttendance = true
			r.s.state.checkins[id] = c
		}
	}
	return nil
}

func (r *checkinRepo) ClearSkipped(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.state.checkins[id]
	if !ok {
		return checkin.ErrCheckinNotFound
	}
	c.SkipAutoAttendance = false
	r.s.state.checkins[id] = c
	return nil
}

func (r *checkinRepo) LinkAttendance(ctx context.Context, ids []string, attendanceID string) error {
	if len(ids) == 0 {
		return checkin.ErrNoCheckinIDs
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		if _, ok := r.s.state.checkins[id]; !ok {
			return fmt.Errorf("link checkin %s: %w", id, checkin.ErrCheckinNotFound)
		}
	}
	for _, id := range ids {
		c := r.s.state.checkins[id]
		c.AttendanceID = utils.StrPtr(attendanceID)
		r.s.state.checkins[id] = c
	}
	return nil
}

func (r *checkinRepo) UpdateDeviceID(ctx context.Context, id string, deviceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.state.checkins[id]
	if !ok {
		return checkin.ErrCheckinNotFound
	}
	c.DeviceID = deviceID
	r.s.state.checkins[id] = c
	return nil
}
