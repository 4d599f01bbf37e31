// Package memory provides map-backed repositories used by service and
// handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/comment"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/holiday"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
	"github.com/google/uuid"
)

type state struct {
	shiftTypes  map[string]shift.ShiftType
	employees   map[string]employee.Employee
	assignments []shift.Assignment
	devices     map[string]device.Device
	attendances map[string]attendance.Attendance
	references  map[string]bool
	checkins    map[string]checkin.CheckIn
	holidays    map[string][]time.Time
	comments    []comment.Comment
}

func (s state) clone() state {
	c := state{
		shiftTypes:  make(map[string]shift.ShiftType, len(s.shiftTypes)),
		employees:   make(map[string]employee.Employee, len(s.employees)),
		assignments: append([]shift.Assignment(nil), s.assignments...),
		devices:     make(map[string]device.Device, len(s.devices)),
		attendances: make(map[string]attendance.Attendance, len(s.attendances)),
		references:  make(map[string]bool, len(s.references)),
		checkins:    make(map[string]checkin.CheckIn, len(s.checkins)),
		holidays:    make(map[string][]time.Time, len(s.holidays)),
		comments:    append([]comment.Comment(nil), s.comments...),
	}
	for k, v := range s.shiftTypes {
		c.shiftTypes[k] = v
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.devices {
		c.devices[k] = v
	}
	for k, v := range s.attendances {
		c.attendances[k] = v
	}
	for k, v := range s.references {
		c.references[k] = v
	}
	for k, v := range s.checkins {
		c.checkins[k] = v
	}
	for k, v := range s.holidays {
		c.holidays[k] = append([]time.Time(nil), v...)
	}
	return c
}

// Store keeps every entity in memory. Its Transactor restores a snapshot when
// the transaction function fails, nested calls included.
type Store struct {
	mu    sync.Mutex
	runMu sync.Mutex
	state state
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		state: state{}.clone(),
		now:   time.Now,
	}
}

// WithinTransaction implements database.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// WithLock implements database.Locker with a single process-wide mutex.
func (s *Store) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (s *Store) Checkins() checkin.CheckinRepository         { return &checkinRepo{s} }
func (s *Store) Attendances() attendance.AttendanceRepository { return &attendanceRepo{s} }
func (s *Store) Devices() device.DeviceRepository             { return &deviceRepo{s} }
func (s *Store) ShiftTypes() shift.ShiftTypeRepository        { return &shiftTypeRepo{s} }
func (s *Store) Employees() employee.EmployeeRepository       { return &employeeRepo{s} }
func (s *Store) Holidays() holiday.HolidayRepository           { return &holidayRepo{s} }
func (s *Store) Comments() comment.CommentRepository          { return &commentRepo{s} }

// ========================================
// SEEDING
// ========================================

func (s *Store) AddShiftType(st shift.ShiftType) shift.ShiftType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	s.state.shiftTypes[st.ID] = st
	return st
}

func (s *Store) AddEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EmploymentStatus == "" {
		e.EmploymentStatus = employee.EmploymentStatusActive
	}
	s.state.employees[e.ID] = e
	return e
}

func (s *Store) AddAssignment(a shift.Assignment) shift.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.StartDate = utils.DateOf(a.StartDate)
	s.state.assignments = append(s.state.assignments, a)
	return a
}

func (s *Store) AddDevice(d device.Device) device.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.devices[d.ID] = d
	return d
}

func (s *Store) AddHoliday(holidayListID string, day time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.holidays[holidayListID] = append(s.state.holidays[holidayListID], utils.DateOf(day))
}

func (s *Store) AddCheckin(c checkin.CheckIn) checkin.CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCheckin(c)
}

// PutAttendance stores an attendance as given, docstatus included.
func (s *Store) PutAttendance(a attendance.Attendance) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Date = utils.DateOf(a.Date)
	s.state.attendances[a.ID] = a
	return a
}

// PinAttendance records a document referencing the attendance so it can no
// longer be cancelled.
func (s *Store) PinAttendance(attendanceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.references[attendanceID] = true
}

// ========================================
// INSPECTION
// ========================================

func (s *Store) Checkin(id string) checkin.CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.checkins[id]
}

func (s *Store) AllCheckins() []checkin.CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]checkin.CheckIn, 0, len(s.state.checkins))
	for _, c := range s.state.checkins {
		out = append(out, c)
	}
	sortCheckins(out)
	return out
}

func (s *Store) Attendance(id string) (attendance.Attendance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.attendances[id]
	return a, ok
}

// AllAttendances returns every attendance ordered by employee, date and creation.
func (s *Store) AllAttendances() []attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]attendance.Attendance, 0, len(s.state.attendances))
	for _, a := range s.state.attendances {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) AllComments() []comment.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]comment.Comment(nil), s.state.comments...)
}

func (s *Store) Device(id string) device.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.devices[id]
}

func (s *Store) ShiftType(id string) shift.ShiftType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.shiftTypes[id]
}

func (s *Store) insertCheckin(c checkin.CheckIn) checkin.CheckIn {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.state.checkins[c.ID] = c
	return c
}

func sortCheckins(cs []checkin.CheckIn) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].Time.Equal(cs[j].Time) {
			return cs[i].Time.Before(cs[j].Time)
		}
		return cs[i].ID < cs[j].ID
	})
}

