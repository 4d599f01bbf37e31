package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
)

func (a *AttendanceServiceImpl) markAbsentForShift(ctx context.Context, st shift.ShiftType, report *attendance.SyncReport) error {
	if st.ProcessAttendanceAfter == nil || st.LastSyncOfCheckin == nil {
		return nil
	}

	employees, err := a.employeeRepo.ListAssignedToShift(ctx, st.ID, *st.ProcessAttendanceAfter, true)
	if err != nil {
		return fmt.Errorf("failed to list employees assigned to shift: %w", err)
	}

	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return err
		}

		marked, err := a.markAbsentForEmployee(ctx, st, emp)
		report.AbsentMarked += marked
		if err != nil {
			return fmt.Errorf("failed to mark absent for employee %s: %w", emp.ID, err)
		}
	}

	return nil
}

// markAbsentForEmployee marks Absent on every working day of the shift in
// which the employee has no attendance yet. The range ends the day before the
// shift's last sync and never passes the resignation date.
func (a *AttendanceServiceImpl) markAbsentForEmployee(ctx context.Context, st shift.ShiftType, emp employee.Employee) (int, error) {
	start := utils.MaxDate(utils.DateOf(*st.ProcessAttendanceAfter), utils.DateOf(emp.JoiningDate()))
	end := utils.DateOf(*st.LastSyncOfCheckin).AddDate(0, 0, -1)
	if emp.ResignationDate != nil {
		end = utils.MinDate(end, utils.DateOf(*emp.ResignationDate))
	}
	if end.Before(start) {
		return 0, nil
	}

	excluded := make(map[string]bool)

	holidayListID := st.HolidayListID
	if holidayListID == nil {
		holidayListID = emp.HolidayListID
	}
	if holidayListID != nil {
		holidays, err := a.holidayRepo.ListDates(ctx, *holidayListID, start, end)
		if err != nil {
			return 0, fmt.Errorf("failed to list holidays: %w", err)
		}
		for _, d := range holidays {
			excluded[utils.DateKey(d)] = true
		}
	}

	markedDates, err := a.attendanceRepo.ListMarkedDates(ctx, emp.ID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list marked dates: %w", err)
	}
	for _, d := range markedDates {
		excluded[utils.DateKey(d)] = true
	}

	marked := 0
	for _, date := range utils.DateRange(start, end) {
		if excluded[utils.DateKey(date)] {
			continue
		}

		shiftTypeID, err := a.employeeRepo.GetShiftTypeIDOn(ctx, emp.ID, date)
		if err != nil {
			return marked, fmt.Errorf("failed to resolve shift on %s: %w", utils.DateKey(date), err)
		}
		if shiftTypeID == nil || *shiftTypeID != st.ID {
			continue
		}

		ok, err := a.markAbsent(ctx, emp, date, st.ID)
		if err != nil {
			return marked, err
		}
		if ok {
			marked++
		}
	}

	return marked, nil
}

func (a *AttendanceServiceImpl) markAbsent(ctx context.Context, emp employee.Employee, date time.Time, shiftTypeID string) (bool, error) {
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := a.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID:  emp.ID,
			CompanyID:   emp.CompanyID,
			Date:        date,
			Status:      attendance.StatusAbsent,
			ShiftTypeID: &shiftTypeID,
		})
		if err != nil {
			return err
		}
		return a.attendanceRepo.Submit(ctx, created.ID)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateAttendance) {
			slog.Debug("Attendance already marked", "employee_id", emp.ID, "date", utils.DateKey(date))
			return false, nil
		}
		return false, fmt.Errorf("failed to mark absent on %s: %w", utils.DateKey(date), err)
	}

	a.metrics.ObserveAttendance(string(attendance.StatusAbsent))
	return true, nil
}
