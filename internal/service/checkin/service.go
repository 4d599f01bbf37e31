package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/device"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/employee"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/metrics"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
)

type CheckinServiceImpl struct {
	tx            database.Transactor
	checkinRepo   checkin.CheckinRepository
	deviceRepo    device.DeviceRepository
	employeeRepo  employee.EmployeeRepository
	shiftTypeRepo shift.ShiftTypeRepository
	metrics       *metrics.Metrics
}

func NewCheckinService(
	tx database.Transactor,
	checkinRepo checkin.CheckinRepository,
	deviceRepo device.DeviceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftTypeRepo shift.ShiftTypeRepository,
	m *metrics.Metrics,
) checkin.CheckinService {
	return &CheckinServiceImpl{
		tx:            tx,
		checkinRepo:   checkinRepo,
		deviceRepo:    deviceRepo,
		employeeRepo:  employeeRepo,
		shiftTypeRepo: shiftTypeRepo,
		metrics:       m,
	}
}

// RecordCheckins implements checkin.CheckinService.
func (s *CheckinServiceImpl) RecordCheckins(ctx context.Context, req checkin.RecordCheckinsRequest) (checkin.RecordCheckinsResponse, error) {
	if err := req.Validate(); err != nil {
		return checkin.RecordCheckinsResponse{}, err
	}

	dev, err := s.deviceRepo.GetByID(ctx, req.DeviceID)
	if err != nil {
		return checkin.RecordCheckinsResponse{}, err
	}
	if !dev.Enabled {
		return checkin.RecordCheckinsResponse{}, device.ErrDeviceDisabled
	}

	resolver := &shiftResolver{
		employeeRepo:  s.employeeRepo,
		shiftTypeRepo: s.shiftTypeRepo,
		cache:         make(map[string]shift.ShiftType),
	}

	resp := checkin.RecordCheckinsResponse{DeviceID: dev.ID}
	var newest time.Time
	shiftSyncs := make(map[string]time.Time)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, log := range req.Logs {
			c := checkin.CheckIn{
				EmployeeID: log.EmployeeID,
				DeviceID:   dev.ID,
				LogType:    checkin.LogType(log.LogType),
				Time:       log.ParsedTime,
			}

			st, window, err := resolver.resolve(ctx, log.EmployeeID, log.ParsedTime)
			if err != nil {
				return err
			}
			if window != nil {
				c.ShiftTypeID = &st.ID
				c.ShiftStart = &window.Start
				c.ShiftEnd = &window.End
				c.ShiftActualStart = &window.ActualStart
				c.ShiftActualEnd = &window.ActualEnd
				if log.ParsedTime.After(shiftSyncs[st.ID]) {
					shiftSyncs[st.ID] = log.ParsedTime
				}
			} else {
				resp.WithoutShift++
			}

			if _, err := s.checkinRepo.Create(ctx, c); err != nil {
				return fmt.Errorf("failed to record checkin of employee %s: %w", log.EmployeeID, err)
			}
			resp.Recorded++

			if log.ParsedTime.After(newest) {
				newest = log.ParsedTime
			}
		}

		if err := s.deviceRepo.UpdateLastSync(ctx, dev.ID, newest); err != nil {
			return fmt.Errorf("failed to advance device sync: %w", err)
		}
		for shiftTypeID, lastSync := range shiftSyncs {
			if err := s.shiftTypeRepo.UpdateLastSync(ctx, shiftTypeID, lastSync); err != nil {
				return fmt.Errorf("failed to advance shift type sync: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return checkin.RecordCheckinsResponse{}, err
	}

	s.metrics.ObserveRecorded(resp.Recorded)

	updated, err := s.deviceRepo.GetByID(ctx, dev.ID)
	if err != nil {
		return checkin.RecordCheckinsResponse{}, err
	}
	resp.LastSyncOfCheckin = utils.TimePtrToString(updated.LastSyncOfCheckin)

	slog.Info("Checkins recorded",
		"device_id", dev.ID,
		"recorded", resp.Recorded,
		"without_shift", resp.WithoutShift,
	)
	return resp, nil
}

// shiftResolver finds the shift occurrence a log belongs to. The occurrence
// starting on the log date wins, then the previous day (overnight shifts),
// then the next day (check-in before midnight).
type shiftResolver struct {
	employeeRepo  employee.EmployeeRepository
	shiftTypeRepo shift.ShiftTypeRepository
	cache         map[string]shift.ShiftType
}

func (r *shiftResolver) resolve(ctx context.Context, employeeID string, t time.Time) (shift.ShiftType, *shift.Window, error) {
	date := utils.DateOf(t)

	for _, candidate := range []time.Time{date, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1)} {
		shiftTypeID, err := r.employeeRepo.GetShiftTypeIDOn(ctx, employeeID, candidate)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return shift.ShiftType{}, nil, fmt.Errorf("%w: %s", employee.ErrEmployeeNotFound, employeeID)
			}
			return shift.ShiftType{}, nil, fmt.Errorf("failed to resolve shift of employee %s: %w", employeeID, err)
		}
		if shiftTypeID == nil {
			continue
		}

		st, err := r.shiftType(ctx, *shiftTypeID)
		if err != nil {
			return shift.ShiftType{}, nil, err
		}

		window := st.WindowOn(candidate)
		if window.Contains(t) {
			return st, &window, nil
		}
	}

	return shift.ShiftType{}, nil, nil
}

func (r *shiftResolver) shiftType(ctx context.Context, id string) (shift.ShiftType, error) {
	if st, ok := r.cache[id]; ok {
		return st, nil
	}
	st, err := r.shiftTypeRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftType{}, fmt.Errorf("failed to get shift type %s: %w", id, err)
	}
	r.cache[id] = st
	return st, nil
}
