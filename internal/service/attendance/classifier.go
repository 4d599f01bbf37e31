package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/attendance"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/checkin"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/shift"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/utils"
)

// Classify evaluates one employee's check-ins for a single shift occurrence.
// The input slice is not modified.
func Classify(st shift.ShiftType, logs []checkin.CheckIn) (attendance.Classification, error) {
	if len(logs) == 0 {
		return attendance.Classification{}, attendance.ErrEmptyCheckinGroup
	}

	sorted := make([]checkin.CheckIn, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	hours, inTime, outTime := workingHours(st, sorted)

	if inTime == nil || (outTime != nil && outTime.Before(*inTime)) {
		return attendance.Classification{Status: attendance.StatusSkip}, nil
	}

	result := attendance.Classification{
		Status:       attendance.StatusPresent,
		WorkingHours: hours,
		InTime:       inTime,
		OutTime:      outTime,
	}

	start, end := shiftBounds(st, sorted[0])
	if st.EnableLateEntryMarking && inTime.After(start.Add(minutes(st.LateEntryGracePeriod))) {
		result.LateEntry = true
	}
	if st.EnableEarlyExitMarking && outTime != nil && outTime.Before(end.Add(-minutes(st.EarlyExitGracePeriod))) {
		result.EarlyExit = true
	}

	switch {
	case st.WorkingHoursThresholdForAbsent > 0 && hours < st.WorkingHoursThresholdForAbsent:
		result.Status = attendance.StatusAbsent
	case st.WorkingHoursThresholdForHalfDay > 0 && hours < st.WorkingHoursThresholdForHalfDay:
		result.Status = attendance.StatusHalfDay
	}

	return result, nil
}

// workingHours expects logs sorted by time.
func workingHours(st shift.ShiftType, logs []checkin.CheckIn) (float64, *time.Time, *time.Time) {
	var total float64
	var inTime, outTime *time.Time

	if st.DetermineCheckInAndCheckOut == shift.ModeLogType {
		if st.WorkingHoursCalculationBasedOn == shift.HoursEveryValidPair {
			return validPairsByLogType(logs)
		}

		for i := range logs {
			if logs[i].LogType == checkin.LogTypeIn {
				inTime = timePtr(logs[i].Time)
				break
			}
		}
		for i := len(logs) - 1; i >= 0; i-- {
			if logs[i].LogType == checkin.LogTypeOut {
				outTime = timePtr(logs[i].Time)
				break
			}
		}
		if inTime != nil && outTime != nil {
			total = hoursBetween(*inTime, *outTime)
		}
		return total, inTime, outTime
	}

	// alternating entries
	inTime = timePtr(logs[0].Time)
	if len(logs) >= 2 {
		outTime = timePtr(logs[len(logs)-1].Time)
	}

	if st.WorkingHoursCalculationBasedOn == shift.HoursEveryValidPair {
		for i := 0; i+1 < len(logs); i += 2 {
			total += hoursBetween(logs[i].Time, logs[i+1].Time)
		}
	} else {
		total = hoursBetween(logs[0].Time, logs[len(logs)-1].Time)
	}

	return total, inTime, outTime
}

// validPairsByLogType sums every IN followed by an OUT. Logs that do not fit
// the IN then OUT pattern are ignored.
func validPairsByLogType(logs []checkin.CheckIn) (float64, *time.Time, *time.Time) {
	var total float64
	var inTime, outTime *time.Time
	var inLog *checkin.CheckIn

	for i := range logs {
		log := &logs[i]
		switch {
		case inLog == nil && log.LogType == checkin.LogTypeIn:
			inLog = log
			if inTime == nil {
				inTime = timePtr(log.Time)
			}
		case inLog != nil && log.LogType == checkin.LogTypeOut:
			total += hoursBetween(inLog.Time, log.Time)
			outTime = timePtr(log.Time)
			inLog = nil
		}
	}

	return total, inTime, outTime
}

// shiftBounds prefers the window stored on the check-in and falls back to the
// shift occurrence starting on the log's date.
func shiftBounds(st shift.ShiftType, first checkin.CheckIn) (time.Time, time.Time) {
	if first.ShiftStart != nil && first.ShiftEnd != nil {
		return *first.ShiftStart, *first.ShiftEnd
	}

	day := first.Time
	if first.ShiftActualStart != nil {
		day = first.ShiftActualStart.Add(minutes(st.BeginCheckInBeforeShiftStart))
	}
	w := st.WindowOn(utils.DateOf(day))
	return w.Start, w.End
}

func hoursBetween(from, to time.Time) float64 {
	h := to.Sub(from).Hours()
	if h < 0 {
		return 0
	}
	return h
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func timePtr(t time.Time) *time.Time {
	return &t
}
