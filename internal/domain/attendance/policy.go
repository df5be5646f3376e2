package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
)

type Policy struct {
	GraceMinutes         int
	LateAbsenceThreshold int
	DefaultRadiusMeters  float64
}

// Lateness compares a check-in against the shift start. A check-in is late
// only when it is strictly after start plus grace; late minutes are counted
// from the shift start.
func (p Policy) Lateness(shiftStart, clockIn time.Time) (isLate bool, lateMinutes int) {
	deadline := shiftStart.Add(time.Duration(p.GraceMinutes) * time.Minute)
	if !clockIn.After(deadline) {
		return false, 0
	}
	return true, int(clockIn.Sub(shiftStart) / time.Minute)
}

// Escalates reports whether a late check-in, preceded by priorLates late
// check-ins in the same month, turns the day into an absence.
func (p Policy) Escalates(isLate bool, priorLates int) bool {
	return isLate && p.LateAbsenceThreshold > 0 && priorLates >= p.LateAbsenceThreshold
}

// Radius returns the fence radius for a location, falling back to the
// configured default when the location does not set one.
func (p Policy) Radius(locationRadius int) float64 {
	if locationRadius > 0 {
		return float64(locationRadius)
	}
	return p.DefaultRadiusMeters
}

// TotalHours is the fractional duration between in and out, 2 decimals.
func TotalHours(in, out time.Time) float64 {
	return utils.RoundHours(out.Sub(in))
}

// Evaluation is the derived state of a day given its clock-in.
type Evaluation struct {
	IsLate        bool
	LateMinutes   int
	Status        Status
	AbsenceReason AbsenceReason
}

// Evaluate derives lateness and status for a clock-in. Non-working days are
// never late or escalated.
func (p Policy) Evaluate(shiftStart, clockIn time.Time, workingDay bool, priorLates int) Evaluation {
	ev := Evaluation{Status: StatusPresent, AbsenceReason: AbsenceNone}
	if !workingDay {
		return ev
	}

	ev.IsLate, ev.LateMinutes = p.Lateness(shiftStart, clockIn)
	if p.Escalates(ev.IsLate, priorLates) {
		ev.Status = StatusAbsent
		ev.AbsenceReason = AbsenceLateEscalation
	}
	return ev
}
