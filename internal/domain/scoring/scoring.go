// Package scoring computes the per-location heuristic scores.
//
// Every kernel is a pure function of one record and returns a value clamped
// to [0, 1]. Home and work are independent; leisure consumes their outputs
// through the record and never recomputes them.
package scoring

import (
	"math"

	"github.com/okian/rowscore/internal/domain/model"
)

// Shrinkage configuration.
const (
	// DefaultShrinkWeight is the pseudo-count used when a caller has no opinion.
	DefaultShrinkWeight = 8.0
	// kernelShrinkWeight is what every kernel in this package passes.
	kernelShrinkWeight = 2.0
)

// Priors toward which noisy ratios are shrunk.
const (
	priorNight        = 8.0 / 24.0   // night hours per day
	priorWeekdayDay   = 45.0 / 168.0 // weekday office hours per week
	priorWeekend      = 2.0 / 7.0    // weekend days per week
	priorEvening      = 4.0 / 24.0   // evening hours per day
	pingsinkMinPings  = 5
	pingsinkStableEps = 1e-9
	visitsScale       = 5.0
	daysScale         = 3.0
	homeWorkRecency   = 10.0
	leisureRecency    = 15.0
)

// ShrinkRatio pulls an observed ratio toward prior p0 with pseudo-count a:
// (ratio*n + a*p0) / (n + a). With n = 0 the result is p0; as n grows it
// converges to ratio.
func ShrinkRatio(ratio float64, n uint64, p0, a float64) float64 {
	denom := float64(n) + a
	if denom > 0 {
		return (ratio*float64(n) + a*p0) / denom
	}
	// unreachable for a > 0
	return p0
}

// Pingsink scores how strongly a location behaves as a ping sink: a single
// point that soaks up a large, dense share of a device's pings.
func Pingsink(r model.PingsinkRecord) float64 {
	if r.Pings <= pingsinkMinPings {
		return 0
	}
	// all pings collapse to one point
	if math.Abs(r.StdGeohashM) < pingsinkStableEps {
		return 1
	}

	pings := float64(r.Pings)
	geoStability := 0.7 * math.Exp(-r.StdGeohashM/20.0)
	timeDiffMinutes := r.MeanTimeDiff / 60.0
	temporalDensity := 0.1 * math.Exp(-timeDiffMinutes/60.0)
	pingContribution := 0.2 * (1.0 - math.Exp(-pings/50.0))

	base := geoStability + temporalDensity + pingContribution

	importance := 1.0
	if r.TotalPings > 0 {
		importance = 0.8 + 0.2*math.Sqrt(pings/float64(r.TotalPings))
	}

	return clamp01(base * importance)
}

// Home scores how likely a location is the device's home.
func Home(r model.HomeRecord) float64 {
	nightShrunk := ShrinkRatio(r.NightRatio, r.Pings, priorNight, kernelShrinkWeight)

	base := 0.375*r.NightDaysRatio +
		0.10*nightShrunk +
		0.15*r.LateEveningDaysRatio +
		0.10*r.EarlyMorningDaysRatio +
		0.075*(1.0-r.EntropyHourNorm) +
		0.25*r.ActiveDayRatio +
		0.05*r.MonthlyStability

	s := base * confidence(r.Pings, r.UniqueDays)
	s *= recency(r.ActiveDaysLast30d, homeWorkRecency)

	return clamp01(s)
}

// Work scores how likely a location is the device's workplace.
func Work(r model.WorkRecord) float64 {
	weekdayDayShrunk := ShrinkRatio(r.WeekdayDayRatio, r.Pings, priorWeekdayDay, kernelShrinkWeight)

	base := 0.425*r.WeekdayWorkDaysRatio +
		0.15*weekdayDayShrunk +
		0.10*r.MiddayWeekdayRatio +
		0.075*(1.0-r.EntropyHourNorm) +
		0.20*r.ActiveDayRatio +
		0.05*r.MonthlyStability

	s := base * confidence(r.Pings, r.UniqueDays)
	s *= recency(r.ActiveDaysLast30d, homeWorkRecency)

	return clamp01(s)
}

// Leisure scores how likely a location is a leisure spot. It rewards the
// inverse of the home/work pattern carried in r.HomeScore and r.WorkScore.
func Leisure(r model.LeisureRecord) float64 {
	inversePattern := 1.0 - (r.HomeScore+r.WorkScore)/2.0
	weekendShrunk := ShrinkRatio(r.WeekendRatio, r.Pings, priorWeekend, kernelShrinkWeight)
	eveningShrunk := ShrinkRatio(r.EveningRatio, r.Pings, priorEvening, kernelShrinkWeight)

	base := 0.25*weekendShrunk +
		0.20*eveningShrunk +
		0.15*(1.0-r.EntropyHourNorm) +
		0.10*(1.0-r.MonthlyStability) +
		0.30*inversePattern

	s := base * confidence(r.Pings, r.UniqueDays)
	s *= recency(r.ActiveDaysLast30d, leisureRecency)

	return clamp01(s)
}

// confidence is the product of the visit and day evidence weights.
func confidence(pings, uniqueDays uint64) float64 {
	wVisits := 1.0 - math.Exp(-float64(pings)/visitsScale)
	wDays := 1.0 - math.Exp(-float64(uniqueDays)/daysScale)
	return wVisits * wDays
}

// recency boosts locations seen recently, saturating at 1.
func recency(activeDaysLast30d uint64, normalizer float64) float64 {
	return math.Min(1.0, 0.5+0.5*(float64(activeDaysLast30d)/normalizer))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
