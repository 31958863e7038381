package scoring_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/okian/rowscore/internal/domain/model"
	scoring "github.com/okian/rowscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-12

func TestShrinkRatio(t *testing.T) {
	Convey("Given the shrinkage estimator", t, func() {
		Convey("When there are no observations", func() {
			Convey("Then the prior is returned for any ratio and weight", func() {
				for _, r := range []float64{0, 0.3, 1, 7} {
					for _, a := range []float64{0.5, 2, scoring.DefaultShrinkWeight} {
						So(scoring.ShrinkRatio(r, 0, 0.25, a), ShouldAlmostEqual, 0.25, tolerance)
					}
				}
			})
		})

		Convey("When observations grow", func() {
			Convey("Then the estimate converges toward the observed ratio", func() {
				prevGap := math.Inf(1)
				for _, n := range []uint64{1, 10, 100, 10_000, 1_000_000} {
					gap := math.Abs(scoring.ShrinkRatio(0.9, n, 0.1, 2) - 0.9)
					So(gap, ShouldBeLessThan, prevGap)
					prevGap = gap
				}
				So(prevGap, ShouldBeLessThan, 1e-5)
			})
		})

		Convey("When n and a are balanced", func() {
			Convey("Then the result is the midpoint", func() {
				So(scoring.ShrinkRatio(1.0, 2, 0.0, 2), ShouldAlmostEqual, 0.5, tolerance)
			})
		})

		Convey("When the denominator is not positive", func() {
			Convey("Then the prior is returned", func() {
				So(scoring.ShrinkRatio(0.9, 0, 0.3, 0), ShouldEqual, 0.3)
				So(scoring.ShrinkRatio(0.9, 1, 0.3, -2), ShouldEqual, 0.3)
			})
		})
	})
}

func TestPingsink(t *testing.T) {
	Convey("Given pingsink records", t, func() {
		Convey("When pings are at or below the floor", func() {
			Convey("Then the score is zero whatever the other fields", func() {
				for _, p := range []uint64{0, 1, 5} {
					r := model.PingsinkRecord{Pings: p, StdGeohashM: 0, MeanTimeDiff: 1, TotalPings: 6}
					So(scoring.Pingsink(r), ShouldEqual, 0.0)
				}
			})
		})

		Convey("When the spread is zero", func() {
			Convey("Then the location is a perfect sink", func() {
				r := model.PingsinkRecord{Pings: 6, StdGeohashM: 0, MeanTimeDiff: 1e6, TotalPings: 1e9}
				So(scoring.Pingsink(r), ShouldEqual, 1.0)
				r.StdGeohashM = -5e-10
				So(scoring.Pingsink(r), ShouldEqual, 1.0)
			})
		})

		Convey("When the worked example is scored", func() {
			r := model.PingsinkRecord{Pings: 100, StdGeohashM: 10, MeanTimeDiff: 3600, TotalPings: 1000}

			Convey("Then it matches the hand computation", func() {
				So(scoring.Pingsink(r), ShouldAlmostEqual, 0.5475500499370924, tolerance)
			})

			Convey("And an unknown total disables the importance multiplier", func() {
				r.TotalPings = 0
				So(scoring.Pingsink(r), ShouldAlmostEqual, 0.6342923492686651, tolerance)
			})
		})

		Convey("When the spread is negative and large", func() {
			r := model.PingsinkRecord{Pings: 1000, StdGeohashM: -1000, MeanTimeDiff: 0}

			Convey("Then the score is clamped to one", func() {
				So(scoring.Pingsink(r), ShouldEqual, 1.0)
			})
		})
	})
}

func TestHomeWorkLeisure(t *testing.T) {
	Convey("Given the home kernel", t, func() {
		r := model.HomeRecord{
			Pings: 100, UniqueDays: 20,
			NightRatio: 0.4, NightDaysRatio: 0.5, LateEveningDaysRatio: 0.3, EarlyMorningDaysRatio: 0.1,
			EntropyHourNorm: 0.6, ActiveDayRatio: 0.8, MonthlyStability: 0.7, ActiveDaysLast30d: 15,
		}

		Convey("Then a dense, recent location scores as computed by hand", func() {
			So(scoring.Home(r), ShouldAlmostEqual, 0.5466726792701014, tolerance)
		})

		Convey("Then no visits means no score", func() {
			r.Pings = 0
			So(scoring.Home(r), ShouldEqual, 0.0)
		})

		Convey("Then recency below ten days damps the score", func() {
			recent := scoring.Home(r)
			r.ActiveDaysLast30d = 0
			So(scoring.Home(r), ShouldAlmostEqual, recent/2, tolerance)
		})
	})

	Convey("Given the work kernel", t, func() {
		r := model.WorkRecord{
			Pings: 50, UniqueDays: 12,
			WeekdayDayRatio: 0.5, WeekdayWorkDaysRatio: 0.6, MiddayWeekdayRatio: 0.3,
			EntropyHourNorm: 0.4, ActiveDayRatio: 0.7, MonthlyStability: 0.9, ActiveDaysLast30d: 8,
		}

		Convey("Then it scores as computed by hand", func() {
			So(scoring.Work(r), ShouldAlmostEqual, 0.5200675033932721, tolerance)
		})
	})

	Convey("Given the leisure kernel", t, func() {
		r := model.LeisureRecord{
			Pings: 30, UniqueDays: 6,
			WeekendRatio: 0.5, EveningRatio: 0.3, EntropyHourNorm: 0.5, MonthlyStability: 0.4,
			ActiveDaysLast30d: 6, HomeScore: 0.2, WorkScore: 0.1,
		}

		Convey("Then it scores as computed by hand", func() {
			So(scoring.Leisure(r), ShouldAlmostEqual, 0.3441370648604346, tolerance)
		})

		Convey("Then strong home and work evidence lowers it", func() {
			So(scoring.Leisure(r.WithScores(1, 1)), ShouldAlmostEqual, 0.19017699010262432, tolerance)
		})
	})
}

func TestComposite(t *testing.T) {
	Convey("Given records for the same location", t, func() {
		h := model.HomeRecord{Pings: 40, UniqueDays: 10, NightRatio: 0.6, NightDaysRatio: 0.7, ActiveDayRatio: 0.5, ActiveDaysLast30d: 9}
		w := model.WorkRecord{Pings: 40, UniqueDays: 10, WeekdayDayRatio: 0.1, ActiveDayRatio: 0.5, ActiveDaysLast30d: 9}
		l := model.LeisureRecord{Pings: 40, UniqueDays: 10, WeekendRatio: 0.3, HomeScore: 0.99, WorkScore: 0.99}

		Convey("When the composite profile is computed", func() {
			p := scoring.Composite(h, w, l)

			Convey("Then leisure consumes the computed home and work scores", func() {
				So(p.Home, ShouldEqual, scoring.Home(h))
				So(p.Work, ShouldEqual, scoring.Work(w))
				So(p.Leisure, ShouldEqual, scoring.Leisure(l.WithScores(p.Home, p.Work)))
			})
		})
	})
}

func TestScoresStayInUnitRange(t *testing.T) {
	Convey("Given random records across the full input domain", t, func() {
		rng := rand.New(rand.NewPCG(7, 11))
		ratio := func() float64 { return rng.Float64()*3 - 1 }
		count := func() uint64 { return rng.Uint64N(10_000) }

		Convey("Then every kernel output lies in [0, 1]", func() {
			for i := 0; i < 2_000; i++ {
				scores := []float64{
					scoring.Pingsink(model.PingsinkRecord{Pings: count(), StdGeohashM: ratio() * 500, MeanTimeDiff: ratio() * 1e4, TotalPings: count()}),
					scoring.Home(model.HomeRecord{
						Pings: count(), UniqueDays: count(), NightRatio: ratio(), NightDaysRatio: ratio(),
						LateEveningDaysRatio: ratio(), EarlyMorningDaysRatio: ratio(), EntropyHourNorm: ratio(),
						ActiveDayRatio: ratio(), MonthlyStability: ratio(), ActiveDaysLast30d: count(),
					}),
					scoring.Work(model.WorkRecord{
						Pings: count(), UniqueDays: count(), WeekdayDayRatio: ratio(), WeekdayWorkDaysRatio: ratio(),
						MiddayWeekdayRatio: ratio(), EntropyHourNorm: ratio(), ActiveDayRatio: ratio(),
						MonthlyStability: ratio(), ActiveDaysLast30d: count(),
					}),
					scoring.Leisure(model.LeisureRecord{
						Pings: count(), UniqueDays: count(), WeekendRatio: ratio(), EveningRatio: ratio(),
						EntropyHourNorm: ratio(), MonthlyStability: ratio(), ActiveDaysLast30d: count(),
						HomeScore: rng.Float64(), WorkScore: rng.Float64(),
					}),
				}
				for _, s := range scores {
					So(s, ShouldBeBetweenOrEqual, 0.0, 1.0)
				}
			}
		})
	})
}
