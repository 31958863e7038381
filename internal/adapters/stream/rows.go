package stream

import (
	"github.com/okian/rowscore/internal/adapters/wire"
	"github.com/okian/rowscore/internal/domain/model"
	"github.com/okian/rowscore/internal/domain/scoring"
	"github.com/okian/rowscore/internal/domain/spatial"
)

// row is the outcome of decoding and scoring one input row.
type row struct {
	values [3]float64
	width  int

	// lead is the status of the first field, the end-of-stream sentinel.
	lead wire.Status
	// short is set when a later field underran and was left at zero.
	short bool
	// abort is set when an underrun inside the row leaves nothing to score.
	abort bool
	err   error
}

type rowHandler func(d *wire.Decoder) row

// fields reads the trailing fields of a row unconditionally, remembering
// whether any of them came up short.
type fields struct {
	d     *wire.Decoder
	short bool
}

func (f *fields) u64() uint64 {
	v, st := f.d.Uint64()
	f.short = f.short || st.Underrun()
	return v
}

func (f *fields) f64() float64 {
	v, st := f.d.Float64()
	f.short = f.short || st.Underrun()
	return v
}

func scalar(v float64, short bool) row {
	return row{values: [3]float64{v}, width: 1, short: short}
}

func pingsinkRow(d *wire.Decoder) row {
	var rec model.PingsinkRecord
	var st wire.Status
	if rec.Pings, st = d.Uint64(); st != wire.StatusOK {
		return row{lead: st}
	}
	f := fields{d: d}
	rec.StdGeohashM = f.f64()
	rec.MeanTimeDiff = f.f64()
	rec.TotalPings = f.u64()
	return scalar(scoring.Pingsink(rec), f.short)
}

func homeRow(d *wire.Decoder) row {
	var rec model.HomeRecord
	var st wire.Status
	if rec.Pings, st = d.Uint64(); st != wire.StatusOK {
		return row{lead: st}
	}
	f := fields{d: d}
	rec.UniqueDays = f.u64()
	rec.NightRatio = f.f64()
	rec.NightDaysRatio = f.f64()
	rec.LateEveningDaysRatio = f.f64()
	rec.EarlyMorningDaysRatio = f.f64()
	rec.EntropyHourNorm = f.f64()
	rec.ActiveDayRatio = f.f64()
	rec.MonthlyStability = f.f64()
	rec.ActiveDaysLast30d = f.u64()
	return scalar(scoring.Home(rec), f.short)
}

func workRow(d *wire.Decoder) row {
	var rec model.WorkRecord
	var st wire.Status
	if rec.Pings, st = d.Uint64(); st != wire.StatusOK {
		return row{lead: st}
	}
	f := fields{d: d}
	rec.UniqueDays = f.u64()
	rec.WeekdayDayRatio = f.f64()
	rec.WeekdayWorkDaysRatio = f.f64()
	rec.MiddayWeekdayRatio = f.f64()
	rec.EntropyHourNorm = f.f64()
	rec.ActiveDayRatio = f.f64()
	rec.MonthlyStability = f.f64()
	rec.ActiveDaysLast30d = f.u64()
	return scalar(scoring.Work(rec), f.short)
}

func leisureRow(d *wire.Decoder) row {
	var rec model.LeisureRecord
	var st wire.Status
	if rec.Pings, st = d.Uint64(); st != wire.StatusOK {
		return row{lead: st}
	}
	f := fields{d: d}
	rec.UniqueDays = f.u64()
	rec.WeekendRatio = f.f64()
	rec.EveningRatio = f.f64()
	rec.EntropyHourNorm = f.f64()
	rec.MonthlyStability = f.f64()
	rec.ActiveDaysLast30d = f.u64()
	rec.HomeScore = f.f64()
	rec.WorkScore = f.f64()
	return scalar(scoring.Leisure(rec), f.short)
}

// spatialRow has no zero-fill path: a cut anywhere inside the row leaves
// nothing to score.
func spatialRow(d *wire.Decoder) row {
	lats, st, err := d.Float64Array()
	if err != nil {
		return row{err: err}
	}
	if st != wire.StatusOK {
		return row{lead: st}
	}

	lons, st, err := d.Float64Array()
	if err != nil {
		return row{err: err}
	}
	if st != wire.StatusOK {
		return row{abort: true}
	}

	res := spatial.Dispersion(model.SpatialInput{Lats: lats, Lons: lons})
	return row{values: res.Values(), width: 3}
}
