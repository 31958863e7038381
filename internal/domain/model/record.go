// Package model contains the row records decoded from the wire, one per mode.
//
// Records are plain values. A fresh zero value is decoded for every row, so a
// field the stream never delivered reads as zero.
package model

// PingsinkRecord is one pingsink row.
type PingsinkRecord struct {
	Pings        uint64  // pings observed at the location
	StdGeohashM  float64 // spread of the pings in meters
	MeanTimeDiff float64 // mean gap between pings, seconds
	TotalPings   uint64  // pings across all locations, 0 when unknown
}

// HomeRecord is one home row.
type HomeRecord struct {
	Pings                 uint64
	UniqueDays            uint64
	NightRatio            float64
	NightDaysRatio        float64
	LateEveningDaysRatio  float64
	EarlyMorningDaysRatio float64
	EntropyHourNorm       float64
	ActiveDayRatio        float64
	MonthlyStability      float64
	ActiveDaysLast30d     uint64
}

// WorkRecord is one work row.
type WorkRecord struct {
	Pings                uint64
	UniqueDays           uint64
	WeekdayDayRatio      float64
	WeekdayWorkDaysRatio float64
	MiddayWeekdayRatio   float64
	EntropyHourNorm      float64
	ActiveDayRatio       float64
	MonthlyStability     float64
	ActiveDaysLast30d    uint64
}

// LeisureRecord is one leisure row. HomeScore and WorkScore are outputs of the
// home and work kernels for the same location, computed by the caller first.
type LeisureRecord struct {
	Pings             uint64
	UniqueDays        uint64
	WeekendRatio      float64
	EveningRatio      float64
	EntropyHourNorm   float64
	MonthlyStability  float64
	ActiveDaysLast30d uint64
	HomeScore         float64
	WorkScore         float64
}

// WithScores returns a copy of r carrying the given home and work scores.
func (r LeisureRecord) WithScores(home, work float64) LeisureRecord {
	r.HomeScore = home
	r.WorkScore = work
	return r
}

// SpatialInput holds parallel latitude and longitude sequences in degrees.
type SpatialInput struct {
	Lats []float64
	Lons []float64
}

// Len returns the number of points, or 0 when the sequences disagree.
func (in SpatialInput) Len() int {
	if len(in.Lats) != len(in.Lons) {
		return 0
	}
	return len(in.Lats)
}

// SpatialResult is the planar centroid and the RMS great-circle distance
// of the points from it.
type SpatialResult struct {
	MeanLat     float64
	MeanLon     float64
	DispersionM float64
}

// Values returns the result in wire order.
func (r SpatialResult) Values() [3]float64 {
	return [3]float64{r.MeanLat, r.MeanLon, r.DispersionM}
}
