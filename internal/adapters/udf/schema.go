package udf

import "github.com/okian/rowscore/internal/domain/types"

// ClickHouse type names used in argument and return declarations.
const (
	TypeUInt64       = "UInt64"
	TypeFloat64      = "Float64"
	TypeArrayFloat64 = "Array(Float64)"
	TypeSpatialTuple = "Tuple(Float64, Float64, Float64)"
)

// Argument is one positional UDF argument.
type Argument struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

var schemas = map[types.Mode][]Argument{
	types.ModePingsink: {
		{TypeUInt64, "pings"},
		{TypeFloat64, "std_geohash_m"},
		{TypeFloat64, "mean_time_diff"},
		{TypeUInt64, "total_pings"},
	},
	types.ModeHome: {
		{TypeUInt64, "pings"},
		{TypeUInt64, "unique_days"},
		{TypeFloat64, "night_ratio"},
		{TypeFloat64, "night_days_ratio"},
		{TypeFloat64, "late_evening_days_ratio"},
		{TypeFloat64, "early_morning_days_ratio"},
		{TypeFloat64, "entropy_hour_norm"},
		{TypeFloat64, "active_day_ratio"},
		{TypeFloat64, "monthly_stability"},
		{TypeUInt64, "active_days_last_30d"},
	},
	types.ModeWork: {
		{TypeUInt64, "pings"},
		{TypeUInt64, "unique_days"},
		{TypeFloat64, "weekday_day_ratio"},
		{TypeFloat64, "weekday_work_days_ratio"},
		{TypeFloat64, "midday_weekday_ratio"},
		{TypeFloat64, "entropy_hour_norm"},
		{TypeFloat64, "active_day_ratio"},
		{TypeFloat64, "monthly_stability"},
		{TypeUInt64, "active_days_last_30d"},
	},
	types.ModeLeisure: {
		{TypeUInt64, "pings"},
		{TypeUInt64, "unique_days"},
		{TypeFloat64, "weekend_ratio"},
		{TypeFloat64, "evening_ratio"},
		{TypeFloat64, "entropy_hour_norm"},
		{TypeFloat64, "monthly_stability"},
		{TypeUInt64, "active_days_last_30d"},
		{TypeFloat64, "home_score"},
		{TypeFloat64, "work_score"},
	},
	types.ModeSpatial: {
		{TypeArrayFloat64, "lats"},
		{TypeArrayFloat64, "lons"},
	},
}

// Schema returns the wire field order of mode, or nil for an unknown mode.
// The returned slice is a copy.
func Schema(mode types.Mode) []Argument {
	s, ok := schemas[mode]
	if !ok {
		return nil
	}
	return append([]Argument(nil), s...)
}

// ReturnType returns the ClickHouse type a mode produces.
func ReturnType(mode types.Mode) string {
	if mode.OutputWidth() == 3 {
		return TypeSpatialTuple
	}
	return TypeFloat64
}

// FunctionName returns the SQL name a mode is registered under.
func FunctionName(mode types.Mode) string {
	if mode == types.ModeSpatial {
		return "calculate_spatial_stats"
	}
	return "score_" + mode.String()
}
