package spatial_test

import (
	"testing"

	"github.com/okian/rowscore/internal/domain/model"
	"github.com/okian/rowscore/internal/domain/spatial"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHaversine(t *testing.T) {
	Convey("Given pairs of points", t, func() {
		Convey("When the points coincide", func() {
			So(spatial.Haversine(48.85, 2.35, 48.85, 2.35), ShouldEqual, 0.0)
		})

		Convey("When they are half a degree apart on the equator", func() {
			So(spatial.Haversine(0, 0, 0, 0.5), ShouldAlmostEqual, 55597.46332227937, 1e-6)
		})

		Convey("When they are half a degree apart along a meridian", func() {
			So(spatial.Haversine(10, 100, 10.5, 100), ShouldAlmostEqual, 55597.46332227937, 1e-6)
		})

		Convey("When the arguments are swapped", func() {
			So(spatial.Haversine(51.5, -0.12, 40.7, -74.0), ShouldAlmostEqual, spatial.Haversine(40.7, -74.0, 51.5, -0.12), 1e-6)
		})

		Convey("When the points are antipodal", func() {
			d := spatial.Haversine(0, 0, 0, 180)
			So(d, ShouldAlmostEqual, spatial.EarthRadiusM*3.141592653589793, 1.0)
		})
	})
}

func TestDispersion(t *testing.T) {
	Convey("Given degenerate input", t, func() {
		Convey("When both sequences are empty", func() {
			So(spatial.Dispersion(model.SpatialInput{}), ShouldResemble, model.SpatialResult{})
		})

		Convey("When the lengths differ", func() {
			in := model.SpatialInput{Lats: []float64{1, 2}, Lons: []float64{1}}
			So(spatial.Dispersion(in), ShouldResemble, model.SpatialResult{})
		})
	})

	Convey("Given a single point", t, func() {
		res := spatial.Dispersion(model.SpatialInput{Lats: []float64{37.77}, Lons: []float64{-122.42}})

		Convey("Then the mean is the point and the dispersion is zero", func() {
			So(res.MeanLat, ShouldEqual, 37.77)
			So(res.MeanLon, ShouldEqual, -122.42)
			So(res.DispersionM, ShouldEqual, 0.0)
		})
	})

	Convey("Given two points on the equator one degree apart", t, func() {
		res := spatial.Dispersion(model.SpatialInput{Lats: []float64{0, 0}, Lons: []float64{0, 1}})

		Convey("Then the mean is the midpoint", func() {
			So(res.MeanLat, ShouldEqual, 0.0)
			So(res.MeanLon, ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("Then the dispersion equals each point's distance to the midpoint", func() {
			So(res.DispersionM, ShouldBeGreaterThan, 0.0)
			So(res.DispersionM, ShouldAlmostEqual, spatial.Haversine(0, 0, 0, 0.5), 1e-6)
		})
	})

	Convey("Given identical points", t, func() {
		res := spatial.Dispersion(model.SpatialInput{Lats: []float64{10, 10, 10}, Lons: []float64{100, 100, 100}})

		Convey("Then the dispersion is zero", func() {
			So(res.DispersionM, ShouldAlmostEqual, 0.0, 1e-9)
		})
	})
}
