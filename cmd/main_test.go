package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/rowscore/internal/adapters/wire"
)

func pingsinkRow() []byte {
	var buf bytes.Buffer
	enc := wire.NewEncoder(&buf)
	_ = enc.Uint64(100)
	_ = enc.Float64s(10, 3600)
	_ = enc.Uint64(1000)
	_ = enc.Flush()
	return buf.Bytes()
}

func spatialRow() []byte {
	var buf bytes.Buffer
	enc := wire.NewEncoder(&buf)
	_ = enc.Float64Array([]float64{10, 11})
	_ = enc.Float64Array([]float64{100, 100})
	_ = enc.Flush()
	return buf.Bytes()
}

func invoke(stdin []byte, args ...string) (int, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"rowscore"}, args...), bytes.NewReader(stdin), &stdout, &stderr)
	return code, &stdout, &stderr
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the rowscore command", t, func() {
		convey.Convey("When no mode is given", func() {
			code, stdout, stderr := invoke(nil)

			convey.Convey("Then usage is printed on stderr and the exit status is 1", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "usage: rowscore")
			})
		})

		convey.Convey("When the mode is unknown", func() {
			code, stdout, stderr := invoke(pingsinkRow(), "sideways")

			convey.Convey("Then nothing is scored and the exit status is 1", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "unknown mode")
			})
		})

		convey.Convey("When scoring pingsink rows", func() {
			code, stdout, _ := invoke(append(pingsinkRow(), pingsinkRow()...), "pingsink")

			convey.Convey("Then one score per row is written", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.Len(), convey.ShouldEqual, 16)

				d := wire.NewDecoder(stdout)
				v, st := d.Float64()
				convey.So(st, convey.ShouldEqual, wire.StatusOK)
				convey.So(v, convey.ShouldAlmostEqual, 0.5475500499370924, 1e-12)
			})
		})

		convey.Convey("When scoring spatial rows", func() {
			code, stdout, _ := invoke(spatialRow(), "spatial")

			convey.Convey("Then a triple is written", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.Len(), convey.ShouldEqual, 24)

				d := wire.NewDecoder(stdout)
				lat, _ := d.Float64()
				lon, _ := d.Float64()
				convey.So(lat, convey.ShouldEqual, 10.5)
				convey.So(lon, convey.ShouldEqual, 100.0)
			})
		})

		convey.Convey("When the input ends mid-row under strict truncation", func() {
			code, stdout, stderr := invoke(pingsinkRow()[:20], "--truncation", "strict", "pingsink")

			convey.Convey("Then the exit status is 1", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "truncated")
			})
		})

		convey.Convey("When a flag holds an invalid value", func() {
			code, _, stderr := invoke(pingsinkRow(), "--byte-order", "middle", "pingsink")

			convey.So(code, convey.ShouldEqual, 1)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "byte_order")
		})

		convey.Convey("When capture and metrics files are requested", func() {
			dir := t.TempDir()
			capturePath := filepath.Join(dir, "in.s2")
			metricsPath := filepath.Join(dir, "rowscore.prom")

			code, _, _ := invoke(pingsinkRow(), "--capture", capturePath, "--metrics-file", metricsPath, "pingsink")
			convey.So(code, convey.ShouldEqual, 0)

			convey.Convey("Then both files exist and the capture replays", func() {
				_, err := os.Stat(metricsPath)
				convey.So(err, convey.ShouldBeNil)

				code, stdout, _ := invoke(nil, "--replay", capturePath, "pingsink")
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.Len(), convey.ShouldEqual, 8)
			})
		})
	})
}
