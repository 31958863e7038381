package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("udf"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"host": "ch-1"}),
				WithRegistry(registry),
			)

			Convey("Then the registry is used for registration", func() {
				So(manager.Registry(), ShouldEqual, registry)
				manager.RecordRow("home", time.Millisecond)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetName(), ShouldStartWith, "test_udf_")
			})
		})

		Convey("When creating two managers", func() {
			a := NewManager()
			b := NewManager()

			Convey("Then they do not collide on registration", func() {
				So(a.Registry(), ShouldNotEqual, b.Registry())
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager()

		Convey("When rows are recorded", func() {
			m.RecordRow("pingsink", 2*time.Microsecond)
			m.RecordRow("pingsink", 3*time.Microsecond)
			m.RecordRow("spatial", time.Microsecond)
			m.RecordTruncated("pingsink")
			m.RecordDropped("work")
			m.RecordError("leisure", KindWrite)

			Convey("Then counters advance per mode", func() {
				So(testutil.ToFloat64(m.rowsTotal.WithLabelValues("pingsink")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.rowsTotal.WithLabelValues("spatial")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.rowsTruncated.WithLabelValues("pingsink")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.rowsDropped.WithLabelValues("work")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.streamErrors.WithLabelValues("leisure", KindWrite)), ShouldEqual, 1.0)
			})
		})

		Convey("When byte counts are added", func() {
			m.AddBytesRead(64)
			m.AddBytesRead(-1)
			m.AddBytesWritten(8)

			Convey("Then negative deltas are ignored", func() {
				So(testutil.ToFloat64(m.bytesRead), ShouldEqual, 64.0)
				So(testutil.ToFloat64(m.bytesWritten), ShouldEqual, 8.0)
			})
		})

		Convey("When a run is recorded", func() {
			m.RecordRun("home", 42, time.Unix(1_700_000_000, 0))

			Convey("Then the summary gauges are set", func() {
				So(testutil.ToFloat64(m.lastRunRows.WithLabelValues("home")), ShouldEqual, 42.0)
				So(testutil.ToFloat64(m.lastRunTimestamp), ShouldEqual, 1_700_000_000.0)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded rows", t, func() {
		m := NewManager()
		m.RecordRow("home", time.Microsecond)

		Convey("When exporting to a textfile", func() {
			path := filepath.Join(t.TempDir(), "rowscore.prom")
			err := m.WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				body, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(body), ShouldContainSubstring, `rowscore_stream_rows_total{mode="home"} 1`)
			})
		})

		Convey("When the path is empty", func() {
			So(m.WriteTextfile(""), ShouldBeNil)
		})

		Convey("When the directory does not exist", func() {
			err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
			So(errors.Is(err, ErrExportFailed), ShouldBeTrue)
		})
	})
}
