package repository

import (
	"context"
	"time"

	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const readingMeasurement = "sensor_reading"

// PointWriter is the blocking subset of the InfluxDB write API.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// InfluxMirror copies every appended reading into InfluxDB for time-series
// dashboards. SQLite stays the system of record: mirror failures are logged
// and never reported to the caller.
type InfluxMirror struct {
	ReadingRepo
	writer PointWriter
	log    *logger.Logger
}

func NewInfluxMirror(base ReadingRepo, writer PointWriter, log *logger.Logger) *InfluxMirror {
	if log == nil {
		log = logger.Nop()
	}
	return &InfluxMirror{ReadingRepo: base, writer: writer, log: log}
}

// NewInfluxWriter opens a client and returns its blocking writer together
// with the client's Close.
func NewInfluxWriter(url, token, org, bucket string) (PointWriter, func()) {
	client := influxdb2.NewClient(url, token)
	return client.WriteAPIBlocking(org, bucket), client.Close
}

func readingPoint(r models.Reading) *write.Point {
	return influxdb2.NewPoint(readingMeasurement,
		map[string]string{
			"sensor_id": r.SensorID,
			"kind":      string(r.Kind),
		},
		map[string]interface{}{
			"value":  r.Value,
			"status": r.Status,
		},
		r.Timestamp,
	)
}

func (m *InfluxMirror) Append(ctx context.Context, r models.Reading) error {
	if err := m.ReadingRepo.Append(ctx, r); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if err := m.writer.WritePoint(ctx, readingPoint(r)); err != nil {
		m.log.Warnw("influx_mirror_failed", "sensor_id", r.SensorID, "err", err)
	}
	return nil
}
