package influxdb

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
)

// fakeWriteAPI collects points instead of sending them.
type fakeWriteAPI struct {
	mu      sync.Mutex
	points  []*write.Point
	flushes int
	errCh   chan error
}

func newFakeWriteAPI() *fakeWriteAPI {
	return &fakeWriteAPI{errCh: make(chan error)}
}

func (f *fakeWriteAPI) WriteRecord(string) {}

func (f *fakeWriteAPI) WritePoint(p *write.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, p)
}

func (f *fakeWriteAPI) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
}

func (f *fakeWriteAPI) Errors() <-chan error { return f.errCh }

func (f *fakeWriteAPI) SetWriteFailedCallback(api.WriteFailedCallback) {}

func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "wirepanel-dev-token",
		Org:           "graylogic",
		Bucket:        "wires",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

func tagsOf(p *write.Point) map[string]string {
	out := make(map[string]string)
	for _, tag := range p.TagList() {
		out[tag.Key] = tag.Value
	}
	return out
}

func fieldsOf(p *write.Point) map[string]interface{} {
	out := make(map[string]interface{})
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed local port")
	}
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:59999"

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestWriteWireAction(t *testing.T) {
	fake := newFakeWriteAPI()
	c := newClient(testConfig(), fake)

	c.WriteWireAction("airlock-1", "cut", true, "")
	c.WriteWireAction("airlock-1", "pulse", false, "wires-need-multitool")

	if len(fake.points) != 2 {
		t.Fatalf("wrote %d points, want 2", len(fake.points))
	}

	applied := fake.points[0]
	if applied.Name() != MeasurementWireActions {
		t.Errorf("measurement = %q", applied.Name())
	}
	if tags := tagsOf(applied); tags["board_id"] != "airlock-1" || tags["action"] != "cut" || tags["outcome"] != OutcomeApplied {
		t.Errorf("applied tags = %v", tags)
	}
	if _, ok := fieldsOf(applied)["feedback"]; ok {
		t.Error("applied action carries a feedback field")
	}

	rejected := fake.points[1]
	if tags := tagsOf(rejected); tags["outcome"] != OutcomeRejected {
		t.Errorf("rejected tags = %v", tags)
	}
	if got := fieldsOf(rejected)["feedback"]; got != "wires-need-multitool" {
		t.Errorf("feedback field = %v", got)
	}
}

func TestWriteBoardBuilt(t *testing.T) {
	fake := newFakeWriteAPI()
	c := newClient(testConfig(), fake)

	c.WriteBoardBuilt("airlock-1", "airlock", 4)
	c.WriteBoardBuilt("light-7", "", 1)

	if tags := tagsOf(fake.points[0]); tags["layout_id"] != "airlock" {
		t.Errorf("tags = %v", tags)
	}
	if _, ok := tagsOf(fake.points[1])["layout_id"]; ok {
		t.Error("board without layout carries a layout_id tag")
	}
	if got := fieldsOf(fake.points[0])["wires"]; got != int64(4) {
		t.Errorf("wires field = %v (%T)", got, got)
	}
}

func TestWritePointWithTime(t *testing.T) {
	fake := newFakeWriteAPI()
	c := newClient(testConfig(), fake)

	ts := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	c.WritePointWithTime("custom", nil, map[string]interface{}{"v": 1.5}, ts)

	if !fake.points[0].Time().Equal(ts) {
		t.Errorf("Time() = %v, want %v", fake.points[0].Time(), ts)
	}
}

func TestClose_StopsWrites(t *testing.T) {
	fake := newFakeWriteAPI()
	c := newClient(testConfig(), fake)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if fake.flushes != 1 {
		t.Errorf("Close() flushed %d times, want 1", fake.flushes)
	}

	c.WriteWireAction("airlock-1", "cut", true, "")
	c.Flush()
	if len(fake.points) != 0 || fake.flushes != 1 {
		t.Error("client wrote or flushed after Close()")
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
	c.WriteWireAction("b", "cut", true, "")
}

func TestSetOnError(t *testing.T) {
	fake := newFakeWriteAPI()
	c := newClient(testConfig(), fake)

	got := make(chan error, 1)
	c.SetOnError(func(err error) { got <- err })

	boom := errors.New("bucket not found")
	fake.errCh <- boom

	select {
	case err := <-got:
		if !errors.Is(err, boom) {
			t.Errorf("callback got %v, want %v", err, boom)
		}
	case <-time.After(time.Second):
		t.Fatal("error callback not invoked")
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := newClient(testConfig(), newFakeWriteAPI())
	if err := c.HealthCheck(t.Context()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() without server error = %v, want ErrNotConnected", err)
	}
}
