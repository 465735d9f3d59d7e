package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementWireActions = "wire_actions"
	MeasurementWireBoards  = "wire_boards"
)

// Outcome tag values for wire actions.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// WriteWireAction records one operator interaction with a board.
// feedback is empty for applied actions.
func (c *Client) WriteWireAction(boardID, action string, ok bool, feedback string) {
	outcome := OutcomeApplied
	if !ok {
		outcome = OutcomeRejected
	}

	fields := map[string]interface{}{
		"ok": ok,
	}
	if feedback != "" {
		fields["feedback"] = feedback
	}

	c.WritePoint(MeasurementWireActions,
		map[string]string{
			"board_id": boardID,
			"action":   action,
			"outcome":  outcome,
		},
		fields,
	)
}

// WriteBoardBuilt records a board finishing startup with the given number
// of wires. layoutID is empty for boards without a shared layout.
func (c *Client) WriteBoardBuilt(boardID, layoutID string, wires int) {
	tags := map[string]string{"board_id": boardID}
	if layoutID != "" {
		tags["layout_id"] = layoutID
	}
	c.WritePoint(MeasurementWireBoards, tags, map[string]interface{}{"wires": wires})
}

// WritePoint writes a custom point stamped with the current time.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime writes a custom point with a specific timestamp.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}
