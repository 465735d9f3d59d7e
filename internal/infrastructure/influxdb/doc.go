// Package influxdb records wire panel telemetry in InfluxDB v2.
//
// Every operator interaction and every board build is written as a point,
// so dashboards can show which wires get cut, how often operators are
// turned away and which layouts are in use.
//
// # Measurements
//
//	wire_actions  tags: board_id, action, outcome   fields: ok, feedback
//	wire_boards   tags: board_id, layout_id         fields: wires
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // telemetry off
//	}
//	defer client.Close()
//
//	client.WriteWireAction("airlock-1", "cut", true, "")
//
// Writes are non-blocking and batched according to batch_size and
// flush_interval. Async write failures are delivered to the SetOnError
// callback.
package influxdb
