// Package host runs wire boards for the devices named in the configuration.
//
// It supplies everything the wires package treats as an external
// collaborator: operators and the tools they hold, the reach check, the
// device subsystems that own wires (doors, lights, vending machines) and
// the fan-out of snapshots, feedback and cues to MQTT, websocket clients
// and InfluxDB.
//
// # Flow
//
//	API / MQTT command ──▶ Host.Act ──▶ wires.Board.Act
//	                                        │
//	            ┌───────────────────────────┼─────────────────────────┐
//	            ▼                           ▼                         ▼
//	   snapshot: MQTT state (retained)   feedback: MQTT + hub   provider.WiresUpdate
//	             + hub "wires.snapshot"  cue: MQTT (async)      + MQTT event
//	                                     telemetry: InfluxDB
//
// Board identity (name, serial number, wire seed, layout id) is loaded
// from and saved to a wires.BoardRepository so serial numbers survive
// restarts.
package host
