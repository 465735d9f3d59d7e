// Package mqtt provides MQTT connectivity for the wire panel service.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing board snapshots (retained), events, feedback and cues
//   - Subscribing to inbound wire commands
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
//	graylogic/wires/{board}/state     retained snapshot JSON
//	graylogic/wires/{board}/event     owner notifications
//	graylogic/wires/{board}/feedback  feedback for operators
//	graylogic/wires/{board}/cue       audio cues
//	graylogic/wires/{board}/command   inbound actions
//	graylogic/system/wirepanel        service online/offline status
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllBoardCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        boardID, ok := mqtt.BoardIDFromTopic(topic)
//	        ...
//	    })
package mqtt
