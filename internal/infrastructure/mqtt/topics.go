package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the wire panel service.
const (
	// TopicPrefixWires is the base for all board topics.
	TopicPrefixWires = "graylogic/wires"

	// TopicPrefixSystem is the base for service status topics.
	TopicPrefixSystem = "graylogic/system"
)

// Board topic suffixes.
const (
	suffixState    = "state"
	suffixEvent    = "event"
	suffixFeedback = "feedback"
	suffixCue      = "cue"
	suffixCommand  = "command"
)

// Topics provides builders for wire panel MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.BoardState("airlock-1") // "graylogic/wires/airlock-1/state"
type Topics struct{}

func boardTopic(boardID, suffix string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixWires, boardID, suffix)
}

// BoardState returns the retained snapshot topic for a board.
func (Topics) BoardState(boardID string) string {
	return boardTopic(boardID, suffixState)
}

// BoardEvent returns the topic for applied wire actions on a board.
func (Topics) BoardEvent(boardID string) string {
	return boardTopic(boardID, suffixEvent)
}

// BoardFeedback returns the topic for operator feedback from a board.
func (Topics) BoardFeedback(boardID string) string {
	return boardTopic(boardID, suffixFeedback)
}

// BoardCue returns the topic for audio cues played at a board.
func (Topics) BoardCue(boardID string) string {
	return boardTopic(boardID, suffixCue)
}

// BoardCommand returns the inbound command topic for a board.
func (Topics) BoardCommand(boardID string) string {
	return boardTopic(boardID, suffixCommand)
}

// AllBoardCommands returns the wildcard topic matching every board's commands.
func (Topics) AllBoardCommands() string {
	return boardTopic("+", suffixCommand)
}

// AllBoardStates returns the wildcard topic matching every board's state.
func (Topics) AllBoardStates() string {
	return boardTopic("+", suffixState)
}

// ServiceStatus returns the online/offline status topic for the service.
func (Topics) ServiceStatus() string {
	return TopicPrefixSystem + "/wirepanel"
}

// BoardIDFromTopic extracts the board id from a board topic.
func BoardIDFromTopic(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, TopicPrefixWires+"/")
	if !ok {
		return "", false
	}
	boardID, suffix, ok := strings.Cut(rest, "/")
	if !ok || boardID == "" || suffix == "" || strings.Contains(suffix, "/") {
		return "", false
	}
	return boardID, true
}
