package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/pion/webrtc/v4"
)

// EncodeNotification renders n as a flat {"type": ...} JSON object.
func EncodeNotification(n domain.Notification) ([]byte, error) {
	switch v := n.(type) {
	case domain.Queued:
		return json.Marshal(struct {
			Type string `json:"type"`
			domain.Queued
		}{v.Type(), v})
	case domain.Matched:
		return json.Marshal(struct {
			Type string `json:"type"`
			domain.Matched
		}{v.Type(), v})
	case domain.Signal:
		return json.Marshal(struct {
			Type string `json:"type"`
			domain.Signal
		}{v.Type(), v})
	case domain.PartnerLeft:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{v.Type()})
	default:
		return nil, fmt.Errorf("unsupported notification %T", n)
	}
}

type helloMessage struct {
	Type       string             `json:"type"`
	ID         domain.ConnID      `json:"id"`
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

// replyMessage is a bare reply to the sender, such as pong.
type replyMessage struct {
	Type string `json:"type"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
