package signal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dkeye/Jusssmile/internal/domain"
)

// Verb is a canonical inbound request.
type Verb string

const (
	VerbJoin   Verb = "JOIN"
	VerbSignal Verb = "SIGNAL"
	VerbSkip   Verb = "SKIP"
	VerbStop   Verb = "STOP"
	VerbPing   Verb = "PING"
)

// Command is an inbound message collapsed onto the canonical taxonomy.
type Command struct {
	Verb    Verb
	Meta    domain.Meta
	Kind    domain.SignalKind
	Payload json.RawMessage
}

type metaPayload struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	WantKey     string `json:"wantKey"`
	Want        string `json:"want"`
	Interest    string `json:"interest"`
	Gender      string `json:"gender"`
	Location    string `json:"location"`
}

func (m metaPayload) toDomain() domain.Meta {
	return domain.NewMeta(
		firstNonEmpty(m.DisplayName, m.Name, m.Type),
		firstNonEmpty(m.WantKey, m.Want, m.Interest),
		m.Gender,
		m.Location,
	)
}

// inbound deliberately has no target field: routing comes from the
// sender's session only.
type inbound struct {
	Type string `json:"type"`

	Meta        *metaPayload `json:"meta"`
	DisplayName string       `json:"displayName"`
	Name        string       `json:"name"`
	WantKey     string       `json:"wantKey"`
	Want        string       `json:"want"`
	Gender      string       `json:"gender"`
	Location    string       `json:"location"`

	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
	Signal  json.RawMessage `json:"signal"`
	Data    json.RawMessage `json:"data"`
}

// ParseCommand decodes a client message and maps legacy verbs and field
// names onto a Command.
func ParseCommand(data []byte) (Command, error) {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Command{}, err
	}

	switch t := strings.ToLower(strings.TrimSpace(in.Type)); t {
	case "join":
		meta := metaPayload{
			DisplayName: in.DisplayName,
			Name:        in.Name,
			WantKey:     in.WantKey,
			Want:        in.Want,
			Gender:      in.Gender,
			Location:    in.Location,
		}
		if in.Meta != nil {
			meta = *in.Meta
		}
		return Command{Verb: VerbJoin, Meta: meta.toDomain()}, nil

	case "skip", "next":
		return Command{Verb: VerbSkip}, nil

	case "stop", "leave":
		return Command{Verb: VerbStop}, nil

	case "ping":
		return Command{Verb: VerbPing}, nil

	case "signal":
		payload := firstRaw(in.Payload, in.Signal, in.Data)
		kind := domain.ParseSignalKind(in.Kind)
		if in.Kind == "" {
			kind = sniffKind(payload)
		}
		return Command{Verb: VerbSignal, Kind: kind, Payload: payload}, nil

	case "offer", "answer", "candidate", "chat", "message":
		if t == "message" {
			t = "chat"
		}
		payload := firstRaw(in.Payload, in.Data)
		if payload == nil {
			payload = json.RawMessage(data)
		}
		return Command{Verb: VerbSignal, Kind: domain.ParseSignalKind(t), Payload: payload}, nil

	default:
		return Command{}, fmt.Errorf("unknown message type %q", in.Type)
	}
}

// sniffKind derives the discriminant of a legacy signal body.
func sniffKind(payload json.RawMessage) domain.SignalKind {
	if len(payload) == 0 {
		return domain.KindGeneric
	}
	var body struct {
		Type      string          `json:"type"`
		Candidate json.RawMessage `json:"candidate"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return domain.KindGeneric
	}
	if body.Type == "offer" || body.Type == "answer" {
		return domain.SignalKind(body.Type)
	}
	if len(body.Candidate) > 0 {
		return domain.KindCandidate
	}
	return domain.KindGeneric
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstRaw(vals ...json.RawMessage) json.RawMessage {
	for _, v := range vals {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}
