package domain

import "encoding/json"

// Outbound notification types.
const (
	TypeQueued      = "queued"
	TypeMatched     = "matched"
	TypeSignal      = "signal"
	TypePartnerLeft = "partner_left"
)

// Notification is a message the engine hands to the transport for one connection.
type Notification interface {
	Type() string
}

type Queued struct {
	Meta Meta `json:"meta"`
}

type Matched struct {
	SessionID   SessionID   `json:"sessionId"`
	PartnerID   ConnID      `json:"partnerId"`
	Role        Role        `json:"role"`
	PartnerMeta Meta        `json:"partnerMeta"`
	Reason      MatchReason `json:"reason"`
}

// Signal carries a payload verbatim from the session partner.
type Signal struct {
	Kind    SignalKind      `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type PartnerLeft struct{}

func (Queued) Type() string      { return TypeQueued }
func (Matched) Type() string     { return TypeMatched }
func (Signal) Type() string      { return TypeSignal }
func (PartnerLeft) Type() string { return TypePartnerLeft }
