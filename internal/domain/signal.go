package domain

// SignalKind is the only part of a relayed payload the server looks at.
type SignalKind string

const (
	KindOffer     SignalKind = "offer"
	KindAnswer    SignalKind = "answer"
	KindCandidate SignalKind = "candidate"
	KindChat      SignalKind = "chat"
	KindGeneric   SignalKind = "generic"
)

// ParseSignalKind maps unknown discriminants onto KindGeneric.
func ParseSignalKind(s string) SignalKind {
	switch k := SignalKind(s); k {
	case KindOffer, KindAnswer, KindCandidate, KindChat:
		return k
	default:
		return KindGeneric
	}
}
