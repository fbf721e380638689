package domain

type SessionID string

type Role string

const (
	RoleCaller Role = "caller"
	RoleCallee Role = "callee"
)

// MatchReason tells which matcher step formed a session. Diagnostics only.
type MatchReason string

const (
	ReasonExact MatchReason = "exact"
	ReasonCross MatchReason = "cross"
)

// RolesFor assigns caller to the lexicographically smaller id.
// Both ends can recompute it; the server's assignment is authoritative.
func RolesFor(a, b ConnID) (caller, callee ConnID) {
	if a < b {
		return a, b
	}
	return b, a
}
