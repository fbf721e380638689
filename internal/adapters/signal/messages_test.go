package signal

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		verb     Verb
		kind     domain.SignalKind
		meta     *domain.Meta
		payload  string
		hasError bool
	}{
		{
			name:  "canonical join",
			input: `{"type":"join","meta":{"displayName":"Ann","wantKey":"music","gender":"f","location":"Oslo"}}`,
			verb:  VerbJoin,
			meta:  &domain.Meta{DisplayName: "Ann", WantKey: "music", Gender: "f", Location: "Oslo"},
		},
		{
			name:  "legacy meta type as display name",
			input: `{"type":"join","meta":{"type":"Smiley","want":"chess"}}`,
			verb:  VerbJoin,
			meta:  &domain.Meta{DisplayName: "Smiley", WantKey: "chess", Gender: "Unknown", Location: "Unknown"},
		},
		{
			name:  "flat join fields",
			input: `{"type":"JOIN","name":"Bob","gender":"m"}`,
			verb:  VerbJoin,
			meta:  &domain.Meta{DisplayName: "Bob", Gender: "m", Location: "Unknown"},
		},
		{
			name:  "empty join",
			input: `{"type":"join"}`,
			verb:  VerbJoin,
			meta:  &domain.Meta{DisplayName: "Stranger", Gender: "Unknown", Location: "Unknown"},
		},
		{name: "next", input: `{"type":"next"}`, verb: VerbSkip},
		{name: "skip", input: `{"type":"skip"}`, verb: VerbSkip},
		{name: "leave", input: `{"type":"leave"}`, verb: VerbStop},
		{name: "stop", input: `{"type":"stop"}`, verb: VerbStop},
		{name: "ping", input: `{"type":"ping"}`, verb: VerbPing},
		{
			name:    "canonical signal",
			input:   `{"type":"signal","kind":"answer","payload":{"sdp":"v=0"}}`,
			verb:    VerbSignal,
			kind:    domain.KindAnswer,
			payload: `{"sdp":"v=0"}`,
		},
		{
			name:    "legacy signal with target is sniffed",
			input:   `{"type":"signal","to":"victim","signal":{"type":"offer","sdp":"v=0"}}`,
			verb:    VerbSignal,
			kind:    domain.KindOffer,
			payload: `{"type":"offer","sdp":"v=0"}`,
		},
		{
			name:    "legacy candidate",
			input:   `{"type":"signal","signal":{"candidate":{"candidate":"a=1"}}}`,
			verb:    VerbSignal,
			kind:    domain.KindCandidate,
			payload: `{"candidate":{"candidate":"a=1"}}`,
		},
		{
			name:    "unknown kind is generic",
			input:   `{"type":"signal","kind":"renegotiate","payload":1}`,
			verb:    VerbSignal,
			kind:    domain.KindGeneric,
			payload: `1`,
		},
		{
			name:    "top level offer forwards whole message",
			input:   `{"type":"offer","sdp":"v=0"}`,
			verb:    VerbSignal,
			kind:    domain.KindOffer,
			payload: `{"type":"offer","sdp":"v=0"}`,
		},
		{
			name:    "message alias",
			input:   `{"type":"message","data":"hello"}`,
			verb:    VerbSignal,
			kind:    domain.KindChat,
			payload: `"hello"`,
		},
		{name: "unknown type", input: `{"type":"rename"}`, hasError: true},
		{name: "bad json", input: `{`, hasError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := ParseCommand([]byte(tc.input))
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.verb, cmd.Verb)
			if tc.meta != nil {
				assert.Equal(t, *tc.meta, cmd.Meta)
			}
			if tc.verb == VerbSignal {
				assert.Equal(t, tc.kind, cmd.Kind)
				assert.JSONEq(t, tc.payload, string(cmd.Payload))
			}
		})
	}
}

func TestEncodeNotification(t *testing.T) {
	b, err := EncodeNotification(domain.Matched{
		SessionID:   "s1",
		PartnerID:   "p1",
		Role:        domain.RoleCaller,
		PartnerMeta: domain.NewMeta("Ann", "", "", ""),
		Reason:      domain.ReasonCross,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type":"matched","sessionId":"s1","partnerId":"p1","role":"caller","reason":"cross",
		"partnerMeta":{"displayName":"Ann","gender":"Unknown","location":"Unknown"}
	}`, string(b))

	b, err = EncodeNotification(domain.Signal{Kind: domain.KindOffer, Payload: json.RawMessage(`{"sdp":"v=0"}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"signal","kind":"offer","payload":{"sdp":"v=0"}}`, string(b))

	b, err = EncodeNotification(domain.PartnerLeft{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"partner_left"}`, string(b))

	b, err = EncodeNotification(domain.Queued{Meta: domain.NewMeta("", "x", "", "")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"queued","meta":{"displayName":"Stranger","wantKey":"x","gender":"Unknown","location":"Unknown"}}`, string(b))
}
