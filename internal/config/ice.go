package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
)

// ICEServer is one STUN/TURN entry handed to clients for their peer connections.
type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

// WebRTCICEServers converts and validates the configured ICE servers.
func (c *Config) WebRTCICEServers() ([]webrtc.ICEServer, error) {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for i, s := range c.ICEServers {
		server := webrtc.ICEServer{Username: strings.TrimSpace(s.Username)}
		for _, url := range s.URLs {
			if url = strings.TrimSpace(url); url != "" {
				server.URLs = append(server.URLs, url)
			}
		}
		if cred := strings.TrimSpace(s.Credential); cred != "" {
			server.Credential = cred
		}
		if err := validateICEServer(server); err != nil {
			return nil, fmt.Errorf("ice_servers[%d]: %w", i, err)
		}
		out = append(out, server)
	}
	return out, nil
}

func validateICEServer(server webrtc.ICEServer) error {
	if len(server.URLs) == 0 {
		return errors.New("missing urls")
	}
	needsCreds := false
	for _, url := range server.URLs {
		switch {
		case strings.HasPrefix(url, "stun:"), strings.HasPrefix(url, "stuns:"):
		case strings.HasPrefix(url, "turn:"), strings.HasPrefix(url, "turns:"):
			needsCreds = true
		default:
			return fmt.Errorf("unsupported url scheme: %q", url)
		}
	}
	if needsCreds {
		cred, _ := server.Credential.(string)
		if server.Username == "" || cred == "" {
			return errors.New("turn urls require username and credential")
		}
	}
	return nil
}
