package config

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"

	"github.com/wippyai/rtc-registry/errors"
)

// ICEServer describes one STUN/TURN server entry as the host encodes it.
// URLs accepts either a single string or an array of strings.
type ICEServer struct {
	URLs       URLList `json:"urls"`
	Username   string  `json:"username,omitempty"`
	Credential string  `json:"credential,omitempty"`
}

// URLList unmarshals from a JSON string or array of strings.
type URLList []string

// UnmarshalJSON implements json.Unmarshaler.
func (u *URLList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*u = URLList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*u = URLList(many)
	return nil
}

// Settings is the raw, host-encoded configuration document. It mirrors the
// RTCConfiguration dictionary shape the host runtime already speaks.
type Settings struct {
	ICEServers           []ICEServer `json:"iceServers,omitempty"`
	ICETransportPolicy   string      `json:"iceTransportPolicy,omitempty"`
	BundlePolicy         string      `json:"bundlePolicy,omitempty"`
	RTCPMuxPolicy        string      `json:"rtcpMuxPolicy,omitempty"`
	ICECandidatePoolSize uint8       `json:"iceCandidatePoolSize,omitempty"`
}

// Config is an immutable, validated configuration value. It is produced once
// by Parse and read many times; accessors return copies so no caller can
// mutate shared state through it.
type Config struct {
	settings Settings
	webrtc   webrtc.Configuration
}

// Parse decodes and validates a host-encoded settings document. On any
// validation failure it returns a validate-phase error and no Config — there
// is never a partially valid configuration.
func Parse(raw []byte) (*Config, error) {
	var s Settings
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Cause(err).
				Detail("decode settings").
				Build()
		}
	}
	return FromSettings(s)
}

// FromSettings validates an already-decoded Settings value.
func FromSettings(s Settings) (*Config, error) {
	wc, err := validate(s)
	if err != nil {
		return nil, err
	}
	return &Config{settings: s, webrtc: wc}, nil
}

// Default returns the zero configuration: no ICE servers, engine defaults
// for every policy.
func Default() *Config {
	return &Config{}
}

// WebRTC returns the engine-ready configuration. The ICE server slice is
// copied so the shared value stays immutable.
func (c *Config) WebRTC() webrtc.Configuration {
	out := c.webrtc
	if len(c.webrtc.ICEServers) > 0 {
		out.ICEServers = make([]webrtc.ICEServer, len(c.webrtc.ICEServers))
		copy(out.ICEServers, c.webrtc.ICEServers)
	}
	return out
}

// Settings returns a copy of the validated raw settings.
func (c *Config) Settings() Settings {
	out := c.settings
	if len(c.settings.ICEServers) > 0 {
		out.ICEServers = make([]ICEServer, len(c.settings.ICEServers))
		copy(out.ICEServers, c.settings.ICEServers)
		for i := range out.ICEServers {
			urls := make(URLList, len(out.ICEServers[i].URLs))
			copy(urls, out.ICEServers[i].URLs)
			out.ICEServers[i].URLs = urls
		}
	}
	return out
}

// MarshalJSON encodes the configuration back into the host's settings shape.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.settings)
}
