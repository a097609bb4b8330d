package engine

import (
	"encoding/json"

	"github.com/wippyai/rtc-registry/errors"
)

// MediaSettings selects what a media engine registers. An empty document
// means the full default codec set with default interceptors.
type MediaSettings struct {
	Audio               *bool `json:"audio,omitempty"`
	Video               *bool `json:"video,omitempty"`
	DefaultInterceptors *bool `json:"defaultInterceptors,omitempty"`
}

// APISettings tunes the setting engine backing an API instance.
type APISettings struct {
	Lite               bool   `json:"lite,omitempty"`
	DetachDataChannels bool   `json:"detachDataChannels,omitempty"`
	UDPPortMin         uint16 `json:"udpPortMin,omitempty"`
	UDPPortMax         uint16 `json:"udpPortMax,omitempty"`
}

// ParseMediaSettings decodes a host-encoded media settings document.
func ParseMediaSettings(raw []byte) (MediaSettings, error) {
	var s MediaSettings
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Cause(err).
			Detail("decode media engine settings").
			Build()
	}
	return s, nil
}

// ParseAPISettings decodes a host-encoded API settings document.
func ParseAPISettings(raw []byte) (APISettings, error) {
	var s APISettings
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Cause(err).
			Detail("decode api settings").
			Build()
	}
	return s, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
