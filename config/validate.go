package config

import (
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"

	"github.com/wippyai/rtc-registry/errors"
)

// validate checks a settings document and builds the engine configuration.
// All checks run before anything is constructed, so a failure leaves no
// partial state behind.
func validate(s Settings) (webrtc.Configuration, error) {
	var out webrtc.Configuration

	hasTURN := false
	for i, server := range s.ICEServers {
		if len(server.URLs) == 0 {
			return out, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Detail("iceServers[%d]: no urls", i).
				Build()
		}

		isTURN := false
		for _, raw := range server.URLs {
			uri, err := stun.ParseURI(raw)
			if err != nil {
				return out, errors.InvalidICEURL(raw, err)
			}
			switch uri.Scheme {
			case stun.SchemeTypeTURN, stun.SchemeTypeTURNS:
				isTURN = true
			}
		}

		if isTURN {
			hasTURN = true
			if server.Username == "" || server.Credential == "" {
				return out, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
					Detail("iceServers[%d]: turn urls require username and credential", i).
					Build()
			}
		}

		ice := webrtc.ICEServer{
			URLs:     append([]string(nil), server.URLs...),
			Username: server.Username,
		}
		if server.Credential != "" {
			ice.Credential = server.Credential
		}
		out.ICEServers = append(out.ICEServers, ice)
	}

	switch s.ICETransportPolicy {
	case "", "all":
		out.ICETransportPolicy = webrtc.ICETransportPolicyAll
	case "relay":
		if !hasTURN {
			return out, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Detail("iceTransportPolicy 'relay' requires at least one turn server").
				Build()
		}
		out.ICETransportPolicy = webrtc.ICETransportPolicyRelay
	default:
		return out, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Detail("unknown iceTransportPolicy %q", s.ICETransportPolicy).
			Build()
	}

	switch s.BundlePolicy {
	case "", "balanced":
		out.BundlePolicy = webrtc.BundlePolicyBalanced
	case "max-compat":
		out.BundlePolicy = webrtc.BundlePolicyMaxCompat
	case "max-bundle":
		out.BundlePolicy = webrtc.BundlePolicyMaxBundle
	default:
		return out, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Detail("unknown bundlePolicy %q", s.BundlePolicy).
			Build()
	}

	switch s.RTCPMuxPolicy {
	case "", "require":
		out.RTCPMuxPolicy = webrtc.RTCPMuxPolicyRequire
	case "negotiate":
		out.RTCPMuxPolicy = webrtc.RTCPMuxPolicyNegotiate
	default:
		return out, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Detail("unknown rtcpMuxPolicy %q", s.RTCPMuxPolicy).
			Build()
	}

	out.ICECandidatePoolSize = s.ICECandidatePoolSize

	return out, nil
}
