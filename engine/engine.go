package engine

import (
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"

	"github.com/wippyai/rtc-registry/config"
	"github.com/wippyai/rtc-registry/errors"
)

// Registry wraps an interceptor registry shared by every media engine built
// on top of it. pion's interceptor.Registry is a plain slice with no internal
// locking, so all access to it goes through mu: media engine construction
// appends under the write lock, peer connection construction builds the
// interceptor chain under the read lock.
type Registry struct {
	mu    sync.RWMutex
	inner *interceptor.Registry
}

// MediaEngine pairs a configured webrtc.MediaEngine with the interceptor
// registry its interceptors were registered into. The registry must outlive
// the media engine; keeping the pointer here makes API construction need
// only the media engine.
type MediaEngine struct {
	media        *webrtc.MediaEngine
	interceptors *Registry
}

// API pairs the engine's connection factory with the registry it was built
// against, so connection construction can coordinate with interceptor
// registrations still arriving on a shared registry.
type API struct {
	inner    *webrtc.API
	registry *Registry
}

// NewRegistry creates a standalone interceptor registry. It carries no
// dependencies and may be mutated from concurrent callers.
func NewRegistry() *Registry {
	return &Registry{inner: &interceptor.Registry{}}
}

// NewMediaEngine builds a media engine with the requested codec kinds
// registered and wires the default interceptors into reg.
func NewMediaEngine(reg *Registry, s MediaSettings) (*MediaEngine, error) {
	audio := boolOr(s.Audio, true)
	video := boolOr(s.Video, true)
	if !audio && !video {
		return nil, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Resource("media_engine").
			Detail("at least one of audio or video must be enabled").
			Build()
	}

	m := &webrtc.MediaEngine{}
	if audio && video {
		if err := m.RegisterDefaultCodecs(); err != nil {
			return nil, errors.Engine("media_engine", err)
		}
	} else {
		if audio {
			if err := registerAudioCodecs(m); err != nil {
				return nil, errors.Engine("media_engine", err)
			}
		}
		if video {
			if err := registerVideoCodecs(m); err != nil {
				return nil, errors.Engine("media_engine", err)
			}
		}
	}

	if boolOr(s.DefaultInterceptors, true) {
		reg.mu.Lock()
		err := webrtc.RegisterDefaultInterceptors(m, reg.inner)
		reg.mu.Unlock()
		if err != nil {
			return nil, errors.Engine("media_engine", err)
		}
	}

	Logger().Debug("media engine constructed",
		zap.Bool("audio", audio),
		zap.Bool("video", video))

	return &MediaEngine{media: m, interceptors: reg}, nil
}

// Interceptors returns the registry this media engine was built against.
func (m *MediaEngine) Interceptors() *Registry {
	return m.interceptors
}

// NewAPI builds the factory object from which peer connections are created.
// The setting engine is configured from s and logs through the package
// logger via the pion adapter.
func NewAPI(me *MediaEngine, s APISettings) (*API, error) {
	se := webrtc.SettingEngine{
		LoggerFactory: NewLoggerFactory(Logger()),
	}

	if s.Lite {
		se.SetLite(true)
	}
	if s.DetachDataChannels {
		se.DetachDataChannels()
	}
	if s.UDPPortMin != 0 || s.UDPPortMax != 0 {
		if err := se.SetEphemeralUDPPortRange(s.UDPPortMin, s.UDPPortMax); err != nil {
			return nil, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Resource("api").
				Cause(err).
				Detail("udp port range %d-%d", s.UDPPortMin, s.UDPPortMax).
				Build()
		}
	}

	inner := webrtc.NewAPI(
		webrtc.WithMediaEngine(me.media),
		webrtc.WithInterceptorRegistry(me.interceptors.inner),
		webrtc.WithSettingEngine(se),
	)
	return &API{inner: inner, registry: me.interceptors}, nil
}

// NewPeerConnection asks the engine for a connection using cfg. The engine
// consumes the interceptor registry while building the connection, so the
// read lock is held against concurrent registrations on a shared registry.
// The connection's internal state machines belong to the engine; this layer
// only registers the object.
func NewPeerConnection(api *API, cfg *config.Config) (*webrtc.PeerConnection, error) {
	api.registry.mu.RLock()
	pc, err := api.inner.NewPeerConnection(cfg.WebRTC())
	api.registry.mu.RUnlock()
	if err != nil {
		return nil, errors.Engine("peer_connection", err)
	}
	return pc, nil
}

func registerAudioCodecs(m *webrtc.MediaEngine) error {
	return m.RegisterCodec(webrtc.RTPCodecParameters{
		RTPCodecCapability: webrtc.RTPCodecCapability{
			MimeType:    webrtc.MimeTypeOpus,
			ClockRate:   48000,
			Channels:    2,
			SDPFmtpLine: "minptime=10;useinbandfec=1",
		},
		PayloadType: 111,
	}, webrtc.RTPCodecTypeAudio)
}

func registerVideoCodecs(m *webrtc.MediaEngine) error {
	for _, c := range []webrtc.RTPCodecParameters{
		{
			RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000},
			PayloadType:        96,
		},
		{
			RTPCodecCapability: webrtc.RTPCodecCapability{
				MimeType:    webrtc.MimeTypeH264,
				ClockRate:   90000,
				SDPFmtpLine: "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42001f",
			},
			PayloadType: 102,
		},
	} {
		if err := m.RegisterCodec(c, webrtc.RTPCodecTypeVideo); err != nil {
			return err
		}
	}
	return nil
}
