package native

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wippyai/rtc-registry/config"
	"github.com/wippyai/rtc-registry/engine"
	"github.com/wippyai/rtc-registry/errors"
	"github.com/wippyai/rtc-registry/resource"
)

// Native is the call-in surface exposed to the host runtime. It owns the
// process-wide resource table and handle allocator; every component reaches
// shared state through the same injected references, never through package
// globals.
//
// Every exported operation is wrapped so that no internal fault — panic,
// invariant violation, allocator exhaustion — can unwind across the boundary.
// Faults are logged and converted into internal-kind error values.
type Native struct {
	table *resource.Table
	alloc *resource.Allocator
	pool  *Pool
	log   *zap.Logger
}

// Option configures a Native.
type Option func(*Native)

// WithLogger installs the boundary logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(n *Native) {
		if l != nil {
			n.log = l
		}
	}
}

// WithPoolSize bounds concurrent construction work.
func WithPoolSize(size int) Option {
	return func(n *Native) {
		n.pool = NewPool(size)
	}
}

// New creates the boundary surface with a fresh table and allocator.
func New(opts ...Option) *Native {
	n := &Native{
		table: resource.NewTable(),
		alloc: resource.NewAllocator(),
		pool:  NewPool(defaultPoolSize),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Table exposes the resource table for diagnostics (inspectors, observers).
func (n *Native) Table() *resource.Table {
	return n.table
}

// Init acknowledges process-wide setup. The table and allocator are live
// from New; Init exists so the host has an explicit point to confirm the
// layer is reachable before issuing real work.
func (n *Native) Init() error {
	_, err := catch(n, "init", func() (struct{}, error) {
		n.log.Info("registry initialized")
		return struct{}{}, nil
	})
	return err
}

// Close retires every live resource and shuts the table down.
func (n *Native) Close() error {
	_, err := catch(n, "close", func() (struct{}, error) {
		return struct{}{}, n.table.Close()
	})
	return err
}

// NewConfig validates a host-encoded settings document and registers the
// resulting immutable configuration. Validation failure registers nothing.
func (n *Native) NewConfig(_ context.Context, raw []byte) (resource.Handle, error) {
	return catch(n, "new_config", func() (resource.Handle, error) {
		cfg, err := config.Parse(raw)
		if err != nil {
			return 0, err
		}
		return n.register(resource.KindConfiguration, cfg)
	})
}

// GetConfig returns the configuration registered under h.
func (n *Native) GetConfig(h resource.Handle) (*config.Config, error) {
	return catch(n, "get_config", func() (*config.Config, error) {
		v, err := n.resolve(h, resource.KindConfiguration)
		if err != nil {
			return nil, err
		}
		return v.(*config.Config), nil
	})
}

// NewRegistry creates a standalone interceptor registry resource.
func (n *Native) NewRegistry(_ context.Context) (resource.Handle, error) {
	return catch(n, "new_registry", func() (resource.Handle, error) {
		return n.register(resource.KindRegistry, engine.NewRegistry())
	})
}

// RegistryExists reports whether h refers to a live registry.
func (n *Native) RegistryExists(h resource.Handle) bool {
	return n.exists(h, resource.KindRegistry)
}

// NewMediaEngine builds a media engine atop the registry under regHandle.
// The engine call runs on the construction pool; a handle is allocated and
// registered only after it succeeds.
func (n *Native) NewMediaEngine(ctx context.Context, regHandle resource.Handle, raw []byte) (resource.Handle, error) {
	return catch(n, "new_media_engine", func() (resource.Handle, error) {
		settings, err := engine.ParseMediaSettings(raw)
		if err != nil {
			return 0, err
		}
		v, err := n.resolve(regHandle, resource.KindRegistry)
		if err != nil {
			return 0, err
		}
		reg := v.(*engine.Registry)

		return dispatch(ctx, n, "new_media_engine", func() (resource.Handle, error) {
			me, err := engine.NewMediaEngine(reg, settings)
			if err != nil {
				return 0, err
			}
			return n.register(resource.KindMediaEngine, me)
		})
	})
}

// MediaEngineExists reports whether h refers to a live media engine.
func (n *Native) MediaEngineExists(h resource.Handle) bool {
	return n.exists(h, resource.KindMediaEngine)
}

// NewAPI builds an API instance atop the media engine under meHandle.
func (n *Native) NewAPI(ctx context.Context, meHandle resource.Handle, raw []byte) (resource.Handle, error) {
	return catch(n, "new_api", func() (resource.Handle, error) {
		settings, err := engine.ParseAPISettings(raw)
		if err != nil {
			return 0, err
		}
		v, err := n.resolve(meHandle, resource.KindMediaEngine)
		if err != nil {
			return 0, err
		}
		me := v.(*engine.MediaEngine)

		return dispatch(ctx, n, "new_api", func() (resource.Handle, error) {
			api, err := engine.NewAPI(me, settings)
			if err != nil {
				return 0, err
			}
			return n.register(resource.KindAPI, api)
		})
	})
}

// PeerConnectionSettings is the per-connection settings document. Config
// optionally names a registered configuration handle; when absent the
// engine's zero configuration is used.
type PeerConnectionSettings struct {
	Config uint64 `json:"config,omitempty"`
}

// NewPeerConnection builds a peer connection from the API under apiHandle
// and the optional configuration named in raw. Peer connection construction
// generates certificates and transports, so it always runs on the pool.
func (n *Native) NewPeerConnection(ctx context.Context, apiHandle resource.Handle, raw []byte) (resource.Handle, error) {
	return catch(n, "new_peer_connection", func() (resource.Handle, error) {
		var settings PeerConnectionSettings
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &settings); err != nil {
				return 0, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
					Cause(err).
					Detail("decode peer connection settings").
					Build()
			}
		}

		v, err := n.resolve(apiHandle, resource.KindAPI)
		if err != nil {
			return 0, err
		}
		api := v.(*engine.API)

		cfg := config.Default()
		if settings.Config != 0 {
			c, err := n.resolve(resource.Handle(settings.Config), resource.KindConfiguration)
			if err != nil {
				return 0, err
			}
			cfg = c.(*config.Config)
		}

		return dispatch(ctx, n, "new_peer_connection", func() (resource.Handle, error) {
			pc, err := engine.NewPeerConnection(api, cfg)
			if err != nil {
				return 0, err
			}
			return n.register(resource.KindPeerConnection, pc)
		})
	})
}

// register allocates a fresh handle and inserts the constructed resource.
// Called only after construction succeeded, so failure paths never leave a
// registered handle behind.
func (n *Native) register(kind resource.Kind, value any) (resource.Handle, error) {
	h := n.alloc.Allocate()
	if err := n.table.Insert(h, kind, value); err != nil {
		n.log.Error("insert invariant violation",
			zap.Uint64("handle", uint64(h)),
			zap.Stringer("kind", kind),
			zap.Error(err))
		return 0, err
	}
	n.log.Debug("resource registered",
		zap.Uint64("handle", uint64(h)),
		zap.Stringer("kind", kind))
	return h, nil
}

// resolve looks up a dependency handle, distinguishing a mistyped live
// handle from one that was never issued or is retired.
func (n *Native) resolve(h resource.Handle, kind resource.Kind) (any, error) {
	if v, ok := n.table.Lookup(h, kind); ok {
		return v, nil
	}
	if got, ok := n.table.Kind(h); ok && got != kind {
		return nil, errors.KindMismatch(kind.String(), got.String(), uint64(h))
	}
	return nil, errors.NotFound(kind.String(), uint64(h))
}

// exists is the shared fault-contained existence check.
func (n *Native) exists(h resource.Handle, kind resource.Kind) bool {
	ok, _ := catch(n, "exists", func() (bool, error) {
		return n.table.Exists(h, kind), nil
	})
	return ok
}

// catch converts any panic out of fn into an internal error value. It is the
// mandatory wrapper around every exposed operation: an uncaught fault here
// would crash the entire host process, not just the calling operation.
func catch[T any](n *Native, op string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = n.recovered(op, r)
		}
	}()
	return fn()
}

// recovered logs a recovered fault and produces the error surfaced to the
// caller. A structured error used as a panic value (allocator exhaustion)
// keeps its categorization; anything else becomes a generic internal error
// so panic payloads never leak across the boundary.
func (n *Native) recovered(op string, r any) error {
	if e, ok := r.(*errors.Error); ok {
		n.log.Error("recovered fault at boundary",
			zap.String("op", op),
			zap.Error(e),
			zap.Stack("stack"))
		return e
	}
	n.log.Error("recovered fault at boundary",
		zap.String("op", op),
		zap.Any("panic", r),
		zap.Stack("stack"))
	return errors.Internal(op+": internal fault", nil)
}
