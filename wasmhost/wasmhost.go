package wasmhost

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/rtc-registry/native"
	"github.com/wippyai/rtc-registry/resource"
)

// ModuleName is the import namespace guests link against.
const ModuleName = "rtc:registry/native"

// HostModule adapts the boundary surface to guest-callable host functions.
//
// Encoding conventions, chosen for a guest that can only move scalars and
// linear-memory bytes:
//
//   - handles travel as i64; 0 is the error sentinel (never a valid handle)
//   - settings documents travel as (ptr, len) JSON in guest memory
//   - existence checks return i32 0/1
//   - get-config writes into a caller buffer and returns the full encoded
//     length, so a too-small buffer can be retried; negative means not found
//   - last-error copies the most recent failure text for diagnostics
type HostModule struct {
	native  *native.Native
	log     *zap.Logger
	mu      sync.Mutex
	lastErr string
}

// New creates a host module over the boundary surface.
func New(n *native.Native, log *zap.Logger) *HostModule {
	if log == nil {
		log = zap.NewNop()
	}
	return &HostModule{native: n, log: log}
}

// Install registers the host module with a wazero runtime. Must run before
// instantiating guests that import it. The returned closer detaches the
// module from the runtime.
func (h *HostModule) Install(ctx context.Context, r wazero.Runtime) (api.Closer, error) {
	return r.NewHostModuleBuilder(ModuleName).
		NewFunctionBuilder().WithFunc(h.init).Export("init").
		NewFunctionBuilder().WithFunc(h.newConfig).Export("new-config").
		NewFunctionBuilder().WithFunc(h.getConfig).Export("get-config").
		NewFunctionBuilder().WithFunc(h.newRegistry).Export("new-registry").
		NewFunctionBuilder().WithFunc(h.registryExists).Export("registry-exists").
		NewFunctionBuilder().WithFunc(h.newMediaEngine).Export("new-media-engine").
		NewFunctionBuilder().WithFunc(h.mediaEngineExists).Export("media-engine-exists").
		NewFunctionBuilder().WithFunc(h.newAPI).Export("new-api").
		NewFunctionBuilder().WithFunc(h.newPeerConnection).Export("new-peer-connection").
		NewFunctionBuilder().WithFunc(h.lastError).Export("last-error").
		Instantiate(ctx)
}

func (h *HostModule) init(context.Context) uint32 {
	if err := h.native.Init(); err != nil {
		h.setErr(err)
		return 0
	}
	return 1
}

func (h *HostModule) newConfig(ctx context.Context, mod api.Module, ptr, size uint32) uint64 {
	raw, ok := h.readBytes(mod, ptr, size)
	if !ok {
		return 0
	}
	handle, err := h.native.NewConfig(ctx, raw)
	if err != nil {
		h.setErr(err)
		return 0
	}
	return uint64(handle)
}

func (h *HostModule) getConfig(_ context.Context, mod api.Module, handle uint64, bufPtr, bufCap uint32) int32 {
	cfg, err := h.native.GetConfig(resource.Handle(handle))
	if err != nil {
		h.setErr(err)
		return -1
	}
	encoded, err := cfg.MarshalJSON()
	if err != nil {
		h.setErr(err)
		return -1
	}
	n := len(encoded)
	if uint32(n) > bufCap {
		// Caller retries with the returned size.
		return int32(n)
	}
	if !mod.Memory().Write(bufPtr, encoded) {
		h.setErrText("get-config: buffer out of range")
		return -1
	}
	return int32(n)
}

func (h *HostModule) newRegistry(ctx context.Context) uint64 {
	handle, err := h.native.NewRegistry(ctx)
	if err != nil {
		h.setErr(err)
		return 0
	}
	return uint64(handle)
}

func (h *HostModule) registryExists(_ context.Context, handle uint64) uint32 {
	if h.native.RegistryExists(resource.Handle(handle)) {
		return 1
	}
	return 0
}

func (h *HostModule) newMediaEngine(ctx context.Context, mod api.Module, registry uint64, ptr, size uint32) uint64 {
	raw, ok := h.readBytes(mod, ptr, size)
	if !ok {
		return 0
	}
	handle, err := h.native.NewMediaEngine(ctx, resource.Handle(registry), raw)
	if err != nil {
		h.setErr(err)
		return 0
	}
	return uint64(handle)
}

func (h *HostModule) mediaEngineExists(_ context.Context, handle uint64) uint32 {
	if h.native.MediaEngineExists(resource.Handle(handle)) {
		return 1
	}
	return 0
}

func (h *HostModule) newAPI(ctx context.Context, mod api.Module, mediaEngine uint64, ptr, size uint32) uint64 {
	raw, ok := h.readBytes(mod, ptr, size)
	if !ok {
		return 0
	}
	handle, err := h.native.NewAPI(ctx, resource.Handle(mediaEngine), raw)
	if err != nil {
		h.setErr(err)
		return 0
	}
	return uint64(handle)
}

func (h *HostModule) newPeerConnection(ctx context.Context, mod api.Module, apiHandle uint64, ptr, size uint32) uint64 {
	raw, ok := h.readBytes(mod, ptr, size)
	if !ok {
		return 0
	}
	handle, err := h.native.NewPeerConnection(ctx, resource.Handle(apiHandle), raw)
	if err != nil {
		h.setErr(err)
		return 0
	}
	return uint64(handle)
}

func (h *HostModule) lastError(_ context.Context, mod api.Module, bufPtr, bufCap uint32) uint32 {
	h.mu.Lock()
	msg := h.lastErr
	h.mu.Unlock()

	if msg == "" {
		return 0
	}
	encoded := []byte(msg)
	if uint32(len(encoded)) > bufCap {
		encoded = encoded[:bufCap]
	}
	if !mod.Memory().Write(bufPtr, encoded) {
		return 0
	}
	return uint32(len(encoded))
}

// readBytes copies a guest memory range. A zero-length range is a valid
// empty document. The copy matters: the memory view is only valid during
// the call.
func (h *HostModule) readBytes(mod api.Module, ptr, size uint32) ([]byte, bool) {
	if size == 0 {
		return nil, true
	}
	view, ok := mod.Memory().Read(ptr, size)
	if !ok {
		h.setErrText("settings out of memory range")
		return nil, false
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, true
}

func (h *HostModule) setErr(err error) {
	h.log.Debug("boundary op failed", zap.Error(err))
	h.mu.Lock()
	h.lastErr = err.Error()
	h.mu.Unlock()
}

func (h *HostModule) setErrText(msg string) {
	h.mu.Lock()
	h.lastErr = msg
	h.mu.Unlock()
}
