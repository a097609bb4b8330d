package wasmhost

import (
	"context"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/rtc-registry/native"
)

// A minimal guest with one exported memory page. It imports init,
// new-registry and registry-exists from the host module and re-exports
// trampolines that call them, so the wazero-bound registration is covered
// end to end; the remaining host functions are exercised directly against
// the installed instance with the guest's api.Module.
var testGuest = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version

	// type section: () -> i32, () -> i64, (i64) -> i32
	0x01, 0x0e, 0x03,
	0x60, 0x00, 0x01, 0x7f,
	0x60, 0x00, 0x01, 0x7e,
	0x60, 0x01, 0x7e, 0x01, 0x7f,

	// import section: three funcs from "rtc:registry/native"
	0x02, 0x65, 0x03,
	0x13, 'r', 't', 'c', ':', 'r', 'e', 'g', 'i', 's', 't', 'r', 'y', '/', 'n', 'a', 't', 'i', 'v', 'e',
	0x04, 'i', 'n', 'i', 't', 0x00, 0x00,
	0x13, 'r', 't', 'c', ':', 'r', 'e', 'g', 'i', 's', 't', 'r', 'y', '/', 'n', 'a', 't', 'i', 'v', 'e',
	0x0c, 'n', 'e', 'w', '-', 'r', 'e', 'g', 'i', 's', 't', 'r', 'y', 0x00, 0x01,
	0x13, 'r', 't', 'c', ':', 'r', 'e', 'g', 'i', 's', 't', 'r', 'y', '/', 'n', 'a', 't', 'i', 'v', 'e',
	0x0f, 'r', 'e', 'g', 'i', 's', 't', 'r', 'y', '-', 'e', 'x', 'i', 's', 't', 's', 0x00, 0x02,

	// function section: three trampolines with types 0, 1, 2
	0x03, 0x04, 0x03, 0x00, 0x01, 0x02,

	// memory section: 1 memory, min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,

	// export section: memory plus the trampolines (func indices 3, 4, 5)
	0x07, 0x41, 0x04,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x09, 'c', 'a', 'l', 'l', '_', 'i', 'n', 'i', 't', 0x00, 0x03,
	0x11, 'c', 'a', 'l', 'l', '_', 'n', 'e', 'w', '_', 'r', 'e', 'g', 'i', 's', 't', 'r', 'y', 0x00, 0x04,
	0x14, 'c', 'a', 'l', 'l', '_', 'r', 'e', 'g', 'i', 's', 't', 'r', 'y', '_', 'e', 'x', 'i', 's', 't', 's', 0x00, 0x05,

	// code section: each trampoline forwards its args to the import
	0x0a, 0x12, 0x03,
	0x04, 0x00, 0x10, 0x00, 0x0b,
	0x04, 0x00, 0x10, 0x01, 0x0b,
	0x06, 0x00, 0x20, 0x00, 0x10, 0x02, 0x0b,
}

func newGuest(t *testing.T) (api.Module, *HostModule, func()) {
	t.Helper()
	ctx := context.Background()

	r := wazero.NewRuntime(ctx)
	n := native.New()

	h := New(n, zap.NewNop())
	closer, err := h.Install(ctx, r)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	guest, err := r.Instantiate(ctx, testGuest)
	if err != nil {
		t.Fatalf("guest instantiation failed: %v", err)
	}

	return guest, h, func() {
		_ = closer.Close(ctx)
		_ = r.Close(ctx)
	}
}

func writeGuest(t *testing.T, mod api.Module, offset uint32, data string) {
	t.Helper()
	if !mod.Memory().Write(offset, []byte(data)) {
		t.Fatalf("guest memory write failed at %d", offset)
	}
}

func TestInstall(t *testing.T) {
	_, _, done := newGuest(t)
	done()
}

// The guest drives the registry purely through its imports; nothing here
// touches the HostModule methods directly.
func TestGuestImports(t *testing.T) {
	guest, _, done := newGuest(t)
	defer done()
	ctx := context.Background()

	res, err := guest.ExportedFunction("call_init").Call(ctx)
	if err != nil {
		t.Fatalf("init via guest failed: %v", err)
	}
	if res[0] != 1 {
		t.Fatal("init via guest should acknowledge")
	}

	res, err = guest.ExportedFunction("call_new_registry").Call(ctx)
	if err != nil {
		t.Fatalf("new-registry via guest failed: %v", err)
	}
	handle := res[0]
	if handle == 0 {
		t.Fatal("new-registry via guest returned the error sentinel")
	}

	res, err = guest.ExportedFunction("call_registry_exists").Call(ctx, handle)
	if err != nil {
		t.Fatalf("registry-exists via guest failed: %v", err)
	}
	if res[0] != 1 {
		t.Fatal("fresh registry should exist via guest")
	}

	res, err = guest.ExportedFunction("call_registry_exists").Call(ctx, handle+1)
	if err != nil {
		t.Fatalf("registry-exists via guest failed: %v", err)
	}
	if res[0] != 0 {
		t.Fatal("never-issued handle should not exist via guest")
	}
}

func TestInit(t *testing.T) {
	_, h, done := newGuest(t)
	defer done()

	if h.init(context.Background()) != 1 {
		t.Fatal("init should acknowledge")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	guest, h, done := newGuest(t)
	defer done()
	ctx := context.Background()

	doc := `{"iceServers":[{"urls":["stun:stun.example.com:3478"]}]}`
	writeGuest(t, guest, 0, doc)

	handle := h.newConfig(ctx, guest, 0, uint32(len(doc)))
	if handle == 0 {
		t.Fatal("new-config failed")
	}

	// Probe with an empty buffer to learn the encoded size.
	needed := h.getConfig(ctx, guest, handle, 1024, 0)
	if needed <= 0 {
		t.Fatalf("size probe returned %d", needed)
	}

	n := h.getConfig(ctx, guest, handle, 1024, uint32(needed))
	if n != needed {
		t.Fatalf("get-config wrote %d, want %d", n, needed)
	}

	out, ok := guest.Memory().Read(1024, uint32(n))
	if !ok {
		t.Fatal("read back failed")
	}
	if !strings.Contains(string(out), "stun:stun.example.com:3478") {
		t.Fatalf("config lost content: %s", out)
	}
}

func TestNewConfig_InvalidSettings(t *testing.T) {
	guest, h, done := newGuest(t)
	defer done()
	ctx := context.Background()

	doc := `{"iceServers":[{"urls":["turn:t.example.com"]}]}`
	writeGuest(t, guest, 0, doc)

	if h.newConfig(ctx, guest, 0, uint32(len(doc))) != 0 {
		t.Fatal("invalid settings should yield the zero sentinel")
	}

	n := h.lastError(ctx, guest, 2048, 512)
	if n == 0 {
		t.Fatal("last-error should carry the failure")
	}
	msg, _ := guest.Memory().Read(2048, n)
	if !strings.Contains(string(msg), "invalid_input") {
		t.Fatalf("unexpected error text: %s", msg)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	guest, h, done := newGuest(t)
	defer done()
	ctx := context.Background()

	handle := h.newRegistry(ctx)
	if handle == 0 {
		t.Fatal("new-registry failed")
	}
	if h.registryExists(ctx, handle) != 1 {
		t.Fatal("fresh registry should exist")
	}
	if h.registryExists(ctx, handle+1) != 0 {
		t.Fatal("never-issued handle should not exist")
	}

	// Dependency enforcement via the guest surface.
	if h.newMediaEngine(ctx, guest, 9999, 0, 0) != 0 {
		t.Fatal("media engine atop unknown registry must fail")
	}
	me := h.newMediaEngine(ctx, guest, handle, 0, 0)
	if me == 0 {
		t.Fatal("new-media-engine failed")
	}
	if h.mediaEngineExists(ctx, me) != 1 {
		t.Fatal("fresh media engine should exist")
	}
}

func TestGetConfig_NotFound(t *testing.T) {
	guest, h, done := newGuest(t)
	defer done()

	if h.getConfig(context.Background(), guest, 424242, 0, 64) != -1 {
		t.Fatal("unknown config handle should report -1")
	}
}

func TestReadBytes_OutOfRange(t *testing.T) {
	guest, h, done := newGuest(t)
	defer done()

	// One page of memory; read far beyond it.
	if h.newConfig(context.Background(), guest, 1<<20, 16) != 0 {
		t.Fatal("out-of-range settings must fail, not trap")
	}
}
