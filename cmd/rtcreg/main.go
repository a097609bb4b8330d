package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/rtc-registry/engine"
	"github.com/wippyai/rtc-registry/native"
	"github.com/wippyai/rtc-registry/resource"
)

func main() {
	var (
		settings    = flag.String("settings", "", "Configuration settings JSON (RTCConfiguration shape)")
		verbose     = flag.Bool("v", false, "Verbose engine logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	engine.SetLogger(log)

	if *interactive {
		if err := runInteractive(log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*settings, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run walks the full construction chain once and dumps the table, which
// doubles as a smoke test of the local engine setup.
func run(settingsJSON string, log *zap.Logger) error {
	ctx := context.Background()

	n := native.New(native.WithLogger(log))
	defer n.Close()

	if err := n.Init(); err != nil {
		return err
	}

	cfgH, err := n.NewConfig(ctx, []byte(settingsJSON))
	if err != nil {
		return err
	}
	regH, err := n.NewRegistry(ctx)
	if err != nil {
		return err
	}
	meH, err := n.NewMediaEngine(ctx, regH, nil)
	if err != nil {
		return err
	}
	apiH, err := n.NewAPI(ctx, meH, nil)
	if err != nil {
		return err
	}
	pcSettings, err := json.Marshal(native.PeerConnectionSettings{Config: uint64(cfgH)})
	if err != nil {
		return err
	}
	pcH, err := n.NewPeerConnection(ctx, apiH, pcSettings)
	if err != nil {
		return err
	}

	fmt.Printf("configuration:   %d\n", cfgH)
	fmt.Printf("registry:        %d\n", regH)
	fmt.Printf("media engine:    %d\n", meH)
	fmt.Printf("api:             %d\n", apiH)
	fmt.Printf("peer connection: %d\n", pcH)
	fmt.Println()

	fmt.Printf("Live resources: %d\n", n.Table().Len())
	n.Table().Each(func(h resource.Handle, k resource.Kind, _ any) bool {
		fmt.Printf("  %6d  %s\n", h, k)
		return true
	})

	return nil
}
