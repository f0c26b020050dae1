// Command xerahs-cli runs one region capture and exits. When a resident
// xerahs instance is running, the capture is delegated to it over the
// loopback endpoint; otherwise the overlay runs in this process.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/McoreD/XerahS-Claude/config"
	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/monitor"
	"github.com/McoreD/XerahS-Claude/overlay"
	"github.com/McoreD/XerahS-Claude/screenshot"
	"github.com/McoreD/XerahS-Claude/selection"
	"github.com/McoreD/XerahS-Claude/singleinstance"
)

type cliOptions struct {
	outputPath string
	rectOnly   bool
	jsonOutput bool
	noDelegate bool
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(os.Args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "xerahs-cli",
		Short:         "Select a screen region and capture it as PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write PNG to this path (use '-' for stdout)")
	cmd.Flags().BoolVar(&opts.rectOnly, "rect", false, "Print the selected region only, skip pixel capture")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the region as JSON on stdout")
	cmd.Flags().BoolVar(&opts.noDelegate, "no-delegate", false, "Run the overlay locally even if a resident instance exists")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")

	return cmd
}

func runWithOptions(opts cliOptions) error {
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	// Load .env early so SINGLEINSTANCE_PORT_* apply to the delegation scan.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	wantImage := !opts.rectOnly

	var res singleinstance.Result
	if !opts.noDelegate {
		client := singleinstance.NewClient()
		delegated, dres, err := client.TryCapture(ctx, wantImage)
		if err != nil {
			return fmt.Errorf("resident capture failed: %w", err)
		}
		if delegated {
			log.Printf("delegated to resident")
			res = dres
			return emit(opts, res)
		}
		log.Printf("no resident detected, running standalone")
	}

	res, err = captureStandalone(ctx, cfg, wantImage)
	if err != nil {
		return err
	}
	return emit(opts, res)
}

// captureStandalone runs the overlay in this process.
func captureStandalone(ctx context.Context, cfg *config.Config, wantImage bool) (singleinstance.Result, error) {
	if err := monitor.EnablePerMonitorDPI(); err != nil {
		log.Printf("DPI awareness not available: %v", err)
	}
	selector := overlay.NewSelector(selection.Config{
		EnableWindowSnapping: cfg.EnableWindowSnapping,
		MinDragSize:          cfg.MinDragSize,
		DimOpacity:           cfg.DimOpacity,
	})
	region, ok, err := selector.Select(ctx)
	if err != nil {
		return singleinstance.Result{}, err
	}
	if !ok {
		return singleinstance.Result{Cancelled: true}, nil
	}
	res := singleinstance.Result{Region: region}
	if wantImage {
		png, err := screenshot.CaptureRegionPNG(region)
		if err != nil {
			return singleinstance.Result{}, err
		}
		res.PNG = png
	}
	return res, nil
}

// emit writes the capture result per the output flags.
func emit(opts cliOptions, res singleinstance.Result) error {
	if res.Cancelled {
		return fmt.Errorf("selection cancelled")
	}

	if opts.jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(regionJSON(res.Region)); err != nil {
			return err
		}
	} else if opts.rectOnly {
		fmt.Printf("%d,%d %dx%d\n", res.Region.X, res.Region.Y, res.Region.Width, res.Region.Height)
	}
	if opts.rectOnly {
		return nil
	}

	switch opts.outputPath {
	case "":
		if !opts.jsonOutput {
			fmt.Printf("%d,%d %dx%d\n", res.Region.X, res.Region.Y, res.Region.Width, res.Region.Height)
		}
		return nil
	case "-":
		_, err := os.Stdout.Write(res.PNG)
		return err
	default:
		if err := os.WriteFile(opts.outputPath, res.PNG, 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.outputPath, err)
		}
		log.Printf("wrote %s (%d bytes)", opts.outputPath, len(res.PNG))
		return nil
	}
}

type rectOut struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func regionJSON(r geom.Rect) rectOut {
	return rectOut{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
