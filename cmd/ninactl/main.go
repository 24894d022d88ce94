// ninactl is a small command-line front end for the client library:
// inspect equipment, trigger captures, and tail the event socket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/astrokit/ninaclient/config"
	"github.com/astrokit/ninaclient/events"
	"github.com/astrokit/ninaclient/logging"
	"github.com/astrokit/ninaclient/nina"
)

var (
	flagConfig  string
	flagBaseURL string
	flagLevel   string
)

func main() {
	root := &cobra.Command{
		Use:           "ninactl",
		Short:         "Command-line client for the N.I.N.A. Advanced API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL override")
	root.PersistentFlags().StringVar(&flagLevel, "log-level", "", "log level override")

	root.AddCommand(infoCmd(), captureCmd(), watchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}
	if flagLevel != "" {
		cfg.Logging.Level = flagLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return logging.NewNop()
	}
	return log
}

func newClient() (*nina.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := nina.New(cfg, nina.WithLogger(newLogger(cfg)))
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show application version and equipment state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()
			ctx := cmd.Context()

			version, err := client.Version(ctx).Value()
			if err != nil {
				return err
			}
			fmt.Println("version:", version)

			if camera, err := client.CameraInfo(ctx).Value(); err == nil {
				fmt.Printf("camera: %s connected=%v temp=%.1fC\n",
					camera.Name, camera.Connected, camera.Temperature)
			}
			if mount, err := client.MountInfo(ctx).Value(); err == nil {
				fmt.Printf("mount: %s connected=%v parked=%v tracking=%v\n",
					mount.Name, mount.Connected, mount.AtPark, mount.TrackingEnabled)
			}
			if wheel, err := client.FilterWheelInfo(ctx).Value(); err == nil {
				fmt.Printf("filterwheel: %s connected=%v filter=%s\n",
					wheel.Name, wheel.Connected, wheel.SelectedFilter.Name)
			}

			diag := client.Diagnostics()
			fmt.Printf("circuit: %s failures=%d\n", diag.CircuitState, diag.FailureCount)
			return nil
		},
	}
}

func captureCmd() *cobra.Command {
	var duration float64
	var gain int
	var solve bool

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Start an exposure",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			msg, err := client.CameraCapture(cmd.Context(), nina.CaptureOptions{
				Duration: duration,
				Gain:     gain,
				Solve:    solve,
			}).Value()
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
	cmd.Flags().Float64Var(&duration, "duration", 1.0, "exposure time in seconds")
	cmd.Flags().IntVar(&gain, "gain", 0, "camera gain (0 = camera default)")
	cmd.Flags().BoolVar(&solve, "solve", false, "plate-solve the captured frame")
	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Tail the event socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			socket := events.New(cfg.Socket, log, nil)
			defer socket.DisconnectAll()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := socket.ConnectAll(ctx); err != nil {
				// Partial failures leave healthy channels open; report and
				// keep tailing whatever connected.
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
			for name, status := range socket.StatusMap() {
				fmt.Printf("%s: %s\n", name, status)
			}

			sink, cancel := socket.Subscribe()
			defer cancel()

			for {
				select {
				case <-ctx.Done():
					return nil
				case evt, ok := <-sink:
					if !ok {
						return nil
					}
					fmt.Printf("[%s] %s %s\n",
						evt.ReceivedAt.Format("15:04:05"), evt.Channel, evt.Type)
				}
			}
		},
	}
}
