// Package cli is the hotelctl command tree. Commands run against the local
// store by default, or against a running hotel service with --server.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hotelier/internal/hotel/bootstrap"
	"hotelier/internal/hotel/service"
	"hotelier/pkg/client"
	"hotelier/pkg/config"
	"hotelier/pkg/logger"
)

const ServiceName = "hotelctl"

var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// Connector opens the service a command runs against. The returned func
// releases it.
type Connector func(ctx context.Context, cmd *cobra.Command) (service.HotelService, func(), error)

type options struct {
	server  string
	verbose bool
	connect Connector
}

type Option func(*options)

// WithConnector replaces how commands obtain the service.
func WithConnector(c Connector) Option {
	return func(o *options) {
		o.connect = c
	}
}

func NewRoot(opts ...Option) *cobra.Command {
	o := &options{}
	o.connect = o.defaultConnect
	for _, opt := range opts {
		opt(o)
	}

	cmd := &cobra.Command{
		Use:           ServiceName,
		Short:         "Manage hotel rooms and bookings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&o.server, "server", "", "base URL of a running hotel service (default: use local storage)")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(newRoomsCmd(o))
	cmd.AddCommand(newBookCmd(o))
	cmd.AddCommand(newAvailableCmd(o))
	cmd.AddCommand(newBookingsCmd(o))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func (o *options) defaultConnect(ctx context.Context, cmd *cobra.Command) (service.HotelService, func(), error) {
	if o.server != "" {
		return client.NewHotelClient(o.server), func() {}, nil
	}

	envFile := os.Getenv(config.EnvFile)
	if envFile == "" {
		envFile = config.DefaultEnvFile
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg := config.FromEnv(ServiceName)
	level := logger.ERROR
	if o.verbose {
		level = logger.DEBUG
	}
	cfg.Log = logger.New(logger.Config{
		Level:   level,
		Format:  logger.TEXT,
		Output:  cmd.ErrOrStderr(),
		Service: ServiceName,
	})
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	h, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return h.Service, func() {
		if err := h.Close(context.Background()); err != nil {
			cfg.Log.Error("Failed to close hotel", "error", err)
		}
	}, nil
}

// run opens the service, runs fn and always releases the service.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, svc service.HotelService) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := o.connect(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, svc)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit=%s, built=%s)\n", ServiceName, Version, CommitSHA, BuildDate)
		},
	}
}
