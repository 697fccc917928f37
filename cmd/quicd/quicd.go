// Package quicd implements the quicd server command: a UDP worker pool
// running the QUIC Initial-packet processing core and reporting every
// newly admitted connection.
package quicd

import (
	"context"
	"fmt"

	"github.com/nilsen/quicd/cmd/shared"
	"github.com/nilsen/quicd/pkg/config"
	"github.com/nilsen/quicd/pkg/log"
	"github.com/nilsen/quicd/pkg/quic"

	"github.com/urfave/cli/v3"
)

const categoryBind = "bind"

const hostFlag = "host"
const portFlag = "port"

// GetCommand returns the CLI command for running the quicd server.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Run the QUIC Initial-packet server",
		Description: "Binds a UDP worker pool and admits connections from valid QUIC Initial packets.",
		Action: func(parent context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithCancel(parent)
			defer cancel()

			shared.SetupSignalHandling(cancel)

			verbose := cmd.Bool(shared.VerboseFlag) || cmd.Bool(shared.DebugFlag)
			logger := log.NewLogger(verbose).Debug(cmd.Bool(shared.DebugFlag))

			cfg := config.NewServer(cmd.String(hostFlag), cmd.Int(portFlag))
			cfg.Workers = cmd.Int(shared.WorkersFlag)
			cfg.Verbose = verbose
			cfg.Debug = cmd.Bool(shared.DebugFlag)
			cfg.Logger = logger

			if buf := cmd.Int(shared.RecvBufFlag); buf > 0 {
				cfg.RecvBufSize = buf
			}
			cfg.MaxConnections = cmd.Int(shared.MaxConnectionsFlag)

			if errs := cfg.Validate(); len(errs) > 0 {
				logger.ErrorMsg("Argument validation errors:")
				for _, err := range errs {
					logger.ErrorMsg(" - %s", err)
				}
				return fmt.Errorf("exiting")
			}

			addr := cfg.Addr()
			s := quic.NewServer(addr, cfg)
			s.OnConnection(func(c *quic.Connection) {
				logger.InfoMsg("admitted connection %s", c)
			})

			logger.InfoMsg("listening on %s with %d worker(s)", addr, cfg.Workers)

			if err := s.Start(cfg.Workers); err != nil {
				return fmt.Errorf("starting server: %w", err)
			}
			defer s.Stop()

			<-ctx.Done()
			logger.InfoMsg("shutting down, processed %d datagram(s) total", s.TotalProcessed())
			return nil
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     hostFlag,
			Usage:    "Local interface, leave empty for all interfaces",
			Category: categoryBind,
			Value:    "",
			Required: false,
		},
		&cli.IntFlag{
			Name:     portFlag,
			Aliases:  []string{"p"},
			Usage:    "Local UDP port",
			Category: categoryBind,
			Required: true,
		},
	}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetServerFlags()...)

	return flags
}
