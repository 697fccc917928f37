// Package main is the entry point for quicd, a UDP worker pool that
// parses QUIC Initial packets and a companion client for sending them.
package main

import (
	"context"
	"os"

	"github.com/nilsen/quicd/cmd/quicclient"
	"github.com/nilsen/quicd/cmd/quicd"
	"github.com/nilsen/quicd/cmd/version"
	"github.com/nilsen/quicd/pkg/log"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:        "quicd",
		Description: "QUIC Initial-packet worker pool and interop client",
		Commands: []*cli.Command{
			quicd.GetCommand(),
			quicclient.GetCommand(),
			version.GetCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger := log.NewLogger(false)
		logger.ErrorMsg("run: %s", err)
		os.Exit(1)
	}
}
