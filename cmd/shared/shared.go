// Package shared provides common CLI flag definitions and utility
// functions used across quicd's command-line interface.
package shared

import (
	"github.com/urfave/cli/v3"
)

const categoryCommon = "common"

// VerboseFlag is the name of the flag to enable verbose error logging.
const VerboseFlag = "verbose"

// DebugFlag is the name of the flag to enable debug-level logging.
const DebugFlag = "debug"

// WorkersFlag is the name of the flag to specify the worker pool size.
const WorkersFlag = "workers"

// GetArgsUsage returns the arguments usage string for CLI commands.
func GetArgsUsage() string {
	return "host:port"
}

// GetCommonFlags returns the common CLI flags shared by quicd and
// quicclient.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose error logging",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
		&cli.BoolFlag{
			Name:     DebugFlag,
			Aliases:  []string{"d"},
			Usage:    "Debug logging (implies verbose)",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
	}
}

const categoryServer = "server"

// RecvBufFlag is the name of the flag to specify the UDP socket
// receive-buffer size in bytes.
const RecvBufFlag = "recv-buf"

// MaxConnectionsFlag is the name of the flag to cap concurrently
// admitted connections. Zero means unlimited.
const MaxConnectionsFlag = "max-connections"

// GetServerFlags returns the CLI flags specific to the quicd daemon.
func GetServerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     WorkersFlag,
			Aliases:  []string{"w"},
			Usage:    "Number of worker goroutines sharing the listening socket",
			Category: categoryServer,
			Value:    4,
			Required: false,
		},
		&cli.IntFlag{
			Name:     RecvBufFlag,
			Usage:    "UDP socket receive-buffer size in bytes (0 keeps the default of 32768)",
			Category: categoryServer,
			Value:    0,
			Required: false,
		},
		&cli.IntFlag{
			Name:     MaxConnectionsFlag,
			Usage:    "Maximum concurrently admitted connections (0 means unlimited)",
			Category: categoryServer,
			Value:    0,
			Required: false,
		},
	}
}

const categoryClient = "client"

// ClientHelloFlag is the name of the flag pointing at a file holding
// the raw bytes to place in the CRYPTO frame of the Initial packet.
const ClientHelloFlag = "client-hello"

// SeedFlag is the name of the flag selecting a deterministic
// connection-ID generator for reproducible test runs.
const SeedFlag = "seed"

// GetClientFlags returns the CLI flags specific to quicclient.
func GetClientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     ClientHelloFlag,
			Aliases:  []string{"c"},
			Usage:    "Path to a file with the raw CRYPTO frame payload to send (defaults to a small placeholder)",
			Category: categoryClient,
			Value:    "",
			Required: false,
		},
		&cli.StringFlag{
			Name:     SeedFlag,
			Usage:    "Seed for deterministic connection-ID generation, empty means cryptographically random",
			Category: categoryClient,
			Value:    "",
			Required: false,
		},
	}
}
