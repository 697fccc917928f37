// Package quicclient implements the quicclient command: it builds a
// wire-valid QUIC Initial datagram and sends it to a target, for
// interop testing against the quicd server or any other Initial-packet
// processor.
package quicclient

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/nilsen/quicd/cmd/shared"
	"github.com/nilsen/quicd/pkg/log"
	"github.com/nilsen/quicd/pkg/quic"

	"github.com/urfave/cli/v3"
)

var defaultClientHello = []byte("quicclient placeholder ClientHello")

// GetCommand returns the CLI command for sending a single QUIC Initial
// datagram to a target.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "send",
		Usage:       "Send a QUIC Initial packet to a target",
		Description: "Builds a padded, header-protected Initial datagram and sends it over UDP.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			verbose := cmd.Bool(shared.VerboseFlag) || cmd.Bool(shared.DebugFlag)
			logger := log.NewLogger(verbose).Debug(cmd.Bool(shared.DebugFlag))

			args := cmd.Args()
			if args.Len() != 1 {
				return fmt.Errorf("must provide exactly one argument (host:port), got %d (%s)", args.Len(), strings.Join(args.Slice(), ", "))
			}
			target := args.Get(0)

			clientHello := defaultClientHello
			if path := cmd.String(shared.ClientHelloFlag); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading client-hello file: %w", err)
				}
				clientHello = data
			}

			client := quic.NewClient(target, logger)
			client.SetSeed(cmd.String(shared.SeedFlag))
			client.OnOpen(func(c *quic.Connection) {
				logger.VerboseMsg("opened local connection state %s", c)
			})

			datagram, err := client.BuildInitialDatagram(clientHello)
			if err != nil {
				return fmt.Errorf("building initial datagram: %w", err)
			}

			conn, err := dialUDP(target)
			if err != nil {
				return fmt.Errorf("dialing %s: %w", target, err)
			}
			defer conn.Close()

			if _, err := conn.Write(datagram); err != nil {
				return fmt.Errorf("sending datagram: %w", err)
			}

			logger.InfoMsg("sent %d-byte Initial datagram to %s", len(datagram), target)
			return nil
		},
		Flags: getFlags(),
	}
}

func dialUDP(target string) (net.Conn, error) {
	return net.Dial("udp", target)
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetClientFlags()...)

	return flags
}
