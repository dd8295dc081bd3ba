// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ed64dev/edlink/pkg/unf"
)

var debugOutDir string

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Follow the debug stream from running homebrew",
	Long: `Continuously decode and display UNFLoader-style debug packets sent by
homebrew running on the console.

Text packets print to stdout as they arrive. Binary and screenshot
payloads are written to files under --out-dir. Boot an image first, for
example with 'edlink load --boot'.

Supports both serial and WebSocket connections.`,
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().StringVar(&debugOutDir, "out-dir", ".", "Directory for binary and screenshot payloads")
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	stream, info, cleanup, err := openStream(time.Second)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Connection: %s\n", info)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	saved := 0
	for {
		pkt, err := unf.ReadPacket(stream)
		if err != nil {
			// Framing loss on a live stream is fatal: without the magic
			// word there is no way to resynchronize mid-session.
			return err
		}

		switch pkt.Type {
		case unf.TypeText:
			fmt.Print(string(pkt.Data))

		case unf.TypeHeartbeat:
			hb, err := unf.ParseHeartbeat(pkt.Data)
			if err != nil {
				log.Warn().Err(err).Msg("bad heartbeat payload")
				continue
			}
			log.Debug().
				Uint16("protocol", hb.ProtocolVersion).
				Uint16("heartbeat", hb.HeartbeatVersion).
				Msg("heartbeat")

		case unf.TypeBinary, unf.TypeScreenshot, unf.TypeRDBPacket:
			name := fmt.Sprintf("edlink-%s-%d.bin", time.Now().Format("150405"), saved)
			saved++
			path := filepath.Join(debugOutDir, name)
			if err := os.WriteFile(path, pkt.Data, 0o644); err != nil {
				log.Error().Err(err).Str("path", path).Msg("save payload")
				continue
			}
			log.Info().Str("type", pkt.Type.String()).Str("path", path).Int("bytes", len(pkt.Data)).Msg("saved payload")

		default:
			log.Warn().Str("type", pkt.Type.String()).Int("bytes", len(pkt.Data)).Msg("unhandled packet")
		}
	}
}
