// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Session tuning flags
	cmdTimeout  time.Duration
	chunkSize   int
	capturePath string

	configPath string
	verbose    bool

	// log is replaced with a console logger before any command runs.
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "edlink",
	Short: "EverDrive-64 USB utility",
	Long: `edlink - upload, inspect and debug an EverDrive-64 flash cartridge over USB.

Provides commands for loading ROM images, reading and writing cartridge
memory, and following the UNFLoader-style debug stream from running homebrew.

Connection modes:
  Serial:    --port /dev/ttyUSB0 (omit to autodetect the cartridge)
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the EDLINK_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			Level(level).
			With().Timestamp().Logger()

		return applyConfigFile(cmd)
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device (default: autodetect)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Session tuning
	rootCmd.PersistentFlags().DurationVar(&cmdTimeout, "timeout", 2*time.Second, "Per-command response timeout")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk", 0, "Transfer chunk size in bytes (0 = protocol maximum)")
	rootCmd.PersistentFlags().StringVar(&capturePath, "capture", "", "Record raw wire traffic to this file")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $HOME/.config/edlink/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
