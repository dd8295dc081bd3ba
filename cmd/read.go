// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	readSpace  string
	readAddr   string
	readLength string
	readOut    string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read cartridge memory",
	Long: `Read a range of cartridge memory.

Without --out the data is shown as a hex dump; with --out it is written
to the named file. Dumping save RAM:

  edlink read --space sram --length 32K --out save.srm`,
	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVar(&readSpace, "space", "rom", "Memory space (rom or sram)")
	readCmd.Flags().StringVar(&readAddr, "addr", "", "Start address (default: space base)")
	readCmd.Flags().StringVar(&readLength, "length", "256", "Byte count (K/M suffixes accepted)")
	readCmd.Flags().StringVarP(&readOut, "out", "o", "", "Write data to this file instead of dumping")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	space, err := parseSpace(readSpace)
	if err != nil {
		return err
	}
	addr, err := parseAddr(readAddr, space)
	if err != nil {
		return err
	}
	length, err := parseSize(readLength)
	if err != nil {
		return err
	}

	session, _, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := session.Read(space, addr, length)
	if err != nil {
		return err
	}

	if readOut != "" {
		if err := os.WriteFile(readOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", readOut, err)
		}
		log.Info().Str("path", readOut).Int("bytes", len(data)).Msg("saved")
		return nil
	}

	hexdump(addr, data)
	return nil
}
