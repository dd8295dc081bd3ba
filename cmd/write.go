// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	writeSpace string
	writeAddr  string
)

var writeCmd = &cobra.Command{
	Use:   "write <file>",
	Short: "Write a file into cartridge memory",
	Long: `Write the contents of a file into cartridge memory.

The transfer happens in 512-byte device blocks; a file that does not end
on a block boundary has the final block padded with 0xFF. Restoring a
save file:

  edlink write --space sram save.srm`,
	Args: cobra.ExactArgs(1),
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().StringVar(&writeSpace, "space", "rom", "Memory space (rom or sram)")
	writeCmd.Flags().StringVar(&writeAddr, "addr", "", "Start address (default: space base)")
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	space, err := parseSpace(writeSpace)
	if err != nil {
		return err
	}
	addr, err := parseAddr(writeAddr, space)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	session, _, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.Write(space, addr, data); err != nil {
		return err
	}
	log.Info().Int("bytes", len(data)).Str("space", space.String()).Msg("write complete")
	return nil
}
