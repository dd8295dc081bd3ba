// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ed64dev/edlink/pkg/edlink"
)

var (
	fillAddr   string
	fillLength string
	fillValue  string
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill a ROM region with a constant byte",
	Long: `Fill a region of ROM space with a constant byte, executed on the
device itself so no bulk transfer crosses the USB link. Lengths round up
to the 512-byte device block.`,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVar(&fillAddr, "addr", "", "Start address (default: ROM base)")
	fillCmd.Flags().StringVar(&fillLength, "length", "", "Byte count (K/M suffixes accepted)")
	fillCmd.Flags().StringVar(&fillValue, "value", "0", "Fill byte")
	fillCmd.MarkFlagRequired("length")
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
	addr, err := parseAddr(fillAddr, edlink.SpaceROM)
	if err != nil {
		return err
	}
	length, err := parseSize(fillLength)
	if err != nil {
		return err
	}
	value, err := strconv.ParseUint(fillValue, 0, 8)
	if err != nil {
		return fmt.Errorf("bad fill value %q: %v", fillValue, err)
	}

	session, _, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.Fill(addr, length, byte(value)); err != nil {
		return err
	}
	log.Info().Int("bytes", length).Msg("fill complete")
	return nil
}
