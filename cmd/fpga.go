// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fpgaCmd = &cobra.Command{
	Use:   "fpga <image-file>",
	Short: "Upload an FPGA configuration image",
	Long: `Upload an FPGA configuration image to the cartridge. Some cores and
OS features reconfigure the FPGA at runtime; this streams the raw
bitstream and waits for the device to confirm configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runFpga,
}

func init() {
	rootCmd.AddCommand(fpgaCmd)
}

func runFpga(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	session, _, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.InitFPGA(data); err != nil {
		return err
	}
	log.Info().Int("bytes", len(data)).Msg("fpga configured")
	return nil
}
