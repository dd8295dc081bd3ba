// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"github.com/spf13/cobra"
)

var bootSaveName string

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot the image currently in ROM space",
	Long: `Start the image previously uploaded into ROM space. With --save-name
the cartridge associates the named SD-card save file with the running
image. The device gives no acknowledgement: it boots away from the
command protocol immediately.`,
	RunE: runBoot,
}

func init() {
	bootCmd.Flags().StringVar(&bootSaveName, "save-name", "", "Save file name on the cartridge SD card")
	rootCmd.AddCommand(bootCmd)
}

func runBoot(cmd *cobra.Command, args []string) error {
	session, _, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.Boot(bootSaveName); err != nil {
		return err
	}
	log.Info().Msg("booted")
	return nil
}
