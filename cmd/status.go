// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the cartridge and report its state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	session, info, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	st, err := session.Status()
	if err != nil {
		return err
	}

	fmt.Printf("Connection: %s\n", info)
	if st.Ready {
		fmt.Println("Cartridge:  ready")
	} else {
		fmt.Printf("Cartridge:  fault (code 0x%02X)\n", st.Code)
	}
	return nil
}
