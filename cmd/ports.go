// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports and flag the cartridge",
	Long: `Enumerate the USB serial ports on this machine.

The EverDrive-64 shows up as an FTDI FT232 bridge (VID 0403, PID 6001);
matching ports are marked. Use this when autodetection picks the wrong
device and you need a value for --port.`,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return fmt.Errorf("enumerate serial ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}

	for _, p := range ports {
		switch {
		case !p.IsUSB:
			fmt.Printf("%s\n", p.Name)
		case p.VID == "0403" && p.PID == "6001":
			fmt.Printf("%s  [%s:%s]  <- EverDrive\n", p.Name, p.VID, p.PID)
		default:
			fmt.Printf("%s  [%s:%s]  %s\n", p.Name, p.VID, p.PID, p.Product)
		}
	}
	return nil
}
