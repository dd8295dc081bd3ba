// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ed64dev/edlink/pkg/capture"
)

var traceHexLimit int

var traceCmd = &cobra.Command{
	Use:   "trace <capture-file>",
	Short: "Pretty-print a wire capture file",
	Long: `Decode a capture file recorded with --capture and print each transfer
with its timestamp and direction. Useful for diffing sessions against a
known-good run when debugging flaky cartridge behavior.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().IntVar(&traceHexLimit, "bytes", 32, "Hex bytes shown per transfer (0 = all)")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r := capture.NewReader(f)
	for i := 0; ; i++ {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}

		data := rec.Data
		truncated := ""
		if traceHexLimit > 0 && len(data) > traceHexLimit {
			data = data[:traceHexLimit]
			truncated = fmt.Sprintf(" ... (%d bytes)", len(rec.Data))
		}
		fmt.Printf("%s %s % X%s\n", rec.T.Format("15:04:05.000"), rec.Dir, data, truncated)
	}
}
