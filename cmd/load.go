// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ed64dev/edlink/pkg/edlink"
	"github.com/ed64dev/edlink/pkg/edproto"
)

var (
	loadBase     string
	loadSaveType string
	loadRegion   string
	loadBoot     bool
	loadSaveName string
)

var loadCmd = &cobra.Command{
	Use:   "load <rom-file>",
	Short: "Upload a ROM image to the cartridge",
	Long: `Upload a ROM image into the cartridge's ROM space.

Byte-swapped and little-endian images are detected from the header and
converted on the fly; images without a recognizable header are treated
as emulator payloads and placed at the emulator base. With --save-type
the image header is patched so the EverDrive OS provisions the matching
save hardware. --boot starts the image immediately after the upload:

  edlink load --save-type sram --boot game.z64`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadBase, "base", "", "Override the upload base address")
	loadCmd.Flags().StringVar(&loadSaveType, "save-type", "", "Save hardware: eeprom4k, eeprom16k, sram, sram768k, flashram, sram128k")
	loadCmd.Flags().StringVar(&loadRegion, "region", "none", "RTC/region code: none, rtc, free, all")
	loadCmd.Flags().BoolVar(&loadBoot, "boot", false, "Boot the image after uploading")
	loadCmd.Flags().StringVar(&loadSaveName, "save-name", "", "Save file name passed at boot (with --boot)")
	rootCmd.AddCommand(loadCmd)
}

func parseSaveType(s string) (byte, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return edproto.SaveNone, nil
	case "eeprom4k":
		return edproto.SaveEeprom4K, nil
	case "eeprom16k":
		return edproto.SaveEeprom16, nil
	case "sram":
		return edproto.SaveSram, nil
	case "sram768k":
		return edproto.SaveSram768K, nil
	case "flashram":
		return edproto.SaveFlashRAM, nil
	case "sram128k":
		return edproto.SaveSram128K, nil
	default:
		return 0, fmt.Errorf("unknown save type %q", s)
	}
}

func parseRegion(s string) (byte, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return edproto.RegionNone, nil
	case "rtc":
		return edproto.RegionRTC, nil
	case "free":
		return edproto.RegionFree, nil
	case "all":
		return edproto.RegionAll, nil
	default:
		return 0, fmt.Errorf("unknown region code %q", s)
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	saveType, err := parseSaveType(loadSaveType)
	if err != nil {
		return err
	}
	region, err := parseRegion(loadRegion)
	if err != nil {
		return err
	}

	var base uint32
	if loadBase != "" {
		base, err = parseAddr(loadBase, edlink.SpaceROM)
		if err != nil {
			return err
		}
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

	opts := &edlink.LoadOptions{
		BaseAddr: base,
		SaveType: saveType,
		Region:   region,
	}
	if err := session.LoadROM(data, opts); err != nil {
		return err
	}
	log.Info().Int("bytes", len(data)).Msg("upload complete")

	if loadBoot {
		if err := session.Boot(loadSaveName); err != nil {
			return err
		}
		log.Info().Msg("booted")
	}
	return nil
}
