// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// config.toml key mapping. Every key corresponds to a persistent flag;
// flags given on the command line win over the file.
type fileConfig struct {
	Port        string `toml:"port"`
	URL         string `toml:"url"`
	Username    string `toml:"username"`
	NoSSLVerify bool   `toml:"no_ssl_verify"`
	Timeout     string `toml:"timeout"`
	Chunk       int    `toml:"chunk"`
	Capture     string `toml:"capture"`
}

// defaultConfigPath returns the conventional config location, or ""
// when the home directory cannot be determined.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "edlink", "config.toml")
}

// applyConfigFile overlays settings from the TOML config file onto the
// flag variables. Only keys present in the file are applied, and only
// when the matching flag was not set explicitly. A missing default
// config file is fine; a missing --config file is an error.
func applyConfigFile(cmd *cobra.Command) error {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load config %s: %w", path, err)
	}

	flags := cmd.Flags()

	if meta.IsDefined("port") && !flags.Changed("port") {
		portName = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("url") && !flags.Changed("url") {
		wsURL = strings.TrimSpace(raw.URL)
	}
	if meta.IsDefined("username") && !flags.Changed("username") {
		wsUsername = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("no_ssl_verify") && !flags.Changed("no-ssl-verify") {
		wsNoSSLVerify = raw.NoSSLVerify
	}
	if meta.IsDefined("timeout") && !flags.Changed("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("config %s: bad timeout: %w", path, err)
		}
		cmdTimeout = d
	}
	if meta.IsDefined("chunk") && !flags.Changed("chunk") {
		chunkSize = raw.Chunk
	}
	if meta.IsDefined("capture") && !flags.Changed("capture") {
		capturePath = strings.TrimSpace(raw.Capture)
	}

	log.Debug().Str("path", path).Msg("applied config file")
	return nil
}
