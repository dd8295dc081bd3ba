// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// resetFlags restores the shared flag state a config test mutates.
func resetFlags(t *testing.T) {
	t.Helper()

	savedPort, savedURL, savedUser := portName, wsURL, wsUsername
	savedVerify := wsNoSSLVerify
	savedTimeout, savedChunk, savedCapture := cmdTimeout, chunkSize, capturePath
	savedConfig := configPath

	t.Cleanup(func() {
		portName, wsURL, wsUsername = savedPort, savedURL, savedUser
		wsNoSSLVerify = savedVerify
		cmdTimeout, chunkSize, capturePath = savedTimeout, savedChunk, savedCapture
		configPath = savedConfig
	})
}

func TestApplyConfigFile_AllKeys(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
port = "/dev/ttyUSB7"
url = "wss://bridge.local/ed64"
username = "operator"
no_ssl_verify = true
timeout = "5s"
chunk = 4096
capture = "/tmp/session.cap"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configPath = path
	if err := applyConfigFile(rootCmd); err != nil {
		t.Fatalf("apply config: %v", err)
	}

	if portName != "/dev/ttyUSB7" {
		t.Errorf("port = %q", portName)
	}
	if wsURL != "wss://bridge.local/ed64" {
		t.Errorf("url = %q", wsURL)
	}
	if wsUsername != "operator" {
		t.Errorf("username = %q", wsUsername)
	}
	if !wsNoSSLVerify {
		t.Error("no_ssl_verify not applied")
	}
	if cmdTimeout != 5*time.Second {
		t.Errorf("timeout = %v", cmdTimeout)
	}
	if chunkSize != 4096 {
		t.Errorf("chunk = %d", chunkSize)
	}
	if capturePath != "/tmp/session.cap" {
		t.Errorf("capture = %q", capturePath)
	}
}

func TestApplyConfigFile_PartialKeys(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`port = "/dev/ttyACM3"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configPath = path
	wsURL = ""
	cmdTimeout = 2 * time.Second

	if err := applyConfigFile(rootCmd); err != nil {
		t.Fatalf("apply config: %v", err)
	}

	if portName != "/dev/ttyACM3" {
		t.Errorf("port = %q", portName)
	}
	// Keys absent from the file leave the flag defaults alone.
	if wsURL != "" {
		t.Errorf("url = %q, want empty", wsURL)
	}
	if cmdTimeout != 2*time.Second {
		t.Errorf("timeout = %v", cmdTimeout)
	}
}

func TestApplyConfigFile_BadTimeout(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`timeout = "soon"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configPath = path
	if err := applyConfigFile(rootCmd); err == nil {
		t.Error("expected error for unparseable timeout")
	}
}

func TestApplyConfigFile_MissingExplicitFile(t *testing.T) {
	resetFlags(t)

	configPath = filepath.Join(t.TempDir(), "nope.toml")
	if err := applyConfigFile(rootCmd); err == nil {
		t.Error("expected error for missing --config file")
	}
}
