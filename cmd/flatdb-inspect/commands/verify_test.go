package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flatdb/flatdb-go/pkg/flatdb"
	"github.com/flatdb/flatdb-go/pkg/fulfilled"
	"github.com/flatdb/flatdb-go/pkg/network"
)

// createStoreFile writes a small fulfilled-request store file and
// returns its path.
func createStoreFile(t *testing.T, tag, netName string) string {
	t.Helper()

	store, err := flatdb.New[fulfilled.Cache](flatdb.Config{
		Dir:      t.TempDir(),
		Filename: "requests.dat",
		Tag:      tag,
		Magic:    network.MustLookup(netName).Magic,
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	cache := fulfilled.New()
	cache.AddFulfilled("request-1", time.Hour)
	cache.AddFulfilled("request-2", time.Hour)
	if err := store.Write(cache); err != nil {
		t.Fatalf("failed to write store file: %v", err)
	}
	return store.Path()
}

// flipPayloadByte corrupts the last payload byte, leaving the header
// parseable.
func flipPayloadByte(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	data[len(data)-flatdb.ChecksumSize-1] ^= 0xff
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestVerifyReportsHeader(t *testing.T) {
	path := createStoreFile(t, "fulfilled-v1", "testnet")

	var buf bytes.Buffer
	if err := RunVerify(path, VerifyOptions{}, &buf); err != nil {
		t.Fatalf("RunVerify failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "fulfilled-v1") {
		t.Error("expected store tag in output")
	}
	if !strings.Contains(output, "testnet") {
		t.Error("expected network name in output")
	}
	if !strings.Contains(output, "Checksum: OK") {
		t.Error("expected checksum OK in output")
	}
	if !strings.Contains(output, "Verified.") {
		t.Error("expected verification confirmation in output")
	}
}

func TestVerifyChecksumMismatch(t *testing.T) {
	path := createStoreFile(t, "fulfilled-v1", "testnet")
	flipPayloadByte(t, path)

	var buf bytes.Buffer
	err := RunVerify(path, VerifyOptions{}, &buf)
	if err == nil {
		t.Fatal("RunVerify should fail on a corrupt file")
	}
	if !strings.Contains(err.Error(), "checksum") {
		t.Errorf("error = %v, want checksum mismatch", err)
	}
	if !strings.Contains(buf.String(), "MISMATCH") {
		t.Error("expected MISMATCH in output")
	}
}

func TestVerifyExpectedTag(t *testing.T) {
	path := createStoreFile(t, "fulfilled-v1", "testnet")

	var buf bytes.Buffer
	if err := RunVerify(path, VerifyOptions{Tag: "fulfilled-v1"}, &buf); err != nil {
		t.Fatalf("RunVerify with matching tag failed: %v", err)
	}

	buf.Reset()
	err := RunVerify(path, VerifyOptions{Tag: "peercache-v1"}, &buf)
	if err == nil {
		t.Fatal("RunVerify should fail on tag mismatch")
	}
	if !strings.Contains(err.Error(), "peercache-v1") {
		t.Errorf("error = %v, want expected tag named", err)
	}
}

func TestVerifyExpectedNetwork(t *testing.T) {
	path := createStoreFile(t, "fulfilled-v1", "testnet")

	var buf bytes.Buffer
	if err := RunVerify(path, VerifyOptions{Network: "testnet"}, &buf); err != nil {
		t.Fatalf("RunVerify with matching network failed: %v", err)
	}

	buf.Reset()
	if err := RunVerify(path, VerifyOptions{Network: "mainnet"}, &buf); err == nil {
		t.Fatal("RunVerify should fail on network mismatch")
	}

	buf.Reset()
	if err := RunVerify(path, VerifyOptions{Network: "no-such-net"}, &buf); err == nil {
		t.Fatal("RunVerify should fail on an unregistered network name")
	}
}

func TestVerifyMissingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "absent.dat")
	if err := RunVerify(path, VerifyOptions{}, &buf); err == nil {
		t.Fatal("RunVerify should fail on a missing file")
	}
}
