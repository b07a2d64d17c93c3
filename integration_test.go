package flatdb_test

import (
	"errors"
	"testing"
	"time"

	"github.com/flatdb/flatdb-go/pkg/flatdb"
	"github.com/flatdb/flatdb-go/pkg/fulfilled"
	"github.com/flatdb/flatdb-go/pkg/network"
	"github.com/flatdb/flatdb-go/pkg/peercache"
)

// TestE2E_PersistAcrossRestart exercises the dump/load cycle the way a
// daemon would: state written by one process generation is reloaded by
// the next, and stale entries age out in between.
func TestE2E_PersistAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	nw := network.MustLookup("testnet")

	newPeerStore := func() *flatdb.Store[peercache.Cache, *peercache.Cache] {
		store, err := flatdb.New[peercache.Cache](flatdb.Config{
			Dir:      dir,
			Filename: "peers.dat",
			Tag:      "peercache-v1",
			Magic:    nw.Magic,
		})
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		return store
	}

	base := time.Unix(1700000000, 0)
	now := base
	clock := func() time.Time { return now }

	// First generation: collect peers and dump.
	peers := peercache.NewWithClock(24*time.Hour, clock)
	first := peers.Add("192.0.2.10:9735")
	peers.Add("192.0.2.11:9735")
	if err := newPeerStore().Dump(peers); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	// Second generation: a fresh cache picks the peers back up.
	reloaded := peercache.NewWithClock(24*time.Hour, clock)
	if err := newPeerStore().Load(reloaded); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("Len() = %d after reload, want 2", reloaded.Len())
	}
	got, ok := reloaded.Get(first.ID)
	if !ok {
		t.Fatalf("peer %s missing after reload", first.ID)
	}
	if got.Address != first.Address {
		t.Errorf("Address = %q, want %q", got.Address, first.Address)
	}

	// Third generation, a day later: everything has gone stale and is
	// dropped as part of loading.
	now = base.Add(25 * time.Hour)
	later := peercache.NewWithClock(24*time.Hour, clock)
	if err := newPeerStore().Load(later); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if later.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", later.Len())
	}
}

// TestE2E_MismatchedStoreRefusesLoad checks that a file written for one
// purpose cannot be loaded by a store expecting another tag or network.
func TestE2E_MismatchedStoreRefusesLoad(t *testing.T) {
	dir := t.TempDir()

	write, err := flatdb.New[peercache.Cache](flatdb.Config{
		Dir:      dir,
		Filename: "peers.dat",
		Tag:      "peercache-v1",
		Magic:    network.MustLookup("testnet").Magic,
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	peers := peercache.New(24 * time.Hour)
	peers.Add("192.0.2.10:9735")
	if err := write.Write(peers); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	cases := []struct {
		name  string
		tag   string
		netwk string
	}{
		{name: "wrong network", tag: "peercache-v1", netwk: "mainnet"},
		{name: "wrong tag", tag: "fulfilled-v1", netwk: "testnet"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := flatdb.New[peercache.Cache](flatdb.Config{
				Dir:      dir,
				Filename: "peers.dat",
				Tag:      tc.tag,
				Magic:    network.MustLookup(tc.netwk).Magic,
			})
			if err != nil {
				t.Fatalf("Failed to create store: %v", err)
			}

			fresh := peercache.New(24 * time.Hour)
			if err := store.Load(fresh); !errors.Is(err, flatdb.ErrUnusableFile) {
				t.Fatalf("Load error = %v, want ErrUnusableFile", err)
			}
			if fresh.Len() != 0 {
				t.Errorf("Len() = %d, want 0", fresh.Len())
			}
		})
	}
}

// TestE2E_InspectDumpedFiles checks that files dumped by the two cache
// types are distinguishable by header without decoding them.
func TestE2E_InspectDumpedFiles(t *testing.T) {
	dir := t.TempDir()
	nw := network.MustLookup("devnet")

	peerStore, err := flatdb.New[peercache.Cache](flatdb.Config{
		Dir:      dir,
		Filename: "peers.dat",
		Tag:      "peercache-v1",
		Magic:    nw.Magic,
	})
	if err != nil {
		t.Fatalf("Failed to create peer store: %v", err)
	}
	fulfilledStore, err := flatdb.New[fulfilled.Cache](flatdb.Config{
		Dir:      dir,
		Filename: "fulfilled.dat",
		Tag:      "fulfilled-v1",
		Magic:    nw.Magic,
	})
	if err != nil {
		t.Fatalf("Failed to create fulfilled store: %v", err)
	}

	peers := peercache.New(24 * time.Hour)
	peers.Add("192.0.2.10:9735")
	if err := peerStore.Dump(peers); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	requests := fulfilled.New()
	requests.AddFulfilled("handshake/abc", time.Hour)
	if err := fulfilledStore.Dump(requests); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	files := []struct {
		path string
		tag  string
	}{
		{path: peerStore.Path(), tag: "peercache-v1"},
		{path: fulfilledStore.Path(), tag: "fulfilled-v1"},
	}
	for _, f := range files {
		info, err := flatdb.Inspect(f.path)
		if err != nil {
			t.Fatalf("Inspect(%s) failed: %v", f.path, err)
		}
		if info.StoreTag != f.tag {
			t.Errorf("StoreTag = %q, want %q", info.StoreTag, f.tag)
		}
		if info.Magic != nw.Magic {
			t.Errorf("Magic = %v, want %v", info.Magic, nw.Magic)
		}
		if !info.ChecksumOK {
			t.Errorf("ChecksumOK = false for %s", f.path)
		}
	}
}
