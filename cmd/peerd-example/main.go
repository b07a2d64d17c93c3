// Command peerd-example is a small daemon showing how applications
// persist their caches with the flatdb package.
//
// It keeps an address-book style peer cache and a fulfilled-request
// cache, loads both from disk at startup, mutates them over time, and
// dumps them back to disk periodically and on shutdown. The files it
// writes can be examined with flatdb-inspect.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/flatdb/flatdb-go/pkg/flatdb"
	"github.com/flatdb/flatdb-go/pkg/fulfilled"
	"github.com/flatdb/flatdb-go/pkg/network"
	"github.com/flatdb/flatdb-go/pkg/peercache"
)

// Config holds the daemon configuration.
type Config struct {
	StateDir     string
	Network      string
	Manifest     string
	PeerTTL      time.Duration
	DumpInterval time.Duration
	Reset        bool
	Debug        bool
}

var (
	config Config

	peerStore      *flatdb.Store[peercache.Cache, *peercache.Cache]
	fulfilledStore *flatdb.Store[fulfilled.Cache, *fulfilled.Cache]

	peers    *peercache.Cache
	requests *fulfilled.Cache
)

func init() {
	flag.StringVar(&config.StateDir, "state-dir", "", "Directory for persistent state (default: ~/.peerd-example)")
	flag.StringVar(&config.Network, "network", "mainnet", "Network to join (mainnet, testnet, devnet, ...)")
	flag.StringVar(&config.Manifest, "manifest", "", "Extra network manifest file")
	flag.DurationVar(&config.PeerTTL, "peer-ttl", peercache.DefaultTTL, "Drop peers not seen for this long")
	flag.DurationVar(&config.DumpInterval, "dump-interval", 30*time.Second, "How often to dump state to disk")
	flag.BoolVar(&config.Reset, "reset", false, "Clear persisted state before starting")
	flag.BoolVar(&config.Debug, "debug", false, "Enable debug logging")
}

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	log.Println("Peer Cache Example Daemon")
	log.Println("=========================")

	stateDir, err := resolveStateDir(config.StateDir)
	if err != nil {
		log.Fatalf("Failed to resolve state directory: %v", err)
	}
	log.Printf("Using state directory: %s", stateDir)

	if config.Manifest != "" {
		if _, err := network.LoadManifest(config.Manifest); err != nil {
			log.Fatalf("Failed to load network manifest: %v", err)
		}
	}

	nw, err := network.Lookup(config.Network)
	if err != nil {
		log.Fatalf("Unknown network: %v", err)
	}
	log.Printf("Network: %s (%s)", nw.Name, nw.Magic)

	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	peerStore, err = flatdb.New[peercache.Cache](flatdb.Config{
		Dir:      stateDir,
		Filename: "peers.dat",
		Tag:      "peercache-v1",
		Magic:    nw.Magic,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create peer store: %v", err)
	}

	fulfilledStore, err = flatdb.New[fulfilled.Cache](flatdb.Config{
		Dir:      stateDir,
		Filename: "fulfilled.dat",
		Tag:      "fulfilled-v1",
		Magic:    nw.Magic,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create fulfilled-request store: %v", err)
	}

	if config.Reset {
		log.Println("Resetting persisted state...")
		for _, path := range []string{peerStore.Path(), fulfilledStore.Path()} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("Warning: failed to remove %s: %v", path, err)
			}
		}
	}

	peers = peercache.New(config.PeerTTL)
	requests = fulfilled.New()

	// A missing or partly written file starts us fresh; anything
	// worse means the file needs attention, so stop rather than
	// silently overwrite it.
	if err := peerStore.Load(peers); err != nil {
		log.Fatalf("Unusable peer cache file: %v", err)
	}
	if err := fulfilledStore.Load(requests); err != nil {
		log.Fatalf("Unusable fulfilled-request file: %v", err)
	}
	log.Printf("Loaded %d peer(s), %d fulfilled request(s)", peers.Len(), requests.Len())

	churn := time.NewTicker(5 * time.Second)
	defer churn.Stop()
	dump := time.NewTicker(config.DumpInterval)
	defer dump.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	nextHost := 1
	for {
		select {
		case <-churn.C:
			addr := fmt.Sprintf("192.0.2.%d:9735", nextHost%254+1)
			nextHost++
			p := peers.Add(addr)
			requests.AddFulfilled("handshake/"+p.ID, time.Hour)
			log.Printf("Added peer %s at %s (%d peers total)", p.ID[:8], addr, peers.Len())

		case <-dump.C:
			dumpState()

		case sig := <-sigCh:
			log.Printf("Received signal: %v", sig)
			log.Println("Saving state...")
			dumpState()
			log.Println("Goodbye!")
			return
		}
	}
}

// resolveStateDir falls back to a dot directory under the user's home
// when no explicit state directory is given.
func resolveStateDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".peerd-example"), nil
}

func dumpState() {
	if err := peerStore.Dump(peers); err != nil {
		log.Printf("Warning: failed to dump peer cache: %v", err)
		return
	}
	if err := fulfilledStore.Dump(requests); err != nil {
		log.Printf("Warning: failed to dump fulfilled requests: %v", err)
		return
	}
	log.Printf("Dumped state: %d peer(s), %d fulfilled request(s)", peers.Len(), requests.Len())
}
