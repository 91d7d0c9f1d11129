// Command pagedb-cli is a small REPL for exercising the buffer pool and
// record store against a real on-disk file, in the same bufio/os style
// as the teacher's own demo binaries.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pagedb/pkg/block"
	"pagedb/pkg/bufferpool"
	"pagedb/pkg/config"
	"pagedb/pkg/logging"
	"pagedb/pkg/metrics"
	"pagedb/pkg/page"
	"pagedb/pkg/recordstore"
)

func main() {
	configPath := flag.String("config", "", "path to a pagedb ini config file")
	useCache := flag.Bool("cache", false, "wrap the file provider in a ristretto read-through cache")
	ephemeral := flag.Bool("ephemeral", false, "use an in-memory provider instead of a file")
	flag.Parse()

	if err := logging.InitProduction(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logging.L().Fatal("failed to load config", zap.Error(err))
		}
		cfg = loaded
	}

	sessionID := uuid.New().String()
	logging.L().Info("pagedb-cli starting",
		zap.String("session_id", sessionID),
		zap.Int("pool_capacity", cfg.PoolCapacity),
		zap.Uint64("page_size", cfg.PageSize))

	provider, closeProvider, err := buildProvider(cfg, *ephemeral, *useCache)
	if err != nil {
		logging.L().Fatal("failed to build block provider", zap.Error(err))
	}
	defer closeProvider()

	reg := metrics.New()
	mgr, err := bufferpool.NewManager(cfg.PoolCapacity, page.Size(cfg.PageSize), provider,
		bufferpool.WithLogger(logging.L()), bufferpool.WithMetrics(reg))
	if err != nil {
		logging.L().Fatal("failed to build buffer pool", zap.Error(err))
	}
	defer mgr.Close()

	runREPL(mgr)
}

func buildProvider(cfg config.Config, ephemeral, useCache bool) (block.Provider, func() error, error) {
	pageSize := page.Size(cfg.PageSize)

	if ephemeral {
		return block.NewMemoryProvider(pageSize), func() error { return nil }, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, err
	}
	fp, err := block.OpenFileProvider(filepath.Join(cfg.DataDir, "pages.db"), pageSize)
	if err != nil {
		return nil, nil, err
	}

	if !useCache {
		return fp, fp.Close, nil
	}

	cached, err := block.NewCachedProvider(fp, int64(cfg.PoolCapacity*4), pageSize)
	if err != nil {
		fp.Close()
		return nil, nil, err
	}
	return cached, func() error {
		cached.Close()
		return fp.Close()
	}, nil
}

// runREPL drives a bufio.Scanner loop over stdin, matching the teacher's
// own command-line demo style rather than reaching for a flag/cobra CLI
// framework (the whole retrieval pack builds its demo entry points this
// way).
func runREPL(mgr *bufferpool.Manager) {
	fmt.Println("pagedb-cli — commands: alloc, put <page_id> <text>, get <page_id> <slot>, flush <page_id>, flushall, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "alloc":
			pp, err := mgr.NewPinnedPage()
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("allocated page", pp.ID())
			pp.Release()

		case "put":
			if len(fields) < 3 {
				fmt.Println("usage: put <page_id> <text>")
				continue
			}
			id, err := parsePageID(fields[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			data := []byte(strings.Join(fields[2:], " "))
			handle, err := recordstore.AddRecord(mgr, id, data)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("stored at page=%d slot=%d offset=%d size=%d\n",
				handle.PageID, handle.SlotIndex, handle.Offset, handle.Size)

		case "get":
			if len(fields) < 3 {
				fmt.Println("usage: get <page_id> <slot>")
				continue
			}
			id, err := parsePageID(fields[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			slot, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			pp, err := mgr.PinPage(id)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			handle, err := recordstore.GetRecord(pp, page.Size(slot))
			if err != nil {
				pp.Release()
				fmt.Println("error:", err)
				continue
			}
			out := make([]byte, handle.Size)
			if err := recordstore.ReadRecordByHandle(pp, handle, out); err != nil {
				pp.Release()
				fmt.Println("error:", err)
				continue
			}
			pp.Release()
			fmt.Printf("%q\n", out)

		case "flush":
			if len(fields) < 2 {
				fmt.Println("usage: flush <page_id>")
				continue
			}
			id, err := parsePageID(fields[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if err := mgr.FlushPage(id); err != nil {
				fmt.Println("error:", err)
			}

		case "flushall":
			if err := mgr.FlushFreePages(); err != nil {
				fmt.Println("error:", err)
			}

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func parsePageID(s string) (page.PageID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return page.PageID(v), nil
}
