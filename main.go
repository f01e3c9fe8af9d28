package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/TypeTerrors/go_delta/conf"
	"github.com/TypeTerrors/go_delta/internal/tracker"
	"github.com/TypeTerrors/go_delta/internal/watcher"
	"github.com/charmbracelet/log"
	badger "github.com/dgraph-io/badger/v3"
)

func main() {
	parseFlags()

	db := initDB()
	defer db.Close()

	trk, err := tracker.NewTracker(db, conf.AppConfig.BlockSize)
	if err != nil {
		log.Fatalf("Failed to create tracker: %v", err)
	}
	if err := trk.Load(); err != nil {
		log.Fatalf("Failed to restore tracked files: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	w := watcher.NewWatcher(trk)
	if _, err := w.Start(ctx, &wg); err != nil {
		log.Fatalf("Failed to start watcher: %v", err)
	}

	// Pick up files that appeared or changed while we were down.
	w.Rescan()

	wg.Add(1)
	go w.Scan(ctx, &wg)

	waitForShutdownSignal(cancel)
	wg.Wait()

	log.Info("Application shut down gracefully.")
}

func parseFlags() {
	watchFolder := flag.String("watch-folder", "", "Folder whose files are tracked for changes (required)")
	blockSizeKB := flag.Int("block-size", 4, "Block size in kilobytes (optional)")
	dbPath := flag.String("db", "./deltadb", "Path for the snapshot database (optional)")
	rescanInterval := flag.Duration("rescan-interval", 1*time.Minute, "Interval between full folder rescans (optional)")
	refineLimitKB := flag.Int("refine-limit", 64, "Max file size in kilobytes for byte-level refinement, 0 disables (optional)")

	flag.Parse()

	if *watchFolder == "" {
		fmt.Println("Error: --watch-folder is required")
		flag.Usage()
		os.Exit(1)
	}

	blockSize := *blockSizeKB * 1024

	fmt.Printf("Watch Folder   : %s\n", *watchFolder)
	fmt.Printf("Block Size     : %d bytes\n", blockSize)
	fmt.Printf("Database       : %s\n", *dbPath)
	fmt.Printf("Rescan Interval: %v\n", *rescanInterval)

	conf.AppConfig = conf.Config{
		WatchFolder:    *watchFolder,
		BlockSize:      blockSize,
		DBPath:         *dbPath,
		RescanInterval: *rescanInterval,
		RefineLimit:    *refineLimitKB * 1024,
	}
}

func initDB() *badger.DB {
	opts := badger.DefaultOptions(conf.AppConfig.DBPath)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open BadgerDB: %v", err)
	}
	return db
}

func waitForShutdownSignal(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infof("Received signal: %s. Shutting down...", sig)

	cancel()
}
