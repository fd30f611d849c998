package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/homedash/homedash/internal/api"
	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/module"
	"github.com/homedash/homedash/internal/store"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	// Handle -nginx / --nginx anywhere
	if cmd == "-nginx" || cmd == "--nginx" {
		// Strip the -nginx arg, keep remaining flags for config loading
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdNginx()
		return
	}

	switch cmd {
	case "start":
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdStart()
	case "stop":
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdStop()
	case "status":
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdStatus()
	case "run":
		// Foreground mode (also used internally by daemon child)
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdRun(false)
	case "once":
		// Single refresh pass to stdout
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
		cmdOnce()
	case "version":
		fmt.Printf("homedash %s\n", version)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, `Homedash — Personal Info Dashboard (%s)

Usage:
  %s <command> [flags]

Commands:
  start          Start daemon (background)
  stop           Stop daemon
  status         Show daemon status
  run            Run in foreground
  once           Run a single refresh pass and print it
  version        Print version

Flags:
  -nginx         Print sample nginx reverse proxy configuration
  -config PATH   Config file path (default: config.yaml)
  -listen ADDR   Listen address (default: 127.0.0.1:9480)
  -db PATH       SQLite database path
  -base-path P   Base URL path for reverse proxy
  -interval N    Refresh interval in seconds
  -pid-file P    PID file path
  -log-file P    Log file path

Examples:
  %s start
  %s start -config /etc/homedash/config.yaml
  %s once
  %s stop
  %s -nginx
`, version, exe, exe, exe, exe, exe, exe)
}

// ---------------------------------------------------------------------------
// -nginx: print sample nginx config
// ---------------------------------------------------------------------------

func cmdNginx() {
	cfg := config.Load()

	bp := cfg.BasePath
	if bp == "/" {
		bp = "/dash"
		fmt.Println("# base_path is \"/\" — using \"/dash\" as example.")
		fmt.Println("# Set base_path in config.yaml to match your desired location.")
		fmt.Println()
	}

	// Ensure trailing slash for nginx location
	loc := bp + "/"

	fmt.Printf(`# --------------------------------------------------
# nginx reverse proxy configuration for Homedash
# --------------------------------------------------
# Add this inside an http { server { ... } } block.

location %s {
    proxy_pass         http://%s/;
    proxy_http_version 1.1;

    # WebSocket support
    proxy_set_header   Upgrade $http_upgrade;
    proxy_set_header   Connection "upgrade";

    # Forward client info
    proxy_set_header   Host              $host;
    proxy_set_header   X-Real-IP         $remote_addr;
    proxy_set_header   X-Forwarded-For   $proxy_add_x_forwarded_for;
    proxy_set_header   X-Forwarded-Proto $scheme;

    # Disable buffering for real-time WebSocket
    proxy_buffering    off;
    proxy_read_timeout 86400s;
}
`, loc, cfg.Listen)

	fmt.Println("# config.yaml should have:")
	fmt.Printf("#   base_path: \"%s\"\n", bp)
}

// ---------------------------------------------------------------------------
// once: single refresh pass, fragments to stdout
// ---------------------------------------------------------------------------

func cmdOnce() {
	cfg := config.Load()

	registry := module.NewRegistry(nil)
	module.RegisterBuiltins(registry)
	if err := registry.Configure(cfg.Modules); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	res := module.Refresh(ctx, registry.EnabledModules())

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, f := range res.Fragments {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Title, f.Text)
	}
	tw.Flush()
}

// ---------------------------------------------------------------------------
// run: foreground server (also used by daemon child)
// ---------------------------------------------------------------------------

func cmdRun(isDaemon bool) {
	cfg := config.Load()

	// In daemon mode, write our own PID (child process)
	if isDaemon {
		writePidFile(cfg.PidFile, os.Getpid())
	}

	// Open store
	db, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Build module registry from config and restore persisted state
	registry := module.NewRegistry(db)
	module.RegisterBuiltins(registry)
	if err := registry.Configure(cfg.Modules); err != nil {
		log.Fatalf("failed to configure modules: %v", err)
	}
	if err := registry.RestoreState(); err != nil {
		log.Printf("warning: failed to restore module state: %v", err)
	}
	log.Printf("[startup] %d modules configured", len(registry.Modules()))

	// Apply DB-persisted settings (override config defaults)
	applyDBSettings(db, cfg)

	// Create scheduler
	sched := module.NewScheduler(registry, db, cfg.RefreshInterval)

	// Create WebSocket hub and wire the scheduler broadcast to it
	hub := api.NewHub()
	go hub.Run()
	sched.SetBroadcast(func(res model.RefreshResult) {
		hub.Broadcast(res)
	})

	// Start scheduler
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()
	sched.Start(ctx)

	// Start retention purge goroutine
	go runRetentionPurge(ctx, db, cfg.RetentionHours)

	// Build HTTP router
	router := api.NewRouter(registry, db, hub, sched, cfg.BasePath)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	// Start server
	go func() {
		log.Printf("Homedash %s listening on http://%s (base_path: %s)", version, cfg.Listen, cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for signal
	<-ctx.Done()
	log.Println("shutting down...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sched.Stop()
	srv.Shutdown(shutCtx)

	// Clean up PID file
	os.Remove(cfg.PidFile)
	log.Println("goodbye")
}

// ---------------------------------------------------------------------------
// PID file helpers
// ---------------------------------------------------------------------------

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644)
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in %s", path)
	}
	return pid, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func runRetentionPurge(ctx context.Context, db *store.Store, hours int) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.PurgeOlderThan(hours)
			if err != nil {
				log.Printf("[purge] error: %v", err)
			} else if n > 0 {
				log.Printf("[purge] removed %d old samples", n)
			}
		}
	}
}

func applyDBSettings(db *store.Store, cfg *config.Config) {
	if v, err := db.GetSetting("refresh_interval"); err == nil && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshInterval = n
			log.Printf("[settings] refresh_interval from DB: %ds", n)
		}
	}
	if v, err := db.GetSetting("retention_hours"); err == nil && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetentionHours = n
			log.Printf("[settings] retention_hours from DB: %dh", n)
		}
	}
}
