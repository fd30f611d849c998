//go:build !windows

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/homedash/homedash/internal/config"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// printBanner shows where a running (or just started) daemon can be reached
// and which files it uses.
func printBanner(cfg *config.Config, pid int) {
	fmt.Printf("  pid %d, serving http://%s", pid, cfg.Listen)
	if cfg.BasePath != "/" {
		fmt.Printf(" under %s", cfg.BasePath)
	}
	fmt.Println()
	fmt.Printf("  config %s, log %s, pid file %s\n", cfg.ConfigPath, cfg.LogFile, cfg.PidFile)
}

func cmdStart() {
	cfg := config.Load()

	if pid, err := readPidFile(cfg.PidFile); err == nil {
		if processExists(pid) {
			fmt.Printf("homedash is already running (PID %d)\n", pid)
			os.Exit(1)
		}
		os.Remove(cfg.PidFile) // stale PID file
	}

	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to find executable: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", cfg.LogFile, err)
		os.Exit(1)
	}

	// The child runs the foreground "run" command, detached from the
	// terminal, with stdout/stderr going to the log file.
	child := &exec.Cmd{
		Path:   exe,
		Args:   []string{filepath.Base(exe), "run", "-config", cfg.ConfigPath},
		Stdout: logFile,
		Stderr: logFile,
		SysProcAttr: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	if err := child.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start daemon: %v\n", err)
		os.Exit(1)
	}

	pid := child.Process.Pid
	if err := writePidFile(cfg.PidFile, pid); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write PID file: %v\n", err)
	}

	child.Process.Release()
	logFile.Close()

	fmt.Println("homedash started")
	printBanner(cfg, pid)
}

func cmdStop() {
	cfg := config.Load()

	pid, err := readPidFile(cfg.PidFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "homedash is not running (no PID file: %s)\n", cfg.PidFile)
		os.Exit(1)
	}

	if !processExists(pid) {
		fmt.Printf("homedash is not running (stale PID %d)\n", pid)
		os.Remove(cfg.PidFile)
		os.Exit(1)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to find process %d: %v\n", pid, err)
		os.Exit(1)
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop PID %d: %v\n", pid, err)
		os.Exit(1)
	}

	if waitForExit(pid, 10*time.Second) {
		fmt.Printf("homedash stopped (PID %d)\n", pid)
	} else {
		fmt.Printf("stop signal sent to PID %d, still shutting down\n", pid)
	}
	os.Remove(cfg.PidFile)
}

func cmdStatus() {
	cfg := config.Load()

	pid, err := readPidFile(cfg.PidFile)
	if err != nil {
		fmt.Println("homedash is stopped")
		os.Exit(1)
	}

	if !processExists(pid) {
		fmt.Printf("homedash is stopped (stale PID file, was PID %d)\n", pid)
		os.Remove(cfg.PidFile)
		os.Exit(1)
	}

	fmt.Println("homedash is running")
	printBanner(cfg, pid)
}

// waitForExit polls until the process is gone or the timeout passes.
func waitForExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
		if !processExists(pid) {
			return true
		}
	}
	return false
}

func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks existence without actually sending a signal
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}
