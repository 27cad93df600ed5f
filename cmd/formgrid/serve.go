package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/formgrid/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the level browser SSH server",
	Long: `Start an SSH server that gives each connection its own level browser.
All sessions share the level index and the solution cache.

Host key handling:
  - If --host-key (or server.host_key in the config) is set, uses that file
  - Otherwise, auto-generates a key at ~/.formgrid/host_key

Examples:
  formgrid serve                           # Listen on the configured address
  formgrid serve --ssh :2222               # Listen on port 2222
  formgrid serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 2222`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	server := a.Config().Server
	cfg := tui.SSHServerConfig{
		Address:     server.Addr(),
		HostKeyPath: server.HostKeyPath,
		IdleTimeout: server.IdleTimeout,
	}
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = flagIdleTimeout
	}

	srv, err := tui.NewSSHServer(a, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Starting formgrid SSH server on %s\n", cfg.Address)
	fmt.Printf("Serving %d levels from %s\n", a.Levels().Len(), a.Config().Levels.Dir)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
