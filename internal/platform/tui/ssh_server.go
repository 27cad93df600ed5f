package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/formgrid/internal/app"
)

// drainTimeout bounds how long open browsers get to finish on shutdown.
const drainTimeout = 10 * time.Second

// SSHServerConfig configures the remote level browser.
type SSHServerConfig struct {
	Address     string        // listen address, e.g. ":2222"
	HostKeyPath string        // empty means ~/.formgrid/host_key
	IdleTimeout time.Duration // zero disables the idle cutoff
}

// SSHServer hands every SSH connection its own level browser. The
// browsers share one App, so they see the same level index and write to
// the same solution cache.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	app    *app.App
	logger *log.Logger
}

// NewSSHServer prepares the host key location and builds the wish server.
// It does not listen yet.
func NewSSHServer(a *app.App, cfg SSHServerConfig) (*SSHServer, error) {
	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{
		config: cfg,
		app:    a,
		logger: a.Logger().WithPrefix("formgrid-ssh"),
	}
	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.browserFor),
			srv.logSessions,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build ssh server: %w", err)
	}
	return srv, nil
}

// hostKeyPath resolves where wish keeps the host key and makes sure its
// directory exists. wish generates the key itself on first start.
func hostKeyPath(configured string) (string, error) {
	path := configured
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate host key: %w", err)
		}
		path = filepath.Join(home, ".formgrid", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("host key dir: %w", err)
	}
	return path, nil
}

// browserFor sizes a fresh browser to the client's terminal. Sessions
// without a PTY get nothing; a grid cannot be drawn on a bare pipe.
func (s *SSHServer) browserFor(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("refusing session without pty", sessionFields(sess)...)
		return nil, nil
	}
	m := NewBrowserModel(s.app, app.SourceSSH, pty.Window.Width, pty.Window.Height)
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		began := time.Now()
		s.logger.Info("browser opened", sessionFields(sess)...)
		next(sess)
		s.logger.Info("browser closed",
			append(sessionFields(sess), "after", time.Since(began).Round(time.Second))...)
	}
}

func sessionFields(sess ssh.Session) []any {
	return []any{"user", sess.User(), "remote", sess.RemoteAddr().String()}
}

// ListenAndServe accepts connections until ctx is done or the listener
// fails, then drains open sessions.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("listening", "address", s.config.Address, "levels", s.app.Levels().Len())

	failed := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		s.logger.Error("listener stopped", "error", err)
		return err
	case <-ctx.Done():
	}
	s.logger.Info("draining sessions", "timeout", drainTimeout)
	return s.Shutdown()
}

// Shutdown stops accepting and waits up to drainTimeout for open
// browsers to close.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr is the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
