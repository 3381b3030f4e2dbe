package fakebackend

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/bucketlist/internal/flagx"
	"github.com/dmitrijs2005/bucketlist/internal/logging"
)

// Config holds the settings of a standalone fake server.
//
// Fields:
//   - ListenAddr: bind address, e.g. ":8000".
//   - SecretKey: HMAC secret for signing tokens (HS256).
//   - AccessTokenValidity: lifetime of issued access tokens.
//   - Seed: preload demo users and items.
type Config struct {
	ListenAddr          string
	SecretKey           string
	AccessTokenValidity time.Duration
	Seed                bool
}

func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8000"
	c.SecretKey = "secretKey"
	c.AccessTokenValidity = 60 * time.Minute
	c.Seed = true
}

// LoadConfig applies defaults, then command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("fakeserver", flag.ContinueOnError)
	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	validity := fs.Int("t", int(cfg.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "preload demo data")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-seed"})); err != nil {
		return nil, err
	}
	cfg.AccessTokenValidity = time.Duration(*validity) * time.Minute
	return cfg, nil
}

// Server runs a Backend over HTTP until its context is canceled.
type Server struct {
	config  *Config
	logger  logging.Logger
	backend *Backend
}

func NewServer(c *Config, logger logging.Logger) *Server {
	b := New(WithSecret([]byte(c.SecretKey)), WithTokenValidity(c.AccessTokenValidity))
	if c.Seed {
		b.Seed()
	}
	return &Server{config: c, logger: logger, backend: b}
}

// Seed loads two demo accounts (password "password") and a few items.
func (b *Backend) Seed() {
	b.AddUser("ana", "ana@example.com", "password")
	b.AddUser("bob", "bob@example.com", "password")
	b.AddBucket("ana", "See the northern lights", "Tromso, in the middle of winter.", false)
	b.AddBucket("ana", "Run a marathon", "Berlin, under four hours.", true)
	b.AddBucket("bob", "Climb Kilimanjaro", "Via the Machame route.", false)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"),
			"elapsed", time.Since(started))
	})
}

func (s *Server) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is canceled or a termination signal arrives.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	s.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.logRequests(s.backend),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting fake backend...", "addr", s.config.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	s.logger.Info(shutdownCtx, "Shutting down...")
	return srv.Shutdown(shutdownCtx)
}
