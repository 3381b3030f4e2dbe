package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
	"github.com/dmitrijs2005/bucketlist/internal/client/config"
	"github.com/dmitrijs2005/bucketlist/internal/client/guard"
	"github.com/dmitrijs2005/bucketlist/internal/client/services"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
	"github.com/dmitrijs2005/bucketlist/internal/client/views"
	"github.com/dmitrijs2005/bucketlist/internal/logging"
)

// App is the terminal front end. Each screen maps to a view controller;
// every command goes through the guard before touching a private screen.
type App struct {
	config  *config.Config
	logger  logging.Logger
	auth    services.AuthService
	buckets services.BucketService
	guard   *guard.Guard

	discover *views.Discover
	mine     *views.MyBucket
	profile  *views.Profile

	reader *bufio.Reader
	out    io.Writer

	// set by the auth service when the session is dropped behind the
	// user's back; the REPL then sends them to login
	redirect atomic.Bool

	closers []io.Closer
}

// Deps are the collaborators an App is built from.
type Deps struct {
	Config  *config.Config
	Logger  logging.Logger
	Client  client.Client
	Store   session.Store
	FS      afero.Fs
	Reader  *bufio.Reader
	Out     io.Writer
	Closers []io.Closer
}

// NewApp opens the session database, the log file and the API client named
// by c and assembles an App reading from stdin.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	var (
		logger  logging.Logger = logging.NewNopLogger()
		closers []io.Closer
	)
	if c.LogFile != "" {
		fl, closer := logging.NewFileLogger(logging.FileOptions{
			Path:  c.LogFile,
			Level: c.LogLevel,
		})
		logger = fl
		closers = append(closers, closer)
	}

	store, err := session.OpenSQLite(ctx, c.SessionDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing session database", "error", err)
		return nil, err
	}
	closers = append(closers, store)

	apiClient, err := client.NewHTTPClient(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger))
	if err != nil {
		_ = closeAll(closers)
		return nil, err
	}

	return New(Deps{
		Config:  c,
		Logger:  logger,
		Client:  apiClient,
		Store:   store,
		FS:      afero.NewOsFs(),
		Reader:  bufio.NewReader(os.Stdin),
		Out:     os.Stdout,
		Closers: closers,
	}), nil
}

// New assembles an App from explicit dependencies.
func New(d Deps) *App {
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	auth := services.NewAuthService(d.Client, d.Store, d.Logger)
	buckets := services.NewBucketService(d.Client, d.Store, auth, d.FS, d.Logger)
	profile := services.NewProfileService(d.Client, d.Store, auth)

	a := &App{
		config:   d.Config,
		logger:   d.Logger,
		auth:     auth,
		buckets:  buckets,
		guard:    guard.New(d.Store),
		discover: views.NewDiscover(buckets),
		mine:     views.NewMyBucket(buckets, auth),
		profile:  views.NewProfile(profile, d.Logger),
		reader:   d.Reader,
		out:      d.Out,
		closers:  d.Closers,
	}
	auth.OnSignedOut(func() { a.redirect.Store(true) })
	return a
}

// Run restores a previous session, runs the REPL until the user exits and
// releases resources.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to Bucket List (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close waits for background calls and closes the session store and log.
func (a *App) Close() error {
	a.discover.Close()
	a.mine.Close()
	a.profile.Close()
	a.auth.Wait()
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// restoreSession checks a stored credential against the server. A rejected
// credential is dropped; a network failure keeps it for later.
func (a *App) restoreSession(ctx context.Context) {
	s, err := a.auth.Session(ctx)
	if err != nil || s.IsZero() {
		return
	}
	u, err := a.auth.CurrentUser(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Welcome back, %s!\n", u.DisplayName())
	case services.IsKind(err, services.KindAuth):
		a.redirect.Store(false)
		fmt.Fprintln(a.out, "Your session has expired, please log in again.")
	default:
		fmt.Fprintf(a.out, "Signed in as %s (offline: %s)\n", s.User.Username, services.AsResult(err).Error)
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.guard.IsAuthorized(ctx)
}

// getStatus is shown in the prompt.
func (a *App) getStatus() string {
	s, err := a.auth.Session(context.Background())
	if err != nil || s.IsZero() {
		return "guest"
	}
	return s.User.Username
}

// consumeRedirect reports, once, that the session was dropped by the server.
func (a *App) consumeRedirect() bool {
	return a.redirect.Swap(false)
}

// enter runs the guard for route. When the route needs a session that is
// not there the user is sent to the login prompt; enter reports whether they
// came back signed in.
func (a *App) enter(ctx context.Context, route guard.Route) bool {
	d := a.guard.Resolve(ctx, route)
	if !d.Redirected {
		return true
	}
	fmt.Fprintln(a.out, "Please log in first.")
	if err := a.Login(ctx); err != nil {
		a.report(err)
		return false
	}
	return a.guard.Resolve(ctx, route).Route == route
}

// report prints a failed result the way every command shows errors.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(a.out, "Error:", services.AsResult(err).Error)
}
