// Package cli drives the WasteWise client from a terminal. Every command
// maps to a view of the web client and passes through the same route guard.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/client/authstore"
	"github.com/wastewise/wastewise/internal/client/config"
	"github.com/wastewise/wastewise/internal/client/dashboard"
	"github.com/wastewise/wastewise/internal/client/gateway"
	"github.com/wastewise/wastewise/internal/client/geo"
	"github.com/wastewise/wastewise/internal/client/guard"
	"github.com/wastewise/wastewise/internal/client/notify"
	"github.com/wastewise/wastewise/internal/client/reports"
	"github.com/wastewise/wastewise/internal/client/session"
	"github.com/wastewise/wastewise/pkg/logger"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// App holds the client components for one invocation.
type App struct {
	cfg      *config.Config
	out      io.Writer
	errOut   io.Writer
	log      zerolog.Logger
	notifier notify.Notifier
	session  *session.Context
	api      *gateway.Client
	reports  *reports.Repository
	loader   *dashboard.Loader
	router   *guard.Router
	locator  geo.Locator
	geocoder geo.ReverseGeocoder
	now      func() time.Time
}

// New wires the client against cfg. The session is read from its store
// once, here.
func New(cfg *config.Config, out, errOut io.Writer, log zerolog.Logger) *App {
	notifier := notify.NewTerminal(out, log.With().Str("component", "notify").Logger())
	store := authstore.NewFileStore(cfg.SessionFile, log.With().Str("component", "authstore").Logger())
	sess := session.New(store, log.With().Str("component", "session").Logger())
	sess.Init()

	api := gateway.New(cfg.APIURL, sess,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithLogger(log.With().Str("component", "gateway").Logger()),
	)
	repo := reports.New(api, sess, api.BaseURL(), log.With().Str("component", "reports").Logger())

	return &App{
		cfg:      cfg,
		out:      out,
		errOut:   errOut,
		log:      log,
		notifier: notifier,
		session:  sess,
		api:      api,
		reports:  repo,
		loader:   dashboard.NewLoader(repo, notifier),
		router:   guard.NewRouter(guard.DefaultRoutes()),
		locator:  geo.EnvLocator(cfg.Latitude, cfg.Longitude),
		geocoder: geo.NewNominatim(cfg.GeocoderURL, &http.Client{Timeout: 10 * time.Second}),
		now:      time.Now,
	}
}

type command struct {
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register":  {"create an account and sign in", (*App).register},
	"login":     {"sign in", (*App).login},
	"logout":    {"sign out and forget the saved session", (*App).logout},
	"whoami":    {"show the signed-in user and their views", (*App).whoami},
	"profile":   {"show or update your profile", (*App).profile},
	"password":  {"change your password", (*App).password},
	"reports":   {"list your reports, or all reports as admin", (*App).listReports},
	"submit":    {"submit a new waste report", (*App).submit},
	"update":    {"change the status of a report (admin)", (*App).update},
	"stats":     {"show report counts", (*App).stats},
	"analytics": {"show status distribution and weekly activity (admin)", (*App).analytics},
	"map":       {"list report positions (admin)", (*App).markers},
	"route":     {"check whether a view is reachable", (*App).route},
}

// Run executes one command and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "wastewise", Output: stderr})

	return New(cfg, stdout, stderr, log).Run(ctx, args)
}

// Run dispatches args[0] to its command.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command %q\n", args[0])
		a.usage()
		return exitUsage
	}

	err := cmd.run(a, ctx, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return exitUsage
	}
	a.log.Debug().Err(err).Str("command", args[0]).Msg("command failed")
	return exitError
}

func (a *App) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.errOut, "usage: wastewise <command> [flags]")
	fmt.Fprintln(a.errOut)
	for _, name := range names {
		fmt.Fprintf(a.errOut, "  %-10s %s\n", name, commands[name].summary)
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("wastewise "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// enter applies the route guard to the view behind a command.
func (a *App) enter(path string) error {
	d := a.router.Resolve(a.session.State(), path)
	switch d.Outcome {
	case guard.Render:
		return nil
	case guard.Loading:
		return errors.New("session is still loading")
	}
	if d.Target == guard.LoginPath {
		a.notifier.Error("Please log in first")
		return fmt.Errorf("redirected to %s", d.Target)
	}
	a.notifier.Error("This view is not available for your role")
	return fmt.Errorf("redirected to %s", d.Target)
}

// signedIn admits any authenticated user.
func (a *App) signedIn() error {
	d := guard.Evaluate(a.session.State(), "")
	if d.Outcome == guard.Render {
		return nil
	}
	a.notifier.Error("Please log in first")
	return fmt.Errorf("redirected to %s", d.Target)
}

func (a *App) route(_ context.Context, args []string) error {
	fs := a.flags("route")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.errOut, "usage: wastewise route <path>")
		return errUsage
	}

	d := a.router.Resolve(a.session.State(), fs.Arg(0))
	if d.Outcome == guard.Redirect {
		fmt.Fprintf(a.out, "%s -> %s\n", d.Outcome, d.Target)
		return nil
	}
	fmt.Fprintln(a.out, d.Outcome)
	return nil
}
