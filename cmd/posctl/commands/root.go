package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/cmd/posctl/output"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/gateway"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/session"
	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in, run `posctl login` first")

// options holds the global flags.
type options struct {
	backendURL  string
	sessionFile string
	lang        string
	jsonOutput  bool
	timeout     time.Duration
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		// Backend failures were already printed as notifications.
		if !isRequestError(err) {
			output.Error("%v", err)
		}
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "posctl",
		Short: "Terminal client for the restaurant point of sale",
		Long: `posctl talks to the restaurant REST backend directly. It signs an operator in,
keeps the bearer token in a local session file and lets the administration and
kitchen pages be worked from a terminal.

Examples:
  posctl login -u ana --page kitchenPage
  posctl kitchen                  # interactive kitchen board
  posctl products list -q trout   # filter the menu`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.lang != enum.LanguageEnglish && opts.lang != enum.LanguageMacedonian {
				return fmt.Errorf("unsupported language %q", opts.lang)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.backendURL, "backend", envOr("POS_BACKEND_URL", "http://localhost:8080"), "Backend base URL")
	rootCmd.PersistentFlags().StringVar(&opts.sessionFile, "session-file", defaultSessionFile(), "Where the session is kept")
	rootCmd.PersistentFlags().StringVar(&opts.lang, "lang", enum.LanguageEnglish, "Display language (en or mk)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "Backend request timeout")

	rootCmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newProductsCmd(opts),
		newIngredientsCmd(opts),
		newWaitersCmd(opts),
		newPaymentsCmd(opts),
		newTablesCmd(opts),
		newKitchenCmd(opts),
	)
	return rootCmd
}

// client is one command's view of the backend.
type client struct {
	cache   *session.FileCache
	handle  *session.Handle
	gw      *gateway.Client
	notes   *notify.Recorder
	screens *screen.Screens
}

func newClient(opts *options) *client {
	cache := session.NewFileCache(opts.sessionFile)
	handle := session.NewHandle(cache, session.IDFor(opts.backendURL))
	notes := &notify.Recorder{}
	gw := gateway.New(opts.backendURL,
		gateway.WithHTTPClient(&http.Client{Timeout: opts.timeout}),
		gateway.WithTokenSource(handle),
		gateway.WithNotifier(notes),
	)
	return &client{
		cache:   cache,
		handle:  handle,
		gw:      gw,
		notes:   notes,
		screens: screen.New(gw, opts.lang),
	}
}

// flush prints the notifications raised so far.
func (c *client) flush() {
	output.Notifications(c.notes.Drain())
}

// require loads the session and checks it was opened for one of pages.
func (c *client) require(ctx context.Context, pages ...string) (session.Session, error) {
	s, err := c.handle.Load(ctx)
	if errors.Is(err, session.ErrNotFound) {
		return session.Session{}, errNotSignedIn
	}
	if err != nil {
		return session.Session{}, err
	}
	if len(pages) > 0 && !slices.Contains(pages, s.ActivePage) {
		return session.Session{}, fmt.Errorf("signed in to %s, this command needs %v", s.ActivePage, pages)
	}
	return s, nil
}

func isRequestError(err error) bool {
	var reqErr *gateway.RequestError
	return errors.As(err, &reqErr)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".posctl-session.json"
	}
	return filepath.Join(dir, "posctl", "session.json")
}
