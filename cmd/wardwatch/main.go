package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zatekoja/wardwatch/internal/application/services"
	"github.com/zatekoja/wardwatch/internal/domain/providers"
	"github.com/zatekoja/wardwatch/internal/infrastructure/clients/wardapi"
	"github.com/zatekoja/wardwatch/internal/infrastructure/observability"
	"github.com/zatekoja/wardwatch/internal/infrastructure/state"
	"github.com/zatekoja/wardwatch/internal/tui"
	"github.com/zatekoja/wardwatch/pkg/config"
)

var (
	flagAPIURL        string
	flagToken         string
	flagDemo          bool
	flagFavoritesOnly bool
)

var rootCmd = &cobra.Command{
	Use:   "wardwatch",
	Short: "Near-real-time hospital ward bed availability in your terminal",
	Long: `wardwatch shows hospital-ward bed availability from the ward
availability service, with free-text search, favorites and freshness
warnings. Run with --demo to explore without a backend.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagAPIURL, "api-url", "", "ward availability API base URL (overrides WARDWATCH_API_URL)")
	rootCmd.Flags().StringVar(&flagToken, "token", "", "bearer token to store for this and future sessions")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "run against built-in sample data, no backend required")
	rootCmd.Flags().BoolVar(&flagFavoritesOnly, "favorites-only", false, "start with the favorites-only filter enabled")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logs go to stderr so they never tear the rendered view.
	observability.InitLogger("wardwatch", cfg.Env, os.Stderr)
	logger := observability.GetLogger()

	store, err := state.NewStore(cfg.State.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open client state at %s: %w", cfg.State.FilePath, err)
	}

	if flagToken != "" {
		if err := store.SetToken(flagToken); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
	}

	if !store.CookieConsentDecided() {
		if err := promptCookieConsent(store); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := cfg.API.BaseURL
	if flagAPIURL != "" {
		baseURL = flagAPIURL
	}

	var provider providers.WardProvider
	if flagDemo {
		provider = wardapi.NewMockProvider()
	} else {
		provider = wardapi.NewClient(baseURL, store,
			wardapi.WithTimeout(cfg.API.Timeout()),
			wardapi.WithAuthFailureHook(func() {
				logger.Warn().Msg("backend rejected the session token, clearing stored credentials")
				if err := store.InvalidateSession(); err != nil {
					logger.Error().Err(err).Msg("failed to clear stored credentials")
				}
			}),
		)
	}

	var engine *tui.Engine
	notifier := services.FavoritesNotifier{
		OnSuccess: func(message string) {
			if engine != nil {
				engine.PushNotice(tui.Notice{Text: message})
			}
		},
		OnError: func(message string) {
			if engine != nil {
				engine.PushNotice(tui.Notice{Text: message, IsError: true})
			}
		},
	}

	insights := services.NewInsightState()
	favorites := services.NewFavoritesService(provider, notifier)
	list := services.NewWardListService(provider, favorites, insights,
		services.WithCollationLocale(cfg.Locale.Collation),
		services.WithStaleAfterHours(cfg.Freshness.StaleAfterHours),
	)
	debouncer := services.NewSearchDebouncer(cfg.Search.Debounce(), cfg.Search.MinChars, func(committedQuery string) {
		list.SetQuery(ctx, committedQuery)
	})

	engine = tui.NewEngine(ctx, list, favorites, insights, debouncer)
	if flagFavoritesOnly {
		engine.ToggleFavoritesOnly(true)
	}

	return tui.Run(engine)
}

func promptCookieConsent(store *state.Store) error {
	fmt.Print("Allow wardwatch to keep anonymous usage cookies? [y/N]: ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read consent choice: %w", err)
	}
	accepted := strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
	return store.SetCookieConsent(accepted)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
