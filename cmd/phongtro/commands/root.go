package commands

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/api"
	"github.com/phongtro/phongtro/internal/chat"
	"github.com/phongtro/phongtro/internal/config"
	"github.com/phongtro/phongtro/internal/geo"
	"github.com/phongtro/phongtro/internal/launcher"
	"github.com/phongtro/phongtro/internal/log"
	"github.com/phongtro/phongtro/internal/service"
	"github.com/phongtro/phongtro/internal/store"
	"github.com/phongtro/phongtro/internal/tui"
)

var (
	configDir string
	version   = "dev"

	cfg    *config.Config
	logger *slog.Logger
)

// Execute runs the command line
func Execute(v string) error {
	version = v

	root := &cobra.Command{
		Use:           "phongtro",
		Short:         "Tìm phòng trọ ngay trong terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configDir != "" {
				cfg, err = config.LoadConfigFrom(configDir)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, err = log.SetupLogger(&cfg.Logging)
			if err != nil {
				// Fall back to null logger if file logging fails
				logger = log.NullLogger()
			}
			slog.SetDefault(logger)
			logger.Info("starting phongtro", "version", version, "command", cmd.Name())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.IsConfigured() {
				if err := runLoginFlow(cmd.Context(), ""); err != nil {
					return err
				}
			}
			return runTUI()
		},
	}

	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "thư mục cấu hình (mặc định ~/.config/phongtro)")

	root.AddCommand(
		loginCmd(),
		registerCmd(),
		logoutCmd(),
		searchCmd(),
		chatCmd(),
		regionsCmd(),
		listingCmd(),
		profileCmd(),
		reportsCmd(),
		versionCmd(),
	)
	return root.Execute()
}

// app holds everything built from the loaded config
type app struct {
	client *api.Client
	cache  *store.ResponseStore

	services tui.Services
	profiles *service.ProfileService
	uploads  *service.UploadService
}

// newApp wires the API client, cache and services for the stored session
func newApp() (*app, error) {
	if cfg.Server.URL == "" {
		return nil, fmt.Errorf("server.url is not configured")
	}
	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, cfg.Server.UserID, logger)

	cache, err := store.NewResponseStore(cfg.CachePath(), cfg.Server.URL, cfg.Server.UserID)
	if err != nil {
		// Fall back to a memory-only cache
		logger.Warn("response cache unavailable, using memory", "error", err)
		cache, _ = store.NewResponseStore("", cfg.Server.URL, cfg.Server.UserID)
	}

	return &app{
		client: client,
		cache:  cache,
		services: tui.Services{
			Listings:      service.NewListingService(client, cache, logger),
			Favorites:     service.NewFavoriteService(client, cache, logger),
			Connections:   service.NewConnectionService(client, cache, logger),
			Reviews:       service.NewReviewService(client, cache, logger),
			Notifications: service.NewNotificationService(client, cache, logger),
			Reports:       service.NewReportService(client, cache, logger),
			Analytics:     service.NewAnalyticsService(client, cache, logger),
			Matching:      service.NewMatchingService(client, cache, logger),
			Session:       service.NewSessionService(client, cfg, cache, logger),
		},
		profiles: service.NewProfileService(client, cache, logger),
		uploads:  service.NewUploadService(client, logger),
	}, nil
}

// Close releases the cache
func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		logger.Warn("failed to close cache", "error", err)
	}
}

// requireSession opens the app, failing when nobody is logged in
func requireSession() (*app, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("chưa đăng nhập, hãy chạy `phongtro login`")
	}
	return newApp()
}

// newGeocoder builds the rate-limited, cached geocoder
func newGeocoder() *geo.CachingGeocoder {
	base := geo.NewNominatim(cfg.Geo.GeocoderURL, cfg.Geo.UserAgent, cfg.Geo.RatePerSecond, logger)
	return geo.NewCachingGeocoder(base, cfg.Geo.CacheTTL)
}

func runTUI() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(a.services, tui.Options{
		Config:      cfg,
		Geocoder:    newGeocoder(),
		ChatDialer:  chat.NewDialer(cfg.Geo.UserAgent),
		ChatHistory: a.client,
		ChatURL: func(peerID string) (string, error) {
			return a.client.ChatURL(cfg.WebSocketURL(), peerID)
		},
		Opener: launcher.New(cfg.Viewer.Command, cfg.Viewer.Args, logger),
		SelfID: cfg.Server.UserID,
		Logger: logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
