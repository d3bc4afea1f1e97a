package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/collegefest/champboard/internal/auth"
	"github.com/collegefest/champboard/internal/config"
	"github.com/collegefest/champboard/internal/departments"
	"github.com/collegefest/champboard/internal/handlers"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/pubsub"
	"github.com/collegefest/champboard/internal/repository"
	"github.com/collegefest/champboard/internal/services"
	"github.com/collegefest/champboard/internal/websocket"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown
const shutdownTimeout = 15 * time.Second

// App holds all application dependencies
type App struct {
	log         logger.Logger
	cfg         *config.Config
	handlers    *handlers.Handlers
	repo        *repository.Repository
	settings    *services.SettingsService
	leaderboard *services.LeaderboardService
	relay       *pubsub.Relay
	cancel      context.CancelFunc
}

// New opens the database, seeds the department universe and wires every
// service, the live-update hub and the HTTP handlers.
func New(log logger.Logger, cfg *config.Config, templatesFS, staticFS fs.FS, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a, err := build(ctx, log, cfg, repo, templatesFS, staticFS, adminAuth)
	if err != nil {
		cancel()
		repo.Close()
		return nil, err
	}
	a.cancel = cancel
	return a, nil
}

func build(ctx context.Context, log logger.Logger, cfg *config.Config, repo *repository.Repository,
	templatesFS, staticFS fs.FS, adminAuth *auth.Auth) (*App, error) {
	// Initialize services
	departmentService := services.NewDepartmentService(log, repo, cfg.DepartmentsVersion)
	sportService := services.NewSportService(log, repo, departmentService)
	fixtureService := services.NewFixtureService(log, repo, departmentService)
	culturalService := services.NewCulturalService(log, repo, departmentService)
	leaderboardService := services.NewLeaderboardService(log, repo, departmentService)
	settingsService := services.NewSettingsService(log, repo)
	qrService := services.NewQRService(settingsService)

	seed := departments.Seed()
	if cfg.Departments != "" {
		seed = departments.ParseSeed(cfg.Departments)
	}
	result, err := departmentService.Seed(ctx, cfg.DepartmentsVersion, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to seed departments: %w", err)
	}
	log.Info("Departments seeded", "version", result.Version, "inserted", result.Inserted,
		"retired", result.Retired, "reactivated", result.Reactivated, "backfilled", result.Backfilled)

	// Live updates
	hub := websocket.New(log)
	var relay *pubsub.Relay
	if cfg.RedisURL != "" {
		relay, err = pubsub.New(ctx, log, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		hub.SetPublisher(relay)
		go func() {
			if err := relay.Run(ctx, hub.Deliver); err != nil && ctx.Err() == nil {
				log.Error("Update relay stopped", "error", err)
			}
		}()
	}
	hub.Start(ctx)
	go hub.StartFixtureWatcher(ctx, cfg.FixturePollInterval, fixtureService)

	departmentService.SetBroadcaster(hub)
	sportService.SetBroadcaster(hub)
	fixtureService.SetBroadcaster(hub)
	culturalService.SetBroadcaster(hub)

	h, err := handlers.New(
		handlers.Services{
			Departments: departmentService,
			Sports:      sportService,
			Fixtures:    fixtureService,
			Cultural:    culturalService,
			Leaderboard: leaderboardService,
			Settings:    settingsService,
			QR:          qrService,
		},
		templatesFS,
		handlers.NewStaticServer(staticFS),
		adminAuth,
		hub,
		repo,
		log,
	)
	if err != nil {
		if relay != nil {
			relay.Close()
		}
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	h.CORSOrigins = cfg.CORSOrigins

	return &App{
		log:         log,
		cfg:         cfg,
		handlers:    h,
		repo:        repo,
		settings:    settingsService,
		leaderboard: leaderboardService,
		relay:       relay,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Leaderboard returns the current overall standings
func (a *App) Leaderboard(ctx context.Context) (*services.Leaderboard, error) {
	return a.leaderboard.Leaderboard(ctx)
}

// Close stops background work and releases the database. It is safe to
// call more than once.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
		if a.relay != nil {
			a.relay.Close()
		}
		a.repo.Close()
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	addr := a.cfg.Addr()
	baseURL := a.cfg.BaseURL
	if baseURL != "" {
		if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
			a.log.Warn("Failed to store configured base_url", "error", err)
		}
	} else {
		// Default to the detected LAN IP so QR codes work on phones
		baseURL = fmt.Sprintf("http://%s%s", getPreferredIP(realNetworkProvider{}), addr)
		a.setDefaultBaseURL(ctx, baseURL)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", "url", baseURL)
		a.log.Info("Admin URL", "url", baseURL+"/admin")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.log.Info("Shutting down server", "timeout", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		a.log.Info("Server shutdown complete")
		return nil
	}
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(ctx context.Context, baseURL string) {
	existing, _ := a.settings.GetBaseURL(ctx)

	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
