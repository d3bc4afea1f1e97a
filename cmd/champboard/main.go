package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/collegefest/champboard/internal/app"
	"github.com/collegefest/champboard/internal/auth"
	"github.com/collegefest/champboard/internal/config"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/services"
	"github.com/collegefest/champboard/web"
)

var (
	version = "dev"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold, color.FgGreen).SprintFunc()
)

// showBanner prints the ChampBoard logo in a box
func showBanner() {
	width := 68
	border := strings.Repeat("═", width)

	logo := []string{
		"      ____ _                       ____                      _ ",
		"     / ___| |__   __ _ _ __ ___   | __ )  ___   __ _ _ __ __| |",
		"    | |   | '_ \\ / _` | '_ ` _ \\  |  _ \\ / _ \\ / _` | '__/ _` |",
		"    | |___| | | | (_| | | | | | | | |_) | (_) | (_| | | | (_| |",
		"     \\____|_| |_|\\__,_|_| |_| |_| |____/ \\___/ \\__,_|_|  \\__,_|",
	}

	fmt.Printf("\n  %s\n", cyan("╔"+border+"╗"))
	for _, line := range logo {
		if len(line) > width {
			line = line[:width]
		}
		line += strings.Repeat(" ", width-len(line))
		fmt.Printf("  %s%s%s\n", cyan("║"), yellow(line), cyan("║"))
	}
	fmt.Printf("  %s\n\n", cyan("╚"+border+"╝"))
}

// printStandings renders both overall tables
func printStandings(board *services.Leaderboard) {
	render := func(title string, entries []services.LeaderboardEntry) {
		color.Yellow("\n%s", title)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Pos", "Department", "Points", "Wins"})
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, e := range entries {
			table.Append([]string{
				strconv.Itoa(e.Position),
				e.Department,
				strconv.FormatFloat(e.Points, 'f', -1, 64),
				strconv.Itoa(e.Wins),
			})
		}
		table.Render()
	}
	render("Sports Championship", board.Sports)
	render("Cultural Championship", board.Cultural)
	fmt.Printf("Departments version %s\n\n", board.Version)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%s %s\n", green("Log level:"), yellow(next))
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n  %s\n", bold("Keyboard Shortcuts:"))
	fmt.Printf("    %s      - Open admin page in browser\n", cyan("a"))
	fmt.Printf("    %s      - Open public leaderboard in browser\n", cyan("p"))
	fmt.Printf("    %s      - Toggle HTTP request logging\n", cyan("h"))
	fmt.Printf("    %s      - Cycle log level (debug → info → warn → error)\n", cyan("l"))
	fmt.Printf("    %s      - Print overall standings\n", cyan("s"))
	fmt.Printf("    %s      - Quit server\n", cyan("q"))
	fmt.Printf("    %s      - Show this help\n\n", cyan("?"))
}

// keyActions is what the keyboard listener can do to the running server
type keyActions struct {
	adminURL  string
	publicURL string
	log       *logger.SlogLogger
	standings func()
	quit      func()
}

func fail(format string, args ...any) {
	color.Red(format, args...)
	os.Exit(1)
}

func main() {
	port := flag.Int("port", 0, "HTTP server port (overrides PORT)")
	dbURL := flag.String("db", "", "Database path or URL (overrides DATABASE_URL)")
	driver := flag.String("driver", "", "Database driver: sqlite3 or postgres (overrides DB_DRIVER)")
	adminPw := flag.String("adminpw", "", "Admin password (overrides ADMIN_PASSWORD, auto-generated if neither is set)")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	noBanner := flag.Bool("nobanner", false, "Skip the startup banner")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	standings := flag.Bool("standings", false, "Print the overall standings and exit")
	hashPw := flag.String("hashpw", "", "Print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `ChampBoard - Inter-Department Championship Standings

Usage:
  champboard [options]

Settings are read from the environment (and a .env file if present);
flags override them.

Options:
  -port int        HTTP server port (default 8081)
  -db string       Database path or URL (default "champboard.db")
  -driver string   sqlite3 or postgres (default "sqlite3")
  -adminpw str     Admin password (auto-generated if not set)
  -loglevel str    Log level: debug, info, warn, error (default "info")
  -nobanner        Skip the startup banner
  -nokeyboard      Disable keyboard shortcuts
  -standings       Print the overall standings and exit
  -hashpw str      Print a bcrypt hash for ADMIN_PASSWORD_HASH and exit
  -version         Show version and exit
  -help            Show this help message

Environment:
  SPORTS_ADMINS, CULTURAL_ADMINS, DEPARTMENT_ADMINS
                   Comma separated e-mails allowed into each admin area
  DEPARTMENTS, DEPARTMENTS_VERSION
                   "ID[:Label],..." seed list and its version tag
  REDIS_URL        Share live updates between instances
  BASE_URL, CORS_ORIGINS, SESSION_SECRET, LOG_FORMAT, FIXTURE_POLL_INTERVAL

Keyboard Shortcuts (when enabled):
  a                Open admin page in browser
  p                Open public leaderboard in browser
  h                Toggle HTTP request logging
  l                Cycle log level (debug → info → warn → error)
  s                Print overall standings
  q                Quit server
  ?                Show keyboard help

Examples:
  champboard                                   # sqlite champboard.db on port 8081
  champboard -port 8080 -db /data/fest.db      # custom port and database
  champboard -driver postgres -db postgres://fest@db/fest?sslmode=disable
  champboard -standings                        # print the tables and exit

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("champboard %s\n", version)
		return
	}

	if *hashPw != "" {
		hash, err := auth.HashPassword(*hashPw)
		if err != nil {
			fail("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail("Invalid configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *driver != "" {
		cfg.DBDriver = *driver
	}
	if *dbURL != "" {
		cfg.DatabaseURL = *dbURL
	}
	if *adminPw != "" {
		cfg.AdminPassword = *adminPw
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fail("Invalid configuration: %v", err)
	}

	if !*noBanner && !*standings {
		showBanner()
	}

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
	})

	// Setup admin authentication
	password := cfg.AdminPassword
	generated := false
	if password == "" && cfg.AdminPasswordHash == "" {
		password = auth.GeneratePassword()
		generated = true
	}
	policy := auth.NewAllowlist(map[models.Domain][]string{
		models.DomainSports:      cfg.SportsAdmins,
		models.DomainCultural:    cfg.CulturalAdmins,
		models.DomainDepartments: cfg.DepartmentAdmins,
	})
	adminAuth, err := auth.New(auth.Options{
		Secret:       []byte(cfg.SessionSecret),
		Password:     password,
		PasswordHash: cfg.AdminPasswordHash,
		Policy:       policy,
	})
	if err != nil {
		fail("Failed to set up admin authentication: %v", err)
	}

	a, err := app.New(appLog, cfg, web.GetTemplatesFS(), web.GetStaticFS(), adminAuth)
	if err != nil {
		fail("Failed to initialize application: %v", err)
	}
	defer a.Close()

	showStandings := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		board, err := a.Leaderboard(ctx)
		if err != nil {
			color.Red("Failed to load standings: %v", err)
			return
		}
		printStandings(board)
	}

	if *standings {
		showStandings()
		return
	}

	if policy.Empty() {
		appLog.Warn("No admins configured; set SPORTS_ADMINS, CULTURAL_ADMINS or DEPARTMENT_ADMINS to enable the admin area")
	}
	if generated {
		appLog.Info("Admin password", "password", password)
	}
	if cfg.SessionSecret == "" {
		appLog.Warn("SESSION_SECRET not set; sessions end when the server restarts")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restoreTerminal := func() {}
	if !*noKeyboard {
		printKeyboardHelp()
		restoreTerminal = startKeyboard(keyActions{
			adminURL:  fmt.Sprintf("http://localhost:%d/admin", cfg.Port),
			publicURL: fmt.Sprintf("http://localhost:%d/", cfg.Port),
			log:       appLog,
			standings: showStandings,
			quit:      stop,
		})
	} else {
		fmt.Printf("\n%s\n\n", yellow("Keyboard shortcuts disabled (use -nokeyboard=false to enable)"))
	}

	defer restoreTerminal()

	if err := a.Run(ctx); err != nil {
		restoreTerminal()
		a.Close()
		fail("Server error: %v", err)
	}
}
