package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/abrezinsky/gridpicks/internal/app"
	"github.com/abrezinsky/gridpicks/internal/config"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/pkg/timing"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

var (
	version = "dev"
)

// showBanner prints the logo, then runs the five start lights unless
// skipLights is set
func showBanner(skipLights bool) {
	width := 52
	border := strings.Repeat("═", width)

	logo := []string{
		"    ____      _     _ ____  _      _                ",
		"   / ___|_ __(_) __| |  _ \\(_) ___| | _____        ",
		"  | |  _| '__| |/ _` | |_) | |/ __| |/ / __|       ",
		"  | |_| | |  | | (_| |  __/| | (__|   <\\__ \\       ",
		"   \\____|_|  |_|\\__,_|_|   |_|\\___|_|\\_\\___/       ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		for len([]rune(line)) < width {
			line += " "
		}
		fmt.Printf("  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n", cyan, border, reset)

	if skipLights {
		fmt.Print("\n")
		return
	}

	fmt.Print("\n")
	for lit := 1; lit <= 5; lit++ {
		fmt.Printf("%s    %s%s%s%s\n", clearLine, red, strings.Repeat("● ", lit), strings.Repeat("○ ", 5-lit), reset)
		fmt.Printf(moveUp, 1)
		time.Sleep(300 * time.Millisecond)
	}
	time.Sleep(400 * time.Millisecond)
	fmt.Printf("%s    %sLIGHTS OUT AND AWAY WE GO%s\n\n", clearLine, bold+green, reset)
}

func main() {
	envFile := flag.String("env", ".env", "Optional .env file with GRIDPICKS_* settings")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "", "Log level (debug, info, warn, error)")
	season := flag.Int("season", 0, "Season year")
	feedURL := flag.String("feed", "", "Timing feed base URL")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip start lights")
	noConsole := flag.Bool("noconsole", false, "Disable console commands")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `GridPicks - MotoGP Prediction Game

Usage:
  gridpicks [options]

Options:
  -env string    Optional .env file (default ".env")
  -port int      HTTP server port (default 8081)
  -db string     SQLite database path (default "gridpicks.db")
  -adminpw str   Admin password (auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -season int    Season year (default current year)
  -feed string   Timing feed base URL
  -noanimate     Show logo only, skip start lights
  -noconsole     Disable console commands
  -version       Show version and exit
  -help          Show this help message

Every option can also be set as a GRIDPICKS_* environment variable,
for example GRIDPICKS_PORT or GRIDPICKS_JWT_SECRET. Flags win.

Console Commands (type and press Enter):
  o              Open leaderboard in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show command help

Examples:
  gridpicks                          # Run on port 8081 with gridpicks.db
  gridpicks -port 8080               # Run on port 8080
  gridpicks -season 2025 -db 25.db   # One database per season
  gridpicks -adminpw secret123       # Use specific admin password

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("gridpicks %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Flags override the environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "db":
			cfg.DBPath = *dbPath
		case "adminpw":
			cfg.AdminPassword = *adminPw
		case "loglevel":
			cfg.LogLevel = *logLevel
		case "season":
			cfg.Season = *season
		case "feed":
			cfg.TimingFeedURL = *feedURL
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && !*noConsole
	if cfg.LogFormat == "text" {
		showBanner(*noAnimate || !interactive)
	}

	appLog := logger.NewWithOptions(logger.Options{
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		HTTPLogging: cfg.HTTPLogging,
	})

	// Feed URL is read from settings on every call
	feed := timing.NewHTTPClient(cfg.TimingRPS, appLog)

	a, err := app.New(cfg, appLog, feed)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	if cfg.AdminPassword == "" {
		appLog.Info("Admin password", "password", a.AdminPassword())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactive {
		c := newConsole(os.Stdin, os.Stdout, appLog, stop)
		c.leaderboardURL = fmt.Sprintf("http://localhost:%d/api/leaderboard", cfg.Port)
		c.printHelp()
		go c.run(ctx)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
