package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/abrezinsky/gridpicks/internal/logger"
)

// starter launches an external command without waiting for it
type starter interface {
	Start(name string, args ...string) error
}

type execStarter struct{}

func (execStarter) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// openBrowser opens url with the platform's default handler
func openBrowser(url string, s starter, goos string) error {
	switch goos {
	case "linux":
		return s.Start("xdg-open", url)
	case "darwin":
		return s.Start("open", url)
	case "windows":
		return s.Start("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", goos)
	}
}

// console reads operator commands, one per line
type console struct {
	in             io.Reader
	out            io.Writer
	log            *logger.SlogLogger
	quit           func()
	starter        starter
	goos           string
	leaderboardURL string
}

func newConsole(in io.Reader, out io.Writer, log *logger.SlogLogger, quit func()) *console {
	return &console{
		in:      in,
		out:     out,
		log:     log,
		quit:    quit,
		starter: execStarter{},
		goos:    runtime.GOOS,
	}
}

// run handles commands until input ends, ctx is done or q is entered
func (c *console) run(ctx context.Context) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !c.handle(line) {
				return
			}
		}
	}
}

// handle executes one command and reports whether to keep reading
func (c *console) handle(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
	case "o":
		fmt.Fprintf(c.out, "%sOpening leaderboard in browser...%s\n", cyan, reset)
		if err := openBrowser(c.leaderboardURL, c.starter, c.goos); err != nil {
			fmt.Fprintf(c.out, "%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if c.log.IsHTTPLoggingEnabled() {
			c.log.DisableHTTPLogging()
			fmt.Fprintf(c.out, "%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			c.log.EnableHTTPLogging()
			fmt.Fprintf(c.out, "%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		c.cycleLogLevel()
	case "q":
		fmt.Fprintf(c.out, "%sShutting down server...%s\n", yellow, reset)
		c.quit()
		return false
	case "?":
		c.printHelp()
	default:
		fmt.Fprintf(c.out, "Unknown command %q, type ? for help\n", line)
	}
	return true
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func (c *console) cycleLogLevel() {
	var next string
	switch c.log.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	default:
		next = "debug"
	}

	c.log.SetLevel(logger.ParseLevel(next))
	fmt.Fprintf(c.out, "%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printHelp displays all available console commands
func (c *console) printHelp() {
	fmt.Fprintf(c.out, "\n%s%s  Console commands (type and press Enter):%s\n", bold, green, reset)
	fmt.Fprintf(c.out, "    %so%s      - Open leaderboard in browser\n", cyan, reset)
	fmt.Fprintf(c.out, "    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Fprintf(c.out, "    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Fprintf(c.out, "    %sq%s      - Quit server\n", cyan, reset)
	fmt.Fprintf(c.out, "    %s?%s      - Show this help\n\n", cyan, reset)
}
