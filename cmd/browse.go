package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/case-map-console/internal/bus"
	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/icons"
	"github.com/Ashfaaq98/case-map-console/internal/ingest"
	"github.com/Ashfaaq98/case-map-console/internal/ui"
)

var (
	forceTUI      bool
	instances     int
	themeName     string
	browseWatch   string
	browseNoFetch bool
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"serve"},
	Short:   "Open the case browser",
	Long: `Open the terminal case browser over the cases in the database.

The browser shows one or more side by side panes. Each pane has a map of
the U.S. with one marker per state that has cases, and a paginated card
grid. Typing in the filter box narrows both views to matching cases.

Cases are loaded once at startup. Use --watch to ingest new exports into
the database in the background; they appear in the next session.

Examples:
  # Browse with the default configuration
  case-map browse

  # Two independent panes side by side
  case-map browse --instances 2

  # Icons served over HTTP, light theme
  case-map browse --assets https://example.org/images --theme light`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVar(&forceTUI, "force-tui", false, "Force TUI mode even in unsupported terminals")
	browseCmd.Flags().IntVarP(&instances, "instances", "n", 1, "Number of side by side panes (1-4)")
	browseCmd.Flags().StringVar(&themeName, "theme", "", "Color theme (dark, light, high-contrast, cb-safe, neon)")
	browseCmd.Flags().StringVar(&browseWatch, "watch", "", "Folder to ingest into the database while browsing")
	browseCmd.Flags().BoolVar(&browseNoFetch, "no-prefetch", false, "Fetch icons lazily instead of at startup")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	if themeName != "" {
		config.UI.Theme = themeName
	}

	// Logs go to file while the TUI owns the terminal; errors still reach stderr.
	var logger *log.Logger
	logFile := setupFileLogger()
	if logFile != nil {
		logger = log.New(io.MultiWriter(logFile, &errorFilterWriter{os.Stderr}), "[browse] ", log.LstdFlags)
		defer logFile.Close()
	} else {
		logger = log.New(os.Stderr, "[browse] ", log.LstdFlags)
	}
	logger.Println("Starting Case-Map browser")
	logger.Printf("Terminal info: %s", getTerminalInfo())

	if !forceTUI && !canInitializeTUI() {
		if needsPseudoTTY() {
			logger.Println("No TTY available, using script command for pseudo-TTY...")
			return runWithPseudoTTY()
		}
		return fmt.Errorf("terminal does not support the browser; try 'case-map list cases' instead")
	}

	st, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := loadCatalog(ctx, st, config, logger)
	if err != nil {
		return err
	}
	defer cat.Close()
	if err := catalog.Install(cat); err != nil {
		return fmt.Errorf("failed to install catalog: %w", err)
	}

	iconLogger := log.New(logger.Writer(), "[icons] ", log.LstdFlags)
	cache := icons.New(icons.NewFetcher(config.Assets.Source), icons.Options{Logger: iconLogger})
	if err := icons.Install(cache); err != nil {
		return fmt.Errorf("failed to install icon cache: %w", err)
	}
	if !browseNoFetch {
		go func() {
			if err := cache.Prefetch(ctx, icons.All...); err != nil {
				iconLogger.Printf("Some icons are unavailable: %v", err)
			}
		}()
	}

	// Bus logs would draw over the TUI.
	eventBus := bus.NewBus(config.Redis.URL, log.New(logger.Writer(), "[bus] ", log.LstdFlags))
	defer eventBus.Close()

	if browseWatch != "" {
		if err := os.MkdirAll(browseWatch, 0755); err != nil {
			logger.Printf("Warning: Could not create ingest directory %s: %v", browseWatch, err)
		}
		fing := ingest.NewFolderIngestor(st, ingest.FolderOptions{
			Dir:    browseWatch,
			Watch:  true,
			Logger: log.New(logger.Writer(), "[ingest] ", log.LstdFlags),
		})
		go func() {
			if err := fing.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Printf("Folder ingest error: %v", err)
			}
		}()
	}

	app := ui.NewUI(ctx, ui.Options{
		Source:        cat,
		Instances:     instances,
		Icons:         cache,
		Bus:           eventBus,
		Logger:        log.New(logger.Writer(), "[ui] ", log.LstdFlags),
		CompactHeight: config.Layout.CompactHeight,
		NarrowWidth:   config.Layout.NarrowWidth,
		Attribution:   config.Map.Attribution,
		Theme:         config.UI.Theme,
	})
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Println("Case-Map browser stopped")
	return nil
}

// canInitializeTUI tests if tcell can actually be initialized
func canInitializeTUI() bool {
	screen, err := tcell.NewScreen()
	if err != nil {
		return false
	}

	err = screen.Init()
	if err != nil {
		return false
	}

	// Clean up immediately
	screen.Fini()
	return true
}

// getTerminalInfo returns detailed terminal information
func getTerminalInfo() string {
	var info []string

	term := os.Getenv("TERM")
	if term == "" {
		info = append(info, "TERM=<not set>")
	} else {
		info = append(info, fmt.Sprintf("TERM=%s", term))
	}

	if termProgram := os.Getenv("TERM_PROGRAM"); termProgram != "" {
		info = append(info, fmt.Sprintf("TERM_PROGRAM=%s", termProgram))
	}

	if width, height := getTerminalSize(); width > 0 && height > 0 {
		info = append(info, fmt.Sprintf("Size=%dx%d", width, height))
	}

	if isTerminal() {
		info = append(info, "TTY=yes")
	} else {
		info = append(info, "TTY=no")
	}

	if supportsColors() {
		info = append(info, "Colors=yes")
	} else {
		info = append(info, "Colors=no")
	}

	return strings.Join(info, ", ")
}

// getWorkingDir returns the current working directory.
// Falls back to the executable's directory if os.Getwd fails.
func getWorkingDir() string {
	if wd, err := os.Getwd(); err == nil && wd != "" {
		return wd
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolvePathRelativeToBase resolves a possibly relative path against a base directory.
// Absolute paths are returned unchanged.
func resolvePathRelativeToBase(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	p = strings.TrimPrefix(p, "./")
	return filepath.Join(base, p)
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// supportsColors checks if terminal supports colors
func supportsColors() bool {
	term := strings.ToLower(os.Getenv("TERM"))
	for _, hint := range []string{"color", "256", "truecolor", "24bit"} {
		if strings.Contains(term, hint) {
			return true
		}
	}
	if os.Getenv("COLORTERM") != "" {
		return true
	}
	for _, supported := range []string{"xterm", "screen", "tmux", "linux", "ansi"} {
		if strings.Contains(term, supported) {
			return true
		}
	}
	return false
}

// needsPseudoTTY checks if we need to use script command for pseudo-TTY
func needsPseudoTTY() bool {
	// Try to actually open /dev/tty (not just check if it exists)
	if file, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		file.Close()
		return false
	}
	return true
}

// runWithPseudoTTY re-executes the browse command under script(1) so tcell
// gets a terminal.
func runWithPseudoTTY() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmdArgs := append([]string(nil), os.Args[1:]...)
	hasForceTUI := false
	for _, arg := range cmdArgs {
		if arg == "--force-tui" {
			hasForceTUI = true
			break
		}
	}
	if !hasForceTUI {
		cmdArgs = append(cmdArgs, "--force-tui")
	}

	quotedArgs := make([]string, len(cmdArgs))
	for i, arg := range cmdArgs {
		quotedArgs[i] = fmt.Sprintf("%q", arg)
	}
	fullCmd := fmt.Sprintf("TERM=%s %q %s", os.Getenv("TERM"), executable, strings.Join(quotedArgs, " "))

	scriptCmd := exec.Command("script", "-qec", fullCmd, "/dev/null")
	scriptCmd.Stdin = os.Stdin
	scriptCmd.Stdout = os.Stdout
	scriptCmd.Stderr = os.Stderr
	scriptCmd.Env = os.Environ()
	return scriptCmd.Run()
}

// setupFileLogger opens logs/case-map-browse.log for appending.
func setupFileLogger() *os.File {
	logDir := filepath.Join(getWorkingDir(), "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil
	}

	logPath := filepath.Join(logDir, "case-map-browse.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}
	return logFile
}

// errorFilterWriter only writes error messages to the underlying writer
type errorFilterWriter struct {
	writer io.Writer
}

func (w *errorFilterWriter) Write(p []byte) (n int, err error) {
	lc := strings.ToLower(string(p))
	if strings.Contains(lc, "error") ||
		strings.Contains(lc, "failed") ||
		strings.Contains(lc, "panic") {
		return w.writer.Write(p)
	}
	// Suppress non-error logs while the TUI is drawn
	return len(p), nil
}
