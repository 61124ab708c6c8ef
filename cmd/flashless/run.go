package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/flashless-dev/flashless/internal/manifest"
	"github.com/flashless-dev/flashless/internal/preview"
	"github.com/flashless-dev/flashless/internal/report"
)

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	projectDir := fs.String("project-dir", "", "Project directory (required)")
	buildDir := fs.String("build-dir", "build", "Build directory, relative to the project unless absolute")
	manifestOverride := fs.String("manifest", "", "Manifest path override")
	host := fs.String("host", "127.0.0.1", "Host to bind")
	port := fs.Int("bind-port", 8787, "Port to bind (0 picks an ephemeral port)")
	requestLog := fs.String("request-log", "errors", "Request logging: all, errors, none")
	mode := fs.String("mode", "mock", "API mode (only mock is supported)")
	fixtures := fs.String("fixtures", "", "Fixtures directory override")
	noBuild := fs.Bool("no-build", false, "Skip the preflight firmware build")
	strict := fs.Bool("strict", false, "Fail when manifest parity validation reports errors")
	noOpen := fs.Bool("no-open", false, "Do not open the browser")
	allowAbsolutePaths := fs.Bool("allow-absolute-paths", false, "Allow absolute assetRoot/fixturesDir values in the manifest")
	noLiveReload := fs.Bool("no-live-reload", false, "Disable the live-reload watcher and stream")
	watchInterval := fs.Duration("watch-interval", time.Second, "File watcher polling interval")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", fs.Args())
	}
	if *projectDir == "" {
		return fmt.Errorf("--project-dir is required")
	}
	project, err := filepath.Abs(*projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	// .flashless.yaml supplies defaults; explicit flags win.
	defaults, err := loadProjectDefaults(project)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["host"] && defaults.Host != "" {
		*host = defaults.Host
	}
	if !set["bind-port"] && defaults.Port != 0 {
		*port = defaults.Port
	}
	if !set["request-log"] && defaults.RequestLog != "" {
		*requestLog = defaults.RequestLog
	}
	if !set["log-level"] && defaults.LogLevel != "" {
		*logLevel = defaults.LogLevel
	}
	if !set["no-live-reload"] && defaults.LiveReload != nil {
		*noLiveReload = !*defaults.LiveReload
	}

	ll := setupLogging()
	if err := applyLogLevel(ll, *logLevel); err != nil {
		return err
	}
	logPolicy, ok := preview.ParseLogPolicy(*requestLog)
	if !ok {
		return fmt.Errorf("unknown request log policy: %q", *requestLog)
	}
	if strings.ToLower(*mode) != manifest.ModeMock {
		return fmt.Errorf("only '--mode mock' is supported in v1")
	}

	build := *buildDir
	if !filepath.IsAbs(build) {
		build = filepath.Join(project, build)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	if !*noBuild {
		if err := runPreflightBuild(ctx, project, build); err != nil {
			return err
		}
	}

	manifestPath, err := manifest.Discover(project, *manifestOverride)
	if err != nil {
		return err
	}
	m, err := manifest.Load(manifestPath, project, &manifest.LoadOptions{
		FixturesDir:        *fixtures,
		AllowAbsolutePaths: *allowAbsolutePaths,
	})
	if err != nil {
		return err
	}

	validation, err := manifest.ValidateParity(m)
	if err != nil {
		return err
	}
	if validation.HasErrors() && *strict {
		return fmt.Errorf(
			"strict validation failed: missingRequiredFiles=%v missingFixtures=%v unresolvedRoutes=%v",
			validation.MissingRequiredFiles, validation.MissingFixtureFiles, validation.UnresolvedRoutes)
	}

	srv, err := preview.New(m, preview.Options{
		Host:          *host,
		Port:          *port,
		RequestLog:    logPolicy,
		LiveReload:    !*noLiveReload,
		WatchInterval: *watchInterval,
	})
	if err != nil {
		return err
	}

	boundHost, boundPort := splitAddr(srv.Addr())
	reportPath, err := report.Write(build, m, validation, boundHost, boundPort, manifest.ModeMock)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Manifest loaded", "path", m.SourcePath)
	slog.InfoContext(ctx, "Report written", "path", reportPath)
	if validation.HasErrors() {
		slog.WarnContext(ctx, "Validation warnings detected; use --strict to fail fast",
			"missingRequiredFiles", validation.MissingRequiredFiles,
			"missingFixtures", validation.MissingFixtureFiles,
			"unresolvedRoutes", validation.UnresolvedRoutes)
	}

	url := previewURL(boundHost, boundPort, m.UI.BasePath)
	if !*noOpen {
		openBrowser(ctx, url)
	}
	slog.InfoContext(ctx, "Preview running", "url", url, "liveReload", !*noLiveReload)

	go func() {
		<-ctx.Done()
		if err := srv.Stop(); err != nil {
			slog.Warn("Failed to stop preview server cleanly", "err", err)
		}
	}()
	return srv.ServeForever()
}

// runPreflightBuild runs the firmware build so the previewed assets match
// what a flash would ship.
func runPreflightBuild(ctx context.Context, projectDir, buildDir string) error {
	cmd := exec.CommandContext(ctx, "idf.py", "-C", projectDir, "-B", buildDir, "build")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.InfoContext(ctx, "Running preflight build", "cmd", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("preflight build failed (resolve build errors or use --no-build): %w", err)
	}
	return nil
}

func splitAddr(addr net.Addr) (string, int) {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String(), tcp.Port
	}
	return addr.String(), 0
}

// previewURL builds the address to print and open. Wildcard binds are
// rewritten to a loopback address a browser can actually reach.
func previewURL(host string, port int, basePath string) string {
	printable := host
	if host == "0.0.0.0" || host == "::" {
		printable = "127.0.0.1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(printable, fmt.Sprint(port)), basePath)
}

// openBrowser is best effort; a preview that cannot self-open still runs.
func openBrowser(ctx context.Context, url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		slog.Debug("Failed to open browser", "err", err)
	}
}
