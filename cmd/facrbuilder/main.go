package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"facr-builder/internal/catalog"
	"facr-builder/internal/engine"
	"facr-builder/internal/model"
	"facr-builder/internal/parser"
	"facr-builder/internal/resolver"
	"facr-builder/internal/sink"
	"facr-builder/pkg/lob"
)

var (
	hostsFile      string
	servicesFile   string
	outFile        string
	hostLOB        string
	provider       string
	dbDSN          string
	resolveTimeout time.Duration
	logLevel       string
	logFile        string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "facrbuilder [service names...]",
		Short: "Generates firewall access-control rule entries for hosts and services",
		Long: `facrbuilder resolves a list of hosts and a set of named service
	definitions, expands every host/service pairing into firewall
	access-control rules, and writes the result as CSV rows.`,
		RunE: run,
	}

	rootCmd.Flags().StringVar(&hostsFile, "hosts", "", "Host list file (falls back to $HOSTS)")
	rootCmd.Flags().StringVar(&servicesFile, "services", "", "Service catalog YAML file (falls back to $SERVICES)")
	rootCmd.Flags().StringVar(&outFile, "out", "", "Output CSV file (falls back to $CSVOUT)")
	rootCmd.Flags().StringVar(&hostLOB, "lob", "FUELS", "Line of business for the hosts")
	rootCmd.Flags().StringVar(&provider, "provider", "yaml", "Catalog provider type: 'yaml' or 'mariadb'")
	rootCmd.Flags().StringVar(&dbDSN, "db", "", "Database connection string (for 'mariadb' provider)")
	rootCmd.Flags().DurationVar(&resolveTimeout, "resolve-timeout", 0, "Per-lookup DNS timeout (0 = unbounded)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// config collects every knob the run needs, resolved from flags and
// environment once at the boundary.
type config struct {
	HostsFile      string
	ServicesFile   string
	OutFile        string
	HostLOB        string
	Provider       string
	DSN            string
	ResolveTimeout time.Duration
}

// loadConfig merges flag values with the legacy HOSTS/SERVICES/CSVOUT
// environment variables (flags win) and validates the result.
func loadConfig() (*config, error) {
	v := viper.New()
	v.BindEnv("hosts", "HOSTS")
	v.BindEnv("services", "SERVICES")
	v.BindEnv("out", "CSVOUT")

	cfg := &config{
		HostsFile:      hostsFile,
		ServicesFile:   servicesFile,
		OutFile:        outFile,
		Provider:       provider,
		DSN:            dbDSN,
		ResolveTimeout: resolveTimeout,
	}
	if cfg.HostsFile == "" {
		cfg.HostsFile = v.GetString("hosts")
	}
	if cfg.ServicesFile == "" {
		cfg.ServicesFile = v.GetString("services")
	}
	if cfg.OutFile == "" {
		cfg.OutFile = v.GetString("out")
	}

	normalized, ok := lob.Normalize(hostLOB)
	if !ok {
		return nil, fmt.Errorf("unknown lob '%s' (known: %s)", hostLOB, strings.Join(lob.Names(), ", "))
	}
	cfg.HostLOB = normalized

	if cfg.HostsFile == "" {
		return nil, fmt.Errorf("host list not configured: set --hosts or the HOSTS environment variable")
	}
	if cfg.OutFile == "" {
		return nil, fmt.Errorf("output file not configured: set --out or the CSVOUT environment variable")
	}
	switch cfg.Provider {
	case "yaml":
		if cfg.ServicesFile == "" {
			return nil, fmt.Errorf("service catalog not configured: set --services or the SERVICES environment variable")
		}
	case "mariadb":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database connection string must be provided for mariadb provider")
		}
	default:
		return nil, fmt.Errorf("unknown catalog provider: %s", cfg.Provider)
	}

	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	logger := setupLogger(logLevel, logFile)
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return err
	}

	slog.Info("Loading service catalog", "provider", cfg.Provider)
	cat, err := loadCatalog(cfg)
	if err != nil {
		slog.Error("Failed to load service catalog", "error", err)
		return err
	}
	slog.Info("Service catalog loaded", "services", cat.Len())

	if len(args) == 0 {
		listAvailableServices(cmd.OutOrStdout(), cat)
		return fmt.Errorf("no service name(s) provided")
	}

	hostsF, err := os.Open(cfg.HostsFile)
	if err != nil {
		slog.Error("Failed to open host list", "path", cfg.HostsFile, "error", err)
		return err
	}
	defer hostsF.Close()

	names, err := parser.ParseHosts(hostsF)
	if err != nil {
		slog.Error("Failed to parse host list", "path", cfg.HostsFile, "error", err)
		return err
	}
	slog.Info("Host list loaded", "path", cfg.HostsFile, "hosts", len(names))

	res := resolver.New(nil)
	res.Timeout = cfg.ResolveTimeout
	expander := engine.NewExpander(res)

	ctx := cmd.Context()
	hosts := expander.ResolveHosts(ctx, names)

	var rules []model.Rule
	unknown := 0
	for _, name := range args {
		svc, ok := cat.Get(name)
		if !ok {
			slog.Warn("Service not found in catalog, skipping", "service", name)
			unknown++
			continue
		}
		if svc.Bidirectional {
			slog.Info("Bi-directional communication enabled between hosts and service", "service", name)
		}
		slog.Info("Generating rules", "service", name)
		rules = append(rules, expander.Expand(ctx, hosts, cfg.HostLOB, svc)...)
	}
	if unknown == len(args) {
		return fmt.Errorf("none of the requested services exist in the catalog")
	}

	outF, err := os.Create(cfg.OutFile)
	if err != nil {
		slog.Error("Failed to create output file", "path", cfg.OutFile, "error", err)
		return err
	}
	defer outF.Close()

	written, err := sink.WriteCSV(outF, rules)
	if err != nil {
		slog.Error("Failed to write rules", "path", cfg.OutFile, "error", err)
		return err
	}
	slog.Info("Rules written", "path", cfg.OutFile, "count", written)
	return nil
}

func loadCatalog(cfg *config) (*catalog.Catalog, error) {
	switch cfg.Provider {
	case "yaml":
		file, err := os.Open(cfg.ServicesFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return catalog.LoadYAML(file)
	case "mariadb":
		loader, err := catalog.NewMariaDBLoader(cfg.DSN)
		if err != nil {
			return nil, err
		}
		defer loader.Close()
		return loader.Load()
	default:
		return nil, fmt.Errorf("unknown catalog provider: %s", cfg.Provider)
	}
}

func listAvailableServices(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w, "Available services:")
	for _, name := range cat.Names() {
		fmt.Fprintln(w, "  -", name)
	}
}

func setupLogger(level, logFilePath string) *slog.Logger {
	var logWriter io.Writer = os.Stderr
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logWriter = f
		}
		// We don't log an error here because the logger isn't set up yet.
		// It will just fall back to stderr.
	}

	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: lvl}))
}
