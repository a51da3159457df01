package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/qrgen/config"
)

var version = "v0.1.0"

// options holds flag values; only flags the user actually set override the
// loaded configuration.
type options struct {
	configPath string
	github     string
	docker     string
	dir        string
	fill       string
	back       string
	size       int
	recovery   string
	dataDir    string
	noHistory  bool
	webhook    string
	logLevel   string
	logFormat  string

	strict   bool
	port     int
	interval time.Duration
	limit    int
	target   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Runtime errors are printed without the
// usage text; flag errors still show it.
func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "qrgen",
		Short: "Generate colored QR codes for a repository and its registry image",
		Long: `qrgen writes github_qr.png and docker_qr.png to the output directory,
deleting the previous files first. Each code is recolored from black-on-white
to the configured fill and back colors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateCmd(cmd, &opts)
		},
	}
	// Flags have parsed by now; later failures are not usage mistakes.
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to config file")
	pf.StringVarP(&opts.github, "github", "g", "", "GitHub repository URL (overrides env)")
	pf.StringVarP(&opts.docker, "docker", "d", "", "Docker-Hub image URL (overrides env)")
	pf.StringVar(&opts.dir, "dir", "", "Output directory (overrides QR_CODE_DIR)")
	pf.StringVar(&opts.fill, "fill", "", "Foreground color name or hex (overrides FILL_COLOR)")
	pf.StringVar(&opts.back, "back", "", "Background color name or hex (overrides BACK_COLOR)")
	pf.IntVar(&opts.size, "size", 0, "Image side in pixels, or negative for pixels per module")
	pf.StringVar(&opts.recovery, "recovery", "", "Error recovery level: low, medium, high, highest")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Directory holding the history database")
	pf.BoolVar(&opts.noHistory, "no-history", false, "Do not record runs in the history database")
	pf.StringVar(&opts.webhook, "webhook", "", "URL to POST a run summary to")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: text, json, pretty")

	// --- generate command ----------------------------------------------------
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate both QR codes, overwriting old ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateCmd(cmd, &opts)
		},
	}
	root.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero if any target fails")
	generateCmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero if any target fails")
	root.AddCommand(generateCmd)

	// --- serve command -------------------------------------------------------
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the QR codes over HTTP and regenerate on demand",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeCmd(cmd, &opts)
		},
	}
	serveCmd.Flags().IntVar(&opts.port, "port", 0, "HTTP port")
	serveCmd.Flags().DurationVar(&opts.interval, "interval", 0, "Regenerate every interval (0 disables)")
	root.AddCommand(serveCmd)

	// --- history command -----------------------------------------------------
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryCmd(cmd, &opts)
		},
	}
	historyCmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "Maximum number of rows")
	historyCmd.Flags().StringVar(&opts.target, "target", "", "Only show this target (github or docker)")
	root.AddCommand(historyCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrgen %s\n", version)
		},
	})

	return root
}
