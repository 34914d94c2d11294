package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/synaptica-ai/premium-estimator/pkg/common/config"
	"github.com/synaptica-ai/premium-estimator/pkg/common/logger"
	"github.com/synaptica-ai/premium-estimator/pkg/form"
)

// options holds flags shared by every subcommand.
type options struct {
	modelPath   string
	scalerPath  string
	catalogPath string
	locale      string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{}

	root := &cobra.Command{
		Use:           "premium-cli",
		Short:         "Estimate health insurance premiums from the command line.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Configure(opts.logLevel, "text")
			logger.Log.SetOutput(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.modelPath, "model", cfg.ModelArtifactPath, "path to the model artifact")
	flags.StringVar(&opts.scalerPath, "scaler", cfg.ScalerArtifactPath, "path to the scaler artifact")
	flags.StringVar(&opts.catalogPath, "catalog", cfg.FormCatalogPath, "form catalog override (embedded catalog when empty)")
	flags.StringVar(&opts.locale, "locale", cfg.CurrencyLocale, "locale used to format estimates")
	flags.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level")

	root.AddCommand(newPredictCmd(opts, cfg.StrictValidation))
	root.AddCommand(newFormCmd(opts))
	return root
}

// flagName turns a form field key into a flag name,
// "Number of Dependants" -> "number-of-dependants".
func flagName(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), " ", "-")
}

func loadCatalog(opts *options) (form.Catalog, error) {
	return form.Load(opts.catalogPath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
