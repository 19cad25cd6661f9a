// Package cli implements the vanta command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/JackVanta/VantaSDK/config"
	"github.com/JackVanta/VantaSDK/internal/llm"
	"github.com/JackVanta/VantaSDK/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
)

// rootCmd is the root command for vanta.
var rootCmd = &cobra.Command{
	Use:     "vanta",
	Version: "dev",
	Short:   "AI-assisted project builder",
	Long: `vanta runs the Vanta Builder: a chat assistant that generates, fixes,
refactors and explains code, and applies its file patches to a project.

Run "vanta serve" for the HTTP API or "vanta chat" for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(configPath); err != nil {
			return err
		}
		logging.InitLogger(config.AppConfig.Logging)
		return nil
	},
}

// SetVersion sets the version printed by --version. An empty v keeps the current one.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// newProviderClient builds the configured completion client. A missing credential is
// not an error: the returned client is nil and chat requests report it.
func newProviderClient(cfg config.ProviderConfig) (llm.Client, error) {
	client, err := llm.New(cfg)
	if errors.Is(err, llm.ErrNotConfigured) {
		logrus.Warnf("No credentials for provider '%s', chat is disabled", cfg.Name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create provider client: %w", err)
	}
	logrus.Infof("Using %s model %s", providerName(cfg), client.Model())
	return client, nil
}

func providerName(cfg config.ProviderConfig) string {
	if cfg.Name == "" {
		return "openai"
	}
	return cfg.Name
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(templatesCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
