package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JackVanta/VantaSDK/config"
	"github.com/JackVanta/VantaSDK/internal/chat"
	"github.com/JackVanta/VantaSDK/internal/files"
	"github.com/JackVanta/VantaSDK/internal/llm"
	"github.com/JackVanta/VantaSDK/internal/server"
	"github.com/JackVanta/VantaSDK/internal/waitlist"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the builder HTTP API",
	Long: `Serve the builder API: chat, project import, templates and the waitlist.

The provider credential is read from the configuration or OPENAI_API_KEY. Without it
the server still starts and chat requests answer with a configuration error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		client, err := newProviderClient(cfg.Provider)
		if err != nil {
			return err
		}

		srv := server.New(
			server.Config{
				Port:       cfg.Server.Port,
				StaticDir:  cfg.Server.StaticDir,
				MaxZipSize: cfg.Upload.MaxZipSize,
			},
			newChatService(client, cfg.Builder),
			newCollector(cfg.Upload),
			waitlist.NewStore(cfg.Waitlist.Path),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func newChatService(client llm.Client, cfg config.BuilderConfig) *chat.Service {
	return chat.NewService(client, chat.Options{
		HistoryLimit: cfg.HistoryLimit,
		ContextChars: cfg.ContextChars,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
	})
}

func newCollector(cfg config.UploadConfig) *files.Collector {
	return files.NewCollector(files.Options{
		MaxFileSize: cfg.MaxFileSize,
		MaxFiles:    cfg.MaxFiles,
		IgnoreGlobs: cfg.IgnoreGlobs,
	})
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on (overrides server.port)")
}
