package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"computerx_chatbot/internal/config"
	"computerx_chatbot/internal/logger"
)

// DefaultConfigPath is read when --config is not given
const DefaultConfigPath = "config.yaml"

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg *config.Config
}

// NewRootCmd builds the nayana command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nayana",
		Short: "Nayana - the Computer X catalog assistant",
		Long: `Nayana answers questions about the Computer X product catalog, handles small talk
and learns new answers from the people it talks to.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "config file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newChatCmd(opts),
		newTeachCmd(opts),
		newCatalogCmd(opts),
		newToolsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) init() error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if o.noColor {
		color.NoColor = true
	}
	o.cfg = cfg
	return nil
}

// app builds the application for one command run
func (o *rootOptions) app(ctx context.Context) (*App, error) {
	return NewApp(ctx, o.cfg)
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
