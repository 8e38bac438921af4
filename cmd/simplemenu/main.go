// simplemenu composes interactive menus out of flat item specifications and
// shows them through rofi or fzf.
package main

import (
	"context"
	goerrors "errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"simplemenu/internal/config"
	"simplemenu/internal/errors"
	"simplemenu/internal/logging"
)

var (
	verbose         int
	configFile      string
	interfaceFlag   string
	tokenSeparators []string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "simplemenu",
		Short:         "Composable menus for rofi and fzf",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(verbose)
		},
	}

	root.PersistentFlags().CountVar(&verbose, "verbose", "increase log verbosity, repeatable")
	root.PersistentFlags().StringVarP(&configFile, "config-file", "c", "", "configuration file path")
	root.PersistentFlags().StringVarP(&interfaceFlag, "interface", "i", "", "picker interface (auto|fzf|rofi)")
	root.PersistentFlags().StringArrayVarP(&tokenSeparators, "token-separator", "s", nil,
		"token separator, repeat to define deeper nesting levels")

	root.AddCommand(newMenuCmd(), newItemCmd(), newHelperCmd())
	return root
}

// loadConfig resolves the configuration with the global flag overrides.
func loadConfig() (*config.Config, error) {
	return config.Load(config.Options{
		ConfigFile:      configFile,
		Interface:       interfaceFlag,
		TokenSeparators: tokenSeparators,
	})
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err == nil {
		logging.Sync()
		return
	}
	if goerrors.Is(err, errors.ErrQuit) {
		logging.L().Info("quit requested")
		logging.Sync()
		os.Exit(errors.QuitExitCode)
	}
	logging.L().Error("command failed", zap.Error(err))
	logging.Sync()
	os.Exit(1)
}
