// ABOUTME: Command line entry point for the Digests accessibility service
// ABOUTME: Provides serve, read, caption, translate and voices commands built with cobra

package main

import (
	"os"

	"digests-a11y/pkg/config"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags
var version = "1.0.0"

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "a11yd",
	Short: "Accessibility channels for the Digests reader",
	Long: `a11yd reads pages aloud, shows live captions from the microphone,
translates text through a durable cache and serves the same features over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./digests-a11y.yaml)")
	rootCmd.AddCommand(serveCmd, readCmd, captionCmd, translateCmd, voicesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
