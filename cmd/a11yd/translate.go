// ABOUTME: translate command translates text through the cached translation service
// ABOUTME: Repeated translations are served from the durable store

package main

import (
	"errors"
	"fmt"
	"strings"

	"digests-a11y/pkg/featureflags"

	"github.com/spf13/cobra"
)

var (
	translateFrom string
	translateTo   string
)

var translateCmd = &cobra.Command{
	Use:   "translate <text>",
	Short: "Translate text",
	Long:  "Translate text between languages. On any failure the original text is printed unchanged.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := newApp(cfg, true)
		defer a.Close()

		if !a.flags.IsEnabled(ctx, featureflags.TranslationEnabled) {
			return errors.New("translation is disabled")
		}

		service := a.translation(a.dependencies(ctx, nil))
		result := service.Translate(ctx, strings.Join(args, " "), translateFrom, translateTo)
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	translateCmd.Flags().StringVarP(&translateFrom, "from", "f", "", "source language, e.g. fr")
	translateCmd.Flags().StringVarP(&translateTo, "to", "t", "en", "target language")
	_ = translateCmd.MarkFlagRequired("from")
}
