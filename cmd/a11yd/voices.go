// ABOUTME: voices command lists the voices of the configured speech engine
// ABOUTME: Marks the voice read-aloud would pick for --lang

package main

import (
	"errors"
	"fmt"

	"digests-a11y/core/domain"
	"digests-a11y/core/playback"

	"github.com/spf13/cobra"
)

var voicesLang string

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List synthesis voices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := newApp(cfg, true)
		defer a.Close()

		synth, err := a.synthesizer(ctx, a.dependencies(ctx, nil))
		if err != nil {
			return fmt.Errorf("failed to start speech engine: %w", err)
		}
		if synth == nil {
			return errors.New("speech is disabled")
		}

		voices, err := synth.Voices(ctx)
		if err != nil {
			return err
		}

		var selected *domain.Voice
		if voicesLang != "" {
			selected = playback.SelectVoice(voices, voicesLang)
		}

		out := cmd.OutOrStdout()
		titleColor.Fprintf(out, "%d voices\n", len(voices))
		for _, v := range voices {
			line := fmt.Sprintf("  %-32s %-8s %s", v.Name, v.Language, v.Gender)
			if selected != nil && v.Name == selected.Name {
				successColor.Fprintln(out, line+"  ← selected")
				continue
			}
			fmt.Fprintln(out, line)
		}
		if voicesLang != "" && selected == nil {
			warningColor.Fprintf(out, "No voice for %s, the engine default will be used\n", voicesLang)
		}
		return nil
	},
}

func init() {
	voicesCmd.Flags().StringVarP(&voicesLang, "lang", "l", "", "show the voice selected for this language")
}
