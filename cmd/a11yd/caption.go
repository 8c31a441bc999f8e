// ABOUTME: caption command shows live captions from the microphone
// ABOUTME: Keeps the caption controller running until Ctrl-C, then prints the final transcript

package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"digests-a11y/core/captions"
	"digests-a11y/core/notify"

	"github.com/spf13/cobra"
)

var captionLang string

var captionCmd = &cobra.Command{
	Use:   "caption",
	Short: "Show live captions from the microphone",
	Long: `Stream microphone audio through ffmpeg to the recognition service and show the
transcript as it is spoken. Recognition restarts automatically when the service ends a
segment. Press Ctrl-C to stop.`,
	Args: cobra.NoArgs,
	RunE: runCaption,
}

func init() {
	captionCmd.Flags().StringVarP(&captionLang, "lang", "l", "", "spoken language (default captions.language)")
}

func runCaption(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, true)
	defer a.Close()

	recognizer := a.recognizer(ctx)
	if recognizer == nil {
		return errors.New("captions are disabled; set CAPTIONS_ENGINE=deepgram and DEEPGRAM_API_KEY")
	}

	term := newTerminal(cmd.OutOrStdout())
	queue := notify.NewQueue(notify.WithLogger(a.logger), notify.WithOnChange(term.Notifications))
	defer queue.Close()

	lang := captionLang
	if lang == "" {
		lang = cfg.Captions.Language
	}

	ctrl := captions.NewController(recognizer, a.dependencies(ctx, queue), captions.Config{Language: lang},
		captions.WithOnTranscript(term.Caption))
	defer ctrl.Close()

	ctrl.Start(ctx)
	if !ctrl.Active() {
		return errors.New("live captions could not start")
	}
	term.Println(titleColor, "🎙  Listening (%s), press Ctrl-C to stop", lang)

	<-ctx.Done()
	ctrl.Stop()

	if transcript := ctrl.Transcript(); transcript != "" {
		term.Println(titleColor, "Transcript:")
		term.Println(captionColor, "%s", transcript)
	}
	return nil
}
