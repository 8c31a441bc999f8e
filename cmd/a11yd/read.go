// ABOUTME: read command speaks a page, file or feed item aloud
// ABOUTME: Drives the playback controller until reading finishes or the user presses Ctrl-C

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"digests-a11y/core/domain"
	"digests-a11y/core/extractor"
	"digests-a11y/core/interfaces"
	"digests-a11y/core/notify"
	"digests-a11y/core/playback"
	"digests-a11y/infrastructure/content/feed"
	"digests-a11y/infrastructure/content/reader"
	"digests-a11y/pkg/utils/duration"

	"github.com/spf13/cobra"
)

var (
	readLang     string
	readItem     int
	readSelector string
)

var readCmd = &cobra.Command{
	Use:   "read <url|file|->",
	Short: "Read a page aloud",
	Long: `Extract the readable text of a web page (through its reader view), an HTML file
or HTML on stdin ("-") and speak it unit by unit. With --item the URL is treated as a
feed and the given entry is read. Press Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVarP(&readLang, "lang", "l", "", "content language used to pick a voice (default speech.language)")
	readCmd.Flags().IntVarP(&readItem, "item", "i", -1, "read entry N of a feed instead of a page")
	readCmd.Flags().StringVar(&readSelector, "selector", "", "CSS selector of the main content region")
}

func runRead(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, true)
	defer a.Close()

	term := newTerminal(cmd.OutOrStdout())
	queue := notify.NewQueue(notify.WithLogger(a.logger), notify.WithOnChange(term.Notifications))
	defer queue.Close()

	deps := a.dependencies(ctx, queue)
	synth, err := a.synthesizer(ctx, deps)
	if err != nil {
		return fmt.Errorf("failed to start speech engine: %w", err)
	}
	if synth == nil {
		return fmt.Errorf("speech is disabled; set SPEECH_ENGINE to google or console")
	}

	source, err := contentProvider(cmd.InOrStdin(), args[0], deps, extractor.Options{MainSelector: readSelector})
	if err != nil {
		return err
	}
	provider := &measuredProvider{ContentProvider: source}

	lang := readLang
	if lang == "" {
		lang = cfg.Speech.Language
	}

	var reading atomic.Bool
	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	ctrl := playback.NewController(synth, provider, deps, playback.Config{Language: lang},
		playback.WithHighlighter(term),
		playback.WithOnChange(func(s domain.ReadingStatus) {
			switch s.State {
			case domain.ReadingStateReading:
				reading.Store(true)
			case domain.ReadingStateFinished, domain.ReadingStateIdle:
				if reading.Load() {
					finish()
				}
			}
		}),
	)
	defer ctrl.Close()

	ctrl.Start(ctx)
	if status := ctrl.Status(); !reading.Load() && status.State == domain.ReadingStateIdle {
		return fmt.Errorf("nothing to read at %s", args[0])
	}
	if v := ctrl.Voice(); v != nil {
		term.Println(infoColor, "🗣  Voice: %s (%s)", v.Name, v.Language)
	}
	term.Println(dimColor, "📖 %d sections, about %s", provider.units,
		duration.HumanReadable(duration.ListeningTime(provider.words, cfg.Speech.WordsPerMinute)))

	select {
	case <-done:
		term.Println(successColor, "✅ Finished reading")
	case <-ctx.Done():
		ctrl.Stop()
		term.Println(warningColor, "⏹  Stopped")
	}
	return nil
}

// measuredProvider records the size of the extracted content
type measuredProvider struct {
	interfaces.ContentProvider
	units int
	words int
}

func (m *measuredProvider) Units(ctx context.Context) ([]domain.SpeakableUnit, error) {
	units, err := m.ContentProvider.Units(ctx)
	m.units = len(units)
	m.words = 0
	for _, u := range units {
		m.words += duration.CountWords(u.Text)
	}
	return units, err
}

// contentProvider picks the document source for target
func contentProvider(stdin io.Reader, target string, deps interfaces.Dependencies, opts extractor.Options) (interfaces.ContentProvider, error) {
	switch {
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		if readItem >= 0 {
			return feed.NewSource(deps).Provider(target, readItem, opts), nil
		}
		return reader.NewSource(deps).Provider(target, opts), nil
	case target == "-":
		markup, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return extractor.NewHTMLProvider(string(markup), opts), nil
	default:
		markup, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", target, err)
		}
		return extractor.NewHTMLProvider(string(markup), opts), nil
	}
}
