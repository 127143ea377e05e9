package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/common"
	"github.com/shapedtime/cuewords/internal/config"
	"github.com/shapedtime/cuewords/internal/dialogue"
	"github.com/shapedtime/cuewords/internal/logging"
	"github.com/shapedtime/cuewords/internal/navigation"
	"github.com/shapedtime/cuewords/internal/subtitle"
	"github.com/shapedtime/cuewords/internal/tokenize"
	"github.com/shapedtime/cuewords/internal/translate"
)

type appKey struct{}

// app holds the services shared by all commands.
type app struct {
	cfg        *config.Config
	subtitles  *subtitle.Service
	translator translate.Translator
	out        io.Writer
}

func setup(c *cli.Context) error {
	if _, err := logging.Setup(logging.Options{Level: c.String("log-level")}); err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if server := c.String("server"); server != "" {
		cfg.Subtitles.BaseURL = server
		cfg.Translate.Mode = config.TranslateRelay
		cfg.Translate.Endpoint = server
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	extractor, err := dialogue.NewExtractor(cfg.Dialogue.Strategy, cfg.Dialogue.ChineseFont, cfg.Dialogue.EnglishFont)
	if err != nil {
		return err
	}

	var loader subtitle.Loader
	if cfg.Subtitles.BaseURL != "" {
		loader = subtitle.NewHTTPLoader(cfg.Subtitles.BaseURL, cfg.Subtitles.Extension)
	} else {
		loader = subtitle.NewFileLoader(os.DirFS(cfg.Subtitles.Dir), cfg.Subtitles.Extension)
	}

	a := &app{
		cfg:        cfg,
		subtitles:  subtitle.NewService(loader, extractor, cfg.Subtitles.Charset, nil),
		translator: newTranslator(cfg.Translate),
		out:        c.App.Writer,
	}
	c.Context = context.WithValue(c.Context, appKey{}, a)
	return nil
}

func fromContext(c *cli.Context) *app {
	return c.Context.Value(appKey{}).(*app)
}

func newTranslator(cfg config.TranslateConfig) translate.Translator {
	if cfg.Mode == config.TranslateRelay {
		return translate.NewRelayClient(cfg.Endpoint)
	}
	youdao := translate.NewYoudaoClient(translate.YoudaoConfig{
		Endpoint: cfg.Endpoint,
		AppKey:   cfg.AppKey,
		Secret:   cfg.Secret,
		From:     cfg.From,
		To:       cfg.To,
	})
	if !youdao.IsConfigured() {
		return nil
	}
	return youdao
}

var selectionFlags = []cli.Flag{
	&cli.StringFlag{Name: "season", Aliases: []string{"s"}, Usage: "season number"},
	&cli.StringFlag{Name: "episode", Aliases: []string{"e"}, Usage: "episode number"},
}

// resolveSelection validates the season/episode flags the same way the web
// page validates its query string.
func resolveSelection(c *cli.Context) (catalog.Selection, error) {
	res := navigation.Resolve(navigation.Params{
		Season:  c.String("season"),
		Episode: c.String("episode"),
	})
	switch res.View {
	case navigation.ViewContent:
		return *res.Selection, nil
	case navigation.ViewPicker:
		return catalog.Selection{}, errors.New("both --season and --episode are required")
	default:
		return catalog.Selection{}, fmt.Errorf("no such episode: season %q episode %q", c.String("season"), c.String("episode"))
	}
}

func seasonsCommand() *cli.Command {
	return &cli.Command{
		Name:  "seasons",
		Usage: "list seasons and their episode counts",
		Action: func(c *cli.Context) error {
			out := fromContext(c).out
			for _, s := range catalog.Seasons() {
				fmt.Fprintf(out, "season %2d  %2d episodes\n", s.Number, s.Episodes)
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print the dialogue of an episode, or the line active at --at",
		Flags: append([]cli.Flag{
			&cli.Float64Flag{Name: "at", Value: -1, Usage: "playback time in seconds"},
		}, selectionFlags...),
		Action: func(c *cli.Context) error {
			a := fromContext(c)
			sel, err := resolveSelection(c)
			if err != nil {
				return err
			}
			ep, err := a.subtitles.Open(c.Context, sel)
			if err != nil {
				return err
			}

			if at := c.Float64("at"); at >= 0 {
				tl := ep.Timeline()
				item, idx, ok := tl.Active(common.Seconds(at))
				if !ok {
					return fmt.Errorf("%s has no dialogue", ep.Key)
				}
				printItem(a.out, idx, item, true)
				return nil
			}

			fmt.Fprintf(a.out, "%s  %s  %d lines\n", ep.Key, common.FormatTimestamp(ep.Duration, false), len(ep.Items))
			for i, item := range ep.Items {
				printItem(a.out, i, item, false)
			}
			return nil
		},
	}
}

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "translate words",
		ArgsUsage: "WORD...",
		Action: func(c *cli.Context) error {
			a := fromContext(c)
			if a.translator == nil {
				return errors.New("translation is not configured; set --server or translate credentials")
			}
			result, err := a.translator.Translate(c.Context, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return err
			}
			printResult(a.out, result)
			return nil
		},
	}
}

func printItem(w io.Writer, idx int, item dialogue.Item, withWords bool) {
	fmt.Fprintf(w, "[%3d] %s - %s  %s\n      %s\n", idx,
		common.FormatTimestamp(item.Start, true),
		common.FormatTimestamp(item.End, true),
		item.Chinese, item.English)
	if withWords {
		printWords(w, item.English, nil)
	}
}

func printResult(w io.Writer, r *translate.Result) {
	if r == nil {
		fmt.Fprintln(w, "(no result)")
		return
	}
	fmt.Fprintf(w, "%s", r.Query)
	if p := r.Phonetic(); p != "" {
		fmt.Fprintf(w, "  [%s]", p)
	}
	fmt.Fprintln(w)
	for _, t := range r.Translation {
		fmt.Fprintf(w, "  %s\n", t)
	}
	for _, e := range r.Explains() {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}

func printWords(w io.Writer, english string, selected []int) {
	on := make(map[int]bool, len(selected))
	for _, i := range selected {
		on[i] = true
	}
	var b strings.Builder
	for i, word := range tokenize.Words(english) {
		if on[i] {
			fmt.Fprintf(&b, " %d:[%s]", i, word)
		} else {
			fmt.Fprintf(&b, " %d:%s", i, word)
		}
	}
	fmt.Fprintf(w, "     %s\n", b.String())
}
