package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/cuewords/internal/common"
	"github.com/shapedtime/cuewords/internal/navigation"
	"github.com/shapedtime/cuewords/internal/player"
)

const playHelp = `commands:
  t SECONDS   scrub to a time (commits after a short pause)
  j INDEX     jump to a line
  w INDEX     toggle a word of the current line and look up the selection
  n / p       next / previous episode
  season N    pick a season
  ep N        pick an episode
  .           show the current line
  q           quit`

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "interactive player reading commands from stdin",
		Flags: selectionFlags,
		Action: func(c *cli.Context) error {
			a := fromContext(c)
			session := player.NewSession(a.subtitles, a.translator)
			defer session.Close()

			p := &playLoop{
				app:     a,
				session: session,
				params: navigation.Params{
					Season:  c.String("season"),
					Episode: c.String("episode"),
				},
			}
			fmt.Fprintln(a.out, playHelp)
			return p.run(c, c.App.Reader)
		},
	}
}

type playLoop struct {
	app     *app
	session *player.Session
	params  navigation.Params
}

func (p *playLoop) run(c *cli.Context, in io.Reader) error {
	p.navigate(c, p.params)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(p.app.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "q", "quit":
			return nil
		case "h", "help":
			fmt.Fprintln(p.app.out, playHelp)
		case ".":
			p.printCurrent()
		case "t":
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				fmt.Fprintln(p.app.out, "usage: t SECONDS")
				continue
			}
			p.session.Scrub(common.Seconds(v))
		case "j":
			i, err := strconv.Atoi(arg)
			if err == nil {
				err = p.session.Jump(i)
			}
			if err != nil {
				fmt.Fprintln(p.app.out, "jump:", err)
				continue
			}
			p.printCurrent()
		case "w":
			i, err := strconv.Atoi(arg)
			if err == nil {
				_, err = p.session.Toggle(i)
			}
			if err != nil {
				fmt.Fprintln(p.app.out, "word:", err)
				continue
			}
			p.printWords()
			if text := p.session.SelectedText(); text != "" {
				printResult(p.app.out, p.session.Lookup(c.Context))
			}
		case "season":
			p.navigate(c, navigation.Next(p.params, navigation.SelectSeason{Season: arg}))
		case "ep":
			p.navigate(c, navigation.Next(p.params, navigation.SelectEpisode{Episode: arg}))
		case "n", "p":
			p.step(c, cmd == "n")
		default:
			fmt.Fprintf(p.app.out, "unknown command %q; h for help\n", cmd)
		}
	}
}

// navigate applies new query state the way the web page does: content loads
// the episode, picker waits for more input, reset starts over.
func (p *playLoop) navigate(c *cli.Context, params navigation.Params) {
	res := navigation.Resolve(params)
	switch res.View {
	case navigation.ViewReset:
		fmt.Fprintf(p.app.out, "no such episode (season %q, episode %q)\n", params.Season, params.Episode)
		p.params = navigation.Next(params, navigation.Reset{})
	case navigation.ViewPicker:
		p.params = params
		if params.Season == "" {
			fmt.Fprintln(p.app.out, "pick a season: season N")
		} else {
			fmt.Fprintf(p.app.out, "season %s has %d episodes; pick one: ep N\n", params.Season, res.Episodes)
		}
	case navigation.ViewContent:
		p.params = params
		if err := p.session.Select(c.Context, *res.Selection); err != nil {
			fmt.Fprintln(p.app.out, "load:", err)
			return
		}
		tl := p.session.Timeline()
		fmt.Fprintf(p.app.out, "%s loaded: %d lines, %s\n", res.Selection.Key(), tl.Len(), common.FormatTimestamp(tl.Duration, false))
		p.printCurrent()
	}
}

func (p *playLoop) step(c *cli.Context, forward bool) {
	res := navigation.Resolve(p.params)
	if res.Selection == nil {
		fmt.Fprintln(p.app.out, "no episode selected")
		return
	}
	ep := res.Selection.Episode
	if forward {
		ep++
	} else {
		ep--
	}
	p.navigate(c, navigation.Next(p.params, navigation.SelectEpisode{Episode: strconv.Itoa(ep)}))
}

func (p *playLoop) printCurrent() {
	item, idx, ok := p.session.Current()
	if !ok {
		fmt.Fprintln(p.app.out, "(nothing to show)")
		return
	}
	_, current := p.session.Times()
	fmt.Fprintf(p.app.out, "@ %s\n", common.FormatTimestamp(current, true))
	printItem(p.app.out, idx, item, false)
	p.printWords()
}

func (p *playLoop) printWords() {
	item, _, ok := p.session.Current()
	if !ok {
		return
	}
	printWords(p.app.out, item.English, p.session.Selected())
}
