// Command scorepad keeps an Oh Hell scorecard at the table.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ohhell/internal/app"
	"ohhell/internal/app/scorebook"
	"ohhell/internal/config"
	"ohhell/internal/domain"
	"ohhell/internal/ports"
	"ohhell/internal/ports/memstore"
	"ohhell/internal/ports/pgstore"
	"ohhell/internal/ports/redisstore"
)

func main() {
	settings := config.LoadScorepad()
	log := newLogger(settings.LogLevel, settings.LogFormat)

	if settings.ConfigPath != "" {
		if err := config.LoadGameConfig(settings.ConfigPath); err != nil {
			log.WithError(err).Warn("using built-in game defaults")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, settings)
	if err != nil {
		log.WithError(err).WithField("store", settings.Store).Fatal("cannot open scorecard store")
	}
	defer closeStore()

	engineLog := logAdapter{entry: log.WithField("owner", settings.Owner)}
	cfg := config.GetGameConfig()
	defaults := app.Config{MaxCardsDealtByUser: cfg.DefaultMaxCards(), BidPoints: cfg.DefaultBidPoints()}
	book := scorebook.NewService(app.NewService(engineLog), store, defaults, engineLog, nil)

	p, err := newPad(ctx, book, settings.Owner, os.Stdout)
	if err != nil {
		log.WithError(err).Fatal("cannot load scorecard")
	}

	fmt.Println(renderScorecard(p.view()))
	fmt.Println("type 'help' for commands")
	repl(ctx, p, os.Stdin)
}

func openStore(ctx context.Context, s config.Scorepad) (ports.GameStore, func(), error) {
	switch s.Store {
	case config.StoreMemory:
		return memstore.New(), func() {}, nil
	case config.StoreRedis:
		store, client, err := redisstore.Open(ctx, s.RedisURL, 0)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil
	case config.StorePostgres:
		store, pool, err := pgstore.Open(ctx, s.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q (want %s, %s or %s)", s.Store, config.StoreMemory, config.StoreRedis, config.StorePostgres)
}

func repl(ctx context.Context, p *pad, in io.Reader) {
	s := bufio.NewScanner(in)
	prompt := func() { fmt.Fprint(p.out, "> ") }
	prompt()
	for s.Scan() {
		if quit := p.exec(ctx, s.Text()); quit {
			return
		}
		prompt()
	}
}

// pad is one scorer's session over a scorebook.
type pad struct {
	book  *scorebook.Service
	owner string
	game  *app.Game
	out   io.Writer
}

func newPad(ctx context.Context, book *scorebook.Service, owner string, out io.Writer) (*pad, error) {
	game, err := book.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &pad{book: book, owner: owner, game: game, out: out}, nil
}

func (p *pad) view() app.View {
	return p.book.Games().View(p.game)
}

// exec runs one command line and reports whether the session should end.
func (p *pad) exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	var (
		action app.Action
		err    error
	)
	switch strings.ToLower(args[0]) {
	case "help":
		printHelp(p.out)
		return false
	case "quit", "exit":
		return true
	case "show":
		fmt.Fprintln(p.out, renderScorecard(p.view()))
		return false
	case "legal":
		p.printLegal()
		return false
	case "wipe":
		game, err := p.book.Discard(ctx, p.owner)
		if err != nil {
			fmt.Fprintln(p.out, "error:", err)
			return false
		}
		p.game = game
		fmt.Fprintln(p.out, renderScorecard(p.view()))
		return false
	case "start":
		action, err = parseStart(args[1:])
	case "dealer":
		action, err = p.withPlayer(app.ActionSelectDealer, args[1:])
	case "bid":
		action, err = p.withPlayerValue(app.ActionBid, args[1:])
	case "take":
		action, err = p.withPlayerValue(app.ActionTaken, args[1:])
	case "confirm":
		action = app.Action{Type: app.ActionConfirmBids}
	case "next":
		action = app.Action{Type: app.ActionAdvanceRound}
	case "edit":
		action, err = parseEdit(args[1:])
	case "change":
		action = app.Action{Type: app.ActionSetActive, Active: true}
	case "keep":
		action = app.Action{Type: app.ActionKeepAndNext}
	case "cancel":
		action = app.Action{Type: app.ActionCancelEdit}
	case "undo":
		action = app.Action{Type: app.ActionUndo}
	case "reset":
		action = app.Action{Type: app.ActionReset}
	default:
		fmt.Fprintf(p.out, "unknown command %q, try help\n", args[0])
		return false
	}
	if err != nil {
		fmt.Fprintln(p.out, "usage:", err)
		return false
	}

	result, err := p.book.Apply(ctx, p.owner, p.game, action)
	if err != nil {
		fmt.Fprintf(p.out, "rejected (%s): %v\n", app.Classify(err), err)
		return false
	}
	p.game = result.Game
	if result.SaveErr != nil {
		fmt.Fprintln(p.out, "warning: scorecard not saved:", result.SaveErr)
	}
	fmt.Fprintln(p.out, renderScorecard(p.view()))
	return false
}

// resolve matches a player by id or name, ignoring case.
func (p *pad) resolve(name string) (domain.PlayerID, error) {
	for _, pl := range p.game.Players {
		if strings.EqualFold(string(pl.ID), name) || strings.EqualFold(pl.Name, name) {
			return pl.ID, nil
		}
	}
	return "", fmt.Errorf("no player named %q", name)
}

func (p *pad) withPlayer(t app.ActionType, args []string) (app.Action, error) {
	if len(args) != 1 {
		return app.Action{}, fmt.Errorf("%s <name>", t)
	}
	id, err := p.resolve(args[0])
	if err != nil {
		return app.Action{}, err
	}
	return app.Action{Type: t, PlayerID: id}, nil
}

func (p *pad) withPlayerValue(t app.ActionType, args []string) (app.Action, error) {
	if len(args) != 2 {
		return app.Action{}, fmt.Errorf("%s <name> <n>", t)
	}
	id, err := p.resolve(args[0])
	if err != nil {
		return app.Action{}, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return app.Action{}, fmt.Errorf("%q is not a number", args[1])
	}
	return app.Action{Type: t, PlayerID: id, Value: n}, nil
}

func (p *pad) printLegal() {
	v := p.view()
	seat := v.CurrentActor
	if v.Edit != nil {
		seat = v.Edit.Seat
	}
	if seat == "" || len(v.LegalValues) == 0 {
		fmt.Fprintln(p.out, "nobody is waiting for input")
		return
	}
	vals := make([]string, len(v.LegalValues))
	for i, n := range v.LegalValues {
		vals[i] = strconv.Itoa(n)
	}
	fmt.Fprintf(p.out, "%s may enter: %s\n", seat, strings.Join(vals, " "))
}

func parseStart(args []string) (app.Action, error) {
	a := app.Action{Type: app.ActionStartGame}
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			a.Players = append(a.Players, domain.Player{ID: domain.PlayerID(arg), Name: arg})
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return app.Action{}, fmt.Errorf("%s must be a number", key)
		}
		switch strings.ToLower(key) {
		case "max":
			a.MaxCards = &n
		case "points":
			a.BidPoints = &n
		default:
			return app.Action{}, fmt.Errorf("unknown option %q", key)
		}
	}
	if len(a.Players) == 0 {
		return app.Action{}, errors.New("start <name...> [max=N] [points=P]")
	}
	return a, nil
}

// parseEdit reads "edit [round] [bids|taken]"; both parts are optional.
func parseEdit(args []string) (app.Action, error) {
	a := app.Action{Type: app.ActionEnterEdit}
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "bids", "bid", "bidding":
			a.Mode = domain.ModeBidding
		case "taken", "take", "taking":
			a.Mode = domain.ModeTaking
		default:
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				return app.Action{}, errors.New("edit [round] [bids|taken]")
			}
			a.Round = n
		}
	}
	return a, nil
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  start <name...> [max=N] [points=P]  new game with seating order as listed
  dealer <name>                       choose the first dealer
  bid <name> <n>                      record a bid
  take <name> <n>                     record tricks taken
  confirm                             close bidding for the round
  next                                advance to the next round
  edit [round] [bids|taken]           review an earlier entry
  change                              start changing the reviewed entries
  keep                                keep the current seat's value and move on
  cancel                              leave edit mode
  undo                                remove the last entry
  reset                               back to setup, keeping the settings
  wipe                                delete the saved scorecard
  show | legal | help | quit
`)
}
