package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"vehicle-market/internal/config"
	"vehicle-market/internal/ledgerclient"
	"vehicle-market/internal/localstore"
	"vehicle-market/internal/logging"
	"vehicle-market/internal/market"

	"github.com/rs/zerolog/log"
)

const usage = `usage: market-cli <command> [args]

commands:
  balance                 show the player's balance
  list                    show active listings (prunes expired ads)
  publish [flags]         pay for and publish an ad (see publish -h)
  buy <ad-id>             buy an active ad
  details <ad-id>         show one ad
  topup <amount>          add money to the balance
  withdraw <amount>       remove money from the balance
  time-scale [seconds]    show or set simulated seconds per tick
  theme [name]            show or set the theme
  run                     tick the simulated clock and re-render until interrupted
  reset                   erase the local clock, ads and settings
`

func main() {
	cfg, err := config.LoadClientApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Client, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

type app struct {
	state   *localstore.Store
	market  *market.Market
	session *market.Session
	out     io.Writer
	tick    time.Duration
}

func run(ctx context.Context, cfg config.ClientConfig, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	st, err := localstore.Open(cfg.StateDir)
	if err != nil {
		return err
	}
	defer st.Close()

	clock, err := market.LoadClock(st, cfg.DefaultTimeScale, time.Now())
	if err != nil {
		return err
	}
	client := ledgerclient.New(cfg.APIURL, cfg.HTTPTimeout)
	a := &app{
		state: st,
		market: market.New(client, st, market.Options{
			Pricing: market.Pricing{
				BaseCost:   cfg.BaseCost,
				CostPerDay: cfg.CostPerDay,
				MaxDays:    cfg.MaxDays,
			},
			RefundOnPublishFailure: cfg.RefundOnPublishFailure,
			DefaultTheme:           cfg.DefaultTheme,
		}),
		session: market.NewSession(cfg.PlayerID, clock),
		out:     out,
		tick:    cfg.TickInterval,
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "balance":
		return a.balance(ctx)
	case "list":
		return a.list(ctx)
	case "publish":
		return a.publish(ctx, rest)
	case "buy":
		return a.buy(ctx, rest)
	case "details":
		return a.details(rest)
	case "topup":
		return a.modify(ctx, rest, ledgerclient.ActionAdd)
	case "withdraw":
		return a.modify(ctx, rest, ledgerclient.ActionRemove)
	case "time-scale":
		return a.timeScale(rest)
	case "theme":
		return a.theme(rest)
	case "run":
		return a.loop(ctx)
	case "reset":
		return a.reset()
	default:
		return errUsage
	}
}

func (a *app) balance(ctx context.Context) error {
	bal, err := a.market.RefreshBalance(ctx, a.session)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s): %.2f $\n", bal.Name, a.session.PlayerID, bal.Balance)
	return nil
}

func (a *app) list(ctx context.Context) error {
	if _, err := a.market.RefreshBalance(ctx, a.session); err != nil {
		log.Warn().Err(err).Msg("balance unavailable")
	}
	return a.market.Render(a.out, a.session)
}

func (a *app) publish(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var d market.AdDraft
	fs.StringVar(&d.Model, "model", "", "vehicle model")
	fs.IntVar(&d.Year, "year", 0, "model year")
	fs.IntVar(&d.Mileage, "mileage", 0, "mileage in km")
	fs.StringVar(&d.Color, "color", "", "color")
	fs.StringVar(&d.State, "state", "", "condition")
	fs.Float64Var(&d.Price, "price", 0, "asking price")
	fs.StringVar(&d.ImageURL, "image", "", "image URL")
	fs.IntVar(&d.DurationDays, "days", 7, "listing duration in days")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cost := a.market.Pricing().Cost(d.DurationDays)
	ad, err := a.market.Publish(ctx, a.session, d)
	if err != nil {
		return err
	}
	bal, _ := a.session.Balance()
	fmt.Fprintf(a.out, "published %s (%s) for %.2f $, expires %s; balance %.2f $\n",
		ad.ID, ad.Model, cost, ad.ExpirationDate.Format(time.RFC3339), bal)
	return nil
}

func (a *app) buy(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if _, err := a.market.RefreshBalance(ctx, a.session); err != nil {
		return err
	}
	ad, err := a.market.Purchase(ctx, a.session, args[0])
	if err != nil {
		return err
	}
	bal, _ := a.session.Balance()
	fmt.Fprintf(a.out, "bought %s for %.2f $; balance %.2f $\n", ad.Model, ad.Price, bal)
	return nil
}

func (a *app) details(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	ad, err := a.market.AdDetails(a.session, args[0])
	if err != nil {
		return err
	}
	return market.RenderDetails(a.out, ad, a.session.Clock.Now())
}

func (a *app) modify(ctx context.Context, args []string, action string) error {
	if len(args) != 1 {
		return errUsage
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return market.ErrInvalidAmount
	}
	bal, err := a.market.ModifyBalance(ctx, a.session, amount, action)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %.2f $; balance %.2f $\n", action, amount, bal)
	return nil
}

func (a *app) timeScale(args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintf(a.out, "1:%d\n", a.session.Clock.TimeScale())
		return nil
	case 1:
		scale, err := strconv.Atoi(args[0])
		if err != nil {
			return market.ErrInvalidTimeScale
		}
		if err := a.session.Clock.SetTimeScale(scale); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "time scale set to 1:%d\n", scale)
		return nil
	default:
		return errUsage
	}
}

func (a *app) theme(args []string) error {
	switch len(args) {
	case 0:
		theme, err := a.market.Theme()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, theme)
		return nil
	case 1:
		if err := a.market.SetTheme(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "theme set to %s\n", args[0])
		return nil
	default:
		return errUsage
	}
}

func (a *app) reset() error {
	keys, err := a.state.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := a.state.Delete(k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	log.Info().Strs("keys", keys).Msg("local state erased")
	fmt.Fprintf(a.out, "erased %d keys\n", len(keys))
	return nil
}

func (a *app) loop(ctx context.Context) error {
	if err := a.list(ctx); err != nil {
		return err
	}
	a.market.Run(ctx, a.out, a.session, a.tick)
	return nil
}

func describe(err error) string {
	var apiErr *ledgerclient.APIError
	switch {
	case errors.Is(err, market.ErrInsufficientFunds):
		return "insufficient balance: " + err.Error()
	case errors.Is(err, market.ErrAdNotFound):
		return "ad not found"
	case errors.Is(err, ledgerclient.ErrNetworkUnavailable):
		return "ledger unreachable: " + err.Error()
	case errors.As(err, &apiErr):
		return fmt.Sprintf("ledger rejected the request (%d %s)", apiErr.Status, apiErr.Message)
	default:
		return err.Error()
	}
}
