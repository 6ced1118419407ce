package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"TradeMind/internal/market"
	"TradeMind/internal/model"
)

func newBacktestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backtest <strategy description>",
		Short: "Run an AI backtest and print the generated Pine Script",
		Example: `  trademind backtest --pair BTCUSD "Buy when RSI(14) crosses above 30, sell above 70"
  trademind backtest --from 2024-01-01 --to 2024-06-30 "Golden cross on daily"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, _ := cmd.Flags().GetString("pair")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			if to == "" {
				to = time.Now().Format("2006-01-02")
			}
			for _, d := range []string{from, to} {
				if _, err := time.Parse("2006-01-02", d); err != nil {
					return fmt.Errorf("date %q must be YYYY-MM-DD", d)
				}
			}
			if _, ok := market.PairBySymbol(pair); !ok {
				return fmt.Errorf("%w: %s", market.ErrUnknownSymbol, pair)
			}

			advisor, err := app.newAdvisor()
			if err != nil {
				return err
			}
			defer advisor.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			res := advisor.RunBacktest(ctx, model.StrategyParams{
				Pair:        pair,
				StartDate:   from,
				EndDate:     to,
				Description: strings.Join(args, " "),
			})
			if jsonFlag(cmd) {
				return printJSON(cmd, res)
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatBacktest(pair, from, to, res))
			return nil
		},
	}
	cmd.Flags().String("pair", "BTCUSD", "symbol to backtest")
	cmd.Flags().String("from", "2023-01-01", "start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD, default today)")
	return cmd
}

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Ask the AI for a two-sentence trend read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := app.Config.Market.Symbol
			if len(args) == 1 {
				symbol = strings.ToUpper(args[0])
			}
			feed := app.newFeed()
			if _, err := feed.Seed(symbol); err != nil {
				return err
			}
			pair, _ := market.PairBySymbol(symbol)
			last, _ := feed.Last(symbol)

			advisor, err := app.newAdvisor()
			if err != nil {
				return err
			}
			defer advisor.Close()

			text := advisor.AnalyzeTrend(cmd.Context(), symbol, last.Close, pair.Change)
			if jsonFlag(cmd) {
				return printJSON(cmd, map[string]any{"symbol": symbol, "price": last.Close, "change": pair.Change, "analysis": text})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTrend(pair, last.Close, text))
			return nil
		},
	}
}

func newWatchlistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show the watchlist with synthetic last prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			category, _ := cmd.Flags().GetString("category")
			feed := app.newFeed()
			for _, p := range market.Pairs() {
				if _, err := feed.Seed(p.Symbol); err != nil {
					app.Logger.Warn().Err(err).Str("symbol", p.Symbol).Msg("seed failed")
				}
			}
			var pairs []model.Pair
			for _, p := range market.Watchlist(feed) {
				if category == "" || strings.EqualFold(string(p.Category), category) {
					pairs = append(pairs, p)
				}
			}
			if jsonFlag(cmd) {
				return printJSON(cmd, pairs)
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatWatchlist(pairs))
			return nil
		},
	}
	cmd.Flags().String("category", "", "filter by category (Crypto, US Stocks, Ind Stocks, Commodities)")
	return cmd
}

func newNewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show market headlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonFlag(cmd) {
				return printJSON(cmd, market.News())
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatNews(market.News()))
			return nil
		},
	}
}

func newStrategiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "Manage the saved strategy library",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved strategies, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, kv := app.openLibrary()
			defer kv.Close()
			if jsonFlag(cmd) {
				return printJSON(cmd, lib.List())
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatStrategies(lib.List()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name> <description>",
		Short: "Save a strategy description under a name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, kv := app.openLibrary()
			defer kv.Close()
			s, ok, err := lib.Save(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("name and description must not be blank")
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Saved "+s.Name+" ("+s.ID+")"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, kv := app.openLibrary()
			defer kv.Close()
			ok, err := lib.Delete(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("strategy %s not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted "+args[0]))
			return nil
		},
	})
	return cmd
}

func marshalIndent(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
