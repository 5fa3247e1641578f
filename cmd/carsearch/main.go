// Package main provides carsearch, a command line front end to the inventory
// ranking engine. It queries the configured feed directly, without the model,
// which makes it handy for checking upstream data.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sozercan/dealer-assistant/internal/config"
	"github.com/sozercan/dealer-assistant/internal/inventory"
	"github.com/sozercan/dealer-assistant/internal/logging"
)

type searchFlags struct {
	url        string
	criteria   inventory.Criteria
	outputJSON bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "carsearch",
		Short: "Search the dealership inventory feed",
		Long: `carsearch fetches the inventory feed and ranks it the same way the chat
assistant does, printing the best matches with their highlights.

The feed URL comes from CAR_API_URL unless --url is given.`,
		Example:      "  carsearch --make BMW --max-price 27000 --relax --limit 5",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.url, "url", "", "inventory feed URL (default: CAR_API_URL)")
	flags.StringVar(&f.criteria.Make, "make", "", "manufacturer, e.g. BMW")
	flags.StringVar(&f.criteria.Model, "model", "", "model, e.g. X5")
	flags.IntVar(&f.criteria.Year, "year", 0, "exact model year")
	flags.Float64Var(&f.criteria.MaxPrice, "max-price", 0, "maximum price in dollars")
	flags.IntVar(&f.criteria.MaxMileage, "max-mileage", 0, "maximum mileage")
	flags.StringVar(&f.criteria.ExteriorColor, "exterior", "", "exterior color family")
	flags.StringVar(&f.criteria.InteriorColor, "interior", "", "interior color family")
	flags.BoolVar(&f.criteria.RelaxFilters, "relax", false, "fall back to partial make/model matches")
	flags.IntVar(&f.criteria.Limit, "limit", inventory.DefaultLimit, "number of results")
	flags.BoolVar(&f.outputJSON, "json", false, "output in JSON format")
	flags.BoolVar(&f.noColor, "no-color", false, "disable colored output")

	return cmd
}

func runSearch(cmd *cobra.Command, f searchFlags) error {
	if f.criteria.Limit <= 0 {
		return errors.New("--limit must be positive")
	}
	if f.noColor {
		color.NoColor = true
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.Log, cmd.ErrOrStderr())

	url := f.url
	if url == "" {
		url = cfg.Inventory.URL
	}
	source, err := inventory.NewHTTPSource(url, cfg.Inventory.Timeout)
	if err != nil {
		return fmt.Errorf("set CAR_API_URL or pass --url: %w", err)
	}

	cars, err := source.Fetch(cmd.Context())
	if err != nil {
		return err
	}
	ranked := inventory.Rank(cars, f.criteria)

	if f.outputJSON {
		return printJSON(cmd.OutOrStdout(), ranked)
	}
	return printTable(cmd.OutOrStdout(), ranked)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
