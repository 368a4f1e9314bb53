package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/synnergy-network/swaprouter/core"
	pkgconfig "github.com/synnergy-network/swaprouter/pkg/config"
	"github.com/synnergy-network/swaprouter/providers"
)

// routerctl is an operator CLI over the same core collaborators routerd
// serves over HTTP, grounded on cmd/synnergy's root-command-with-
// subcommand-groups shape.
func main() {
	rootCmd := &cobra.Command{Use: "routerctl"}
	rootCmd.AddCommand(deriveCmd())
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(cacheCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func deriveCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "derive", Short: "derive a deposit address for a chain"}
	run := &cobra.Command{
		Use:   "address",
		Short: "print the deposit address for (chainId, account, index)",
		Run: func(cmd *cobra.Command, args []string) {
			chainID, _ := cmd.Flags().GetString("chain")
			account, _ := cmd.Flags().GetInt("account")
			index, _ := cmd.Flags().GetInt("index")
			if chainID == "" {
				fmt.Fprintln(os.Stderr, "--chain is required")
				os.Exit(1)
			}
			cfg, err := pkgconfig.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "load config: %v\n", err)
				os.Exit(1)
			}
			d, err := core.NewDerivation(cfg.Mnemonic, cfg.WalletPassphrase)
			if err != nil {
				fmt.Fprintf(os.Stderr, "init derivation: %v\n", err)
				os.Exit(1)
			}
			addr, err := d.DeriveAddress(chainID, uint32(account), uint32(index))
			if err != nil {
				fmt.Fprintf(os.Stderr, "derive address: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(addr)
		},
	}
	run.Flags().String("chain", "", "CAIP-2 chain id, e.g. eip155:1")
	run.Flags().Int("account", 0, "BIP32 account index")
	run.Flags().Int("index", 0, "BIP32 address index")
	cmd.AddCommand(run)
	return cmd
}

func buildCore(ctx context.Context) (*core.Pathfinder, *core.Aggregator, *core.RouteGraph, error) {
	cfg, err := pkgconfig.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	registry := providers.NewRegistry(providers.Config{
		ThorchainNodeURL:    cfg.ThorchainNodeURL,
		ThorchainMidgardURL: cfg.ThorchainMidgardURL,
		MayachainNodeURL:    cfg.MayachainNodeURL,
		MayachainMidgardURL: cfg.MayachainMidgardURL,
		ChainflipAPIURL:     cfg.ChainflipAPIURL,
		ChainflipAPIKey:     cfg.ChainflipAPIKey,
		CowSwapBaseURL:      cfg.CowSwapBaseURL,
		ZrxBaseURL:          cfg.ZrxBaseURL,
		RelayAPIURL:         cfg.RelayAPIURL,
		PortalsBaseURL:      cfg.PortalsBaseURL,
		JupiterAPIURL:       cfg.JupiterAPIURL,
	})
	cache := core.NewRouteCache()
	graph := core.NewRouteGraph(registry, cache)
	if err := graph.Rebuild(ctx); err != nil {
		return nil, nil, nil, err
	}
	pathfinder := core.NewPathfinder(graph, cache)
	aggregator := core.NewAggregator(registry, nil, cache)
	return pathfinder, aggregator, graph, nil
}

func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "resolve and aggregate a multi-step quote",
		Run: func(cmd *cobra.Command, args []string) {
			sell, _ := cmd.Flags().GetString("sell")
			buy, _ := cmd.Flags().GetString("buy")
			amount, _ := cmd.Flags().GetString("amount")
			userAddr, _ := cmd.Flags().GetString("user")
			receiveAddr, _ := cmd.Flags().GetString("receive")
			maxHops, _ := cmd.Flags().GetInt("max-hops")
			maxXChain, _ := cmd.Flags().GetInt("max-xchain")

			sellAmount, err := decimal.NewFromString(amount)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --amount: %v\n", err)
				os.Exit(1)
			}

			ctx := context.Background()
			pathfinder, aggregator, _, err := buildCore(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "build router: %v\n", err)
				os.Exit(1)
			}

			c := core.DefaultConstraints()
			if maxHops > 0 {
				c.MaxHops = maxHops
			}
			if maxXChain > 0 {
				c.MaxCrossChainHops = maxXChain
			}

			result := core.GetMultiStepQuote(ctx, pathfinder, aggregator,
				core.AID(sell), core.AID(buy), sellAmount, userAddr, receiveAddr, c)
			enc, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(enc))
		},
	}
	cmd.Flags().String("sell", "", "sell asset id")
	cmd.Flags().String("buy", "", "buy asset id")
	cmd.Flags().String("amount", "0", "sell amount, base units")
	cmd.Flags().String("user", "", "user address on the sell chain")
	cmd.Flags().String("receive", "", "receive address on the buy chain")
	cmd.Flags().Int("max-hops", 0, "override default max hops")
	cmd.Flags().Int("max-xchain", 0, "override default max cross-chain hops")
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "inspect the route graph"}
	stats := &cobra.Command{
		Use:   "stats",
		Short: "rebuild the route graph once and print its bookkeeping",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			_, _, graph, err := buildCore(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "build router: %v\n", err)
				os.Exit(1)
			}
			s := graph.Stats()
			enc, _ := json.MarshalIndent(s, "", "  ")
			fmt.Println(string(enc))
		},
	}
	cmd.AddCommand(stats)
	return cmd
}
