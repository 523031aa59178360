// Package main provides tokenctl, a CLI over the token registry:
// - list: print the active network's allow-list
// - lookup: resolve a mint address or symbol
// - audit: verify the table against live chain state over RPC
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-token-registry/internal/audit"
	"solana-token-registry/internal/observability"
	"solana-token-registry/internal/solana"
	"solana-token-registry/internal/tokens"
)

const usage = `usage: tokenctl <command> [flags]

commands:
  list                  print the allow-listed tokens
  lookup <mint|symbol>  resolve a mint address or token symbol
  audit                 check mints and price feed accounts over RPC
`

// errUsage marks invocation errors that should print usage.
var errUsage = errors.New("usage")

func main() {
	logger := log.New(os.Stderr, "[tokenctl] ", log.LstdFlags)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		logger.Fatalf("%v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch args[0] {
	case "list":
		return runList(args[1:], stdout)
	case "lookup":
		return runLookup(args[1:], stdout)
	case "audit":
		return runAudit(ctx, args[1:], stdout, logger)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// networkFlag registers --network with TOKEN_NETWORK / build default.
func networkFlag(fs *flag.FlagSet) *string {
	def := os.Getenv("TOKEN_NETWORK")
	if def == "" {
		def = tokens.BuildNetwork.String()
	}
	return fs.String("network", def, "Token table: devnet or mainnet")
}

// openRegistry returns the registry for the named network. The build
// network reuses the process-wide Default.
func openRegistry(name string) (*tokens.Registry, error) {
	network, err := tokens.ParseNetwork(name)
	if err != nil {
		return nil, err
	}
	if network == tokens.BuildNetwork {
		return tokens.Default(), nil
	}
	return tokens.New(network)
}

func runList(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	network := networkFlag(fs)
	outputJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, err := openRegistry(*network)
	if err != nil {
		return err
	}

	infos := make([]tokens.Info, 0, len(registry.Tokens()))
	for _, token := range registry.Tokens() {
		info, _ := registry.Info(token)
		infos = append(infos, info)
	}

	if *outputJSON {
		return writeJSON(stdout, infos)
	}

	fmt.Fprintf(stdout, "=== Supported tokens (%s) ===\n", registry.Network())
	for _, info := range infos {
		printInfo(stdout, info)
	}
	return nil
}

func runLookup(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	network := networkFlag(fs)
	outputJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: lookup takes exactly one mint address or symbol", errUsage)
	}

	registry, err := openRegistry(*network)
	if err != nil {
		return err
	}

	token, err := resolve(registry, fs.Arg(0))
	if err != nil {
		return err
	}
	info, _ := registry.Info(token)

	if *outputJSON {
		return writeJSON(stdout, info)
	}
	printInfo(stdout, info)
	return nil
}

// resolve accepts either a symbol or a base58 mint address.
func resolve(registry *tokens.Registry, arg string) (tokens.SupportedToken, error) {
	if token, err := tokens.ParseSymbol(arg); err == nil {
		if !registry.Supports(token) {
			return 0, fmt.Errorf("%w: %s is not listed on %s", tokens.ErrUnsupportedToken, token, registry.Network())
		}
		return token, nil
	}
	return registry.FromMintString(arg)
}

func runAudit(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	network := networkFlag(fs)
	rpcEndpoint := fs.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	format := fs.String("format", "markdown", "Output format: markdown, csv, json")
	timeout := fs.Duration("timeout", 2*time.Minute, "Overall audit timeout")
	maxRetries := fs.Int("max-retries", solana.DefaultMaxRetries, "RPC retry attempts")
	rpcTimeout := fs.Duration("rpc-timeout", solana.DefaultTimeout, "Per-request RPC timeout")
	retryDelay := fs.Duration("retry-delay", solana.DefaultRetryDelay, "Initial RPC retry delay")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address while auditing (e.g. :9090)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *rpcEndpoint == "" {
		return fmt.Errorf("%w: --rpc-endpoint or SOLANA_RPC_ENDPOINT is required", errUsage)
	}
	*format = strings.ToLower(*format)
	if *format != "markdown" && *format != "csv" && *format != "json" {
		return fmt.Errorf("%w: invalid format %q", errUsage, *format)
	}

	registry, err := openRegistry(*network)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics("")
	metrics.SetRegistryTokens(registry.Network().String(), len(registry.Tokens()))

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			logger.Printf("Metrics server listening on %s", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	client := solana.NewHTTPClient(*rpcEndpoint,
		solana.WithTimeout(*rpcTimeout),
		solana.WithMaxRetries(*maxRetries),
		solana.WithRetryDelay(*retryDelay),
		solana.WithObserver(metrics.RecordRPCCall),
	)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	logger.Printf("Auditing %d tokens on %s via %s", len(registry.Tokens()), registry.Network(), *rpcEndpoint)

	report, err := audit.NewAuditor(audit.Options{
		RPC:      client,
		Registry: registry,
		Recorder: metrics,
		Logger:   logger,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	switch *format {
	case "json":
		if err := writeJSON(stdout, report); err != nil {
			return err
		}
	case "csv":
		fmt.Fprint(stdout, audit.RenderCSV(report))
	default:
		fmt.Fprint(stdout, audit.RenderMarkdown(report))
	}

	if !report.OK() {
		return fmt.Errorf("audit found %d problems", len(report.Problems()))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

// printInfo outputs a human-readable token entry.
func printInfo(w io.Writer, info tokens.Info) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", info.Token)
	fmt.Fprintf(w, "  Mint:               %s\n", info.Mint)
	fmt.Fprintf(w, "  Decimals:           %d\n", info.Decimals)
	fmt.Fprintf(w, "  Price Feed:         %s\n", info.PriceFeed)
	fmt.Fprintf(w, "  Price Feed Account: %s\n", info.PriceFeedAccount)
	if info.PricedAs != info.Token {
		fmt.Fprintf(w, "  Priced As:          %s\n", info.PricedAs)
	}
}
