package audit

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-registry/internal/pyth"
	"solana-token-registry/internal/solana"
	"solana-token-registry/internal/solana/stub"
	"solana-token-registry/internal/tokens"
)

func mintAccount(decimals uint8) *solana.Account {
	data := make([]byte, solana.MintAccountSize)
	binary.LittleEndian.PutUint64(data[36:44], 1_000_000)
	data[44] = decimals
	data[45] = 1
	return &solana.Account{
		Lamports: 1_461_600,
		Owner:    solana.TokenProgramID,
		Data:     data,
	}
}

func priceAccount(feed pyth.FeedID) *solana.Account {
	data := make([]byte, 8+32)
	data = append(data, 1) // full verification
	data = append(data, feed[:]...)
	data = append(data, make([]byte, 60)...)
	return &solana.Account{
		Lamports: 2_000_000,
		Owner:    pyth.ReceiverProgramID,
		Data:     data,
	}
}

// healthyChain returns a stub whose state matches the registry exactly.
func healthyChain(r *tokens.Registry) *stub.RPCClient {
	rpc := stub.NewRPCClient()
	rpc.Slot = 300_000_000
	for _, token := range r.Tokens() {
		info, _ := r.Info(token)
		rpc.AddAccount(info.Mint, mintAccount(info.Decimals))
		rpc.AddAccount(info.PriceFeedAccount, priceAccount(info.PriceFeed))
	}
	return rpc
}

type recorder struct {
	checks map[string]int
	runs   []string
}

func (r *recorder) RecordAuditCheck(token, check, outcome string) {
	if r.checks == nil {
		r.checks = make(map[string]int)
	}
	r.checks[outcome]++
}

func (r *recorder) RecordAuditRun(network, status string, _ time.Duration) {
	r.runs = append(r.runs, network+":"+status)
}

func TestAuditor_AllPass(t *testing.T) {
	registry := tokens.MustNew(tokens.Devnet)
	rec := &recorder{}

	rpc := healthyChain(registry)
	auditor := NewAuditor(Options{
		RPC:      rpc,
		Registry: registry,
		Recorder: rec,
	})

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)

	// One round trip; devnet FWC shares the USDC feed account.
	require.Len(t, rpc.Batches, 1)
	assert.Len(t, rpc.Batches[0], 2*len(registry.Tokens())-1)

	assert.True(t, report.OK(), "problems: %+v", report.Problems())
	assert.Equal(t, "devnet", report.Network)
	assert.Equal(t, int64(300_000_000), report.Slot)
	assert.Len(t, report.Findings, 2*len(registry.Tokens()))
	assert.Equal(t, 2*len(registry.Tokens()), rec.checks[OutcomeOK])
	assert.Equal(t, []string{"devnet:ok"}, rec.runs)
}

func TestAuditor_DetectsProblems(t *testing.T) {
	registry := tokens.MustNew(tokens.Devnet)
	rpc := healthyChain(registry)

	usdt, _ := registry.Info(tokens.USDT)
	sol, _ := registry.Info(tokens.SOL)
	fida, _ := registry.Info(tokens.FIDA)
	fwc, _ := registry.Info(tokens.FWC)

	// Wrong decimals on USDT's mint.
	rpc.AddAccount(usdt.Mint, mintAccount(9))
	// SOL price account missing.
	rpc.RemoveAccount(sol.PriceFeedAccount)
	// FIDA price account publishes another feed.
	rpc.AddAccount(fida.PriceFeedAccount, priceAccount(usdt.PriceFeed))
	// FWC mint left uninitialized.
	uninit := mintAccount(6)
	uninit.Data[45] = 0
	rpc.AddAccount(fwc.Mint, uninit)

	var logs bytes.Buffer
	auditor := NewAuditor(Options{
		RPC:      rpc,
		Registry: registry,
		Logger:   log.New(&logs, "", 0),
	})

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	require.False(t, report.OK())

	got := make(map[string]string)
	for _, f := range report.Problems() {
		got[f.Token.String()+"/"+f.Check] = f.Outcome
	}

	assert.Equal(t, map[string]string{
		"USDT/mint":       OutcomeMismatch,
		"SOL/price_feed":  OutcomeMissing,
		"FIDA/price_feed": OutcomeMismatch,
		"FWC/mint":        OutcomeMismatch,
	}, got)

	assert.Contains(t, logs.String(), "4 problems")
}

func TestAuditor_FetchFailure(t *testing.T) {
	registry := tokens.MustNew(tokens.Devnet)
	rec := &recorder{}

	rpc := healthyChain(registry)
	rpc.Err = errors.New("rate limited (429)")

	report, err := NewAuditor(Options{
		RPC:      rpc,
		Registry: registry,
		Recorder: rec,
	}).Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "fetch accounts")
	assert.Equal(t, []string{"devnet:error"}, rec.runs)
}

func TestAuditor_WrongOwner(t *testing.T) {
	registry := tokens.MustNew(tokens.Mainnet)
	rpc := healthyChain(registry)

	usdc, _ := registry.Info(tokens.USDC)
	acct := mintAccount(6)
	acct.Owner = solana.SystemProgramID
	rpc.AddAccount(usdc.Mint, acct)

	report, err := NewAuditor(Options{RPC: rpc, Registry: registry}).Run(context.Background())
	require.NoError(t, err)

	problems := report.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, tokens.USDC, problems[0].Token)
	assert.Equal(t, OutcomeMismatch, problems[0].Outcome)
	assert.Contains(t, problems[0].Detail, "not a token program")
}

func TestAuditor_WrongFeedOwner(t *testing.T) {
	registry := tokens.MustNew(tokens.Mainnet)
	rpc := healthyChain(registry)

	sol, _ := registry.Info(tokens.SOL)
	acct := priceAccount(sol.PriceFeed)
	acct.Owner = solana.TokenProgramID
	rpc.AddAccount(sol.PriceFeedAccount, acct)

	report, err := NewAuditor(Options{RPC: rpc, Registry: registry}).Run(context.Background())
	require.NoError(t, err)

	problems := report.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, CheckPriceFeed, problems[0].Check)
	assert.Contains(t, problems[0].Detail, "not a pyth program")
}

func TestAuditor_Cancelled(t *testing.T) {
	registry := tokens.MustNew(tokens.Devnet)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAuditor(Options{
		RPC:      healthyChain(registry),
		Registry: registry,
		Recorder: rec,
	}).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"devnet:cancelled"}, rec.runs)
}

func TestRender(t *testing.T) {
	report := &Report{
		Network:     "devnet",
		Slot:        42,
		GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Findings: []Finding{
			{Token: tokens.USDC, Check: CheckMint, Address: solana.TokenProgramID, Outcome: OutcomeOK},
			{Token: tokens.SOL, Check: CheckPriceFeed, Address: solana.TokenProgramID, Outcome: OutcomeMismatch, Detail: "feed a, b | c"},
		},
	}

	md := RenderMarkdown(report)
	assert.Contains(t, md, "Network: devnet | Slot: 42")
	assert.Contains(t, md, "Generated: 2025-01-02T03:04:05Z")
	assert.Contains(t, md, "| USDC | mint | TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA | PASS |  |")
	assert.Contains(t, md, "| SOL | price_feed |")
	assert.Contains(t, md, "MISMATCH | feed a, b \\| c |")
	assert.Contains(t, md, "1 of 2 checks failed.")

	csv := RenderCSV(report)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "network,slot,token,check,address,outcome,detail", lines[0])
	assert.Equal(t, "devnet,42,USDC,mint,TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA,ok,", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], `,mismatch,"feed a, b | c"`))
}

func TestRenderMarkdown_MultilineDetail(t *testing.T) {
	report := &Report{
		Network: "devnet",
		Findings: []Finding{
			{Token: tokens.FIDA, Check: CheckMint, Address: solana.TokenProgramID, Outcome: OutcomeMismatch,
				Detail: "upstream said:\nnode is behind\r\nretry later"},
		},
	}

	md := RenderMarkdown(report)
	assert.Contains(t, md, "MISMATCH | upstream said: node is behind retry later |")

	var rows int
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "| FIDA |") {
			rows++
			assert.True(t, strings.HasSuffix(line, " |"), line)
		}
	}
	assert.Equal(t, 1, rows)
}
