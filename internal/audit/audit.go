// Package audit checks a token registry against live chain state: every
// mint must exist with the expected decimals and every price feed account
// must carry the expected feed id.
package audit

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"solana-token-registry/internal/pyth"
	"solana-token-registry/internal/solana"
	"solana-token-registry/internal/tokens"
)

// Check names.
const (
	CheckMint      = "mint"
	CheckPriceFeed = "price_feed"
)

// Outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeMissing  = "missing"
	OutcomeMismatch = "mismatch"
)

// Recorder receives audit metrics. Implemented by observability.Metrics.
type Recorder interface {
	RecordAuditCheck(token, check, outcome string)
	RecordAuditRun(network, status string, d time.Duration)
}

// Finding is the outcome of one check for one token.
type Finding struct {
	Token   tokens.SupportedToken `json:"token"`
	Check   string                `json:"check"`
	Address solana.PublicKey      `json:"address"`
	Outcome string                `json:"outcome"`
	Detail  string                `json:"detail,omitempty"`
}

// OK reports whether the check passed.
func (f Finding) OK() bool {
	return f.Outcome == OutcomeOK
}

// Report is the result of one audit run.
type Report struct {
	Network     string    `json:"network"`
	Slot        int64     `json:"slot"`
	GeneratedAt time.Time `json:"generated_at"`
	Findings    []Finding `json:"findings"`
}

// Problems returns the findings that did not pass.
func (r *Report) Problems() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.OK() {
			out = append(out, f)
		}
	}
	return out
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return len(r.Problems()) == 0
}

// Options configures an Auditor.
type Options struct {
	RPC      solana.RPCClient
	Registry *tokens.Registry
	Recorder Recorder    // optional
	Logger   *log.Logger // optional
	Now      func() time.Time
}

// Auditor runs registry audits.
type Auditor struct {
	rpc      solana.RPCClient
	registry *tokens.Registry
	recorder Recorder
	logger   *log.Logger
	now      func() time.Time
}

// NewAuditor creates an Auditor.
func NewAuditor(opts Options) *Auditor {
	a := &Auditor{
		rpc:      opts.RPC,
		registry: opts.Registry,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard, "", 0)
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Run audits every token listed in the registry. All mint and feed accounts
// are fetched in one batch; a failed fetch or context cancellation aborts
// the run.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	start := a.now()
	network := a.registry.Network().String()

	listed := a.registry.Tokens()
	infos := make([]tokens.Info, 0, len(listed))
	var keys []solana.PublicKey
	index := make(map[solana.PublicKey]int)
	for _, token := range listed {
		info, _ := a.registry.Info(token)
		infos = append(infos, info)
		for _, k := range []solana.PublicKey{info.Mint, info.PriceFeedAccount} {
			if _, ok := index[k]; !ok {
				index[k] = len(keys)
				keys = append(keys, k)
			}
		}
	}

	res, err := a.rpc.GetMultipleAccounts(ctx, keys)
	if err != nil {
		if ctx.Err() != nil {
			a.recordRun(network, "cancelled", start)
			return nil, ctx.Err()
		}
		a.recordRun(network, "error", start)
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	if len(res.Accounts) != len(keys) {
		a.recordRun(network, "error", start)
		return nil, fmt.Errorf("fetch accounts: %d returned for %d keys", len(res.Accounts), len(keys))
	}

	report := &Report{
		Network:     network,
		Slot:        res.Slot,
		GeneratedAt: start.UTC(),
	}

	for _, info := range infos {
		a.add(report, checkMint(info, res.Accounts[index[info.Mint]]))
		a.add(report, checkPriceFeed(info, res.Accounts[index[info.PriceFeedAccount]]))
	}

	status := "ok"
	if !report.OK() {
		status = "problems"
	}
	a.recordRun(network, status, start)
	a.logger.Printf("audit %s at slot %d: %d checks, %d problems",
		network, report.Slot, len(report.Findings), len(report.Problems()))

	return report, nil
}

func (a *Auditor) add(report *Report, f Finding) {
	report.Findings = append(report.Findings, f)
	if a.recorder != nil {
		a.recorder.RecordAuditCheck(f.Token.String(), f.Check, f.Outcome)
	}
	if !f.OK() {
		a.logger.Printf("%s %s %s: %s (%s)", f.Token, f.Check, f.Address, f.Outcome, f.Detail)
	}
}

func (a *Auditor) recordRun(network, status string, start time.Time) {
	if a.recorder != nil {
		a.recorder.RecordAuditRun(network, status, a.now().Sub(start))
	}
}

func checkMint(info tokens.Info, acct *solana.Account) Finding {
	f := Finding{Token: info.Token, Check: CheckMint, Address: info.Mint}

	if acct == nil {
		return f.with(OutcomeMissing, "mint account not found")
	}
	if !solana.IsTokenProgram(acct.Owner) {
		return f.with(OutcomeMismatch, fmt.Sprintf("owner %s is not a token program", acct.Owner))
	}

	mint, err := solana.DecodeMint(acct.Data)
	if err != nil {
		return f.with(OutcomeMismatch, err.Error())
	}
	if !mint.IsInitialized {
		return f.with(OutcomeMismatch, "mint not initialized")
	}
	if mint.Decimals != info.Decimals {
		return f.with(OutcomeMismatch, fmt.Sprintf("decimals %d on chain, %d expected", mint.Decimals, info.Decimals))
	}

	return f.with(OutcomeOK, "")
}

func checkPriceFeed(info tokens.Info, acct *solana.Account) Finding {
	f := Finding{Token: info.Token, Check: CheckPriceFeed, Address: info.PriceFeedAccount}

	if acct == nil {
		return f.with(OutcomeMissing, "price feed account not found")
	}
	if acct.Owner != pyth.ReceiverProgramID && acct.Owner != pyth.PushOracleProgramID {
		return f.with(OutcomeMismatch, fmt.Sprintf("owner %s is not a pyth program", acct.Owner))
	}

	update, err := pyth.DecodePriceUpdate(acct.Data)
	if err != nil {
		return f.with(OutcomeMismatch, err.Error())
	}
	if update.FeedID != info.PriceFeed {
		return f.with(OutcomeMismatch, fmt.Sprintf("feed %s on chain, %s expected", update.FeedID, info.PriceFeed))
	}

	return f.with(OutcomeOK, "")
}

func (f Finding) with(outcome, detail string) Finding {
	f.Outcome = outcome
	f.Detail = detail
	return f
}
