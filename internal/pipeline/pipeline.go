package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masoncj86-ctrl/mason-trader/internal/calculator"
	"github.com/masoncj86-ctrl/mason-trader/internal/collector"
	"github.com/masoncj86-ctrl/mason-trader/internal/config"
	"github.com/masoncj86-ctrl/mason-trader/internal/fx"
	"github.com/masoncj86-ctrl/mason-trader/internal/metrics"
	"github.com/masoncj86-ctrl/mason-trader/internal/model"
	"github.com/masoncj86-ctrl/mason-trader/internal/notifier"
	"github.com/masoncj86-ctrl/mason-trader/internal/recorder"
	"github.com/masoncj86-ctrl/mason-trader/internal/settings"
	"github.com/masoncj86-ctrl/mason-trader/internal/strategy"
)

// Pipeline runs one screening pass: rate lookup, candidate screen, holdings
// report, delivery and settings persistence. Every step is sequential.
type Pipeline struct {
	Fetcher    collector.Fetcher
	Rates      fx.RateSource
	Sender     notifier.Sender
	Settings   *settings.Store
	Recorder   recorder.Recorder
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Rules      strategy.Rules
	Candidates []string
	Lookback   string
	Currency   string
	Now        func() time.Time
}

// New wires a Pipeline from configuration and its collaborators.
func New(cfg *config.Config, fetcher collector.Fetcher, rates fx.RateSource, sender notifier.Sender,
	store *settings.Store, rec recorder.Recorder, m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Fetcher:  fetcher,
		Rates:    rates,
		Sender:   sender,
		Settings: store,
		Recorder: rec,
		Metrics:  m,
		Logger:   logger,
		Rules: strategy.Rules{
			Period:    cfg.Screen.RSIPeriod,
			Threshold: cfg.Screen.Threshold,
			LOCMarkup: cfg.Screen.LOCMarkup,
			MinBars:   cfg.DataSource.MinBars,
		},
		Candidates: cfg.Candidates(),
		Lookback:   cfg.DataSource.Lookback,
		Currency:   cfg.Rate.Currency,
		Now:        time.Now,
	}
}

// Analyze builds the report without delivering it. Only a configuration
// problem fails the whole analysis; a failing ticker is skipped.
func (p *Pipeline) Analyze(ctx context.Context, rc config.RunConfig) (*model.Report, error) {
	if rc.Seed <= 0 {
		return nil, fmt.Errorf("seed %v must be positive: %w", rc.Seed, model.ErrConfiguration)
	}

	quote := p.Rates.Quote(ctx)
	if quote.Fallback {
		p.Logger.Warn("exchange rate unavailable, using fallback",
			zap.Float64("rate", quote.Rate), zap.Error(quote.Err))
		p.Metrics.RecordRateFallback()
	}

	budget, err := calculator.DailyBudget(rc.Seed, quote.Rate)
	if err != nil {
		return nil, fmt.Errorf("daily budget: %v: %w", err, model.ErrConfiguration)
	}

	report := &model.Report{
		RunID:        uuid.NewString(),
		Date:         p.Now(),
		Seed:         rc.Seed,
		Currency:     p.Currency,
		Rate:         quote.Rate,
		RateFallback: quote.Fallback,
		Threshold:    p.Rules.Threshold,
		LOCMarkup:    p.Rules.LOCMarkup,
		DailyBudget:  budget,
	}
	p.Logger.Info("analysis started",
		zap.String("run_id", report.RunID),
		zap.Float64("seed", rc.Seed),
		zap.Float64("rate", quote.Rate),
		zap.Float64("daily_budget", budget),
		zap.Strings("holdings", rc.Holdings))

	p.screenCandidates(ctx, report)
	p.reportHoldings(ctx, rc.Holdings, report)
	return report, nil
}

// Run analyzes, delivers the report and, for automated runs, persists the
// settings with today's date. Delivery and persistence failures are logged
// and do not fail the run.
func (p *Pipeline) Run(ctx context.Context, rc config.RunConfig) (*model.Report, error) {
	start := time.Now()

	report, err := p.Analyze(ctx, rc)
	if err != nil {
		p.Logger.Error("analysis aborted, no report sent", zap.Error(err))
		p.Metrics.RecordRun("aborted", time.Since(start).Seconds())
		return nil, err
	}

	delivered := true
	if err := p.Sender.Send(ctx, notifier.FormatDailyReport(report)); err != nil {
		delivered = false
		p.Logger.Error("report delivery failed", zap.String("run_id", report.RunID), zap.Error(err))
	}
	p.Metrics.RecordDelivery(delivered)

	if rc.Auto && p.Settings != nil {
		p.persist(rc, report.Date)
	}

	p.record(report, delivered, rc.Auto)
	p.Metrics.RecordRun("ok", time.Since(start).Seconds())
	p.Logger.Info("run finished",
		zap.String("run_id", report.RunID),
		zap.Int("candidates", len(report.Candidates)),
		zap.Int("holdings", len(report.Holdings)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Bool("delivered", delivered))
	return report, nil
}

func (p *Pipeline) screenCandidates(ctx context.Context, report *model.Report) {
	for _, ticker := range p.Candidates {
		entry, err := p.evaluate(ctx, ticker, p.Rules.MinBars, report)
		if err != nil {
			p.skip(report, model.EntryNew, ticker, err)
			continue
		}
		if !p.Rules.IsCandidate(entry.RSI) {
			entry.Kind = model.EntryWatched
			report.Watched = append(report.Watched, entry)
			p.Logger.Debug("candidate above threshold", zap.String("ticker", ticker), zap.Float64("rsi", entry.RSI))
			continue
		}
		entry.Kind = model.EntryNew
		report.Candidates = append(report.Candidates, entry)
		p.Logger.Info("candidate hit", zap.String("ticker", ticker), zap.Float64("rsi", entry.RSI))
	}
}

func (p *Pipeline) reportHoldings(ctx context.Context, holdings []string, report *model.Report) {
	for _, ticker := range holdings {
		entry, err := p.evaluate(ctx, ticker, 2, report)
		if err != nil {
			p.skip(report, model.EntryHolding, ticker, err)
			continue
		}
		entry.Kind = model.EntryHolding
		entry.LimitPrice = calculator.LimitPrice(entry.LastClose, p.Rules.LOCMarkup)
		report.Holdings = append(report.Holdings, entry)
	}
}

// evaluate fetches, computes RSI and sizes one ticker.
func (p *Pipeline) evaluate(ctx context.Context, ticker string, minBars int, report *model.Report) (model.Entry, error) {
	series, err := p.Fetcher.FetchDaily(ctx, ticker, p.Lookback)
	if err != nil {
		return model.Entry{}, err
	}
	reading, err := p.Rules.Evaluate(series, minBars)
	if err != nil {
		return model.Entry{}, err
	}
	sizing, err := calculator.Size(report.Seed, report.Rate, reading.LastClose)
	if err != nil {
		return model.Entry{}, err
	}
	p.Metrics.RecordRSI(ticker, reading.RSI)
	return model.Entry{
		Ticker:    ticker,
		RSI:       reading.RSI,
		PrevRSI:   reading.PrevRSI,
		LastClose: sizing.LastClose,
		Quantity:  sizing.Quantity,
	}, nil
}

func (p *Pipeline) skip(report *model.Report, kind model.EntryKind, ticker string, err error) {
	report.Skipped = append(report.Skipped, model.SkippedTicker{Kind: kind, Ticker: ticker, Reason: err.Error()})
	section := "candidates"
	if kind == model.EntryHolding {
		section = "holdings"
	}
	p.Metrics.RecordTickerFailure(section)
	p.Logger.Warn("ticker skipped", zap.String("section", section), zap.String("ticker", ticker), zap.Error(err))
}

func (p *Pipeline) persist(rc config.RunConfig, date time.Time) {
	written, err := p.Settings.Save(model.Settings{
		Seed:        rc.SeedText,
		Holdings:    rc.HoldingsText,
		LastRunDate: date.Format(settings.DateLayout),
	})
	if err != nil {
		p.Logger.Warn("settings not saved", zap.Error(err))
		return
	}
	if written {
		p.Logger.Info("settings saved", zap.String("path", p.Settings.Path))
	}
}

func (p *Pipeline) record(report *model.Report, delivered, auto bool) {
	if err := p.Recorder.RecordRun(&recorder.RunRecord{
		RunID:        report.RunID,
		StartedAt:    report.Date,
		Seed:         report.Seed,
		Rate:         report.Rate,
		RateFallback: report.RateFallback,
		Candidates:   len(report.Candidates),
		Holdings:     len(report.Holdings),
		Skipped:      len(report.Skipped),
		Delivered:    delivered,
		Auto:         auto,
	}); err != nil {
		p.Logger.Error("record run", zap.Error(err))
		return
	}
	for _, group := range [][]model.Entry{report.Candidates, report.Watched, report.Holdings} {
		for _, e := range group {
			if err := p.Recorder.RecordReading(&recorder.ReadingRecord{
				RunID:      report.RunID,
				Ticker:     e.Ticker,
				Kind:       string(e.Kind),
				RSI:        e.RSI,
				LastClose:  e.LastClose,
				Quantity:   e.Quantity,
				LimitPrice: e.LimitPrice,
			}); err != nil {
				p.Logger.Error("record reading", zap.String("ticker", e.Ticker), zap.Error(err))
			}
		}
	}
}
