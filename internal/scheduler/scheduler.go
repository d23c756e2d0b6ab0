package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/masoncj86-ctrl/mason-trader/internal/config"
	"github.com/masoncj86-ctrl/mason-trader/internal/model"
	"github.com/masoncj86-ctrl/mason-trader/internal/notifier"
	"github.com/masoncj86-ctrl/mason-trader/internal/pipeline"
	"github.com/masoncj86-ctrl/mason-trader/internal/settings"
)

// Scheduler runs the pipeline on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Store    *settings.Store
	Config   *config.Config
	Lookup   config.LookupFunc
	Logger   *zap.Logger
	Ctx      context.Context

	// one run at a time, whether triggered by cron or by a command
	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, store *settings.Store, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Store:    store,
		Config:   cfg,
		Lookup:   os.LookupEnv,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// Register adds the daily report job.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow executes one automated run immediately.
func (s *Scheduler) RunNow(ctx context.Context) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.Store.Load(s.defaults())
	rc, err := config.ResolveRun(s.Lookup, saved, s.Config, true)
	if err != nil {
		s.Logger.Error("resolve run config", zap.Error(err))
		return nil, err
	}
	return s.Pipeline.Run(ctx, rc)
}

func (s *Scheduler) dailyTask() {
	s.Logger.Info("running daily task")
	if _, err := s.RunNow(s.Ctx); err != nil {
		s.Logger.Error("daily task failed", zap.Error(err))
	}
}

func (s *Scheduler) defaults() model.Settings {
	return model.Settings{
		Seed:     s.Config.Screen.DefaultSeed,
		Holdings: s.Config.Screen.DefaultHoldings,
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	arg := strings.TrimSpace(strings.TrimPrefix(command, fields[0]))

	switch strings.ToLower(fields[0]) {
	case "/report":
		if _, err := s.RunNow(ctx); err != nil {
			return fmt.Sprintf("❌ report failed: %v", err)
		}
		return ""
	case "/status":
		return notifier.FormatStatus(s.Store.Load(s.defaults()))
	case "/seed":
		if _, err := config.ParseSeed(arg); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return s.update(func(st *model.Settings) { st.Seed = arg })
	case "/holdings":
		holdings, err := config.ParseHoldings(arg)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return s.update(func(st *model.Settings) { st.Holdings = strings.Join(holdings, ",") })
	default:
		return helpText
	}
}

func (s *Scheduler) update(apply func(*model.Settings)) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.Store.Load(s.defaults())
	apply(&st)
	written, err := s.Store.Save(st)
	if err != nil {
		s.Logger.Warn("save settings from command", zap.Error(err))
		return fmt.Sprintf("❌ %v", err)
	}
	if !written {
		return "⚠️ settings not persisted in CI mode"
	}
	return notifier.FormatStatus(st)
}

const helpText = "Commands:\n• /report - run the screen now\n• /status - show settings\n• /seed <amount> - set seed (x10,000)\n• /holdings <T1,T2> - set holdings"
