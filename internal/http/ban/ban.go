// Package ban counts rate limit strikes per client and bans repeat offenders for a while.
package ban

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Store persists strikes, active bans and the ban log.
type Store interface {
	// AddStrike records one strike for target and returns the strikes seen within window.
	AddStrike(ctx context.Context, target string, window time.Duration) (int, error)
	Ban(ctx context.Context, target string, d time.Duration) error
	IsBanned(ctx context.Context, target string) (bool, error)
	LogBan(ctx context.Context, entry BanLogEntry) error
	// DrainBanLog returns and clears the logged bans.
	DrainBanLog(ctx context.Context) ([]BanLogEntry, error)
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

type Config struct {
	Strikes  int
	Window   time.Duration
	Duration time.Duration
}

type Guard struct {
	store  Store
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

func NewGuard(store Store, cfg Config, log *zap.Logger) *Guard {
	return &Guard{store: store, cfg: cfg, now: time.Now, logger: log.Named("ban")}
}

func (g *Guard) IsBanned(ctx context.Context, target string) (bool, error) {
	return g.store.IsBanned(ctx, target)
}

// Strike records a rate limit violation on route and bans target once the
// configured number of strikes is reached within the window.
func (g *Guard) Strike(ctx context.Context, target, route string) (bool, error) {
	strikes, err := g.store.AddStrike(ctx, target, g.cfg.Window)
	if err != nil {
		return false, fmt.Errorf("failed to record strike: %w", err)
	}
	if strikes < g.cfg.Strikes {
		return false, nil
	}

	if err := g.store.Ban(ctx, target, g.cfg.Duration); err != nil {
		return false, fmt.Errorf("failed to ban %s: %w", target, err)
	}

	entry := BanLogEntry{Target: target, Route: route, Strikes: strikes, Time: g.now()}
	if err := g.store.LogBan(ctx, entry); err != nil {
		g.logger.Warn("failed to log ban", zap.String("target", target), zap.Error(err))
	}
	g.logger.Warn("client banned",
		zap.String("target", target),
		zap.String("route", route),
		zap.Int("strikes", strikes),
		zap.Duration("duration", g.cfg.Duration),
	)
	return true, nil
}

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type Summary struct {
	Total    int           `json:"total"`
	ByRoute  []Count       `json:"byRoute"`
	ByTarget []Count       `json:"byTarget"`
	Entries  []BanLogEntry `json:"entries"`
}

// Summarize drains the ban log and aggregates it by route and by target.
func (g *Guard) Summarize(ctx context.Context) (Summary, error) {
	entries, err := g.store.DrainBanLog(ctx)
	if err != nil {
		return Summary{}, err
	}

	routes := make(map[string]int)
	targets := make(map[string]int)
	for _, e := range entries {
		routes[e.Route]++
		targets[e.Target]++
	}

	return Summary{
		Total:    len(entries),
		ByRoute:  counts(routes),
		ByTarget: counts(targets),
		Entries:  entries,
	}, nil
}

// LogSummary writes the drained ban log to the logger. Nothing is logged for an empty log.
func (g *Guard) LogSummary(ctx context.Context) {
	s, err := g.Summarize(ctx)
	if err != nil {
		g.logger.Error("failed to build ban summary", zap.Error(err))
		return
	}
	if s.Total == 0 {
		return
	}
	g.logger.Info("ban summary",
		zap.Int("total", s.Total),
		zap.Any("by_route", s.ByRoute),
		zap.Any("by_target", s.ByTarget),
	)
}

func counts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
