// Package scraper sequences one scrape run: extract from every source,
// deduplicate, filter and score, diff against storage, persist net-new
// listings, notify, and fall back to simplified keywords when nothing new
// turned up.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jobscout/internal/dedup"
	"jobscout/internal/extract"
	"jobscout/internal/fallback"
	"jobscout/internal/filter"
	"jobscout/internal/model"
	"jobscout/internal/session"
)

// User identifies who a run is for.
type User struct {
	ID          string
	Name        string
	Email       string
	Preferences *model.Preferences
}

// Params bundles the Runner's collaborators.
type Params struct {
	Drushim        model.Extractor
	PublicLinkedIn model.Extractor
	// AuthLinkedIn builds an authenticated extractor bound to a live
	// session. Nil disables the authenticated path entirely.
	AuthLinkedIn func(*session.Session) model.Extractor

	Store    model.JobStore
	Creds    model.CredentialStore
	Notifier model.Notifier
	Sessions *session.Store
	Auth     *session.Authenticator
	Fallback *fallback.Coordinator
	Logger   *slog.Logger

	RequestDelay     time.Duration // between keyword queries within a source
	AuthRequestDelay time.Duration // between authenticated LinkedIn queries
}

// Runner executes scrape runs. One Runner serves all users; all per-run
// state (sessions included) is scoped to the Run call.
type Runner struct {
	p Params
}

func New(p Params) *Runner {
	return &Runner{p: p}
}

// Run executes the full pipeline for one user and always returns a result,
// never a panic: expected failure classes degrade to "no data", storage
// failures and unexpected panics produce a failure result.
func (r *Runner) Run(ctx context.Context, user User, cfg model.SearchConfig) (result model.RunResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.p.Logger.Error("scrape run panicked", "user", user.ID, "panic", rec)
			result = model.RunResult{Error: fmt.Sprintf("internal error: %v", rec)}
		}
	}()

	log := r.p.Logger.With("user", user.ID)
	cfg = EnrichConfig(cfg, user.Preferences)

	// Drushim before LinkedIn: arrival order decides dedup tie-breaks.
	candidates := r.extractDrushim(ctx, log, cfg.Drushim)
	candidates = append(candidates, r.extractLinkedIn(ctx, log, user, cfg.LinkedIn)...)

	kept := r.refine(candidates, user.Preferences, log)

	newJobs, err := r.persistNew(ctx, user.ID, kept)
	if err != nil {
		log.Error("persisting jobs failed", "error", err)
		return model.RunResult{Error: err.Error()}
	}
	r.notify(user, newJobs, log)

	usedFallback := false
	if len(newJobs) == 0 && r.p.Fallback != nil {
		usedFallback = true
		log.Info("primary pipeline yielded nothing new, running fallback")

		fbKept := r.refine(r.p.Fallback.Run(ctx, cfg), user.Preferences, log)
		newJobs, err = r.persistNew(ctx, user.ID, fbKept)
		if err != nil {
			log.Error("persisting fallback jobs failed", "error", err)
			return model.RunResult{Error: err.Error(), UsedFallback: true}
		}
		r.notify(user, newJobs, log)
	}

	log.Info("scrape run complete",
		"candidates", len(candidates),
		"new", len(newJobs),
		"used_fallback", usedFallback,
	)
	return model.RunResult{Success: true, JobCount: len(newJobs), UsedFallback: usedFallback}
}

// EnrichConfig extends (never mutates) the search config with preference
// keywords not already queried.
func EnrichConfig(cfg model.SearchConfig, prefs *model.Preferences) model.SearchConfig {
	if prefs == nil || len(prefs.Keywords) == 0 {
		return cfg
	}

	out := model.SearchConfig{
		LinkedIn: append([]string(nil), cfg.LinkedIn...),
		Drushim:  append([]model.DrushimQuery(nil), cfg.Drushim...),
	}
	present := make(map[string]bool, len(out.LinkedIn))
	for _, kw := range out.LinkedIn {
		present[kw] = true
	}
	for _, kw := range prefs.Keywords {
		if kw != "" && !present[kw] {
			out.LinkedIn = append(out.LinkedIn, kw)
			present[kw] = true
		}
	}
	return out
}

func (r *Runner) extractDrushim(ctx context.Context, log *slog.Logger, queries []model.DrushimQuery) []model.JobListing {
	var out []model.JobListing
	for i, dq := range queries {
		if i > 0 && !r.pause(ctx, r.p.RequestDelay) {
			break
		}
		jobs, err := r.p.Drushim.Extract(ctx, model.Query{Keyword: dq.Position, Experience: dq.Experience})
		if err != nil {
			log.Warn("drushim query failed", "position", dq.Position, "error", err)
			continue
		}
		out = append(out, jobs...)
	}
	return out
}

// extractLinkedIn prefers the authenticated path when the credential
// capability has credentials for the user; otherwise, or when login fails,
// it stays public.
func (r *Runner) extractLinkedIn(ctx context.Context, log *slog.Logger, user User, keywords []string) []model.JobListing {
	if len(keywords) == 0 {
		return nil
	}

	if r.p.AuthLinkedIn != nil && r.p.Creds.HasLinkedInCredentials(user.ID) {
		if jobs, ok := r.extractLinkedInAuth(ctx, log, user, keywords); ok {
			return jobs
		}
	}

	var out []model.JobListing
	for i, kw := range keywords {
		if i > 0 && !r.pause(ctx, r.p.RequestDelay) {
			break
		}
		jobs, err := r.p.PublicLinkedIn.Extract(ctx, model.Query{Keyword: kw})
		if err != nil {
			log.Warn("linkedin query failed", "keyword", kw, "error", err)
			continue
		}
		out = append(out, jobs...)
	}
	return out
}

// extractLinkedInAuth returns (jobs, true) when an authenticated session was
// established, even if it got blocked mid-way — whatever was collected
// before the block is kept and the account is reported locked. (nil, false)
// means login failed and the caller should go public.
func (r *Runner) extractLinkedInAuth(ctx context.Context, log *slog.Logger, user User, keywords []string) ([]model.JobListing, bool) {
	c, err := r.p.Creds.GetLinkedInCredentials(user.ID)
	if err != nil {
		log.Warn("credential lookup failed, using public path", "error", err)
		return nil, false
	}

	sess, err := r.p.Auth.Login(user.ID, *c)
	if err != nil {
		log.Warn("login failed, using public path", "error", err)
		r.p.Creds.UpdateLoginStatus(user.ID, model.LoginInvalid, nil)
		return nil, false
	}
	r.p.Sessions.Put(sess)
	defer r.p.Sessions.Remove(sess.ID)
	r.p.Creds.UpdateLoginStatus(user.ID, model.LoginActive, nil)

	ex := r.p.AuthLinkedIn(sess)
	var out []model.JobListing
	for i, kw := range keywords {
		if i > 0 && !r.pause(ctx, r.p.AuthRequestDelay) {
			break
		}
		jobs, err := ex.Extract(ctx, model.Query{Keyword: kw})
		if errors.Is(err, extract.ErrBlocked) {
			log.Warn("authenticated session blocked, stopping source", "keyword", kw)
			r.p.Creds.UpdateLoginStatus(user.ID, model.LoginLocked, nil)
			break
		}
		if err != nil {
			log.Warn("linkedin auth query failed", "keyword", kw, "error", err)
			continue
		}
		out = append(out, jobs...)
	}
	return out, true
}

// refine deduplicates, applies the preference filter and assigns the final
// score.
func (r *Runner) refine(candidates []model.JobListing, prefs *model.Preferences, log *slog.Logger) []model.JobListing {
	deduped := dedup.Deduplicate(candidates, r.p.Logger)
	pf := filter.NewPreferenceFilter(prefs)

	kept := make([]model.JobListing, 0, len(deduped))
	for _, j := range deduped {
		if !pf.Match(j) {
			continue
		}
		j.MatchScore = filter.Score(j)
		kept = append(kept, j)
	}
	log.Debug("refined candidates", "in", len(candidates), "deduped", len(deduped), "kept", len(kept))
	return kept
}

// persistNew diffs against storage and inserts unseen listings. A storage
// error is fatal for the run; listings already written stay written.
func (r *Runner) persistNew(ctx context.Context, userID string, jobs []model.JobListing) ([]model.JobListing, error) {
	var out []model.JobListing
	for _, j := range jobs {
		exists, err := r.p.Store.Exists(ctx, userID, j.Title, j.Company)
		if err != nil {
			return nil, fmt.Errorf("storage lookup: %w", err)
		}
		if exists {
			continue
		}
		if err := r.p.Store.Insert(ctx, userID, j); err != nil {
			return nil, fmt.Errorf("storage insert: %w", err)
		}
		out = append(out, j)
	}
	return out, nil
}

// notify is fire-and-forget: a notifier failure never fails the run.
func (r *Runner) notify(user User, jobs []model.JobListing, log *slog.Logger) {
	if len(jobs) == 0 {
		return
	}
	if err := r.p.Notifier.NotifyNewJobs(user.Email, user.Name, jobs); err != nil {
		log.Warn("notification failed", "jobs", len(jobs), "error", err)
	}
}

// pause waits for d, returning false if the context ended first.
func (r *Runner) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
