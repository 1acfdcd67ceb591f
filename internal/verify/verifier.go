package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/util"
)

var (
	ErrNoURL            = errors.New("job has no application url")
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// Reasons on inconclusive results.
const (
	ReasonUnreachable = "unreachable"
	ReasonError       = "error"
)

type Options struct {
	MaxConcurrent   int
	Timeout         time.Duration
	PolitenessDelay time.Duration
	PolitenessBurst int
	MaxBodyBytes    int64
	UserAgent       string
}

func DefaultOptions() Options {
	return Options{
		MaxConcurrent:   10,
		Timeout:         30 * time.Second,
		PolitenessDelay: time.Second,
		PolitenessBurst: 2,
		MaxBodyBytes:    2 << 20,
		UserAgent:       "JobWatch/1.0 (+local)",
	}
}

type Deps struct {
	Client *http.Client
	Logger *log.Logger
	Now    func() time.Time
}

// Verifier re-checks posting URLs. It never returns per-job errors; every
// outcome is a VerificationResult.
type Verifier struct {
	opts    Options
	hc      *http.Client
	limiter *util.HostLimiter
	logger  *log.Logger
	now     func() time.Time
}

func New(opts Options, deps Deps) *Verifier {
	def := DefaultOptions()
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = def.MaxConcurrent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = def.MaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if deps.Client == nil {
		// the default redirect policy follows up to 10 hops
		deps.Client = &http.Client{Timeout: opts.Timeout}
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Verifier{
		opts:    opts,
		hc:      deps.Client,
		limiter: util.NewDelayLimiter(opts.PolitenessDelay, opts.PolitenessBurst),
		logger:  deps.Logger,
		now:     deps.Now,
	}
}

type indexed struct {
	i   int
	res domain.VerificationResult
}

// VerifyBatch checks jobs with at most MaxConcurrent requests in flight.
// Results come back in input order.
func (v *Verifier) VerifyBatch(ctx context.Context, jobs []domain.JobRecord) []domain.VerificationResult {
	out := make([]domain.VerificationResult, len(jobs))
	if len(jobs) == 0 {
		return out
	}

	results := make(chan indexed, len(jobs))
	var g errgroup.Group
	g.SetLimit(v.opts.MaxConcurrent)

	for i := range jobs {
		i, job := i, jobs[i]
		g.Go(func() error {
			results <- indexed{i: i, res: v.Check(ctx, job)}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	for r := range results {
		out[r.i] = r.res
	}
	return out
}

// Check verifies one job.
func (v *Verifier) Check(ctx context.Context, job domain.JobRecord) domain.VerificationResult {
	began := time.Now()
	res := v.check(ctx, job)
	res.Duration = time.Since(began)
	return res
}

func (v *Verifier) check(ctx context.Context, job domain.JobRecord) domain.VerificationResult {
	res := domain.VerificationResult{
		JobID:     job.JobID,
		CheckedAt: v.now().UTC(),
		Platform:  string(util.DetectPlatform(job.ApplicationURL, job.SourcePlatform)),
	}

	raw := strings.TrimSpace(job.ApplicationURL)
	if raw == "" {
		res.Outcome = domain.OutcomeUnverifiable
		res.Reason = domain.ReasonNoURL
		res.Error = ErrNoURL.Error()
		return res
	}

	if err := v.limiter.WaitURL(ctx, raw); err != nil {
		return v.fail(res, ReasonError, fmt.Errorf("politeness wait: %w", err))
	}

	cctx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, raw, nil)
	if err != nil {
		return v.fail(res, ReasonError, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", v.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := v.hc.Do(req)
	if err != nil {
		return v.fail(res, ReasonError, fmt.Errorf("get %s: %w", raw, err))
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.Request != nil && resp.Request.URL != nil {
		res.FinalURL = resp.Request.URL.String()
		if p := util.DetectPlatform(res.FinalURL, ""); p != util.PlatformGeneric {
			res.Platform = string(p)
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		res.Outcome = domain.OutcomeClosed
		res.Reason = string(domain.ClosureExpired)
		v.logger.Printf("[verify] job_id=%s status=%d reason=%s", job.JobID, resp.StatusCode, res.Reason)
		return res

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return v.fail(res, ReasonUnreachable, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, v.opts.MaxBodyBytes))
	if err != nil {
		return v.fail(res, ReasonError, fmt.Errorf("read body: %w", err))
	}

	if phrase, ok := MatchClosure(util.Platform(res.Platform), util.HTMLToText(string(body))); ok {
		res.Outcome = domain.OutcomeClosed
		res.Reason = string(domain.ClosureFilled)
		res.MatchedPhrase = phrase
		v.logger.Printf("[verify] job_id=%s status=%d reason=%s phrase=%q", job.JobID, resp.StatusCode, res.Reason, phrase)
		return res
	}

	res.Outcome = domain.OutcomeActive
	res.IsActive = true
	return res
}

func (v *Verifier) fail(res domain.VerificationResult, reason string, err error) domain.VerificationResult {
	res.Outcome = domain.OutcomeError
	res.IsActive = false
	res.Reason = reason
	res.Error = err.Error()
	v.logger.Printf("[verify] job_id=%s reason=%s err=%v", res.JobID, reason, err)
	return res
}
