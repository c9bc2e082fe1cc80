package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randpass/randpass-go/internal/crypto"
	"github.com/randpass/randpass-go/internal/model"
)

var ErrRemoteUnavailable = errors.New("remote randomness service is not configured")

// RandomSource is a quota-limited remote source of random strings.
type RandomSource interface {
	Quota(ctx context.Context) (int, error)
	QuotaLimit() int
	Strings(ctx context.Context, count, length int) ([]string, error)
}

// PasswordFunc is a local password generator.
type PasswordFunc func(length int, special, extraSpecial bool) (string, error)

// LocalArgs are the arguments passed to the local PasswordFunc.
type LocalArgs struct {
	Length       int
	Special      bool
	ExtraSpecial bool
}

// LocalArgsFunc adjusts the local generator arguments for a request.
type LocalArgsFunc func(args LocalArgs, settings model.Settings) LocalArgs

// GeneratorOption configures a GeneratorService.
type GeneratorOption func(*GeneratorService)

// WithPasswordFunc replaces the local password generator.
func WithPasswordFunc(fn PasswordFunc) GeneratorOption {
	return func(s *GeneratorService) {
		if fn != nil {
			s.local = fn
		}
	}
}

// WithLocalArgs installs a hook that may rewrite the local generator
// arguments. The reported length stays the drawn length.
func WithLocalArgs(fn LocalArgsFunc) GeneratorOption {
	return func(s *GeneratorService) {
		s.localArgs = fn
	}
}

// GeneratorService produces one password per request, from the remote source
// when it is enabled and has quota to spare, otherwise locally.
type GeneratorService struct {
	remote    RandomSource
	local     PasswordFunc
	localArgs LocalArgsFunc
	timeout   time.Duration
	now       func() time.Time
	intn      func(min, max int) (int, error)
}

// NewGeneratorService creates a new GeneratorService. remote may be nil, in
// which case every password is generated locally. timeout bounds each remote
// call; zero means no bound beyond the caller's context.
func NewGeneratorService(remote RandomSource, timeout time.Duration, opts ...GeneratorOption) *GeneratorService {
	s := &GeneratorService{
		remote:  remote,
		local:   crypto.GeneratePassword,
		timeout: timeout,
		now:     time.Now,
		intn:    crypto.RandomInt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces a password for the given settings. Remote failures are
// reported in the result and never fall back to the local generator.
func (s *GeneratorService) Generate(ctx context.Context, settings model.Settings) model.GenerationResult {
	result := model.GenerationResult{Begin: s.now()}

	length, err := s.intn(settings.MinLength, settings.MaxLength)
	if err != nil {
		panic(fmt.Sprintf("draw password length in [%d, %d]: %v", settings.MinLength, settings.MaxLength, err))
	}
	result.LengthUsed = length

	if quota, ok := s.remoteReady(ctx, settings); ok {
		s.generateRemote(ctx, settings, quota, &result)
		return result
	}

	s.generateLocal(settings, &result)
	return result
}

// RemoteQuota reports the remote source's quota and threshold.
func (s *GeneratorService) RemoteQuota(ctx context.Context) (model.QuotaResponse, error) {
	if s.remote == nil {
		return model.QuotaResponse{}, ErrRemoteUnavailable
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	quota, err := s.remote.Quota(ctx)
	if err != nil {
		return model.QuotaResponse{}, err
	}
	limit := s.remote.QuotaLimit()
	return model.QuotaResponse{Quota: quota, Limit: limit, Ready: quota > limit}, nil
}

// remoteReady returns the current quota when the remote source should be used.
func (s *GeneratorService) remoteReady(ctx context.Context, settings model.Settings) (int, bool) {
	if !settings.UseRemoteAPI || s.remote == nil {
		return 0, false
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	quota, err := s.remote.Quota(ctx)
	if err != nil {
		slog.Warn("remote quota check failed, using local generator", "error", err)
		return 0, false
	}
	if quota <= s.remote.QuotaLimit() {
		slog.Info("remote quota below threshold, using local generator",
			"quota", quota, "limit", s.remote.QuotaLimit())
		return 0, false
	}
	return quota, true
}

func (s *GeneratorService) generateRemote(ctx context.Context, settings model.Settings, quotaBefore int, result *model.GenerationResult) {
	result.Source = model.SourceRemoteService

	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := s.now()
	strs, err := s.remote.Strings(callCtx, 1, result.LengthUsed)
	elapsed := s.now().Sub(start)
	if err == nil && len(strs) != 1 {
		err = fmt.Errorf("remote returned %d strings, want 1", len(strs))
	}
	if err != nil {
		result.Status = model.StatusError
		result.ErrorMessage = err.Error()
		return
	}

	result.Status = model.StatusOK
	result.Password = strs[0]

	if !settings.Debug {
		return
	}

	afterCtx, cancelAfter := s.withTimeout(ctx)
	defer cancelAfter()
	quotaAfter, err := s.remote.Quota(afterCtx)
	if err != nil {
		slog.Warn("remote quota check after generation failed", "error", err)
		return
	}
	result.Diagnostics = &model.Diagnostics{
		QuotaBefore:    quotaBefore,
		QuotaAfter:     quotaAfter,
		RemoteDuration: elapsed,
	}
}

// generateLocal uses the local generator, by default with standard special
// characters. A failure here means the platform's secure random source is
// broken, which is not a request-level error.
func (s *GeneratorService) generateLocal(settings model.Settings, result *model.GenerationResult) {
	args := LocalArgs{Length: result.LengthUsed, Special: true}
	if s.localArgs != nil {
		args = s.localArgs(args, settings)
	}
	password, err := s.local(args.Length, args.Special, args.ExtraSpecial)
	if err != nil {
		panic(fmt.Sprintf("local password generator failed: %v", err))
	}
	result.Status = model.StatusOK
	result.Source = model.SourceLocalFallback
	result.Password = password
}

func (s *GeneratorService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
