package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/randpass/randpass-go/internal/model"
	"github.com/randpass/randpass-go/internal/randomorg"
	"github.com/randpass/randpass-go/internal/repository"
)

const (
	// OptionsKey is the store key holding the settings blob.
	OptionsKey = "randpass-options"
	// CurrentSchemaVersion is bumped whenever stored settings need repair.
	CurrentSchemaVersion = 1
	// MaxPasswordLength bounds max-length for every password source.
	MaxPasswordLength = 128
)

var ErrInvalidSettings = errors.New("invalid settings")

// OptionStore is a key-value store for option blobs. Get returns
// repository.ErrOptionNotFound for missing keys.
type OptionStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
}

// DefaultSettings returns the settings used on first activation.
func DefaultSettings() model.Settings {
	return model.Settings{
		SchemaVersion: CurrentSchemaVersion,
		UseRemoteAPI:  true,
		MinLength:     10,
		MaxLength:     20,
		Debug:         true,
	}
}

// SettingsService loads, repairs and persists the settings blob.
type SettingsService struct {
	store OptionStore
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store OptionStore) *SettingsService {
	return &SettingsService{store: store}
}

// Resolve returns the current settings. Missing, stale or invalid settings are
// repaired and written back. Resolve never fails: store errors are logged and
// the best available settings are returned.
func (s *SettingsService) Resolve(ctx context.Context) model.Settings {
	_, settings := s.resolve(ctx)
	return settings
}

// Snapshot resolves the settings and also returns the full stored blob.
func (s *SettingsService) Snapshot(ctx context.Context) model.SettingsResponse {
	opts, settings := s.resolve(ctx)
	return model.SettingsResponse{Settings: settings, Options: opts}
}

func (s *SettingsService) resolve(ctx context.Context) (*model.Options, model.Settings) {
	stored, err := s.load(ctx)
	if err != nil {
		slog.Warn("settings unavailable, using defaults", "error", err)
		return settingsToOptions(nil, DefaultSettings()), DefaultSettings()
	}

	if stored != nil {
		if settings, ok := currentSettings(stored); ok {
			return stored, settings
		}
	}

	settings := repairSettings(stored)
	opts := settingsToOptions(stored, settings)
	if err := s.save(ctx, opts); err != nil {
		slog.Warn("failed to persist repaired settings", "error", err)
	} else {
		slog.Info("settings repaired", "version", settings.SchemaVersion)
	}
	return opts, settings
}

// Activate repairs and persists the settings unconditionally, keeping every
// valid stored value.
func (s *SettingsService) Activate(ctx context.Context) (model.SettingsResponse, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return model.SettingsResponse{}, err
	}

	settings := repairSettings(stored)
	opts := settingsToOptions(stored, settings)
	if err := s.save(ctx, opts); err != nil {
		return model.SettingsResponse{}, err
	}
	return model.SettingsResponse{Settings: settings, Options: opts}, nil
}

// Deactivate removes the stored settings.
func (s *SettingsService) Deactivate(ctx context.Context) error {
	if err := s.store.Delete(ctx, OptionsKey); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

// Update applies patch on top of the stored settings. Recognized fields in the
// patch must be valid; other fields are stored as given. The version field is
// owned by the service and ignored.
func (s *SettingsService) Update(ctx context.Context, patch *model.Options) (model.SettingsResponse, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return model.SettingsResponse{}, err
	}

	base := repairSettings(stored)
	merged := settingsToOptions(stored, base)
	for _, key := range patch.Keys() {
		if key == model.OptionVersion {
			continue
		}
		raw, _ := patch.Get(key)
		merged.Set(key, raw)
	}

	settings, err := strictSettings(merged)
	if err != nil {
		return model.SettingsResponse{}, err
	}
	if settings.UseRemoteAPI && settings.MaxLength > randomorg.MaxStringLength {
		return model.SettingsResponse{}, fmt.Errorf("%w: %s must not exceed %d while %s is enabled",
			ErrInvalidSettings, model.OptionMaxLength, randomorg.MaxStringLength, model.OptionRandomAPI)
	}
	settings.SchemaVersion = CurrentSchemaVersion

	opts := settingsToOptions(merged, settings)
	if err := s.save(ctx, opts); err != nil {
		return model.SettingsResponse{}, err
	}
	return model.SettingsResponse{Settings: settings, Options: opts}, nil
}

// load returns nil without error when nothing is stored. An undecodable blob
// is treated the same way so that it gets replaced.
func (s *SettingsService) load(ctx context.Context) (*model.Options, error) {
	data, err := s.store.Get(ctx, OptionsKey)
	if err != nil {
		if errors.Is(err, repository.ErrOptionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}

	opts, err := model.ParseOptions(data)
	if err != nil {
		slog.Warn("discarding undecodable settings", "error", err)
		return nil, nil
	}
	return opts, nil
}

func (s *SettingsService) save(ctx context.Context, opts *model.Options) error {
	data, err := opts.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Set(ctx, OptionsKey, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// currentSettings reports whether stored is at the current schema version and
// every recognized field is strictly valid.
func currentSettings(stored *model.Options) (model.Settings, bool) {
	version, ok := strictInt(stored, model.OptionVersion)
	if !ok || version < CurrentSchemaVersion {
		return model.Settings{}, false
	}

	settings, err := strictSettings(stored)
	if err != nil {
		return model.Settings{}, false
	}
	settings.SchemaVersion = version
	return settings, true
}

// strictSettings decodes the recognized fields, requiring every one of them to
// be present and valid.
func strictSettings(o *model.Options) (model.Settings, error) {
	var s model.Settings
	var ok bool

	if s.UseRemoteAPI, ok = boolOption(o, model.OptionRandomAPI); !ok {
		return s, fmt.Errorf("%w: %s must be a boolean", ErrInvalidSettings, model.OptionRandomAPI)
	}
	if s.Debug, ok = boolOption(o, model.OptionDebug); !ok {
		return s, fmt.Errorf("%w: %s must be a boolean", ErrInvalidSettings, model.OptionDebug)
	}
	if s.MinLength, ok = strictInt(o, model.OptionMinLength); !ok || s.MinLength < 1 {
		return s, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidSettings, model.OptionMinLength)
	}
	if s.MaxLength, ok = strictInt(o, model.OptionMaxLength); !ok || s.MaxLength < s.MinLength {
		return s, fmt.Errorf("%w: %s must be an integer >= %s", ErrInvalidSettings, model.OptionMaxLength, model.OptionMinLength)
	}
	if s.MaxLength > MaxPasswordLength {
		return s, fmt.Errorf("%w: %s must not exceed %d", ErrInvalidSettings, model.OptionMaxLength, MaxPasswordLength)
	}
	return s, nil
}

// repairSettings keeps each valid stored field and substitutes the default
// for the rest. Integer fields given as numeric strings are coerced.
func repairSettings(stored *model.Options) model.Settings {
	s := DefaultSettings()
	if stored == nil {
		return s
	}

	if b, ok := boolOption(stored, model.OptionRandomAPI); ok {
		s.UseRemoteAPI = b
	}
	if n, ok := looseInt(stored, model.OptionMinLength); ok && n > 0 && n <= MaxPasswordLength {
		s.MinLength = n
	}
	if n, ok := looseInt(stored, model.OptionMaxLength); ok && n >= s.MinLength && n <= MaxPasswordLength {
		s.MaxLength = n
	}
	if s.MaxLength < s.MinLength {
		s.MaxLength = s.MinLength
	}
	if b, ok := boolOption(stored, model.OptionDebug); ok {
		s.Debug = b
	}
	return s
}

// settingsToOptions overlays the recognized fields onto a copy of base,
// keeping every other field and the existing key order.
func settingsToOptions(base *model.Options, s model.Settings) *model.Options {
	var out *model.Options
	if base != nil {
		out = base.Clone()
	} else {
		out = model.NewOptions()
	}

	// Values are plain bools and ints; marshaling cannot fail.
	_ = out.SetValue(model.OptionVersion, CurrentSchemaVersion)
	_ = out.SetValue(model.OptionRandomAPI, s.UseRemoteAPI)
	_ = out.SetValue(model.OptionMinLength, s.MinLength)
	_ = out.SetValue(model.OptionMaxLength, s.MaxLength)
	_ = out.SetValue(model.OptionDebug, s.Debug)
	return out
}

// boolOption accepts only JSON true and false; null counts as missing.
func boolOption(o *model.Options, key string) (bool, bool) {
	raw, ok := o.Get(key)
	if !ok {
		return false, false
	}
	var b *bool
	if err := json.Unmarshal(raw, &b); err != nil || b == nil {
		return false, false
	}
	return *b, true
}

// strictInt accepts only JSON numbers with no fractional part.
func strictInt(o *model.Options, key string) (int, bool) {
	raw, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return 0, false
	}
	return floatToInt(*f)
}

// looseInt additionally accepts numeric strings such as "12".
func looseInt(o *model.Options, key string) (int, bool) {
	if n, ok := strictInt(o, key); ok {
		return n, true
	}
	raw, _ := o.Get(key)
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, false
	}
	return n, true
}

func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
