package palette

import "sync"

// Brand identifies which fixture family a PaletteConfig override applies
// to (spec.md §4.7: "palette selection can be overridden per brand").
type Brand string

const (
	BrandHue Brand = "hue"
	BrandWiz Brand = "wiz"
)

// Config is the resolved palette configuration for one brand: which
// families feed the sequence, how many colors per family, vibrancy, the
// saturation floor, and the active cycle mode.
type Config struct {
	Families            []Family
	PerFamily           int
	Vibrancy            float64
	MinSaturation       float64
	Mode                CycleMode
	Manual              bool
	// Disorder, when true, skips contrast-ordering the built sequence
	// (spec.md §4.7: "if disorder is false ... contrast-orient"):
	// families are concatenated in selection order and lightly shuffled
	// by DisorderAggression instead.
	Disorder            bool
	DisorderAggression  float64
	// TimedIntervalSec, BeatLock, BeatLockGraceSec, ReactiveMargin, and
	// SpectrumFeatureMap configure the timed_cycle/reactive_shift/
	// spectrum_mapper cycle modes (spec.md §4.7).
	TimedIntervalSec    float64
	BeatLock            bool
	BeatLockGraceSec    float64
	ReactiveMargin      float64
	SpectrumFeatureMap  [5]string
}

// DefaultConfig is the baseline applied to any brand without its own
// override.
var DefaultConfig = Config{
	Families:           []Family{FamilyBlue, FamilyRed},
	PerFamily:           4,
	Vibrancy:            0.35,
	MinSaturation:       0.55,
	Mode:                CycleReactiveShift,
	TimedIntervalSec:    8,
	BeatLockGraceSec:    3,
	ReactiveMargin:      30,
	SpectrumFeatureMap:  [5]string{"lows", "mids", "highs", "rms", "flux"},
}

// Registry holds the global default palette config plus any per-brand
// overrides, guarded by a single mutex in keeping with the rest of the
// core's single-mutex concurrency model.
type Registry struct {
	mu             sync.Mutex
	global         Config
	brandOverrides map[Brand]Config
}

// NewRegistry constructs a Registry seeded with DefaultConfig.
func NewRegistry() *Registry {
	return &Registry{
		global:         DefaultConfig,
		brandOverrides: make(map[Brand]Config),
	}
}

// ForBrand returns the effective config for a brand: its override if one
// has been set manually, otherwise the current global config.
func (r *Registry) ForBrand(b Brand) Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.brandOverrides[b]; ok {
		return cfg
	}
	return r.global
}

// SetGlobal replaces the global default config. Existing manual
// per-brand overrides are left untouched.
func (r *Registry) SetGlobal(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg.Manual = false
	r.global = cfg
}

// SetManualPaletteConfig pins a brand-specific override, which ForBrand
// returns until ClearBrand is called for that brand.
func (r *Registry) SetManualPaletteConfig(b Brand, cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg.Manual = true
	r.brandOverrides[b] = cfg
}

// ClearBrand removes a brand's manual override, reverting it to the
// global default.
func (r *Registry) ClearBrand(b Brand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.brandOverrides, b)
}
