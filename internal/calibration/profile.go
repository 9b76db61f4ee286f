package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/nfloat/internal/config"
	"github.com/agbru/nfloat/internal/limb"
	"github.com/agbru/nfloat/internal/nfloat"
)

// CurrentProfileVersion changes whenever the meaning of a stored threshold
// changes; profiles of another version are ignored.
const CurrentProfileVersion = 1

// DefaultProfileFileName is the profile file name in the home directory.
const DefaultProfileFileName = ".nfcalc_calibration.json"

// CalibrationProfile is the persisted result of a calibration run together
// with the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU      int    `json:"num_cpu"`
	GOARCH      string `json:"goarch"`
	GOOS        string `json:"goos"`
	GoVersion   string `json:"go_version"`
	WordSize    int    `json:"word_size"`
	CPUFeatures string `json:"cpu_features"`
	Backend     string `json:"backend"`

	ComplexKaratsubaLimbs int    `json:"complex_karatsuba_limbs"`
	DotKaratsubaLimbs     int    `json:"dot_karatsuba_limbs"`
	CalibrationTime       string `json:"calibration_time,omitempty"`
}

// NewProfile returns a profile describing the running machine, with no
// thresholds yet.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       nfloat.W,
		CPUFeatures:    limb.GetCPUFeatures().String(),
		Backend:        limb.Backend(),
	}
}

// GetDefaultProfilePath returns ~/.nfcalc_calibration.json, or the bare
// file name when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// SaveProfile writes p to path as indented JSON.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding calibration profile: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration profile: %w", err)
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding calibration profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a new one and
// false when it is missing or unreadable.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	if p, err := loadProfile(path); err == nil {
		return p, true
	}
	return NewProfile(), false
}

// IsValid reports whether p was measured by this profile version on
// hardware like the running machine.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == nfloat.W &&
		p.CPUFeatures == limb.GetCPUFeatures().String()
}

// IsStale reports whether p is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	return p == nil || time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration v%d (%s, %s/%s, %d CPUs): complex Karatsuba from %d limbs, dot Karatsuba from %d limbs, measured %s",
		p.ProfileVersion, p.CPUFeatures, p.GOOS, p.GOARCH, p.NumCPU,
		p.ComplexKaratsubaLimbs, p.DotKaratsubaLimbs,
		p.CalibratedAt.Format(time.DateTime))
}

// LoadCachedCalibration fills the thresholds of cfg that are still zero from
// a valid profile at path (the default path when empty). It reports whether
// a profile was applied.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return cfg, false
	}
	if cfg.ComplexKaratsuba == 0 && p.ComplexKaratsubaLimbs > 0 {
		cfg.ComplexKaratsuba = p.ComplexKaratsubaLimbs
	}
	if cfg.DotKaratsuba == 0 && p.DotKaratsubaLimbs > 0 {
		cfg.DotKaratsuba = p.DotKaratsubaLimbs
	}
	return cfg, true
}
