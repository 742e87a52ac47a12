package schema

import "strings"

// DiscoveryMode selects how table schemas are discovered.
type DiscoveryMode int

const (
	ModeAuto DiscoveryMode = iota
	ModeHints
	ModeSampling
	ModeDisabled
)

// ParseDiscoveryMode is case-insensitive and trims whitespace. Empty or
// unrecognized input falls back to auto rather than failing; a bad setting
// should never take the driver down.
func ParseDiscoveryMode(value string) DiscoveryMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hints":
		return ModeHints
	case "sampling":
		return ModeSampling
	case "disabled":
		return ModeDisabled
	default:
		return ModeAuto
	}
}

func (m DiscoveryMode) String() string {
	switch m {
	case ModeHints:
		return "hints"
	case ModeSampling:
		return "sampling"
	case ModeDisabled:
		return "disabled"
	default:
		return "auto"
	}
}

// RequiresSampling reports whether the mode may read table data.
func (m DiscoveryMode) RequiresSampling() bool {
	return m == ModeAuto || m == ModeSampling
}

// Enabled reports whether any schema inference happens at all.
func (m DiscoveryMode) Enabled() bool {
	return m != ModeDisabled
}

// SampleStrategy selects which items a sampling run reads.
type SampleStrategy int

const (
	SampleRandom SampleStrategy = iota
	SampleSequential
	SampleRecent
)

func ParseSampleStrategy(value string) SampleStrategy {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sequential":
		return SampleSequential
	case "recent":
		return SampleRecent
	default:
		return SampleRandom
	}
}

func (s SampleStrategy) String() string {
	switch s {
	case SampleSequential:
		return "sequential"
	case SampleRecent:
		return "recent"
	default:
		return "random"
	}
}

// CacheStrategy selects how the schema cache keeps entries fresh.
type CacheStrategy int

const (
	CacheBasic CacheStrategy = iota
	CacheNone
	CachePredictive
	CacheAdaptive
)

func ParseCacheStrategy(value string) CacheStrategy {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return CacheNone
	case "predictive":
		return CachePredictive
	case "adaptive":
		return CacheAdaptive
	default:
		return CacheBasic
	}
}

func (s CacheStrategy) String() string {
	switch s {
	case CacheNone:
		return "none"
	case CachePredictive:
		return "predictive"
	case CacheAdaptive:
		return "adaptive"
	default:
		return "basic"
	}
}

// refreshesInBackground reports whether the strategy runs a warming loop.
func (s CacheStrategy) refreshesInBackground() bool {
	return s == CachePredictive || s == CacheAdaptive
}
