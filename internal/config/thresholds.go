package config

import (
	"runtime"

	"github.com/agbru/nfloat/internal/limb"
	"github.com/agbru/nfloat/internal/nfloat"
)

// ApplyAdaptiveThresholds fills thresholds and the worker count left at
// zero with hardware estimates. Values set by flags or the environment are
// kept.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.ComplexKaratsuba == 0 {
		cfg.ComplexKaratsuba = EstimateComplexKaratsubaLimbs(limb.GetCPUFeatures())
	}
	if cfg.DotKaratsuba == 0 {
		cfg.DotKaratsuba = EstimateDotKaratsubaLimbs(limb.GetCPUFeatures())
	}
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkers()
	}
	return cfg
}

// EstimateComplexKaratsubaLimbs guesses where three real products and five
// additions beat four products. Wide multipliers make products relatively
// cheap and move the crossover up; 32-bit limbs move it down.
func EstimateComplexKaratsubaLimbs(f limb.CPUFeatures) int {
	switch {
	case nfloat.W == 32:
		return nfloat.DefaultKaratsubaLimbs / 2
	case f.BMI2 && f.ADX:
		return nfloat.DefaultKaratsubaLimbs + 4
	default:
		return nfloat.DefaultKaratsubaLimbs
	}
}

// EstimateDotKaratsubaLimbs guesses the crossover for complex dot products,
// where the extra additions land in the shared accumulator and cost more
// than in a single product.
func EstimateDotKaratsubaLimbs(f limb.CPUFeatures) int {
	return EstimateComplexKaratsubaLimbs(f) + 4
}

// EstimateWorkers returns one worker per CPU.
func EstimateWorkers() int {
	return max(1, runtime.NumCPU())
}
