package model

import "github.com/secmon-lab/codergate/pkg/domain/types"

// GradeFromSmellDensity maps a code-smell density to a letter grade. Bands
// are half-open with an inclusive lower bound, except the lowest band which
// is open at zero: a density of exactly 0 means "no analysis signal" and
// grades as unknown, not A+. Densities at or above 10 (and NaN, which fails
// every comparison) also grade as unknown.
func GradeFromSmellDensity(density float64) types.HealthGrade {
	switch {
	case density > 0 && density < 2:
		return types.GradeAPlus
	case density >= 2 && density < 4:
		return types.GradeA
	case density >= 4 && density < 5:
		return types.GradeBPlus
	case density >= 5 && density < 7:
		return types.GradeB
	case density >= 7 && density < 10:
		return types.GradeF
	default:
		return types.GradeUnknown
	}
}
