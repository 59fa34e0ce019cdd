package types

// HealthGrade is the user-facing letter grade derived from the code-smell
// density of the latest analysis.
type HealthGrade string

const (
	GradeAPlus HealthGrade = "A+"
	GradeA     HealthGrade = "A"
	GradeBPlus HealthGrade = "B+"
	GradeB     HealthGrade = "B"
	GradeF     HealthGrade = "F"

	// GradeUnknown is returned for densities outside all bands, including
	// exactly 0 and anything at or above 10.
	GradeUnknown HealthGrade = "-"
)
