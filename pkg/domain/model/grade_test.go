package model_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
)

func TestGradeFromSmellDensity(t *testing.T) {
	cases := []struct {
		name    string
		density float64
		expect  types.HealthGrade
	}{
		{"low density grades A+", 1.0, types.GradeAPlus},
		{"just above zero grades A+", 0.001, types.GradeAPlus},
		{"lower bound of A band", 2.0, types.GradeA},
		{"upper side of A band", 3.999, types.GradeA},
		{"middle of B+ band", 4.5, types.GradeBPlus},
		{"lower bound of B band", 5.0, types.GradeB},
		{"upper side of B band", 6.9, types.GradeB},
		{"lower bound of F band", 7.0, types.GradeF},
		{"upper side of F band", 9.99, types.GradeF},
		{"exactly zero is unknown", 0.0, types.GradeUnknown},
		{"ten is unknown", 10.0, types.GradeUnknown},
		{"above ten is unknown", 42.0, types.GradeUnknown},
		{"negative is unknown", -1.0, types.GradeUnknown},
		{"NaN is unknown", math.NaN(), types.GradeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.V(t, model.GradeFromSmellDensity(tc.density)).Equal(tc.expect)
		})
	}
}
