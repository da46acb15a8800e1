package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphIsValid(t *testing.T) {
	require.NoError(t, validateGraph())
}

func TestGraphShape(t *testing.T) {
	assert.Len(t, graph, 8)

	// The approval step owns the only conditional edge.
	assert.Empty(t, nodesByID[StepCreateSchedule].next)

	// Schedule and nutrition fan out from the assessment.
	assert.ElementsMatch(t,
		[]string{StepCreateSchedule, StepGenerateNutrition},
		nodesByID[StepAssessFeasibility].next)

	// The revision loop is the only cycle.
	assert.Equal(t, []string{StepAssessFeasibility}, nodesByID[StepUpdateConstraints].next)
}
