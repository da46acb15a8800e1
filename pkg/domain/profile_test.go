package domain_test

import (
	"testing"

	"github.com/quentel/fitflow/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestUserProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.UserProfile
		wantErr bool
	}{
		{
			name:    "valid",
			profile: domain.UserProfile{Goal: "1 muscle up", TimePerDay: 30, DaysPerWeek: 3},
		},
		{
			name:    "empty equipment is bodyweight only",
			profile: domain.UserProfile{Goal: "handstand", TimePerDay: 20, DaysPerWeek: 7, Equipment: nil},
		},
		{
			name:    "missing goal",
			profile: domain.UserProfile{TimePerDay: 30, DaysPerWeek: 3},
			wantErr: true,
		},
		{
			name:    "days out of range",
			profile: domain.UserProfile{Goal: "g", TimePerDay: 30, DaysPerWeek: 8},
			wantErr: true,
		},
		{
			name:    "zero days",
			profile: domain.UserProfile{Goal: "g", TimePerDay: 30, DaysPerWeek: 0},
			wantErr: true,
		},
		{
			name:    "time below minimum",
			profile: domain.UserProfile{Goal: "g", TimePerDay: 5, DaysPerWeek: 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrSchemaValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserProfile_ApplyDefaults(t *testing.T) {
	p := domain.UserProfile{Goal: "1 muscle up"}
	p.ApplyDefaults()
	assert.Equal(t, domain.DefaultTimePerDay, p.TimePerDay)
	assert.Equal(t, domain.DefaultDaysPerWeek, p.DaysPerWeek)
}

func TestUserProfile_Equal(t *testing.T) {
	a := &domain.UserProfile{Goal: "g", CurrentFitness: "f", TimePerDay: 30, DaysPerWeek: 3, Equipment: []string{"bar"}}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.DaysPerWeek = 2
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Equipment = []string{"rings"}
	assert.False(t, a.Equal(c))
}

func TestUserProfile_WeeklyMinutes(t *testing.T) {
	p := domain.UserProfile{TimePerDay: 30, DaysPerWeek: 3}
	assert.Equal(t, 90, p.WeeklyMinutes())
}
