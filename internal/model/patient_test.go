package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmissionTypeClassification(t *testing.T) {
	typ := func(s string) *string { return &s }

	cases := []struct {
		name    string
		at      *string
		inborn  bool
		outborn bool
	}{
		{"inborn", typ("Inborn"), true, false},
		{"outborn", typ("Outborn"), false, true},
		{"outborn variant", typ("Outborn (Referred)"), false, true},
		{"unset", nil, false, false},
		{"free text", typ("Unknown"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := PatientRecord{AdmissionType: tc.at}
			assert.Equal(t, tc.inborn, r.IsInborn())
			assert.Equal(t, tc.outborn, r.IsOutborn())
		})
	}
}

func TestAgeConversion(t *testing.T) {
	r := PatientRecord{Age: 2, AgeUnit: AgeUnitWeeks}
	assert.Equal(t, 14.0, r.AgeInDays())

	r = PatientRecord{Age: 3, AgeUnit: AgeUnitMonths}
	assert.Equal(t, 90.0, r.AgeInDays())

	r = PatientRecord{Age: 1, AgeUnit: AgeUnitYears}
	assert.Equal(t, 365.0, r.AgeInDays())
	assert.Equal(t, 1.0, r.AgeInYears())

	// Unqualified ages are already in days.
	r = PatientRecord{Age: 5, AgeUnit: AgeUnitDays}
	assert.Equal(t, 5.0, r.AgeInDays())
}
