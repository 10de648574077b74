package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Gender
		wantErr bool
	}{
		{"male", "m", GenderMale, false},
		{"female", "f", GenderFemale, false},
		{"upper case", "M", Gender{}, true},
		{"word", "male", Gender{}, true},
		{"empty", "", Gender{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGender(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.token, got.String())
		})
	}
}

func TestGenderHasTwoValues(t *testing.T) {
	assert.NotEqual(t, GenderMale, GenderFemale)

	// every Gender value has a wire token
	for _, g := range []Gender{{}, GenderMale, GenderFemale} {
		back, err := ParseGender(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, back)
	}
}

func TestDropZeroKeepsGender(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale} {
		u := PersonUpdate{Email: new(string), Gender: &g}.DropZero()
		assert.Nil(t, u.Email)
		require.NotNil(t, u.Gender)
		assert.Equal(t, g, *u.Gender)
	}
	assert.Nil(t, PersonUpdate{}.DropZero().Gender)
}
