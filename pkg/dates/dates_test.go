package dates

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso", "1992-11-19", "1992-11-19"},
		{"long form", "November 19, 1992", "1992-11-19"},
		{"long form without comma", "November 19 1992", "1992-11-19"},
		{"lowercase month", "july 4, 2021", "2021-07-04"},
		{"abbreviated month", "Dec 31, 2021", "2021-12-31"},
		{"day first", "4 July 2021", "2021-07-04"},
		{"weekday prefix", "Sunday, July 4, 2021", "2021-07-04"},
		{"timestamp", "2021-07-04T18:30:00Z", "2021-07-04"},
		{"timestamp with offset keeps local day", "2021-07-04T23:30:00-05:00", "2021-07-04"},
		{"us numeric", "07/04/2021", "2021-07-04"},
		{"extra whitespace", "  November   19,  1992 ", "1992-11-19"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "not a date", "1992-13-01", "February 30, 2021", "19/11/1992"} {
		_, err := Normalize(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrInvalid), input)
	}
}
