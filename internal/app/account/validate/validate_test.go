package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsPasswordAcceptable(t *testing.T) {
	cases := map[string]bool{
		"":            false,
		"abc12":       false,
		"abcdef":      false,
		"123456":      false,
		"abc123":      true,
		"1a1a1a":      true,
		"password123": true,
		"Z9    ":      true,
		"пароль1":     false,
		"пароль1a":    true,
		"!!!!!!":      false,
		"!!!!a1":      true,
	}
	for pwd, want := range cases {
		require.Equal(t, want, IsPasswordAcceptable(pwd), "password %q", pwd)
	}
}

func TestIsBirthDatePlausible(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	cases := map[string]bool{
		"2000-01-01":           true,
		"1900-01-02":           true,
		"1900-01-01":           false,
		"1899-12-31":           false,
		"2024-06-15":           true,
		"2024-06-16":           false,
		"3000-01-01":           false,
		"not-a-date":           false,
		"":                     false,
		"2000-13-40":           false,
		"1990-05-20T08:30:00Z": true,
		"1990-05-20T08:30:00":  true,
	}
	for date, want := range cases {
		require.Equal(t, want, isBirthDatePlausibleAt(date, now), "date %q", date)
	}
}

func TestIsBirthDatePlausible_UsesCurrentTime(t *testing.T) {
	require.True(t, IsBirthDatePlausible("2000-01-01"))
	require.False(t, IsBirthDatePlausible(time.Now().AddDate(0, 0, 2).Format(time.DateOnly)))
}

func TestParseBirthDate(t *testing.T) {
	d, err := ParseBirthDate("2000-01-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseBirthDate("01/01/2000")
	require.ErrorIs(t, err, ErrBadBirthDate)
}

func TestNew_CustomTags(t *testing.T) {
	type input struct {
		Password  string `validate:"password"`
		BirthDate string `validate:"birthdate"`
	}
	v := New()

	require.NoError(t, v.Struct(input{Password: "abc123", BirthDate: "2000-01-01"}))
	require.Error(t, v.Struct(input{Password: "abcdef", BirthDate: "2000-01-01"}))
	require.Error(t, v.Struct(input{Password: "abc123", BirthDate: "1800-01-01"}))
}

func TestDescribe_UsesJSONNames(t *testing.T) {
	type input struct {
		Name     string `json:"name"     validate:"required"`
		Password string `json:"password" validate:"password"`
	}
	err := New().Struct(input{Password: "abcdef"})
	require.Error(t, err)

	msg := Describe(err)
	require.Equal(t, "name: required; password: password", msg)
	require.NotContains(t, msg, "input.")
	require.NotContains(t, msg, "Key:")

	require.Equal(t, "The input could not be validated.", Describe(errors.New("boom")))
}
