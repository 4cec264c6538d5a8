package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		minutes int
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30", minutes: 570},
		{name: "postgres time", input: "18:00:00", want: "18:00", minutes: 1080},
		{name: "end of day", input: "24:00", want: "24:00", minutes: 1440},
		{name: "postgres end of day", input: "24:00:00", want: "24:00", minutes: 1440},
		{name: "spaces", input: " 07:00 ", want: "07:00", minutes: 420},
		{name: "garbage", input: "7am", wantErr: true},
		{name: "out of range", input: "25:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.minutes, got.Minutes())
		})
	}
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("10:00")
	b := MustTimeString("11:00")

	assert.True(t, a.IsBefore(b))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.True(t, a.Equal(MustTimeString("10:00")))
	assert.False(t, a.Equal(TimeString{}))
}

func TestTimeString_AddMinutes(t *testing.T) {
	next, err := MustTimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "24:00", next.String())

	_, err = MustTimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got := MustTimeString("24:00").On(date, loc)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, loc), got)

	got = MustTimeString("07:15").On(date, loc)
	assert.Equal(t, time.Date(2025, 6, 1, 7, 15, 0, 0, loc), got)
}

func TestTimeString_ValueScan(t *testing.T) {
	v, err := MustTimeString("24:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "24:00:00", v)

	v, err = TimeString{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var ts TimeString
	require.NoError(t, ts.Scan([]byte("08:00:00")))
	assert.Equal(t, "08:00", ts.String())

	end, err := MustTimeString("24:00").Value()
	require.NoError(t, err)
	require.NoError(t, ts.Scan([]byte(end.(string))))
	assert.Equal(t, "24:00", ts.String())
	assert.Equal(t, 24*60, ts.Minutes())

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "13:45", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.ErrorIs(t, ts.Scan(42), ErrInvalidTimeString)
}

func TestTimeString_Text(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.UnmarshalText([]byte("16:00")))

	b, err := ts.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "16:00", string(b))

	require.NoError(t, ts.UnmarshalText(nil))
	assert.True(t, ts.IsZero())
	assert.Error(t, ts.Validate())
}
