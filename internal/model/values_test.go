package model

import (
	"math"
	"math/big"
	"slices"
	"testing"
	"time"

	"github.com/devrev/crmstore/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "42", want: "42"},
		{in: "0042", want: "42"},
		{in: "000", want: "0"},
		{in: "0", want: "0"},
		{in: "340282366920938463463374607431768211456", want: "340282366920938463463374607431768211456"},
		{in: "", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1e3", wantErr: true},
		{in: " 1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, err := ParseID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidID, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
			assert.True(t, id.Canonical())
		})
	}
}

func TestIDConstructorsAreCanonical(t *testing.T) {
	big128, ok := new(big.Int).SetString("18446744073709551616", 10)
	require.True(t, ok)
	fromBig, err := IDFromBig(big128)
	require.NoError(t, err)

	gen := NewIDGenerator(ID{})
	for _, id := range []ID{NewID(0), NewID(7), NewID(1 << 63), MustParseID("0009"), fromBig, gen.Next()} {
		assert.True(t, id.Canonical(), id.String())
	}
	assert.False(t, ID{}.Canonical())

	_, err = IDFromBig(big.NewInt(-1))
	assert.Error(t, err)
}

func TestCompareIsNumeric(t *testing.T) {
	ids := []ID{
		MustParseID("18446744073709551616"),
		NewID(100),
		NewID(9),
		NewID(10),
		MustParseID("0"),
		MustParseID("00010"),
	}
	slices.SortFunc(ids, Compare)

	var got []string
	for _, id := range ids {
		got = append(got, id.String())
	}
	assert.Equal(t, []string{"0", "9", "10", "10", "100", "18446744073709551616"}, got)
	assert.Equal(t, 0, Compare(NewID(10), MustParseID("010")))
	assert.Equal(t, 1, Compare(NewID(1), ID{}), "the absent ID sorts first")
}

func TestIDText(t *testing.T) {
	var id ID
	require.NoError(t, id.UnmarshalText([]byte("007")))
	assert.Equal(t, NewID(7), id)

	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "7", string(text))

	assert.Error(t, id.UnmarshalText([]byte("x")))
	assert.Equal(t, NewID(7), id, "failed unmarshal leaves the ID untouched")
	assert.Equal(t, int64(7), id.Big().Int64())
	assert.Nil(t, ID{}.Big())
}

func TestIDGenerator(t *testing.T) {
	gen := NewIDGenerator(NewID(5))
	assert.Equal(t, NewID(5), gen.Next())

	gen.Observe(NewID(3))
	assert.Equal(t, NewID(6), gen.Next(), "observing a smaller ID changes nothing")

	gen.Observe(MustParseID("18446744073709551615"))
	assert.Equal(t, "18446744073709551616", gen.Next().String())

	gen.Observe(ID{})
	assert.Equal(t, "18446744073709551617", gen.Next().String())
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		cents   int64
		wantErr bool
	}{
		{in: "250", cents: 25000},
		{in: "250.5", cents: 25050},
		{in: "250.05", cents: 25005},
		{in: "-12.30", cents: -1230},
		{in: "+1", cents: 100},
		{in: " 3.00 ", cents: 300},
		{in: "", wantErr: true},
		{in: "1.", wantErr: true},
		{in: ".5", wantErr: true},
		{in: "1.234", wantErr: true},
		{in: "1,00", wantErr: true},
		{in: "99999999999999999999", wantErr: true},
		{in: "92233720368547758.07", cents: math.MaxInt64},
		{in: "92233720368547758.08", wantErr: true},
		{in: "5.+1", wantErr: true},
		{in: "5.-1", wantErr: true},
		{in: "++5", wantErr: true},
		{in: "-+5", wantErr: true},
		{in: "5_000", wantErr: true},
		{in: "٥", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMoney(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidMoney, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cents, m.Cents())
		})
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "250.00", MustParseMoney("250").String())
	assert.Equal(t, "-0.05", MoneyFromCents(-5).String())
	assert.Equal(t, "-92233720368547758.08", MoneyFromCents(math.MinInt64).String())
	assert.Equal(t, "92233720368547758.07", MoneyFromCents(math.MaxInt64).String())
	assert.Equal(t, MustParseMoney("350"), MustParseMoney("250").Add(MustParseMoney("100")))
	assert.True(t, Money{}.IsZero())

	assert.Equal(t, -1, CompareMoney(MustParseMoney("100"), MustParseMoney("250")))
	assert.Equal(t, 0, CompareMoney(MustParseMoney("250"), MustParseMoney("250.00")))
	assert.Equal(t, 1, CompareMoney(MustParseMoney("0.01"), MustParseMoney("-100")))
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.February, 28), d)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
	assert.Equal(t, 0, CompareDate(d, DateOf(time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC))))
	assert.Equal(t, -1, CompareDate(Date{}, d))
	assert.Equal(t, "", Date{}.String())

	_, err = ParseDate("2024-02-30")
	assert.Equal(t, errors.ErrCodeInvalidDate, errors.GetCode(err))
}
