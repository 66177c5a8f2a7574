package navigate

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/testutil"
)

func TestParseJump(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Jump
		wantErr bool
	}{
		{name: "empty", text: "", want: Jump{}},
		{name: "separator only", text: ":", want: Jump{}},
		{name: "row only", text: "5", want: Jump{Row: 5, Fields: HasRow}},
		{name: "row and column", text: "3:10", want: Jump{Row: 3, Col: 10, Fields: HasRow | HasCol}},
		{name: "column only", text: ":7", want: Jump{Col: 7, Fields: HasCol}},
		{name: "row with separator", text: "4:", want: Jump{Row: 4, Fields: HasRow}},
		{name: "explicit zero", text: "0:0", want: Jump{Fields: HasRow | HasCol}},
		{name: "leading zeros", text: "007", want: Jump{Row: 7, Fields: HasRow}},
		{name: "letter", text: "a", wantErr: true},
		{name: "second separator", text: "1:2:3", wantErr: true},
		{name: "sign", text: "-1", wantErr: true},
		{name: "space", text: "1 :2", wantErr: true},
		{name: "overflow", text: "99999999999999999999999", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJump(tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseJump_MaxInt(t *testing.T) {
	j, err := ParseJump(strconv.Itoa(int(^uint(0) >> 1)))
	require.NoError(t, err)
	require.Equal(t, int(^uint(0)>>1), j.Row)
}

func TestParseJump_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		row := rapid.IntRange(0, 1<<40).Draw(t, "row")
		col := rapid.IntRange(0, 1<<40).Draw(t, "col")
		j, err := ParseJump(strconv.Itoa(row) + ":" + strconv.Itoa(col))
		require.NoError(t, err)
		require.Equal(t, Jump{Row: row, Col: col, Fields: HasRow | HasCol}, j)
	})
}

func lines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "line " + strconv.Itoa(i)
	}
	return out
}

func TestApply_EmptyJumpLeavesCursor(t *testing.T) {
	f := testutil.NewFrame(lines(10), testutil.Cursor(4, 2))
	Apply(f, Jump{})
	require.Equal(t, frame.Position{Row: 4, Col: 2}, f.Cursor)
}

func TestApply_RowOnly(t *testing.T) {
	f := testutil.NewFrame(lines(10), testutil.Cursor(1, 3))
	j, err := ParseJump("5")
	require.NoError(t, err)
	Apply(f, j)
	require.Equal(t, frame.Position{Row: 5, Col: 3}, f.Cursor)
}

func TestApply_ClampsRow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 50).Draw(t, "lines")
		row := rapid.IntRange(0, 1000).Draw(t, "row")
		f := testutil.NewFrame(lines(n))
		Apply(f, Jump{Row: row, Fields: HasRow})
		require.Equal(t, min(row, n-1), f.Cursor.Row)
	})
}

func TestApply_ColumnNotClamped(t *testing.T) {
	f := testutil.NewFrame([]string{"ab"})
	Apply(f, Jump{Col: 40, Fields: HasCol})
	require.Equal(t, 40, f.Cursor.Col)
	require.Equal(t, 2, f.EffectiveColumn())
}

func TestRun_InvalidSetsAlert(t *testing.T) {
	f := testutil.NewFrame(lines(3), testutil.Cursor(2, 1))
	err := Run(f, "1:2:3", "")
	require.ErrorIs(t, err, ErrInvalidFormat)
	require.Equal(t, InvalidFormatAlert, f.Alert)
	require.Equal(t, frame.Position{Row: 2, Col: 1}, f.Cursor)

	require.Error(t, Run(f, "x", "31"))
	require.Equal(t, "\x1b[31mInvalid format\x1b[m", f.Alert)
}

func TestRun_Valid(t *testing.T) {
	f := testutil.NewFrame(lines(20))
	require.NoError(t, Run(f, "3:10", "31"))
	require.Equal(t, frame.Position{Row: 3, Col: 10}, f.Cursor)
	require.Empty(t, f.Alert)
}
