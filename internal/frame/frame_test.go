package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLine_AppendDoubles(t *testing.T) {
	l := NewLine(0)
	require.Equal(t, 0, l.Len())
	require.Equal(t, 0, l.Cap())

	l.Append('a')
	require.Equal(t, 1, l.Cap())
	l.Append('b')
	require.Equal(t, 2, l.Cap())
	l.Append('c')
	require.Equal(t, 4, l.Cap())
	require.Equal(t, 3, l.Len())
	require.Equal(t, []rune("abc"), l.Runes())
}

func TestLine_EnsureCapacityExact(t *testing.T) {
	l := LineFromRunes([]rune("ab"))
	require.Equal(t, 2, l.Cap())

	// Larger than double: grows to exactly the request.
	l.EnsureCapacity(10)
	require.Equal(t, 10, l.Cap())
	require.Equal(t, "ab", l.String())

	// Never shrinks.
	l.EnsureCapacity(1)
	require.Equal(t, 10, l.Cap())
}

func TestLine_CapacityAtLeastLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := NewLine(rapid.IntRange(0, 8).Draw(t, "initial"))
		n := rapid.IntRange(0, 100).Draw(t, "appends")
		for i := 0; i < n; i++ {
			l.Append(rune('a' + i%26))
			require.GreaterOrEqual(t, l.Cap(), l.Len())
		}
		require.Equal(t, n, l.Len())
	})
}

func TestFrame_NewHasOneEmptyLine(t *testing.T) {
	f := New()
	require.Equal(t, 1, f.LineCount())
	require.Equal(t, 0, f.Line(0).Len())
	require.False(t, f.HasPath())

	f = NewWithLines("/tmp/x", nil)
	require.Equal(t, 1, f.LineCount())
}

func TestFrame_EffectiveColumn(t *testing.T) {
	f := NewWithLines("", []*Line{LineFromString("abc")})
	f.Cursor.Col = 10
	require.Equal(t, 3, f.EffectiveColumn())
	require.Equal(t, 10, f.Cursor.Col, "clamp is deferred, not stored")
}

func TestFrame_SplitPath(t *testing.T) {
	f := NewWithLines("/home/user/notes.txt", nil)
	dir, base := f.SplitPath()
	require.Equal(t, "/home/user/", dir)
	require.Equal(t, "notes.txt", base)

	dir, base = New().SplitPath()
	require.Empty(t, dir)
	require.Empty(t, base)
}

func TestFrame_AlertReplaced(t *testing.T) {
	f := New()
	f.SetAlert("first")
	f.SetAlert("second")
	require.Equal(t, "second", f.Alert)
}

func TestFrame_SetMark(t *testing.T) {
	f := New()
	f.Cursor = Position{Row: 0, Col: 3}
	f.SetMark()
	require.Equal(t, f.Cursor, f.Mark)
	require.True(t, f.Flags.Has(FlagMarkSet|FlagMarkActive))
}

func TestFrame_Text(t *testing.T) {
	f := NewWithLines("", []*Line{LineFromString("a"), LineFromString(""), LineFromString("ü")})
	require.Equal(t, "a\n\nü", f.Text())
}

func TestRegistry_CurrentFollowsAdd(t *testing.T) {
	r := NewRegistry()
	require.Nil(t, r.Current())
	require.Equal(t, None, r.CurrentHandle())

	h0 := r.NewScratch()
	h1 := r.Add(NewWithLines("/a", nil))
	require.Equal(t, Handle(0), h0)
	require.Equal(t, h1, r.CurrentHandle())

	require.True(t, r.Select(h0))
	require.Equal(t, h0, r.CurrentHandle())
	require.False(t, r.Select(Handle(7)))
	require.Equal(t, h0, r.CurrentHandle())
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry()
	r.NewScratch()
	h := r.Add(NewWithLines("/tmp/a.txt", nil))

	got, ok := r.Find("/tmp/a.txt")
	require.True(t, ok)
	require.Equal(t, h, got)

	_, ok = r.Find("a.txt")
	require.False(t, ok, "lookup is an exact string match")

	_, ok = r.Find("")
	require.False(t, ok, "scratch frames are never found")
}

func TestRegistry_GrowthPreservesFrames(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 4; i++ {
		f := NewWithLines("", []*Line{LineFromString(string(rune('a' + i)))})
		r.Add(f)
	}
	require.Equal(t, 4, r.Cap())
	require.True(t, r.Select(2))
	before := r.Current()

	r.Add(NewWithLines("/fifth", nil))
	require.Equal(t, 8, r.Cap())
	require.Equal(t, 5, r.Len())

	for i := 0; i < 4; i++ {
		require.Equal(t, string(rune('a'+i)), r.Frame(Handle(i)).Line(0).String())
	}
	require.Same(t, before, r.Frame(2))
	require.Equal(t, Handle(4), r.CurrentHandle(), "the added frame becomes current")
}

func TestRegistry_Next(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, None, r.Next())
	r.NewScratch()
	r.NewScratch()
	r.NewScratch()
	require.Equal(t, Handle(0), r.Next())
	require.Equal(t, Handle(1), r.Next())
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()
	r.NewScratch()
	r.Close()
	require.Equal(t, 0, r.Len())
	require.Nil(t, r.Current())
}
