package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-02-10 is a Tuesday.
var tuesday = time.Date(2026, 2, 10, 9, 30, 0, 0, time.Local)

func TestParseDates(t *testing.T) {
	t.Run("tomorrow", func(t *testing.T) {
		req := Parse("tomorrow 2pm 1 player", tuesday)
		assert.Equal(t, "02/11/2026", req.DateText())
	})

	t.Run("tomorrow wins regardless of other content", func(t *testing.T) {
		req := Parse("book tomorrow friday 3/15 2pm", tuesday)
		assert.Equal(t, "02/11/2026", req.DateText())
	})

	t.Run("today", func(t *testing.T) {
		req := Parse("today 2pm", tuesday)
		assert.Equal(t, "02/10/2026", req.DateText())
	})

	t.Run("weekday resolves strictly forward", func(t *testing.T) {
		req := Parse("saturday 7am", tuesday)
		assert.Equal(t, "02/14/2026", req.DateText())
	})

	t.Run("naming the current weekday means next week", func(t *testing.T) {
		saturday := time.Date(2026, 2, 14, 9, 0, 0, 0, time.Local)
		require.Equal(t, time.Saturday, saturday.Weekday())

		req := Parse("saturday 7am", saturday)
		assert.Equal(t, "02/21/2026", req.DateText())
		assert.Equal(t, "07:00", req.TimeOfDay)
		assert.Equal(t, 1, req.Players)
	})

	t.Run("weekday abbreviation as standalone token", func(t *testing.T) {
		req := Parse("sat 7am", tuesday)
		assert.Equal(t, "02/14/2026", req.DateText())
	})

	t.Run("weekday beats an explicit date", func(t *testing.T) {
		req := Parse("friday 3/15 2pm", tuesday)
		assert.Equal(t, "02/13/2026", req.DateText())
	})

	t.Run("month/day defaults to current year", func(t *testing.T) {
		req := Parse("2/14 3:30pm", tuesday)
		assert.Equal(t, "02/14/2026", req.DateText())
	})

	t.Run("two digit year", func(t *testing.T) {
		req := Parse("2/14/27 3:30pm", tuesday)
		assert.Equal(t, "02/14/2027", req.DateText())
	})

	t.Run("four digit year", func(t *testing.T) {
		req := Parse("02/08/2026 10:00 am 2 players", tuesday)
		assert.Equal(t, "02/08/2026", req.DateText())
	})

	t.Run("no date defaults to tomorrow", func(t *testing.T) {
		req := Parse("2pm", tuesday)
		assert.Equal(t, "02/11/2026", req.DateText())
	})
}

func TestParseTimes(t *testing.T) {
	t.Run("12 hour conversion table", func(t *testing.T) {
		cases := map[string]string{
			"12am":     "00:00",
			"12pm":     "12:00",
			"1am":      "01:00",
			"11am":     "11:00",
			"1pm":      "13:00",
			"11pm":     "23:00",
			"2:30pm":   "14:30",
			"10:05 am": "10:05",
		}
		for in, want := range cases {
			req := Parse("tomorrow "+in, tuesday)
			assert.Equal(t, want, req.TimeOfDay, "input %q", in)
			assert.False(t, req.SearchOnly, "input %q", in)
		}
	})

	t.Run("bare 24 hour token", func(t *testing.T) {
		req := Parse("tomorrow 14:00", tuesday)
		assert.Equal(t, "14:00", req.TimeOfDay)
		assert.False(t, req.SearchOnly)
	})

	t.Run("no time forces search only", func(t *testing.T) {
		req := Parse("tomorrow 2 players", tuesday)
		assert.Equal(t, DefaultTime, req.TimeOfDay)
		assert.True(t, req.SearchOnly)
	})
}

func TestParsePlayers(t *testing.T) {
	t.Run("digit before player word", func(t *testing.T) {
		req := Parse("tomorrow 2pm 1 player", tuesday)
		assert.Equal(t, 1, req.Players)
	})

	t.Run("3 players", func(t *testing.T) {
		req := Parse("3 players tomorrow 10am", tuesday)
		assert.Equal(t, 3, req.Players)
	})

	t.Run("standalone trailing digit", func(t *testing.T) {
		req := Parse("tomorrow 2pm 4", tuesday)
		assert.Equal(t, 4, req.Players)
	})

	t.Run("first standalone digit wins even when rejected", func(t *testing.T) {
		// "2" in the date token is the first standalone digit; its window
		// disqualifies it and the trailing "4" is never consulted.
		req := Parse("2/14 3:30pm 4", tuesday)
		assert.Equal(t, 1, req.Players)
	})

	t.Run("digit inside a time token is not a player count", func(t *testing.T) {
		req := Parse("2/14 3:30pm", tuesday)
		assert.Equal(t, 1, req.Players)
	})

	t.Run("digit inside a date token is not a player count", func(t *testing.T) {
		req := Parse("2/14 10:00", tuesday)
		assert.Equal(t, 1, req.Players)
	})
}

func TestParseSearchIntent(t *testing.T) {
	t.Run("whats available today", func(t *testing.T) {
		req := Parse("what's available today", tuesday)
		assert.True(t, req.SearchOnly)
		assert.Equal(t, "02/10/2026", req.DateText())
		assert.Equal(t, DefaultTime, req.TimeOfDay)
	})

	t.Run("keyword with explicit time stays search", func(t *testing.T) {
		req := Parse("check saturday 7am", tuesday)
		assert.True(t, req.SearchOnly)
		assert.Equal(t, "07:00", req.TimeOfDay)
	})

	t.Run("garbage degrades to a search for tomorrow", func(t *testing.T) {
		req := Parse("asdf qwerty", tuesday)
		assert.Equal(t, "02/11/2026", req.DateText())
		assert.Equal(t, DefaultTime, req.TimeOfDay)
		assert.Equal(t, 1, req.Players)
		assert.True(t, req.SearchOnly)
	})
}

func TestParseDeterministic(t *testing.T) {
	text := "saturday 7:15am 2 players"
	first := Parse(text, tuesday)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Parse(text, tuesday))
	}
}

func TestRequestDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00:30", "12:30 AM"},
		{"08:00", "8:00 AM"},
		{"12:00", "12:00 PM"},
		{"14:05", "2:05 PM"},
		{"23:45", "11:45 PM"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s->%s", tc.in, tc.want), func(t *testing.T) {
			req := Request{TimeOfDay: tc.in}
			assert.Equal(t, tc.want, req.TimeDisplay())
		})
	}
}
