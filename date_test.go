package offerdoc_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes as YYYY-MM-DD", func(t *testing.T) {
		t.Parallel()

		v := struct {
			Open *offerdoc.Date `json:"open"`
		}{Open: offerdoc.NewDate(2026, time.January, 9)}

		b, err := json.Marshal(v)

		require.NoError(t, err)
		assert.JSONEq(t, `{"open":"2026-01-09"}`, string(b))
	})

	t.Run("nil date encodes as null", func(t *testing.T) {
		t.Parallel()

		v := struct {
			Open *offerdoc.Date `json:"open"`
		}{}

		b, err := json.Marshal(v)

		require.NoError(t, err)
		assert.JSONEq(t, `{"open":null}`, string(b))
	})

	t.Run("decodes YYYY-MM-DD", func(t *testing.T) {
		t.Parallel()

		var d offerdoc.Date
		err := json.Unmarshal([]byte(`"2026-01-28"`), &d)

		require.NoError(t, err)
		assert.Equal(t, offerdoc.Date{Year: 2026, Month: time.January, Day: 28}, d)
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		t.Parallel()

		var d offerdoc.Date
		err := json.Unmarshal([]byte(`"Jan 28, 2026"`), &d)

		require.Error(t, err)
	})
}

func TestNewDate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, offerdoc.NewDate(2026, time.February, 30))
	assert.Equal(t, "2024-02-29", offerdoc.NewDate(2024, time.February, 29).String())
}
