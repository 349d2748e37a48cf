package dharitri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharitri/dvm-go/model/dharitri"
)

func TestTokenIdentifierIsValid(t *testing.T) {
	valid := []string{
		"ALC-6258d2",
		"ALC123-6258d2",
		"12345-6258d2",
		"ALCCCCCCCC-6258d2",
	}
	for _, id := range valid {
		assert.True(t, dharitri.TokenIdentifier(id).IsValid(), id)
	}

	invalid := []string{
		"",
		"MOAX",
		"ALC",
		"AL-C6258d2",         // ticker too short
		"ALCCCCCCCCC-6258d2", // ticker too long
		"alc-6258d2",         // lowercase ticker
		"ALC-6258D2",         // uppercase random suffix
		"ALC-6258d2x",        // suffix too long
		"ALC-258d2",          // suffix too short
		"ALC6258d2",          // no dash
		"ALC-6258d2-6258d2",  // dash inside ticker
	}
	for _, id := range invalid {
		assert.False(t, dharitri.TokenIdentifier(id).IsValid(), id)
	}
}

func TestMoaxOrDctParse(t *testing.T) {
	t.Run("marker parses as MOAX", func(t *testing.T) {
		parsed := dharitri.ParseMoaxOrDct([]byte("MOAX"))
		require.True(t, parsed.IsMoax())
		require.False(t, parsed.IsDct())
		require.True(t, parsed.Equal(dharitri.Moax()))
	})

	t.Run("anything else parses as DCT", func(t *testing.T) {
		parsed := dharitri.ParseMoaxOrDct([]byte("ALC-6258d2"))
		require.True(t, parsed.IsDct())
		id, ok := parsed.DctIdentifier()
		require.True(t, ok)
		require.Equal(t, dharitri.TokenIdentifier("ALC-6258d2"), id)
	})

	t.Run("round trip", func(t *testing.T) {
		require.Equal(t, []byte("MOAX"), dharitri.Moax().Bytes())
		reparsed := dharitri.ParseMoaxOrDct(dharitri.Moax().Bytes())
		require.True(t, reparsed.IsMoax())

		token := dharitri.Dct("ALC-6258d2")
		require.Equal(t, []byte("ALC-6258d2"), token.Bytes())
		require.True(t, dharitri.ParseMoaxOrDct(token.Bytes()).Equal(token))
	})

	t.Run("parse does not validate", func(t *testing.T) {
		parsed := dharitri.ParseMoaxOrDct([]byte("not a token"))
		require.True(t, parsed.IsDct())
		require.False(t, parsed.IsValid())
	})
}

func TestMoaxOrDctIsValid(t *testing.T) {
	assert.True(t, dharitri.Moax().IsValid())
	assert.True(t, dharitri.Dct("ALC-6258d2").IsValid())
	assert.False(t, dharitri.Dct("AL-C6258d2").IsValid())
}

func TestMoaxOrDctEquality(t *testing.T) {
	assert.True(t, dharitri.Moax().Equal(dharitri.Moax()))
	assert.False(t, dharitri.Moax().Equal(dharitri.Dct("ALC-6258d2")))
	assert.True(t, dharitri.Dct("ALC-6258d2").Equal(dharitri.Dct("ALC-6258d2")))
	assert.False(t, dharitri.Dct("ALC-6258d2").Equal(dharitri.Dct("OTH-6258d2")))
}
