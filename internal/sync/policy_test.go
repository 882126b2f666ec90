package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFailurePolicy(t *testing.T) {
	p, err := ParseFailurePolicy("all-or-nothing")
	require.NoError(t, err)
	assert.Equal(t, AllOrNothing, p)

	p, err = ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, BestEffort, p, "Empty defaults to best effort")

	_, err = ParseFailurePolicy("sometimes")
	assert.Error(t, err)
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy("best-effort", "all-or-nothing")
	require.NoError(t, err)
	assert.Equal(t, Policy{MetaStats: BestEffort, Leaderboard: AllOrNothing}, p)

	_, err = NewPolicy("best-effort", "bogus")
	assert.ErrorContains(t, err, "leaderboard policy")
}
