package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCivID_KnownSlugs(t *testing.T) {
	for slug, want := range apiCivIDs {
		assert.Equal(t, want, NormalizeCivID(slug), slug)
	}

	assert.Equal(t, "golden_horde", NormalizeCivID("golden-horde"))
	assert.Equal(t, "zhuxi", NormalizeCivID("zhu-xis-legacy"))
	assert.Equal(t, "order_of_the_dragon", NormalizeCivID("order-of-the-dragon"))
}

func TestNormalizeCivID_Fallback(t *testing.T) {
	assert.Equal(t, "new_civ", NormalizeCivID("new-civ"))
	assert.Equal(t, "a_b_c", NormalizeCivID("a-b-c"))
	assert.Equal(t, "plain", NormalizeCivID("plain"))
	assert.Equal(t, "", NormalizeCivID(""))
}
