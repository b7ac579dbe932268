package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

func TestParseSigns(t *testing.T) {
	t.Run("strict json", func(t *testing.T) {
		signs, err := parseSigns(`{"solarSign":"Pisces","vedicMoonSign":"Aquarius","chineseSign":"Monkey"}`)
		require.NoError(t, err)
		assert.Equal(t, "Pisces", signs.SolarSign)
		assert.Equal(t, "Aquarius", signs.VedicMoonSign)
		assert.Equal(t, "Monkey", signs.ChineseSign)
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		signs, err := parseSigns("Sure! Here you go:\n" +
			`{"solarSign":"Pisces","vedicMoonSign":"Aquarius","chineseSign":"Monkey"}` +
			"\nLet me know if you need anything else.")
		require.NoError(t, err)
		assert.Equal(t, "Pisces", signs.SolarSign)
	})

	t.Run("no json anywhere", func(t *testing.T) {
		_, err := parseSigns("I cannot determine the signs from this information.")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnparsableModelOutput)
		assert.Equal(t, domain.KindModelOutput, domain.KindOf(err))
	})

	t.Run("extracted candidate still invalid", func(t *testing.T) {
		_, err := parseSigns(`prose {"solarSign":} prose`)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnparsableModelOutput)
	})
}
