package reference

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStateFilingFee_TexasLLC(t *testing.T) {
	fee := GetStateFilingFee("Texas", "LLC")
	require.NotNil(t, fee)
	assert.True(t, fee.Fee.IsZero())
	assert.Equal(t, FrequencyAnnual, fee.Frequency)
	assert.Equal(t, "May 15", fee.DueDate)
}

func TestGetStateFilingFee_Desconocidos(t *testing.T) {
	assert.Nil(t, GetStateFilingFee("NotAState", "LLC"))
	assert.Nil(t, GetStateFilingFee("Texas", "Cooperative"))
	assert.True(t, GetStateFee("NotAState", "LLC").IsZero())
}

func TestCanonicalState_NombreYCodigo(t *testing.T) {
	for _, in := range []string{"texas", "  TEXAS ", "TX", "tx"} {
		name, ok := CanonicalState(in)
		require.True(t, ok, in)
		assert.Equal(t, "Texas", name)
	}
	name, ok := CanonicalState("district  of columbia")
	require.True(t, ok)
	assert.Equal(t, "District of Columbia", name)
}

func TestGetStateFee_AliasDeTipo(t *testing.T) {
	assert.True(t, GetStateFee("Delaware", "Corporation").Equal(decimal.NewFromInt(175)))
	assert.True(t, GetStateFee("Delaware", "s-corp").Equal(decimal.NewFromInt(175)))
	assert.True(t, GetStateFee("FL", "llc").Equal(decimal.RequireFromString("138.75")))
}

func TestGetStateEntityTypes_Ordenados(t *testing.T) {
	assert.Equal(t, []string{"Corporation", "LLC", "Nonprofit"}, GetStateEntityTypes("Texas"))
	assert.Nil(t, GetStateEntityTypes("Atlantis"))
}

func TestStates_Incluye51(t *testing.T) {
	states := States()
	assert.Len(t, states, 51)
	assert.Contains(t, states, "Wyoming")
	assert.Equal(t, "TX", StateCode("texas"))
}

func TestResolveDueDate(t *testing.T) {
	tx := GetStateFilingFee("Texas", "LLC")
	assert.Equal(t, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC), tx.ResolveDueDate(2025, nil, nil))

	nv := GetStateFilingFee("Nevada", "LLC")
	formed := time.Date(2019, time.February, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), nv.ResolveDueDate(2024, &formed, nil))
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), nv.ResolveDueDate(2024, nil, nil))
}

func TestRequiredFields(t *testing.T) {
	assert.Contains(t, RequiredFields("Texas"), "taxpayerNumber")
	assert.Equal(t, defaultRequiredFields, RequiredFields("Ohio"))
	assert.Nil(t, RequiredFields("Atlantis"))
}

func TestGetStateResources(t *testing.T) {
	r := GetStateResources("CA")
	require.NotNil(t, r)
	assert.Equal(t, "https://www.sos.ca.gov", r.SecretaryOfState)
	assert.Nil(t, GetStateResources("Atlantis"))
}
