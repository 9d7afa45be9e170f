package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTaxID(t *testing.T) {
	cases := []struct {
		kind, raw, want string
		ok              bool
	}{
		{TaxIDTypeSSN, "123-45-6789", "123-45-6789", true},
		{TaxIDTypeSSN, "123456789", "123-45-6789", true},
		{TaxIDTypeSSN, "900-12-3456", "", false},
		{TaxIDTypeSSN, "000-12-3456", "", false},
		{TaxIDTypeSSN, "666-12-3456", "", false},
		{TaxIDTypeSSN, "123-00-3456", "", false},
		{TaxIDTypeITIN, "912-70-1234", "912-70-1234", true},
		{TaxIDTypeITIN, "123-45-6789", "", false},
		{"EIN", "123-45-6789", "", false},
		{TaxIDTypeSSN, "12-345-6789", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeTaxID(c.kind, c.raw)
		assert.Equal(t, c.ok, ok, c.raw)
		assert.Equal(t, c.want, got, c.raw)
	}
}

func TestEinApplication_MissingForSubmit(t *testing.T) {
	a := &EinApplication{LegalName: "Acme LLC", EntityType: EntityTypeLLC}
	missing := a.MissingForSubmit()
	assert.Contains(t, missing, "responsiblePartyTaxId")
	assert.Contains(t, missing, "businessStartDate")
	assert.NotContains(t, missing, "legalName")

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	full := &EinApplication{
		LegalName: "Acme LLC", EntityType: EntityTypeLLC, ResponsiblePartyName: "Jane Doe",
		ResponsiblePartyTaxIDCipher: "x", ReasonForApplying: "started_business", PrincipalActivity: "consulting",
		MailingLine1: "1 Main St", MailingCity: "Austin", MailingState: "TX", MailingZip: "78701",
		BusinessStartDate: &start,
	}
	assert.Empty(t, full.MissingForSubmit())
}

func TestEinApplication_TransicionesYMascara(t *testing.T) {
	a := &EinApplication{Status: EINStatusDraft, ResponsiblePartyLast4: "6789"}
	assert.True(t, a.CanEdit())
	assert.False(t, a.CanTransitionTo(EINStatusApproved))
	assert.Equal(t, "***-**-6789", a.MaskedTaxID())

	a.Status = EINStatusSubmitted
	assert.False(t, a.CanEdit())
	assert.True(t, a.CanTransitionTo(EINStatusApproved))
	assert.True(t, a.CanTransitionTo(EINStatusRejected))
	assert.False(t, a.CanTransitionTo(EINStatusDraft))

	assert.True(t, IsValidEIN("12-3456789"))
	assert.False(t, IsValidEIN("123456789"))
}
