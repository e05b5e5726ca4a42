package efactura_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturis/efactura-pro/internal/domain/efactura"
	"github.com/facturis/efactura-pro/internal/domain/entity"
)

func validInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:        "FCT-2024-0042",
		IssueDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Supplier: entity.Party{
			Name:     "Exemplu Trading SRL",
			TaxID:    "RO18547290",
			VATPayer: true,
			Address: entity.Address{
				Street: "Str. Memorandumului 28",
				City:   "Cluj-Napoca",
				County: "Cluj",
			},
		},
		Customer: entity.Party{
			Name:  "Client Demo SRL",
			TaxID: "19",
			Address: entity.Address{
				Street: "Bd. Unirii 10",
				City:   "Sector 3",
				County: "București",
			},
		},
		Lines: []entity.Line{
			{
				Name:      "Consultanță",
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(100),
				TaxRate:   decimal.NewFromInt(19),
			},
		},
	}
}

func requireRule(t *testing.T, err error, rule string) *efactura.ValidationFailure {
	t.Helper()
	require.Error(t, err)
	var f *efactura.ValidationFailure
	require.True(t, errors.As(err, &f), "error must be a *ValidationFailure, got %T", err)
	assert.Equal(t, rule, f.Rule)
	return f
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, efactura.Validate(validInvoice()))
}

func TestValidate_StructuralRules(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		inv := validInvoice()
		inv.ID = ""
		requireRule(t, efactura.Validate(inv), efactura.RuleInvoiceIDRequired)
	})
	t.Run("missing issue date", func(t *testing.T) {
		inv := validInvoice()
		inv.IssueDate = time.Time{}
		requireRule(t, efactura.Validate(inv), efactura.RuleIssueDateRequired)
	})
	t.Run("missing supplier name", func(t *testing.T) {
		inv := validInvoice()
		inv.Supplier.Name = ""
		f := requireRule(t, efactura.Validate(inv), efactura.RulePartyNameRequired)
		assert.Contains(t, f.Message, "supplier")
	})
	t.Run("missing customer tax id", func(t *testing.T) {
		inv := validInvoice()
		inv.Customer.TaxID = ""
		f := requireRule(t, efactura.Validate(inv), efactura.RulePartyTaxIDRequired)
		assert.Contains(t, f.Message, "customer")
	})
	t.Run("missing city", func(t *testing.T) {
		inv := validInvoice()
		inv.Supplier.Address.City = ""
		requireRule(t, efactura.Validate(inv), efactura.RulePartyCityRequired)
	})
}

func TestValidate_LineRules(t *testing.T) {
	t.Run("no lines", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines = nil
		requireRule(t, efactura.Validate(inv), efactura.RuleLinesRequired)
	})
	t.Run("zero quantity rejected", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].Quantity = decimal.Zero
		requireRule(t, efactura.Validate(inv), efactura.RuleLineQuantityZero)
	})
	t.Run("negative quantity allowed", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].Quantity = decimal.NewFromInt(-2)
		assert.NoError(t, efactura.Validate(inv), "the sign is meaningful; only zero is rejected")
	})
	t.Run("negative price", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].UnitPrice = decimal.NewFromFloat(-0.01)
		requireRule(t, efactura.Validate(inv), efactura.RuleLinePriceNegative)
	})
	t.Run("tax rate over 100", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].TaxRate = decimal.NewFromFloat(100.01)
		requireRule(t, efactura.Validate(inv), efactura.RuleLineTaxRateRange)
	})
	t.Run("tax rate boundaries inclusive", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].TaxRate = decimal.NewFromInt(100)
		assert.NoError(t, efactura.Validate(inv))
		inv.Lines[0].TaxRate = decimal.Zero
		assert.NoError(t, efactura.Validate(inv))
	})
}

func TestValidate_LengthCeilings(t *testing.T) {
	t.Run("invoice id", func(t *testing.T) {
		inv := validInvoice()
		inv.ID = "F1" + strings.Repeat("X", 40)
		requireRule(t, efactura.Validate(inv), efactura.RuleInvoiceIDTooLong)
	})
	t.Run("party name", func(t *testing.T) {
		inv := validInvoice()
		inv.Customer.Name = strings.Repeat("A", 201)
		requireRule(t, efactura.Validate(inv), efactura.RulePartyNameTooLong)
	})
	t.Run("street", func(t *testing.T) {
		inv := validInvoice()
		inv.Supplier.Address.Street = strings.Repeat("S", 151)
		requireRule(t, efactura.Validate(inv), efactura.RuleStreetTooLong)
	})
	t.Run("line description", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].Description = strings.Repeat("d", 501)
		requireRule(t, efactura.Validate(inv), efactura.RuleLineDescTooLong)
	})
}

func TestValidate_InvoiceIDNeedsDigit(t *testing.T) {
	inv := validInvoice()
	inv.ID = "FACTURA-FINALA"
	f := requireRule(t, efactura.Validate(inv), efactura.RuleInvoiceIDNeedsDigit)
	assert.Contains(t, f.Message, "FACTURA-FINALA")
}

func TestValidate_CountyRules(t *testing.T) {
	t.Run("domestic county missing", func(t *testing.T) {
		inv := validInvoice()
		inv.Supplier.Address.County = ""
		requireRule(t, efactura.Validate(inv), efactura.RuleCountyRequired)
	})
	t.Run("domestic county unknown echoes the literal", func(t *testing.T) {
		inv := validInvoice()
		inv.Customer.Address.County = "Contea de Nicăieri"
		f := requireRule(t, efactura.Validate(inv), efactura.RuleCountyUnknown)
		assert.Contains(t, f.Message, "Contea de Nicăieri",
			"the offending literal must be named in the failure")
	})
	t.Run("foreign region passes through", func(t *testing.T) {
		inv := validInvoice()
		inv.Customer.Address.CountryCode = "DE"
		inv.Customer.Address.County = "Bayern"
		assert.NoError(t, efactura.Validate(inv))
	})
	t.Run("foreign region may be absent", func(t *testing.T) {
		inv := validInvoice()
		inv.Customer.Address.CountryCode = "DE"
		inv.Customer.Address.County = ""
		assert.NoError(t, efactura.Validate(inv))
	})
}

func TestValidate_DocumentType(t *testing.T) {
	inv := validInvoice()
	inv.TypeCode = "999"
	requireRule(t, efactura.Validate(inv), efactura.RuleDocTypeUnknown)
}

// TestValidate_Ordering pins the contractual rule order: an invoice broken
// in several ways reports the earliest rule in the table.
func TestValidate_Ordering(t *testing.T) {
	inv := validInvoice()
	inv.ID = ""                          // rule 1 (structural)
	inv.Lines = nil                      // rule 2 (lines)
	inv.Supplier.Address.County = "???"  // rule 5 (county)
	requireRule(t, efactura.Validate(inv), efactura.RuleInvoiceIDRequired)

	inv = validInvoice()
	inv.Lines[0].Quantity = decimal.Zero // line rule
	inv.ID = "NO-DIGITS-HERE" + "1"      // keep id valid
	inv.Customer.Address.County = "???"  // county rule, later in the table
	requireRule(t, efactura.Validate(inv), efactura.RuleLineQuantityZero)
}
