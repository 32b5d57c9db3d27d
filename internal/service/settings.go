package service

import (
	"github.com/segyhp/clinic-finance-engine/internal/config"
	"github.com/segyhp/clinic-finance-engine/internal/domain"

	"github.com/shopspring/decimal"
)

// Settings are the tunable business constants used by the calculators
type Settings struct {
	AnticipationMultipliers        map[domain.PaymentMethod]decimal.Decimal
	AnticipationMaterialityPercent decimal.Decimal
	AnticipationSettlementDays     int
	SettlementCycleDays            int
	DefaultCostPercent             decimal.Decimal
	DefaultTaxPercent              decimal.Decimal
	MaxScenarioInstallments        int
	ScenarioConcurrency            int
}

// DefaultSettings returns the values used when no configuration is supplied
func DefaultSettings() Settings {
	return Settings{
		AnticipationMultipliers: map[domain.PaymentMethod]decimal.Decimal{
			domain.PaymentMethodCreditCard: decimal.RequireFromString("1.5"),
			domain.PaymentMethodBoleto:     decimal.RequireFromString("0.1"),
		},
		AnticipationMaterialityPercent: decimal.NewFromInt(5),
		AnticipationSettlementDays:     1,
		SettlementCycleDays:            30,
		DefaultCostPercent:             decimal.NewFromInt(20),
		DefaultTaxPercent:              decimal.Zero,
		MaxScenarioInstallments:        12,
		ScenarioConcurrency:            4,
	}
}

// NewSettings reads the business section of cfg
func NewSettings(cfg *config.Config) Settings {
	settings := DefaultSettings()
	if cfg == nil {
		return settings
	}

	for _, method := range []domain.PaymentMethod{domain.PaymentMethodCreditCard, domain.PaymentMethodBoleto} {
		settings.AnticipationMultipliers[method] = cfg.GetAnticipationMultiplier(method.String())
	}
	settings.AnticipationMaterialityPercent = cfg.GetMaterialityPercent()
	settings.AnticipationSettlementDays = cfg.Business.AnticipationSettlementDays
	settings.SettlementCycleDays = cfg.Business.SettlementCycleDays
	settings.DefaultCostPercent = cfg.GetDefaultCostPercent()
	settings.DefaultTaxPercent = cfg.GetDefaultTaxPercent()
	settings.MaxScenarioInstallments = cfg.Business.MaxScenarioInstallments
	settings.ScenarioConcurrency = cfg.Business.ScenarioConcurrency

	return settings
}

// AnticipationMultiplier returns the default multiplier for method, zero when
// the method settles immediately.
func (s Settings) AnticipationMultiplier(method domain.PaymentMethod) decimal.Decimal {
	if multiplier, ok := s.AnticipationMultipliers[method]; ok {
		return multiplier
	}
	return decimal.Zero
}
