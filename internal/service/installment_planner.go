package service

import (
	"context"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"
	"github.com/segyhp/clinic-finance-engine/pkg/utils"
)

// InstallmentPlanner breaks a budget into installments and applies the
// resolved processing fee to the financed portion.
type InstallmentPlanner struct {
	resolver *FeeScheduleResolver
	settings Settings
}

func NewInstallmentPlanner(resolver *FeeScheduleResolver, settings Settings) *InstallmentPlanner {
	return &InstallmentPlanner{resolver: resolver, settings: settings}
}

// Plan computes the installment breakdown of input
func (p *InstallmentPlanner) Plan(ctx context.Context, input domain.InstallmentPlanInput) (*domain.InstallmentPlanResult, error) {
	result, _, err := p.plan(ctx, input)
	return result, err
}

func (p *InstallmentPlanner) plan(ctx context.Context, input domain.InstallmentPlanInput) (*domain.InstallmentPlanResult, *FeeQuote, error) {
	// 1. Validate amounts
	if err := validateAmounts(input.TotalValue, input.DownPayment); err != nil {
		return nil, nil, err
	}
	if input.InstallmentCount < 1 {
		return nil, nil, customError.WrapInstallmentCountBelowOne(input.InstallmentCount)
	}

	// 2. Resolve fee terms
	quote, err := p.resolver.Resolve(ctx, FeeLookup{
		ClinicID:         input.ClinicID,
		Method:           input.PaymentMethod,
		InstallmentCount: input.InstallmentCount,
		Override:         input.FeeOverride,
	})
	if err != nil {
		return nil, nil, err
	}

	// 3. Split the financed amount
	financed := input.TotalValue.Sub(input.DownPayment)
	parts := utils.SplitInstallments(financed.Cents(), input.InstallmentCount)

	minimum := quote.Profile.MinInstallmentValue
	if minimum.IsPositive() && input.InstallmentCount > 1 && domain.Money(parts[0]) < minimum {
		return nil, nil, customError.WrapInstallmentBelowMinimum(domain.Money(parts[0]).String(), minimum.String())
	}

	installments := make([]domain.Installment, len(parts))
	for i, part := range parts {
		installments[i] = domain.Installment{
			Number:    i + 1,
			Amount:    domain.Money(part),
			DueInDays: utils.DueInDays(i+1, p.settings.SettlementCycleDays),
		}
	}

	// 4. Apply the fee to the financed portion only
	fee := quote.BaseFee(financed)
	feePercent := quote.FeePercent
	if quote.FeeType == domain.FeeTypeFixed {
		feePercent = utils.RatioPercent(fee.Cents(), financed.Cents())
	}

	result := &domain.InstallmentPlanResult{
		TotalValue:        input.TotalValue,
		DownPayment:       input.DownPayment,
		InstallmentCount:  input.InstallmentCount,
		PaymentMethod:     input.PaymentMethod,
		FinancedAmount:    financed,
		InstallmentValue:  installments[0].Amount,
		Installments:      installments,
		FeeType:           quote.FeeType,
		FeePercentApplied: feePercent,
		FeeTotal:          fee,
		TotalToReceive:    input.DownPayment.Add(financed).Sub(fee),
		NetLossFromFees:   fee,
		Confidence:        quote.Confidence,
		Flags:             append([]string(nil), quote.Flags...),
	}

	return result, quote, nil
}

func validateAmounts(total, down domain.Money) error {
	if total.IsNegative() {
		return customError.WrapNegativeTotalValue(total.String())
	}
	if !total.InRange() {
		return customError.WrapAmountOutOfRange(total.String(), domain.MaxMoney.String())
	}
	if down.IsNegative() || down > total {
		return customError.WrapDownPaymentOutOfRange(down.String(), total.String())
	}
	return nil
}
