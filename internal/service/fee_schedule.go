package service

import (
	"context"
	"errors"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	"github.com/segyhp/clinic-finance-engine/internal/metrics"
	"github.com/segyhp/clinic-finance-engine/internal/repository"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"
	"github.com/segyhp/clinic-finance-engine/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// errNotApplicable tells the resolver to move on to the next strategy without
// treating it as a failure.
var errNotApplicable = errors.New("strategy not applicable")

// FeeLookup is what a strategy needs to pick a fee profile
type FeeLookup struct {
	ClinicID         string
	Method           domain.PaymentMethod
	InstallmentCount int
	Override         *domain.FeeProfile
}

// CalculationStrategy is one source of fee terms in the resolution chain
type CalculationStrategy interface {
	Name() string
	Profile(ctx context.Context, lookup FeeLookup) (*domain.FeeProfile, error)
}

// OverrideStrategy uses terms injected by the caller
type OverrideStrategy struct{}

func (OverrideStrategy) Name() string { return "override" }

func (OverrideStrategy) Profile(_ context.Context, lookup FeeLookup) (*domain.FeeProfile, error) {
	if lookup.Override == nil {
		return nil, errNotApplicable
	}

	profile := *lookup.Override
	if profile.Method == "" {
		profile.Method = lookup.Method
	}
	if profile.Method != lookup.Method {
		return nil, errNotApplicable
	}
	if profile.FeeType == "" {
		profile.FeeType = domain.FeeTypePercentage
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return &profile, nil
}

// RemoteStrategy asks the clinic's fee schedule provider
type RemoteStrategy struct {
	Provider repository.FeeScheduleProvider
}

func (RemoteStrategy) Name() string { return "remote" }

func (s RemoteStrategy) Profile(ctx context.Context, lookup FeeLookup) (*domain.FeeProfile, error) {
	if lookup.ClinicID == "" || s.Provider == nil {
		return nil, errNotApplicable
	}

	profile, err := s.Provider.FeeTerms(ctx, lookup.ClinicID, lookup.Method, lookup.InstallmentCount)
	if errors.Is(err, customError.ErrFeeProfileNotFound) {
		return nil, errNotApplicable
	}
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, customError.WrapUpstreamUnavailable(lookup.ClinicID, customError.ErrFeeProfileNotFound)
	}
	if profile.Method != lookup.Method {
		return nil, customError.WrapDataInconsistency("", "provider returned terms for "+profile.Method.String())
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// LocalDefaultStrategy serves the built-in schedule and never fails for a
// known method.
type LocalDefaultStrategy struct {
	Profiles map[domain.PaymentMethod]domain.FeeProfile
}

func (LocalDefaultStrategy) Name() string { return "default" }

func (s LocalDefaultStrategy) Profile(_ context.Context, lookup FeeLookup) (*domain.FeeProfile, error) {
	profile, ok := s.Profiles[lookup.Method]
	if !ok {
		return nil, customError.WrapUnknownPaymentMethod(lookup.Method.String())
	}
	return &profile, nil
}

// DefaultFeeProfiles returns the built-in terms for every payment method
func DefaultFeeProfiles(settings Settings) map[domain.PaymentMethod]domain.FeeProfile {
	noFee := func(method domain.PaymentMethod, percent string) domain.FeeProfile {
		return domain.FeeProfile{
			Method:     method,
			FeeType:    domain.FeeTypePercentage,
			FeePercent: decimal.RequireFromString(percent),
		}
	}

	return map[domain.PaymentMethod]domain.FeeProfile{
		domain.PaymentMethodPix:          noFee(domain.PaymentMethodPix, "0"),
		domain.PaymentMethodCash:         noFee(domain.PaymentMethodCash, "0"),
		domain.PaymentMethodBankTransfer: noFee(domain.PaymentMethodBankTransfer, "0"),
		domain.PaymentMethodDebitCard:    noFee(domain.PaymentMethodDebitCard, "1.99"),
		domain.PaymentMethodCreditCard: {
			Method:              domain.PaymentMethodCreditCard,
			FeeType:             domain.FeeTypePercentage,
			FeePercent:          decimal.RequireFromString("2.49"),
			InstallmentsAllowed: true,
			MaxInstallments:     18,
			TieredSchedule: domain.FeeSchedule{
				{MaxInstallments: 1, FeePercent: decimal.RequireFromString("2.49")},
				{MaxInstallments: 3, FeePercent: decimal.RequireFromString("3.49")},
				{MaxInstallments: 6, FeePercent: decimal.RequireFromString("4.09")},
				{MaxInstallments: 12, FeePercent: decimal.RequireFromString("4.69")},
				{MaxInstallments: 18, FeePercent: decimal.RequireFromString("4.99")},
			},
			Anticipation: domain.AnticipationTerms{
				Multiplier: settings.AnticipationMultiplier(domain.PaymentMethodCreditCard),
			},
		},
		domain.PaymentMethodBoleto: {
			Method:              domain.PaymentMethodBoleto,
			FeeType:             domain.FeeTypePercentage,
			InstallmentsAllowed: true,
			MaxInstallments:     12,
			TieredSchedule: domain.FeeSchedule{
				{MaxInstallments: 1, FeePercent: decimal.Zero},
				{MaxInstallments: 12, FeePercent: decimal.NewFromInt(30)},
			},
			Anticipation: domain.AnticipationTerms{
				Multiplier: settings.AnticipationMultiplier(domain.PaymentMethodBoleto),
			},
		},
	}
}

// FeeQuote is the resolved fee for one plan
type FeeQuote struct {
	Profile             domain.FeeProfile
	Source              string
	FeeType             domain.FeeType
	FeePercent          decimal.Decimal
	FeeFixedAmount      domain.Money
	AnticipationPercent decimal.Decimal
	Confidence          domain.Confidence
	Flags               []string
}

// BaseFee returns the processing fee charged on financed
func (q FeeQuote) BaseFee(financed domain.Money) domain.Money {
	if q.FeeType == domain.FeeTypeFixed {
		if financed.IsPositive() {
			return q.FeeFixedAmount
		}
		return 0
	}
	return domain.Money(utils.PercentOf(financed.Cents(), q.FeePercent))
}

// AnticipationFee returns what anticipating every installment of financed costs
func (q FeeQuote) AnticipationFee(financed domain.Money) domain.Money {
	if q.FeeType == domain.FeeTypeFixed && len(q.Profile.Anticipation.Schedule) == 0 {
		if !financed.IsPositive() {
			return 0
		}
		fee := domain.Money(utils.Scale(q.FeeFixedAmount.Cents(), q.Profile.Anticipation.Multiplier))
		if fee.IsNegative() {
			return 0
		}
		return fee
	}
	return domain.Money(utils.PercentOf(financed.Cents(), q.AnticipationPercent))
}

// FeeScheduleResolver walks its strategies in order and quotes the first
// profile found. Failures of every strategy but the last are logged and
// counted, then skipped.
type FeeScheduleResolver struct {
	strategies []CalculationStrategy
	logger     *zap.Logger
}

// NewFeeScheduleResolver builds the override, remote, default chain. provider may be nil.
func NewFeeScheduleResolver(provider repository.FeeScheduleProvider, settings Settings, logger *zap.Logger) *FeeScheduleResolver {
	strategies := []CalculationStrategy{OverrideStrategy{}}
	if provider != nil {
		strategies = append(strategies, RemoteStrategy{Provider: provider})
	}
	strategies = append(strategies, LocalDefaultStrategy{Profiles: DefaultFeeProfiles(settings)})

	return NewFeeScheduleResolverWithStrategies(logger, strategies...)
}

// NewFeeScheduleResolverWithStrategies builds a resolver over a custom chain
func NewFeeScheduleResolverWithStrategies(logger *zap.Logger, strategies ...CalculationStrategy) *FeeScheduleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeScheduleResolver{strategies: strategies, logger: logger}
}

// Resolve validates the lookup and returns the applicable quote
func (r *FeeScheduleResolver) Resolve(ctx context.Context, lookup FeeLookup) (*FeeQuote, error) {
	if lookup.InstallmentCount < 1 {
		return nil, customError.WrapInstallmentCountBelowOne(lookup.InstallmentCount)
	}
	if !lookup.Method.IsValid() {
		return nil, customError.WrapUnknownPaymentMethod(lookup.Method.String())
	}

	degraded := false
	for i, strategy := range r.strategies {
		profile, err := strategy.Profile(ctx, lookup)
		if errors.Is(err, errNotApplicable) {
			continue
		}
		if err != nil {
			if i == len(r.strategies)-1 {
				return nil, err
			}
			degraded = true
			r.logger.Warn("fee lookup failed, falling back",
				zap.String("strategy", strategy.Name()),
				zap.String("clinic_id", lookup.ClinicID),
				zap.String("method", lookup.Method.String()),
				zap.Error(err),
			)
			metrics.FeeLookupFallbackTotal.WithLabelValues(lookup.Method.String()).Inc()
			continue
		}

		if err := profile.CheckInstallments(lookup.InstallmentCount); err != nil {
			return nil, err
		}

		return r.quote(*profile, strategy, lookup, degraded), nil
	}

	return nil, customError.WrapUnknownPaymentMethod(lookup.Method.String())
}

func (r *FeeScheduleResolver) quote(profile domain.FeeProfile, strategy CalculationStrategy, lookup FeeLookup, degraded bool) *FeeQuote {
	quote := &FeeQuote{
		Profile:        profile,
		Source:         strategy.Name(),
		FeeType:        profile.FeeType,
		FeePercent:     profile.FeePercentFor(lookup.InstallmentCount),
		FeeFixedAmount: profile.FeeFixedAmount,
	}
	if quote.FeeType == domain.FeeTypeFixed {
		quote.FeePercent = decimal.Zero
	}
	quote.AnticipationPercent = profile.Anticipation.PercentFor(lookup.InstallmentCount, quote.FeePercent)

	switch {
	case strategy.Name() != (LocalDefaultStrategy{}).Name():
		quote.Confidence = domain.ConfidenceClinic
	case degraded:
		quote.Confidence = domain.ConfidenceOffline
	default:
		quote.Confidence = domain.ConfidenceDefault
	}

	if quote.FeePercent.IsNegative() || quote.AnticipationPercent.IsNegative() {
		r.logger.Warn("negative fee percentage clamped to zero",
			zap.String("source", quote.Source),
			zap.String("clinic_id", lookup.ClinicID),
			zap.String("method", lookup.Method.String()),
			zap.String("fee_percent", quote.FeePercent.String()),
			zap.String("anticipation_percent", quote.AnticipationPercent.String()),
		)
		metrics.DataInconsistencyTotal.WithLabelValues(customError.ReasonNegativeFeeClamped).Inc()
		quote.FeePercent = decimal.Max(quote.FeePercent, decimal.Zero)
		quote.AnticipationPercent = decimal.Max(quote.AnticipationPercent, decimal.Zero)
		quote.Flags = append(quote.Flags, domain.FlagNegativeFeeClamped)
	}

	return quote
}
