package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	"github.com/segyhp/clinic-finance-engine/internal/service"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"
	"github.com/segyhp/clinic-finance-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// SessionHeader carries the client's calculation session. Only the latest
// request of a session gets its result back.
const SessionHeader = "X-Calculation-Session"

const maxBodyBytes = 1 << 20

// Calculator is the part of service.CalculationService the handler needs
type Calculator interface {
	PlanInstallments(ctx context.Context, input domain.InstallmentPlanInput) (*domain.InstallmentPlanResult, error)
	AnalyzeAnticipation(ctx context.Context, input domain.InstallmentPlanInput) (*domain.AnticipationResult, error)
	ComputeMargin(ctx context.Context, input domain.MarginInput) (*domain.BudgetMargin, error)
	CompareScenarios(ctx context.Context, request domain.ScenarioRequest) (*domain.ScenarioComparison, error)
	DefaultFeeProfiles() []domain.FeeProfile
}

type CalculationHandler struct {
	service   Calculator
	guard     *service.RequestGuard
	validator *validator.Validate
}

func NewCalculationHandler(calculator Calculator, guard *service.RequestGuard) *CalculationHandler {
	if guard == nil {
		guard = service.NewRequestGuard()
	}
	return &CalculationHandler{
		service:   calculator,
		guard:     guard,
		validator: NewValidator(),
	}
}

// NewValidator returns a validator that understands decimal fields and payment methods
func NewValidator() *validator.Validate {
	v := validator.New()

	// Only percentages reach this conversion. Money fields are domain.Money
	// (int64 centavos) and are compared as integers.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if value, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := value.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).IsValid()
	}); err != nil {
		panic(err)
	}

	return v
}

// RegisterRoutes mounts the calculation endpoints on router
func (h *CalculationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/installments/plan", h.PlanInstallments).Methods(http.MethodPost)
	router.HandleFunc("/installments/anticipation", h.AnalyzeAnticipation).Methods(http.MethodPost)
	router.HandleFunc("/installments/scenarios", h.CompareScenarios).Methods(http.MethodPost)
	router.HandleFunc("/budgets/margin", h.ComputeMargin).Methods(http.MethodPost)
	router.HandleFunc("/fee-schedules/defaults", h.DefaultFeeSchedules).Methods(http.MethodGet)
}

// PlanInstallments handles POST /api/v1/installments/plan
func (h *CalculationHandler) PlanInstallments(w http.ResponseWriter, r *http.Request) {
	var input domain.InstallmentPlanInput
	if !h.decode(w, r, &input) {
		return
	}
	input.PaymentMethod = normalizeMethod(input.PaymentMethod)
	if !h.validate(w, &input) {
		return
	}

	ticket := h.guard.Begin(r.Header.Get(SessionHeader))
	defer ticket.Done()
	result, err := h.service.PlanInstallments(r.Context(), input)
	h.respond(w, ticket, result, err)
}

// AnalyzeAnticipation handles POST /api/v1/installments/anticipation
func (h *CalculationHandler) AnalyzeAnticipation(w http.ResponseWriter, r *http.Request) {
	var input domain.InstallmentPlanInput
	if !h.decode(w, r, &input) {
		return
	}
	input.PaymentMethod = normalizeMethod(input.PaymentMethod)
	if !h.validate(w, &input) {
		return
	}

	ticket := h.guard.Begin(r.Header.Get(SessionHeader))
	defer ticket.Done()
	result, err := h.service.AnalyzeAnticipation(r.Context(), input)
	h.respond(w, ticket, result, err)
}

// ComputeMargin handles POST /api/v1/budgets/margin
func (h *CalculationHandler) ComputeMargin(w http.ResponseWriter, r *http.Request) {
	var input domain.MarginInput
	if !h.decode(w, r, &input) {
		return
	}
	input.PaymentMethod = normalizeMethod(input.PaymentMethod)
	if !h.validate(w, &input) {
		return
	}

	ticket := h.guard.Begin(r.Header.Get(SessionHeader))
	defer ticket.Done()
	result, err := h.service.ComputeMargin(r.Context(), input)
	h.respond(w, ticket, result, err)
}

// CompareScenarios handles POST /api/v1/installments/scenarios
func (h *CalculationHandler) CompareScenarios(w http.ResponseWriter, r *http.Request) {
	var request domain.ScenarioRequest
	if !h.decode(w, r, &request) {
		return
	}
	request.PaymentMethod = normalizeMethod(request.PaymentMethod)
	if !h.validate(w, &request) {
		return
	}

	ticket := h.guard.Begin(r.Header.Get(SessionHeader))
	defer ticket.Done()
	result, err := h.service.CompareScenarios(r.Context(), request)
	h.respond(w, ticket, result, err)
}

// DefaultFeeSchedules handles GET /api/v1/fee-schedules/defaults
func (h *CalculationHandler) DefaultFeeSchedules(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.DefaultFeeProfiles())
}

func (h *CalculationHandler) decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var businessErr *customError.BusinessError
		if errors.As(err, &businessErr) {
			response.BusinessError(w, businessErr)
			return false
		}
		response.BadRequest(w, "Invalid request body", err)
		return false
	}
	return true
}

func (h *CalculationHandler) validate(w http.ResponseWriter, payload interface{}) bool {
	err := h.validator.Struct(payload)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		response.BusinessError(w, validationError(validationErrors[0]))
		return false
	}

	response.BadRequest(w, "Invalid request", err)
	return false
}

func (h *CalculationHandler) respond(w http.ResponseWriter, ticket service.Ticket, result interface{}, err error) {
	if !ticket.Current() {
		response.BusinessError(w, customError.WrapCalculationSuperseded(ticket.Session))
		return
	}
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, result)
}

// validationError turns a failed field rule into the matching business error
func validationError(fe validator.FieldError) *customError.BusinessError {
	reasons := map[string]string{
		"TotalValue":       customError.ReasonNegativeTotalValue,
		"DownPayment":      customError.ReasonDownPaymentOutOfRange,
		"InstallmentCount": customError.ReasonInstallmentCountBelowOne,
		"PaymentMethod":    customError.ReasonUnknownPaymentMethod,
		"TotalCost":        customError.ReasonNegativeCost,
		"TaxPercent":       customError.ReasonNegativeTax,
	}

	reason := reasons[fe.Field()]
	return customError.WrapInvalidInput(reason, fe.Field()+" failed the '"+fe.Tag()+"' rule")
}

func normalizeMethod(method domain.PaymentMethod) domain.PaymentMethod {
	if method == "" {
		return method
	}
	normalized, _ := domain.ParsePaymentMethod(method.String())
	return normalized
}
