package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/junimomarket/junimo-market/internal/cartstore"
	"github.com/junimomarket/junimo-market/internal/catalog"
	"github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/models"
	repository "github.com/junimomarket/junimo-market/internal/repositories"
)

// CheckoutState tracks a single checkout attempt through the workflow.
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "IDLE"
	CheckoutStateValidating CheckoutState = "VALIDATING"
	CheckoutStateSubmitting CheckoutState = "SUBMITTING"
	CheckoutStateSucceeded  CheckoutState = "SUCCEEDED"
	CheckoutStateFailed     CheckoutState = "FAILED"
)

// SubmissionJournal records checkout attempts for after-the-fact
// reconciliation. Journal failures never fail a checkout.
type SubmissionJournal interface {
	RecordAttempt(ctx context.Context, attempt *repository.SubmissionAttempt) error
	MarkOutcome(ctx context.Context, id, status, errorCode string) error
}

// ConfirmationSender delivers the post-purchase notification. Decorative:
// failures are logged and swallowed.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order, quote *models.Quote) error
}

// CheckoutService runs the order submission workflow. Every failure path
// leaves the cart exactly as it was; the cart is cleared only after the
// gateway confirms the order.
type CheckoutService struct {
	store    *cartstore.Store
	stock    *StockService
	pricing  *PricingService
	catalog  catalog.Client
	numbers  OrderNumberStrategy
	journal  SubmissionJournal
	notifier ConfirmationSender
	now      func() time.Time
}

func NewCheckoutService(
	store *cartstore.Store,
	stock *StockService,
	pricing *PricingService,
	catalogClient catalog.Client,
	numbers OrderNumberStrategy,
	journal SubmissionJournal,
	notifier ConfirmationSender,
) *CheckoutService {
	return &CheckoutService{
		store:    store,
		stock:    stock,
		pricing:  pricing,
		catalog:  catalogClient,
		numbers:  numbers,
		journal:  journal,
		notifier: notifier,
		now:      time.Now,
	}
}

// Checkout validates and submits the current cart as an order. On success
// the cart is cleared and the created order returned; on any failure the
// cart is untouched and the error classified for the storefront. Retry is
// user-initiated: the workflow never retries on its own.
func (s *CheckoutService) Checkout(ctx context.Context, user *models.User, discountCode string) (*models.Order, error) {

	if user == nil || user.Run == "" {
		return nil, errors.UnauthorizedError("Checkout requires an authenticated user")
	}

	slog.Debug("Checkout started",
		slog.String("cart", user.Run),
		slog.String("state", string(CheckoutStateValidating)))

	lines := s.store.Get(ctx, user.Run)

	if len(lines) == 0 {
		return nil, errors.EmptyCartError()
	}

	quote, err := s.pricing.ComputeQuote(lines, user, discountCode)
	if err != nil {
		return nil, err
	}

	if quote.Total <= 0 {
		return nil, errors.InvalidTotalError(quote.Total)
	}

	// The hard stock gate: every line re-checked against the live
	// gateway immediately before submission. Display-path fallbacks are
	// never trusted here.
	for _, line := range lines {

		available, err := s.stock.CheckAvailable(ctx, line.Code, line.Quantity)
		if err != nil {
			return nil, err
		}

		if !available {
			return nil, errors.InsufficientStockError(line.Code)
		}
	}

	attemptID := uuid.NewString()
	orderNumber := s.numbers.Next(ctx)

	slog.Debug("Submitting order",
		slog.String("attempt", attemptID),
		slog.String("order", orderNumber),
		slog.String("state", string(CheckoutStateSubmitting)))

	order := &models.Order{
		Number:         orderNumber,
		Date:           s.now().Format(models.OrderDateLayout),
		User:           models.OrderUserRef{Run: user.Run},
		ShippingStatus: models.ShippingStatusPending,
		Total:          quote.Total,
		Lines:          make([]models.OrderLine, 0, len(lines)),
	}

	for _, line := range lines {
		order.Lines = append(order.Lines, models.OrderLine{
			Product:  models.OrderProductRef{Code: line.Code},
			Quantity: line.Quantity,
		})
	}

	s.journalAttempt(ctx, &repository.SubmissionAttempt{
		ID:           attemptID,
		OrderNumber:  orderNumber,
		UserRun:      user.Run,
		Total:        quote.Total,
		DiscountCode: discountCode,
	})

	created, err := s.catalog.CreateOrder(ctx, order)
	if err != nil {
		classified := classifySubmissionError(err)
		s.journalOutcome(ctx, attemptID, repository.AttemptStatusFailed, classified)
		slog.Error("Order submission failed",
			slog.String("attempt", attemptID),
			slog.String("order", orderNumber),
			slog.String("state", string(CheckoutStateFailed)),
			slog.String("error", classified.Error()))

		return nil, classified
	}

	s.journalOutcome(ctx, attemptID, repository.AttemptStatusSucceeded, nil)

	// The single point where "order exists" and "cart is empty" become
	// consistent. If the clear itself fails the order still stands; the
	// stale cart is surfaced in logs rather than failing the purchase.
	if err := s.store.Clear(ctx, user.Run); err != nil {
		slog.Error("Order created but cart could not be cleared",
			slog.String("order", created.Number),
			slog.String("cart", user.Run),
			slog.String("error", err.Error()))
	}

	slog.Info("Checkout succeeded",
		slog.String("attempt", attemptID),
		slog.String("order", created.Number),
		slog.Int("total", created.Total),
		slog.String("state", string(CheckoutStateSucceeded)))

	s.sendConfirmation(user, created, quote)

	return created, nil
}

// classifySubmissionError sorts gateway failures into the user-facing
// taxonomy. A response carrying an error body means the request path was
// reached, which is an application-level rejection rather than a network
// failure.
func classifySubmissionError(err error) error {

	appErr, ok := errors.IsAppError(err)
	if !ok {
		return errors.OrderSubmissionError("Order could not be submitted").WithError(err)
	}

	if appErr.Code == errors.ErrCodeGatewayError && appErr.Err == nil && appErr.Detail != "" {
		return errors.OrderSubmissionError("Order was rejected by the catalog gateway").
			WithDetail(appErr.Detail).
			WithError(err)
	}

	return err
}

func (s *CheckoutService) journalAttempt(ctx context.Context, attempt *repository.SubmissionAttempt) {

	if s.journal == nil {
		return
	}

	if err := s.journal.RecordAttempt(ctx, attempt); err != nil {
		slog.Warn("Failed to journal submission attempt",
			slog.String("attempt", attempt.ID), slog.String("error", err.Error()))
	}
}

func (s *CheckoutService) journalOutcome(ctx context.Context, attemptID, status string, cause error) {

	if s.journal == nil {
		return
	}

	errorCode := ""

	if appErr, ok := errors.IsAppError(cause); ok {
		errorCode = appErr.Code
	}

	if err := s.journal.MarkOutcome(ctx, attemptID, status, errorCode); err != nil {
		slog.Warn("Failed to journal submission outcome",
			slog.String("attempt", attemptID), slog.String("error", err.Error()))
	}
}

func (s *CheckoutService) sendConfirmation(user *models.User, order *models.Order, quote *models.Quote) {

	if s.notifier == nil || user.Email == "" {
		return
	}

	go func() {

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := s.notifier.SendOrderConfirmation(ctx, user, order, quote); err != nil {
			slog.Warn("Failed to send order confirmation email",
				slog.String("order", order.Number), slog.String("error", err.Error()))
		}
	}()
}
