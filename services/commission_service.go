package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/commission"
	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/metrics"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

// GenerationReport summarizes one monthly commission run
type GenerationReport struct {
	Month   string   `json:"month"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

type CommissionService struct {
	resellers   repositories.ResellerRepository
	clients     repositories.ClientRepository
	commissions repositories.CommissionRepository
	users       repositories.UserRepository
	notifier    *Notifier
	events      *EventBus
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewCommissionService(
	resellers repositories.ResellerRepository,
	clients repositories.ClientRepository,
	commissions repositories.CommissionRepository,
	users repositories.UserRepository,
	notifier *Notifier,
	events *EventBus,
	m *metrics.Metrics,
) *CommissionService {
	return &CommissionService{
		resellers:   resellers,
		clients:     clients,
		commissions: commissions,
		users:       users,
		notifier:    notifier,
		events:      events,
		metrics:     m,
		now:         time.Now,
	}
}

// GenerateMonth creates a PENDING record for every ACTIVE client of every
// ACTIVE partner and consultant. Records that already exist are counted as
// skipped, so running the same month twice is harmless.
func (s *CommissionService) GenerateMonth(ctx context.Context, month string) (GenerationReport, error) {
	if _, err := commission.ParseMonth(month); err != nil {
		return GenerationReport{}, err
	}

	start := s.now()
	report := GenerationReport{Month: month}
	defer func() { s.metrics.CommissionRun(s.now().Sub(start)) }()

	for _, typ := range []models.ResellerType{models.ResellerPartner, models.ResellerConsultant} {
		resellers, err := s.resellers.ListActive(ctx, typ)
		if err != nil {
			return report, fmt.Errorf("list %s resellers: %w", typ, err)
		}
		for _, reseller := range resellers {
			if err := s.generateFor(ctx, reseller, month, &report); err != nil {
				return report, err
			}
		}
	}

	logger.WithFields(map[string]interface{}{
		"month":   month,
		"created": report.Created,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("commission generation finished")
	return report, nil
}

func (s *CommissionService) generateFor(ctx context.Context, reseller models.Reseller, month string, report *GenerationReport) error {
	clients, err := s.clients.ListAll(ctx, repositories.ClientOwner{Type: reseller.Type, ID: reseller.ID})
	if err != nil {
		return fmt.Errorf("list clients of %s: %w", reseller.ID.Hex(), err)
	}

	typ := string(reseller.Type)
	for _, client := range clients {
		if client.Status != models.ClientActive {
			continue
		}

		rec, err := commission.NewRecord(reseller, client, month)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s/%s: %v", reseller.ID.Hex(), client.ID.Hex(), err))
			s.metrics.CommissionGenerated(typ, "failed")
			continue
		}
		now := s.now()
		rec.ID = primitive.NewObjectID()
		rec.CreatedAt, rec.UpdatedAt = now, now

		err = s.commissions.Create(ctx, &rec)
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			report.Skipped++
			s.metrics.CommissionGenerated(typ, "skipped")
		case err != nil:
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s/%s: %v", reseller.ID.Hex(), client.ID.Hex(), err))
			s.metrics.CommissionGenerated(typ, "failed")
		default:
			report.Created++
			s.metrics.CommissionGenerated(typ, "created")
			s.events.Emit(ctx, EventCommissionCreated, typ, reseller.ID.Hex(), rec)
		}
	}
	return nil
}

// Create records a commission by hand. When the amount is zero the client's
// monthly equivalent is used; when no rate is given the reseller's rate is.
func (s *CommissionService) Create(ctx context.Context, typ models.ResellerType, in models.CommissionInput) (*models.Commission, error) {
	if _, err := commission.ParseMonth(in.Month); err != nil {
		return nil, err
	}
	resellerID, err := primitive.ObjectIDFromHex(in.ResellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: reseller id", ErrInvalidID)
	}
	clientID, err := primitive.ObjectIDFromHex(in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client id", ErrInvalidID)
	}
	if in.Amount.IsNegative() {
		return nil, &models.InvalidAmountError{Value: in.Amount.String()}
	}

	reseller, err := s.resellers.FindByID(ctx, typ, resellerID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, repositories.ClientOwner{Type: typ, ID: resellerID}, clientID)
	if err != nil {
		return nil, err
	}

	rate := reseller.CommissionRate
	if in.Rate != nil {
		rate = *in.Rate
	}
	base := in.Amount.Decimal()
	if in.Amount.IsZero() {
		if base, err = commission.MonthlyEquivalent(*client); err != nil {
			return nil, err
		}
	}
	earned, err := commission.Amount(base, rate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := models.Commission{
		ID:               primitive.NewObjectID(),
		ResellerType:     typ,
		ResellerID:       reseller.ID,
		ClientID:         client.ID,
		ClientName:       client.Name,
		Amount:           models.MoneyFromDecimal(base.Round(2)),
		CommissionRate:   rate,
		CommissionAmount: models.MoneyFromDecimal(earned.Round(2)),
		Month:            in.Month,
		Status:           models.CommissionPending,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.commissions.Create(ctx, &rec); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, EventCommissionCreated, string(typ), reseller.ID.Hex(), rec)
	return &rec, nil
}

// UpdateStatus moves a record through its lifecycle and tells the owning
// reseller about it.
func (s *CommissionService) UpdateStatus(ctx context.Context, id primitive.ObjectID, in models.CommissionStatusInput) (*models.Commission, error) {
	to, err := models.ParseCommissionStatus(in.Status)
	if err != nil {
		return nil, err
	}

	rec, err := s.commissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := rec.Status

	if err := commission.Transition(rec, to, s.now(), in.PaymentMethod); err != nil {
		return nil, err
	}
	if in.Notes != "" {
		rec.Notes = in.Notes
	}
	err = s.commissions.Update(ctx, rec, from)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: record changed from %s concurrently", commission.ErrInvalidTransition, from)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.CommissionTransition(string(to))
	s.events.Emit(ctx, EventCommissionStatusChanged, string(rec.ResellerType), rec.ResellerID.Hex(), map[string]interface{}{
		"commissionId": rec.ID.Hex(),
		"from":         from,
		"to":           to,
		"month":        rec.Month,
		"amount":       rec.CommissionAmount,
	})
	s.notifyOwner(ctx, rec.ResellerID, Message{
		Title: "Commission " + string(to),
		Body: fmt.Sprintf("Your %s commission for %s (%s) is now %s.",
			rec.Month, rec.ClientName, rec.CommissionAmount.StringFixed(), to),
		Type: models.NotificationCommissionStatus,
		Data: map[string]interface{}{"commissionId": rec.ID.Hex(), "status": to},
	})
	return rec, nil
}

func (s *CommissionService) List(ctx context.Context, f repositories.CommissionFilter, opts repositories.ListOptions) ([]models.Commission, int64, error) {
	return s.commissions.List(ctx, f, opts)
}

// Summary builds the dashboard aggregate of one reseller
func (s *CommissionService) Summary(ctx context.Context, reseller *models.Reseller) (commission.Summary, error) {
	owner := repositories.ClientOwner{Type: reseller.Type, ID: reseller.ID}
	clients, err := s.clients.ListAll(ctx, owner)
	if err != nil {
		return commission.Summary{}, err
	}
	records, err := s.commissions.ListAll(ctx, repositories.CommissionFilter{ResellerType: reseller.Type, ResellerID: reseller.ID})
	if err != nil {
		return commission.Summary{}, err
	}
	return commission.Summarize(commission.Input{
		Clients: clients,
		Records: records,
		Rate:    reseller.CommissionRate,
		Now:     s.now().UTC(),
	})
}

// notifyOwner resolves the login account of a reseller; resellers without
// one are skipped
func (s *CommissionService) notifyOwner(ctx context.Context, resellerID primitive.ObjectID, msg Message) {
	user, err := s.users.FindByReseller(ctx, resellerID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.WithError(err).Warn("failed to resolve reseller account")
		}
		return
	}
	msg.UserID = user.ID
	msg.Email = user.Email
	if err := s.notifier.Notify(ctx, msg); err != nil {
		logger.WithError(err).Warn("failed to store notification")
	}
}
