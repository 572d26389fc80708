package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/commission"
	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/metrics"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/utils"
)

type ReferralService struct {
	referrals repositories.ReferralRepository
	resellers repositories.ResellerRepository
	clients   repositories.ClientRepository
	users     repositories.UserRepository
	notifier  *Notifier
	events    *EventBus
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewReferralService(
	referrals repositories.ReferralRepository,
	resellers repositories.ResellerRepository,
	clients repositories.ClientRepository,
	users repositories.UserRepository,
	notifier *Notifier,
	events *EventBus,
	m *metrics.Metrics,
) *ReferralService {
	return &ReferralService{
		referrals: referrals,
		resellers: resellers,
		clients:   clients,
		users:     users,
		notifier:  notifier,
		events:    events,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *ReferralService) Create(ctx context.Context, partnerID primitive.ObjectID, in models.ReferralInput) (*models.Referral, error) {
	now := s.now()
	ref := models.Referral{
		ID:            primitive.NewObjectID(),
		PartnerID:     partnerID,
		ReferredEmail: strings.ToLower(strings.TrimSpace(in.ReferredEmail)),
		ReferredName:  in.ReferredName,
		BusinessName:  in.BusinessName,
		Status:        models.ReferralPending,
		Plan:          in.Plan,
		Notes:         utils.SanitizeInput(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.referrals.Create(ctx, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *ReferralService) List(ctx context.Context, partnerID primitive.ObjectID, opts repositories.ListOptions) ([]models.Referral, int64, error) {
	return s.referrals.List(ctx, partnerID, opts)
}

// Update moves a referral along its pipeline. Converting stamps the
// conversion date and, when a billing cycle is given, creates the client
// attributed to the partner together with the expected monthly commission.
func (s *ReferralService) Update(ctx context.Context, partnerID, id primitive.ObjectID, in models.ReferralUpdateInput) (*models.Referral, error) {
	to, err := models.ParseReferralStatus(in.Status)
	if err != nil {
		return nil, err
	}
	ref, err := s.referrals.FindByID(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}

	if to != ref.Status && !ref.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidReferral, ref.Status, to)
	}
	from, before := ref.Status, *ref
	if in.Notes != "" {
		ref.Notes = utils.SanitizeInput(in.Notes)
	}
	if in.Plan != "" {
		ref.Plan = in.Plan
	}

	now := s.now()
	converting := to == models.ReferralConverted && ref.Status != models.ReferralConverted
	var client *models.Client
	if converting {
		if client, err = s.convert(ctx, ref, in, now); err != nil {
			return nil, err
		}
	}
	ref.Status = to
	ref.UpdatedAt = now

	err = s.referrals.Update(ctx, ref, from)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: referral changed from %s concurrently", ErrInvalidReferral, from)
	}
	if err != nil {
		return nil, err
	}

	// the client is created only by the request that won the status write
	if client != nil {
		if err := s.clients.Create(ctx, client); err != nil {
			if rerr := s.referrals.Update(ctx, &before, to); rerr != nil {
				logger.WithError(rerr).WithField("referralId", ref.ID.Hex()).Error("failed to roll back referral conversion")
			}
			return nil, err
		}
	}

	if converting {
		s.metrics.ReferralConverted()
		s.events.Emit(ctx, EventReferralConverted, string(models.ResellerPartner), partnerID.Hex(), ref)
		s.notifyPartner(ctx, partnerID, ref)
	}
	return ref, nil
}

// convert stamps the conversion on ref and, when a billing cycle is given,
// builds the client to create once the referral write succeeds
func (s *ReferralService) convert(ctx context.Context, ref *models.Referral, in models.ReferralUpdateInput, now time.Time) (*models.Client, error) {
	ref.ConversionDate = &now
	if in.BillingCycle == "" {
		return nil, nil
	}

	partner, err := s.resellers.FindByID(ctx, models.ResellerPartner, ref.PartnerID)
	if err != nil {
		return nil, err
	}
	cycle, err := models.ParseBillingCycle(in.BillingCycle)
	if err != nil {
		return nil, err
	}
	if in.Fee.IsNegative() {
		return nil, &models.InvalidAmountError{Value: in.Fee.String()}
	}

	name := ref.BusinessName
	if name == "" {
		name = ref.ReferredName
	}
	partnerID := ref.PartnerID
	client := models.Client{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        ref.ReferredEmail,
		BillingCycle: cycle,
		Status:       models.ClientActive,
		PlanName:     ref.Plan,
		StoreCount:   in.StoreCount,
		PartnerID:    &partnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if cycle == models.BillingYearly {
		client.YearlyFee = in.Fee
	} else {
		client.MonthlyFee = in.Fee
	}
	if client.StoreCount == 0 {
		client.StoreCount = 1
	}

	monthly, err := commission.MonthlyEquivalent(client)
	if err != nil {
		return nil, err
	}
	earned, err := commission.Amount(monthly, partner.CommissionRate)
	if err != nil {
		return nil, err
	}

	clientID := client.ID
	ref.ClientID = &clientID
	ref.CommissionAmount = models.MoneyFromDecimal(earned.Round(2))
	return &client, nil
}

func (s *ReferralService) notifyPartner(ctx context.Context, partnerID primitive.ObjectID, ref *models.Referral) {
	user, err := s.users.FindByReseller(ctx, partnerID)
	if err != nil {
		return
	}
	name := ref.BusinessName
	if name == "" {
		name = ref.ReferredEmail
	}
	err = s.notifier.Notify(ctx, Message{
		UserID: user.ID,
		Email:  user.Email,
		Title:  "Referral converted",
		Body:   fmt.Sprintf("%s signed up. Expected monthly commission: %s.", name, ref.CommissionAmount.StringFixed()),
		Type:   models.NotificationReferralConverted,
		Data:   map[string]interface{}{"referralId": ref.ID.Hex()},
	})
	if err != nil {
		logger.WithError(err).Warn("failed to store notification")
	}
}
