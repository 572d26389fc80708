package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/commission"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/utils"
)

const referralCodeAttempts = 5

// ResellerService holds the logic partners and consultants share: admin
// management, client portfolios, white-label settings and onboarding.
type ResellerService struct {
	resellers  repositories.ResellerRepository
	clients    repositories.ClientRepository
	onboarding repositories.OnboardingRepository
	now        func() time.Time
}

func NewResellerService(
	resellers repositories.ResellerRepository,
	clients repositories.ClientRepository,
	onboarding repositories.OnboardingRepository,
) *ResellerService {
	return &ResellerService{resellers: resellers, clients: clients, onboarding: onboarding, now: time.Now}
}

// Create registers a partner or consultant. Without an explicit rate the
// tier default applies.
func (s *ResellerService) Create(ctx context.Context, typ models.ResellerType, in models.ResellerInput) (*models.Reseller, error) {
	tier, err := models.ParseTier(in.Tier)
	if err != nil {
		return nil, err
	}
	status := models.ResellerActive
	if in.Status != "" {
		if status, err = models.ParseResellerStatus(in.Status); err != nil {
			return nil, err
		}
	}
	phone, err := cleanPhone(in.Phone)
	if err != nil {
		return nil, err
	}
	rate := commission.DefaultRateForTier(tier)
	if in.CommissionRate != nil {
		rate = *in.CommissionRate
	}
	if err := commission.ValidateRate(rate); err != nil {
		return nil, err
	}

	now := s.now()
	r := models.Reseller{
		Type:           typ,
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          phone,
		Company:        in.Company,
		Region:         in.Region,
		CommissionRate: rate,
		Tier:           tier,
		Status:         status,
		PaymentMethod:  in.PaymentMethod,
		Branding:       models.Branding{CompanyName: in.Company},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// referral codes are random; retry on the rare unique index collision
	for attempt := 0; ; attempt++ {
		r.ID = primitive.NewObjectID()
		r.ReferralCode = utils.GenerateReferralCode(typ)
		err = s.resellers.Create(ctx, &r)
		if err == nil {
			return &r, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) || attempt+1 >= referralCodeAttempts {
			return nil, err
		}
	}
}

// Update replaces the editable profile fields. Changing tier keeps the
// current rate unless a new one is supplied.
func (s *ResellerService) Update(ctx context.Context, typ models.ResellerType, id primitive.ObjectID, in models.ResellerInput) (*models.Reseller, error) {
	r, err := s.resellers.FindByID(ctx, typ, id)
	if err != nil {
		return nil, err
	}
	tier, err := models.ParseTier(in.Tier)
	if err != nil {
		return nil, err
	}
	if in.Status != "" {
		if r.Status, err = models.ParseResellerStatus(in.Status); err != nil {
			return nil, err
		}
	}
	if in.CommissionRate != nil {
		if err := commission.ValidateRate(*in.CommissionRate); err != nil {
			return nil, err
		}
		r.CommissionRate = *in.CommissionRate
	}

	phone, err := cleanPhone(in.Phone)
	if err != nil {
		return nil, err
	}

	r.Name = strings.TrimSpace(in.Name)
	r.Email = strings.ToLower(strings.TrimSpace(in.Email))
	r.Phone = phone
	r.Company = in.Company
	r.Region = in.Region
	r.Tier = tier
	r.PaymentMethod = in.PaymentMethod
	r.UpdatedAt = s.now()

	if err := s.resellers.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ResellerService) Get(ctx context.Context, typ models.ResellerType, id primitive.ObjectID) (*models.Reseller, error) {
	return s.resellers.FindByID(ctx, typ, id)
}

func (s *ResellerService) Delete(ctx context.Context, typ models.ResellerType, id primitive.ObjectID) error {
	return s.resellers.Delete(ctx, typ, id)
}

func (s *ResellerService) List(ctx context.Context, typ models.ResellerType, opts repositories.ListOptions) ([]models.Reseller, int64, error) {
	return s.resellers.List(ctx, typ, opts)
}

// UpdateWhiteLabel stores branding and the custom domain as given. Domains
// are never verified here.
func (s *ResellerService) UpdateWhiteLabel(ctx context.Context, typ models.ResellerType, id primitive.ObjectID, in models.WhiteLabelInput) (*models.Reseller, error) {
	r, err := s.resellers.FindByID(ctx, typ, id)
	if err != nil {
		return nil, err
	}
	r.WhiteLabelEnabled = in.Enabled
	r.CustomDomain = strings.ToLower(strings.TrimSpace(in.CustomDomain))
	r.Branding = in.Branding
	r.UpdatedAt = s.now()

	if err := s.resellers.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ResellerService) ListClients(ctx context.Context, owner repositories.ClientOwner, opts repositories.ListOptions) ([]models.Client, int64, error) {
	return s.clients.List(ctx, owner, opts)
}

// CreateClient adds a client attributed to owner
func (s *ResellerService) CreateClient(ctx context.Context, owner repositories.ClientOwner, in models.ClientInput) (*models.Client, error) {
	c := models.Client{ID: primitive.NewObjectID(), Status: models.ClientActive}
	if err := applyClientInput(&c, in); err != nil {
		return nil, err
	}
	attribute(&c, owner)

	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := s.clients.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ResellerService) UpdateClient(ctx context.Context, owner repositories.ClientOwner, id primitive.ObjectID, in models.ClientInput) (*models.Client, error) {
	c, err := s.clients.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := applyClientInput(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	if err := s.clients.Update(ctx, owner, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ResellerService) DeleteClient(ctx context.Context, owner repositories.ClientOwner, id primitive.ObjectID) error {
	return s.clients.Delete(ctx, owner, id)
}

func attribute(c *models.Client, owner repositories.ClientOwner) {
	id := owner.ID
	switch owner.Type {
	case models.ResellerPartner:
		c.PartnerID = &id
	case models.ResellerConsultant:
		c.ConsultantID = &id
	}
}

// applyClientInput keeps only the fee of the active billing cycle so the
// other one can never leak into revenue figures
func applyClientInput(c *models.Client, in models.ClientInput) error {
	cycle, err := models.ParseBillingCycle(in.BillingCycle)
	if err != nil {
		return err
	}
	if in.Status != "" {
		if c.Status, err = models.ParseClientStatus(in.Status); err != nil {
			return err
		}
	}

	switch cycle {
	case models.BillingMonthly:
		if in.MonthlyFee.IsNegative() {
			return &models.InvalidAmountError{Value: in.MonthlyFee.String()}
		}
		c.MonthlyFee, c.YearlyFee = in.MonthlyFee, models.Money{}
	case models.BillingYearly:
		if in.YearlyFee.IsNegative() {
			return &models.InvalidAmountError{Value: in.YearlyFee.String()}
		}
		c.MonthlyFee, c.YearlyFee = models.Money{}, in.YearlyFee
	}

	phone, err := cleanPhone(in.Phone)
	if err != nil {
		return err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = phone
	c.BillingCycle = cycle
	c.PlanName = in.PlanName
	c.StoreCount = in.StoreCount
	return nil
}

// StartOnboarding opens the default checklist for one of owner's clients
func (s *ResellerService) StartOnboarding(ctx context.Context, owner repositories.ClientOwner, in models.OnboardingInput) (*models.OnboardingRecord, error) {
	clientID, err := primitive.ObjectIDFromHex(in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client id", ErrInvalidID)
	}
	if _, err := s.clients.FindByID(ctx, owner, clientID); err != nil {
		return nil, err
	}

	now := s.now()
	rec := models.OnboardingRecord{
		ID:           primitive.NewObjectID(),
		ResellerType: owner.Type,
		ResellerID:   owner.ID,
		ClientID:     clientID,
		Steps:        models.DefaultOnboardingSteps(),
		Status:       models.OnboardingInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.onboarding.Create(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *ResellerService) ListOnboarding(ctx context.Context, owner repositories.ClientOwner, opts repositories.ListOptions) ([]models.OnboardingRecord, int64, error) {
	return s.onboarding.List(ctx, owner, opts)
}

func (s *ResellerService) CompleteOnboardingStep(ctx context.Context, owner repositories.ClientOwner, id primitive.ObjectID, key string) (*models.OnboardingRecord, error) {
	rec, err := s.onboarding.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !rec.CompleteStep(key, now) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, key)
	}
	rec.UpdatedAt = now
	if err := s.onboarding.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// cleanPhone normalizes contact numbers to +digits. Empty stays empty.
func cleanPhone(raw string) (string, error) {
	phone, err := utils.SanitizePhone(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	return phone, nil
}
