package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/commission"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/services"
)

// PortalController is the self-service API of partners (/api/partner) and
// consultants (/api/consultant). Every query is scoped to the reseller
// profile linked to the caller's token.
type PortalController struct {
	typ         models.ResellerType
	resellers   *services.ResellerService
	commissions *services.CommissionService
	referrals   *services.ReferralService
	qr          *services.QRRenderer
}

func NewPortalController(
	typ models.ResellerType,
	resellers *services.ResellerService,
	commissions *services.CommissionService,
	referrals *services.ReferralService,
	qr *services.QRRenderer,
) *PortalController {
	return &PortalController{typ: typ, resellers: resellers, commissions: commissions, referrals: referrals, qr: qr}
}

type dashboardResponse struct {
	Profile *models.Reseller   `json:"profile"`
	Summary commission.Summary `json:"summary"`
}

type whiteLabelResponse struct {
	Enabled      bool            `json:"enabled"`
	CustomDomain string          `json:"customDomain,omitempty"`
	Branding     models.Branding `json:"branding"`
}

type referralQRResponse struct {
	ReferralCode string `json:"referralCode"`
	URL          string `json:"url"`
	QRCode       string `json:"qrCode"`
}

// owner returns the caller's client scope. A missing reseller claim writes a 403.
func (pc *PortalController) owner(c echo.Context) (repositories.ClientOwner, bool, error) {
	id, err := middleware.ResellerID(c)
	if err != nil {
		return repositories.ClientOwner{}, false, respond(c, http.StatusForbidden, "No reseller profile is linked to this account", nil)
	}
	return repositories.ClientOwner{Type: pc.typ, ID: id}, true, nil
}

// Dashboard returns the caller's profile with the revenue and commission aggregate
func (pc *PortalController) Dashboard(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.resellers.Get(ctx, pc.typ, owner.ID)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := pc.commissions.Summary(ctx, profile)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Dashboard retrieved successfully", dashboardResponse{Profile: profile, Summary: summary})
}

func (pc *PortalController) ListClients(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := pc.resellers.ListClients(ctx, owner, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Clients retrieved successfully", items, opts, total)
}

func (pc *PortalController) CreateClient(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	var in models.ClientInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	client, err := pc.resellers.CreateClient(ctx, owner, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Client created successfully", client)
}

func (pc *PortalController) UpdateClient(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid client ID", nil)
	}
	var in models.ClientInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	client, err := pc.resellers.UpdateClient(ctx, owner, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Client updated successfully", client)
}

func (pc *PortalController) DeleteClient(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid client ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := pc.resellers.DeleteClient(ctx, owner, id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Client deleted successfully", nil)
}

// Commissions lists the caller's commission records, newest month first
func (pc *PortalController) Commissions(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	filter := repositories.CommissionFilter{ResellerType: pc.typ, ResellerID: owner.ID, Month: c.QueryParam("month")}
	items, total, err := pc.commissions.List(ctx, filter, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Commissions retrieved successfully", items, opts, total)
}

func (pc *PortalController) ListReferrals(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := pc.referrals.List(ctx, owner.ID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Referrals retrieved successfully", items, opts, total)
}

func (pc *PortalController) CreateReferral(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	var in models.ReferralInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	referral, err := pc.referrals.Create(ctx, owner.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Referral created successfully", referral)
}

// UpdateReferral moves a lead along its pipeline; CONVERTED may create the client
func (pc *PortalController) UpdateReferral(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid referral ID", nil)
	}
	var in models.ReferralUpdateInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	referral, err := pc.referrals.Update(ctx, owner.ID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Referral updated successfully", referral)
}

func (pc *PortalController) GetWhiteLabel(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.resellers.Get(ctx, pc.typ, owner.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "White-label settings retrieved successfully", whiteLabelResponse{
		Enabled:      profile.WhiteLabelEnabled,
		CustomDomain: profile.CustomDomain,
		Branding:     profile.Branding,
	})
}

func (pc *PortalController) UpdateWhiteLabel(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	var in models.WhiteLabelInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.resellers.UpdateWhiteLabel(ctx, pc.typ, owner.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "White-label settings updated successfully", whiteLabelResponse{
		Enabled:      profile.WhiteLabelEnabled,
		CustomDomain: profile.CustomDomain,
		Branding:     profile.Branding,
	})
}

// ReferralQR renders the caller's signup link as an embeddable QR code
func (pc *PortalController) ReferralQR(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.resellers.Get(ctx, pc.typ, owner.ID)
	if err != nil {
		return respondError(c, err)
	}
	url := pc.qr.SignupURL(profile.ReferralCode)
	dataURI, err := pc.qr.DataURI(url)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Referral QR code generated successfully", referralQRResponse{
		ReferralCode: profile.ReferralCode,
		URL:          url,
		QRCode:       dataURI,
	})
}

func (pc *PortalController) ListOnboarding(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := pc.resellers.ListOnboarding(ctx, owner, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Onboarding records retrieved successfully", items, opts, total)
}

func (pc *PortalController) StartOnboarding(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	var in models.OnboardingInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := pc.resellers.StartOnboarding(ctx, owner, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Onboarding started successfully", record)
}

// CompleteStep handles PUT /onboarding/:id/steps/:key
func (pc *PortalController) CompleteStep(c echo.Context) error {
	owner, ok, err := pc.owner(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid onboarding ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := pc.resellers.CompleteOnboardingStep(ctx, owner, id, c.Param("key"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Onboarding step completed", record)
}
