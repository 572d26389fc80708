package memory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

type ResellerRepository struct {
	t *table[models.Reseller]
}

func NewResellerRepository() *ResellerRepository {
	return &ResellerRepository{t: newTable(
		func(r *models.Reseller) primitive.ObjectID { return r.ID },
		func(a, b *models.Reseller) bool { return a.ReferralCode != "" && a.ReferralCode == b.ReferralCode },
	)}
}

var _ repositories.ResellerRepository = (*ResellerRepository)(nil)

func (r *ResellerRepository) Create(_ context.Context, rs *models.Reseller) error {
	if rs.ID.IsZero() {
		rs.ID = primitive.NewObjectID()
	}
	return r.t.insert(*rs)
}

func (r *ResellerRepository) Update(_ context.Context, rs *models.Reseller) error {
	typ := rs.Type
	return r.t.replace(*rs, func(cur *models.Reseller) bool { return cur.Type == typ })
}

func (r *ResellerRepository) Delete(_ context.Context, typ models.ResellerType, id primitive.ObjectID) error {
	return r.t.remove(func(rs *models.Reseller) bool { return rs.ID == id && rs.Type == typ })
}

func (r *ResellerRepository) FindByID(_ context.Context, typ models.ResellerType, id primitive.ObjectID) (*models.Reseller, error) {
	return r.t.find(func(rs *models.Reseller) bool { return rs.ID == id && rs.Type == typ })
}

func (r *ResellerRepository) FindByReferralCode(_ context.Context, code string) (*models.Reseller, error) {
	return r.t.find(func(rs *models.Reseller) bool { return rs.ReferralCode == code })
}

func (r *ResellerRepository) List(_ context.Context, typ models.ResellerType, opts repositories.ListOptions) ([]models.Reseller, int64, error) {
	opts = opts.Normalize()
	items, total := r.t.page(func(rs *models.Reseller) bool {
		return rs.Type == typ &&
			eqOrEmpty(opts.Status, string(rs.Status)) &&
			eqOrEmpty(opts.Category, string(rs.Tier)) &&
			containsFold(opts.Search, rs.Name, rs.Email, rs.Company, rs.ReferralCode)
	}, opts)
	return items, total, nil
}

func (r *ResellerRepository) ListActive(_ context.Context, typ models.ResellerType) ([]models.Reseller, error) {
	return r.t.filter(func(rs *models.Reseller) bool {
		return rs.Type == typ && rs.Status == models.ResellerActive
	}), nil
}

type ClientRepository struct {
	t *table[models.Client]
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{t: newTable(func(c *models.Client) primitive.ObjectID { return c.ID }, nil)}
}

var _ repositories.ClientRepository = (*ClientRepository)(nil)

func (r *ClientRepository) Create(_ context.Context, c *models.Client) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	return r.t.insert(*c)
}

func (r *ClientRepository) Update(_ context.Context, owner repositories.ClientOwner, c *models.Client) error {
	return r.t.replace(*c, owner.Owns)
}

func (r *ClientRepository) Delete(_ context.Context, owner repositories.ClientOwner, id primitive.ObjectID) error {
	return r.t.remove(func(c *models.Client) bool { return c.ID == id && owner.Owns(c) })
}

func (r *ClientRepository) FindByID(_ context.Context, owner repositories.ClientOwner, id primitive.ObjectID) (*models.Client, error) {
	return r.t.find(func(c *models.Client) bool { return c.ID == id && owner.Owns(c) })
}

func (r *ClientRepository) List(_ context.Context, owner repositories.ClientOwner, opts repositories.ListOptions) ([]models.Client, int64, error) {
	opts = opts.Normalize()
	items, total := r.t.page(func(c *models.Client) bool {
		return owner.Owns(c) &&
			eqOrEmpty(opts.Status, string(c.Status)) &&
			containsFold(opts.Search, c.Name, c.Email, c.PlanName)
	}, opts)
	return items, total, nil
}

func (r *ClientRepository) ListAll(_ context.Context, owner repositories.ClientOwner) ([]models.Client, error) {
	return r.t.filter(owner.Owns), nil
}

type CommissionRepository struct {
	t *table[models.Commission]
}

func NewCommissionRepository() *CommissionRepository {
	return &CommissionRepository{t: newTable(
		func(c *models.Commission) primitive.ObjectID { return c.ID },
		func(a, b *models.Commission) bool {
			return a.ResellerType == b.ResellerType && a.ResellerID == b.ResellerID &&
				a.ClientID == b.ClientID && a.Month == b.Month
		},
	)}
}

var _ repositories.CommissionRepository = (*CommissionRepository)(nil)

func (r *CommissionRepository) Create(_ context.Context, c *models.Commission) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	return r.t.insert(*c)
}

func (r *CommissionRepository) Update(_ context.Context, c *models.Commission, from models.CommissionStatus) error {
	return r.t.replace(*c, func(cur *models.Commission) bool { return cur.Status == from })
}

func (r *CommissionRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Commission, error) {
	return r.t.find(func(c *models.Commission) bool { return c.ID == id })
}

func (r *CommissionRepository) List(_ context.Context, f repositories.CommissionFilter, opts repositories.ListOptions) ([]models.Commission, int64, error) {
	opts = opts.Normalize()
	all := r.t.filter(func(c *models.Commission) bool {
		return f.Matches(c) &&
			eqOrEmpty(opts.Status, string(c.Status)) &&
			containsFold(opts.Search, c.ClientName, c.Month)
	})
	sortBy(all, func(a, b *models.Commission) bool { return a.Month > b.Month })
	return repositories.Paginate(all, opts), int64(len(all)), nil
}

func (r *CommissionRepository) ListAll(_ context.Context, f repositories.CommissionFilter) ([]models.Commission, error) {
	all := r.t.filter(f.Matches)
	// filter returns newest first; flip to insertion order before the month sort
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	sortBy(all, func(a, b *models.Commission) bool { return a.Month < b.Month })
	return all, nil
}

type ReferralRepository struct {
	t *table[models.Referral]
}

func NewReferralRepository() *ReferralRepository {
	return &ReferralRepository{t: newTable(func(r *models.Referral) primitive.ObjectID { return r.ID }, nil)}
}

var _ repositories.ReferralRepository = (*ReferralRepository)(nil)

func (r *ReferralRepository) Create(_ context.Context, ref *models.Referral) error {
	if ref.ID.IsZero() {
		ref.ID = primitive.NewObjectID()
	}
	return r.t.insert(*ref)
}

func (r *ReferralRepository) Update(_ context.Context, ref *models.Referral, from models.ReferralStatus) error {
	partnerID := ref.PartnerID
	return r.t.replace(*ref, func(cur *models.Referral) bool { return cur.PartnerID == partnerID && cur.Status == from })
}

func (r *ReferralRepository) FindByID(_ context.Context, partnerID, id primitive.ObjectID) (*models.Referral, error) {
	return r.t.find(func(ref *models.Referral) bool { return ref.ID == id && ref.PartnerID == partnerID })
}

func (r *ReferralRepository) List(_ context.Context, partnerID primitive.ObjectID, opts repositories.ListOptions) ([]models.Referral, int64, error) {
	opts = opts.Normalize()
	items, total := r.t.page(func(ref *models.Referral) bool {
		return ref.PartnerID == partnerID &&
			eqOrEmpty(opts.Status, string(ref.Status)) &&
			opts.InRange(ref.CreatedAt) &&
			containsFold(opts.Search, ref.ReferredEmail, ref.ReferredName, ref.BusinessName)
	}, opts)
	return items, total, nil
}

type OnboardingRepository struct {
	t *table[models.OnboardingRecord]
}

func NewOnboardingRepository() *OnboardingRepository {
	return &OnboardingRepository{t: newTable(func(o *models.OnboardingRecord) primitive.ObjectID { return o.ID }, nil)}
}

var _ repositories.OnboardingRepository = (*OnboardingRepository)(nil)

func ownsRecord(owner repositories.ClientOwner) func(*models.OnboardingRecord) bool {
	return func(o *models.OnboardingRecord) bool {
		return o.ResellerType == owner.Type && o.ResellerID == owner.ID
	}
}

func (r *OnboardingRepository) Create(_ context.Context, o *models.OnboardingRecord) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	return r.t.insert(*o)
}

func (r *OnboardingRepository) Update(_ context.Context, o *models.OnboardingRecord) error {
	return r.t.replace(*o, ownsRecord(repositories.ClientOwner{Type: o.ResellerType, ID: o.ResellerID}))
}

func (r *OnboardingRepository) FindByID(_ context.Context, owner repositories.ClientOwner, id primitive.ObjectID) (*models.OnboardingRecord, error) {
	owns := ownsRecord(owner)
	return r.t.find(func(o *models.OnboardingRecord) bool { return o.ID == id && owns(o) })
}

func (r *OnboardingRepository) List(_ context.Context, owner repositories.ClientOwner, opts repositories.ListOptions) ([]models.OnboardingRecord, int64, error) {
	opts = opts.Normalize()
	owns := ownsRecord(owner)
	items, total := r.t.page(func(o *models.OnboardingRecord) bool {
		return owns(o) && eqOrEmpty(opts.Status, string(o.Status))
	}, opts)
	return items, total, nil
}
