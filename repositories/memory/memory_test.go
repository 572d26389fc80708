package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

func TestStoreScoped_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewExpenseRepository()
	storeA, storeB := primitive.NewObjectID(), primitive.NewObjectID()

	mine := models.Expense{ID: primitive.NewObjectID(), StoreID: storeA, Description: "rent", Category: "facilities"}
	theirs := models.Expense{ID: primitive.NewObjectID(), StoreID: storeB, Description: "rent", Category: "facilities"}
	require.NoError(t, repo.Create(ctx, &mine))
	require.NoError(t, repo.Create(ctx, &theirs))

	items, total, err := repo.List(ctx, storeA, repositories.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, mine.ID, items[0].ID)

	_, err = repo.FindByID(ctx, storeA, theirs.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, storeA, theirs.ID), repositories.ErrNotFound)

	theirs.Description = "hijacked"
	assert.ErrorIs(t, repo.Update(ctx, storeA, theirs.ID, &theirs), repositories.ErrNotFound)
}

func TestCommissionRepository_UniquePerClientMonth(t *testing.T) {
	ctx := context.Background()
	repo := NewCommissionRepository()
	reseller, client := primitive.NewObjectID(), primitive.NewObjectID()

	first := models.Commission{ResellerType: models.ResellerPartner, ResellerID: reseller, ClientID: client, Month: "2024-02"}
	require.NoError(t, repo.Create(ctx, &first))

	dup := first
	dup.ID = primitive.ObjectID{}
	assert.ErrorIs(t, repo.Create(ctx, &dup), repositories.ErrDuplicate)

	other := first
	other.ID = primitive.ObjectID{}
	other.ResellerType = models.ResellerConsultant
	assert.NoError(t, repo.Create(ctx, &other))
}

func TestStatusWritesAreConditional(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	sales := NewSaleRepository()
	store := primitive.NewObjectID()
	sale := models.Sale{ID: primitive.NewObjectID(), StoreID: store, Status: models.SaleCompleted}
	require.NoError(t, sales.Create(ctx, &sale))

	refunded, err := sales.SetStatus(ctx, store, sale.ID, models.SaleCompleted, models.SaleRefunded, at)
	require.NoError(t, err)
	assert.Equal(t, models.SaleRefunded, refunded.Status)
	assert.Equal(t, at, refunded.UpdatedAt)
	_, err = sales.SetStatus(ctx, store, sale.ID, models.SaleCompleted, models.SaleVoided, at)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = sales.SetStatus(ctx, primitive.NewObjectID(), sale.ID, models.SaleRefunded, models.SaleVoided, at)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	commissions := NewCommissionRepository()
	rec := models.Commission{ResellerType: models.ResellerPartner, ResellerID: primitive.NewObjectID(), Month: "2024-02", Status: models.CommissionPending}
	require.NoError(t, commissions.Create(ctx, &rec))
	rec.Status = models.CommissionApproved
	require.NoError(t, commissions.Update(ctx, &rec, models.CommissionPending))
	rec.Status = models.CommissionCancelled
	assert.ErrorIs(t, commissions.Update(ctx, &rec, models.CommissionPending), repositories.ErrNotFound)

	referrals := NewReferralRepository()
	ref := models.Referral{PartnerID: primitive.NewObjectID(), Status: models.ReferralPending}
	require.NoError(t, referrals.Create(ctx, &ref))
	ref.Status = models.ReferralContacted
	require.NoError(t, referrals.Update(ctx, &ref, models.ReferralPending))
	assert.ErrorIs(t, referrals.Update(ctx, &ref, models.ReferralPending), repositories.ErrNotFound)
}

func TestProductRepository_AdjustQuantity(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	store := primitive.NewObjectID()
	p := models.Product{ID: primitive.NewObjectID(), StoreID: store, Name: "Blue Dream", Quantity: 3, ReorderLevel: 2, IsActive: true}
	require.NoError(t, repo.Create(ctx, &p))

	require.NoError(t, repo.AdjustQuantity(ctx, store, p.ID, -1))
	low, err := repo.ListLowStock(ctx, store)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, 2, low[0].Quantity)

	assert.ErrorIs(t, repo.AdjustQuantity(ctx, store, p.ID, -5), repositories.ErrNotFound)
	got, err := repo.FindByID(ctx, store, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

func TestAuthenticationCodeRepository_RecordScan(t *testing.T) {
	ctx := context.Background()
	repo := NewAuthenticationCodeRepository()
	code := models.AuthenticationCode{ID: primitive.NewObjectID(), StoreID: primitive.NewObjectID(), Code: "ABC123", Status: models.AuthCodeActive}
	require.NoError(t, repo.CreateMany(ctx, []models.AuthenticationCode{code}))

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.RecordScan(ctx, "ABC123", first)
	require.NoError(t, err)
	got, err := repo.RecordScan(ctx, "ABC123", first.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, got.ScanCount)
	assert.Equal(t, first, *got.FirstScannedAt)
	assert.Equal(t, first.Add(time.Hour), *got.LastScannedAt)

	_, err = repo.RecordScan(ctx, "NOPE", first)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestClientRepository_OwnerScope(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository()
	partner := primitive.NewObjectID()
	consultant := primitive.NewObjectID()

	c := models.Client{Name: "Green Leaf", PartnerID: &partner, Status: models.ClientActive}
	require.NoError(t, repo.Create(ctx, &c))

	all, err := repo.ListAll(ctx, repositories.ClientOwner{Type: models.ResellerPartner, ID: partner})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := repo.ListAll(ctx, repositories.ClientOwner{Type: models.ResellerConsultant, ID: consultant})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.FindByID(ctx, repositories.ClientOwner{Type: models.ResellerConsultant, ID: partner}, c.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
