package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/metrics"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/utils"
)

// SuspiciousScanCount is the scan count above which a verification warns
// that the label may have been copied
const SuspiciousScanCount = 5

// VerificationService issues product authentication QR codes and answers
// public scans of them
type VerificationService struct {
	codes    repositories.AuthenticationCodeRepository
	products repositories.ProductRepository
	stores   repositories.StoreRepository
	renderer *QRRenderer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewVerificationService(
	codes repositories.AuthenticationCodeRepository,
	products repositories.ProductRepository,
	stores repositories.StoreRepository,
	renderer *QRRenderer,
	m *metrics.Metrics,
) *VerificationService {
	return &VerificationService{codes: codes, products: products, stores: stores, renderer: renderer, metrics: m, now: time.Now}
}

// Generate creates req.Count fresh codes for one product of the store
func (s *VerificationService) Generate(ctx context.Context, storeID primitive.ObjectID, req models.AuthenticationCodeRequest) ([]models.AuthenticationCode, error) {
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: product id", ErrInvalidID)
	}
	product, err := s.products.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	batch := req.BatchNumber
	if batch == "" {
		batch = product.BatchNumber
	}
	now := s.now()
	codes := make([]models.AuthenticationCode, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		codes = append(codes, models.AuthenticationCode{
			ID:          primitive.NewObjectID(),
			StoreID:     storeID,
			ProductID:   product.ID,
			ProductName: product.Name,
			BatchNumber: batch,
			Code:        utils.GenerateAuthenticationCode(),
			Status:      models.AuthCodeActive,
			CreatedAt:   now,
		})
	}
	if err := s.codes.CreateMany(ctx, codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *VerificationService) List(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) ([]models.AuthenticationCode, int64, error) {
	return s.codes.List(ctx, storeID, opts)
}

// Image renders the QR label of one code
func (s *VerificationService) Image(ctx context.Context, storeID, id primitive.ObjectID) ([]byte, error) {
	code, err := s.codes.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.PNG(s.renderer.VerifyURL(code.Code))
}

func (s *VerificationService) Revoke(ctx context.Context, storeID, id primitive.ObjectID) (*models.AuthenticationCode, error) {
	code, err := s.codes.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	code.Status = models.AuthCodeRevoked
	if err := s.codes.Update(ctx, storeID, id, code); err != nil {
		return nil, err
	}
	return code, nil
}

// Verify records a scan and reports whether the code is genuine. Unknown
// codes are a normal answer, not an error.
func (s *VerificationService) Verify(ctx context.Context, raw string) (models.VerificationResult, error) {
	code := utils.NormalizeCode(raw)
	result := models.VerificationResult{Code: code}

	rec, err := s.codes.RecordScan(ctx, code, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		s.metrics.QRVerification("unknown")
		result.Warning = "This code is not registered. The product may be counterfeit."
		return result, nil
	}
	if err != nil {
		return result, err
	}

	result.ProductName = rec.ProductName
	result.BatchNumber = rec.BatchNumber
	result.ScanCount = rec.ScanCount
	result.FirstScannedAt = rec.FirstScannedAt
	if store, err := s.stores.FindByID(ctx, rec.StoreID); err == nil {
		result.StoreName = store.Name
	}

	if rec.Status == models.AuthCodeRevoked {
		s.metrics.QRVerification("revoked")
		result.Warning = "This code has been revoked by the issuing store."
		return result, nil
	}

	result.Authentic = true
	if rec.ScanCount > SuspiciousScanCount {
		s.metrics.QRVerification("suspicious")
		result.Warning = fmt.Sprintf("This code has been scanned %d times. Contact the store if you did not scan it before.", rec.ScanCount)
		return result, nil
	}
	s.metrics.QRVerification("authentic")
	return result, nil
}
