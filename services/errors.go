package services

import "errors"

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidReferral    = errors.New("invalid referral transition")
	ErrUnknownStep        = errors.New("unknown onboarding step")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidSaleStatus  = errors.New("invalid sale status change")
	ErrInvalidDelivery    = errors.New("invalid delivery status change")
	ErrInvalidGrouping    = errors.New("groupBy must be day or month")
	ErrInvalidPhone       = errors.New("invalid phone number")
)
