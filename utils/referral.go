package utils

import (
	"strings"

	"github.com/jaevor/go-nanoid"

	"github.com/HSouheill/dispensary_backend/models"
)

// codeAlphabet omits 0/O and 1/I so printed codes survive being read aloud
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	referralCodeLength = 8
	authCodeLength     = 12
)

var (
	referralID = mustGenerator(referralCodeLength)
	authCodeID = mustGenerator(authCodeLength)
)

func mustGenerator(length int) func() string {
	gen, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		panic(err)
	}
	return gen
}

// ReferralPrefix maps a reseller type to the prefix of its referral codes
func ReferralPrefix(t models.ResellerType) string {
	switch t {
	case models.ResellerPartner:
		return "PTR"
	case models.ResellerConsultant:
		return "CON"
	}
	return "REF"
}

// GenerateReferralCode returns a code like PTR-7KQ2M9XH
func GenerateReferralCode(t models.ResellerType) string {
	return ReferralPrefix(t) + "-" + referralID()
}

// GenerateAuthenticationCode returns the random part printed inside a product QR code
func GenerateAuthenticationCode() string {
	return authCodeID()
}

// NormalizeCode uppercases and trims a code typed or scanned by a user
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
