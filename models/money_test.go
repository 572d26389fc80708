package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMoney_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: `199`, want: "199.00"},
		{in: `166.5833`, want: "166.58"},
		{in: `"1999.00"`, want: "1999.00"},
		{in: `" 12.5 "`, want: "12.50"},
		{in: `null`, want: "0.00"},
		{in: `-3.005`, want: "-3.01"},
		{in: `"0.125"`, want: "0.13"},
	}
	for _, tc := range cases {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(tc.in), &m), tc.in)
		assert.Equal(t, tc.want, m.Cents().StringFixed(), tc.in)
	}
}

func TestMoney_UnmarshalJSON_Rejects(t *testing.T) {
	for _, in := range []string{`"abc"`, `"NaN"`, `true`, `"Infinity"`, `""`, `{}`} {
		var m Money
		err := json.Unmarshal([]byte(in), &m)
		require.Error(t, err, in)

		var amountErr *InvalidAmountError
		assert.True(t, errors.As(err, &amountErr), in)
	}
}

func TestMoney_JSONIsBareNumber(t *testing.T) {
	raw, err := json.Marshal(struct {
		Fee Money `json:"fee"`
	}{Fee: NewMoney(49.99)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fee":49.99}`, string(raw))
}

func TestMoney_BSONDecimal128(t *testing.T) {
	type doc struct {
		Fee Money `bson:"fee"`
	}
	raw, err := bson.Marshal(doc{Fee: NewMoney(1999.99)})
	require.NoError(t, err)

	var out doc
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, "1999.99", out.Fee.String())

	var plain bson.M
	require.NoError(t, bson.Unmarshal(raw, &plain))
	assert.IsType(t, primitive.Decimal128{}, plain["fee"])
}

func TestMoney_BSONLegacyDouble(t *testing.T) {
	type doc struct {
		Fee Money `bson:"fee"`
	}
	raw, err := bson.Marshal(bson.M{"fee": 12.5})
	require.NoError(t, err)

	var out doc
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, "12.5", out.Fee.String())
}

func TestParseEnums(t *testing.T) {
	_, err := ParseRole("ROOT")
	assert.ErrorIs(t, err, ErrInvalidEnum)

	r, err := ParseRole("OWNER")
	require.NoError(t, err)
	assert.True(t, r.StoreBound())
	assert.False(t, RolePartner.StoreBound())

	_, err = ParseBillingCycle("weekly")
	assert.ErrorIs(t, err, ErrInvalidEnum)

	_, err = ParseTier("DIAMOND")
	assert.ErrorIs(t, err, ErrInvalidEnum)
}

func TestReferralStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ReferralPending.CanTransitionTo(ReferralContacted))
	assert.True(t, ReferralContacted.CanTransitionTo(ReferralConverted))
	assert.False(t, ReferralConverted.CanTransitionTo(ReferralPending))
	assert.False(t, ReferralLost.CanTransitionTo(ReferralContacted))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 2, 10, 21)
	assert.Equal(t, int64(3), p.TotalPages)

	p = NewPage(nil, 1, 0, 5)
	assert.Equal(t, int64(0), p.TotalPages)
}
