package validation

import (
	"strings"
	"testing"

	"verm_airdrop/internal/model"
	"verm_airdrop/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWallet = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestIsWalletAddress(t *testing.T) {
	tests := []struct {
		name   string
		wallet string
		want   bool
	}{
		{"valid 44 chars", validWallet, true},
		{"valid 32 chars", "11111111111111111111111111111111", true},
		{"too short", "9xQeWvG816bUx9EPjHmaT23yv", false},
		{"too long", validWallet + "abc", false},
		{"contains zero", "0xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", false},
		{"contains l", "lxQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWalletAddress(tt.wallet))
		})
	}
}

func TestIsHandle(t *testing.T) {
	tests := []struct {
		handle string
		want   bool
	}{
		{"@Foo_1", true},
		{"foo", true},
		{"@@foo", false},
		{"@", false},
		{"", false},
		{"has spaces", false},
		{"@" + strings.Repeat("a", 33), false},
	}

	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHandle(tt.handle))
		})
	}
}

func TestIsTweetURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://twitter.com/nimrevxyz/status/1790000000000000000", true},
		{"https://x.com/someone/status/123", true},
		{"https://mobile.twitter.com/someone/status/123?s=20", true},
		{"https://x.com/someone", false},
		{"https://evil.com/someone/status/123", false},
		{"https://x.com.evil.com/someone/status/123", false},
		{"ftp://x.com/someone/status/123", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTweetURL(tt.url))
		})
	}
}

func TestStruct_RegistrationListsEveryField(t *testing.T) {
	v := New()

	err := v.Struct(model.RegistrationRequest{
		Email:         "not-an-email",
		Twitter:       strPtr("has spaces"),
		WalletAddress: "short",
	})
	require.Error(t, err)

	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)

	fields := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "twitter", "wallet_address"}, fields)
}

func TestStruct_Verification(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(model.VerificationUpdate{
		WalletAddress:  validWallet,
		TweetURL:       strPtr("https://x.com/a/status/1"),
		FriendsInvited: intPtr(0),
	}))

	err := v.Struct(model.VerificationUpdate{
		WalletAddress:  validWallet,
		TweetURL:       strPtr("https://example.com/a/status/1"),
		FriendsInvited: intPtr(11),
	})
	require.Error(t, err)

	appErr := apperrors.As(err)
	assert.Len(t, appErr.Fields, 2)
	assert.Equal(t, "tweet_url", appErr.Fields[0].Field)
	assert.Equal(t, "friends_invited", appErr.Fields[1].Field)
	assert.Equal(t, "max", appErr.Fields[1].Code)
}
