package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderButton(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    OrderButton
		wantErr bool
	}{
		{name: "url", raw: " https://shop.example/order ", want: OrderButton{Kind: ButtonURL, Value: "https://shop.example/order"}},
		{name: "handle", raw: "@shop_owner", want: OrderButton{Kind: ButtonURL, Value: "https://t.me/shop_owner"}},
		{name: "bare handle", raw: "shop_owner", want: OrderButton{Kind: ButtonURL, Value: "https://t.me/shop_owner"}},
		{name: "free text", raw: "Call us at 555 0100", want: OrderButton{Kind: ButtonText, Value: "Call us at 555 0100"}},
		{name: "empty", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderButton(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseContact(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantLink string
		wantErr  bool
	}{
		{name: "url", raw: "https://example.com/contact", wantLink: "https://example.com/contact"},
		{name: "username", raw: "@shop_owner", wantLink: "https://t.me/shop_owner"},
		{name: "username without at", raw: "shop_owner", wantLink: "https://t.me/shop_owner"},
		{name: "too short", raw: "@abc", wantErr: true},
		{name: "invalid characters", raw: "@shop-owner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContact(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLink, got.Link())
		})
	}
}

func TestConfig_CloneIsDeep(t *testing.T) {
	cfg := NewConfig()
	cfg.AuthorizedUsers = []int64{1}
	cfg.Groups = []Group{{Name: "VIP", Members: []int64{1}}}
	cfg.CustomButtons = []CustomButton{{ID: "b", Name: "Hours"}}
	cfg.OrderButton = &OrderButton{Kind: ButtonText, Value: "call"}

	cp := cfg.Clone()
	cp.AuthorizedUsers[0] = 2
	cp.Groups[0].Members[0] = 2
	cp.CustomButtons[0].Name = "Changed"
	cp.OrderButton.Value = "changed"

	assert.Equal(t, []int64{1}, cfg.AuthorizedUsers)
	assert.Equal(t, []int64{1}, cfg.Groups[0].Members)
	assert.Equal(t, "Hours", cfg.CustomButtons[0].Name)
	assert.Equal(t, "call", cfg.OrderButton.Value)
}

func TestIDs(t *testing.T) {
	ids := AddID(nil, 3)
	ids = AddID(ids, 3)
	ids = AddID(ids, 1)
	assert.Equal(t, []int64{1, 3}, ids)
	assert.Equal(t, []int64{1}, RemoveID(ids, 3))
}
