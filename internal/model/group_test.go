package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGroupName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "VIP"},
		{name: "empty", input: "", wantErr: true},
		{name: "reserved", input: "Stats", wantErr: true},
		{name: "separator", input: "VIP_Gold", wantErr: true},
		{name: "whitespace", input: "VIP Gold", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestScopedName(t *testing.T) {
	assert.Equal(t, "Fruits", ScopedName{Local: "Fruits"}.Key())
	assert.Equal(t, "VIP_Deals", ScopedName{Group: "VIP", Local: "Deals"}.Key())

	assert.Equal(t, "Deals", StripOwner("VIP_Deals", "VIP"))
	assert.Equal(t, "VIP_Deals", StripOwner("VIP_Deals", ""))
	assert.Equal(t, "Other_Deals", StripOwner("Other_Deals", "VIP"))
}

func TestResolvePrefix(t *testing.T) {
	groups := []string{"VIP", "VIP_Gold", "Staff"}

	tests := []struct {
		key    string
		want   ScopedName
		wantOK bool
	}{
		{key: "VIP_Deals", want: ScopedName{Group: "VIP", Local: "Deals"}, wantOK: true},
		{key: "VIP_Gold_Deals", want: ScopedName{Group: "VIP_Gold", Local: "Deals"}, wantOK: true},
		{key: "Staff_Only", want: ScopedName{Group: "Staff", Local: "Only"}, wantOK: true},
		{key: "VIP_", wantOK: false},
		{key: "Fruits", wantOK: false},
		{key: "vip_Deals", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ResolvePrefix(tt.key, groups)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
