package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoRecord_MarshalJSON(t *testing.T) {
	at := time.Date(2009, time.November, 25, 14, 56, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  MemoRecord
		want string
	}{
		{
			name: "no details",
			rec:  MemoRecord{Channel: ChannelDeposit, Vendor: VendorInfo{Description: "deposit"}},
			want: `{"channel":"deposit","vendor":{"description":"deposit","city":"","state":"","zip":"","phone":""}}`,
		},
		{
			name: "auth with time",
			rec:  MemoRecord{Channel: ChannelATM, Details: AuthDetails{Auth: "510941", At: at, HasTime: true}},
			want: `{"channel":"atm","channel_details":{"auth":"510941","auth_date":"2009-11-25","auth_time":"14:56"},
				"vendor":{"description":"","city":"","state":"","zip":"","phone":""}}`,
		},
		{
			name: "auth without time",
			rec:  MemoRecord{Channel: ChannelPOS, Details: AuthDetails{Auth: "60618", At: at}},
			want: `{"channel":"pos","channel_details":{"auth":"60618","auth_date":"2009-11-25"},
				"vendor":{"description":"","city":"","state":"","zip":"","phone":""}}`,
		},
		{
			name: "fee",
			rec:  MemoRecord{Channel: ChannelRevFee, Details: FeeDetails{Amount: decimal.RequireFromString("-2.05")}},
			want: `{"channel":"rev fee","channel_details":{"amount":-2.05},
				"vendor":{"description":"","city":"","state":"","zip":"","phone":""}}`,
		},
		{
			name: "check",
			rec:  MemoRecord{Channel: ChannelCheck, Details: CheckDetails{CheckNumber: "1121"}},
			want: `{"channel":"check","channel_details":{"check_number":"1121"},
				"vendor":{"description":"","city":"","state":"","zip":"","phone":""}}`,
		},
		{
			name: "transfer",
			rec:  MemoRecord{Channel: ChannelTransfer, Details: TransferDetails{AccountDescription: "TO SAVINGS"}},
			want: `{"channel":"transfer","channel_details":{"account_description":"TO SAVINGS"},
				"vendor":{"description":"","city":"","state":"","zip":"","phone":""}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.rec)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestAuthDetails_Accessors(t *testing.T) {
	d := AuthDetails{Auth: "1", At: time.Date(2010, time.March, 2, 9, 4, 0, 0, time.UTC)}
	assert.Equal(t, "2010-03-02", d.AuthDate())
	assert.Equal(t, "", d.AuthTime())

	d.HasTime = true
	assert.Equal(t, "09:04", d.AuthTime())
}

func TestChannels_EndWithUnknown(t *testing.T) {
	require.NotEmpty(t, Channels)
	assert.Equal(t, ChannelUnknown, Channels[len(Channels)-1])
	seen := map[Channel]bool{}
	for _, c := range Channels {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}
