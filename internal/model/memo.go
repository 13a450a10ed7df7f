package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Channel is the kind of transaction a memo describes.
type Channel string

const (
	ChannelATM      Channel = "atm"
	ChannelPOS      Channel = "pos"
	ChannelCheck    Channel = "check"
	ChannelTransfer Channel = "transfer"
	ChannelDeposit  Channel = "deposit"
	ChannelDividend Channel = "dividend"
	ChannelFee      Channel = "fee"
	ChannelRevFee   Channel = "rev fee"
	ChannelWithdraw Channel = "withdraw"
	ChannelUnknown  Channel = "unknown"
)

// Channels lists every channel in classification order.
var Channels = []Channel{
	ChannelCheck,
	ChannelPOS,
	ChannelATM,
	ChannelTransfer,
	ChannelDeposit,
	ChannelDividend,
	ChannelRevFee,
	ChannelFee,
	ChannelWithdraw,
	ChannelUnknown,
}

const (
	// DateFormat is the layout of AuthDetails dates.
	DateFormat = "2006-01-02"
	// TimeFormat is the layout of AuthDetails times.
	TimeFormat = "15:04"
)

// VendorInfo is the merchant portion of a memo, split into location fields.
// Fields that could not be resolved are empty.
type VendorInfo struct {
	Description string `json:"description"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone"`
}

// ChannelDetails is the channel-specific payload of a MemoRecord.
// The concrete type is one of CheckDetails, AuthDetails, FeeDetails or
// TransferDetails.
type ChannelDetails interface {
	channelDetails()
}

// CheckDetails carries the check number of a check/draft memo.
type CheckDetails struct {
	CheckNumber string `json:"check_number"`
}

// AuthDetails carries the authorization code and time of a card transaction.
// Credit-card memos have no time of day; HasTime is false for them.
type AuthDetails struct {
	Auth    string
	At      time.Time
	HasTime bool
}

// FeeDetails carries the signed fee amount printed at the end of a fee memo.
type FeeDetails struct {
	Amount decimal.Decimal
}

// TransferDetails carries the free-text account segment of a transfer memo.
type TransferDetails struct {
	AccountDescription string `json:"account_description"`
}

func (CheckDetails) channelDetails()    {}
func (AuthDetails) channelDetails()     {}
func (FeeDetails) channelDetails()      {}
func (TransferDetails) channelDetails() {}

// AuthDate returns the authorization date as YYYY-MM-DD.
func (d AuthDetails) AuthDate() string {
	return d.At.Format(DateFormat)
}

// AuthTime returns the authorization time as HH:MM, or "" when absent.
func (d AuthDetails) AuthTime() string {
	if !d.HasTime {
		return ""
	}
	return d.At.Format(TimeFormat)
}

// MarshalJSON renders date and time as strings, omitting the time when absent.
func (d AuthDetails) MarshalJSON() ([]byte, error) {
	out := struct {
		Auth     string `json:"auth"`
		AuthDate string `json:"auth_date"`
		AuthTime string `json:"auth_time,omitempty"`
	}{d.Auth, d.AuthDate(), d.AuthTime()}
	return json.Marshal(out)
}

// MarshalJSON renders the amount as a bare JSON number.
func (d FeeDetails) MarshalJSON() ([]byte, error) {
	out := struct {
		Amount json.Number `json:"amount"`
	}{json.Number(d.Amount.String())}
	return json.Marshal(out)
}

// MemoRecord is the structured result of parsing one memo string.
type MemoRecord struct {
	Channel Channel
	Details ChannelDetails // nil for channels without a payload
	Vendor  VendorInfo
}

// MarshalJSON omits channel_details for channels without a payload.
func (r MemoRecord) MarshalJSON() ([]byte, error) {
	out := struct {
		Channel Channel        `json:"channel"`
		Details ChannelDetails `json:"channel_details,omitempty"`
		Vendor  VendorInfo     `json:"vendor"`
	}{r.Channel, r.Details, r.Vendor}
	return json.Marshal(out)
}
