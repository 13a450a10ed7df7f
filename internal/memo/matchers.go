package memo

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grocktx/grocktx/internal/memodate"
	"github.com/grocktx/grocktx/internal/model"
)

// A separator joins the leading type word to the rest of the memo, either
// "#  - " or " / ".
const (
	separator = `(?:#\s+-\s+|\s+/\s+)`
	typeStub  = `^(?:(?P<type>\w+)` + separator + `)?`
	dollar    = `(?P<amount>-?\$[-\d.]+)`
)

var (
	// "SH DRAFT# 1121"
	checkPattern = regexp.MustCompile(`^SH DRAFT(?:#(?:\s+-\s+)?\s*(?P<number>\d+)?)?$`)
	// "WITHDRAW#  - POS 1128 1756 531470 HARVEST COOP CAMBRIDGE MA"
	posPattern = regexp.MustCompile(typeStub + `POS (?P<date>\d{4} \d{4}) (?P<auth>\d{6}) (?P<description>.+)$`)
	// "WITHDRAW /  ATM 0302 1404 205937 MIT FEDERAL CREDIT UNI CAMBRIDGE MA"
	atmPattern = regexp.MustCompile(typeStub + `ATM (?P<date>\d{4} \d{4}) (?P<auth>\d{6}) (?P<description>.+)$`)
	// "PURCHASE#  - 11-25-09 SAVENORS MARKET BOSTON MA auth# 60618"
	cardPattern = regexp.MustCompile(typeStub + `(?P<date>\d\d-\d\d-\d\d) (?P<description>.+) auth# (?P<auth>\d+)$`)
	// "TRANSFER TO SAVINGS / ONLINE BANKING"
	transferPattern = regexp.MustCompile(`^(?:TRANSFER|Transfer)(?:$|\s*(?P<account>.*)` + separator + `(?P<description>.+)$)`)
	// "DEPOSIT#  - MASS. INST. OF TPAYROLL"
	depositPattern = regexp.MustCompile(`^DEPOSIT` + separator + `?\s*(?P<description>.*)$`)
	// "DIVIDEND#"
	dividendPattern = regexp.MustCompile(`^(?:DIVIDEND|Dividend|Savings)(?:#?$|` + separator + `(?P<description>.*)$)`)
	// "REV FEE#  - ATM SURCHARGE FEE REIMBURSEMENT $-3.00"
	revFeePattern = regexp.MustCompile(`^REV FEE` + separator + `(?P<description>.*?)\s*` + dollar + `?$`)
	// "FEE / CURRENCY CONVERSION FEE $0.13"
	feePattern = regexp.MustCompile(`^FEE` + separator + `(?P<description>.*?)\s*` + dollar + `?$`)
	// "WITHDRAW#  - ebill epayment MIT TUTION091009"
	genericPattern = regexp.MustCompile(typeStub + `(?P<description>.*)`)

	embeddedAmount = regexp.MustCompile(`\$[-\d.]+`)
)

// DefaultMatchers returns the standard cascade in priority order.
func DefaultMatchers(vendors VendorResolver) []Matcher {
	return []Matcher{
		checkMatcher{},
		authMatcher{channel: model.ChannelPOS, pattern: posPattern, vendors: vendors},
		authMatcher{channel: model.ChannelATM, pattern: atmPattern, vendors: vendors},
		cardMatcher{vendors: vendors},
		transferMatcher{},
		labelMatcher{channel: model.ChannelDeposit, pattern: depositPattern},
		labelMatcher{channel: model.ChannelDividend, pattern: dividendPattern},
		feeMatcher{channel: model.ChannelRevFee, pattern: revFeePattern},
		feeMatcher{channel: model.ChannelFee, pattern: feePattern},
		genericMatcher{},
	}
}

// match returns the named groups of re in s, or nil.
func match(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	groups := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}
	return groups
}

type checkMatcher struct{}

func (checkMatcher) Name() string { return "check" }

func (checkMatcher) Match(memo string, _ time.Time) (model.MemoRecord, Outcome) {
	g := match(checkPattern, memo)
	if g == nil {
		return model.MemoRecord{}, NoMatch
	}
	number := g["number"]
	return model.MemoRecord{
		Channel: model.ChannelCheck,
		Details: model.CheckDetails{CheckNumber: number},
		Vendor:  model.VendorInfo{Description: strings.TrimSpace("CHECK " + number)},
	}, Matched
}

// authMatcher handles the structured ATM and POS forms, whose date has no
// year and whose time of day is known.
type authMatcher struct {
	channel model.Channel
	pattern *regexp.Regexp
	vendors VendorResolver
}

func (m authMatcher) Name() string { return string(m.channel) }

func (m authMatcher) Match(memo string, ref time.Time) (model.MemoRecord, Outcome) {
	g := match(m.pattern, memo)
	if g == nil {
		return model.MemoRecord{}, NoMatch
	}
	at, ok := memodate.ResolveStatement(g["date"], ref)
	if !ok {
		return model.MemoRecord{}, Abandoned
	}
	return model.MemoRecord{
		Channel: m.channel,
		Details: model.AuthDetails{Auth: g["auth"], At: at, HasTime: true},
		Vendor:  m.vendors.Resolve(g["description"]),
	}, Matched
}

// cardMatcher handles credit-card memos, which carry a full MM-DD-YY date
// and no time. They are reported as point of sale.
type cardMatcher struct {
	vendors VendorResolver
}

func (cardMatcher) Name() string { return "credit card" }

func (m cardMatcher) Match(memo string, _ time.Time) (model.MemoRecord, Outcome) {
	g := match(cardPattern, memo)
	if g == nil {
		return model.MemoRecord{}, NoMatch
	}
	at, ok := memodate.ResolveCard(g["date"])
	if !ok {
		return model.MemoRecord{}, Abandoned
	}
	return model.MemoRecord{
		Channel: model.ChannelPOS,
		Details: model.AuthDetails{Auth: g["auth"], At: at},
		Vendor:  m.vendors.Resolve(g["description"]),
	}, Matched
}

type transferMatcher struct{}

func (transferMatcher) Name() string { return string(model.ChannelTransfer) }

func (transferMatcher) Match(memo string, _ time.Time) (model.MemoRecord, Outcome) {
	g := match(transferPattern, memo)
	if g == nil {
		return model.MemoRecord{}, NoMatch
	}
	rec := model.MemoRecord{
		Channel: model.ChannelTransfer,
		Vendor:  model.VendorInfo{Description: memo},
	}
	if g["account"] != "" {
		rec.Details = model.TransferDetails{AccountDescription: g["account"]}
	}
	return rec, Matched
}

// labelMatcher handles channels whose description defaults to the channel
// name when the memo has none.
type labelMatcher struct {
	channel model.Channel
	pattern *regexp.Regexp
}

func (m labelMatcher) Name() string { return string(m.channel) }

func (m labelMatcher) Match(memo string, _ time.Time) (model.MemoRecord, Outcome) {
	g := match(m.pattern, memo)
	if g == nil {
		return model.MemoRecord{}, NoMatch
	}
	desc := g["description"]
	if desc == "" {
		desc = string(m.channel)
	}
	return model.MemoRecord{
		Channel: m.channel,
		Vendor:  model.VendorInfo{Description: desc},
	}, Matched
}

// feeMatcher handles fees and reversed fees, with an optional trailing
// amount.
type feeMatcher struct {
	channel model.Channel
	pattern *regexp.Regexp
}

func (m feeMatcher) Name() string { return string(m.channel) }

func (m feeMatcher) Match(memo string, _ time.Time) (model.MemoRecord, Outcome) {
	g := match(m.pattern, memo)
	if g == nil {
		return model.MemoRecord{}, NoMatch
	}
	rec := model.MemoRecord{
		Channel: m.channel,
		Vendor:  model.VendorInfo{Description: orMemo(g["description"], memo)},
	}
	if amount, ok := parseAmount(g["amount"]); ok {
		rec.Details = model.FeeDetails{Amount: amount}
	}
	return rec, Matched
}

// genericMatcher is the last resort for memos that lead with a known type
// word but fit no dedicated format.
type genericMatcher struct{}

func (genericMatcher) Name() string { return "generic" }

func (genericMatcher) Match(memo string, _ time.Time) (model.MemoRecord, Outcome) {
	g := match(genericPattern, memo)
	if g == nil || g["type"] == "" {
		return model.MemoRecord{}, NoMatch
	}
	desc := g["description"]

	switch channel := model.Channel(strings.ToLower(g["type"])); channel {
	case model.ChannelFee:
		desc = strings.TrimSpace(embeddedAmount.ReplaceAllString(desc, ""))
		return model.MemoRecord{
			Channel: channel,
			Vendor:  model.VendorInfo{Description: orMemo(desc, memo)},
		}, Matched
	case model.ChannelWithdraw, model.ChannelTransfer:
		return model.MemoRecord{
			Channel: channel,
			Vendor:  model.VendorInfo{Description: orMemo(desc, memo)},
		}, Matched
	}
	return model.MemoRecord{}, NoMatch
}

func orMemo(desc, memo string) string {
	if desc == "" {
		return memo
	}
	return desc
}

// parseAmount reads a "$12.34" style token. Statements sometimes garble
// negative amounts as "$-2.0-50"; a leading minus makes the amount negative
// and every other minus is dropped.
func parseAmount(token string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(token, "$", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	negative := s[0] == '-'
	if negative {
		s = strings.ReplaceAll(s, "-", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
