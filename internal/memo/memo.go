// Package memo classifies bank and credit-card memo strings.
//
// A Parser tries an ordered list of Matchers against the memo. The first
// Matcher that recognizes the memo and can make sense of its fields wins;
// anything left over is reported as ChannelUnknown with the memo as its
// description. Parse never fails.
package memo

import (
	"log/slog"
	"strings"
	"time"

	"github.com/grocktx/grocktx/internal/model"
)

// VendorResolver splits merchant text into description and location.
type VendorResolver interface {
	Resolve(text string) model.VendorInfo
}

// Outcome reports how a Matcher handled a memo.
type Outcome int

const (
	// NoMatch means the memo does not have the Matcher's shape.
	NoMatch Outcome = iota
	// Matched means the returned record is final.
	Matched
	// Abandoned means the memo had the Matcher's shape but a captured field,
	// such as a date, was invalid. The cascade moves on.
	Abandoned
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Abandoned:
		return "abandoned"
	default:
		return "no_match"
	}
}

// Matcher recognizes one memo format.
type Matcher interface {
	Name() string
	Match(memo string, ref time.Time) (model.MemoRecord, Outcome)
}

// Parser runs the matcher cascade. It is safe for concurrent use.
type Parser struct {
	matchers []Matcher
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// WithClock sets the source of the reference date used when Parse is given
// a zero reference date.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithMatchers replaces the default cascade.
func WithMatchers(m ...Matcher) Option {
	return func(p *Parser) { p.matchers = m }
}

// New creates a Parser with the default cascade, resolving vendor text
// through vendors.
func New(vendors VendorResolver, opts ...Option) *Parser {
	p := &Parser{
		matchers: DefaultMatchers(vendors),
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Matchers returns the names of the cascade's matchers in order.
func (p *Parser) Matchers() []string {
	names := make([]string, len(p.matchers))
	for i, m := range p.matchers {
		names[i] = m.Name()
	}
	return names
}

// Parse classifies memo. ref is an approximate date of the transaction and
// is used to supply the year of card swipes; the zero time means now.
func (p *Parser) Parse(memo string, ref time.Time) model.MemoRecord {
	memo = strings.TrimSpace(memo)
	if memo == "" {
		return model.MemoRecord{Channel: model.ChannelUnknown}
	}
	if ref.IsZero() {
		ref = p.now()
	}

	for _, m := range p.matchers {
		rec, outcome := m.Match(memo, ref)
		switch outcome {
		case Matched:
			return rec
		case Abandoned:
			p.log.Debug("memo_branch_abandoned", "matcher", m.Name(), "memo", memo)
		}
	}

	return model.MemoRecord{
		Channel: model.ChannelUnknown,
		Vendor:  model.VendorInfo{Description: memo},
	}
}
