package batch

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocktx/grocktx/internal/gazetteer"
	"github.com/grocktx/grocktx/internal/memo"
	"github.com/grocktx/grocktx/internal/model"
	"github.com/grocktx/grocktx/internal/vendor"
)

// echoParser records the reference date it was given in the description.
type echoParser struct {
	calls atomic.Int32
}

func (p *echoParser) Parse(m string, ref time.Time) model.MemoRecord {
	p.calls.Add(1)
	ch := model.ChannelWithdraw
	if strings.HasPrefix(m, "?") {
		ch = model.ChannelUnknown
	}
	return model.MemoRecord{
		Channel: ch,
		Vendor:  model.VendorInfo{Description: m + "@" + ref.Format("2006-01-02")},
	}
}

func txn(memo string, date time.Time) model.Transaction {
	return model.Transaction{Memo: memo, Date: date}
}

func TestRunner_PreservesOrder(t *testing.T) {
	d := time.Date(2009, 11, 25, 0, 0, 0, 0, time.UTC)
	var in []model.Transaction
	for i := 0; i < 200; i++ {
		in = append(in, txn(strings.Repeat("x", i%7)+string(rune('a'+i%26)), d))
	}

	p := &echoParser{}
	out, sum, err := NewRunner(p, WithWorkers(8)).Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Memo+"@2009-11-25", out[i].Record.Vendor.Description)
	}
	assert.Equal(t, int32(200), p.calls.Load())
	assert.Equal(t, 200, sum.Total)
	assert.Equal(t, 200, sum.ByChannel[model.ChannelWithdraw])
}

func TestRunner_DoesNotModifyInput(t *testing.T) {
	in := []model.Transaction{txn("a", time.Now())}
	_, _, err := NewRunner(&echoParser{}).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, in[0].Record.Channel)
}

func TestRunner_ReferenceForUndatedTransactions(t *testing.T) {
	ref := time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC)
	in := []model.Transaction{
		txn("dated", time.Date(2009, 11, 25, 0, 0, 0, 0, time.UTC)),
		txn("undated", time.Time{}),
	}
	out, _, err := NewRunner(&echoParser{}, WithReference(ref)).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "dated@2009-11-25", out[0].Record.Vendor.Description)
	assert.Equal(t, "undated@2010-03-01", out[1].Record.Vendor.Description)
}

func TestRunner_Summary(t *testing.T) {
	in := []model.Transaction{txn("a", time.Now()), txn("?b", time.Now()), txn("?c", time.Now())}
	_, sum, err := NewRunner(&echoParser{}, WithWorkers(2)).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Unknown())
	assert.Equal(t, 1, sum.ByChannel[model.ChannelWithdraw])
	assert.False(t, sum.Finished.Before(sum.Started))
}

func TestRunner_Empty(t *testing.T) {
	out, sum, err := NewRunner(&echoParser{}, WithWorkers(4)).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, sum.Total)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make([]model.Transaction, 50)
	out, _, err := NewRunner(&echoParser{}, WithWorkers(0)).Run(ctx, in)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestRunner_Logs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	_, _, err := NewRunner(&echoParser{}, WithLogger(log)).Run(context.Background(), []model.Transaction{txn("?x", time.Now())})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=batch_started transactions=1 workers=1")
	assert.Contains(t, buf.String(), "msg=batch_completed transactions=1 unknown=1")
}

func TestRunner_WithMemoParser(t *testing.T) {
	gaz, err := gazetteer.Default()
	require.NoError(t, err)
	p := memo.New(vendor.NewResolver(gaz))

	in := []model.Transaction{
		txn("WITHDRAW#  - POS 1128 1756 531470 HARVEST COOP CAMBRIDGE MA", time.Date(2009, 11, 30, 0, 0, 0, 0, time.UTC)),
		txn("WITHDRAW#  - POS 1230 1015 123456 HARVEST COOP CAMBRIDGE MA", time.Date(2010, 1, 2, 0, 0, 0, 0, time.UTC)),
		txn("SH DRAFT# 1121", time.Date(2009, 11, 30, 0, 0, 0, 0, time.UTC)),
	}
	out, sum, err := NewRunner(p, WithWorkers(3)).Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, model.ChannelPOS, out[0].Record.Channel)
	assert.Equal(t, "CAMBRIDGE", out[0].Record.Vendor.City)
	details, ok := out[1].Record.Details.(model.AuthDetails)
	require.True(t, ok)
	assert.Equal(t, "2009-12-30", details.AuthDate())
	assert.Equal(t, model.ChannelCheck, out[2].Record.Channel)
	assert.Equal(t, 2, sum.ByChannel[model.ChannelPOS])
}
