package app

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/app"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/x/cash"
	"github.com/iov-one/revsplit/x/splitter"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRevenueLifecycle(t *testing.T) {
	var (
		governor = revsplittest.NewCondition()
		admin    = revsplittest.NewCondition()
		payer    = revsplittest.NewCondition()
		anyone   = revsplittest.NewCondition()
		wallets  = splitter.Wallets{
			Founder: revsplittest.NewAddress(),
			Dao:     revsplittest.NewAddress(),
			Charity: revsplittest.NewAddress(),
		}
		md = &revsplit.Metadata{Schema: 1}
	)

	appState, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"splitter": splitter.Configuration{
				Metadata:     md,
				Governor:     governor.Address(),
				Admin:        admin.Address(),
				MinTimelock:  int64((24 * time.Hour) / time.Second),
				StableTicker: "USDC",
				NativeTicker: "ETH",
			},
		},
		"cash": []interface{}{
			map[string]interface{}{
				"address": payer.Address(),
				"coins":   []string{"5000 USDC", "3 ETH"},
			},
		},
		"splitter": splitter.GenesisRouter{Wallets: wallets},
	})
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	reg := prometheus.NewRegistry()
	ledger := Application(nil, clock, reg)
	require.NoError(t, ledger.InitChain("revsplit-test", appState))

	deliver := func(msg revsplit.Msg, signers ...revsplit.Condition) (*revsplit.DeliverResult, error) {
		t.Helper()
		if _, err := ledger.Check(app.NewTx(msg, signers...)); err != nil {
			return nil, err
		}
		return ledger.Deliver(app.NewTx(msg, signers...))
	}
	balance := func(addr revsplit.Address, ticker string) coin.Coin {
		t.Helper()
		var c coin.Coin
		err := ledger.Query(func(ctx revsplit.Context, db revsplit.ReadOnlyKVStore) error {
			coins, err := cash.NewController(cash.NewBucket()).Balance(db, addr)
			if err != nil {
				return err
			}
			c = coins.Balance(ticker)
			return nil
		})
		require.NoError(t, err)
		return c
	}

	// Revenue arrives at the router account.
	revenue := coin.NewCoin(1000, 30000000, "USDC")
	_, err = deliver(&cash.SendMsg{
		Metadata:    md,
		Source:      payer.Address(),
		Destination: splitter.RouterAccount(),
		Amount:      &revenue,
	}, payer)
	require.NoError(t, err)
	require.Equal(t, revenue, balance(splitter.RouterAccount(), "USDC"))

	_, err = deliver(&splitter.ScheduleSplitMsg{
		Metadata: md,
		Split:    &splitter.Split{Founder: 7000, Dao: 2000, Charity: 1000},
		Timelock: 86400,
	}, governor)
	require.True(t, splitter.ErrPhase.Is(err), "unexpected error: %+v", err)

	_, err = deliver(&splitter.EnterTransitionMsg{Metadata: md}, governor)
	require.NoError(t, err)

	_, err = deliver(&splitter.ScheduleSplitMsg{
		Metadata: md,
		Split:    &splitter.Split{Founder: 7000, Dao: 2000, Charity: 1000},
		Timelock: 86400,
	}, governor)
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	_, err = deliver(&splitter.ApplySplitMsg{Metadata: md}, anyone)
	require.True(t, splitter.ErrNotReady.Is(err), "unexpected error: %+v", err)

	clock.Advance(time.Hour)
	_, err = deliver(&splitter.ApplySplitMsg{Metadata: md}, anyone)
	require.NoError(t, err)

	res, err := deliver(&splitter.DistributeMsg{Metadata: md, Asset: splitter.AssetStable}, anyone)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	require.Equal(t, "splitter/distribution", res.Events[0].EventKind())

	require.Equal(t, coin.NewCoin(700, 21000000, "USDC"), balance(wallets.Founder, "USDC"))
	require.Equal(t, coin.NewCoin(200, 6000000, "USDC"), balance(wallets.Dao, "USDC"))
	require.Equal(t, coin.NewCoin(100, 3000000, "USDC"), balance(wallets.Charity, "USDC"))
	require.True(t, balance(splitter.RouterAccount(), "USDC").IsZero())

	n, err := testutil.GatherAndCount(reg, "revsplit_splitter_distributions_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	n, err = testutil.GatherAndCount(reg, "revsplit_splitter_distributed_total")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	// Check runs before every Deliver and must not be counted.
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP revsplit_splitter_distributions_total Number of executed distributions.
# TYPE revsplit_splitter_distributions_total counter
revsplit_splitter_distributions_total{ticker="USDC"} 1
`), "revsplit_splitter_distributions_total"))

	_, err = deliver(&splitter.ActivatePermanentMsg{
		Metadata: md,
		Split:    &splitter.Split{Founder: 2000, Dao: 5000, Charity: 3000},
	}, admin)
	require.True(t, splitter.ErrSplit.Is(err), "unexpected error: %+v", err)

	_, err = deliver(&splitter.ActivatePermanentMsg{
		Metadata: md,
		Split:    &splitter.Split{Founder: 1000, Dao: 5000, Charity: 4000},
	}, governor)
	require.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)

	_, err = deliver(&splitter.ActivatePermanentMsg{
		Metadata: md,
		Split:    &splitter.Split{Founder: 1000, Dao: 5000, Charity: 4000},
	}, admin)
	require.NoError(t, err)

	_, err = deliver(&splitter.UpdateWalletsMsg{
		Metadata: md,
		Wallets: &splitter.Wallets{
			Founder: revsplittest.NewAddress(),
			Dao:     revsplittest.NewAddress(),
			Charity: revsplittest.NewAddress(),
		},
	}, admin)
	require.True(t, splitter.ErrPhase.Is(err), "unexpected error: %+v", err)

	// Distribution keeps working in the permanent phase.
	eth := coin.NewCoin(1, 0, "ETH")
	_, err = deliver(&cash.SendMsg{
		Metadata:    md,
		Source:      payer.Address(),
		Destination: splitter.RouterAccount(),
		Amount:      &eth,
	}, payer)
	require.NoError(t, err)
	_, err = deliver(&splitter.DistributeMsg{Metadata: md, Asset: splitter.AssetNative})
	require.NoError(t, err)
	require.Equal(t, coin.NewCoin(0, 100000000, "ETH"), balance(wallets.Founder, "ETH"))
	require.Equal(t, coin.NewCoin(0, 500000000, "ETH"), balance(wallets.Dao, "ETH"))
	require.Equal(t, coin.NewCoin(0, 400000000, "ETH"), balance(wallets.Charity, "ETH"))

	var history []*splitter.HistoryEntry
	err = ledger.Query(func(ctx revsplit.Context, db revsplit.ReadOnlyKVStore) error {
		var err error
		history, err = splitter.NewController(nil, nil, nil).History(db)
		return err
	})
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, splitter.CausePermanent, history[2].Cause)
	require.True(t, history[2].Height > history[1].Height)
	require.Equal(t, revsplit.AsUnixTime(clock.Now()), history[2].BlockTime)
}
