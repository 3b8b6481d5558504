package x

import (
	"context"
	"testing"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/revsplittest/assert"
)

func TestAuth(t *testing.T) {
	a := revsplittest.NewCondition()
	b := revsplittest.NewCondition()
	c := revsplittest.NewCondition()

	ctx1 := &revsplittest.CtxAuth{Key: "foo"}
	ctx2 := &revsplittest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          revsplit.Context
		auth         Authenticator
		mainSigner   revsplit.Condition
		wantInCtx    revsplit.Condition
		wantNotInCtx revsplit.Condition
		wantAll      []revsplit.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &revsplittest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &revsplittest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []revsplit.Condition{a},
		},
		"signer b": {
			ctx: context.Background(),
			auth: ChainAuth(
				&revsplittest.Auth{Signer: b},
				&revsplittest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []revsplit.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []revsplit.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}

			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.wantAll, all)
		})
	}
}
