package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/revsplittest"
	"github.com/iov-one/revsplit/store"
	"github.com/tendermint/tendermint/libs/log"
)

type testEvent string

func (e testEvent) EventKind() string { return string(e) }

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  *revsplittest.Handler
		check    bool
		wantErr  *errors.Error
		wantLogs []string
	}{
		"delivered with events": {
			handler: &revsplittest.Handler{
				DeliverResult: revsplit.DeliverResult{
					Events: []revsplit.Event{testEvent("splitter/phase_changed"), testEvent("splitter/distribution")},
				},
			},
			wantLogs: []string{"I[", "Delivered", "path=splitter/distribute", "events=splitter/phase_changed,splitter/distribution"},
		},
		"failed delivery": {
			handler:  &revsplittest.Handler{DeliverErr: errors.ErrUnauthorized},
			wantErr:  errors.ErrUnauthorized,
			wantLogs: []string{"E[", "Deliver failed", "path=splitter/distribute", "err="},
		},
		"check is logged at debug level": {
			handler:  &revsplittest.Handler{},
			check:    true,
			wantLogs: []string{"D[", "Check passed", "path=splitter/distribute"},
		},
		"failed check": {
			handler:  &revsplittest.Handler{CheckErr: errors.ErrInput},
			check:    true,
			wantErr:  errors.ErrInput,
			wantLogs: []string{"E[", "Check failed"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := revsplit.WithLogger(context.Background(), log.NewTMLogger(&buf))
			tx := &revsplittest.Tx{Msg: &revsplittest.Msg{RoutePath: "splitter/distribute"}}
			h := revsplittest.Decorate(tc.handler, NewLogging())

			var err error
			if tc.check {
				_, err = h.Check(ctx, store.MemStore(), tx)
			} else {
				_, err = h.Deliver(ctx, store.MemStore(), tx)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			out := buf.String()
			for _, want := range tc.wantLogs {
				if !strings.Contains(out, want) {
					t.Errorf("log entry %q does not contain %q", out, want)
				}
			}
		})
	}
}
