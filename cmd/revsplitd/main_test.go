package main

import (
	"testing"

	"github.com/iov-one/revsplit/errors"
	"github.com/tendermint/tendermint/libs/log"
)

func TestCmdGenesis(t *testing.T) {
	if err := cmdGenesis(log.NewNopLogger(), "testdata/genesis.json"); err != nil {
		t.Fatalf("cannot load genesis: %+v", err)
	}
	if err := cmdGenesis(log.NewNopLogger(), "testdata/missing.json"); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
