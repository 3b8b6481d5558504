package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/app"
	revsplitapp "github.com/iov-one/revsplit/cmd/revsplitd/app"
	"github.com/iov-one/revsplit/x/splitter"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Set during the build using ldflags.
var version = "dev"

func helpMessage() {
	fmt.Fprintln(os.Stderr, "revsplitd")
	fmt.Fprintln(os.Stderr, "        Revenue split ledger")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "help              Print this message")
	fmt.Fprintln(os.Stderr, "genesis <file>    Load a genesis file and print the initial router state")
	fmt.Fprintln(os.Stderr, "version           Print the app version")
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).
		With("module", "revsplit")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "genesis":
		if len(rest) != 1 {
			helpMessage()
			os.Exit(1)
		}
		if err := cmdGenesis(logger, rest[0]); err != nil {
			logger.Error("Genesis failed", "err", err)
			os.Exit(1)
		}
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}
}

// cmdGenesis initializes an in memory ledger using given genesis file and
// prints the resulting router state.
func cmdGenesis(logger log.Logger, path string) error {
	gen, err := app.LoadGenesis(path)
	if err != nil {
		return err
	}
	ledger := revsplitapp.Application(nil, clockwork.NewRealClock(), prometheus.NewRegistry()).
		WithLogger(logger)
	if err := ledger.FromGenesis(gen); err != nil {
		return err
	}

	var router *splitter.Router
	err = ledger.Query(func(ctx revsplit.Context, db revsplit.ReadOnlyKVStore) error {
		var err error
		router, err = splitter.NewController(nil, nil, nil).Router(db)
		return err
	})
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(router, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
