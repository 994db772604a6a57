package main

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nodebeacon/beacon/internal/battery"
	"github.com/nodebeacon/beacon/internal/certs"
	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/internal/hive"
	"github.com/nodebeacon/beacon/internal/memo"
	"github.com/nodebeacon/beacon/internal/scanner"
)

// newCycle wires the RPC client, battery and executor described by cfg into a
// scan cycle.
func newCycle(cfg *config.Config) (*scanner.Cycle, error) {
	client, err := hive.NewClient(cfg.Battery.ChainID,
		hive.WithTimeout(cfg.Scanner.RPCTimeout),
		hive.WithInsecureSkipVerify(cfg.Scanner.InsecureSkipVerify),
		hive.WithUserAgent("node-beacon/"+version),
	)
	if err != nil {
		return nil, errors.Wrap(err, "hive client")
	}

	b, err := battery.FromConfig(cfg.Battery)
	if err != nil {
		return nil, err
	}

	beacon := cfg.Credentials.Name()
	if beacon == "" || (cfg.Credentials.PostingKey() == "" && cfg.Credentials.ActiveKey() == "") {
		slog.Warn("beacon credentials not configured, write checks will be skipped")
	}

	exec := scanner.NewExecutor(client, scanner.KeysFromConfig(cfg.Credentials), cfg.Scanner.RPCTimeout, slog.Default())
	base := battery.Context{
		Account:        cfg.Battery.Account,
		Beacon:         beacon,
		Community:      cfg.Battery.Community,
		HistoryAccount: cfg.Battery.HistoryAccount,
	}

	var opts []scanner.CycleOption
	if cfg.Scanner.CheckCerts {
		opts = append(opts, scanner.WithCertChecker(certs.New(cfg.Scanner.InsecureSkipVerify, nil)))
	}

	slog.Info("battery ready", "checks", b.Len(), "max_score", b.MaxScore())
	return scanner.NewCycle(exec, b, memo.NewQuotes(nil), base, slog.Default(), opts...), nil
}
