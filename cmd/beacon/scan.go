package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nodebeacon/beacon/internal/ranking"
	"github.com/nodebeacon/beacon/pkg/types"
)

func newScanCmd(flags *rootFlags) *cobra.Command {
	var (
		only    []string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan cycle and print the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			nodes, err := selectNodes(cfg.ActiveNodes(), only)
			if err != nil {
				return err
			}

			cycle, err := newCycle(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			statuses, err := cycle.Run(ctx, nodes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}
			return printScan(out, statuses, ranking.PolicyFromConfig(cfg.Ranking), verbose)
		},
	}

	cmd.Flags().StringSliceVarP(&only, "node", "n", nil, "scan only these node names (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full node statuses as JSON")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print every check result")
	return cmd
}

// selectNodes keeps the nodes named in only, in configuration order.
func selectNodes(nodes []types.NodeConfig, only []string) ([]types.NodeConfig, error) {
	if len(only) == 0 {
		return nodes, nil
	}
	want := make(map[string]bool, len(only))
	for _, n := range only {
		want[n] = true
	}
	out := make([]types.NodeConfig, 0, len(only))
	for _, n := range nodes {
		if want[n.Name] {
			out = append(out, n)
			delete(want, n.Name)
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, errors.Errorf("unknown node(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func printScan(w io.Writer, statuses []types.NodeStatus, policy ranking.Policy, verbose bool) error {
	best := make(map[string]bool)
	for _, n := range policy.Best(statuses) {
		best[n.Name] = true
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tSCORE\tSTATE\tOK\tFAIL\tBEST")
	ranked := policy.Rank(statuses).All
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	for _, n := range ranked {
		mark := ""
		if best[n.Name] {
			mark = "*"
		}
		st, _ := findStatus(statuses, n.Name)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%s\n", n.Name, n.Score, st.State, n.Success, n.Fail, mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !verbose {
		return nil
	}
	for _, st := range statuses {
		fmt.Fprintf(w, "\n%s (%s)\n", st.Name, st.Endpoint)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, r := range st.Results {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.Name, r.Kind, r.Outcome, r.Error)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func findStatus(statuses []types.NodeStatus, name string) (types.NodeStatus, bool) {
	for _, s := range statuses {
		if s.Name == name {
			return s, true
		}
	}
	return types.NodeStatus{}, false
}
