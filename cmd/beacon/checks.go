package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nodebeacon/beacon/internal/battery"
)

func newChecksCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "Print the configured check battery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			b, err := battery.FromConfig(cfg.Battery)
			if err != nil {
				return err
			}
			return printBattery(cmd.OutOrStdout(), b)
		},
	}
}

func printBattery(w io.Writer, b *battery.Battery) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCHECK\tKIND\tMETHOD\tWEIGHT\tCREDENTIAL\tVALIDATOR")
	for i, s := range b.Specs() {
		validator := s.ValidatorName
		if validator == "" {
			validator = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n", i+1, s.Name, s.Kind, s.Method, s.Weight, s.Credential, validator)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d checks, max score %d\n", b.Len(), b.MaxScore())
	return err
}
