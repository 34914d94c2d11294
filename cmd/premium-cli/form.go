package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/synaptica-ai/premium-estimator/pkg/form"
)

func newFormCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "List the form fields, their domains and the plan distribution.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog(opts)
			if err != nil {
				return err
			}
			cmd.Println(catalog.Title)
			if err := writeFields(cmd, catalog); err != nil {
				return err
			}
			return writePlans(cmd, catalog)
		},
	}
}

func writeFields(cmd *cobra.Command, catalog form.Catalog) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	defer func() { _ = table.Close() }()

	table.Header([]string{"Field", "Flag", "Domain"})
	var data [][]string
	for _, f := range catalog.Fields {
		domain := strings.Join(f.Options, " | ")
		if f.Kind == form.KindInteger {
			domain = fmt.Sprintf("%d - %d", *f.Min, *f.Max)
		}
		data = append(data, []string{f.Key, "--" + flagName(f.Key), domain})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writePlans(cmd *cobra.Command, catalog form.Catalog) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	defer func() { _ = table.Close() }()

	table.Header([]string{"Plan", "Share %"})
	var data [][]string
	for _, p := range catalog.PlanDistribution {
		data = append(data, []string{p.Plan, strconv.FormatFloat(p.Percent, 'f', 1, 64)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
