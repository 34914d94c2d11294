package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/synaptica-ai/premium-estimator/pkg/common/models"
	"github.com/synaptica-ai/premium-estimator/pkg/features"
	"github.com/synaptica-ai/premium-estimator/pkg/form"
	"github.com/synaptica-ai/premium-estimator/pkg/serving"
	"github.com/synaptica-ai/premium-estimator/pkg/serving/predictor"
)

func newPredictCmd(opts *options, strictDefault bool) *cobra.Command {
	// Flag names come from the embedded catalog, whose keys are the fixed
	// input fields. Defaults and bounds come from the --catalog in effect.
	fields := form.Default().Fields
	ints := map[string]*int{}
	strs := map[string]*string{}
	var explain, strict bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the premium for one applicant.",
		Long: `Predict the annual health insurance premium for a single applicant.

Every form field has a flag; unset flags take the default of the active
form catalog (--catalog), and --strict also enforces its integer bounds.
Use --explain to print the encoded feature row before and after scaling.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog(opts)
			if err != nil {
				return err
			}
			input, err := collectInput(cmd, catalog, ints, strs, strict)
			if err != nil {
				return err
			}

			bundle, err := predictor.Load(opts.modelPath, opts.scalerPath)
			if err != nil {
				return err
			}
			engine := predictor.New(bundle)
			service := serving.NewService(engine, serving.Options{
				StrictValidation: strict,
				Locale:           opts.locale,
			})

			resp, err := service.Predict(cmd.Context(), models.PredictionRequest{Input: input})
			if err != nil {
				return err
			}
			cmd.Printf("Predicted Health Insurance Cost: %s\n", resp.Formatted)
			cmd.Printf("Model: %s\n", resp.ModelVersion)

			if !explain {
				return nil
			}
			rec, err := features.ParseRecord(input)
			if err != nil {
				return err
			}
			explanation, err := engine.Explain(rec)
			if err != nil {
				return err
			}
			return writeExplanation(cmd, explanation)
		},
	}

	for _, f := range fields {
		name := flagName(f.Key)
		switch f.Kind {
		case form.KindInteger:
			v := new(int)
			cmd.Flags().IntVar(v, name, *f.Min, fmt.Sprintf("%s (%d-%d)", f.Key, *f.Min, *f.Max))
			ints[f.Key] = v
		case form.KindSelect:
			v := new(string)
			cmd.Flags().StringVar(v, name, f.Options[0], fmt.Sprintf("%s %v", f.Key, f.Options))
			strs[f.Key] = v
		}
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print raw and scaled feature rows")
	cmd.Flags().BoolVar(&strict, "strict", strictDefault, "reject values outside the form's domains")
	return cmd
}

// collectInput starts from the flag values, replaces those the user did not
// set with the catalog's defaults, and, when strict, checks the catalog's
// integer bounds. Catalogs may cover only some fields.
func collectInput(cmd *cobra.Command, catalog form.Catalog, ints map[string]*int, strs map[string]*string, strict bool) (map[string]interface{}, error) {
	input := make(map[string]interface{}, len(ints)+len(strs))
	for key, v := range ints {
		input[key] = *v
	}
	for key, v := range strs {
		input[key] = *v
	}
	for key, def := range catalog.Defaults() {
		if _, known := input[key]; known && !cmd.Flags().Changed(flagName(key)) {
			input[key] = def
		}
	}
	if !strict {
		return input, nil
	}
	for _, f := range catalog.Fields {
		if f.Kind != form.KindInteger {
			continue
		}
		if v, ok := input[f.Key].(int); ok && (v < *f.Min || v > *f.Max) {
			return nil, fmt.Errorf("--%s: %d not in [%d, %d]", flagName(f.Key), v, *f.Min, *f.Max)
		}
	}
	return input, nil
}

func writeExplanation(cmd *cobra.Command, e predictor.Explanation) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	defer func() { _ = table.Close() }()

	table.Header([]string{"Feature", "Raw", "Scaled"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, features.NumColumns)
	for i, name := range features.Columns {
		data = append(data, []string{
			name,
			strconv.FormatFloat(e.Raw[i], 'f', -1, 64),
			strconv.FormatFloat(e.Scaled[i], 'f', 6, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
