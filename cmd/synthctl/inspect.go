package main

import (
	"fmt"
	"os"

	"github.com/navikt/synthproof/pkg/synth"
	"github.com/spf13/cobra"
)

type inspectReport struct {
	File              string         `json:"file" yaml:"file"`
	ContentHash       string         `json:"contentHash" yaml:"content_hash"`
	DatasetCommitment string         `json:"datasetCommitment" yaml:"dataset_commitment"`
	Headers           []string       `json:"headers" yaml:"headers"`
	Columns           []synth.Column `json:"columns" yaml:"columns"`
	RowCount          int            `json:"rowCount" yaml:"row_count"`
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Classify the columns of a CSV file and print its commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := inspect(opts, args[0])
			if err != nil {
				return err
			}

			return opts.write(cmd.OutOrStdout(), report)
		},
	}
}

func inspect(opts *rootOptions, path string) (*inspectReport, error) {
	engine, err := opts.engine()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	inspection, err := synth.InspectCSV(content)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}

	hash := engine.ContentHash(content)

	return &inspectReport{
		File:              path,
		ContentHash:       hash,
		DatasetCommitment: engine.DatasetCommitment(hash),
		Headers:           inspection.Headers,
		Columns:           inspection.Columns,
		RowCount:          inspection.RowCount,
	}, nil
}
