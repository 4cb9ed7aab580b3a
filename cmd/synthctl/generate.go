package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/service/core"
	"github.com/navikt/synthproof/pkg/service/core/storage"
	"github.com/navikt/synthproof/pkg/service/core/storage/inmem"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	rows          int
	hideSensitive bool
	ranges        bool
	quality       string
	format        string
	out           string
	receipt       string
	verify        bool
}

type generateReport struct {
	DatasetID         uuid.UUID                `json:"datasetId" yaml:"dataset_id"`
	DatasetCommitment string                   `json:"datasetCommitment" yaml:"dataset_commitment"`
	GenerationID      uuid.UUID                `json:"generationId" yaml:"generation_id"`
	SynthCommitment   string                   `json:"synthCommitment" yaml:"synth_commitment"`
	ProofHash         string                   `json:"proofHash" yaml:"proof_hash"`
	QualityScore      int                      `json:"qualityScore" yaml:"quality_score"`
	ColumnsIncluded   int                      `json:"columnsIncluded" yaml:"columns_included"`
	SensitiveRemoved  int                      `json:"sensitiveRemoved" yaml:"sensitive_removed"`
	Verified          *bool                    `json:"verified,omitempty" yaml:"verified,omitempty"`
	DataFile          string                   `json:"dataFile,omitempty" yaml:"data_file,omitempty"`
	ReceiptFile       string                   `json:"receiptFile,omitempty" yaml:"receipt_file,omitempty"`
	PartialFailures   []service.PartialFailure `json:"partialFailures,omitempty" yaml:"partial_failures,omitempty"`
}

func newGenerateCmd(opts *rootOptions, log zerolog.Logger) *cobra.Command {
	gen := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate FILE",
		Short: "Register a CSV file and produce a committed synthetic replacement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := generate(cmd.Context(), opts, gen, log, args[0])
			if err != nil {
				return err
			}

			return opts.write(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVar(&gen.rows, "rows", 100, "number of synthetic rows")
	cmd.Flags().BoolVar(&gen.hideSensitive, "hide-sensitive", true, "drop sensitive columns from the output")
	cmd.Flags().BoolVar(&gen.ranges, "ranges", true, "replace numeric values with ranges")
	cmd.Flags().StringVar(&gen.quality, "quality", string(service.QualityModeBalanced), "quality mode (fast, balanced, high)")
	cmd.Flags().StringVar(&gen.format, "format", string(service.OutputFormatCSV), "output format of the synthetic data (csv, json)")
	cmd.Flags().StringVar(&gen.out, "out", "", "write the synthetic data to this file")
	cmd.Flags().StringVar(&gen.receipt, "receipt", "", "export the receipt into this directory")
	cmd.Flags().BoolVar(&gen.verify, "verify", false, "verify the generation against its own commitment")

	return cmd
}

func generate(ctx context.Context, opts *rootOptions, gen *generateOptions, log zerolog.Logger, path string) (*generateReport, error) {
	report, err := inspect(opts, path)
	if err != nil {
		return nil, err
	}

	engine, err := opts.engine()
	if err != nil {
		return nil, err
	}

	services := core.NewServices(
		storage.NewInMemoryStores(inmem.New()),
		engine,
		ledger.New(engine.Digester()),
		nil,
		core.NewMetrics(),
		core.Options{},
		log,
	)

	reg, err := services.DatasetService.RegisterDataset(ctx, service.RegisterDatasetDto{
		Filename:     filepath.Base(path),
		OriginalHash: report.ContentHash,
		ColumnCount:  len(report.Headers),
		RowCount:     report.RowCount,
		DatasetType:  "csv",
	})
	if err != nil {
		return nil, fmt.Errorf("registering dataset: %w", err)
	}

	res, err := services.GenerationService.Generate(ctx, service.GenerateRequest{
		DatasetID:         reg.DatasetID,
		Columns:           report.Columns,
		HideSensitive:     gen.hideSensitive,
		PrivacySafeRanges: gen.ranges,
		SyntheticRows:     gen.rows,
		OutputFormat:      service.OutputFormat(gen.format),
		QualityMode:       service.QualityMode(gen.quality),
		OriginalDataHash:  report.ContentHash,
	})
	if err != nil {
		return nil, fmt.Errorf("generating: %w", err)
	}

	out := &generateReport{
		DatasetID:         reg.DatasetID,
		DatasetCommitment: reg.Commitment,
		GenerationID:      res.GenerationID,
		SynthCommitment:   res.SynthCommitment,
		ProofHash:         res.ProofHash,
		QualityScore:      res.QualityScore,
		ColumnsIncluded:   res.ColumnsIncluded,
		SensitiveRemoved:  res.SensitiveRemoved,
		PartialFailures:   res.PartialFailures,
	}

	if gen.out != "" {
		data, err := services.GenerationService.GetSyntheticData(ctx, res.GenerationID, service.OutputFormat(gen.format))
		if err != nil {
			return nil, fmt.Errorf("rendering synthetic data: %w", err)
		}

		err = os.WriteFile(gen.out, data.Content, 0o644)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", gen.out, err)
		}

		out.DataFile = gen.out
	}

	if gen.verify {
		v, err := services.VerificationService.Verify(ctx, res.GenerationID, service.VerifyDto{
			SynthCommitment: res.SynthCommitment,
		})
		if err != nil {
			return nil, fmt.Errorf("verifying: %w", err)
		}

		out.Verified = &v.Verified
	}

	if gen.receipt != "" {
		exported, err := services.ReceiptService.ExportReceipt(ctx, res.GenerationID)
		if err != nil {
			return nil, fmt.Errorf("exporting receipt: %w", err)
		}

		data, err := json.MarshalIndent(exported.Receipt, "", "  ")
		if err != nil {
			return nil, err
		}

		file := filepath.Join(gen.receipt, exported.Filename)

		err = os.WriteFile(file, append(data, '\n'), 0o644)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", file, err)
		}

		out.ReceiptFile = file
	}

	return out, nil
}
