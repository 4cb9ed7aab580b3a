package core

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/rs/zerolog"
)

const verifyInstructions = "Use the Aleo Explorer to verify this transaction on testnet"

var _ service.ReceiptService = &receiptService{}

type receiptService struct {
	generationStorage  service.GenerationStorage
	transactionStorage service.TransactionStorage
	ledger             *ledger.Ledger
	metrics            *Metrics
	explorerURL        string
	now                func() time.Time
	log                zerolog.Logger
}

// ExportReceipt assembles the receipt from what is stored and then records
// the export. The receipt does not list its own export transaction.
func (s *receiptService) ExportReceipt(ctx context.Context, generationID uuid.UUID) (*service.ExportedReceipt, error) {
	const op errs.Op = "receiptService.ExportReceipt"

	joined, err := s.generationStorage.GetGenerationWithJoins(ctx, generationID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	receipt := s.assemble(joined)

	tx, err := s.ledger.Execute(ledger.TxTypeExport,
		ledger.Args{"synth_commitment": joined.Generation.SynthCommitment},
		ledger.Args{"receipt_id": receipt.ReceiptID},
	)
	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	_, err = s.transactionStorage.AppendTransaction(ctx, service.NewTransaction{
		DatasetID:    &joined.Dataset.ID,
		GenerationID: &joined.Generation.ID,
		UserAddress:  joined.Generation.UserAddress,
		Record:       *tx,
	})
	if err != nil {
		return nil, errs.E(op, err)
	}

	s.metrics.Exports.Inc()

	s.log.Info().
		Str("generation_id", generationID.String()).
		Str("receipt_id", receipt.ReceiptID).
		Str("tx_id", tx.TxID).
		Msg("receipt exported")

	return &service.ExportedReceipt{
		Receipt:    receipt,
		ExportTxID: tx.TxID,
		Filename:   receiptFilename(joined.Dataset.Filename, generationID),
	}, nil
}

func (s *receiptService) assemble(joined *service.GenerationWithJoins) *service.Receipt {
	gen := joined.Generation
	ds := joined.Dataset

	receipt := &service.Receipt{
		ReceiptID:   "receipt_" + gen.ID.String()[:8],
		Timestamp:   s.now().UTC(),
		AleoNetwork: s.ledger.Network(),
		ProgramID:   s.ledger.ProgramID(),
		Dataset: service.ReceiptDataset{
			ID:           ds.ID,
			Filename:     ds.Filename,
			OriginalHash: ds.OriginalCommitment,
			ColumnCount:  ds.ColumnCount,
			RowCount:     ds.RowCount,
			Type:         ds.DatasetType,
		},
		Generation: service.ReceiptGeneration{
			ID:               gen.ID,
			RowsGenerated:    gen.RowsGenerated,
			ColumnsIncluded:  gen.ColumnsIncluded,
			SensitiveRemoved: gen.SensitiveRemoved,
			OutputFormat:     gen.OutputFormat,
			QualityMode:      gen.QualityMode,
			QualityScore:     gen.QualityScore,
		},
		PrivacyProof: service.ReceiptPrivacyProof{
			SynthCommitment: gen.SynthCommitment,
			ProofHash:       gen.ProofHash,
			PrivacyVerified: gen.PrivacyVerified,
			SynthReady:      gen.SynthReady,
			AleoVerified:    gen.Verified,
		},
		Transactions: make([]service.ReceiptTransaction, 0, len(joined.Transactions)),
		Verification: service.ReceiptVerification{
			CanVerify:    gen.TxID != "",
			VerifyURL:    ledger.ExplorerURL(s.explorerURL, gen.TxID),
			Instructions: verifyInstructions,
		},
	}

	if joined.Proof != nil {
		receipt.PrivacyProof.DatasetCommitment = joined.Proof.DatasetCommitment
		receipt.PrivacyProof.ParamsHash = joined.Proof.ParamsHash
		receipt.PrivacyProof.AleoVerified = receipt.PrivacyProof.AleoVerified || joined.Proof.Verified
	}

	for _, tx := range joined.Transactions {
		receipt.Transactions = append(receipt.Transactions, service.ReceiptTransaction{
			TxID:        tx.TxID,
			Type:        string(tx.Type),
			Function:    tx.FunctionName,
			Status:      tx.Status,
			BlockHeight: tx.BlockHeight,
			ConfirmedAt: tx.ConfirmedAt,
		})
	}

	return receipt
}

func receiptFilename(datasetFilename string, generationID uuid.UUID) string {
	base := strings.TrimSuffix(datasetFilename, path.Ext(datasetFilename))

	name := slug.Make(base)
	if name == "" {
		name = "dataset"
	}

	return fmt.Sprintf("%s-receipt-%s.json", name, generationID.String()[:8])
}

func NewReceiptService(
	generationStorage service.GenerationStorage,
	transactionStorage service.TransactionStorage,
	ldg *ledger.Ledger,
	metrics *Metrics,
	opts Options,
	log zerolog.Logger,
) *receiptService {
	opts = opts.withDefaults()

	return &receiptService{
		generationStorage:  generationStorage,
		transactionStorage: transactionStorage,
		ledger:             ldg,
		metrics:            metrics,
		explorerURL:        opts.ExplorerURL,
		now:                opts.Clock,
		log:                log.With().Str("service", "receipt").Logger(),
	}
}
