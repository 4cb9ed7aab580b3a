package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/ledger"
	"github.com/navikt/synthproof/pkg/service"
	"github.com/navikt/synthproof/pkg/synth"
	"github.com/rs/zerolog"
)

var _ service.GenerationService = &generationService{}

// Stage is a step of a generation run. Runs move through the stages in
// order and end in StagePersisted or StageFailed.
type Stage string

const (
	StageClassifying  Stage = "classifying"
	StageSynthesizing Stage = "synthesizing"
	StageFiltering    Stage = "filtering"
	StageCommitting   Stage = "committing"
	StagePersisting   Stage = "persisting"
	StagePersisted    Stage = "persisted"
	StageFailed       Stage = "failed"
)

// Secondary writes, reported as partial failures.
const (
	StageStoreProof       = "store_proof"
	StageStoreTransaction = "store_transaction"
	StageUpdateDataset    = "update_dataset_status"
)

type generationService struct {
	datasetStorage     service.DatasetStorage
	generationStorage  service.GenerationStorage
	proofStorage       service.ProofStorage
	transactionStorage service.TransactionStorage

	engine      *commitment.Engine
	ledger      *ledger.Ledger
	metrics     *Metrics
	emailDomain string
	newRand     func() synth.Rand
	now         func() time.Time
	log         zerolog.Logger
}

func (s *generationService) Generate(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error) {
	const op errs.Op = "generationService.Generate"

	if err := req.Validate(); err != nil {
		s.metrics.Generations.WithLabelValues(string(StageFailed)).Inc()
		return nil, errs.E(errs.Validation, op, err)
	}

	ds, err := s.datasetStorage.GetDataset(ctx, req.DatasetID)
	if err != nil {
		s.metrics.Generations.WithLabelValues(string(StageFailed)).Inc()
		return nil, errs.E(op, err)
	}

	if req.OriginalDataHash != "" && s.engine.DatasetCommitment(req.OriginalDataHash) != ds.OriginalCommitment {
		s.metrics.Generations.WithLabelValues(string(StageFailed)).Inc()
		return nil, errs.E(errs.Validation, op, errs.Parameter("originalDataHash"), errs.Str("original data hash does not match the registered dataset"))
	}

	run := &generationRun{
		svc:     s,
		req:     requestWithDefaults(req),
		dataset: ds,
		rng:     s.newRand(),
		stage:   StageClassifying,
		log: s.log.With().
			Str("dataset_id", ds.ID.String()).
			Int("rows", req.SyntheticRows).
			Logger(),
	}

	result, err := run.execute(ctx)
	if err != nil {
		s.metrics.Generations.WithLabelValues(string(StageFailed)).Inc()
		return nil, errs.E(op, err)
	}

	s.metrics.Generations.WithLabelValues(string(StagePersisted)).Inc()

	return result, nil
}

func (s *generationService) GetGeneration(ctx context.Context, id uuid.UUID) (*service.Generation, error) {
	const op errs.Op = "generationService.GetGeneration"

	gen, err := s.generationStorage.GetGeneration(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return gen, nil
}

func (s *generationService) GetSyntheticData(ctx context.Context, id uuid.UUID, format service.OutputFormat) (*service.SyntheticData, error) {
	const op errs.Op = "generationService.GetSyntheticData"

	gen, err := s.generationStorage.GetGeneration(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	if format == "" {
		format = gen.OutputFormat
	}

	data := &service.SyntheticData{
		Format:   format,
		Filename: fmt.Sprintf("synthetic_%s.%s", gen.ID.String()[:8], format),
	}

	switch format {
	case service.OutputFormatCSV:
		data.ContentType = "text/csv"
		data.Content, err = gen.SyntheticData.CSV()
	case service.OutputFormatJSON:
		data.ContentType = "application/json"
		data.Content, err = json.MarshalIndent(gen.SyntheticData, "", "  ")
	default:
		return nil, errs.E(errs.Validation, op, errs.Parameter("format"), fmt.Errorf("unsupported output format %q", format))
	}

	if err != nil {
		return nil, errs.E(errs.Internal, op, err)
	}

	return data, nil
}

func requestWithDefaults(req service.GenerateRequest) service.GenerateRequest {
	if req.OutputFormat == "" {
		req.OutputFormat = service.OutputFormatCSV
	}

	if req.QualityMode == "" {
		req.QualityMode = service.QualityModeBalanced
	}

	return req
}

// demoAddress stands in for a wallet address when the caller has none.
func demoAddress(at time.Time) string {
	return "demo_" + strconv.FormatInt(at.UnixMilli(), 16)
}

// generationRun holds the state of one run. It is never shared between
// goroutines.
type generationRun struct {
	svc     *generationService
	req     service.GenerateRequest
	dataset *service.Dataset
	rng     synth.Rand
	stage   Stage
	log     zerolog.Logger

	columns  []synth.Column
	table    synth.Table
	filtered synth.Filtered

	qualityScore    int
	synthCommitment string
	paramsHash      string
	proofHash       string
	provedAt        time.Time
	tx              *ledger.Record
}

func (r *generationRun) op() errs.Op {
	return errs.Op("generationService.Generate." + string(r.stage))
}

func (r *generationRun) enter(stage Stage) func() {
	r.stage = stage
	started := r.svc.now()

	r.log.Debug().Str("stage", string(stage)).Msg("entering stage")

	return func() {
		r.svc.metrics.StageDuration.WithLabelValues(string(stage)).Observe(r.svc.now().Sub(started).Seconds())
	}
}

func (r *generationRun) fail(err error) error {
	failedIn := r.stage
	r.stage = StageFailed

	r.log.Info().Err(err).Str("stage", string(failedIn)).Msg("generation failed")

	return err
}

func (r *generationRun) execute(ctx context.Context) (*service.GenerateResult, error) {
	if err := r.classify(); err != nil {
		return nil, r.fail(err)
	}

	r.synthesize()
	r.filter()

	if err := r.commit(); err != nil {
		return nil, r.fail(err)
	}

	gen, err := r.persist(ctx)
	if err != nil {
		return nil, r.fail(err)
	}

	partial := r.persistSecondary(ctx, gen)

	r.log.Info().
		Str("generation_id", gen.ID.String()).
		Str("tx_id", gen.TxID).
		Int("partial_failures", len(partial)).
		Msg("generation persisted")

	return &service.GenerateResult{
		GenerationID:      gen.ID,
		SyntheticData:     r.filtered.Table,
		QualityScore:      r.qualityScore,
		AleoTxID:          r.tx.TxID,
		ProofHash:         r.proofHash,
		SynthCommitment:   r.synthCommitment,
		DatasetCommitment: r.dataset.OriginalCommitment,
		ColumnsIncluded:   r.filtered.ColumnsIncluded,
		SensitiveRemoved:  r.filtered.SensitiveRemoved,
		PartialFailures:   partial,
	}, nil
}

func (r *generationRun) classify() error {
	defer r.enter(StageClassifying)()

	if len(r.req.Columns) == 0 {
		r.columns = synth.ClassifyOrFallback(r.req.Headers)
		return nil
	}

	r.columns = make([]synth.Column, len(r.req.Columns))

	for i, col := range r.req.Columns {
		if col.Kind == "" {
			col.Kind = synth.KindOf(col.Name)
		}

		if !col.Kind.Valid() {
			return errs.E(errs.Validation, r.op(), errs.Parameter("columns"), fmt.Errorf("column %q has unknown type %q", col.Name, col.Kind))
		}

		r.columns[i] = col
	}

	return nil
}

func (r *generationRun) synthesize() {
	defer r.enter(StageSynthesizing)()

	s := synth.NewSynthesizer(
		synth.WithRand(r.rng),
		synth.WithEmailDomain(r.svc.emailDomain),
	)

	r.table = s.Table(r.columns, r.req.SyntheticRows)
}

func (r *generationRun) filter() {
	defer r.enter(StageFiltering)()

	r.filtered = synth.ApplyPrivacy(r.table, r.columns, synth.PrivacyOptions{
		HideSensitive:     r.req.HideSensitive,
		PrivacySafeRanges: r.req.PrivacySafeRanges,
	})
}

func (r *generationRun) commit() error {
	defer r.enter(StageCommitting)()

	r.qualityScore = r.req.QualityMode.BaseScore() + r.rng.IntN(5)

	var err error

	r.synthCommitment, err = r.svc.engine.SynthCommitment(r.filtered.Table)
	if err != nil {
		return errs.E(errs.Internal, r.op(), err)
	}

	r.paramsHash = r.svc.engine.ParamsHash(r.req.SyntheticRows, string(r.req.QualityMode), string(r.req.OutputFormat))
	r.proofHash, r.provedAt = r.svc.engine.ProofHash(r.synthCommitment, r.paramsHash)

	r.tx, err = r.svc.ledger.Execute(ledger.TxTypeGenerate,
		ledger.Args{
			"commitment": r.dataset.OriginalCommitment,
			"rows":       r.req.SyntheticRows,
			"quality":    string(r.req.QualityMode),
		},
		ledger.Args{
			"synth_commitment": r.synthCommitment,
			"quality_score":    r.qualityScore,
		},
	)
	if err != nil {
		return errs.E(errs.Internal, r.op(), err)
	}

	return nil
}

func (r *generationRun) userAddress() string {
	if r.req.UserAddress != "" {
		return r.req.UserAddress
	}

	if r.dataset.UserAddress != "" {
		return r.dataset.UserAddress
	}

	return demoAddress(r.provedAt)
}

// persist writes the generation record. Nothing is written before this
// point, so a failure here leaves no trace of the run.
func (r *generationRun) persist(ctx context.Context) (*service.Generation, error) {
	defer r.enter(StagePersisting)()

	gen, err := r.svc.generationStorage.CreateGeneration(ctx, service.NewGeneration{
		DatasetID:        r.dataset.ID,
		UserAddress:      r.userAddress(),
		SyntheticData:    r.filtered.Table,
		QualityScore:     r.qualityScore,
		RowsGenerated:    r.req.SyntheticRows,
		ColumnsIncluded:  r.filtered.ColumnsIncluded,
		SensitiveRemoved: r.filtered.SensitiveRemoved,
		OutputFormat:     r.req.OutputFormat,
		QualityMode:      r.req.QualityMode,
		SynthCommitment:  r.synthCommitment,
		ProofHash:        r.proofHash,
		TxID:             r.tx.TxID,
		PrivacyVerified:  true,
		SynthReady:       true,
	})
	if err != nil {
		return nil, errs.E(r.op(), errs.Parameter("dataset_id"), err)
	}

	r.stage = StagePersisted

	return gen, nil
}

// persistSecondary writes the proof, the ledger transaction and the dataset
// status. These writes are independent and best effort: a failure is logged
// and reported, and the generation stays stored.
func (r *generationRun) persistSecondary(ctx context.Context, gen *service.Generation) []service.PartialFailure {
	partial := []service.PartialFailure{}

	report := func(stage string, err error) {
		r.svc.metrics.PartialFailures.WithLabelValues(stage).Inc()
		r.log.Warn().
			Err(err).
			Str("generation_id", gen.ID.String()).
			Str("stage", stage).
			Strs("op_stack", errs.OpStack(err)).
			Msg("secondary write failed")

		partial = append(partial, service.PartialFailure{Stage: stage, Error: err.Error()})
	}

	_, err := r.svc.proofStorage.CreateProof(ctx, service.NewProof{
		GenerationID:      gen.ID,
		UserAddress:       gen.UserAddress,
		DatasetCommitment: r.dataset.OriginalCommitment,
		SynthCommitment:   r.synthCommitment,
		ParamsHash:        r.paramsHash,
		ProofHash:         r.proofHash,
		QualityScore:      r.qualityScore,
		ReceiptData: &service.ReceiptData{
			DatasetID: r.dataset.ID,
			Timestamp: r.provedAt,
			Params: service.ProofParams{
				Rows:    r.req.SyntheticRows,
				Format:  r.req.OutputFormat,
				Quality: r.req.QualityMode,
			},
			AleoNetwork: r.svc.ledger.Network(),
			ProgramID:   r.svc.ledger.ProgramID(),
		},
	})
	if err != nil {
		report(StageStoreProof, err)
	}

	_, err = r.svc.transactionStorage.AppendTransaction(ctx, service.NewTransaction{
		DatasetID:    &r.dataset.ID,
		GenerationID: &gen.ID,
		UserAddress:  gen.UserAddress,
		Record:       *r.tx,
	})
	if err != nil {
		report(StageStoreTransaction, err)
	}

	err = r.svc.datasetStorage.UpdateDatasetStatus(ctx, r.dataset.ID, service.DatasetStatusGenerated)
	if err != nil {
		report(StageUpdateDataset, err)
	}

	return partial
}

func NewGenerationService(
	datasetStorage service.DatasetStorage,
	generationStorage service.GenerationStorage,
	proofStorage service.ProofStorage,
	transactionStorage service.TransactionStorage,
	engine *commitment.Engine,
	ldg *ledger.Ledger,
	metrics *Metrics,
	opts Options,
	log zerolog.Logger,
) *generationService {
	opts = opts.withDefaults()

	return &generationService{
		datasetStorage:     datasetStorage,
		generationStorage:  generationStorage,
		proofStorage:       proofStorage,
		transactionStorage: transactionStorage,
		engine:             engine,
		ledger:             ldg,
		metrics:            metrics,
		emailDomain:        opts.EmailDomain,
		newRand:            opts.NewRand,
		now:                opts.Clock,
		log:                log.With().Str("service", "generation").Logger(),
	}
}
