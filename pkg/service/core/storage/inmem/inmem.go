// Package inmem is a process-local content store, used by the offline CLI
// and in tests.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/navikt/synthproof/pkg/errs"
	"github.com/navikt/synthproof/pkg/service"
)

var (
	_ service.DatasetStorage     = &Store{}
	_ service.GenerationStorage  = &Store{}
	_ service.ProofStorage       = &Store{}
	_ service.TransactionStorage = &Store{}
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	datasets     map[uuid.UUID]service.Dataset
	generations  map[uuid.UUID]service.Generation
	proofs       map[uuid.UUID]service.Proof
	transactions []service.TransactionRecord
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		now:         time.Now,
		datasets:    map[uuid.UUID]service.Dataset{},
		generations: map[uuid.UUID]service.Generation{},
		proofs:      map[uuid.UUID]service.Proof{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) CreateDataset(_ context.Context, ds service.NewDataset) (*service.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	dataset := service.Dataset{
		ID:                 uuid.New(),
		UserAddress:        ds.UserAddress,
		OriginalCommitment: ds.OriginalCommitment,
		Filename:           ds.Filename,
		ColumnCount:        ds.ColumnCount,
		RowCount:           ds.RowCount,
		DatasetType:        ds.DatasetType,
		Status:             service.DatasetStatusRegistered,
		Created:            now,
		LastModified:       now,
	}

	s.datasets[dataset.ID] = dataset

	return &dataset, nil
}

func (s *Store) GetDataset(_ context.Context, id uuid.UUID) (*service.Dataset, error) {
	const op errs.Op = "inmem.GetDataset"

	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, errs.E(errs.NotExist, op, errs.Parameter("dataset_id"), fmt.Errorf("dataset %s not found", id))
	}

	return &ds, nil
}

func (s *Store) UpdateDatasetStatus(_ context.Context, id uuid.UUID, status service.DatasetStatus) error {
	const op errs.Op = "inmem.UpdateDatasetStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return errs.E(errs.NotExist, op, errs.Parameter("dataset_id"), fmt.Errorf("dataset %s not found", id))
	}

	ds.Status = status
	ds.LastModified = s.now()
	s.datasets[id] = ds

	return nil
}

func (s *Store) CreateGeneration(_ context.Context, gen service.NewGeneration) (*service.Generation, error) {
	const op errs.Op = "inmem.CreateGeneration"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[gen.DatasetID]; !ok {
		return nil, errs.E(errs.Database, op, errs.Parameter("dataset_id"), fmt.Errorf("dataset %s does not exist", gen.DatasetID))
	}

	g := service.Generation{
		ID:               uuid.New(),
		DatasetID:        gen.DatasetID,
		UserAddress:      gen.UserAddress,
		SyntheticData:    gen.SyntheticData,
		QualityScore:     gen.QualityScore,
		RowsGenerated:    gen.RowsGenerated,
		ColumnsIncluded:  gen.ColumnsIncluded,
		SensitiveRemoved: gen.SensitiveRemoved,
		OutputFormat:     gen.OutputFormat,
		QualityMode:      gen.QualityMode,
		SynthCommitment:  gen.SynthCommitment,
		ProofHash:        gen.ProofHash,
		TxID:             gen.TxID,
		PrivacyVerified:  gen.PrivacyVerified,
		SynthReady:       gen.SynthReady,
		Created:          s.now(),
	}

	s.generations[g.ID] = g

	return &g, nil
}

func (s *Store) GetGeneration(_ context.Context, id uuid.UUID) (*service.Generation, error) {
	const op errs.Op = "inmem.GetGeneration"

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.generations[id]
	if !ok {
		return nil, errs.E(errs.NotExist, op, errs.Parameter("generation_id"), fmt.Errorf("generation %s not found", id))
	}

	return &g, nil
}

func (s *Store) GetGenerationWithJoins(_ context.Context, id uuid.UUID) (*service.GenerationWithJoins, error) {
	const op errs.Op = "inmem.GetGenerationWithJoins"

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.generations[id]
	if !ok {
		return nil, errs.E(errs.NotExist, op, errs.Parameter("generation_id"), fmt.Errorf("generation %s not found", id))
	}

	ds, ok := s.datasets[g.DatasetID]
	if !ok {
		return nil, errs.E(errs.NotExist, op, errs.Parameter("dataset_id"), fmt.Errorf("dataset %s not found", g.DatasetID))
	}

	joins := &service.GenerationWithJoins{
		Generation:   &g,
		Dataset:      &ds,
		Transactions: s.transactionsFor(id),
	}

	if p, ok := s.proofFor(id); ok {
		joins.Proof = &p
	}

	return joins, nil
}

func (s *Store) CreateProof(_ context.Context, proof service.NewProof) (*service.Proof, error) {
	const op errs.Op = "inmem.CreateProof"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.generations[proof.GenerationID]; !ok {
		return nil, errs.E(errs.Database, op, errs.Parameter("generation_id"), fmt.Errorf("generation %s does not exist", proof.GenerationID))
	}

	if _, exists := s.proofFor(proof.GenerationID); exists {
		return nil, errs.E(errs.Exist, op, errs.Parameter("generation_id"), fmt.Errorf("generation %s already has a proof", proof.GenerationID))
	}

	p := service.Proof{
		ID:                uuid.New(),
		GenerationID:      proof.GenerationID,
		UserAddress:       proof.UserAddress,
		DatasetCommitment: proof.DatasetCommitment,
		SynthCommitment:   proof.SynthCommitment,
		ParamsHash:        proof.ParamsHash,
		ProofHash:         proof.ProofHash,
		QualityScore:      proof.QualityScore,
		ReceiptData:       proof.ReceiptData,
		Created:           s.now(),
	}

	s.proofs[p.ID] = p

	return &p, nil
}

func (s *Store) GetProofByGeneration(_ context.Context, generationID uuid.UUID) (*service.Proof, error) {
	const op errs.Op = "inmem.GetProofByGeneration"

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proofFor(generationID)
	if !ok {
		return nil, errs.E(errs.NotExist, op, errs.Parameter("generation_id"), fmt.Errorf("no proof for generation %s", generationID))
	}

	return &p, nil
}

func (s *Store) MarkProofVerified(_ context.Context, proofID, generationID uuid.UUID) error {
	const op errs.Op = "inmem.MarkProofVerified"

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proofs[proofID]
	if !ok || p.GenerationID != generationID {
		return errs.E(errs.NotExist, op, errs.Parameter("proof_id"), fmt.Errorf("proof %s not found for generation %s", proofID, generationID))
	}

	g, ok := s.generations[generationID]
	if !ok {
		return errs.E(errs.NotExist, op, errs.Parameter("generation_id"), fmt.Errorf("generation %s not found", generationID))
	}

	p.Verified = true
	g.Verified = true
	s.proofs[proofID] = p
	s.generations[generationID] = g

	return nil
}

func (s *Store) AppendTransaction(_ context.Context, tx service.NewTransaction) (*service.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := service.TransactionRecord{
		ID:           uuid.New(),
		DatasetID:    tx.DatasetID,
		GenerationID: tx.GenerationID,
		UserAddress:  tx.UserAddress,
		Record:       tx.Record,
		Created:      s.now(),
	}

	s.transactions = append(s.transactions, rec)

	return &rec, nil
}

func (s *Store) ListTransactionsForGeneration(_ context.Context, generationID uuid.UUID) ([]*service.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transactionsFor(generationID), nil
}

// Transactions returns every appended record in insertion order.
func (s *Store) Transactions() []service.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]service.TransactionRecord, len(s.transactions))
	copy(out, s.transactions)

	return out
}

// transactionsFor must be called with the lock held.
func (s *Store) transactionsFor(generationID uuid.UUID) []*service.TransactionRecord {
	var out []*service.TransactionRecord

	for _, tx := range s.transactions {
		if tx.GenerationID != nil && *tx.GenerationID == generationID {
			rec := tx
			out = append(out, &rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created.Before(out[j].Created)
	})

	return out
}

// proofFor must be called with the lock held.
func (s *Store) proofFor(generationID uuid.UUID) (service.Proof, bool) {
	for _, p := range s.proofs {
		if p.GenerationID == generationID {
			return p, true
		}
	}

	return service.Proof{}, false
}
