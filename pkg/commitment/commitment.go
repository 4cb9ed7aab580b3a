// Package commitment derives the commitments and proof hashes that tie a
// synthetic table to the dataset and parameters it was generated from.
//
// None of the values produced here are secret or binding with the default
// Rolling digester. They are deterministic labels; swap the Digester for
// SHA256 or MiMC where collision resistance matters.
package commitment

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/navikt/synthproof/pkg/synth"
)

const (
	DefaultNamespace = "aleo"

	// CommitmentWidth and ProofWidth are the digest widths in hex characters.
	CommitmentWidth = 32
	ProofWidth      = 48

	datasetTag    = "1dataset"
	commitmentTag = "1commitment"
	proofPrefix   = "proof1"
)

type Engine struct {
	digester  Digester
	namespace string
	now       func() time.Time
}

type Option func(*Engine)

func WithDigester(d Digester) Option {
	return func(e *Engine) {
		e.digester = d
	}
}

func WithNamespace(ns string) Option {
	return func(e *Engine) {
		if ns != "" {
			e.namespace = ns
		}
	}
}

// WithClock sets the time source used to salt proof hashes.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		digester:  Rolling{},
		namespace: DefaultNamespace,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) Digester() Digester {
	return e.digester
}

// Digest exposes the configured digester at commitment width.
func (e *Engine) Digest(input string) string {
	return e.digester.Digest(input, CommitmentWidth)
}

// ContentHash is the hash a client computes over the raw dataset bytes
// before registering it. Only this value is ever sent anywhere.
func (e *Engine) ContentHash(content []byte) string {
	return e.digester.Digest(string(content), CommitmentWidth)
}

// DatasetCommitment commits to the content hash of an original dataset.
func (e *Engine) DatasetCommitment(originalHash string) string {
	return e.namespace + datasetTag + e.digester.Digest(originalHash, CommitmentWidth)
}

// Commit is the generic commitment over an arbitrary string.
func (e *Engine) Commit(input string) string {
	return e.namespace + commitmentTag + e.digester.Digest(input, CommitmentWidth)
}

// SynthCommitment commits to a privacy-filtered synthetic table. The table
// is serialized with sorted column names, so the result depends only on
// the table contents.
func (e *Engine) SynthCommitment(table synth.Table) (string, error) {
	data, err := json.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("serializing synthetic table: %w", err)
	}

	return e.Commit(string(data)), nil
}

// ParamsHash commits to the generation parameters.
func (e *Engine) ParamsHash(rows int, qualityMode, outputFormat string) string {
	return e.Commit(fmt.Sprintf("%d:%s:%s", rows, qualityMode, outputFormat))
}

// ProofHash derives the proof hash for a commitment and parameter hash,
// salted with the current time in milliseconds. Two calls with the same
// arguments at different instants give different hashes; this models the
// freshness nonce of an on-chain proof and is intentional. The instant used
// is returned so it can be recorded alongside the hash.
func (e *Engine) ProofHash(synthCommitment, paramsHash string) (string, time.Time) {
	at := e.now()

	return e.ProofHashAt(synthCommitment, paramsHash, at), at
}

// ProofHashAt is ProofHash with an explicit instant.
func (e *Engine) ProofHashAt(synthCommitment, paramsHash string, at time.Time) string {
	salt := strconv.FormatInt(at.UnixMilli(), 10)

	return proofPrefix + e.digester.Digest(synthCommitment+paramsHash+salt, ProofWidth)
}
