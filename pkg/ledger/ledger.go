// Package ledger simulates the on-chain program that records every pipeline
// action. Transactions are confirmed immediately; ids and block heights are
// derived from the wall clock.
package ledger

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

const (
	DefaultProgramID = "aleosynth.aleo"
	DefaultNetwork   = "testnet"

	StatusConfirmed = "confirmed"

	digestWidth = 32
)

type TxType string

const (
	TxTypeRegister TxType = "register"
	TxTypeGenerate TxType = "generate"
	TxTypeVerify   TxType = "verify"
	TxTypeExport   TxType = "export"
)

func (t TxType) Valid() bool {
	switch t {
	case TxTypeRegister, TxTypeGenerate, TxTypeVerify, TxTypeExport:
		return true
	}

	return false
}

// FunctionName is the program function invoked for a transaction type.
func (t TxType) FunctionName() string {
	switch t {
	case TxTypeRegister:
		return "register_dataset"
	case TxTypeGenerate:
		return "generate_synth"
	case TxTypeVerify:
		return "verify_synth"
	case TxTypeExport:
		return "export_receipt"
	}

	return string(t)
}

func (t TxType) idPrefix() (string, int) {
	switch t {
	case TxTypeRegister:
		return "at1reg", 12
	case TxTypeVerify:
		return "at1verify", 8
	case TxTypeExport:
		return "at1export", 8
	}

	return "at1", 16
}

// Digester is satisfied by the commitment digesters.
type Digester interface {
	Digest(input string, width int) string
}

type Args map[string]any

type Record struct {
	TxID          string    `json:"txId"`
	Type          TxType    `json:"type"`
	ProgramID     string    `json:"programId"`
	FunctionName  string    `json:"functionName"`
	Inputs        Args      `json:"inputs"`
	Outputs       Args      `json:"outputs"`
	InputsDigest  string    `json:"inputsDigest"`
	OutputsDigest string    `json:"outputsDigest"`
	Status        string    `json:"status"`
	BlockHeight   int64     `json:"blockHeight"`
	ConfirmedAt   time.Time `json:"confirmedAt"`
}

type Ledger struct {
	programID string
	network   string
	digester  Digester
	now       func() time.Time
	entropy   func() string
}

type Option func(*Ledger)

func WithProgramID(id string) Option {
	return func(l *Ledger) {
		if id != "" {
			l.programID = id
		}
	}
}

func WithNetwork(network string) Option {
	return func(l *Ledger) {
		if network != "" {
			l.network = network
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithEntropy replaces the source of the random tx id suffix.
func WithEntropy(fn func() string) Option {
	return func(l *Ledger) {
		l.entropy = fn
	}
}

// hexEncoder renders a UUID as 32 lowercase hex digits so tx ids stay hex.
type hexEncoder struct{}

var _ shortuuid.Encoder = hexEncoder{}

func (hexEncoder) Encode(u uuid.UUID) string {
	return hex.EncodeToString(u[:])
}

func (hexEncoder) Decode(s string) (uuid.UUID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.FromBytes(b)
}

func New(digester Digester, opts ...Option) *Ledger {
	l := &Ledger{
		programID: DefaultProgramID,
		network:   DefaultNetwork,
		digester:  digester,
		now:       time.Now,
		entropy: func() string {
			return shortuuid.NewWithEncoder(hexEncoder{})
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *Ledger) ProgramID() string {
	return l.programID
}

func (l *Ledger) Network() string {
	return l.network
}

// TxID returns a fresh transaction id of the form <prefix><hex millis><random>.
func (l *Ledger) TxID(t TxType, at time.Time) string {
	prefix, n := t.idPrefix()

	suffix := l.entropy()
	for len(suffix) < n {
		suffix += l.entropy()
	}

	return prefix + strconv.FormatInt(at.UnixMilli(), 16) + suffix[:n]
}

// Execute runs a program function and returns its confirmed transaction.
func (l *Ledger) Execute(t TxType, inputs, outputs Args) (*Record, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q", t)
	}

	inDigest, err := l.digestArgs(inputs)
	if err != nil {
		return nil, fmt.Errorf("digesting %s inputs: %w", t, err)
	}

	outDigest, err := l.digestArgs(outputs)
	if err != nil {
		return nil, fmt.Errorf("digesting %s outputs: %w", t, err)
	}

	at := l.now()

	return &Record{
		TxID:          l.TxID(t, at),
		Type:          t,
		ProgramID:     l.programID,
		FunctionName:  t.FunctionName(),
		Inputs:        inputs,
		Outputs:       outputs,
		InputsDigest:  inDigest,
		OutputsDigest: outDigest,
		Status:        StatusConfirmed,
		BlockHeight:   at.Unix(),
		ConfirmedAt:   at,
	}, nil
}

// ExplorerURL links to a transaction on the block explorer.
func ExplorerURL(base, txID string) string {
	return base + "/transaction/" + txID
}

func (l *Ledger) digestArgs(args Args) (string, error) {
	if args == nil {
		args = Args{}
	}

	data, err := json.Marshal(args)
	if err != nil {
		return "", err
	}

	return l.digester.Digest(string(data), digestWidth), nil
}
