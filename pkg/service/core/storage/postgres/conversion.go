package postgres

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Converter[O any] interface {
	To() (O, error)
}

func From[I Converter[O], O any](i I) (O, error) {
	return i.To()
}

func uuidPtrToNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullUUIDToUUIDPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}

	return &id.UUID
}

func toNullRawMessage(v any) (pqtype.NullRawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}

	if string(data) == "null" {
		return pqtype.NullRawMessage{}, nil
	}

	return pqtype.NullRawMessage{RawMessage: data, Valid: true}, nil
}

func fromNullRawMessage[T any](raw pqtype.NullRawMessage) (*T, error) {
	if !raw.Valid || len(raw.RawMessage) == 0 {
		return nil, nil
	}

	v := new(T)
	if err := json.Unmarshal(raw.RawMessage, v); err != nil {
		return nil, err
	}

	return v, nil
}
