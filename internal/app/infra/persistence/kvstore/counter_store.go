package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"pickup/internal/app/domains/entity/etcounter"
	"pickup/internal/app/domains/repo/rpcounter"
	"pickup/internal/app/infra/persistence/document"
)

var _ rpcounter.CounterRepository = (*CounterStore)(nil)

// CounterStore implements rpcounter.CounterRepository on the orderCounter key.
type CounterStore struct {
	*Store
}

func (s *CounterStore) Update(ctx context.Context, fn rpcounter.MutateFunc) (*etcounter.SequenceCounter, error) {
	var counter *etcounter.SequenceCounter
	err := s.write(ctx, KeyCounter, func(current []byte) ([]byte, error) {
		c, err := decodeCounter(current)
		if err != nil {
			return nil, err
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		c.Version++
		counter = c
		return json.Marshal(document.FromCounter(c))
	})
	if err != nil {
		return nil, err
	}
	return counter, nil
}

func (s *CounterStore) Get(ctx context.Context) (*etcounter.SequenceCounter, error) {
	raw, err := s.read(ctx, KeyCounter)
	if err != nil {
		return nil, err
	}
	c, err := decodeCounter(raw)
	if err != nil {
		return nil, ioError("decode counter", err)
	}
	return c, nil
}

func decodeCounter(raw []byte) (*etcounter.SequenceCounter, error) {
	if len(raw) == 0 {
		return &etcounter.SequenceCounter{}, nil
	}
	var doc document.Counter
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode counter: %w", err)
	}
	return doc.ToCounter(), nil
}
