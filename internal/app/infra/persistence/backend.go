// Package persistence opens the configured storage backend behind the repository interfaces.
package persistence

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"pickup/internal/app/domains/repo/rpcounter"
	"pickup/internal/app/domains/repo/rporder"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/infra/persistence/filestore"
	"pickup/internal/app/infra/persistence/kvstore"
	"pickup/internal/app/infra/persistence/mongostore"
	"pickup/internal/app/infra/persistence/sqlstore"
	"pickup/pkg/clock"
)

// Backend kinds.
const (
	KindFile  = "file"
	KindKV    = "kv"
	KindMongo = "mongo"
	KindSQL   = "sql"
)

// Options selects and configures a backend.
type Options struct {
	Kind string

	FileDir string

	// KVDriver is memory or redis. The redis driver uses Redis.
	KVDriver  string
	KVPrefix  string
	Redis     *goredis.Client
	SQL       sqlstore.Config
	Mongo     mongostore.Config
	MongoInit bool // create indexes on open
}

// Backend is one opened storage backend.
type Backend struct {
	Kind     string
	Orders   rporder.OrderRepository
	Payments rppayment.PaymentRepository
	Counter  rpcounter.CounterRepository

	// Watch is set when the backend pushes its own change feed.
	Watch func(ctx context.Context, onChange func(collection string)) error

	onWrite func(document.WriteHook)
	close   func() error
}

// OnWrite registers a hook fired after every successful write through this process.
func (b *Backend) OnWrite(hook document.WriteHook) {
	b.onWrite(hook)
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open opens the backend described by opts.
func Open(ctx context.Context, opts Options, clk clock.Clock) (*Backend, error) {
	switch opts.Kind {
	case KindFile:
		s, err := filestore.Open(opts.FileDir, clk)
		if err != nil {
			return nil, err
		}
		return fromKV(KindFile, s), nil

	case KindKV:
		var kv kvstore.KV
		switch opts.KVDriver {
		case "", "memory":
			kv = kvstore.NewMemoryKV()
		case "redis":
			if opts.Redis == nil {
				return nil, fmt.Errorf("kv driver redis needs a redis client")
			}
			kv = kvstore.NewRedisKV(opts.Redis, opts.KVPrefix)
		default:
			return nil, fmt.Errorf("unsupported kv driver: %q", opts.KVDriver)
		}
		return fromKV(KindKV, kvstore.New(kv, clk)), nil

	case KindSQL:
		db, err := sqlstore.OpenDB(opts.SQL)
		if err != nil {
			return nil, err
		}
		s := sqlstore.New(db, clk)
		return &Backend{
			Kind:     KindSQL,
			Orders:   s.Orders(),
			Payments: s.Payments(),
			Counter:  s.Counter(),
			onWrite:  s.OnWrite,
			close:    s.Close,
		}, nil

	case KindMongo:
		client, err := mongostore.Connect(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(client, opts.Mongo.Database, clk)
		if opts.MongoInit {
			if err := s.EnsureIndexes(ctx); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		return &Backend{
			Kind:     KindMongo,
			Orders:   s.Orders(),
			Payments: s.Payments(),
			Counter:  s.Counter(),
			Watch:    s.Watch,
			onWrite:  s.OnWrite,
			close:    s.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", opts.Kind)
	}
}

func fromKV(kind string, s *kvstore.Store) *Backend {
	return &Backend{
		Kind:     kind,
		Orders:   s.Orders(),
		Payments: s.Payments(),
		Counter:  s.Counter(),
		onWrite:  s.OnWrite,
		close:    s.Close,
	}
}
