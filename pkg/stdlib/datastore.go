// datastore.go - datastore(namespace), grounded on
// builtin_datastore.go's namespaced KV shape but persisted to Postgres
// (jackc/pgx/v5 + pgxpool) instead of an optional JSON file, per
// SPEC_FULL §4B. Every method is stored on the returned object as an
// InstanceNative own field; CheckWrapFunction binds it to the object
// each time a script reads it.
package stdlib

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vela-lang/vela/pkg/value"
)

// Datastore wraps a pgxpool.Pool and exposes namespace-scoped KV
// operations as InstanceNative closures, following builtin_datastore.go's
// per-namespace method set (set/get/increment/push/delete/keys), plus
// clear.
type Datastore struct {
	pool *pgxpool.Pool
}

// NewDatastore connects to dsn and ensures the backing table exists.
func NewDatastore(ctx context.Context, dsn string) (*Datastore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("datastore: connect: %w", err)
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS vela_datastore (
			namespace TEXT NOT NULL,
			key       TEXT NOT NULL,
			value     JSONB NOT NULL,
			PRIMARY KEY (namespace, key)
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("datastore: migrate: %w", err)
	}
	return &Datastore{pool: pool}, nil
}

func (d *Datastore) Close() {
	d.pool.Close()
}

func (d *Datastore) set(ctx context.Context, namespace, key string, v value.Value) error {
	encoded, err := valueToJSON(v)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("datastore: encode: %w", err)
	}
	_, err = d.pool.Exec(ctx, `
		INSERT INTO vela_datastore (namespace, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value`,
		namespace, key, buf)
	return err
}

func (d *Datastore) get(ctx context.Context, namespace, key string) (value.Value, error) {
	var buf []byte
	err := d.pool.QueryRow(ctx, `SELECT value FROM vela_datastore WHERE namespace = $1 AND key = $2`, namespace, key).Scan(&buf)
	if err != nil {
		return value.Undefined(), nil
	}
	var decoded any
	if err := json.Unmarshal(buf, &decoded); err != nil {
		return value.Undefined(), fmt.Errorf("datastore: decode: %w", err)
	}
	return jsonToValue(decoded), nil
}

func (d *Datastore) delete(ctx context.Context, namespace, key string) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM vela_datastore WHERE namespace = $1 AND key = $2`, namespace, key)
	return err
}

func (d *Datastore) clear(ctx context.Context, namespace string) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM vela_datastore WHERE namespace = $1`, namespace)
	return err
}

func (d *Datastore) keys(ctx context.Context, namespace string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `SELECT key FROM vela_datastore WHERE namespace = $1 ORDER BY key`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// RegisterDatastore attaches the datastore(namespace) global in env.
// The returned Object owns InstanceNative methods, all exercising the
// Indexer's auto-bind path (§4.5) the first time a script reads them.
func (d *Datastore) RegisterDatastore(env Globals) {
	env.Define("datastore", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		if len(args) == 0 || !args[0].IsString() {
			return value.Undefined(), fmt.Errorf("datastore() requires a namespace string argument")
		}
		namespace := args[0].Str
		store := value.NewObject()

		bind := func(name string, fn value.InstanceNativeFunc) {
			_ = value.Set(store, value.String(name), value.NewInstanceNativeFunction(fn))
		}

		bind("set", func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			if len(args) < 2 || !args[0].IsString() {
				return value.Undefined(), fmt.Errorf("set() requires a key (string) and value argument")
			}
			return value.Undefined(), d.set(context.Background(), namespace, args[0].Str, args[1])
		})
		bind("get", func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			if len(args) < 1 || !args[0].IsString() {
				return value.Undefined(), fmt.Errorf("get() requires a key (string) argument")
			}
			return d.get(context.Background(), namespace, args[0].Str)
		})
		bind("increment", func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			if len(args) < 2 || !args[0].IsString() || !args[1].IsNumber() {
				return value.Undefined(), fmt.Errorf("increment() requires a key (string) and delta (number) argument")
			}
			cur, err := d.get(context.Background(), namespace, args[0].Str)
			if err != nil {
				return value.Undefined(), err
			}
			next := value.Number(0)
			if cur.IsNumber() {
				next = value.Number(cur.Num + args[1].Num)
			} else {
				next = value.Number(args[1].Num)
			}
			if err := d.set(context.Background(), namespace, args[0].Str, next); err != nil {
				return value.Undefined(), err
			}
			return next, nil
		})
		bind("push", func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			if len(args) < 2 || !args[0].IsString() {
				return value.Undefined(), fmt.Errorf("push() requires a key (string) and item argument")
			}
			cur, err := d.get(context.Background(), namespace, args[0].Str)
			if err != nil {
				return value.Undefined(), err
			}
			var elems []value.Value
			if cur.IsArray() {
				elems = append(elems, cur.Arr.Elements...)
			}
			elems = append(elems, args[1])
			next := value.NewArray(elems)
			if err := d.set(context.Background(), namespace, args[0].Str, next); err != nil {
				return value.Undefined(), err
			}
			return next, nil
		})
		bind("delete", func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			if len(args) < 1 || !args[0].IsString() {
				return value.Undefined(), fmt.Errorf("delete() requires a key (string) argument")
			}
			return value.Undefined(), d.delete(context.Background(), namespace, args[0].Str)
		})
		bind("clear", func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			return value.Undefined(), d.clear(context.Background(), namespace)
		})
		bind("keys", func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			keys, err := d.keys(context.Background(), namespace)
			if err != nil {
				return value.Undefined(), err
			}
			elems := make([]value.Value, len(keys))
			for i, k := range keys {
				elems[i] = value.String(k)
			}
			return value.NewArray(elems), nil
		})

		return store, nil
	}))
}
