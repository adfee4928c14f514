// crypto.go - hash_password/verify_password/content_hash, new (the
// teacher declares golang.org/x/crypto but never imports it). Distinct
// from the core's internal equality-hash (value.Hash, §4.9): these are
// host-facing utilities, never consulted by the Indexer or fieldMap.
package stdlib

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blake2b"

	"github.com/vela-lang/vela/pkg/value"
)

// RegisterCrypto attaches hash_password/verify_password/content_hash
// as globals in env.
func RegisterCrypto(env Globals) {
	env.Define("hash_password", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		if len(args) == 0 || !args[0].IsString() {
			return value.Undefined(), fmt.Errorf("hash_password() requires a string argument")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0].Str), bcrypt.DefaultCost)
		if err != nil {
			return value.Undefined(), fmt.Errorf("hash_password(): %w", err)
		}
		return value.String(string(hash)), nil
	}))

	env.Define("verify_password", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		if len(args) < 2 || !args[0].IsString() || !args[1].IsString() {
			return value.Undefined(), fmt.Errorf("verify_password() requires (password, hash) string arguments")
		}
		err := bcrypt.CompareHashAndPassword([]byte(args[1].Str), []byte(args[0].Str))
		return value.Bool(err == nil), nil
	}))

	env.Define("content_hash", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Undefined(), fmt.Errorf("content_hash() requires one argument")
		}
		text, err := args[0].Stringify()
		if err != nil {
			return value.Undefined(), err
		}
		sum := blake2b.Sum256([]byte(text))
		return value.String(hex.EncodeToString(sum[:])), nil
	}))
}
