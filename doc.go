// Package memocache implements a backend-agnostic cache client and a
// function-memoization combinator on top of a pluggable byte store.
//
// Components:
//   - Provider: byte store with TTL and key scanning (e.g. Redis, Ristretto, BigCache).
//   - Serializer: converts values <-> []byte. codec.Tagged frames every payload
//     with an explicit format byte (JSON for maps, protobuf for messages, raw for
//     []byte, msgpack or CBOR for everything else).
//   - Cache: get/set/exists/delete/delete-by-prefix/keys/expire under one namespace.
//   - Memoize: wraps func(ctx, A) (R, error) and serves repeated calls from the cache.
//
// Keys:
//
//	<namespace>[:<prefix>]:<name>[:<param1>][:<param2>]...
//
// Parameter values are appended in declaration order, never sorted. The ':'
// separator is not escaped, so a parameter value containing ':' can collide
// with a differently-shaped key.
//
// Memoization:
//
//	type lookup struct{ ID int; Lang string }
//	greet := memocache.Memoize(cache, func(ctx context.Context, a lookup) (Greeting, error) {
//	    return db.Greeting(ctx, a.ID, a.Lang)
//	}, memocache.MemoOptions[lookup]{Prefix: "v1", TTL: time.Minute})
//	g, err := greet(ctx, lookup{ID: 1, Lang: "en"}) // key: <ns>:v1:<fn>:1:en
//
// Concurrent misses on the same key each invoke the wrapped function unless
// MemoOptions.SingleFlight is set; SingleFlight only de-duplicates within
// one process.
package memocache
