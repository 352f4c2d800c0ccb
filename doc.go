// Package depcache implements a store-agnostic caching decorator with key
// normalization, default-TTL shaping, and dependency-based invalidation.
// A cached value can be bound to a Dependency snapshot at write time; once
// the dependency reports a change, the value reads as absent.
//
// Components:
//   - Store: byte store with TTL (e.g. Redis, BigCache, Ristretto, memory).
//   - Codec[V]: (de)serializes V <-> []byte.
//   - Dependency: snapshots external state (file hash, tag versions,
//     composites) and detects change on read.
//
// Keys:
//
//	<prefix><key>     - short alphanumeric raw keys, stored readable
//	<prefix><md5hex>  - everything else, collapsed to a fixed digest
//
// Invalidation pattern:
//
//	d := dependency.NewTagDependency("users")
//	_, _ = cache.Set(ctx, "user:7", u, 0, d)      // snapshot embedded
//	_ = dependency.InvalidateTags(ctx, kv, "users") // all tagged entries miss
package depcache
