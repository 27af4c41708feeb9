// Package repcache caches encoded representations of API resources and answers
// conditional reads against them. Writes never let a reader observe a stale
// representation once the write has been acknowledged.
//
// Components:
//   - Encoder: record -> descriptive (JSON) or compact (msgpack/CBOR) bytes plus
//     a content-derived version Token (xxhash64), rendered as a strong ETag.
//   - Store: bounded byte Provider (exact LRU by default) holding framed entries,
//     guarded by per-resource generations kept in a GenStore.
//   - Resolver: Fresh / NotModified / NotFound for a read, rebuilding on miss.
//   - Invalidator: evicts every representation of the written resources.
//
// Keys:
//
//	entry:<kind>:<id>:<rep>            - single resource
//	entry:<kind>:<id>:<rep>:<variant>  - list view (variant = canonical params)
//
// Generation pattern:
//
//	g := store.Snapshot(ctx, rk)   // before the load
//	rec := load()
//	store.Put(ctx, ek, entry{Gen: g}) // lands iff current gen == g
//
// Invalidate bumps the generation first. Every kind and variant of the resource
// becomes invalid at that instant; plain entries are deleted afterwards and
// variant entries self-heal on their next read.
package repcache
