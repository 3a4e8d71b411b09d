// Package grip provides deterministic, scope-based ownership primitives:
// reference counted strong handles, weak back-references, and an
// exclusively owned growable buffer.
//
// Lifetime is counted, not traced. The last strong handle to drop
// finalizes its value synchronously, at the drop site. Nothing is
// deferred to a collector pass.
//
// Two ownership models, for two different problems:
//   - rc: one value, shared by many handles (Strong, Weak)
//   - buffer: many elements, owned by exactly one container (Buffer)
package grip
