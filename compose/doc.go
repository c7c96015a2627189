/*
Package compose synthesizes aggregate replicated data types out of named
sub-components. Given a schema, an ordered list of fields each satisfying
both replication contracts of package crdt, it builds aggregates that
satisfy the same two contracts again, so a synthesized aggregate can in
turn serve as the field of a larger one.

Every aggregate carries exactly one embedded vector clock used solely to
deduplicate aggregate-level operations: an operation bundles the updates
for any subset of the fields under a single dot, and each replica applies
a given dot exactly once no matter how often or in which order the
transport delivers it. Strict causal or FIFO delivery is not required.

Field order is the order of declaration in the schema. It governs the
operation layout, the short-circuit order of validation, the merge order
and the wire layout, making all of them reproducible across replicas.

As everywhere in lattice, synchronization of concurrent access to one
in-memory aggregate is the caller's job.
*/
package compose
