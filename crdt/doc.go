/*
Package crdt defines the two replication contracts every conflict-free
replicated data type in lattice satisfies and provides the causal leaf
primitives (Dot, VClock) plus a small family of ready-made replicated
types (GCounter, PNCounter, GSet, LWWRegister, ORSet) built against them.

CAUTION! Consider these two requirements:
* Prepare functions (Inc, Add, Set, ...) only construct the operation to
  broadcast, they do not mutate local state. An update takes effect on the
  local replica the same way it does on every remote one: through Apply.
* Access to the types this package provides is expected to be synchronized
  explicitly by some outside measures, e.g. by wrapping calls to this package
  with a mutex lock if concurrent access is possible. This package does not(!)
  synchronize access by itself.

The implementations are practical derivations from the specifications of
state-based and operation-based CRDTs by Shapiro, Preguiça, Baquero and
Zawirski, available under: https://hal.inria.fr/inria-00555588/document
*/
package crdt
