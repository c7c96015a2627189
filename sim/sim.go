package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/go-pluto/lattice/compose"
	"github.com/go-pluto/lattice/config"
	"github.com/go-pluto/lattice/crdt"
)

// Structs

// replica is one simulated participant: an aggregate plus the inbox the
// lossy transport delivers encoded operations into.
type replica struct {
	actor string
	agg   *compose.Aggregate[string]
	inbox [][]byte
}

// Simulation drives a set of replicas of one schema against a transport
// that duplicates and reorders deliveries, and checks that they still
// converge. It stands in for the out-of-scope real gossip layer.
type Simulation struct {
	conf     config.Simulation
	logger   log.Logger
	metrics  *Metrics
	rng      *rand.Rand
	replicas []*replica
	tick     uint64
	seq      uint64
}

// words seed the set and register payloads of generated operations.
var words = []string{
	"amber", "basil", "cedar", "dusk", "ember",
	"fjord", "grove", "heath", "iris", "jetty",
}

// Functions

// DefaultSchema declares the aggregate the simulation replicates: one of
// each primitive of package crdt.
func DefaultSchema() (*compose.Schema[string], error) {
	return compose.NewSchema[string](
		compose.Field[crdt.Dot[string]]("hits", crdt.NewGCounter[string]),
		compose.Field[crdt.PNCounterOp[string]]("score", crdt.NewPNCounter[string]),
		compose.Field[crdt.ORSetOp[string]]("tags", crdt.NewORSet[string]),
		compose.Field[crdt.LWWRegisterOp[string]]("note", crdt.NewLWWRegister[string]),
		compose.Field[crdt.GSetOp[string]]("peers", crdt.NewGSet[string]),
	)
}

// New synthesizes the configured number of replicas from DefaultSchema.
func New(logger log.Logger, conf config.Simulation, metrics *Metrics) (*Simulation, error) {

	schema, err := DefaultSchema()
	if err != nil {
		return nil, errors.Wrap(err, "declare simulation schema")
	}

	s := &Simulation{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		rng:     rand.New(rand.NewSource(conf.Seed)),
	}

	for i := 0; i < conf.Replicas; i++ {
		s.replicas = append(s.replicas, &replica{
			actor: fmt.Sprintf("replica-%d", i+1),
			agg:   schema.New(),
		})
	}

	return s, nil
}

// Step advances the simulation one tick: every replica prepares and
// applies one local operation and broadcasts it, deliveries are drained,
// and on the configured cadence replicas exchange full states.
func (s *Simulation) Step() error {

	s.tick++

	for _, r := range s.replicas {
		if err := s.prepare(r); err != nil {
			return err
		}
	}

	s.deliver()

	if s.tick%uint64(s.conf.MergeEvery) == 0 {
		s.gossip()
	}

	if s.Converged() {
		s.metrics.Converged.Set(1)
	} else {
		s.metrics.Converged.Set(0)
	}

	return nil
}

// Run steps the simulation on the configured interval until the context
// is canceled.
func (s *Simulation) Run(ctx context.Context) error {

	ticker := time.NewTicker(time.Duration(s.conf.TickMillis) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:

			if err := s.Step(); err != nil {
				return err
			}

			level.Debug(s.logger).Log(
				"msg", "simulation tick complete",
				"tick", s.tick,
				"converged", s.Converged(),
			)
		}
	}
}

// prepare builds one random local operation for r, applies it locally
// after validation and broadcasts its encoded form to all peers.
func (s *Simulation) prepare(r *replica) error {

	fieldOps, err := s.randomFieldOps(r)
	if err != nil {
		return err
	}
	if len(fieldOps) == 0 {
		return nil
	}

	op, err := r.agg.NewOp(r.agg.NextDot(r.actor), fieldOps)
	if err != nil {
		return errors.Wrapf(err, "prepare op at %s", r.actor)
	}

	if err := r.agg.ValidateOp(op); err != nil {
		return errors.Wrapf(err, "locally prepared op failed validation at %s", r.actor)
	}
	r.agg.Apply(op)

	data, err := r.agg.EncodeOp(op)
	if err != nil {
		return errors.Wrapf(err, "encode op at %s", r.actor)
	}

	s.metrics.OpsPrepared.Add(1)
	s.broadcast(r, data)

	return nil
}

// randomFieldOps bundles updates for one or two randomly chosen fields.
func (s *Simulation) randomFieldOps(r *replica) (map[string]any, error) {

	fieldOps := make(map[string]any)
	word := words[s.rng.Intn(len(words))]

	for _, name := range pick(s.rng, r.agg.Names()) {

		switch name {
		case "hits":
			hits, err := compose.Value[*crdt.GCounter[string]](r.agg, name)
			if err != nil {
				return nil, err
			}
			fieldOps[name] = hits.Inc(r.actor)
		case "score":
			score, err := compose.Value[*crdt.PNCounter[string]](r.agg, name)
			if err != nil {
				return nil, err
			}
			if s.rng.Intn(2) == 0 {
				fieldOps[name] = score.Inc(r.actor)
			} else {
				fieldOps[name] = score.Dec(r.actor)
			}
		case "tags":
			tags, err := compose.Value[*crdt.ORSet[string]](r.agg, name)
			if err != nil {
				return nil, err
			}
			if tags.Lookup(word) && s.rng.Intn(4) == 0 {
				fieldOps[name] = tags.Rmv(word)
			} else {
				fieldOps[name] = tags.Add(word)
			}
		case "note":
			note, err := compose.Value[*crdt.LWWRegister[string]](r.agg, name)
			if err != nil {
				return nil, err
			}
			// The global sequence keeps markers unique so that no two
			// writes ever compete under the same marker.
			s.seq++
			fieldOps[name] = note.Set(word, s.seq)
		case "peers":
			peers, err := compose.Value[*crdt.GSet[string]](r.agg, name)
			if err != nil {
				return nil, err
			}
			fieldOps[name] = peers.Insert(r.actor)
		}
	}

	return fieldOps, nil
}

// pick selects one or two distinct field names at random.
func pick(rng *rand.Rand, names []string) []string {

	first := rng.Intn(len(names))
	picked := []string{names[first]}

	if rng.Intn(2) == 0 {
		second := rng.Intn(len(names))
		if second != first {
			picked = append(picked, names[second])
		}
	}

	return picked
}

// broadcast delivers data into every peer inbox, occasionally twice, and
// occasionally shuffles the receiving inbox to model reordering.
func (s *Simulation) broadcast(origin *replica, data []byte) {

	for _, peer := range s.replicas {

		if peer == origin {
			continue
		}

		peer.inbox = append(peer.inbox, data)

		if s.rng.Float64() < s.conf.DuplicateProb {
			peer.inbox = append(peer.inbox, data)
		}

		if s.rng.Float64() < s.conf.ReorderProb {
			s.rng.Shuffle(len(peer.inbox), func(i, j int) {
				peer.inbox[i], peer.inbox[j] = peer.inbox[j], peer.inbox[i]
			})
		}
	}
}

// deliver drains every inbox, validating and applying each operation.
func (s *Simulation) deliver() {

	for _, r := range s.replicas {

		inbox := r.inbox
		r.inbox = nil

		for _, data := range inbox {

			op, err := r.agg.DecodeOp(data)
			if err != nil {
				level.Warn(s.logger).Log(
					"msg", "dropping undecodable delivery",
					"replica", r.actor,
					"err", err,
				)
				continue
			}

			err = r.agg.ValidateOp(op)

			var stale *compose.StaleOpError[string]
			switch {
			case err == nil:
				r.agg.Apply(op)
				s.metrics.OpsApplied.Add(1)
			case errors.As(err, &stale):
				s.metrics.Duplicates.Add(1)
			default:
				s.metrics.Rejected.Add(1)
				level.Warn(s.logger).Log(
					"msg", "delivery rejected by validation",
					"replica", r.actor,
					"err", err,
				)
			}
		}
	}
}

// gossip performs one ring round of full state joins.
func (s *Simulation) gossip() {

	for i, r := range s.replicas {

		peer := s.replicas[(i+1)%len(s.replicas)]

		if err := r.agg.ValidateMerge(peer.agg); err != nil {
			level.Warn(s.logger).Log(
				"msg", "state join rejected by validation",
				"replica", r.actor,
				"peer", peer.actor,
				"err", err,
			)
			continue
		}

		r.agg.Merge(peer.agg)
		s.metrics.Merges.Add(1)
	}
}

// Quiesce stops the flow of new operations, drains all pending
// deliveries and joins every replica into every other, after which the
// lattice laws guarantee convergence.
func (s *Simulation) Quiesce() {

	for {
		pending := 0
		for _, r := range s.replicas {
			pending += len(r.inbox)
		}
		if pending == 0 {
			break
		}
		s.deliver()
	}

	first := s.replicas[0]
	for _, r := range s.replicas[1:] {
		first.agg.Merge(r.agg)
		s.metrics.Merges.Add(1)
	}
	for _, r := range s.replicas[1:] {
		r.agg.Merge(first.agg)
		s.metrics.Merges.Add(1)
	}

	if s.Converged() {
		s.metrics.Converged.Set(1)
	}
}

// State renders the observable state of the first replica; once the
// simulation has converged it is the state of every replica.
func (s *Simulation) State() string {

	snap, err := snapshot(s.replicas[0])
	if err != nil {
		return ""
	}

	return snap
}

// Converged reports whether all replicas currently hold identical
// observable state and identical deduplication clocks.
func (s *Simulation) Converged() bool {

	first, err := snapshot(s.replicas[0])
	if err != nil {
		return false
	}

	for _, r := range s.replicas[1:] {

		if !r.agg.Clock().Equal(s.replicas[0].agg.Clock()) {
			return false
		}

		snap, err := snapshot(r)
		if err != nil || snap != first {
			return false
		}
	}

	return true
}

// snapshot renders a replica's observable state into a comparable value.
func snapshot(r *replica) (string, error) {

	hits, err := compose.Value[*crdt.GCounter[string]](r.agg, "hits")
	if err != nil {
		return "", err
	}
	score, err := compose.Value[*crdt.PNCounter[string]](r.agg, "score")
	if err != nil {
		return "", err
	}
	tags, err := compose.Value[*crdt.ORSet[string]](r.agg, "tags")
	if err != nil {
		return "", err
	}
	note, err := compose.Value[*crdt.LWWRegister[string]](r.agg, "note")
	if err != nil {
		return "", err
	}
	peers, err := compose.Value[*crdt.GSet[string]](r.agg, "peers")
	if err != nil {
		return "", err
	}

	tagMembers := tags.Members()
	sort.Strings(tagMembers)

	peerMembers := peers.Members()
	sort.Strings(peerMembers)

	noteVal, noteMarker := note.Read()

	return fmt.Sprintf("%d|%d|%s|%s:%d|%s",
		hits.Read(),
		score.Read(),
		strings.Join(tagMembers, ","),
		noteVal, noteMarker,
		strings.Join(peerMembers, ","),
	), nil
}
