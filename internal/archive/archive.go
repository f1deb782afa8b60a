// Package archive implements the Module Archive & Selector: a discrete bin
// map plus a continuous point cloud over Phenotype space, with geometric
// (KNN) elite selection (spec §4.D).
package archive

import (
	"errors"
	"sync"

	"codenerd/internal/logging"
	"codenerd/internal/module"
	"codenerd/internal/phenotype"
)

// ErrArchiveEmpty is returned by Select when the archive has no modules to
// offer.
var ErrArchiveEmpty = errors.New("archive-empty")

type binEntry struct {
	score  float64
	module *module.Module
}

type cloudEntry struct {
	phenotype phenotype.Phenotype
	module    *module.Module
}

// Archive holds module variants for a single Signature, indexed both by
// discrete phenotype bin and by a continuous point cloud. The Archive
// exclusively owns its stored Modules (spec §3 Ownership).
type Archive struct {
	mu            sync.RWMutex
	signature     *module.Signature
	binMap        map[BinKey]binEntry
	pointCloud    []cloudEntry
	defaultBinKey BinKey
	hasDefault    bool
}

// New returns an empty Archive for the given signature.
func New(sig *module.Signature) *Archive {
	return &Archive{
		signature: sig,
		binMap:    make(map[BinKey]binEntry),
	}
}

// Insert computes m's bin key from phenotype using per-dimension
// thresholds (medians over the current cloud, recomputed on every
// insert), keeps the higher-scoring occupant per bin, always appends to
// the point cloud, and advances defaultBinKey when score is a new global
// high (spec §9 open question ii: default tracks highest score, not
// centroid bin).
func (a *Archive) Insert(m *module.Module, score float64, p phenotype.Phenotype) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cloudPhenotypes := make([]phenotype.Phenotype, len(a.pointCloud))
	for i, e := range a.pointCloud {
		cloudPhenotypes[i] = e.phenotype
	}

	th := medianThresholds(cloudPhenotypes)
	if len(cloudPhenotypes) == 0 {
		// No history to calibrate against: use the incoming point as its
		// own threshold, a deterministic placement for the very first
		// insert (falls into cheap/slow/compact; see binKeyFor's tie rule).
		th = thresholds{latency: p.Latency, cost: p.Cost, usage: p.Usage}
	}

	key := binKeyFor(p, th)

	existing, ok := a.binMap[key]
	if !ok || score > existing.score {
		a.binMap[key] = binEntry{score: score, module: m}
		logging.ArchiveDebug("archive insert: bin=%s module=%s score=%.3f champion-changed=%v", key, m.ID, score, true)
	} else {
		logging.ArchiveDebug("archive insert: bin=%s module=%s score=%.3f champion-changed=%v", key, m.ID, score, false)
	}

	a.pointCloud = append(a.pointCloud, cloudEntry{phenotype: p, module: m})

	if !a.hasDefault || score > a.binMap[a.defaultBinKey].score {
		a.defaultBinKey = key
		a.hasDefault = true
	}
}

// Len returns the number of points currently in the point cloud.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.pointCloud)
}

// BinModule returns the module occupying a bin, if any.
func (a *Archive) BinModule(key BinKey) (*module.Module, float64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.binMap[key]
	if !ok {
		return nil, 0, false
	}
	return e.module, e.score, true
}

// DefaultModule returns the module at the current champion bin.
func (a *Archive) DefaultModule() (*module.Module, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.hasDefault {
		return nil, false
	}
	e := a.binMap[a.defaultBinKey]
	return e.module, true
}

// Elites returns every module currently occupying a bin, in unspecified
// order. Used by the compiler to pick evolution parents uniformly at
// random (spec §4.F step 4.a).
func (a *Archive) Elites() []*module.Module {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*module.Module, 0, len(a.binMap))
	for _, e := range a.binMap {
		out = append(out, e.module)
	}
	return out
}

func (a *Archive) snapshotCloud() []cloudEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snap := make([]cloudEntry, len(a.pointCloud))
	copy(snap, a.pointCloud)
	return snap
}
