package fit

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/diff"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// blendRatios is the order in which contraction points between the worst
// vertex (0) and the centroid of the others (1) are tried.
var blendRatios = []float64{
	0.5, 0.45, 0.55, 0.4, 0.6, 0.35, 0.65, 0.3, 0.7, 0.25, 0.75,
	0.2, 0.8, 0.15, 0.85, 0.1, 0.9, 0.05, 0.95, 0.01, 0.99, 0.001, 0.999,
}

// DownhillSimplex replaces the worst vertex by its mirror image through the
// centroid of the others, or by the first usable blend between the two. It
// answers with the simplex centroid.
//
// Convergence looks only at the latest move: the fit stops as soon as the
// replaced vertex and its replacement lie closer than MinStep/P, measured
// with ParamsDiffType, where P is the number of free parameters. The
// remaining vertices are not compared.
type DownhillSimplex struct {
	InitialSimplexScale float64
	MinStep             float64
	ParamsDiffType      diff.Type
	EvalsMax            uint64
	ResidueMaxValue     float64
	Logger              logrus.FieldLogger
}

// Name implements Algorithm.
func (DownhillSimplex) Name() string { return "downhill_simplex" }

func (ds DownhillSimplex) validate() error {
	switch {
	case !(ds.InitialSimplexScale > 0):
		return fmt.Errorf("%w: initial_simplex_scale %v must be > 0", ErrInvalidSettings, ds.InitialSimplexScale)
	case !(ds.MinStep > 0):
		return fmt.Errorf("%w: min_step %v must be > 0", ErrInvalidSettings, ds.MinStep)
	case ds.EvalsMax == 0:
		return fmt.Errorf("%w: evals_max must be > 0", ErrInvalidSettings)
	}
	if err := diff.Check(ds.ParamsDiffType); err != nil {
		return fmt.Errorf("%w: params_diff_type: %w", ErrInvalidSettings, err)
	}
	return nil
}

// Fit implements Algorithm.
func (ds DownhillSimplex) Fit(p Problem) (Result, error) {
	if err := ds.validate(); err != nil {
		return Result{}, err
	}
	s, err := newSubspace(p)
	if err != nil {
		return Result{}, err
	}
	log := loggerOrDiscard(ds.Logger).WithFields(logrus.Fields{"algorithm": ds.Name(), "params": s.dim()})

	x0 := s.start()
	r0, err := s.checkStart(x0, ds.ResidueMaxValue)
	if err != nil {
		return Result{}, err
	}
	log.WithField("residue", r0).Debug("downhill simplex started")

	n := s.dim()
	vertices := make([][]float64, n+1)
	residues := make([]float64, n+1)
	vertices[0] = core.Clone(x0)
	floats.AddConst(-ds.InitialSimplexScale/float64(n), vertices[0])
	residues[0] = s.score(vertices[0])
	for i := 1; i <= n; i++ {
		vertices[i] = core.Clone(x0)
		vertices[i][i-1] += ds.InitialSimplexScale
		residues[i] = s.score(vertices[i])
	}

	minDist := ds.MinStep / float64(n)
	centroid := make([]float64, n)
	for {
		if s.outOfBudget(ds.EvalsMax) {
			log.Debug("downhill simplex hit max evals")
			return Result{}, s.fail(ErrHitMaxEvals)
		}

		worst := worstVertex(residues)
		if worst < 0 {
			return Result{}, s.fail(ErrAllNotFinite)
		}
		othersCentroid(centroid, vertices, worst)

		replacement, r, ok := ds.replace(s, vertices[worst], residues[worst], centroid)
		if !ok {
			log.Debug("downhill simplex found no finite replacement")
			return Result{}, s.fail(ErrAllNotFinite)
		}

		moved, err := diff.Compute(ds.ParamsDiffType, vertices[worst], replacement)
		if err != nil {
			return Result{}, err
		}
		vertices[worst], residues[worst] = replacement, r
		if moved < minDist {
			break
		}
	}

	mean := make([]float64, n)
	for _, v := range vertices {
		floats.Add(mean, v)
	}
	floats.Scale(1/float64(n+1), mean)
	residue := s.residue(mean)
	if !core.IsFinite(residue) {
		return Result{}, s.fail(fmt.Errorf("%w: centroid residue %v", ErrNotFinite, residue))
	}

	log.WithFields(logrus.Fields{"residue": residue, "evals": s.evals.Load()}).Debug("downhill simplex converged")
	return s.result(mean, residue), nil
}

// replace tries the mirror point first, then the blend schedule.
func (ds DownhillSimplex) replace(s *subspace, worst []float64, worstResidue float64, centroid []float64) ([]float64, float64, bool) {
	n := len(worst)

	// mirror = worst + 2*(centroid - worst)
	mirror := make([]float64, n)
	floats.SubTo(mirror, centroid, worst)
	floats.Scale(2, mirror)
	floats.Add(mirror, worst)
	if r := s.score(mirror); improves(r, worstResidue) {
		return mirror, r, true
	}

	for _, ratio := range blendRatios {
		blend := make([]float64, n)
		floats.SubTo(blend, centroid, worst)
		floats.Scale(ratio, blend)
		floats.Add(blend, worst)
		if r := s.score(blend); core.IsFinite(r) {
			return blend, r, true
		}
	}
	return nil, 0, false
}

// worstVertex returns the first non-finite vertex, else the one with the
// largest residue. It returns -1 when no residue is finite.
func worstVertex(residues []float64) int {
	worst := -1
	anyFinite := false
	for i, r := range residues {
		if !core.IsFinite(r) {
			if worst < 0 || core.IsFinite(residues[worst]) {
				worst = i
			}
			continue
		}
		anyFinite = true
		if worst < 0 || (core.IsFinite(residues[worst]) && r > residues[worst]) {
			worst = i
		}
	}
	if !anyFinite {
		return -1
	}
	return worst
}

// othersCentroid writes the mean of all vertices except skip into dst.
func othersCentroid(dst []float64, vertices [][]float64, skip int) {
	clear(dst)
	for i, v := range vertices {
		if i != skip {
			floats.Add(dst, v)
		}
	}
	floats.Scale(1/float64(len(vertices)-1), dst)
}
