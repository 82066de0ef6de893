package deconv

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-deconv/deconv/fit"
	"github.com/sirupsen/logrus"
)

// ErrRandomScale reports restarts that could only repeat the nominal start.
var ErrRandomScale = errors.New("deconv: random_scale must be > 1 for more than one attempt")

// Restarts controls [Data.DeconvolveWithRestarts].
type Restarts struct {
	// Attempts is the total number of fits; values below 1 mean 1.
	Attempts int
	// RandomScale spreads randomised initial values; see
	// domain.ValueAndDomain.Randomized. It must exceed 1 when Attempts > 1.
	RandomScale float64
	// ResidueGoal stops the attempts once a fit reaches it. Zero stops at
	// the first success.
	ResidueGoal float64
	// Rand drives randomisation. A time-seeded source is used when nil.
	Rand *rand.Rand
}

// DeconvolveWithRestarts runs alg from the nominal initial values and, while
// the goal is not met, again from randomised ones. Every attempt works on a
// private copy of d. It returns the best success, or the last fit failure
// when no attempt succeeded. Errors other than *fit.Failure end the loop.
func (d *Data) DeconvolveWithRestarts(alg fit.Algorithm, r Restarts) (fit.Result, error) {
	attempts := max(r.Attempts, 1)
	if attempts > 1 && !(r.RandomScale > 1) {
		return fit.Result{}, fmt.Errorf("%w: got %v", ErrRandomScale, r.RandomScale)
	}
	rng := r.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var (
		best    fit.Result
		found   bool
		lastErr error
	)
	for i := 0; i < attempts; i++ {
		attempt := d
		if i > 0 {
			attempt = d.WithInitialValues(d.initial.Randomized(rng, r.RandomScale))
		}

		log := d.log.WithFields(logrus.Fields{"attempt": i + 1, "of": attempts})
		res, err := attempt.Deconvolve(alg)
		if err != nil {
			var failure *fit.Failure
			if !errors.As(err, &failure) {
				return fit.Result{}, err
			}
			log.WithError(err).Info("fit attempt failed")
			lastErr = err
			continue
		}

		log.WithField("residue", res.Residue).Info("fit attempt succeeded")
		if !found || res.Residue < best.Residue {
			best, found = res, true
		}
		if r.ResidueGoal <= 0 || best.Residue <= r.ResidueGoal {
			break
		}
	}

	if !found {
		return fit.Result{}, lastErr
	}
	return best, nil
}
