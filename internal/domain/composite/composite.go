// Package composite holds the pure formulas deriving composite scores
// from a skill vector, the recovery signal and the baseline snapshot.
// Nothing here mutates state; every score is recomputed from scratch on
// read so stored values can never drift from their formulas.
package composite

import "github.com/mindloop/acumen/internal/domain/model"

// Formula weights.
const (
	sharpnessS1Weight = 0.50
	sharpnessAEWeight = 0.30
	sharpnessS2Weight = 0.20

	// Recovery modulates Sharpness between 75% and 100% of its
	// unmodulated value plus up to a 25% boost; it never cuts deeper.
	sharpnessRecFloor = 0.75
	sharpnessRecSpan  = 0.25

	readinessRECWeight = 0.35
	readinessS2Weight  = 0.35
	readinessAEWeight  = 0.30

	readinessBaseBlend   = 0.6
	readinessPhysioBlend = 0.4

	// Ten points of sustained improvement equal one year younger.
	improvementPerYear = 10.0
	cognitiveAgeSpan   = 15.0

	sciPerformanceWeight = 0.50
	sciEngagementWeight  = 0.30
	sciRECWeight         = 0.20

	engagementFrequencyWeight = 0.6
	engagementAccuracyWeight  = 0.4
)

// S1 is the fast-system composite: (AE + RA) / 2.
func S1(v model.Vector) float64 {
	return (v.AE + v.RA) / 2
}

// S2 is the slow-system composite: (CT + IN) / 2.
func S2(v model.Vector) float64 {
	return (v.CT + v.IN) / 2
}

// SharpnessBase is the unmodulated sharpness blend.
func SharpnessBase(v model.Vector) float64 {
	return sharpnessS1Weight*S1(v) + sharpnessAEWeight*v.AE + sharpnessS2Weight*S2(v)
}

// Sharpness modulates the base by recovery.
func Sharpness(v model.Vector, rec float64) float64 {
	return SharpnessBase(v) * (sharpnessRecFloor + sharpnessRecSpan*rec/100)
}

// ReadinessInput selects the readiness path explicitly by data
// availability rather than branching at call sites.
type ReadinessInput struct {
	Vector    model.Vector
	REC       float64
	Physio    float64
	HasPhysio bool
}

// Readiness blends recovery, slow-system capacity and attention. When a
// complete physiological score is present the base is re-blended 60/40
// with it; a partial physio signal runs the no-physio path.
func Readiness(in ReadinessInput) float64 {
	base := readinessRECWeight*in.REC + readinessS2Weight*S2(in.Vector) + readinessAEWeight*in.Vector.AE
	if !in.HasPhysio {
		return base
	}
	return readinessBaseBlend*base + readinessPhysioBlend*in.Physio
}

// PerformanceAvg is the five-way average over the four skills and S2.
func PerformanceAvg(v model.Vector) float64 {
	return (v.AE + v.RA + v.CT + v.IN + S2(v)) / 5
}

// CognitiveAge anchors the derived age to the calibration baseline:
// baseline age minus one year per ten points of improvement, clamped to
// fifteen years either side of the baseline. Recovery never enters.
func CognitiveAge(v model.Vector, b model.Baseline) float64 {
	improvement := PerformanceAvg(v) - PerformanceAvg(b.Vector())
	age := b.CognitiveAge - improvement/improvementPerYear
	if min := b.CognitiveAge - cognitiveAgeSpan; age < min {
		age = min
	}
	if max := b.CognitiveAge + cognitiveAgeSpan; age > max {
		age = max
	}
	return age
}

// EngagementInput carries the training-consistency signals feeding the
// behavioral sub-composite of SCI.
type EngagementInput struct {
	SessionsThisWeek    int
	WeeklySessionTarget int
	AccuracyRate        float64 // mean session score over the rolling week, 0-100
}

// BehavioralEngagement blends session frequency against the weekly
// target (saturating at 100) with the accuracy rate.
func BehavioralEngagement(in EngagementInput) float64 {
	if in.WeeklySessionTarget <= 0 {
		return engagementAccuracyWeight * in.AccuracyRate
	}
	frequency := float64(in.SessionsThisWeek) / float64(in.WeeklySessionTarget) * 100
	if frequency > 100 {
		frequency = 100
	}
	return engagementFrequencyWeight*frequency + engagementAccuracyWeight*in.AccuracyRate
}

// SCI is the top-level synthesized index over cognitive performance,
// behavioral engagement and recovery.
func SCI(cognitivePerformance, behavioralEngagement, rec float64) float64 {
	return sciPerformanceWeight*cognitivePerformance +
		sciEngagementWeight*behavioralEngagement +
		sciRECWeight*rec
}
