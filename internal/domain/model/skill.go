// Package model contains domain models passed between layers.
package model

// Skill identifies one of the four trainable scalars.
type Skill string

// The four skills tracked per user.
const (
	SkillAttention   Skill = "AE" // attentional efficiency
	SkillAssociation Skill = "RA" // rapid association
	SkillCritical    Skill = "CT" // critical thinking
	SkillInsight     Skill = "IN" // insight
)

// Skill value bounds. Every stored skill value stays inside this range.
const (
	MinSkillValue = 0.0
	MaxSkillValue = 100.0
)

// Skills returns the four skills in canonical order.
func Skills() []Skill {
	return []Skill{SkillAttention, SkillAssociation, SkillCritical, SkillInsight}
}

// Valid reports whether s is one of the four known skills.
func (s Skill) Valid() bool {
	switch s {
	case SkillAttention, SkillAssociation, SkillCritical, SkillInsight:
		return true
	}
	return false
}

// Slow reports whether s belongs to the slow system (CT/IN).
func (s Skill) Slow() bool {
	return s == SkillCritical || s == SkillInsight
}

// Vector is the per-user skill vector. Values are clamped to
// [MinSkillValue, MaxSkillValue] on every mutation.
type Vector struct {
	AE float64
	RA float64
	CT float64
	IN float64
}

// Value returns the stored value for skill s, zero for unknown skills.
func (v Vector) Value(s Skill) float64 {
	switch s {
	case SkillAttention:
		return v.AE
	case SkillAssociation:
		return v.RA
	case SkillCritical:
		return v.CT
	case SkillInsight:
		return v.IN
	}
	return 0
}

// WithXP returns a copy of v with granted XP applied to skill s.
// The delta is grantedXP scaled by the conversion constant and the
// resulting value is clamped to the skill bounds.
func (v Vector) WithXP(s Skill, grantedXP, conversion float64) Vector {
	delta := grantedXP * conversion
	switch s {
	case SkillAttention:
		v.AE = ClampSkill(v.AE + delta)
	case SkillAssociation:
		v.RA = ClampSkill(v.RA + delta)
	case SkillCritical:
		v.CT = ClampSkill(v.CT + delta)
	case SkillInsight:
		v.IN = ClampSkill(v.IN + delta)
	}
	return v
}

// ClampSkill bounds a skill value to [MinSkillValue, MaxSkillValue].
func ClampSkill(x float64) float64 {
	if x < MinSkillValue {
		return MinSkillValue
	}
	if x > MaxSkillValue {
		return MaxSkillValue
	}
	return x
}
