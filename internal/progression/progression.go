// Package progression computes deterministic arc progression signals from
// episode position. The same inputs always produce the same outputs.
package progression

// Stage labels the narrative milestone an episode sits at within its arc.
type Stage string

const (
	StageIntro       Stage = "intro"
	StageBuildup     Stage = "buildup"
	StageEscalation  Stage = "escalation"
	StageInstability Stage = "instability"
	StageFinale      Stage = "finale"
)

// Progression holds the computed signals used to shape episode output.
type Progression struct {
	Stage                Stage
	PositionRatio        float64
	SceneIntensity       float64
	NarrationTension     float64
	DisturbanceFrequency float64
	CliffhangerStrength  float64
	SilhouettePresence   float64
	EscalationLevel      float64
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DetectStage returns the stage for an episode position and the position
// ratio through the arc.
//
// Stage bands (ratio through arc):
//
//	intro:       [0.00, 0.20)
//	buildup:     [0.20, 0.40)
//	escalation:  [0.40, 0.65)
//	instability: [0.65, 0.90)
//	finale:      [0.90, 1.00]
func DetectStage(episodeOrdinal, totalEpisodes int) (Stage, float64) {
	safeTotal := totalEpisodes
	if safeTotal < 1 {
		safeTotal = 1
	}
	clamped := episodeOrdinal
	if clamped < 1 {
		clamped = 1
	}
	if clamped > safeTotal {
		clamped = safeTotal
	}

	ratio := 1.0
	if safeTotal > 1 {
		ratio = float64(clamped-1) / float64(safeTotal-1)
	}

	switch {
	case ratio < 0.20:
		return StageIntro, ratio
	case ratio < 0.40:
		return StageBuildup, ratio
	case ratio < 0.65:
		return StageEscalation, ratio
	case ratio < 0.90:
		return StageInstability, ratio
	default:
		return StageFinale, ratio
	}
}

// stageModifier returns a monotonic stage intensity modifier.
func stageModifier(stage Stage) float64 {
	switch stage {
	case StageIntro:
		return 0.10
	case StageBuildup:
		return 0.30
	case StageEscalation:
		return 0.55
	case StageInstability:
		return 0.75
	case StageFinale:
		return 0.95
	default:
		return 0.10
	}
}

// Compute blends position ratio, stage weight and prior escalation into the
// progression signals. Silhouette presence starts from the configured base
// visibility and grows as episodes advance.
func Compute(episodeOrdinal, totalEpisodes int, baseSilhouetteVisibility, priorEscalation float64) Progression {
	stage, ratio := DetectStage(episodeOrdinal, totalEpisodes)
	stageMod := stageModifier(stage)

	// Blend prior escalation to preserve continuity while allowing growth.
	escalation := clamp((priorEscalation * 0.4) + (ratio * 0.35) + (stageMod * 0.25))

	return Progression{
		Stage:                stage,
		PositionRatio:        ratio,
		SceneIntensity:       clamp(0.25 + (stageMod * 0.45) + (ratio * 0.30)),
		NarrationTension:     clamp(0.20 + (stageMod * 0.40) + (escalation * 0.25)),
		DisturbanceFrequency: clamp(0.15 + (ratio * 0.35) + (stageMod * 0.30)),
		CliffhangerStrength:  clamp(0.10 + (ratio * 0.45) + (stageMod * 0.35)),
		SilhouettePresence:   clamp(baseSilhouetteVisibility + (ratio * 0.40) + (stageMod * 0.30)),
		EscalationLevel:      escalation,
	}
}
