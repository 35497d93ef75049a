package scan

import "math"

// SubScore addresses one named 0-10 score inside FaceMetrics.
type SubScore struct {
	Region string
	Key    string
	ref    func(*FaceMetrics) *float64
}

func (s SubScore) Path() string { return s.Region + "." + s.Key }

func (s SubScore) Get(m FaceMetrics) float64 { return *s.ref(&m) }

func (s SubScore) Set(m *FaceMetrics, v float64) { *s.ref(m) = v }

func sub(region, key string, ref func(*FaceMetrics) *float64) SubScore {
	return SubScore{Region: region, Key: key, ref: ref}
}

var subScores = []SubScore{
	sub(RegionJawline, "definition_score", func(m *FaceMetrics) *float64 { return &m.Jawline.DefinitionScore }),
	sub(RegionJawline, "symmetry_score", func(m *FaceMetrics) *float64 { return &m.Jawline.SymmetryScore }),
	sub(RegionJawline, "masseter_development", func(m *FaceMetrics) *float64 { return &m.Jawline.MasseterDevelopment }),
	sub(RegionJawline, "chin_projection", func(m *FaceMetrics) *float64 { return &m.Jawline.ChinProjection }),
	sub(RegionJawline, "ramus_length", func(m *FaceMetrics) *float64 { return &m.Jawline.RamusLength }),

	sub(RegionCheekbones, "prominence_score", func(m *FaceMetrics) *float64 { return &m.Cheekbones.ProminenceScore }),
	sub(RegionCheekbones, "width_score", func(m *FaceMetrics) *float64 { return &m.Cheekbones.WidthScore }),
	sub(RegionCheekbones, "hollowness_below", func(m *FaceMetrics) *float64 { return &m.Cheekbones.HollownessBelow }),
	sub(RegionCheekbones, "symmetry_score", func(m *FaceMetrics) *float64 { return &m.Cheekbones.SymmetryScore }),

	sub(RegionEyeArea, "upper_eyelid_exposure", func(m *FaceMetrics) *float64 { return &m.EyeArea.UpperEyelidExposure }),
	sub(RegionEyeArea, "palpebral_fissure_height", func(m *FaceMetrics) *float64 { return &m.EyeArea.PalpebralFissureHeight }),
	sub(RegionEyeArea, "under_eye_area", func(m *FaceMetrics) *float64 { return &m.EyeArea.UnderEyeArea }),
	sub(RegionEyeArea, "brow_bone_prominence", func(m *FaceMetrics) *float64 { return &m.EyeArea.BrowBoneProminence }),
	sub(RegionEyeArea, "orbital_rim_support", func(m *FaceMetrics) *float64 { return &m.EyeArea.OrbitalRimSupport }),
	sub(RegionEyeArea, "symmetry_score", func(m *FaceMetrics) *float64 { return &m.EyeArea.SymmetryScore }),

	sub(RegionNose, "bridge_height", func(m *FaceMetrics) *float64 { return &m.Nose.BridgeHeight }),
	sub(RegionNose, "tip_projection", func(m *FaceMetrics) *float64 { return &m.Nose.TipProjection }),
	sub(RegionNose, "nostril_symmetry", func(m *FaceMetrics) *float64 { return &m.Nose.NostrilSymmetry }),
	sub(RegionNose, "overall_harmony", func(m *FaceMetrics) *float64 { return &m.Nose.OverallHarmony }),

	sub(RegionLips, "upper_lip_volume", func(m *FaceMetrics) *float64 { return &m.Lips.UpperLipVolume }),
	sub(RegionLips, "lower_lip_volume", func(m *FaceMetrics) *float64 { return &m.Lips.LowerLipVolume }),
	sub(RegionLips, "cupids_bow_definition", func(m *FaceMetrics) *float64 { return &m.Lips.CupidsBowDefinition }),
	sub(RegionLips, "vermillion_border", func(m *FaceMetrics) *float64 { return &m.Lips.VermillionBorder }),
	sub(RegionLips, "philtrum_definition", func(m *FaceMetrics) *float64 { return &m.Lips.PhiltrumDefinition }),
	sub(RegionLips, "lip_symmetry", func(m *FaceMetrics) *float64 { return &m.Lips.LipSymmetry }),

	sub(RegionForehead, "brow_bone_projection", func(m *FaceMetrics) *float64 { return &m.Forehead.BrowBoneProjection }),
	sub(RegionForehead, "temple_hollowing", func(m *FaceMetrics) *float64 { return &m.Forehead.TempleHollowing }),
	sub(RegionForehead, "forehead_symmetry", func(m *FaceMetrics) *float64 { return &m.Forehead.ForeheadSymmetry }),
	sub(RegionForehead, "skin_texture", func(m *FaceMetrics) *float64 { return &m.Forehead.SkinTexture }),

	sub(RegionSkin, "overall_quality", func(m *FaceMetrics) *float64 { return &m.Skin.OverallQuality }),
	sub(RegionSkin, "texture_score", func(m *FaceMetrics) *float64 { return &m.Skin.TextureScore }),
	sub(RegionSkin, "clarity_score", func(m *FaceMetrics) *float64 { return &m.Skin.ClarityScore }),
	sub(RegionSkin, "tone_evenness", func(m *FaceMetrics) *float64 { return &m.Skin.ToneEvenness }),
	sub(RegionSkin, "hydration_appearance", func(m *FaceMetrics) *float64 { return &m.Skin.HydrationAppearance }),
	sub(RegionSkin, "pore_visibility", func(m *FaceMetrics) *float64 { return &m.Skin.PoreVisibility }),
	sub(RegionSkin, "under_eye_darkness", func(m *FaceMetrics) *float64 { return &m.Skin.UnderEyeDarkness }),

	sub(RegionProportions, "facial_thirds_balance", func(m *FaceMetrics) *float64 { return &m.Proportions.FacialThirdsBalance }),
	sub(RegionProportions, "upper_third_score", func(m *FaceMetrics) *float64 { return &m.Proportions.UpperThirdScore }),
	sub(RegionProportions, "middle_third_score", func(m *FaceMetrics) *float64 { return &m.Proportions.MiddleThirdScore }),
	sub(RegionProportions, "lower_third_score", func(m *FaceMetrics) *float64 { return &m.Proportions.LowerThirdScore }),
	sub(RegionProportions, "horizontal_fifths_balance", func(m *FaceMetrics) *float64 { return &m.Proportions.HorizontalFifthsBalance }),
	sub(RegionProportions, "overall_symmetry", func(m *FaceMetrics) *float64 { return &m.Proportions.OverallSymmetry }),
	sub(RegionProportions, "facial_convexity", func(m *FaceMetrics) *float64 { return &m.Proportions.FacialConvexity }),
	sub(RegionProportions, "golden_ratio_adherence", func(m *FaceMetrics) *float64 { return &m.Proportions.GoldenRatioAdherence }),

	sub(RegionProfile, "forehead_projection", func(m *FaceMetrics) *float64 { return &m.Profile.ForeheadProjection }),
	sub(RegionProfile, "nose_projection", func(m *FaceMetrics) *float64 { return &m.Profile.NoseProjection }),
	sub(RegionProfile, "lip_projection", func(m *FaceMetrics) *float64 { return &m.Profile.LipProjection }),
	sub(RegionProfile, "chin_projection", func(m *FaceMetrics) *float64 { return &m.Profile.ChinProjection }),
	sub(RegionProfile, "submental_area", func(m *FaceMetrics) *float64 { return &m.Profile.SubmentalArea }),
	sub(RegionProfile, "ramus_visibility", func(m *FaceMetrics) *float64 { return &m.Profile.RamusVisibility }),
	sub(RegionProfile, "profile_harmony", func(m *FaceMetrics) *float64 { return &m.Profile.ProfileHarmony }),

	sub(RegionHair, "density", func(m *FaceMetrics) *float64 { return &m.Hair.Density }),
	sub(RegionHair, "hairline_health", func(m *FaceMetrics) *float64 { return &m.Hair.HairlineHealth }),
	sub(RegionHair, "hair_quality", func(m *FaceMetrics) *float64 { return &m.Hair.HairQuality }),

	sub(RegionBodyFat, "facial_leanness", func(m *FaceMetrics) *float64 { return &m.BodyFat.FacialLeanness }),
	sub(RegionBodyFat, "definition_potential", func(m *FaceMetrics) *float64 { return &m.BodyFat.DefinitionPotential }),
}

// SubScores lists every region sub-score in wire order. The returned slice is a copy.
func SubScores() []SubScore {
	out := make([]SubScore, len(subScores))
	copy(out, subScores)
	return out
}

// LookupSubScore finds a sub-score by "region.key".
func LookupSubScore(path string) (SubScore, bool) {
	for _, s := range subScores {
		if s.Path() == path {
			return s, true
		}
	}
	return SubScore{}, false
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampScore(v float64) float64 { return Clamp(v, 0, 10) }

// Clamped returns a copy with every score forced into range.
func (m FaceMetrics) Clamped() FaceMetrics {
	out := m
	for _, s := range subScores {
		s.Set(&out, ClampScore(s.Get(out)))
	}
	out.OverallScore = ClampScore(out.OverallScore)
	out.HarmonyScore = ClampScore(out.HarmonyScore)
	out.ImageQualityFront = ClampScore(out.ImageQualityFront)
	out.ImageQualityLeft = ClampScore(out.ImageQualityLeft)
	out.ImageQualityRight = ClampScore(out.ImageQualityRight)
	out.ConfidenceScore = Clamp(out.ConfidenceScore, 0, 1)
	return out
}

// Finite reports whether every numeric field is a real number.
func (m FaceMetrics) Finite() bool {
	vals := []float64{
		m.OverallScore, m.HarmonyScore, m.ConfidenceScore,
		m.ImageQualityFront, m.ImageQualityLeft, m.ImageQualityRight,
	}
	for _, s := range subScores {
		vals = append(vals, s.Get(m))
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
