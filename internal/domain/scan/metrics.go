package scan

type JawlineMetrics struct {
	DefinitionScore     float64 `json:"definition_score"`
	SymmetryScore       float64 `json:"symmetry_score"`
	MasseterDevelopment float64 `json:"masseter_development"`
	ChinProjection      float64 `json:"chin_projection"`
	RamusLength         float64 `json:"ramus_length"`
}

type CheekbonesMetrics struct {
	ProminenceScore float64 `json:"prominence_score"`
	WidthScore      float64 `json:"width_score"`
	HollownessBelow float64 `json:"hollowness_below"`
	SymmetryScore   float64 `json:"symmetry_score"`
}

type EyeAreaMetrics struct {
	UpperEyelidExposure    float64 `json:"upper_eyelid_exposure"`
	PalpebralFissureHeight float64 `json:"palpebral_fissure_height"`
	UnderEyeArea           float64 `json:"under_eye_area"`
	BrowBoneProminence     float64 `json:"brow_bone_prominence"`
	OrbitalRimSupport      float64 `json:"orbital_rim_support"`
	SymmetryScore          float64 `json:"symmetry_score"`
}

type NoseMetrics struct {
	BridgeHeight    float64 `json:"bridge_height"`
	TipProjection   float64 `json:"tip_projection"`
	NostrilSymmetry float64 `json:"nostril_symmetry"`
	OverallHarmony  float64 `json:"overall_harmony"`
}

type LipsMetrics struct {
	UpperLipVolume      float64 `json:"upper_lip_volume"`
	LowerLipVolume      float64 `json:"lower_lip_volume"`
	CupidsBowDefinition float64 `json:"cupids_bow_definition"`
	VermillionBorder    float64 `json:"vermillion_border"`
	PhiltrumDefinition  float64 `json:"philtrum_definition"`
	LipSymmetry         float64 `json:"lip_symmetry"`
}

type ForeheadMetrics struct {
	BrowBoneProjection float64 `json:"brow_bone_projection"`
	TempleHollowing    float64 `json:"temple_hollowing"`
	ForeheadSymmetry   float64 `json:"forehead_symmetry"`
	SkinTexture        float64 `json:"skin_texture"`
}

type SkinMetrics struct {
	OverallQuality      float64 `json:"overall_quality"`
	TextureScore        float64 `json:"texture_score"`
	ClarityScore        float64 `json:"clarity_score"`
	ToneEvenness        float64 `json:"tone_evenness"`
	HydrationAppearance float64 `json:"hydration_appearance"`
	PoreVisibility      float64 `json:"pore_visibility"`
	UnderEyeDarkness    float64 `json:"under_eye_darkness"`
}

type FacialProportions struct {
	FacialThirdsBalance     float64 `json:"facial_thirds_balance"`
	UpperThirdScore         float64 `json:"upper_third_score"`
	MiddleThirdScore        float64 `json:"middle_third_score"`
	LowerThirdScore         float64 `json:"lower_third_score"`
	HorizontalFifthsBalance float64 `json:"horizontal_fifths_balance"`
	OverallSymmetry         float64 `json:"overall_symmetry"`
	FacialConvexity         float64 `json:"facial_convexity"`
	GoldenRatioAdherence    float64 `json:"golden_ratio_adherence"`
}

type ProfileMetrics struct {
	ForeheadProjection float64 `json:"forehead_projection"`
	NoseProjection     float64 `json:"nose_projection"`
	LipProjection      float64 `json:"lip_projection"`
	ChinProjection     float64 `json:"chin_projection"`
	SubmentalArea      float64 `json:"submental_area"`
	RamusVisibility    float64 `json:"ramus_visibility"`
	ProfileHarmony     float64 `json:"profile_harmony"`
}

type HairMetrics struct {
	Density        float64 `json:"density"`
	HairlineHealth float64 `json:"hairline_health"`
	HairQuality    float64 `json:"hair_quality"`
}

type BodyFatIndicators struct {
	FacialLeanness      float64 `json:"facial_leanness"`
	DefinitionPotential float64 `json:"definition_potential"`
}

// FaceMetrics is the canonical per-region score aggregate. Sub-scores are on a 0-10 scale,
// ConfidenceScore on 0-1.
type FaceMetrics struct {
	OverallScore float64 `json:"overall_score"`
	HarmonyScore float64 `json:"harmony_score"`

	Jawline     JawlineMetrics    `json:"jawline"`
	Cheekbones  CheekbonesMetrics `json:"cheekbones"`
	EyeArea     EyeAreaMetrics    `json:"eye_area"`
	Nose        NoseMetrics       `json:"nose"`
	Lips        LipsMetrics       `json:"lips"`
	Forehead    ForeheadMetrics   `json:"forehead"`
	Skin        SkinMetrics       `json:"skin"`
	Proportions FacialProportions `json:"proportions"`
	Profile     ProfileMetrics    `json:"profile"`
	Hair        HairMetrics       `json:"hair"`
	BodyFat     BodyFatIndicators `json:"body_fat"`

	ConfidenceScore   float64 `json:"confidence_score"`
	ImageQualityFront float64 `json:"image_quality_front"`
	ImageQualityLeft  float64 `json:"image_quality_left"`
	ImageQualityRight float64 `json:"image_quality_right"`
}

// Region names as they appear on the wire.
const (
	RegionJawline     = "jawline"
	RegionCheekbones  = "cheekbones"
	RegionEyeArea     = "eye_area"
	RegionNose        = "nose"
	RegionLips        = "lips"
	RegionForehead    = "forehead"
	RegionSkin        = "skin"
	RegionProportions = "proportions"
	RegionProfile     = "profile"
	RegionHair        = "hair"
	RegionBodyFat     = "body_fat"
)
