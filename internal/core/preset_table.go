package core

import "github.com/EmundoT/asset-optimizer/internal/types"

// DefaultPresetName is used when a profile name is unknown.
const DefaultPresetName = "PC_Balanced"

// Preferred block-compression formats per texture group.
const (
	CompressionColorDefault  = "BC3"
	CompressionNormalDefault = "BC5"
	CompressionMaskDefault   = "BC4"
)

func textureRules(color, normal, mask int, quality, mipmaps, virtualTexture, streaming string) types.TextureRules {
	return types.TextureRules{
		MaxSizeColor:       color,
		MaxSizeNormal:      normal,
		MaxSizeMask:        mask,
		CompressionColor:   CompressionColorDefault,
		CompressionNormal:  CompressionNormalDefault,
		CompressionMask:    CompressionMaskDefault,
		CompressionQuality: quality,
		MipmapGeneration:   mipmaps,
		VirtualTexture:     virtualTexture,
		Streaming:          streaming,
	}
}

// builtinPresets is the static preset table, in display order.
var builtinPresets = []types.PresetConfig{
	{
		Name:        "PC_Ultra",
		Description: "High-end PC optimizations for maximum quality",
		Textures:    textureRules(8192, 4096, 2048, "high", "enabled", "enabled", "enabled"),
		Meshes:      types.MeshHints{NaniteEnabled: true, LODGeneration: "aggressive", LightmapUVs: "high_quality", CollisionSimplification: "minimal"},
		Materials:   types.MaterialHints{NormalConvention: "dx"},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "epic", ShadowQuality: "high", PostProcessQuality: "high", StreamingPoolSize: "large"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 1000, ConservativeMode: false, CreateBackups: true},
	},
	{
		Name:        "PC_Balanced",
		Description: "Balanced performance vs quality for PC",
		Textures:    textureRules(4096, 2048, 1024, "medium", "enabled", "enabled", "enabled"),
		Meshes:      types.MeshHints{NaniteEnabled: true, LODGeneration: "balanced", LightmapUVs: "medium_quality", CollisionSimplification: "moderate"},
		Materials:   types.MaterialHints{NormalConvention: "dx", StaticSwitchCleanup: true, SamplerConsolidation: true, PackedMapHints: true},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "high", ShadowQuality: "medium", PostProcessQuality: "medium", StreamingPoolSize: "medium"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 500, ConservativeMode: true, CreateBackups: true},
	},
	{
		Name:        "Console_Optimized",
		Description: "Console-specific optimizations",
		Textures:    textureRules(2048, 1024, 512, "high", "enabled", "enabled", "enabled"),
		Meshes:      types.MeshHints{NaniteEnabled: true, LODGeneration: "balanced", LightmapUVs: "medium_quality", CollisionSimplification: "moderate"},
		Materials:   types.MaterialHints{NormalConvention: "dx", StaticSwitchCleanup: true, SamplerConsolidation: true, PackedMapHints: true},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "high", ShadowQuality: "medium", PostProcessQuality: "medium", StreamingPoolSize: "medium"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 300, ConservativeMode: true, CreateBackups: true},
	},
	{
		Name:        "Mobile_Low",
		Description: "Mobile device constraints",
		Textures:    textureRules(1024, 512, 256, "high", "enabled", "disabled", "disabled"),
		Meshes:      types.MeshHints{LODGeneration: "aggressive", LightmapUVs: "low_quality", CollisionSimplification: "aggressive", MergeActors: true},
		Materials:   types.MaterialHints{NormalConvention: "gl", StaticSwitchCleanup: true, SamplerConsolidation: true, PackedMapHints: true},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "low", ShadowQuality: "low", PostProcessQuality: "low", StreamingPoolSize: "small"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 200, ConservativeMode: true, CreateBackups: true},
	},
	{
		Name:        "Mobile_Ultra_Lite",
		Description: "Maximum mobile optimization",
		Textures:    textureRules(512, 256, 128, "maximum", "enabled", "disabled", "disabled"),
		Meshes:      types.MeshHints{LODGeneration: "aggressive", LightmapUVs: "low_quality", CollisionSimplification: "aggressive", MergeActors: true},
		Materials:   types.MaterialHints{NormalConvention: "gl", StaticSwitchCleanup: true, SamplerConsolidation: true, PackedMapHints: true},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "low", ShadowQuality: "off", PostProcessQuality: "low", StreamingPoolSize: "small"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 100, ConservativeMode: true, CreateBackups: true},
	},
	{
		Name:        "VR",
		Description: "Virtual reality specific optimizations",
		Textures:    textureRules(2048, 1024, 512, "high", "enabled", "enabled", "enabled"),
		Meshes:      types.MeshHints{NaniteEnabled: true, LODGeneration: "aggressive", LightmapUVs: "medium_quality", CollisionSimplification: "moderate"},
		Materials:   types.MaterialHints{NormalConvention: "dx", StaticSwitchCleanup: true, SamplerConsolidation: true, PackedMapHints: true},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "medium", ShadowQuality: "low", PostProcessQuality: "low", StreamingPoolSize: "medium"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 400, ConservativeMode: true, CreateBackups: true},
	},
	{
		Name:        "Cinematic",
		Description: "High-quality cinematic workflows",
		Textures:    textureRules(16384, 8192, 4096, "maximum", "enabled", "enabled", "enabled"),
		Meshes:      types.MeshHints{NaniteEnabled: true, LODGeneration: "minimal", LightmapUVs: "high_quality", CollisionSimplification: "minimal"},
		Materials:   types.MaterialHints{NormalConvention: "dx"},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "cinematic", ShadowQuality: "epic", PostProcessQuality: "epic", StreamingPoolSize: "large"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 2000, ConservativeMode: false, CreateBackups: true},
	},
	{
		Name:        "UI_Crisp",
		Description: "UI asset optimization focus",
		Textures:    textureRules(2048, 1024, 512, "high", "disabled", "disabled", "disabled"),
		Meshes:      types.MeshHints{LODGeneration: "balanced", LightmapUVs: "medium_quality", CollisionSimplification: "moderate"},
		Materials:   types.MaterialHints{NormalConvention: "dx", StaticSwitchCleanup: true, SamplerConsolidation: true},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "high", ShadowQuality: "medium", PostProcessQuality: "medium", StreamingPoolSize: "medium"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 300, ConservativeMode: true, CreateBackups: true},
	},
	{
		Name:        "Archviz_High_Fidelity",
		Description: "Architecture visualization optimizations",
		Textures:    textureRules(8192, 4096, 2048, "high", "enabled", "enabled", "enabled"),
		Meshes:      types.MeshHints{NaniteEnabled: true, LODGeneration: "minimal", LightmapUVs: "high_quality", CollisionSimplification: "minimal"},
		Materials:   types.MaterialHints{NormalConvention: "dx"},
		Runtime:     types.RuntimeHints{ScalabilityBucket: "epic", ShadowQuality: "high", PostProcessQuality: "high", StreamingPoolSize: "large"},
		Safety:      types.SafetyPolicy{DryRunDefault: true, MaxChanges: 1500, ConservativeMode: false, CreateBackups: true},
	},
}
