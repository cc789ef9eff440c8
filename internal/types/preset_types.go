package types

// PresetConfig is a named bundle of rule parameters and safety policy.
// It holds no reference types, so copies never alias each other.
type PresetConfig struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Textures    TextureRules  `yaml:"textures" json:"textures"`
	Meshes      MeshHints     `yaml:"meshes" json:"meshes"`
	Materials   MaterialHints `yaml:"materials" json:"materials"`
	Runtime     RuntimeHints  `yaml:"runtime" json:"runtime"`
	Safety      SafetyPolicy  `yaml:"safety" json:"safety"`
}

// TextureRules holds size ceilings and per-group format preferences.
type TextureRules struct {
	MaxSizeColor       int    `yaml:"max_size_color" json:"max_size_color"`
	MaxSizeNormal      int    `yaml:"max_size_normal" json:"max_size_normal"`
	MaxSizeMask        int    `yaml:"max_size_mask" json:"max_size_mask"`
	CompressionColor   string `yaml:"compression_color" json:"compression_color"`
	CompressionNormal  string `yaml:"compression_normal" json:"compression_normal"`
	CompressionMask    string `yaml:"compression_mask" json:"compression_mask"`
	CompressionQuality string `yaml:"compression_quality" json:"compression_quality"`
	MipmapGeneration   string `yaml:"mipmap_generation" json:"mipmap_generation"`
	VirtualTexture     string `yaml:"virtual_texture" json:"virtual_texture"`
	Streaming          string `yaml:"streaming" json:"streaming"`
}

// MeshHints are carried for the mesh category; the texture rules do not read them.
type MeshHints struct {
	NaniteEnabled           bool   `yaml:"nanite_enabled" json:"nanite_enabled"`
	LODGeneration           string `yaml:"lod_generation" json:"lod_generation"`
	LightmapUVs             string `yaml:"lightmap_uvs" json:"lightmap_uvs"`
	CollisionSimplification string `yaml:"collision_simplification" json:"collision_simplification"`
	MergeActors             bool   `yaml:"merge_actors" json:"merge_actors"`
}

// MaterialHints are carried for the material category.
type MaterialHints struct {
	NormalConvention     string `yaml:"normal_convention" json:"normal_convention"`
	StaticSwitchCleanup  bool   `yaml:"static_switch_cleanup" json:"static_switch_cleanup"`
	SamplerConsolidation bool   `yaml:"sampler_consolidation" json:"sampler_consolidation"`
	PackedMapHints       bool   `yaml:"packed_map_hints" json:"packed_map_hints"`
}

// RuntimeHints are carried for level/runtime tuning.
type RuntimeHints struct {
	ScalabilityBucket  string `yaml:"scalability_bucket" json:"scalability_bucket"`
	ShadowQuality      string `yaml:"shadow_quality" json:"shadow_quality"`
	PostProcessQuality string `yaml:"post_process_quality" json:"post_process_quality"`
	StreamingPoolSize  string `yaml:"streaming_pool_size" json:"streaming_pool_size"`
}

// SafetyPolicy is the apply-phase policy a preset recommends. Run
// configuration overrides each field when set; dry_run is always set by the
// run configuration, so DryRunDefault is shown to users but never applied.
type SafetyPolicy struct {
	DryRunDefault    bool `yaml:"dry_run_default" json:"dry_run_default"`
	MaxChanges       int  `yaml:"max_changes" json:"max_changes"`
	ConservativeMode bool `yaml:"conservative_mode" json:"conservative_mode"`
	CreateBackups    bool `yaml:"create_backups" json:"create_backups"`
}

// PresetOverrideFile is the on-disk shape of the optional preset override file.
type PresetOverrideFile struct {
	Presets map[string]PresetOverride `yaml:"presets"`
}

// PresetOverride overlays a built-in preset, or defines a custom one when the
// name is new. Nil fields leave the base value untouched.
type PresetOverride struct {
	BasedOn     string                `yaml:"based_on,omitempty"`
	Description *string               `yaml:"description,omitempty"`
	Textures    *TextureRulesOverride `yaml:"textures,omitempty"`
	Safety      *SafetyPolicyOverride `yaml:"safety,omitempty"`
}

// TextureRulesOverride is the partial form of TextureRules.
type TextureRulesOverride struct {
	MaxSizeColor       *int    `yaml:"max_size_color,omitempty"`
	MaxSizeNormal      *int    `yaml:"max_size_normal,omitempty"`
	MaxSizeMask        *int    `yaml:"max_size_mask,omitempty"`
	CompressionColor   *string `yaml:"compression_color,omitempty"`
	CompressionNormal  *string `yaml:"compression_normal,omitempty"`
	CompressionMask    *string `yaml:"compression_mask,omitempty"`
	CompressionQuality *string `yaml:"compression_quality,omitempty"`
}

// SafetyPolicyOverride is the partial form of SafetyPolicy.
type SafetyPolicyOverride struct {
	DryRunDefault    *bool `yaml:"dry_run_default,omitempty"`
	MaxChanges       *int  `yaml:"max_changes,omitempty"`
	ConservativeMode *bool `yaml:"conservative_mode,omitempty"`
	CreateBackups    *bool `yaml:"create_backups,omitempty"`
}
