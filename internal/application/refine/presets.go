package refine

import "prompt-refinery-api/internal/domain/refine"

// InstructionPreset 实例化精炼人格的指令预设
type InstructionPreset struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Family      refine.Family `json:"family"`
	Persona     string        `json:"-"`
}

// ModelInfo 可选目标模型条目
type ModelInfo struct {
	ID           string        `json:"id"`
	Family       refine.Family `json:"family"`
	Label        string        `json:"label"`
	Description  string        `json:"description"`
	Capabilities []string      `json:"capabilities"`
}

// Models 目标模型目录
var Models = []ModelInfo{
	{
		ID:           "gemini-2.5-pro",
		Family:       refine.FamilyText,
		Label:        "Gemini 2.5 Pro",
		Description:  "Advanced LLM for high-quality text prompts and reasoning.",
		Capabilities: []string{"text"},
	},
	{
		ID:           "gemini-2.5-flash",
		Family:       refine.FamilyText,
		Label:        "Gemini 2.5 Flash",
		Description:  "Fast LLM for prompt refinement and low-latency use.",
		Capabilities: []string{"text"},
	},
	{
		ID:           "gemini-2.5-flash-image",
		Family:       refine.FamilyImage,
		Label:        "Gemini 2.5 Flash Image",
		Description:  "Natively multimodal image generation, editing, and composition.",
		Capabilities: []string{"image", "text-to-image", "image-edit", "composition"},
	},
}

// DefaultModelID 按家族返回默认目标模型
func DefaultModelID(family refine.Family) string {
	if family == refine.FamilyImage {
		return "gemini-2.5-flash-image"
	}
	return "gemini-2.5-pro"
}

// Presets 指令预设目录
var Presets = []InstructionPreset{
	{
		ID:          "image-virtuoso",
		Label:       "Image Prompt Virtuoso",
		Description: "Expert creative director for Gemini 2.5 Flash Image prompts.",
		Family:      refine.FamilyImage,
		Persona:     imageVirtuosoPersona,
	},
	{
		ID:          "llm-refiner",
		Label:       "LLM Prompt Refiner",
		Description: "Structured, model-aware refinement for text LLM prompts.",
		Family:      refine.FamilyText,
		Persona:     llmRefinerPersona,
	},
}

// PresetByID 按 id 查找预设，未找到返回 nil
func PresetByID(id string) *InstructionPreset {
	for i := range Presets {
		if Presets[i].ID == id {
			return &Presets[i]
		}
	}
	return nil
}

// PersonaForFamily 返回家族对应的人格系统指令
func PersonaForFamily(family refine.Family) string {
	if family == refine.FamilyImage {
		if p := PresetByID("image-virtuoso"); p != nil {
			return p.Persona
		}
		return "You are an Image Prompt Virtuoso."
	}
	if p := PresetByID("llm-refiner"); p != nil {
		return p.Persona
	}
	return "You are a meticulous prompt engineer."
}
