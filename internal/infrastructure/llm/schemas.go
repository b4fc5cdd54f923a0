package llm

import (
	"google.golang.org/genai"

	"prompt-refinery-api/internal/workflow/port"
)

// 结构化输出 schema，约束模型只回严格 JSON

var refineResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"status": {
			Type: genai.TypeString,
			Enum: []string{"ready", "needs_clarification", "error"},
		},
		"previewPrompt":   {Type: genai.TypeString},
		"perfectedPrompt": {Type: genai.TypeString},
		"questions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":   {Type: genai.TypeString},
					"text": {Type: genai.TypeString},
					"options": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"id":          {Type: genai.TypeString},
								"label":       {Type: genai.TypeString},
								"recommended": {Type: genai.TypeBoolean},
								"why":         {Type: genai.TypeString},
							},
							Required:         []string{"id", "label"},
							PropertyOrdering: []string{"id", "label", "recommended", "why"},
						},
					},
				},
				Required:         []string{"id", "text", "options"},
				PropertyOrdering: []string{"id", "text", "options"},
			},
		},
		"recommendedAnswers": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"questionId": {Type: genai.TypeString},
					"optionId":   {Type: genai.TypeString},
				},
				Required:         []string{"questionId", "optionId"},
				PropertyOrdering: []string{"questionId", "optionId"},
			},
		},
		"warnings": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"error": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"code":    {Type: genai.TypeString},
				"message": {Type: genai.TypeString},
			},
			Required:         []string{"code", "message"},
			PropertyOrdering: []string{"code", "message"},
		},
	},
	Required: []string{"status"},
	PropertyOrdering: []string{
		"status",
		"previewPrompt",
		"perfectedPrompt",
		"questions",
		"recommendedAnswers",
		"warnings",
		"error",
	},
}

var previewOnlySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"previewPrompt": {Type: genai.TypeString},
	},
	Required:         []string{"previewPrompt"},
	PropertyOrdering: []string{"previewPrompt"},
}

var finalOnlySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"perfectedPrompt": {Type: genai.TypeString},
	},
	Required:         []string{"perfectedPrompt"},
	PropertyOrdering: []string{"perfectedPrompt"},
}

func schemaFor(kind port.SchemaKind) *genai.Schema {
	switch kind {
	case port.SchemaRefine:
		return refineResponseSchema
	case port.SchemaPreview:
		return previewOnlySchema
	case port.SchemaFinal:
		return finalOnlySchema
	default:
		return nil
	}
}
