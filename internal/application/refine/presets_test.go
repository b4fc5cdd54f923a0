package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/domain/refine"
)

func TestModelCatalog(t *testing.T) {
	require.NotEmpty(t, Models)

	ids := make(map[string]bool, len(Models))
	for _, m := range Models {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Label)
		ids[m.ID] = true
	}
	assert.True(t, ids[DefaultModelID(refine.FamilyText)], "文本默认模型必须在目录里")
	assert.True(t, ids[DefaultModelID(refine.FamilyImage)], "图像默认模型必须在目录里")
	assert.NotEqual(t, DefaultModelID(refine.FamilyText), DefaultModelID(refine.FamilyImage))
}

func TestPresetByID(t *testing.T) {
	preset := PresetByID("image-virtuoso")
	require.NotNil(t, preset)
	assert.Equal(t, refine.FamilyImage, preset.Family)
	assert.NotEmpty(t, preset.Persona)

	assert.Nil(t, PresetByID("does-not-exist"))
}

func TestPersonaForFamily(t *testing.T) {
	imagePersona := PersonaForFamily(refine.FamilyImage)
	textPersona := PersonaForFamily(refine.FamilyText)
	assert.NotEmpty(t, imagePersona)
	assert.NotEmpty(t, textPersona)
	assert.NotEqual(t, imagePersona, textPersona)
}
