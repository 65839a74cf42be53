package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	n := Derive("my_example")
	assert.Equal(t, Names{
		Machine:  "my_example",
		Class:    "MyExample",
		Path:     "my/example",
		Bundle:   "my_example_type",
		Template: "my-example",
	}, n)
	assert.Equal(t, "MyExampleType", n.BundleClass())
}

func TestClassName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my_example", "MyExample"},
		{"recipe", "Recipe"},
		{"RECIPE_step", "RecipeStep"},
		{"a_b_c", "ABC"},
		{"image2_source", "Image2Source"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassName(tt.in))
		})
	}
}

func TestPathAndBundle(t *testing.T) {
	assert.Equal(t, "my/example", PathSegment("my_example"))
	assert.Equal(t, "recipe", PathSegment("recipe"))
	assert.Equal(t, "article_type", BundleID("article"))
	assert.Equal(t, "my-example.html.twig", TemplateFile("my_example"))
}

func TestLabelAndUnderscore(t *testing.T) {
	assert.Equal(t, "Image Source", Label("image_source"))
	assert.Equal(t, "Image Source", Label("image  source"))
	assert.Equal(t, "image_source", Underscore("Image Source"))
	assert.Equal(t, "image_source", Underscore(" Image   Source "))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "Recipes", Plural("Recipe"))
	assert.Equal(t, "Blog Posts", Plural("Blog Post"))
	assert.Equal(t, "", Plural(""))
}

func TestValidMachineName(t *testing.T) {
	assert.True(t, ValidMachineName("recipe"))
	assert.True(t, ValidMachineName("recipe_2"))
	assert.False(t, ValidMachineName(""))
	assert.False(t, ValidMachineName("Recipe"))
	assert.False(t, ValidMachineName("2recipe"))
	assert.False(t, ValidMachineName("recipe-step"))
}

func TestModuleFromClass(t *testing.T) {
	m, ok := ModuleFromClass(`Drupal\document\Entity\Document`)
	assert.True(t, ok)
	assert.Equal(t, "document", m)

	m, ok = ModuleFromClass(`\Drupal\kitchen_tools\Entity\Recipe`)
	assert.True(t, ok)
	assert.Equal(t, "kitchen_tools", m)

	_, ok = ModuleFromClass(`Acme\Entity\Document`)
	assert.False(t, ok)

	assert.Equal(t, "Document", ShortClass(`Drupal\document\Entity\Document`))
	assert.Equal(t, "Document", ShortClass("Document"))
	assert.Equal(t, "Memo", Ucfirst("memo"))
}
