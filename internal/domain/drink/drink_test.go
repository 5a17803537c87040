package drink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrink_Projections(t *testing.T) {
	d := &Drink{
		ID:    7,
		Title: "matcha shake",
		Recipe: []Ingredient{
			{Name: "milk", Color: "grey", Parts: 1},
			{Name: "matcha", Color: "green", Parts: 3},
		},
	}

	short := d.Short()
	assert.Equal(t, int64(7), short.ID)
	assert.Equal(t, "matcha shake", short.Title)
	assert.Equal(t, []ShortIngredient{{Color: "grey", Parts: 1}, {Color: "green", Parts: 3}}, short.Recipe)

	long := d.Long()
	assert.Equal(t, d.Recipe, long.Recipe)

	long.Recipe[0].Name = "oat milk"
	assert.Equal(t, "milk", d.Recipe[0].Name)
}

func TestCreateDrinkInput_Validate(t *testing.T) {
	water := []Ingredient{{Name: "water", Color: "blue", Parts: 1}}

	tests := []struct {
		name    string
		input   CreateDrinkInput
		wantErr string
	}{
		{name: "valid", input: CreateDrinkInput{Title: "water", Recipe: water}},
		{name: "blank title", input: CreateDrinkInput{Title: "  ", Recipe: water}, wantErr: errTitleRequired},
		{name: "long title", input: CreateDrinkInput{Title: strings.Repeat("a", MaxTitleLength+1), Recipe: water}, wantErr: "at most 80"},
		{name: "no recipe", input: CreateDrinkInput{Title: "water"}, wantErr: errRecipeRequired},
		{name: "ingredient without name", input: CreateDrinkInput{Title: "x", Recipe: []Ingredient{{Color: "blue", Parts: 1}}}, wantErr: "name is required"},
		{name: "ingredient without color", input: CreateDrinkInput{Title: "x", Recipe: []Ingredient{{Name: "water", Parts: 1}}}, wantErr: "color is required"},
		{name: "zero parts", input: CreateDrinkInput{Title: "x", Recipe: []Ingredient{{Name: "water", Color: "blue"}}}, wantErr: "greater than zero"},
		{
			name: "recipe too long",
			input: CreateDrinkInput{Title: "x", Recipe: []Ingredient{
				{Name: strings.Repeat("n", 100), Color: strings.Repeat("c", 100), Parts: 1},
			}},
			wantErr: "at most 180",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUpdateDrinkInput_Validate(t *testing.T) {
	title := "sparkling water"
	blank := ""

	assert.Error(t, UpdateDrinkInput{}.Validate())
	assert.NoError(t, UpdateDrinkInput{Title: &title}.Validate())
	assert.Error(t, UpdateDrinkInput{Title: &blank}.Validate())
	assert.NoError(t, UpdateDrinkInput{Recipe: []Ingredient{{Name: "water", Color: "blue", Parts: 2}}}.Validate())
	assert.Error(t, UpdateDrinkInput{Recipe: []Ingredient{}}.Validate())
}

func TestDecodeRecipe(t *testing.T) {
	list, err := DecodeRecipe([]byte(`[{"name":"water","color":"blue","parts":1}]`))
	require.NoError(t, err)
	assert.Equal(t, []Ingredient{{Name: "water", Color: "blue", Parts: 1}}, list)

	single, err := DecodeRecipe([]byte(` {"name":"water","color":"blue","parts":1}`))
	require.NoError(t, err)
	assert.Equal(t, list, single)

	_, err = DecodeRecipe([]byte(`null`))
	assert.Error(t, err)

	_, err = DecodeRecipe([]byte(`"water"`))
	assert.Error(t, err)

	encoded, err := EncodeRecipe(list)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"water","color":"blue","parts":1}]`, string(encoded))
}
