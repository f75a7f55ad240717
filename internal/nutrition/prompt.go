package nutrition

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are an expert nutritionist. Analyze the following food items and provide detailed nutritional information for each, including calories:
%s.

For each item, provide:
1. The number of calories
2. The macronutrient breakdown (carbs, protein, fats)
3. Any vitamins or minerals present

Format the response like this:
1. Item 1 - calories, carbs, protein, fat, vitamins, minerals
2. Item 2 - calories, carbs, protein, fat, vitamins, minerals
`

// BuildPrompt interpolates items verbatim into the nutritionist template.
func BuildPrompt(items []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(items, ", "))
}
