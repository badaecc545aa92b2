package llm

import "fmt"

const enhanceSystemPrompt = `You are a prompt enhancement specialist. The user wants to make changes to their website. Enhance their request to be more specific and actionable for a web developer.

Enhance this by:
1. Being specific about what elements to change
2. Mentioning design details (colors, spacing, sizes)
3. Clarifying the desired outcome
4. Using clear technical terms

Return ONLY the enhanced request, nothing else. Keep it concise (1-2 sentences).`

const generateSystemPrompt = `You are an expert web developer.

CRITICAL REQUIREMENTS:
- Return ONLY the complete updated HTML code with the requested changes.
- Use Tailwind CSS for ALL styling (NO custom CSS).
- Use Tailwind utility classes for all styling changes.
- Include all JavaScript in <script> tags before closing </body>
- Make sure it's a complete, standalone HTML document with Tailwind CSS
- Return the HTML Code Only, nothing else

Apply the requested changes while maintaining the Tailwind CSS styling approach.`

// EnhancePrompt returns the system and user messages for the
// prompt-enhancement call.
func EnhancePrompt(message string) (system, user string) {
	return enhanceSystemPrompt, fmt.Sprintf("User's request: %q", message)
}

// GeneratePrompt returns the system and user messages for the
// code-generation call, pairing the project's current HTML with the
// enhanced instruction.
func GeneratePrompt(currentCode, enhanced string) (system, user string) {
	return generateSystemPrompt, fmt.Sprintf("Here is the current website code: %q The user wants this change: %q", currentCode, enhanced)
}
