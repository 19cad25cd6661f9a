// Package prompt assembles the system prompt and the bounded project context sent to the model.
package prompt

import (
	"github.com/JackVanta/VantaSDK/internal/models"
)

// BasePrompt fixes the response contract: a single JSON object, nothing else.
const BasePrompt = `You are Vanta Builder, an AI coding assistant. You MUST respond with ONLY valid JSON, no markdown, no code fences, no extra text.

RESPONSE FORMAT - You MUST return this exact JSON structure:
{
  "message": "Brief explanation of what you did",
  "files": [{"path": "relative/path.tsx", "content": "full file content"}],
  "open": ["path/to/open.tsx"],
  "active": "path/to/active.tsx"
}

RULES:
1. ALWAYS return valid JSON only - no markdown fences, no backticks, no prose before or after
2. When the user asks to BUILD, CREATE or MAKE something, you MUST generate file content
3. Include the FULL file content in the files array, never partial or truncated content
4. Use relative paths such as app/page.tsx, lib/utils.ts, components/MyComponent.tsx
5. Keep the file count small (3-8 files) unless the user needs more
6. "message" is a short summary of one or two sentences
7. "open" lists the files to open in editor tabs
8. "active" is the primary file to show
9. When only chatting or explaining, with no file changes, return: {"message":"your answer","files":[],"open":[],"active":""}

Available Vanta SDK imports (when relevant):
- VantaClient from '@vanta/sdk'
- vantaMiddleware from '@vanta/sdk/next'
- Types: VantaConfig, PaymentChallenge, AccessToken`

// ModeInstructions returns the prompt suffix for a mode. Chat and unknown modes add nothing.
func ModeInstructions(mode models.Mode) string {
	switch mode {
	case models.ModeGenerate:
		return "\n\nUser wants to GENERATE new code. Create complete, working code and output as JSON file patch."
	case models.ModeFix:
		return "\n\nUser wants to FIX a bug or issue. Identify the problem, explain briefly, and output fixed code as JSON file patch."
	case models.ModeRefactor:
		return "\n\nUser wants to REFACTOR code. Improve code quality/patterns and output as JSON file patch."
	case models.ModeExplain:
		return "\n\nUser wants an EXPLANATION. Explain the code clearly without making changes."
	default:
		return ""
	}
}

// SystemPrompt joins the base prompt, the project context when files were sent, and the mode suffix.
func SystemPrompt(project *models.ProjectContext, mode models.Mode, maxChars int) string {
	system := BasePrompt
	if project != nil && project.Files != nil {
		system += "\n\nProject context:\n" + BuildContext(project.Files, project.ActiveFile, maxChars)
	}
	return system + ModeInstructions(mode)
}
