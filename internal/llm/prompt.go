package llm

import "strings"

// BuildSchedulePrompt composes the system message for the free-form schedule
// extraction mode. The model is asked for a labeled block that
// ParseScheduleBlock can read deterministically.
func BuildSchedulePrompt() string {
	parts := []string{
		"You are a cleaning operations assistant. The user gives you text extracted from an uploaded cleaning or maintenance document.",
		"Identify the cleaning/maintenance schedule it describes and answer with EXACTLY this labeled block and nothing else:",
		"Title: <short schedule title>",
		"Type: <kind of schedule, e.g. Deep Clean, Daily Round>",
		"Frequency: <overall frequency phrase if one is stated>",
		"Area: <area or room if one is stated>",
		"Tasks:",
		"- <task description> (Frequency: <per-task frequency, only if stated>)",
		"  Additional notes: <notes for the task above, only if useful>",
		"Omit any header line you cannot fill. Never write the words 'undefined' or 'null'.",
		"Every task line MUST start with '- '.",
	}
	return strings.Join(parts, "\n")
}

// BuildTaskListPrompt composes the system message for the direct JSON
// task-list extraction mode.
func BuildTaskListPrompt() string {
	parts := []string{
		"You are a cleaning operations assistant. The user gives you text extracted from an uploaded cleaning or maintenance document.",
		"Return ONLY a JSON array of task objects, no prose and no code fences.",
		`Each object: {"taskDescription": string, "frequency": string, "estimatedDuration": string, "area": string}.`,
		"taskDescription is required and must be a concrete cleaning or maintenance action.",
		"frequency is a short phrase like daily, weekly, monthly; omit it if not stated.",
		`estimatedDuration is like "30 minutes" or "1 hour"; omit it if not stated.`,
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// VisionInstruction asks the model to transcribe cleaning-task-relevant text
// from an uploaded image.
const VisionInstruction = "Transcribe all text from this image of a cleaning or maintenance document. " +
	"Keep the document's line structure, bullets and any frequency annotations exactly as written. " +
	"Answer with the transcribed text only."
