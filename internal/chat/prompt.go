package chat

// personaPrompt is the fixed system role definition. It is process-wide, not
// per-user, and always leads the assembled model input.
const personaPrompt = "You are Dante, a versatile and stylish AI assistant with the ability to generate code, " +
	"explain concepts, fetch info, give advice, and more. " +
	"Speak in a confident, witty tone like Dante from Devil May Cry. Keep your responses concise and to the point."

// summaryPrefix wraps the rolling summary when it is injected as a system
// message behind the persona.
const summaryPrefix = "Summary of the conversation so far:\n\n"

// summarizeInstruction is the fixed prompt used when compacting a block of
// old turns into the rolling summary.
const summarizeInstruction = "Summarize the following conversation concisely, capturing key topics and conclusions."

// ApologyReply is what the user sees when the model call fails. The turn log
// is left exactly as it was before the call.
const ApologyReply = "Oops! Dante is having some trouble. Try again in a minute."

// degradedNote is prepended to a reply produced while conversation storage
// was unavailable, so the user knows context may be incomplete.
const degradedNote = "(Heads up: my memory is glitching, so I might be missing some context.)"

// GreetingReply opens every new connection.
const GreetingReply = "Locked and loaded. What's the job?"
