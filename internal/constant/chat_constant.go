package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// ChatDailyLimit caps assistant replies per user per day. The counter is reset
// lazily on the first request of a new day.
const ChatDailyLimit = 50

// ChatSystemPromptV1 is the instruction wrapped around retrieved transcript
// passages. The [Episode Name @ MM:SS] format is the citation contract the
// response parser expects.
const ChatSystemPromptV1 = `You are Borrowed Brain, an assistant that answers questions using ONLY the podcast transcript excerpts provided below.

Rules:
- Base every claim on the excerpts. If the excerpts do not contain the answer, say so.
- When you use an excerpt, cite it inline in exactly this format: [Episode Name @ MM:SS]
- Do not invent episode names or timestamps.

Transcript excerpts:
%s`
