package constant

// Transcript.status state machine:
// not_synced/absent -> queued -> syncing -> {synced | failed}; failed -> queued
// on retry. "synced" is terminal and short-circuits every later sync request.
const (
	TranscriptStatusNotSynced = "not_synced"
	TranscriptStatusQueued    = "queued"
	TranscriptStatusSyncing   = "syncing"
	TranscriptStatusSynced    = "synced"
	TranscriptStatusFailed    = "failed"
)

const (
	TranscriptSourceCatalog      = "catalog"
	TranscriptSourceSpeechToText = "speech_to_text"
)

const (
	SyncJobStatusQueued     = "queued"
	SyncJobStatusProcessing = "processing"
	SyncJobStatusCompleted  = "completed"
	SyncJobStatusFailed     = "failed"
)

// SyncOutcome values returned by SyncService.SyncEpisode.
const (
	SyncOutcomeLinkedInstantly = "linked_instantly"
	SyncOutcomeJobTriggered    = "job_triggered"
	SyncOutcomeRejected        = "rejected"
)
