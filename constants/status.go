package constants

// RunStatus is the canonical status for a scan run as it moves through the
// pipeline. Surfaced in logs and batch summaries.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "QUEUED"     // waiting in the batch queue
	RunStatusRunning   RunStatus = "RUNNING"    // in progress
	RunStatusExtractOK RunStatus = "EXTRACT_OK" // stage 1 completed (text extracted)
	RunStatusAnalyzed  RunStatus = "ANALYZED"   // stage 2 completed (structured result recovered)
	RunStatusRawOnly   RunStatus = "RAW_ONLY"   // stage 2 completed but output was not recoverable
	RunStatusFailed    RunStatus = "FAILED"     // terminal failure
)
