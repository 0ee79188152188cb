package segmentrun

const (
	WorkflowName           = "nightly_maintenance"
	ActivityRecomputeAll   = "segment_recompute_all"
	ActivityProvisionCodes = "daily_code_provision"

	// WorkflowID keeps the cron run a singleton per cluster.
	WorkflowID = "nightly-maintenance"

	// DefaultCronSchedule runs at 04:00 UTC, after the last venues close.
	DefaultCronSchedule = "0 4 * * *"
)

type RecomputeResult struct {
	Venues int `json:"venues"`
	Failed int `json:"failed"`
}

type ProvisionResult struct {
	Date       string `json:"date"`
	FreshCodes int    `json:"fresh_codes"`
}
