package model

// Settings is the state persisted between automated runs.
type Settings struct {
	Seed        string `json:"seed"`
	Holdings    string `json:"holdings"`
	LastRunDate string `json:"last_run_date"`
}
