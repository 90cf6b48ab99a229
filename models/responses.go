package models

type JsonErrorResponse struct {
	EventName    string `json:"event"`
	ErrorMessage string `json:"error_message"`
}

type JsonResponse struct {
	Message string `json:"message"`
}

type PlatformVersionResponse struct {
	UDID            string `json:"udid"`
	PlatformVersion string `json:"platform_version"`
	Layout          string `json:"layout"`
}

type FreshnessResponse struct {
	UDID    string   `json:"udid"`
	Fresh   bool     `json:"fresh"`
	Checked []string `json:"checked"`
	Missing []string `json:"missing,omitempty"`
}

type AppDataDirResponse struct {
	UDID     string `json:"udid"`
	BundleID string `json:"bundle_id"`
	DataDir  string `json:"data_dir"`
}

type WarmUpResponse struct {
	UDID      string   `json:"udid"`
	Populated bool     `json:"populated"`
	Attempts  int      `json:"attempts"`
	Missing   []string `json:"missing,omitempty"`
}
