package types

// SaveResult is the per-image record the save operation returns.
type SaveResult struct {
	Filename    string `json:"filename"`
	ObjectKey   string `json:"object_key"`
	URL         string `json:"url"`
	Bucket      string `json:"bucket"`
	Profile     string `json:"profile"`
	Timestamp   string `json:"timestamp"`    // shared across the batch, YYYYMMDD_HHMMSS
	BatchNumber int    `json:"batch_number"` // zero-based index within the batch
}

// ObjectRecord is one entry in a listing result.
type ObjectRecord struct {
	ObjectName   string  `json:"object_name"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified"` // RFC3339, nil when unknown
	ETag         string  `json:"etag"`
}

// ProfileStatus summarizes one profile for the config-info report.
type ProfileStatus struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Endpoint    string `json:"endpoint"`
	Configured  bool   `json:"configured"` // false while a credential still holds a placeholder
}

// ConfigReport is the config-info payload. It is informational only and
// is produced even when the config file is missing or malformed.
type ConfigReport struct {
	ConfigFilePath string          `json:"config_file_path"`
	ConfigExists   bool            `json:"config_exists"`
	Profiles       []ProfileStatus `json:"profiles"`
	Instructions   []string        `json:"instructions"`
}
