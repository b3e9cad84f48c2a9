package models

// BackupVersion is the format tag written into exported documents. Import
// does not check it yet; only the single literal version exists.
const BackupVersion = "1.0"

// BackupDocument is the export/import format for the full store.
type BackupDocument struct {
	PresetNames []PresetName `json:"presetNames"`
	Wishes      []Wish       `json:"wishes"`
	ExportTime  string       `json:"exportTime"`
	Version     string       `json:"version"`
}

// ImportSummary reports what an accepted backup import replaced the store
// with.
type ImportSummary struct {
	Names  int `json:"names"`
	Wishes int `json:"wishes"`
}
