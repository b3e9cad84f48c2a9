package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "wish-lottery-backend/internal/common/errors"
	"wish-lottery-backend/internal/common/logger"
	"wish-lottery-backend/internal/features/wishlist/models"
)

// backupShape is the boundary schema for imported documents. RawMessage
// fields let a missing collection be told apart from a present-but-invalid
// one before anything is typed.
type backupShape struct {
	PresetNames json.RawMessage `json:"presetNames"`
	Wishes      json.RawMessage `json:"wishes"`
}

// headerMarkers flag the first CSV cell as a header row rather than data.
var headerMarkers = []string{"姓名", "名字", "name"}

func (s *wishlistService) Export(ctx context.Context) (*models.BackupDocument, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}
	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	return &models.BackupDocument{
		PresetNames: names,
		Wishes:      wishes,
		ExportTime:  time.Now().UTC().Format(time.RFC3339),
		Version:     models.BackupVersion,
	}, nil
}

// Import validates the document shape, then replaces the whole store with
// its collections. When existing data would be discarded the caller must
// confirm first; until then nothing is applied.
func (s *wishlistService) Import(ctx context.Context, raw []byte, confirm bool) (*models.ImportSummary, error) {
	var shape backupShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, apperrors.NewMalformedBackupError("not a valid JSON document")
	}
	if !isJSONArray(shape.PresetNames) {
		return nil, apperrors.NewMalformedBackupError("presetNames is missing or not an array")
	}
	if !isJSONArray(shape.Wishes) {
		return nil, apperrors.NewMalformedBackupError("wishes is missing or not an array")
	}

	var names []models.PresetName
	if err := json.Unmarshal(shape.PresetNames, &names); err != nil {
		return nil, apperrors.NewMalformedBackupError("presetNames is not an array of names")
	}
	var wishes []models.Wish
	if err := json.Unmarshal(shape.Wishes, &wishes); err != nil {
		return nil, apperrors.NewMalformedBackupError("wishes is not an array of wishes")
	}

	existingNames, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}
	existingWishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	if (len(existingNames) > 0 || len(existingWishes) > 0) && !confirm {
		return nil, apperrors.NewConfirmationRequiredError("import backup", len(existingWishes)).
			WithDetail("existing_names", len(existingNames))
	}

	if names == nil {
		names = []models.PresetName{}
	}
	if wishes == nil {
		wishes = []models.Wish{}
	}

	if err := s.repo.ReplaceAll(ctx, names, wishes); err != nil {
		return nil, apperrors.NewStorageError("replace collections", err)
	}

	logger.Info().
		Int("names", len(names)).
		Int("wishes", len(wishes)).
		Msg("Backup imported")

	return &models.ImportSummary{Names: len(names), Wishes: len(wishes)}, nil
}

// ImportNames reads CSV rows, taking the first column of each row as a
// candidate name. An auto-detected header row is skipped; so is every
// empty or duplicate candidate. Returns the count actually added.
func (s *wishlistService) ImportNames(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Failed to parse CSV")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	start := 0
	if isHeaderRow(rows[0]) {
		start = 1
	}

	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return 0, apperrors.NewStorageError("list names", err)
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n.Name] = true
	}

	added := 0
	for _, row := range rows[start:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			continue
		}
		names = append(names, models.PresetName{ID: uuid.New().String(), Name: name})
		seen[name] = true
		added++
	}

	if added > 0 {
		if err := s.repo.SaveNames(ctx, names); err != nil {
			return 0, apperrors.NewStorageError("save names", err)
		}
	}

	logger.Info().Int("added", added).Msg("Names imported from CSV")
	return added, nil
}

// NameTemplateCSV returns the downloadable template sheet: a header row
// plus sample names.
func (s *wishlistService) NameTemplateCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range [][]string{{"姓名"}, {"张三"}, {"李四"}, {"王五"}} {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

// isJSONArray reports whether raw holds a JSON array. A missing field
// (nil) and a literal null both fail, so an import can never treat an
// absent collection as empty.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	cell := strings.ToLower(strings.TrimSpace(row[0]))
	for _, marker := range headerMarkers {
		if strings.Contains(cell, marker) {
			return true
		}
	}
	return false
}
