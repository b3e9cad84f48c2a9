package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "wish-lottery-backend/internal/common/errors"
	"wish-lottery-backend/internal/features/wishlist/models"
)

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	amy, err := svc.AddName(ctx, "Amy")
	require.NoError(t, err)
	_, err = svc.AddName(ctx, "Bo")
	require.NoError(t, err)
	_, err = svc.SubmitWish(ctx, amy.ID, "Happy new year to all")
	require.NoError(t, err)

	doc, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Equal(t, models.BackupVersion, doc.Version)
	require.NotEmpty(t, doc.ExportTime)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	// Import into a fresh store reproduces the exported collections.
	fresh := newTestService(t)
	summary, err := fresh.Import(ctx, raw, false)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Names)
	require.Equal(t, 1, summary.Wishes)

	reexported, err := fresh.Export(ctx)
	require.NoError(t, err)
	require.Equal(t, doc.PresetNames, reexported.PresetNames)
	require.Equal(t, doc.Wishes, reexported.Wishes)
}

func TestImportValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing presetNames", `{"wishes": []}`},
		{"missing wishes", `{"presetNames": []}`},
		{"presetNames not an array", `{"presetNames": 42, "wishes": []}`},
		{"wishes not an array", `{"presetNames": [], "wishes": "nope"}`},
		{"null presetNames", `{"presetNames": null, "wishes": []}`},
		{"null wishes", `{"presetNames": [], "wishes": null}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			_, err := svc.AddName(ctx, "Amy")
			require.NoError(t, err)

			_, err = svc.Import(ctx, []byte(tc.raw), true)
			requireCode(t, err, apperrors.ErrCodeMalformedBackup)

			// The store is untouched by a rejected import.
			names, err := svc.ListNames(ctx)
			require.NoError(t, err)
			require.Len(t, names, 1)
			require.Equal(t, "Amy", names[0].Name)
		})
	}
}

func TestImportOverwriteConfirmation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddName(ctx, "Amy")
	require.NoError(t, err)

	raw := []byte(`{"presetNames": [{"id": "1", "name": "Chen"}], "wishes": []}`)

	t.Run("unconfirmed overwrite is withheld", func(t *testing.T) {
		_, err := svc.Import(ctx, raw, false)
		requireCode(t, err, apperrors.ErrCodeConfirmationRequired)

		names, err := svc.ListNames(ctx)
		require.NoError(t, err)
		require.Equal(t, "Amy", names[0].Name)
	})

	t.Run("confirmed import replaces everything", func(t *testing.T) {
		summary, err := svc.Import(ctx, raw, true)
		require.NoError(t, err)
		require.Equal(t, 1, summary.Names)

		names, err := svc.ListNames(ctx)
		require.NoError(t, err)
		require.Len(t, names, 1)
		require.Equal(t, "Chen", names[0].Name)
	})

	t.Run("extra fields are ignored", func(t *testing.T) {
		withExtras := []byte(`{"presetNames": [], "wishes": [], "version": "9.9", "whatever": {"x": 1}}`)
		_, err := svc.Import(ctx, withExtras, true)
		require.NoError(t, err)
	})
}

func TestImportNamesCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("header detected, duplicates skipped", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.AddName(ctx, "张三")
		require.NoError(t, err)

		added, err := svc.ImportNames(ctx, strings.NewReader("姓名\n张三\n张三\n李四\n"))
		require.NoError(t, err)
		require.Equal(t, 1, added)

		names, err := svc.ListNames(ctx)
		require.NoError(t, err)
		require.Len(t, names, 2)
		require.Equal(t, "李四", names[1].Name)
	})

	t.Run("no header row means all rows are data", func(t *testing.T) {
		svc := newTestService(t)
		added, err := svc.ImportNames(ctx, strings.NewReader("Amy\nBo\n"))
		require.NoError(t, err)
		require.Equal(t, 2, added)
	})

	t.Run("latin header marker", func(t *testing.T) {
		svc := newTestService(t)
		added, err := svc.ImportNames(ctx, strings.NewReader("Name\nAmy\n"))
		require.NoError(t, err)
		require.Equal(t, 1, added)
	})

	t.Run("empty cells and blank rows are skipped", func(t *testing.T) {
		svc := newTestService(t)
		added, err := svc.ImportNames(ctx, strings.NewReader("姓名,备注\nAmy,editor\n   ,\nBo,\n"))
		require.NoError(t, err)
		require.Equal(t, 2, added)
	})

	t.Run("empty file adds nothing", func(t *testing.T) {
		svc := newTestService(t)
		added, err := svc.ImportNames(ctx, strings.NewReader(""))
		require.NoError(t, err)
		require.Zero(t, added)
	})
}

func TestNameTemplateCSV(t *testing.T) {
	svc := newTestService(t)
	template := string(svc.NameTemplateCSV())
	require.True(t, strings.HasPrefix(template, "姓名"))
	require.Contains(t, template, "张三")
}
