package repair_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"webplatform/internal/database"
	"webplatform/internal/models"
	"webplatform/internal/repair"
)

type recordingOutput struct {
	infos    []string
	warnings []string
}

func (o *recordingOutput) Info(message string)    { o.infos = append(o.infos, message) }
func (o *recordingOutput) Warning(message string) { o.warnings = append(o.warnings, message) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	return db
}

func langRows(t *testing.T, db *gorm.DB) []models.Preference {
	t.Helper()
	var rows []models.Preference
	require.NoError(t, db.Where("appid = ? AND configkey = ?", "core", "lang").Order("userid").Find(&rows).Error)
	return rows
}

func TestUpdateFinishLanguageCode(t *testing.T) {
	db := newTestDB(t)

	users := []models.Preference{
		{UserID: "user1", AppID: "core", ConfigKey: "lang", ConfigValue: "fi_FI"},
		{UserID: "user2", AppID: "core", ConfigKey: "lang", ConfigValue: "de"},
		{UserID: "user3", AppID: "core", ConfigKey: "lang", ConfigValue: "fi"},
		{UserID: "user4", AppID: "core", ConfigKey: "lang", ConfigValue: "ja"},
		// Not a language preference
		{UserID: "user5", AppID: "core", ConfigKey: "locale", ConfigValue: "fi_FI"},
		{UserID: "user6", AppID: "calendar", ConfigKey: "lang", ConfigValue: "fi_FI"},
	}
	require.NoError(t, db.Create(&users).Error)
	require.Equal(t, users[:4], langRows(t, db))

	step := repair.NewUpdateFinishLanguageCode(db)
	assert.Equal(t, "Repair language code for fi_FI to fi", step.Name())

	out := &recordingOutput{}
	require.NoError(t, step.Run(context.Background(), out))
	assert.Equal(t, []string{`Changed 1 setting(s) from "fi_FI" to "fi" in properties table.`}, out.infos)

	// value has changed for one user
	want := append([]models.Preference(nil), users[:4]...)
	want[0].ConfigValue = "fi"
	assert.Equal(t, want, langRows(t, db))

	var untouched []models.Preference
	require.NoError(t, db.Where("userid IN ?", []string{"user5", "user6"}).Order("userid").Find(&untouched).Error)
	assert.Equal(t, users[4:], untouched)

	out = &recordingOutput{}
	require.NoError(t, step.Run(context.Background(), out))
	assert.Equal(t, []string{`Changed 0 setting(s) from "fi_FI" to "fi" in properties table.`}, out.infos)
}

func TestUpdateFinishLanguageCode_DatabaseError(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	out := &recordingOutput{}
	err = repair.NewUpdateFinishLanguageCode(db).Run(context.Background(), out)
	assert.Error(t, err)
	assert.Empty(t, out.infos)
}

type stubStep struct {
	name string
	err  error
	ran  *[]string
}

func (s stubStep) Name() string { return s.name }
func (s stubStep) Run(_ context.Context, out repair.Output) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestRunner(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	runner := repair.NewRunner(
		stubStep{name: "one", ran: &ran},
		stubStep{name: "two", err: boom, ran: &ran},
		stubStep{name: "three", ran: &ran},
	)
	assert.Len(t, runner.Steps(), 3)

	out := &recordingOutput{}
	err := runner.Run(context.Background(), out)

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"two"`)
	assert.Equal(t, []string{"one", "two"}, ran)
	assert.Equal(t, []string{"Repair step: one", "Repair step: two"}, out.infos)
}

func TestLoggerOutput(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	out := repair.LoggerOutput{Logger: zap.New(core)}

	out.Info("hello")
	out.Warning("careful")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestConsoleOutput(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	out := repair.NewConsoleOutput(&buf)

	out.Info("Changed 1 setting(s)")
	out.Warning("slow")

	assert.Equal(t, " - Changed 1 setting(s)\nWARNING: slow\n", buf.String())
}
