package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/db"
	"github.com/alexanderramin/roaster/internal/importer"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/logger"
	"github.com/alexanderramin/roaster/internal/repository"
	"github.com/alexanderramin/roaster/internal/teatest"
	"github.com/alexanderramin/roaster/internal/testutil"
)

// testApp wires an App with a temp-dir store and the simulator backend.
func testApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.Workers = 2
	cfg.Model.Trees = 10
	cfg.Generation.Provider = llm.ProviderSimulator
	cfg.Output.Dir = filepath.Join(dir, "output")
	cfg.Store.Path = filepath.Join(dir, "roaster.db")

	return &App{
		LoadConfig: func(string) (config.Config, error) { return cfg, nil },
		OpenStore:  db.OpenDB,
		NewGenerator: func(config.GenerationConfig, *logger.Logger) llm.Generator {
			return llm.NewSimulator()
		},
		In:            strings.NewReader(""),
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs the root command with args and returns stdout.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return 0
}

func writeCSV(t *testing.T, table *importer.Table) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usage.csv")
	require.NoError(t, importer.SaveCSV(path, table))
	return path
}

func TestRunCmd_DemoRecordsHistory(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "run", "--demo", "120")
	require.NoError(t, err)
	assert.Contains(t, out, "ROASTS")
	assert.Contains(t, out, "synthetic")

	out, err = executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "synthetic")
	assert.Contains(t, out, "120")
}

func TestRunCmd_SaveWritesReport(t *testing.T) {
	app := testApp(t)
	outDir := filepath.Join(t.TempDir(), "results")

	out, err := executeCmd(t, app, "run", "--demo", "100", "--save", "--output-dir", outDir, "--no-store")
	require.NoError(t, err)
	assert.Contains(t, out, "Results saved to "+outDir)

	matches, err := filepath.Glob(filepath.Join(outDir, "roast_results_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRunCmd_InvalidInputExitsTwo(t *testing.T) {
	app := testApp(t)
	path := writeCSV(t, testutil.NewTestTable(
		testutil.NewTestRecord(testutil.WithIntensity("nuclear")),
	))

	_, err := executeCmd(t, app, "run", "--input", path, "--no-store")
	require.Error(t, err)
	assert.Equal(t, ExitInvalid, exitCode(err))
}

func TestRunCmd_RejectsUnknownModelKind(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "run", "--model-kind", "svm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree, forest")
}

func TestValidateCmd(t *testing.T) {
	app := testApp(t)

	t.Run("valid file", func(t *testing.T) {
		path := writeCSV(t, testutil.NewValidTable(50, 1))
		out, err := executeCmd(t, app, "validate", "--input", path)
		require.NoError(t, err)
		assert.Contains(t, out, "VALID")
		assert.Contains(t, out, "50")
	})

	t.Run("invalid file", func(t *testing.T) {
		path := writeCSV(t, testutil.NewTestTable(
			testutil.NewTestRecord(testutil.WithIntensity("nuclear")),
		))
		out, err := executeCmd(t, app, "validate", "--input", path)
		require.Error(t, err)
		assert.Equal(t, ExitInvalid, exitCode(err))
		assert.Contains(t, out, "INVALID")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := executeCmd(t, app, "validate", "--input", filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.Equal(t, 0, exitCode(err))
	})
}

func TestComposeCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "compose",
		"--app", "TikTok", "--minutes", "240", "--category", "productivity", "--intensity", "brutal", "--day", "sat")
	require.NoError(t, err)
	assert.Contains(t, out, "TikTok")
	assert.Contains(t, out, "4 hours")
	assert.Contains(t, out, "Saturday")
}

func TestComposeCmd_Generate(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "compose",
		"--app", "Instagram", "--minutes", "90", "--category", "health", "--intensity", "light", "--generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Roast")
}

func TestComposeCmd_InvalidInput(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "compose", "--app", "", "--minutes", "2000", "--category", "nope", "--intensity", "light")
	require.Error(t, err)
	assert.Equal(t, ExitInvalid, exitCode(err))
}

func TestComposeCmd_Preview(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "compose", "--preview",
		"--app", "YouTube", "--minutes", "75", "--category", "social_life", "--intensity", "medium")
	require.NoError(t, err)
	assert.Contains(t, out, "1 hour and 15 minutes")
}

func TestComposeCmd_InteractiveNeedsTerminal(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "compose", "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestPredictCmd_FromSavedModel(t *testing.T) {
	app := testApp(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")

	_, err := executeCmd(t, app, "run", "--demo", "150", "--no-store", "--save-model", modelPath)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "predict", "--model-file", modelPath,
		"--app", "Instagram", "--intensity", "medium", "--day", "Monday")
	require.NoError(t, err)
	assert.Contains(t, out, "Prediction")
	assert.Contains(t, out, "usage_minutes")
}

func TestPredictCmd_MissingFeature(t *testing.T) {
	app := testApp(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")
	_, err := executeCmd(t, app, "run", "--demo", "150", "--no-store", "--save-model", modelPath)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "predict", "--model-file", modelPath, "--app", "Instagram")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing feature")
}

func TestOptionsCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "options", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Instagram")
	assert.Contains(t, out, "brutal")
	assert.Contains(t, out, "simulator")
}

func TestSampleCmd_Stdout(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "sample", "--rows", "5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "userId")
}

func TestSampleCmd_FileIsValid(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "sample.csv")

	_, err := executeCmd(t, app, "sample", "--rows", "40", "--out", path)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "validate", "--input", path)
	require.NoError(t, err)
	assert.Contains(t, out, "VALID")
}

func TestHistoryCmd_ShowAndDelete(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "run", "--demo", "100")
	require.NoError(t, err)

	conn, err := db.OpenDB(app.Config.Store.Path)
	require.NoError(t, err)
	runs, err := repository.NewSQLiteRunRepo(conn).List(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	require.Len(t, runs, 1)
	id := runs[0].ID

	out, err := executeCmd(t, app, "history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "ROASTS")

	out, err = executeCmd(t, app, "history", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run")

	_, err = executeCmd(t, app, "history", "show", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHistoryCmd_ListedIDResolves(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "run", "--demo", "100")
	require.NoError(t, err)

	conn, err := db.OpenDB(app.Config.Store.Path)
	require.NoError(t, err)
	runs, err := repository.NewSQLiteRunRepo(conn).List(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	require.Len(t, runs, 1)
	id := runs[0].ID
	short := id[:8]

	list, err := executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.Contains(t, list, short)

	out, err := executeCmd(t, app, "history", "show", short)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	_, err = executeCmd(t, app, "history", "show", strings.ToUpper(short))
	require.NoError(t, err)

	out, err = executeCmd(t, app, "history", "delete", short)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run")

	_, err = executeCmd(t, app, "history", "show", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHistoryCmd_Empty(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet")
}

func TestScheduleCmd_RejectsBadTime(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "schedule", "--at", "9am")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HH:MM")
}

func TestScheduleCmd_RejectsBadTimezone(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "schedule", "--timezone", "Mars/Olympus")
	require.Error(t, err)
}

func TestEnumValue(t *testing.T) {
	var v string
	e := newEnumValue(&v, "kind", "tree", "forest")

	require.NoError(t, e.Set(" Forest "))
	assert.Equal(t, "forest", v)
	assert.Equal(t, "forest", e.String())

	err := e.Set("svm")
	require.Error(t, err)
	assert.Equal(t, "forest", v)
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]string{
		"monday": "Monday",
		"SAT":    "Saturday",
		" sun ":  "Sunday",
	}
	for in, want := range cases {
		_, got, err := parseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, _, err := parseWeekday("funday")
	assert.Error(t, err)

	f, err := dayFeatures("sat")
	require.NoError(t, err)
	assert.Equal(t, "true", f["is_weekend"])
}

func TestPredictionMinutes(t *testing.T) {
	m, ok := predictionMinutes("usage_minutes", nil, 90)
	assert.True(t, ok)
	assert.InDelta(t, 90, m, 1e-9)

	m, ok = predictionMinutes("engagement_score", map[string]string{"roast_intensity": "brutal"}, 300)
	assert.True(t, ok)
	assert.InDelta(t, 100, m, 1e-9)

	_, ok = predictionMinutes("day_of_month", nil, 3)
	assert.False(t, ok)
}

func TestBrowseModel(t *testing.T) {
	content := strings.Repeat("line\n", 100)
	assert.Equal(t, "Loading...", newBrowseModel("Report", content).View())

	d := teatest.New(t, newBrowseModel("Report", content)).DrainInit().Resize(80, 20)
	bm := d.Model.(browseModel)
	assert.True(t, bm.ready)
	assert.Equal(t, 18, bm.vp.Height)
	assert.Contains(t, d.View(), "REPORT")
	assert.Contains(t, d.View(), "[TOP]")

	d.Key(tea.KeyPgDown)
	assert.False(t, d.Model.(browseModel).vp.AtTop())

	d.Type("q")
	assert.True(t, d.Quitting)
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	err := &ExitError{Code: ExitInvalid, Err: inner}
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())
}
