package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/blog-reviewer/internal/bootstrap"
	"github.com/jonesrussell/blog-reviewer/internal/testhelpers"
)

// isolateEnv keeps developer .env files and shell variables out of the test.
func isolateEnv(t *testing.T) {
	t.Helper()

	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	for _, key := range []string{
		"MONGODB_URI", "MONGODB_DATABASE", "MONGODB_OPERATION_TIMEOUT",
		"MONGODB_CONNECT_ATTEMPTS", "BOOTSTRAP_SKIP_SEED", "BOOTSTRAP_SKIP_VALIDATOR_SYNC",
		"METRICS_TEXTFILE", "LOG_LEVEL", "LOG_FORMAT", "APP_DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(testhelpers.Context(t))
	return out.String(), err
}

func TestRootCommand_Tree(t *testing.T) {
	root := NewRootCommand()

	boot, _, err := root.Find([]string{"init"})
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", boot.Name())
	assert.NotNil(t, boot.Flags().Lookup("skip-seed"))
	assert.NotNil(t, boot.Flags().Lookup("metrics-textfile"))

	verify, _, err := root.Find([]string{"verify"})
	require.NoError(t, err)
	assert.Equal(t, "verify", verify.Name())

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blog-reviewer-db version "+Version+"\n", out)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MONGODB_URI", "http://localhost:27017")

	_, err := execute(t, "bootstrap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRenderVerification(t *testing.T) {
	v := &bootstrap.Verification{
		Database: "blog_reviewer",
		Checks: []bootstrap.Check{
			{Collection: "articles", Name: "exists", OK: true},
			{Collection: "articles", Name: "index slug_1", Detail: "missing"},
		},
	}

	var buf bytes.Buffer
	renderVerification(&buf, v)
	out := buf.String()

	assert.Contains(t, strings.ToLower(out), "database: blog_reviewer")
	assert.Contains(t, out, "index slug_1")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, strings.ToLower(out), "1 check failed")
}

func TestSummaryLine(t *testing.T) {
	ok := &bootstrap.Verification{Checks: []bootstrap.Check{{OK: true}}}
	assert.Equal(t, "all checks passed", summaryLine(ok))

	bad := &bootstrap.Verification{Checks: []bootstrap.Check{{}, {}}}
	assert.Equal(t, "2 checks failed", summaryLine(bad))
}

func TestBootstrapAndVerify_EndToEnd(t *testing.T) {
	db := testhelpers.NewDatabase(t)
	isolateEnv(t)
	t.Setenv("MONGODB_URI", testhelpers.MongoURI(t))
	t.Setenv("MONGODB_DATABASE", db.Name())
	t.Setenv("LOG_LEVEL", "error")

	metricsPath := filepath.Join(t.TempDir(), "bootstrap.prom")

	out, err := execute(t, "bootstrap", "--metrics-textfile", metricsPath)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"MongoDB initialization completed successfully!",
		"Database: " + db.Name(),
		"Collections created: articles, authors, reviews",
		"Indexes created for optimal performance",
		"Test author created for development",
	}, "\n")+"\n", out)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `blog_reviewer_db_runs_total{result="success"} 1`)

	// A second run through the alias changes nothing and says so on the last line.
	again, err := execute(t, "init")
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(out, "Test author created for development", "Test author already present", 1), again)

	table, err := execute(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(table), "all checks passed")
}

func TestVerify_FailsAfterIndexDropped(t *testing.T) {
	db := testhelpers.NewDatabase(t)
	isolateEnv(t)
	t.Setenv("MONGODB_URI", testhelpers.MongoURI(t))
	t.Setenv("MONGODB_DATABASE", db.Name())
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "bootstrap")
	require.NoError(t, err)

	ctx := testhelpers.Context(t)
	require.NoError(t, db.Collection("authors").Indexes().DropOne(ctx, "name_1"))

	table, err := execute(t, "verify")
	require.ErrorIs(t, err, errVerificationFailed)
	assert.Contains(t, table, "FAIL")
	assert.Contains(t, table, "name_1")
	assert.Contains(t, strings.ToLower(table), "1 check failed")

	// Bootstrapping again restores the index.
	_, err = execute(t, "bootstrap")
	require.NoError(t, err)
	_, err = execute(t, "verify")
	require.NoError(t, err)
}
