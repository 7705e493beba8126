package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/cocoskel/internal/config"
	"github.com/shinji-kodama/cocoskel/internal/model"
	"github.com/shinji-kodama/cocoskel/internal/toolexec/toolexectest"
)

// newTestPipeline returns a pipeline over a recorder that answers the
// SDK listing with the given output.
func newTestPipeline(t *testing.T, listing string) (*Pipeline, *toolexectest.Recorder, *logtest.Hook) {
	t.Helper()

	rec := toolexectest.NewRecorder().On("android", toolexectest.Response{Output: listing})
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(rec, config.Default().Tools, log), rec, hook
}

var testInvocation = &model.Invocation{ProjectName: "MyGame", TargetDir: "/tmp/out", Workdir: "/src"}

// TestRun_EndToEnd checks the exact commands for MyGame, /tmp/out and
// API level 23, and their order.
func TestRun_EndToEnd(t *testing.T) {
	p, rec, _ := newTestPipeline(t, "     API level: 23\n")

	res, err := p.Run(context.Background(), testInvocation)
	require.NoError(t, err)

	scaffold := model.Command{
		Name: "cocos",
		Args: []string{"new", "MyGame", "-p", "23", "-l", "cpp", "-d", "/tmp/out"},
	}
	cmp := model.Command{
		Name: "BCompare",
		Args: []string{"./MyGame", "/tmp/out/MyGame"},
		Dir:  "/src",
	}

	assert.Equal(t, []model.Command{
		{Name: "android", Args: []string{"list", "targets"}},
		scaffold,
		cmp,
	}, rec.Calls())

	assert.Equal(t, 23, res.APILevel)
	assert.Equal(t, scaffold, res.Scaffold)
	assert.Equal(t, cmp, res.Compare)
	assert.False(t, res.DryRun)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	t.Run("parse error spawns nothing else", func(t *testing.T) {
		p, rec, _ := newTestPipeline(t, "Available Android targets:\n")

		_, err := p.Run(context.Background(), testInvocation)

		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitParseError, cliErr.Code)
		assert.Len(t, rec.Calls(), 1)
	})

	t.Run("scaffold failure skips compare", func(t *testing.T) {
		p, rec, _ := newTestPipeline(t, "API level: 23\n")
		toolErr := model.NewCLIError(model.ExitCode(1), "cocos failed")
		rec.On("cocos", toolexectest.Response{Err: toolErr})

		_, err := p.Run(context.Background(), testInvocation)
		assert.Same(t, toolErr, err)
		assert.Len(t, rec.Calls(), 2)
	})

	t.Run("compare failure propagates", func(t *testing.T) {
		p, rec, _ := newTestPipeline(t, "API level: 23\n")
		toolErr := model.NewCLIError(model.ExitCode(6), "BCompare failed")
		rec.On("BCompare", toolexectest.Response{Err: toolErr})

		res, err := p.Run(context.Background(), testInvocation)
		assert.Nil(t, res)
		assert.Same(t, toolErr, err)
		assert.Len(t, rec.Calls(), 3)
	})
}

func TestPlan_DoesNotExecute(t *testing.T) {
	p, rec, _ := newTestPipeline(t, "API level: 25\n")

	res, err := p.Plan(context.Background(), testInvocation)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 25, res.APILevel)
	assert.Equal(t, "cocos new MyGame -p 25 -l cpp -d /tmp/out", res.Scaffold.String())
	assert.Equal(t, "BCompare ./MyGame /tmp/out/MyGame", res.Compare.String())
	assert.Len(t, rec.Calls(), 1, "only the SDK listing runs")
}

func TestRun_ReadsGeneratedProjectType(t *testing.T) {
	target := t.TempDir()
	generated := filepath.Join(target, "MyGame")
	require.NoError(t, os.Mkdir(generated, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(generated, ".cocos-project.json"),
		[]byte(`{"project_type": "lua", "has_native": true}`), 0o644))

	p, _, hook := newTestPipeline(t, "API level: 23\n")
	inv := &model.Invocation{ProjectName: "MyGame", TargetDir: target, Workdir: t.TempDir()}

	res, err := p.Run(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, "lua", res.ProjectType)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned, "a non-cpp project type should be reported")
}

func TestRun_MissingMetadataIsNotFatal(t *testing.T) {
	p, _, _ := newTestPipeline(t, "API level: 23\n")
	inv := &model.Invocation{ProjectName: "MyGame", TargetDir: t.TempDir(), Workdir: t.TempDir()}

	res, err := p.Run(context.Background(), inv)
	require.NoError(t, err)
	assert.Empty(t, res.ProjectType)
}
