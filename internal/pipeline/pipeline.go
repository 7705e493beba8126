// Package pipeline runs the cocoskel steps in their fixed order:
//
//	ResolveLevel -> Scaffold -> Compare
//
// Argument validation happens before the pipeline is entered. There is
// no branching and no recovery: the first failing step ends the run and
// its error is returned unchanged.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cocoskel/internal/android"
	"github.com/shinji-kodama/cocoskel/internal/cocos"
	"github.com/shinji-kodama/cocoskel/internal/compare"
	"github.com/shinji-kodama/cocoskel/internal/config"
	"github.com/shinji-kodama/cocoskel/internal/model"
	"github.com/shinji-kodama/cocoskel/internal/project"
	"github.com/shinji-kodama/cocoskel/internal/toolexec"
)

// Result describes a run. For a dry run the commands are the ones that
// would have been executed.
type Result struct {
	Project   string        `json:"project"`
	TargetDir string        `json:"targetDir"`
	APILevel  int           `json:"apiLevel"`
	Scaffold  model.Command `json:"scaffold"`
	Compare   model.Command `json:"compare"`
	DryRun    bool          `json:"dryRun"`

	// ProjectType is read back from the generated project's
	// .cocos-project.json. Empty when it could not be read.
	ProjectType string `json:"projectType,omitempty"`
}

// Pipeline wires the resolver, scaffolder and launcher together.
type Pipeline struct {
	resolver   *android.Resolver
	scaffolder *cocos.Scaffolder
	launcher   *compare.Launcher
	log        logrus.FieldLogger
}

// New creates a Pipeline whose steps all execute through runner.
func New(runner toolexec.Runner, tools config.Tools, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		resolver:   android.NewResolver(runner, tools.Android, log),
		scaffolder: cocos.NewScaffolder(runner, tools.Cocos),
		launcher:   compare.NewLauncher(runner, tools.Compare),
		log:        log,
	}
}

// Plan resolves the API level and returns the commands a full run
// would execute, without executing them.
func (p *Pipeline) Plan(ctx context.Context, inv *model.Invocation) (*Result, error) {
	level, err := p.resolveLevel(ctx)
	if err != nil {
		return nil, err
	}
	res := p.result(inv, level)
	res.DryRun = true
	return res, nil
}

// Run executes every step in order and blocks until the comparison
// tool exits.
func (p *Pipeline) Run(ctx context.Context, inv *model.Invocation) (*Result, error) {
	level, err := p.resolveLevel(ctx)
	if err != nil {
		return nil, err
	}
	res := p.result(inv, level)

	log := p.log.WithField("step", "scaffold")
	log.Debugf("generating %s for API level %d in %s", inv.ProjectName, level, inv.TargetDir)
	if err := p.scaffolder.Create(ctx, inv, level); err != nil {
		return nil, err
	}
	res.ProjectType = p.projectType(filepath.Join(inv.TargetDir, inv.ProjectName))

	log = p.log.WithField("step", "compare")
	log.Debugf("comparing ./%s with %s", inv.ProjectName, res.Compare.Args[1])
	if err := p.launcher.Launch(ctx, inv); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) resolveLevel(ctx context.Context) (int, error) {
	log := p.log.WithField("step", "resolve")
	level, err := p.resolver.Resolve(ctx)
	if err != nil {
		return 0, err
	}
	log.WithField("apiLevel", level).Debug("android API level resolved")
	return level, nil
}

func (p *Pipeline) result(inv *model.Invocation, level int) *Result {
	return &Result{
		Project:   inv.ProjectName,
		TargetDir: inv.TargetDir,
		APILevel:  level,
		Scaffold:  p.scaffolder.Command(inv, level),
		Compare:   p.launcher.Command(inv),
	}
}

// projectType reports the template of the generated project. The file
// is informational only, so any failure is logged and swallowed.
func (p *Pipeline) projectType(dir string) string {
	meta, err := project.ReadMeta(dir)
	if err != nil {
		if errors.Is(err, project.ErrNoMeta) {
			p.log.Debugf("generated project has no %s", project.MetaFileName)
		} else {
			p.log.WithError(err).Warn("cannot read generated project metadata")
		}
		return ""
	}
	if meta.ProjectType != cocos.TemplateCpp {
		p.log.Warnf("generated project type is %q, expected %q", meta.ProjectType, cocos.TemplateCpp)
	}
	return meta.ProjectType
}
