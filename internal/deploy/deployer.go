package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/sirupsen/logrus"
)

// Runner executes the deploy command.
type Runner interface {
	Run(ctx context.Context, command string) error
}

// ShellRunner runs the command through sh -c.
type ShellRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ShellRunner) Run(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

type Result struct {
	Skipped    bool
	Files      int
	LastDeploy time.Time
	Outputs    *BackendOutputs
	EnvFile    string
}

// Deployer pushes the schema when it changed since the last deploy and then
// regenerates the environment file.
type Deployer struct {
	cfg    *config.Config
	env    config.Environment
	runner Runner
	now    func() time.Time
}

func NewDeployer(cfg *config.Config, env config.Environment, runner Runner) *Deployer {
	return &Deployer{cfg: cfg, env: env, runner: runner, now: time.Now}
}

func (d *Deployer) Deploy(ctx context.Context, force bool) (*Result, error) {
	cache, err := LoadCache(d.cfg.DeployCacheFile)
	if err != nil {
		return nil, err
	}

	hashes, err := HashFiles(d.cfg.SchemaGlob)
	if err != nil {
		return nil, fmt.Errorf("hash schema files: %w", err)
	}
	if len(hashes) == 0 {
		logrus.Warnf("no schema files match %s", d.cfg.SchemaGlob)
	}

	res := &Result{Files: len(hashes), LastDeploy: cache.LastDeploy}
	if !force && !cache.LastDeploy.IsZero() && !cache.Changed(hashes) {
		logrus.Infof("schema unchanged since %s, skipping deploy", cache.LastDeploy.Format(time.RFC3339))
		res.Skipped = true
		return res, nil
	}

	logrus.Infof("deploying %s: %s", d.env, d.cfg.DeployCommand)
	if err := d.runner.Run(ctx, d.cfg.DeployCommand); err != nil {
		return nil, fmt.Errorf("deploy command failed: %w", err)
	}

	cache.Hashes = hashes
	cache.LastDeploy = d.now().UTC()
	if err := cache.Save(d.cfg.DeployCacheFile); err != nil {
		return nil, fmt.Errorf("save deploy cache: %w", err)
	}
	res.LastDeploy = cache.LastDeploy

	outputs, path, err := GenerateEnvFile(d.cfg, d.env)
	if err != nil {
		logrus.Warnf("deployed, but could not generate env file: %v", err)
		return res, nil
	}
	res.Outputs = outputs
	res.EnvFile = path
	return res, nil
}

// GenerateEnvFile reads the backend outputs and writes .env.<environment>.
func GenerateEnvFile(cfg *config.Config, env config.Environment) (*BackendOutputs, string, error) {
	outputs, err := ReadBackendOutputs(cfg.BackendMetaFile)
	if err != nil {
		return nil, "", err
	}

	path := config.EnvFileName(env)
	if err := WriteEnvFile(path, outputs); err != nil {
		return nil, "", err
	}
	logrus.Infof("wrote %s", path)
	return outputs, path, nil
}
