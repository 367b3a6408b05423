package config

import (
	"log/slog"

	"github.com/secmon-lab/bqrun/pkg/infra/policy"
	"github.com/urfave/cli/v2"
)

type Policy struct {
	dir cli.StringSlice
}

func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "policy-dir",
			Aliases:     []string{"p"},
			Usage:       "Directory path of Rego policy files for authorization (data.auth)",
			EnvVars:     []string{"BQRUN_POLICY_DIR"},
			Destination: &x.dir,
		},
	}
}

// Configure returns nil if no policy directory is given.
func (x *Policy) Configure() (*policy.Client, error) {
	if len(x.dir.Value()) == 0 {
		return nil, nil
	}

	var options []policy.Option
	for _, dir := range x.dir.Value() {
		options = append(options, policy.WithDir(dir))
	}

	return policy.New(options...)
}

func (x *Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("policyDir", x.dir.Value()),
	)
}
