package cmd

import (
	"github.com/secmon-lab/bqrun/pkg/controller/cmd/config"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/utils"

	"github.com/urfave/cli/v2"
)

func Run(argv []string) error {
	var (
		logger config.Logger
	)

	app := cli.App{
		Name:        "bqrun",
		Description: "Run SQL stored in Google Cloud Storage as a BigQuery query job into a destination table",
		Version:     types.AppVersion,
		Flags:       mergeFlags([]cli.Flag{}, logger.Flags()),
		Before: func(c *cli.Context) error {
			logger, err := logger.Configure()
			if err != nil {
				return err
			}
			utils.SetLogger(logger)

			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			execCommand(),
			clientCommand(),
		},
	}

	if err := app.Run(argv); err != nil {
		utils.Logger().Error("failed to run command", utils.ErrLog(err))
		return err
	}

	return nil
}
