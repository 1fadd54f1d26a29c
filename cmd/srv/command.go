package main

import "github.com/urfave/cli/v2"

// loadApp creates an app with sane defaults.
func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "QuizBattle"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startServe,
			Name:        "serve",
			Usage:       "Start the quiz server",
			Flags:       []cli.Flag{configFlag},
			Category:    "Server",
			Description: `Starts the REST api and the websocket endpoint in one process.`,
		},
	}
	s.app = app
}

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "Path to the toml configuration file",
	Value: "config.toml",
}

func (s *srv) startServe(ctx *cli.Context) error {
	if err := s.loadConfig(ctx.String("config")); err != nil {
		return err
	}
	s.loadLogger()
	if err := s.loadDatabase(ctx.Context); err != nil {
		return err
	}
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()
	return s.startServer()
}
