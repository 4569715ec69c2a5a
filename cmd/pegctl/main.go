// Command pegctl is a thin demo CLI over pegcore, loading grammar
// configuration from YAML via viper and logging through zap. It exists to
// exercise the driver entry points end to end; it is not part of the
// library's public surface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/scannerless/pegcore"
	"github.com/scannerless/pegcore/pegdemo"
)

func main() {
	root := &cli.Command{
		Name:  "pegctl",
		Usage: "exercise a pegcore demo grammar from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a pegctl.yaml config file"},
			&cli.BoolFlag{Name: "debug", Usage: "use a development (debug-level) logger"},
		},
		Commands: []*cli.Command{
			parseCommand(),
			matchCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pegctl:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (pegcore.Config, error) {
	cfg := pegcore.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}
	if v.IsSet("tab_size") {
		cfg.TabSize = v.GetInt("tab_size")
	}
	if v.IsSet("record_skipped_rules") {
		cfg.RecordSkippedRules = v.GetBool("record_skipped_rules")
	}
	if v.IsSet("use_optimized_whitespace_skip") {
		cfg.UseOptimizedWhitespaceSkip = v.GetBool("use_optimized_whitespace_skip")
	}
	return cfg, nil
}

func newLogger(cmd *cli.Command) *zap.Logger {
	log, err := pegcore.NewLogger(cmd.Bool("debug"))
	if err != nil {
		log = zap.NewNop()
	}
	return log
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse stdin-free literal text against the demo JSON-ish grammar",
		ArgsUsage: "<text>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("parse: expected a text argument")
			}
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			log := newLogger(cmd)
			defer log.Sync() //nolint:errcheck

			grammar := pegdemo.Build(cfg)
			result, err := pegcore.Parse(grammar.Parser, cmd.Args().First(), grammar.Root, nil)
			if err != nil {
				return err
			}
			log.Info("parse succeeded", zap.Int("length", result.Length), zap.Any("value", result.Value))
			fmt.Printf("%+v\n", result.Value)
			return nil
		},
	}
}

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "match a single token pattern from the demo grammar against text",
		ArgsUsage: "<token-alias> <text>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("match: expected a token alias and a text argument")
			}
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			grammar := pegdemo.Build(cfg)
			id, ok := grammar.TokenByAlias(cmd.Args().First())
			if !ok {
				return fmt.Errorf("match: unknown token alias %q", cmd.Args().First())
			}
			el, err := pegcore.MatchToken(grammar.Parser, cmd.Args().Get(1), id)
			if err != nil {
				return err
			}
			fmt.Printf("matched %d bytes: %v\n", el.Length, el.IntermediateValue)
			return nil
		},
	}
}
