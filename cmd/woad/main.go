// Command woad compiles a declarative stage definition and runs
// events through it. Events arrive as NDJSON on stdin and leave as
// NDJSON on stdout, one line per emitted event.
//
//	woad run --stage normalize.yaml < events.ndjson
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ezralim/woad"
	"github.com/ezralim/woad/builder"
	"github.com/ezralim/woad/combinator"
	"github.com/ezralim/woad/operator"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "woad",
		Short:         "Compile and run event normalization stages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	var (
		stageFile string
		stageType string
		trace     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run NDJSON events from stdin through a compiled stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(stageFile, stageType, trace, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&stageFile, "stage", "", "YAML file with the stage definition")
	cmd.Flags().StringVar(&stageType, "stage-type", "normalize", `stage type: "normalize" or "check"`)
	cmd.Flags().BoolVar(&trace, "trace", false, "log trace records to stderr")
	_ = cmd.MarkFlagRequired("stage")
	return cmd
}

func run(stageFile, stageType string, trace bool, in io.Reader, out io.Writer) error {
	raw, err := os.ReadFile(stageFile)
	if err != nil {
		return err
	}
	var def yaml.Node
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return fmt.Errorf("parsing %s: %w", stageFile, err)
	}

	reg := woad.NewRegistry()
	if err := operator.Register(reg); err != nil {
		return err
	}
	if err := combinator.Register(reg); err != nil {
		return err
	}

	tr := woad.NopTracer
	if trace {
		tr = func(msg string) { log.Info(msg) }
	}

	b := builder.New(reg)
	var stage woad.Transformer
	switch stageType {
	case "normalize":
		stage, err = b.Normalize(&def, tr)
	case "check":
		stage, err = b.Check(&def, tr)
	default:
		return fmt.Errorf("unknown stage type %q", stageType)
	}
	if err != nil {
		return fmt.Errorf("compiling %s stage from %s: %w", stageType, stageFile, err)
	}

	enc := json.NewEncoder(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		doc := woad.Document{}
		if err := json.Unmarshal(line, &doc); err != nil {
			log.Error("skipping malformed event", "err", err)
			continue
		}
		for e := range stage(woad.Once(&woad.Event{Doc: doc})) {
			if err := enc.Encode(e.Doc); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
