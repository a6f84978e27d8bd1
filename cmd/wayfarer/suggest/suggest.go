// Package suggestcmder provides the suggest command for one-shot
// suggestion runs against a saved conversation.
package suggestcmder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/wayfarer/cmd/wayfarer/serve"
	"github.com/papercomputeco/wayfarer/pkg/cliui"
	"github.com/papercomputeco/wayfarer/pkg/config"
	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/logger"
	"github.com/papercomputeco/wayfarer/pkg/suggest"
)

const suggestLongDesc string = `Run a suggestion pipeline once against a saved conversation.

The history file is a JSON array of turns, oldest first:
  [{"role": "user", "content": "Hotels in Lisbon?"},
   {"role": "assistant", "content": "Here are three..."}]

Use "-" to read the history from stdin.

Examples:
  wayfarer suggest functions --history chat.json
  wayfarer suggest followups --history chat.json --provider openai --model gpt-4o-mini
  cat chat.json | wayfarer suggest followups --history - --json`

const suggestShortDesc string = "Suggest functions or follow-up questions for a conversation"

var suggestFlags = []string{
	config.FlagProvider,
	config.FlagModel,
	config.FlagBaseURL,
	config.FlagTemplatesDir,
	config.FlagStrict,
	config.FlagFunctionLimit,
	config.FlagFollowupLimit,
}

type suggestCommander struct {
	kind        string
	historyPath string
	jsonOutput  bool

	provider      string
	model         string
	baseURL       string
	templatesDir  string
	strict        bool
	functionLimit uint
	followupLimit uint

	debug     bool
	configDir string
	cfg       *config.Config
}

func NewSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: suggestShortDesc,
		Long:  suggestLongDesc,
	}

	cmd.AddCommand(newKindCmd(suggest.KindFunctions, "Suggest functions the assistant can offer next"))
	cmd.AddCommand(newKindCmd(suggest.KindFollowups, "Suggest follow-up questions the user may ask next"))

	return cmd
}

func newKindCmd(kind, short string) *cobra.Command {
	cmder := &suggestCommander{kind: kind}

	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.cfg, err = servecmder.LoadConfig(cmd, cmder.configDir, suggestFlags)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.historyPath, "history", "", `Path to a JSON conversation history ("-" for stdin)`)
	cmd.Flags().BoolVar(&cmder.jsonOutput, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("history")

	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagTemplatesDir, &cmder.templatesDir)
	config.AddBoolFlag(cmd, config.Flags, config.FlagStrict, &cmder.strict)
	config.AddUintFlag(cmd, config.Flags, config.FlagFunctionLimit, &cmder.functionLimit)
	config.AddUintFlag(cmd, config.Flags, config.FlagFollowupLimit, &cmder.followupLimit)

	return cmd
}

func (c *suggestCommander) run(cmd *cobra.Command) error {
	l := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
		logger.WithWriter(cmd.ErrOrStderr()),
	)

	history, err := readHistory(c.historyPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	svc, _, err := servecmder.NewService(c.cfg, c.configDir, l)
	if err != nil {
		return err
	}

	var items []string
	err = cliui.Step(cmd.ErrOrStderr(), "Generating "+c.kind, func() error {
		var runErr error
		items, runErr = svc.Run(cmd.Context(), c.kind, suggest.Request{History: history})
		return runErr
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.jsonOutput {
		if items == nil {
			items = []string{}
		}
		return json.NewEncoder(out).Encode(map[string][]string{c.kind: items})
	}

	cliui.List(out, title(c.kind), items)
	return nil
}

func readHistory(path string, stdin io.Reader) ([]llm.ChatTurn, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var turns []llm.ChatTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("parsing history JSON: %w", err)
	}
	return turns, nil
}

func title(kind string) string {
	if kind == suggest.KindFunctions {
		return "Suggested functions"
	}
	return "Suggested follow-ups"
}
