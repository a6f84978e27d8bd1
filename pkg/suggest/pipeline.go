// Package suggest holds the suggestion pipelines built on pkg/chain.
package suggest

import (
	"context"
	"log/slog"
	"maps"

	"github.com/papercomputeco/wayfarer/pkg/chain"
	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/logger"
	"github.com/papercomputeco/wayfarer/pkg/utils"
)

const maxLoggedReply = 240

// Pipeline turns a chat history into a suggestion list:
// fan-out inputs, render the prompt, invoke the model deterministically,
// and parse the tagged list out of the reply.
type Pipeline struct {
	def       Definition
	builtin   *chain.Template
	parser    chain.ListParser
	branches  map[string]chain.Stage[[]llm.ChatTurn, string]
	templates *TemplateSet
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStrict makes the pipeline fail when the reply lacks marker tags.
func WithStrict(strict bool) Option {
	return func(p *Pipeline) { p.parser.Strict = strict }
}

// WithTemplates lets overrides in ts replace the built-in template.
func WithTemplates(ts *TemplateSet) Option {
	return func(p *Pipeline) { p.templates = ts }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New builds a Pipeline from def.
func New(def Definition, opts ...Option) *Pipeline {
	branches := make(map[string]chain.Stage[[]llm.ChatTurn, string], len(def.Inputs)+1)
	maps.Copy(branches, def.Inputs)
	branches[HistoryInput] = chain.HistoryStage()

	p := &Pipeline{
		def:      def,
		builtin:  chain.NewTemplate(def.Template),
		parser:   chain.ListParser{Tag: def.Tag},
		branches: branches,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.def.Name }

// Template returns the template currently in effect.
func (p *Pipeline) Template() *chain.Template {
	if p.templates != nil {
		if t, ok := p.templates.Lookup(p.def.Name); ok {
			return t
		}
	}
	return p.builtin
}

// Chain assembles the chain for model m.
func (p *Pipeline) Chain(m llm.Model) *chain.Chain[[]llm.ChatTurn, []string] {
	inputs := chain.FanOut(p.branches)
	prompt := chain.Then(inputs, chain.RenderStage(p.Template))
	reply := chain.Then(prompt, chain.InvokeStage(m))
	logged := chain.Then(reply, chain.Map(p.logReply))
	return chain.New(chain.Then(logged, p.parser.Stage()))
}

func (p *Pipeline) logReply(reply string) (string, error) {
	p.logger.Debug("model replied", "pipeline", p.def.Name, "reply", utils.Truncate(reply, maxLoggedReply))
	return reply, nil
}

// Run executes the pipeline against m. Errors from any stage are
// returned unchanged.
func (p *Pipeline) Run(ctx context.Context, m llm.Model, history []llm.ChatTurn) ([]string, error) {
	items, err := p.Chain(m).Invoke(ctx, history)
	if err != nil {
		p.logger.Debug("suggestion pipeline failed", "pipeline", p.def.Name, "error", err)
		return nil, err
	}

	p.logger.Debug("suggestion pipeline finished", "pipeline", p.def.Name, "turns", len(history), "items", len(items))
	return items, nil
}
