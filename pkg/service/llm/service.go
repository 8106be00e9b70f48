// Package llm implements the mutation oracle on top of gollem.
package llm

import (
	"bytes"
	"context"
	"embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
)

// Error tags for categorization
var (
	ErrTagEmptyResponse   = goerr.NewTag("empty_response")
	ErrTagTemplateFailure = goerr.NewTag("template_failure")
)

//go:embed templates/*.md
var templateFS embed.FS

// Service asks an LLM for lightly reworded versions of profile text
type Service struct {
	llmClient gollem.LLMClient
}

var _ interfaces.MutationOracle = (*Service)(nil)

// New creates a mutation oracle backed by the given LLM client
func New(llmClient gollem.LLMClient) *Service {
	return &Service{
		llmClient: llmClient,
	}
}

type rewritePromptData struct {
	ContextLabel string
	Original     string
}

// ProposeRewrite asks the model to refresh the original text with minimal
// changes. The response is trimmed but not judged here; callers run
// model.ValidateMutation on whatever comes back.
func (s *Service) ProposeRewrite(ctx context.Context, original, contextLabel string) (string, error) {
	prompt, err := s.renderRewritePrompt(rewritePromptData{
		ContextLabel: contextLabel,
		Original:     original,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to render rewrite prompt",
			goerr.T(ErrTagTemplateFailure))
	}

	ctxlog.From(ctx).Debug("Requesting content rewrite",
		"context", contextLabel,
		"originalLength", len(original))

	session, err := s.llmClient.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session",
			goerr.T(model.TagOracle))
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate rewrite",
			goerr.T(model.TagOracle))
	}

	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return "", goerr.New("empty response from LLM",
			goerr.T(ErrTagEmptyResponse),
			goerr.T(model.TagOracle))
	}

	return strings.TrimSpace(response.Texts[0]), nil
}

// renderRewritePrompt renders the embedded rewrite prompt template
func (s *Service) renderRewritePrompt(data rewritePromptData) (string, error) {
	templateContent, err := templateFS.ReadFile("templates/rewrite.md")
	if err != nil {
		return "", goerr.Wrap(err, "failed to read rewrite template")
	}

	tmpl, err := template.New("rewrite").Parse(string(templateContent))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse rewrite template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute rewrite template")
	}

	return buf.String(), nil
}
