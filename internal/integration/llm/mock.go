package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns canned, deterministic text shaped like real model output
type MockConnector struct {
	logger *zap.Logger
	calls  atomic.Int64
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) SetAPIKey(string) {}

func (m *MockConnector) HasCredential() bool {
	return true
}

func (m *MockConnector) DefaultModel() string {
	return "mock"
}

// Calls returns how many generation calls were served
func (m *MockConnector) Calls() int64 {
	return m.calls.Load()
}

var chapterCountRe = regexp.MustCompile(`(?i)(nombre de chapitres|number of modules|no\. of modules)\s*:\s*(\d+)`)

func (m *MockConnector) Generate(ctx context.Context, prompt, model string) (string, error) {
	m.calls.Add(1)

	var result string
	switch {
	case strings.Contains(prompt, "Prompter"):
		result = m.refinedPrompt(prompt)
	case strings.Contains(prompt, "QCM") || strings.Contains(prompt, "multiple-choice"):
		result = mockQuiz(strings.Contains(prompt, "QCM"))
	case strings.Contains(prompt, "plan complet") || strings.Contains(prompt, "outline for a course"):
		result = mockOutline(prompt)
	default:
		result = mockChapter(prompt)
	}

	ctxzap.Info(ctx, "[MOCK] generation served",
		zap.String("model", model),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("result_length", len(result)),
	)
	return result, nil
}

func (m *MockConnector) refinedPrompt(prompt string) string {
	count := 3
	if match := chapterCountRe.FindStringSubmatch(prompt); match != nil {
		count, _ = strconv.Atoi(match[2])
	}
	if strings.Contains(prompt, "Tu es Prompter") {
		return fmt.Sprintf("Crée un plan complet pour une formation.\nNombre de chapitres : %d\n", count)
	}
	return fmt.Sprintf("Create a complete outline for a course.\nNumber of modules: %d\n", count)
}

func mockOutline(prompt string) string {
	count := 3
	french := !strings.Contains(prompt, "outline for a course") && !strings.Contains(prompt, "Number of modules")
	if match := chapterCountRe.FindStringSubmatch(prompt); match != nil {
		count, _ = strconv.Atoi(match[2])
	}

	var sb strings.Builder
	marker := "Module"
	if french {
		marker = "Chapitre"
		sb.WriteString("Prérequis : aucun\nObjectif final : maîtriser le sujet\n\n")
	} else {
		sb.WriteString("Prerequisites: none\nFinal objective: master the topic\n\n")
	}
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&sb, "%s %d: Partie %d (MOCK)\n", marker, i, i)
		sb.WriteString("  - description détaillée\n")
	}
	sb.WriteString("\nConclusion (MOCK)\n")
	return sb.String()
}

func mockChapter(prompt string) string {
	title := prompt
	if i := strings.IndexByte(prompt, '\n'); i > 0 {
		title = prompt[:i]
	}
	return "Introduction (MOCK)\n" + title + "\n\nContenu principal, exemples et résumé."
}

func mockQuiz(french bool) string {
	if french {
		return "Question : Quelle est la bonne réponse ?\nA. Option 1\nB. Option 2\nC. Option 3\nD. Option 4\nRéponse : A"
	}
	return "Question: Which answer is right?\nA. Option 1\nB. Option 2\nC. Option 3\nD. Option 4\nAnswer: A"
}
