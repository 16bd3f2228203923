package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// StructuredOutputError reports that a generative response could not be
// parsed as structured data. It carries the original text and parser
// diagnostics; when a repair attempt was made and also failed, RepairErr
// names the second failure.
type StructuredOutputError struct {
	Context   string // stage label, e.g. "complete roadmap structure"
	RawText   string // original response text
	ParseErr  error  // strict-parse failure on the original text
	RepairErr error  // failure of the repair attempt, if one was made
}

// Error implements the error interface.
func (e *StructuredOutputError) Error() string {
	if e.RepairErr != nil {
		return fmt.Sprintf("structured output recovery failed for %s: %v (repair attempt: %v)",
			e.Context, e.ParseErr, e.RepairErr)
	}
	return fmt.Sprintf("structured output recovery failed for %s: %v", e.Context, e.ParseErr)
}

// Unwrap returns the original parse failure.
func (e *StructuredOutputError) Unwrap() error {
	return e.ParseErr
}

const repairSystemMessage = `You are a JSON repair expert. Return ONLY valid JSON without markdown, code blocks, or explanations.`

// RecoverStructured parses raw generative output into T. On parse failure
// it issues exactly one repair call through the given client, feeding the
// parser diagnostics back to the model, and parses the repair response.
// There is no third attempt: unbounded retries against a paid external
// service are deliberately avoided. A nil client disables repair.
func RecoverStructured[T any](
	ctx context.Context,
	client LLMClient,
	raw string,
	contextLabel string,
	logger *zap.Logger,
) (T, error) {
	var zero T

	candidate := ExtractCandidateJSON(raw)

	var parsed T
	parseErr := json.Unmarshal([]byte(candidate), &parsed)
	if parseErr == nil {
		return parsed, nil
	}

	logger.Warn("Structured output parse failed, attempting repair",
		zap.String("context", contextLabel),
		zap.String("parse_error", parseErr.Error()),
		zap.Int("candidate_len", len(candidate)))

	if client == nil {
		return zero, &StructuredOutputError{
			Context:  contextLabel,
			RawText:  raw,
			ParseErr: parseErr,
		}
	}

	repairResponse, err := client.GenerateResponse(ctx,
		buildRepairPrompt(candidate, parseErr), repairSystemMessage, GenerateOptions{})
	if err != nil {
		return zero, &StructuredOutputError{
			Context:   contextLabel,
			RawText:   raw,
			ParseErr:  parseErr,
			RepairErr: fmt.Errorf("repair call: %w", err),
		}
	}

	var repaired T
	repairedCandidate := ExtractCandidateJSON(repairResponse)
	if err := json.Unmarshal([]byte(repairedCandidate), &repaired); err != nil {
		return zero, &StructuredOutputError{
			Context:   contextLabel,
			RawText:   raw,
			ParseErr:  parseErr,
			RepairErr: err,
		}
	}

	logger.Info("Structured output repaired",
		zap.String("context", contextLabel))

	return repaired, nil
}

// buildRepairPrompt asks the model to fix the malformed payload, quoting
// the parser's error and an excerpt around the failure offset.
func buildRepairPrompt(candidate string, parseErr error) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("The following JSON is malformed: %q\n", parseErr.Error()))

	var syntaxErr *json.SyntaxError
	if errors.As(parseErr, &syntaxErr) {
		offset := int(syntaxErr.Offset)
		lo := offset - 100
		if lo < 0 {
			lo = 0
		}
		hi := offset + 100
		if hi > len(candidate) {
			hi = len(candidate)
		}
		sb.WriteString(fmt.Sprintf("Error around position %d. Context: %q\n", offset, candidate[lo:hi]))
	}

	sb.WriteString(`
Fix the JSON syntax errors and return ONLY the corrected, valid JSON. No explanations, markdown, or code blocks.

Common issues to fix:
- Trailing commas
- Missing commas
- Unescaped quotes
- Unclosed brackets/braces

Malformed JSON:
`)
	sb.WriteString(candidate)
	sb.WriteString("\n\nReturn the fixed JSON:")

	return sb.String()
}
