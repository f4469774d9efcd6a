package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
	"github.com/bryanwahyu/brand-audit/internal/infra/ai/prompt"
)

// sentinelContext stands in for retrieved rule passages when the vector
// search is unavailable: availability over precision, a transient search
// outage must not block every audit.
const sentinelContext = "No specific regulatory context found. Audit against general brand integrity."

// analyze is the second workflow node: retrieve rule context for the
// transcript, ask the reasoning model for a verdict, parse its JSON.
func (s *Service) analyze(ctx context.Context, state *domain.AuditState) domain.Update {
	log.Printf("audit %s: querying knowledge base and model", state.VideoID)

	if state.Transcript == "" {
		log.Printf("audit %s: no transcript available", state.VideoID)
		return domain.FailureUpdate(
			"No transcript available for analysis",
			"Failed to audit video: no transcript available",
		)
	}

	rules := s.retrieveRules(ctx, state)

	system := prompt.AuditorSystem(rules)
	user := prompt.AuditorUser(state.VideoMetadata, state.Transcript, state.OCRText)

	raw, err := s.Model.Complete(ctx, system, user)
	if err != nil {
		return analysisFailure("model invocation failed: " + err.Error())
	}

	verdict, err := decodeModelJSON(raw)
	if err != nil {
		return analysisFailure(err.Error())
	}

	// a structurally incomplete but valid response still yields a
	// well-formed state
	status := verdict.FinalStatus
	if status == "" {
		status = domain.StatusSuccess
	}
	report := verdict.FinalReport
	if report == "" {
		report = "Audit completed successfully."
	}
	issues := verdict.ComplianceResult
	if issues == nil {
		issues = []domain.ComplianceIssue{}
	}

	return domain.Update{
		ComplianceResult: issues,
		FinalStatus:      status,
		FinalReport:      &report,
	}
}

// retrieveRules runs the top-K similarity search over transcript plus
// OCR text. Retrieval faults are recovered locally with the sentinel
// context and never surfaced as session errors.
func (s *Service) retrieveRules(ctx context.Context, state *domain.AuditState) string {
	query := state.Transcript
	if len(state.OCRText) > 0 {
		query += " " + strings.Join(state.OCRText, " ")
	}

	rctx, cancel := context.WithTimeout(ctx, s.retrievalTimeout())
	defer cancel()

	docs, err := s.Retriever.Search(rctx, query, s.topK())
	if err != nil {
		log.Printf("audit %s: knowledge base search failed, falling back to internal audit model: %v", state.VideoID, err)
		return sentinelContext
	}
	if len(docs) == 0 {
		return sentinelContext
	}
	log.Printf("audit %s: retrieved %d rule passages", state.VideoID, len(docs))
	return strings.Join(docs, "\n\n")
}

func analysisFailure(msg string) domain.Update {
	report := "Audit error: " + msg
	return domain.Update{
		ComplianceResult: []domain.ComplianceIssue{},
		Error:            []string{msg},
		FinalStatus:      domain.StatusFailed,
		FinalReport:      &report,
	}
}

// modelVerdict is the shape the system prompt demands from the model.
type modelVerdict struct {
	ComplianceResult []domain.ComplianceIssue `json:"compliance_result"`
	FinalStatus      domain.Status            `json:"final_status"`
	FinalReport      string                   `json:"final_report"`
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// decodeModelJSON parses the model's raw text, stripping a fenced code
// block if the model wrapped its JSON in one.
func decodeModelJSON(raw string) (modelVerdict, error) {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, "```") {
		m := fencedBlock.FindStringSubmatch(text)
		if m == nil {
			return modelVerdict{}, fmt.Errorf("unterminated code fence in model output")
		}
		text = strings.TrimSpace(m[1])
	}

	var v modelVerdict
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return modelVerdict{}, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	return v, nil
}
