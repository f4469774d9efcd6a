package prompt

import (
	"encoding/json"
	"fmt"

	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
)

// AuditorSystem embeds the retrieved (or sentinel) rule passages and
// pins the model to the JSON verdict schema.
func AuditorSystem(rules string) string {
	return fmt.Sprintf(`You are a Brand Compliance Auditor. Your job is to analyze video data based on the provided regulation rules.
Rules context: %s

Return your response in JSON format:
{
    "compliance_result": [
        {
            "category": "string",
            "description": "string",
            "severity": "Warning/Critical/Info",
            "suggestion": "string"
        }
    ],
    "final_status": "success/warning/failed",
    "final_report": "Summary"
}`, rules)
}

// AuditorUser carries the extracted evidence verbatim.
func AuditorUser(metadata []domain.Label, transcript string, ocrText []string) string {
	meta, err := json.Marshal(metadata)
	if err != nil {
		meta = []byte("[]")
	}
	ocr, err := json.Marshal(ocrText)
	if err != nil {
		ocr = []byte("[]")
	}
	return fmt.Sprintf("VIDEO_METADATA : %s\nTRANSCRIPT : %s\nOCR_TEXT : %s", meta, transcript, ocr)
}
