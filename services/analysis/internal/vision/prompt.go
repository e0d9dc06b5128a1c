package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

const analysisPrompt = `You are looking at a flyer, poster or social media image that may advertise an event.
Extract the event details and reply with one JSON object using exactly these keys:
  "is_event": boolean,
  "title": string or null,
  "description": string or null,
  "date": "YYYY-MM-DD" or null,
  "start_time": "HH:MM" or null,
  "end_time": "HH:MM" or null,
  "venue": string or null,
  "address": string or null,
  "city": string or null,
  "price": string or null,
  "category": string or null,
  "organizer": string or null,
  "tags": array of strings,
  "confidence": number between 0 and 1
Use null for anything that is not visible in the image. Do not invent details.`

const systemInstruction = "You must respond with valid JSON only. Do not include any text outside the JSON object."

func buildPrompt(titleHint string) string {
	titleHint = strings.TrimSpace(titleHint)
	if titleHint == "" {
		return analysisPrompt
	}
	return fmt.Sprintf("%s\n\nThe accompanying title or caption is:\n%q\nUse it only to disambiguate what the image shows.", analysisPrompt, titleHint)
}

// parseModelJSON strips markdown fences some models wrap around JSON output.
func parseModelJSON(text string) (map[string]interface{}, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	if cleaned == "" {
		return nil, fmt.Errorf("model returned an empty response")
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("model response is not a JSON object: %w", err)
	}
	return out, nil
}
