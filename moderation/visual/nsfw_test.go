package visual

import (
	"encoding/json"
	"testing"
)

func TestNSFWSummarize(t *testing.T) {
	raw := `{"detections": [
		{"class": "face_f", "score": 0.98},
		{"class": "exposed_breast_f", "score": 0.91},
		{"class": "covered_breast_f", "score": 0.44},
		{"class": "graphic_violence", "score": 0.3}
	]}`

	var respObj NSFWResp
	if err := json.Unmarshal([]byte(raw), &respObj); err != nil {
		t.Fatal(err)
	}

	flagged := respObj.SummarizeUnsafe()
	if len(flagged) != 1 {
		t.Fatalf("expected one flagged category, got %d", len(flagged))
	}
	if flagged[0].Category != "nsfw" || flagged[0].Score != 0.91 {
		t.Fatalf("unexpected flagged result: %+v", flagged[0])
	}
}

func TestNSFWSummarizeClean(t *testing.T) {
	raw := `{"detections": [
		{"class": "face_f", "score": 0.99},
		{"class": "covered_feet", "score": 0.88}
	]}`

	var respObj NSFWResp
	if err := json.Unmarshal([]byte(raw), &respObj); err != nil {
		t.Fatal(err)
	}

	if flagged := respObj.SummarizeUnsafe(); flagged != nil {
		t.Fatalf("expected no flagged categories, got %+v", flagged)
	}
}
