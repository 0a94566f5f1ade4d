package metrics

import "testing"

func TestMetricFieldKeysAreStable(t *testing.T) {
	if AttrMethod == "" || AttrPath == "" || AttrStatus == "" || AttrProvider == "" {
		t.Fatalf("expected metric attribute keys to be non-empty")
	}
	if OutcomeOK == "" || OutcomeError == "" || OutcomeRejected == "" {
		t.Fatalf("expected outcome values to be non-empty")
	}
}
