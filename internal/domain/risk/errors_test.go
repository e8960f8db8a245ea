package risk

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := MissingIndicator("VIX")
	if !errors.Is(err, ErrMissingIndicator) {
		t.Fatalf("expected missing indicator kind")
	}
	if errors.Is(err, ErrUnknownIndicator) {
		t.Fatalf("kinds must not cross-match")
	}
	if KindOf(err) != KindMissingIndicator {
		t.Fatalf("unexpected kind %s", KindOf(err))
	}
}

func TestKindMatchingThroughWrap(t *testing.T) {
	err := fmt.Errorf("assess: %w", SchemaMismatch(3, 18))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch through wrap")
	}
}

func TestInferenceUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Inference(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected underlying cause to unwrap")
	}
	if KindOf(err) != KindInference {
		t.Fatalf("unexpected kind %s", KindOf(err))
	}
}

func TestKindOfNonRiskError(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("expected empty kind for non-risk error")
	}
}
