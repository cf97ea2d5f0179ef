package justify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/oradigit/orderhelper/internal/domain"
)

type fakeCompleter struct {
	lastSystem string
	lastUser   string
	answer     string
	err        error
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.answer, f.err
}

func TestJustify(t *testing.T) {
	fake := &fakeCompleter{answer: "  Appropriateness: high.\nReason: suspected appendicitis.  "}
	svc := New(fake, zap.NewNop())

	got, err := svc.Justify(context.Background(), Request{
		Modality:   "CT",
		Header:     "CT Abdomen/Pelvis (with IV contrast)",
		Indication: "CT Abdomen/Pelvis (with IV contrast) for Acute evaluation of RLQ pain.",
		Condition:  "RLQ pain",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Appropriateness: high.\nReason: suspected appendicitis." {
		t.Fatalf("unexpected answer %q", got)
	}
	if !strings.Contains(fake.lastUser, "Study: CT Abdomen/Pelvis (with IV contrast)") {
		t.Fatalf("prompt missing study line:\n%s", fake.lastUser)
	}
	if !strings.Contains(fake.lastSystem, "Appropriateness") {
		t.Fatal("system prompt missing section instructions")
	}
}

func TestJustifyNoProvider(t *testing.T) {
	svc := New(nil, zap.NewNop())
	if svc.Enabled() {
		t.Fatal("expected disabled service")
	}

	_, err := svc.Justify(context.Background(), Request{Condition: "pain"})
	if !errors.Is(err, domain.ErrJustifyUnavailable) {
		t.Fatalf("expected ErrJustifyUnavailable, got %v", err)
	}
}

func TestJustifyEmptyRequest(t *testing.T) {
	svc := New(&fakeCompleter{answer: "x"}, zap.NewNop())

	_, err := svc.Justify(context.Background(), Request{})
	if !errors.Is(err, domain.ErrJustifyUnavailable) {
		t.Fatalf("expected ErrJustifyUnavailable, got %v", err)
	}
}

func TestJustifyProviderError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("boom")}
	svc := New(fake, zap.NewNop())

	_, err := svc.Justify(context.Background(), Request{Condition: "pain"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected provider error, got %v", err)
	}
}
