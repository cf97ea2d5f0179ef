package suggest

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/oradigit/orderhelper/internal/domain"
	domcat "github.com/oradigit/orderhelper/internal/domain/catalog"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
	"github.com/oradigit/orderhelper/internal/usecase/match"
)

type staticCatalog struct {
	cat domcat.Catalog
	ok  bool
}

func (s staticCatalog) Catalog() (domcat.Catalog, bool) { return s.cat, s.ok }

func fixtureCatalog() domcat.Catalog {
	records := []rule.Record{
		{
			Modality: "CT",
			Region:   "Abdomen/Pelvis",
			Contexts: []string{"Acute symptoms"},
			Keywords: []string{"appendicitis", "rlq"},
			Header:   "CT Abdomen/Pelvis",
			Reasons:  []string{"CT {region}{contrast_text} – {context} for {condition}"},
		},
		{
			Modality: "MRI",
			Region:   "Brain",
			Contexts: []string{"Follow-up"},
			Keywords: []string{"ms", "multiple sclerosis"},
			Header:   "MRI Brain",
			Reasons:  []string{"MRI {region} for {context} evaluation of {condition}."},
		},
	}
	for i := range records {
		records[i] = records[i].Canonical()
	}
	return domcat.New(records, nil)
}

func newService(t *testing.T, cat domcat.Catalog, ok bool) *Service {
	t.Helper()
	return New(staticCatalog{cat: cat, ok: ok}, match.New(), zap.NewNop())
}

func TestSuggestEndToEnd(t *testing.T) {
	svc := newService(t, fixtureCatalog(), true)

	got, err := svc.Suggest(query.Query{
		Modality:      "CT",
		Region:        "Abdomen/Pelvis",
		Contexts:      []string{"Acute symptoms"},
		ConditionText: "RLQ pain",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Indication != "CT Abdomen/Pelvis (with IV contrast) – Acute symptoms for RLQ pain" {
		t.Fatalf("indication = %q", got.Indication)
	}
	if got.Contrast != "with_iv" {
		t.Fatalf("contrast = %q", got.Contrast)
	}
	if got.Header != "CT Abdomen/Pelvis (with IV contrast)" {
		t.Fatalf("header = %q", got.Header)
	}
	if got.Fallback {
		t.Fatal("expected a confident match, not fallback")
	}
	found := false
	for _, c := range got.Codes {
		if c.Code == "R10.31" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected RLQ code suggestion, got %v", got.Codes)
	}
	if !strings.Contains(got.Bundle, "Study: CT Abdomen/Pelvis (with IV contrast)") {
		t.Fatalf("bundle missing study line:\n%s", got.Bundle)
	}
}

func TestSuggestInfersModality(t *testing.T) {
	svc := newService(t, fixtureCatalog(), true)

	got, err := svc.Suggest(query.Query{ConditionText: "multiple sclerosis", Contexts: []string{"Follow-up"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Modality != "MRI" {
		t.Fatalf("expected inferred MRI, got %q", got.Modality)
	}
}

func TestSuggestEmptyCatalog(t *testing.T) {
	svc := newService(t, domcat.Catalog{}, false)

	_, err := svc.Suggest(query.Query{Modality: "CT", ConditionText: "pain"})
	if !errors.Is(err, domain.ErrCatalogEmpty) {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
}

func TestSuggestUnknownModality(t *testing.T) {
	svc := newService(t, fixtureCatalog(), true)

	_, err := svc.Suggest(query.Query{ConditionText: "zzz qqq"})
	if !errors.Is(err, domain.ErrModalityUnknown) {
		t.Fatalf("expected ErrModalityUnknown, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	svc := newService(t, fixtureCatalog(), true)

	hits, err := svc.Search("CT", "appendicitis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Header != "CT Abdomen/Pelvis" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}
