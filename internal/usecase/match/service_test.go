package match

import (
	"errors"
	"testing"

	"github.com/oradigit/orderhelper/internal/domain"
	domcat "github.com/oradigit/orderhelper/internal/domain/catalog"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
)

func testCatalog(t *testing.T) domcat.Catalog {
	t.Helper()
	records := []rule.Record{
		{
			Modality: "CT",
			Region:   "Abdomen/Pelvis",
			Contexts: []string{"Acute", "Follow-up"},
			Keywords: []string{"appendicitis", "diverticulitis", "renal colic", "abdominal pain"},
			Header:   "CT Abdomen/Pelvis",
			Reasons:  []string{"CT {region}{contrast_text} for {context} evaluation of {condition}."},
		},
		{
			Modality: "CT",
			Region:   "Chest",
			Contexts: []string{"Acute"},
			Keywords: []string{"pe", "dissection", "hemoptysis"},
			Header:   "CT Chest",
			Reasons:  []string{"CT {region} for {context} evaluation of {condition}."},
		},
		{
			Modality: "CT",
			Region:   "Head",
			Contexts: []string{"Acute"},
			Keywords: []string{"head trauma", "stroke"},
			Header:   "CT Head",
			Reasons:  []string{"Non-contrast CT head for {condition}."},
			Tags:     []string{rule.TagOncologyGeneral},
		},
		{
			Modality: "MRI",
			Region:   "Brain",
			Contexts: []string{"Follow-up"},
			Keywords: []string{"ms", "seizure"},
			Header:   "MRI Brain",
			Reasons:  []string{"MRI {region} for {context} evaluation of {condition}."},
		},
	}
	for i := range records {
		records[i] = records[i].Canonical()
	}
	return domcat.New(records, nil)
}

func TestRankModalityGate(t *testing.T) {
	cat := testCatalog(t)
	svc := New()

	ranked := svc.Rank(cat, query.Query{Modality: "MRI", ConditionText: "seizure"})
	if len(ranked) != 1 {
		t.Fatalf("expected only MRI records past the gate, got %d", len(ranked))
	}
	if ranked[0].Record.Modality != "MRI" {
		t.Fatalf("unexpected modality %q", ranked[0].Record.Modality)
	}
}

func TestRankRegionAndContextScoring(t *testing.T) {
	cat := testCatalog(t)
	svc := New()

	q := query.Query{
		Modality:      "CT",
		Region:        "Abdomen/Pelvis",
		Contexts:      []string{"Acute"},
		ConditionText: "RLQ pain",
	}
	ranked := svc.Rank(cat, q)
	if len(ranked) == 0 {
		t.Fatal("expected ranked results")
	}
	top := ranked[0]
	if top.Record.Header != "CT Abdomen/Pelvis" {
		t.Fatalf("expected abdomen/pelvis on top, got %q", top.Record.Header)
	}
	// Exact region (+4) and exact context (+3).
	if top.Score < 7 {
		t.Fatalf("expected score >= 7, got %v", top.Score)
	}
}

func TestRankAliasExactKeyword(t *testing.T) {
	cat := testCatalog(t)
	svc := New()

	// The record keyword is the abbreviation "pe"; the query spells it out.
	ranked := svc.Rank(cat, query.Query{Modality: "CT", ConditionText: "rule out pulmonary embolism"})
	if len(ranked) == 0 {
		t.Fatal("expected ranked results")
	}
	top := ranked[0]
	if top.Record.Header != "CT Chest" {
		t.Fatalf("expected chest on top, got %q", top.Record.Header)
	}
	if top.Score < 3 {
		t.Fatalf("expected exact keyword points, got %v", top.Score)
	}
	if len(top.MatchedTerms) == 0 || top.MatchedTerms[0] != "pe" {
		t.Fatalf("expected matched term pe, got %v", top.MatchedTerms)
	}
}

func TestRankNoFalseExactOnSharedToken(t *testing.T) {
	cat := domcat.New([]rule.Record{
		rule.Record{
			Modality: "PET/CT",
			Region:   "Skull base to mid-thigh",
			Contexts: []string{"Staging"},
			Keywords: []string{"breast cancer"},
			Header:   "PET/CT Skull Base to Mid-Thigh",
			Reasons:  []string{"FDG PET/CT for {context} of {condition}."},
		}.Canonical(),
	}, nil)
	svc := New()

	ranked := svc.Rank(cat, query.Query{Modality: "PET/CT", ConditionText: "lung cancer"})
	if len(ranked) != 1 {
		t.Fatalf("expected one result, got %d", len(ranked))
	}
	// "lung cancer" and "breast cancer" share a token but are not the same
	// keyword; only the fuzzy bands may award points, never the exact band.
	if ranked[0].Score >= 3 {
		t.Fatalf("shared token must not score as exact keyword, got %v", ranked[0].Score)
	}
}

func TestBestFallsBackBelowFloor(t *testing.T) {
	cat := testCatalog(t)
	svc := New()

	best, err := svc.Best(cat, query.Query{Modality: "CT", ConditionText: "completely unrelated gibberish"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !best.Fallback {
		t.Fatal("expected fallback result")
	}
	if best.Record.Header != "CT Head" {
		t.Fatalf("expected the tagged default record, got %q", best.Record.Header)
	}
	if len(best.MatchedTerms) != 0 {
		t.Fatalf("fallback must carry no matched terms, got %v", best.MatchedTerms)
	}
}

func TestBestEmptyModality(t *testing.T) {
	cat := testCatalog(t)
	svc := New()

	_, err := svc.Best(cat, query.Query{Modality: "Fluoroscopy", ConditionText: "swallow study"})
	if !errors.Is(err, domain.ErrCatalogEmpty) {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
}

func TestInferModality(t *testing.T) {
	cat := testCatalog(t)
	svc := New()

	label, ok := svc.InferModality(cat, query.Query{ConditionText: "multiple sclerosis follow-up", Contexts: []string{"Follow-up"}})
	if !ok {
		t.Fatal("expected an inferred modality")
	}
	if label != "MRI" {
		t.Fatalf("expected MRI, got %q", label)
	}
}

func TestSearchRules(t *testing.T) {
	cat := testCatalog(t)
	svc := New()

	all := svc.SearchRules(cat, "CT", "")
	if len(all) != 3 {
		t.Fatalf("expected all 3 CT records, got %d", len(all))
	}

	hits := svc.SearchRules(cat, "CT", "appendicitis")
	if len(hits) != 1 || hits[0].Header != "CT Abdomen/Pelvis" {
		t.Fatalf("unexpected search hits: %+v", hits)
	}

	none := svc.SearchRules(cat, "MRI", "appendicitis")
	if len(none) != 0 {
		t.Fatalf("expected no MRI hits, got %d", len(none))
	}
}
