package catalog

import (
	"reflect"
	"testing"

	"github.com/oradigit/orderhelper/internal/domain/rule"
)

func TestNew_LastWins(t *testing.T) {
	records := []rule.Record{
		{ID: "ct-abd", Modality: "CT", Header: "CT Abdomen (old)", Region: "Abdomen"},
		{ID: "ct-chest", Modality: "CT", Header: "CT Chest", Region: "Chest"},
		{ID: "ct-abd", Modality: "CT", Header: "CT Abdomen (new)", Region: "Abdomen"},
	}

	cat := New(records, nil)

	if cat.Len() != 2 {
		t.Fatalf("len = %d, want 2", cat.Len())
	}
	// The later record replaces the earlier one in place, keeping merge order.
	if got := cat.Records()[0].Header; got != "CT Abdomen (new)" {
		t.Errorf("records[0].Header = %q", got)
	}
	if got := cat.Records()[1].ID; got != "ct-chest" {
		t.Errorf("records[1].ID = %q", got)
	}
}

func TestNew_DropsUnusable(t *testing.T) {
	cat := New([]rule.Record{
		{Modality: "", Header: "orphan"},
		{Modality: "CT", Header: "CT Head", Region: "Head"},
	}, nil)

	if cat.Len() != 1 {
		t.Errorf("len = %d, want 1", cat.Len())
	}
}

func TestNew_Deterministic(t *testing.T) {
	records := []rule.Record{
		{Modality: "MRI", Header: "MRI Brain", Region: "Brain", Keywords: []string{"ms", "stroke"}},
		{Modality: "CT", Header: "CT Chest", Region: "Chest", Contexts: []string{"Acute"}},
	}
	extra := map[string]Summary{
		"CT":  {Regions: []string{"Abdomen"}},
		"MRI": {Conditions: []string{"tumor"}},
	}

	a := New(records, extra)
	b := New(records, extra)

	if !reflect.DeepEqual(a.Modalities(), b.Modalities()) {
		t.Errorf("modalities differ: %v vs %v", a.Modalities(), b.Modalities())
	}
	sa, _ := a.Summary("CT")
	sb, _ := b.Summary("CT")
	if !reflect.DeepEqual(sa, sb) {
		t.Errorf("summaries differ: %+v vs %+v", sa, sb)
	}
}

func TestSummary_TolerantLookup(t *testing.T) {
	cat := New([]rule.Record{
		{Modality: "PET/CT", Header: "PET/CT Skull to Thigh", Region: "Whole Body"},
	}, nil)

	if _, ok := cat.Summary("pet ct"); !ok {
		t.Error("separator variant should find the modality")
	}
	if _, ok := cat.Summary("Fluoroscopy"); ok {
		t.Error("unknown modality should not resolve")
	}
}

func TestSummary_UnionsExtra(t *testing.T) {
	cat := New(
		[]rule.Record{{Modality: "CT", Header: "CT Chest", Region: "Chest"}},
		map[string]Summary{"CT": {Regions: []string{"Abdomen"}, Contexts: []string{"Staging"}}},
	)

	s, ok := cat.Summary("CT")
	if !ok {
		t.Fatal("missing CT summary")
	}
	if !reflect.DeepEqual(s.Regions, []string{"Abdomen", "Chest"}) {
		t.Errorf("regions = %v", s.Regions)
	}
	if !reflect.DeepEqual(s.Contexts, []string{"Staging"}) {
		t.Errorf("contexts = %v", s.Contexts)
	}
}

func TestFallback(t *testing.T) {
	cat := New([]rule.Record{
		{ID: "ct-chest", Modality: "CT", Header: "CT Chest", Region: "Chest"},
		{ID: "ct-onc", Modality: "CT", Header: "CT CAP", Region: "Chest/Abdomen/Pelvis",
			Tags: []string{rule.TagOncologyGeneral}},
		{ID: "mri-brain", Modality: "MRI", Header: "MRI Brain", Region: "Brain"},
	}, nil)

	// The oncology-general record wins over earlier compatible records.
	r, ok := cat.Fallback("CT")
	if !ok || r.ID != "ct-onc" {
		t.Errorf("Fallback(CT) = %q, %v", r.ID, ok)
	}

	// Without a tagged record the first compatible record in catalog order wins.
	r, ok = cat.Fallback("MRI")
	if !ok || r.ID != "mri-brain" {
		t.Errorf("Fallback(MRI) = %q, %v", r.ID, ok)
	}

	if _, ok := cat.Fallback("US"); ok {
		t.Error("Fallback(US) should not resolve")
	}
}
