package orderhelper

import (
	"context"
	"strings"
	"testing"
)

func TestCreateStore_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	if _, err := createStore(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOptions_Store(t *testing.T) {
	cfg := &clientConfig{}
	WithValkey("localhost:6379", "secret")(cfg)

	if cfg.driver != "valkey" {
		t.Errorf("driver = %q", cfg.driver)
	}
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.addrs)
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass")(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q", cfg2.driver)
	}
}

func TestOptions_Sources(t *testing.T) {
	cfg := &clientConfig{}
	WithRuleFile("rules/ct.json", "CT")(cfg)
	WithRuleURL("https://example.com/mri.json", "")(cfg)
	WithStoreRules()(cfg)

	if len(cfg.rulePaths) != 1 || cfg.rulePaths[0].hint != "CT" {
		t.Errorf("rulePaths = %+v", cfg.rulePaths)
	}
	if len(cfg.ruleURLs) != 1 || cfg.ruleURLs[0].location != "https://example.com/mri.json" {
		t.Errorf("ruleURLs = %+v", cfg.ruleURLs)
	}
	if !cfg.useStore {
		t.Error("useStore not set")
	}
}

func TestMergeThresholds_PartialOverride(t *testing.T) {
	merged := mergeThresholds(Thresholds{Floor: 5})

	if merged.Floor != 5 {
		t.Errorf("Floor = %v", merged.Floor)
	}
	if merged.RegionStrong != 0.8 {
		t.Errorf("RegionStrong = %v, want stock value", merged.RegionStrong)
	}
	if merged.KeywordWeak != 0.55 {
		t.Errorf("KeywordWeak = %v, want stock value", merged.KeywordWeak)
	}
}

// With no options the client runs on the embedded default catalog, so the
// whole suggest path works offline.
func TestClient_EmbeddedCatalog(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if len(c.Modalities()) == 0 {
		t.Fatal("expected embedded catalog modalities")
	}

	s, err := c.Suggest(Query{
		Modality:      "CT",
		Region:        "Abdomen/Pelvis",
		Contexts:      []string{"Acute"},
		ConditionText: "suspected appendicitis",
	})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if s.Modality != "CT" {
		t.Errorf("modality = %q", s.Modality)
	}
	if s.Contrast != "with_iv" {
		t.Errorf("contrast = %q", s.Contrast)
	}
	if !strings.Contains(s.Indication, "appendicitis") {
		t.Errorf("indication = %q", s.Indication)
	}

	ranked, err := c.Rank(Query{Modality: "CT", ConditionText: "renal colic"})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(ranked) == 0 {
		t.Fatal("expected ranked records")
	}

	rules, err := c.Rules("CT", "appendicitis")
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("expected rule hits")
	}
}

func TestRenderIndication(t *testing.T) {
	r := Record{
		Modality: "CT",
		Region:   "Abdomen/Pelvis",
		Reasons:  []string{"CT {region}{contrast_text} – {context} for {condition}"},
	}
	q := Query{
		Region:        "Abdomen/Pelvis",
		Contexts:      []string{"Acute symptoms"},
		ConditionText: "RLQ pain",
	}

	got := RenderIndication(r, q, "(with IV contrast)")
	want := "CT Abdomen/Pelvis (with IV contrast) – Acute symptoms for RLQ pain"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClient_Ping_NoStore(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("ping without store: %v", err)
	}
}
