package orderhelper

import (
	"time"

	dommatch "github.com/oradigit/orderhelper/internal/domain/match"
	"github.com/oradigit/orderhelper/internal/domain/query"
	"github.com/oradigit/orderhelper/internal/domain/rule"
	"github.com/oradigit/orderhelper/internal/usecase/codes"
	"github.com/oradigit/orderhelper/internal/usecase/suggest"
)

// Query describes one order request. Modality may be left empty; it is then
// inferred from the condition text against the whole catalog.
type Query struct {
	Modality      string
	Region        string
	Contexts      []string
	ConditionText string
}

func (q Query) toDomain() query.Query {
	return query.Query{
		Modality:      q.Modality,
		Region:        q.Region,
		Contexts:      q.Contexts,
		ConditionText: q.ConditionText,
	}
}

// Record is one catalog rule: the conditions under which a study applies and
// the text emitted when it wins.
type Record struct {
	ID             string
	Modality       string
	Region         string
	Contexts       []string
	Keywords       []string
	Header         string
	Reasons        []string
	PrepNotes      []string
	SupportingDocs []string
	Flags          []string
	Tags           []string
	CPTCodes       []string
	ICD10Codes     []string
}

func (r Record) toDomain() rule.Record {
	return rule.Record{
		ID:             r.ID,
		Modality:       r.Modality,
		Region:         r.Region,
		Contexts:       r.Contexts,
		Keywords:       r.Keywords,
		Header:         r.Header,
		Reasons:        r.Reasons,
		PrepNotes:      r.PrepNotes,
		SupportingDocs: r.SupportingDocs,
		Flags:          r.Flags,
		Tags:           r.Tags,
		CPTCodes:       r.CPTCodes,
		ICD10Codes:     r.ICD10Codes,
	}
}

func recordFromDomain(r rule.Record) Record {
	return Record{
		ID:             r.ID,
		Modality:       r.Modality,
		Region:         r.Region,
		Contexts:       r.Contexts,
		Keywords:       r.Keywords,
		Header:         r.Header,
		Reasons:        r.Reasons,
		PrepNotes:      r.PrepNotes,
		SupportingDocs: r.SupportingDocs,
		Flags:          r.Flags,
		Tags:           r.Tags,
		CPTCodes:       r.CPTCodes,
		ICD10Codes:     r.ICD10Codes,
	}
}

func recordsFromDomain(rs []rule.Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = recordFromDomain(r)
	}
	return out
}

// Code is one suggested billing code.
type Code struct {
	Code  string
	Label string
}

// Suggestion is the full result of one order query.
type Suggestion struct {
	Modality     string
	Header       string
	Indication   string
	Contrast     string
	Codes        []Code
	MatchedTerms []string
	Fallback     bool
	Bundle       string
	Record       Record
}

func suggestionFromDomain(s suggest.Suggestion) Suggestion {
	return Suggestion{
		Modality:     s.Modality,
		Header:       s.Header,
		Indication:   s.Indication,
		Contrast:     s.Contrast,
		Codes:        codesFromDomain(s.Codes),
		MatchedTerms: s.MatchedTerms,
		Fallback:     s.Fallback,
		Bundle:       s.Bundle,
		Record:       recordFromDomain(s.Record),
	}
}

func codesFromDomain(cs []codes.Code) []Code {
	out := make([]Code, len(cs))
	for i, c := range cs {
		out[i] = Code{Code: c.Code, Label: c.Label}
	}
	return out
}

// RankedRecord is one scored catalog record.
type RankedRecord struct {
	Record       Record
	Score        float64
	MatchedTerms []string
}

func rankedFromDomain(rs []dommatch.Result) []RankedRecord {
	out := make([]RankedRecord, len(rs))
	for i, r := range rs {
		out[i] = RankedRecord{
			Record:       recordFromDomain(r.Record),
			Score:        r.Score,
			MatchedTerms: r.MatchedTerms,
		}
	}
	return out
}

// BuildInfo summarizes one catalog build.
type BuildInfo struct {
	Records    int
	Modalities []string
	Warnings   []string
	BuiltAt    time.Time
}
