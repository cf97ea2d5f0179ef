package text

// aliases maps a canonical clinical term to its synonyms. Expansion is
// symmetric: matching any member of a group pulls in the whole group, so a
// rule authored with the keyword "pe" matches a query that spells out
// "pulmonary embolism" and vice versa. All entries are stored normalized.
var aliases = map[string][]string{
	"pe":     {"pulmonary embolism"},
	"nsclc":  {"non small cell lung cancer", "non small cell lung carcinoma"},
	"sclc":   {"small cell lung cancer"},
	"hnscc":  {"head and neck squamous cell carcinoma", "head and neck cancer"},
	"fuo":    {"fever of unknown origin"},
	"cva":    {"stroke", "cerebrovascular accident"},
	"tia":    {"transient ischemic attack"},
	"dvt":    {"deep vein thrombosis", "deep venous thrombosis"},
	"mi":     {"myocardial infarction", "heart attack"},
	"ms":     {"multiple sclerosis"},
	"ftd":    {"frontotemporal dementia", "frontotemporal"},
	"crc":    {"colorectal cancer", "colon cancer"},
	"hcc":    {"hepatocellular carcinoma", "liver cancer"},
	"rcc":    {"renal cell carcinoma", "kidney cancer"},
	"rlq":    {"right lower quadrant"},
	"ruq":    {"right upper quadrant"},
	"llq":    {"left lower quadrant"},
	"luq":    {"left upper quadrant"},
	"uti":    {"urinary tract infection"},
	"sob":    {"shortness of breath", "dyspnea"},
	"tbi":    {"traumatic brain injury"},
	"gbm":    {"glioblastoma", "glioblastoma multiforme"},
	"mets":   {"metastasis", "metastases", "metastatic disease"},
	"afib":   {"atrial fibrillation"},
	"chf":    {"congestive heart failure", "heart failure"},
	"copd":   {"chronic obstructive pulmonary disease"},
	"ibd":    {"inflammatory bowel disease"},
	"dcis":   {"ductal carcinoma in situ"},
	"stone":  {"renal colic", "kidney stone", "nephrolithiasis", "urolithiasis"},
	"osteo":  {"osteomyelitis"},
	"endo":   {"endocarditis"},
	"append": {"appendicitis"},
}

// groups indexes every member (canonical key included) to its full group,
// built once at package load.
var groups = buildGroups()

func buildGroups() map[string][]string {
	idx := make(map[string][]string, len(aliases)*3)
	for key, syns := range aliases {
		group := make([]string, 0, len(syns)+1)
		group = append(group, Normalize(key))
		for _, s := range syns {
			group = append(group, Normalize(s))
		}
		for _, member := range group {
			idx[member] = group
		}
	}
	return idx
}

// Set is a normalized term set.
type Set map[string]struct{}

// Has reports whether the normalized form of term is in the set.
func (s Set) Has(term string) bool {
	_, ok := s[Normalize(term)]
	return ok
}

// Intersects reports whether the two sets share any term.
func (s Set) Intersects(other Set) bool {
	for t := range s {
		if _, ok := other[t]; ok {
			return true
		}
	}
	return false
}

// Expand normalizes terms and returns the superset including every known
// synonym group any term belongs to. Individual tokens of multi-word terms
// are included as well, so phrase members like "pulmonary embolism" inside a
// longer sentence still trigger their group.
func Expand(terms []string) Set {
	set := make(Set, len(terms)*2)
	for _, t := range terms {
		n := Normalize(t)
		if n == "" {
			continue
		}
		set[n] = struct{}{}
		for _, tok := range Tokens(n) {
			set[tok] = struct{}{}
		}
		// Phrases found inside the term count too: scan every group member.
		for member, group := range groups {
			if member == n || containsPhrase(n, member) {
				for _, g := range group {
					set[g] = struct{}{}
				}
			}
		}
	}
	return set
}

// Variants returns the normalized term plus its full synonym group, without
// token splitting. Used for exact-membership tests against an expanded set:
// a keyword matches when any of its variants appears in the query set.
func Variants(term string) []string {
	n := Normalize(term)
	if n == "" {
		return nil
	}
	if group, ok := groups[n]; ok {
		return group
	}
	return []string{n}
}

// containsPhrase reports whether phrase occurs in s on token boundaries.
func containsPhrase(s, phrase string) bool {
	if len(phrase) >= len(s) || phrase == "" {
		return false
	}
	padded := " " + s + " "
	needle := " " + phrase + " "
	for i := 0; i+len(needle) <= len(padded); i++ {
		if padded[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
