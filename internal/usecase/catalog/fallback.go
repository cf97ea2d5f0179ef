package catalog

import (
	domcat "github.com/oradigit/orderhelper/internal/domain/catalog"
	"github.com/oradigit/orderhelper/internal/domain/rule"
)

// fallbackCatalog returns the embedded default catalog: at least one record
// per core modality so the system is never left with zero options when every
// configured source is down.
func fallbackCatalog() domcat.Catalog {
	return domcat.New(fallbackRecords, nil)
}

var fallbackRecords = []rule.Record{
	{
		ID:       "petct-oncology-staging",
		Modality: "PET/CT",
		Region:   "Skull base to mid-thigh",
		Contexts: []string{"Staging", "Restaging", "Treatment response", "Surveillance"},
		Keywords: []string{
			"lymphoma", "nsclc", "lung cancer", "breast cancer", "colorectal",
			"colon cancer", "melanoma", "head and neck", "hnscc", "gastric", "pancreatic",
		},
		Header: "PET/CT Skull Base to Mid-Thigh",
		Reasons: []string{
			"FDG PET/CT for {context} of {condition}; evaluate extent of disease, " +
				"nodal involvement, and FDG-avid distant metastases.",
		},
		PrepNotes: []string{
			"Fast 4-6 hours; avoid strenuous exercise for 24 hours.",
			"Check blood glucose per facility protocol; avoid recent high-dose steroids if possible.",
		},
		SupportingDocs: []string{
			"Recent clinic note documenting diagnosis and clinical question.",
			"Prior imaging/report if available.",
			"Therapy timeline (chemo/radiation/surgery) and relevant labs.",
		},
		Flags: []string{
			"Recent G-CSF can increase marrow uptake.",
			"Hyperglycemia may reduce FDG tumor-to-background contrast.",
		},
		Tags: []string{rule.TagOncologyGeneral},
	},
	{
		ID:       "petct-whole-body",
		Modality: "PET/CT",
		Region:   "Whole body",
		Contexts: []string{"Staging", "Restaging", "Surveillance"},
		Keywords: []string{"melanoma", "myeloma", "sarcoma", "vasculitis", "fever of unknown origin", "fuo"},
		Header:   "PET/CT Whole Body",
		Reasons: []string{
			"FDG PET/CT whole body for {context} of {condition}; evaluate for " +
				"extra-axial/extremity involvement and FDG-avid metastatic or inflammatory disease.",
		},
		PrepNotes: []string{
			"Standard FDG fasting instructions.",
			"Ensure patient warmth to limit brown fat uptake when possible.",
		},
		SupportingDocs: []string{
			"Referring note with suspicion/diagnosis.",
			"Any biopsy/pathology available.",
			"Prior imaging for correlation.",
		},
		Flags: []string{
			"Consider coverage of extremities for melanoma/myeloma.",
			"Consider inflammatory patterns in vasculitis/FUO.",
		},
		Tags: []string{"whole-body"},
	},
	{
		ID:       "pet-brain-fdg",
		Modality: "PET",
		Region:   "Brain",
		Contexts: []string{"Dementia", "Epilepsy"},
		Keywords: []string{"alzheim", "dementia", "frontotemporal", "ftd", "epilepsy", "seizure", "temporal lobe"},
		Header:   "PET Brain FDG",
		Reasons: []string{
			"FDG brain PET to evaluate cerebral metabolic patterns in {condition}; " +
				"correlate with clinical and prior imaging.",
		},
		PrepNotes: []string{
			"Quiet, dim environment pre-injection.",
			"For epilepsy protocols, follow ictal/interictal timing per local procedure.",
		},
		SupportingDocs: []string{
			"Neurology note describing symptoms and clinical question.",
			"Prior MRI/EEG as applicable.",
		},
		Flags: []string{
			"FDG patterns vary by dementia subtype.",
			"Medication/timing can affect epilepsy localization.",
		},
		Tags: []string{"neuro"},
	},
	{
		ID:       "pet-cardiac-viability",
		Modality: "PET",
		Region:   "Cardiac",
		Contexts: []string{"Viability"},
		Keywords: []string{"viability", "ischemic cardiomyopathy", "hibernating myocardium"},
		Header:   "PET Cardiac FDG Viability",
		Reasons: []string{
			"FDG PET to assess myocardial viability in ischemic cardiomyopathy; " +
				"correlate with perfusion and echocardiographic findings.",
		},
		PrepNotes: []string{
			"Cardiac viability glucose loading/insulin protocol per local SOP.",
			"Coordinate with perfusion imaging if performed.",
		},
		SupportingDocs: []string{
			"Cardiology note with revascularization question.",
			"Prior echo/perfusion/coronary imaging reports.",
		},
		Flags: []string{
			"Glycemic control critical for image quality.",
			"Confirm compatibility with current therapies.",
		},
		Tags: []string{"cardiac"},
	},
	{
		ID:       "petct-infection",
		Modality: "PET/CT",
		Region:   "Skull base to mid-thigh",
		Contexts: []string{"Suspected infection"},
		Keywords: []string{"osteomyelitis", "prosthetic joint", "infection", "endocarditis", "fever of unknown origin", "fuo"},
		Header:   "PET/CT Skull Base to Mid-Thigh",
		Reasons: []string{
			"FDG PET/CT to evaluate suspected infection/inflammation related to {condition}; " +
				"assess extent of disease and potential sites of involvement.",
		},
		PrepNotes: []string{
			"Standard FDG fasting; review recent antibiotic therapy that may impact findings.",
		},
		SupportingDocs: []string{
			"Clinical notes with symptoms/duration.",
			"Relevant labs (WBC, CRP/ESR), culture results if available.",
			"Prior imaging for comparison.",
		},
		Flags: []string{
			"Device/prosthesis can show inflammatory uptake; interpret in clinical context.",
			"Consider tailored coverage if peripheral involvement suspected.",
		},
		Tags: []string{"infection"},
	},
	{
		ID:       "ct-abdomen-pelvis",
		Modality: "CT",
		Region:   "Abdomen/Pelvis",
		Contexts: []string{"Acute", "Follow-up", "Staging"},
		Keywords: []string{"appendicitis", "diverticulitis", "renal colic", "abdominal pain", "trauma"},
		Header:   "CT Abdomen/Pelvis",
		Reasons: []string{
			"CT {region}{contrast_text} for {context} evaluation of {condition}.",
			"CT {region} for {context} evaluation of {condition}.",
		},
		PrepNotes:      []string{"NPO 4 hours if IV contrast.", "Confirm IV access and renal function."},
		SupportingDocs: []string{"ACR Appropriateness Criteria.", "Recent labs if IV contrast planned."},
		Flags:          []string{"Contrast allergy.", "Renal insufficiency.", "Pregnancy precautions."},
		Tags:           []string{rule.TagOncologyGeneral},
	},
	{
		ID:       "mri-brain",
		Modality: "MRI",
		Region:   "Brain",
		Contexts: []string{"Acute", "Follow-up", "Staging"},
		Keywords: []string{"ms", "multiple sclerosis", "seizure", "tumor", "headache"},
		Header:   "MRI Brain",
		Reasons:  []string{"MRI {region} for {context} evaluation of {condition}; correlate with prior imaging."},
		PrepNotes: []string{
			"MRI safety screening.",
			"Check implants and renal function for gadolinium.",
		},
		SupportingDocs: []string{"MRI safety questionnaire.", "Prior imaging for comparison."},
		Flags:          []string{"Pacemaker/CIED.", "Renal function for GBCA."},
		Tags:           []string{"neuro", rule.TagOncologyGeneral},
	},
	{
		ID:             "xray-chest",
		Modality:       "X-Ray",
		Region:         "Chest",
		Contexts:       []string{"Acute", "Follow-up", "Screening"},
		Keywords:       []string{"pneumonia", "fracture", "cough", "foreign body"},
		Header:         "Chest X-ray PA/Lateral",
		Reasons:        []string{"{context} chest radiograph to evaluate {condition}."},
		PrepNotes:      []string{"Remove metal objects."},
		SupportingDocs: []string{"Referring note with symptoms."},
		Flags:          []string{"Pregnancy precautions."},
		Tags:           []string{"general"},
	},
	{
		ID:             "us-abdomen",
		Modality:       "Ultrasound",
		Region:         "Abdomen",
		Contexts:       []string{"Acute", "Follow-up", "Screening"},
		Keywords:       []string{"gallstones", "gallbladder", "thyroid nodule", "dvt"},
		Header:         "Abdominal Ultrasound",
		Reasons:        []string{"Ultrasound {region} for {context} evaluation of {condition}."},
		PrepNotes:      []string{"NPO 8 hours for abdominal scan."},
		SupportingDocs: []string{"Referring note with symptoms."},
		Flags:          []string{"Obesity may limit visualization."},
		Tags:           []string{"general"},
	},
	{
		ID:             "mammo-screening",
		Modality:       "Mammography",
		Region:         "Breast",
		Contexts:       []string{"Screening", "Diagnostic", "Follow-up"},
		Keywords:       []string{"breast mass", "breast pain", "calcifications", "abnormal screening mammogram"},
		Header:         "Screening Mammogram",
		Reasons:        []string{"{context} mammography for {condition}."},
		PrepNotes:      []string{"Avoid deodorant or powder before the exam."},
		SupportingDocs: []string{"Prior mammograms for comparison."},
		Flags:          []string{"Pregnancy precautions."},
		Tags:           []string{"womens-health", rule.TagOncologyGeneral},
	},
	{
		ID:             "nm-bone-scan",
		Modality:       "Nuclear Medicine",
		Region:         "Whole body",
		Contexts:       []string{"Staging", "Evaluation", "Follow-up"},
		Keywords:       []string{"bone metastases", "thyroid cancer", "renal function"},
		Header:         "Whole-Body Bone Scan",
		Reasons:        []string{"Functional imaging for {context} of {condition}."},
		PrepNotes:      []string{"Hydrate well before and after the scan."},
		SupportingDocs: []string{"SNMMI procedure guidelines."},
		Flags:          []string{"Radiation safety.", "Pregnancy precautions."},
		Tags:           []string{rule.TagOncologyGeneral},
	},
}
