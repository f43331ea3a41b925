// models/article.go
package models

// Article is a content record returned by the Europe PMC search, or the
// offline backup when the upstream service is unreachable. Articles are not
// persisted; consuming one only leaves its ID in the account history.
type Article struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	AbstractText string `json:"abstractText"`
	AuthorString string `json:"authorString"`
	PubYear      string `json:"pubYear"`
	JournalTitle string `json:"journalTitle,omitempty"`
}

// SpecialtyRandom is the sentinel key that picks a concrete specialty
// uniformly at random.
const SpecialtyRandom = "random"

// Specialties maps Europe PMC search keys to French labels.
var Specialties = map[string]string{
	SpecialtyRandom:         "🎲 ALÉATOIRE (SURPRISE)",
	"Allergy_Immunology":    "Allergologie",
	"Anesthesiology":        "Anesthésie-Réanimation",
	"Cardiology":            "Cardiologie & Maladies Vasculaires",
	"Surgery":               "Chirurgie (Générale)",
	"Oral_Surgery":          "Chirurgie Maxillo-faciale",
	"Pediatric_Surgery":     "Chirurgie Pédiatrique",
	"Plastic_Surgery":       "Chirurgie Plastique",
	"Thoracic_Surgery":      "Chirurgie Thoracique & CV",
	"Vascular_Surgery":      "Chirurgie Vasculaire",
	"Visceral_Surgery":      "Chirurgie Viscérale & Digestive",
	"Dermatology":           "Dermatologie & Vénérologie",
	"Endocrinology":         "Endocrinologie-Diabétologie",
	"Genetics":              "Génétique Médicale",
	"Geriatrics":            "Gériatrie",
	"Gynecology":            "Gynécologie Médicale",
	"Obstetrics_Gynecology": "Gynécologie-Obstétrique",
	"Hematology":            "Hématologie",
	"Gastroenterology":      "Hépato-Gastro-Entérologie",
	"Infectious_Diseases":   "Maladies Infectieuses",
	"Internal_Medicine":     "Médecine Interne",
	"Legal_Medicine":        "Médecine Légale",
	"Nuclear_Medicine":      "Médecine Nucléaire",
	"Physical_Medicine":     "Médecine Physique & Réadaptation",
	"Emergency_Medicine":    "Médecine d'Urgence",
	"Occupational_Medicine": "Médecine du Travail",
	"General_Practice":      "Médecine Générale",
	"Vascular_Medicine":     "Médecine Vasculaire",
	"Nephrology":            "Néphrologie",
	"Neurosurgery":          "Neurochirurgie",
	"Neurology":             "Neurologie",
	"Nutrition":             "Nutrition",
	"Oncology":              "Oncologie",
	"Ophthalmology":         "Ophtalmologie",
	"Otolaryngology":        "ORL & Chirurgie Cervico-faciale",
	"Orthopedics":           "Orthopédie & Traumatologie",
	"Pediatrics":            "Pédiatrie",
	"Pneumology":            "Pneumologie",
	"Psychiatry":            "Psychiatrie",
	"Radiology":             "Radiologie & Imagerie",
	"Rheumatology":          "Rhumatologie",
	"Public_Health":         "Santé Publique",
	"Urology":               "Urologie",
}

// BackupArticle is served whenever the Europe PMC call fails or comes back
// empty. Callers never see an error from the article service; the
// "[OFFLINE_MODE]" title prefix is the only marker.
var BackupArticle = Article{
	ID:           "CARDIO_RCT",
	Title:        "Efficacy of Endovascular Thrombectomy in Ischemic Stroke",
	JournalTitle: "NEJM",
	AuthorString: "Smith et al.",
	PubYear:      "2023",
	AbstractText: "Background: We conducted a randomized, double-blind, placebo-controlled trial to assess efficacy. Methods: Patients with acute ischemic stroke were assigned to thrombectomy or standard care. The primary outcome was functional independence at 90 days. Results: 500 patients were randomized. The odds ratio for functional independence was 2.5 (95% confidence interval, 1.8 to 3.5; P<0.001). Mortality was similar in both groups. There was no evidence of selection bias. Conclusion: Thrombectomy improved outcomes.",
}
