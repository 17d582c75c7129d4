package model

// Thresholds used to flag results in red
const (
	OriginalityRiskBelow = 50.0
	AIRiskAbove          = 60.0
)

// AIScore is the backend's AI-content estimate for one document
type AIScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	IsAI  bool    `json:"isAI"`
}

// Document is one side of a comparison. HTML carries the backend's
// highlighted markup.
type Document struct {
	Name string  `json:"name"`
	HTML string  `json:"html"`
	AI   AIScore `json:"ai"`
}

// AIHighRisk reports whether the AI probability is above the warning line
func (d Document) AIHighRisk() bool {
	return d.AI.Score > AIRiskAbove
}

// SemanticInfo holds the secondary similarity signals
type SemanticInfo struct {
	DNAScore     float64 `json:"dna_score"`
	LexicalScore float64 `json:"lexical_score"`
}

// Comparison is a single pairwise result
type Comparison struct {
	ReportID     string        `json:"report_id"`
	Pair         string        `json:"pair"`
	Similarity   float64       `json:"similarity"`
	Originality  float64       `json:"originality"`
	SemanticInfo *SemanticInfo `json:"semantic_info,omitempty"`
	DocA         Document      `json:"docA"`
	DocB         Document      `json:"docB"`
}

// HighRisk reports whether originality is below the warning line
func (c Comparison) HighRisk() bool {
	return c.Originality < OriginalityRiskBelow
}

// BatchResult is the compare-batch response
type BatchResult struct {
	Comparisons []Comparison `json:"comparisons"`
}

// PublicReport is a stored comparison fetched by id without login
type PublicReport struct {
	ReportID     string    `json:"report_id"`
	Pair         string    `json:"pair,omitempty"`
	Originality  float64   `json:"originality"`
	SemanticDNA  float64   `json:"semantic_dna"`
	LexicalMatch float64   `json:"lexical_match"`
	DocA         Document  `json:"docA"`
	DocB         Document  `json:"docB"`
	Timestamp    Timestamp `json:"timestamp"`
	IsPublic     bool      `json:"is_public"`
}

// Comparison converts the report into the shape the views render
func (r PublicReport) Comparison() Comparison {
	pair := r.Pair
	if pair == "" && (r.DocA.Name != "" || r.DocB.Name != "") {
		pair = r.DocA.Name + " vs " + r.DocB.Name
	}
	return Comparison{
		ReportID:    r.ReportID,
		Pair:        pair,
		Originality: r.Originality,
		Similarity:  100 - r.Originality,
		SemanticInfo: &SemanticInfo{
			DNAScore:     r.SemanticDNA,
			LexicalScore: r.LexicalMatch,
		},
		DocA: r.DocA,
		DocB: r.DocB,
	}
}

// AdminDocument is one row of the admin document list
type AdminDocument struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	HashCount int    `json:"hash_count"`
}
