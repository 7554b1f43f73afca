package classifier

// Methods a classification can be resolved by, in tier order.
const (
	MethodKeyword  = "keyword"
	MethodRule     = "rule"
	MethodCache    = "cache"
	MethodHybrid   = "hybrid"
	MethodVector   = "vector"
	MethodFallback = "fallback"
	MethodDefault  = "default"
)

// Result is the outcome of one classification. It is transient and carries
// enough diagnostic detail for audit and offline evaluation of match quality.
type Result struct {
	Category    Category `json:"category"`
	Confidence  float64  `json:"confidence"`
	Method      string   `json:"method"`
	MatchedText string   `json:"matchedText,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	// Score is the cosine similarity when the hybrid tier resolved the input.
	Score float64 `json:"score,omitempty"`
}
