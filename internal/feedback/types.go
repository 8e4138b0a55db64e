// Package feedback builds the end-of-interview report from a session state.
package feedback

// Rating is a coarse soft-skill level.
type Rating string

const (
	RatingHigh   Rating = "High"
	RatingMedium Rating = "Medium"
	RatingLow    Rating = "Low"
)

// Verdict is the hiring decision.
type Verdict struct {
	Grade                string `json:"grade"`
	HiringRecommendation string `json:"hiring_recommendation"`
	ConfidenceScore      int    `json:"confidence_score"`
	Summary              string `json:"summary"`
}

// ConfirmedSkill is a topic the candidate handled well.
type ConfirmedSkill struct {
	Topic           string `json:"topic"`
	Accuracy        int    `json:"accuracy"`
	TotalQuestions  int    `json:"total_questions"`
	CorrectAnswers  int    `json:"correct_answers"`
	ExampleQuestion string `json:"example_question"`
}

// KnowledgeGap is a topic the candidate struggled with.
type KnowledgeGap struct {
	Topic              string   `json:"topic"`
	Question           string   `json:"question"`
	CandidateAnswer    string   `json:"candidate_answer"`
	CorrectAnswer      string   `json:"correct_answer"`
	QualityScore       string   `json:"quality_score"`
	SuggestedResources []string `json:"suggested_resources"`
}

// TechnicalReview groups the hard-skill findings.
type TechnicalReview struct {
	ConfirmedSkills  []ConfirmedSkill `json:"confirmed_skills"`
	KnowledgeGaps    []KnowledgeGap   `json:"knowledge_gaps"`
	TopicsCovered    []string         `json:"topics_covered"`
	TotalTopicsAsked int              `json:"total_topics_asked"`
}

// SoftSkills are heuristics over the dialogue.
type SoftSkills struct {
	Clarity    Rating `json:"clarity"`
	Honesty    Rating `json:"honesty"`
	Engagement Rating `json:"engagement"`
}

// RoadmapItem is one study recommendation.
type RoadmapItem struct {
	Priority      string   `json:"priority"`
	Skill         string   `json:"skill"`
	Action        string   `json:"action"`
	EstimatedTime string   `json:"estimated_time"`
	SpecificTask  string   `json:"specific_task"`
	Resources     []string `json:"resources"`
}

// Feedback is the full report.
type Feedback struct {
	Verdict         Verdict         `json:"verdict"`
	TechnicalReview TechnicalReview `json:"technical_review"`
	SoftSkills      SoftSkills      `json:"soft_skills"`
	Roadmap         []RoadmapItem   `json:"personal_roadmap"`
}
