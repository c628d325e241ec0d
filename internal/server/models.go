package server

// HTTPError is the error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// UploadResponse is returned after a document is processed into a session.
type UploadResponse struct {
	SessionID   string `json:"session_id"`
	Message     string `json:"message"`
	TextPreview string `json:"text_preview"`
	ChunkCount  int    `json:"chunk_count"`
}

// QuestionResponse carries one interview turn.
type QuestionResponse struct {
	Question       string `json:"question"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
	IsComplete     bool   `json:"is_complete"`
}

// AnswerRequest is the candidate's reply to the current question.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// EvaluationRequest asks for feedback on one question/answer pair.
type EvaluationRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// EvaluationResponse carries the graded feedback.
type EvaluationResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

// QuizRequest asks for a multiple-choice question about a topic.
type QuizRequest struct {
	Topic string `json:"topic"`
}

// QuizResponse carries the generated quiz text.
type QuizResponse struct {
	Topic string `json:"topic"`
	Quiz  string `json:"quiz"`
}

// SessionStatusResponse is a snapshot of one session.
type SessionStatusResponse struct {
	SessionID     string `json:"session_id"`
	State         string `json:"state"`
	IsActive      bool   `json:"is_active"`
	QuestionCount int    `json:"question_count"`
	MaxQuestions  int    `json:"max_questions"`
}

// SessionListResponse lists the live sessions, oldest first.
type SessionListResponse struct {
	Count    int                     `json:"count"`
	Sessions []SessionStatusResponse `json:"sessions"`
}

// EndResponse acknowledges a session deletion.
type EndResponse struct {
	Ended bool `json:"ended"`
}

// BannerResponse is the service banner served at the root path.
type BannerResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Embedding  string `json:"embedding_provider"`
	Generation string `json:"generation_provider"`
}
