package interview

import (
	"fmt"

	"github.com/mohammad-safakhou/interviewd/internal/provider"
)

// InsufficientContext is returned in place of generated text when retrieval
// cannot ground the turn in the uploaded document.
const InsufficientContext = "I need more information from the Job Description to continue the interview."

// Retrieval queries anchor every model call to the uploaded document.
const bootstrapQuery = "skills, technologies, tools, and responsibilities mentioned in this job description"

func followUpQuery(answer string) string {
	return "job responsibilities and skills related to: " + answer
}

func evaluationQuery(question string) string {
	return "skills and requirements related to: " + question
}

func quizQuery(topic string) string {
	return "skills and requirements related to: " + topic
}

func questionPrompt(docContext string) string {
	return fmt.Sprintf(`You are an AI Interviewer conducting a professional technical interview.

STRICT RULES (MANDATORY):
- Ask questions ONLY based on the Job Description below
- DO NOT ask math problems, puzzles, riddles, or theory questions
- DO NOT include answers, explanations, or hints
- Ask EXACTLY ONE interview question
- No apologies, no corrections, no extra text

JOB DESCRIPTION (ONLY SOURCE OF TRUTH):
=====================================
%s
=====================================

TASK:
Ask ONE interview question based strictly on the Job Description above.
Output ONLY the interview question.`, docContext)
}

const evaluationPrompt = `You are an AI Interview Evaluator.

Evaluate the candidate's answer based on:
- Relevance to the Job Description
- Technical accuracy
- Depth of understanding

Provide:
- Brief constructive feedback (2-3 sentences)
- Score from 1 to 5`

func evaluationMessages(docContext, question, answer string) []provider.Message {
	detail := fmt.Sprintf(`Job Description Context:
========================
%s
========================

Question: %s
Candidate Answer: %s

Evaluate strictly based on the JD above.`, docContext, question, answer)
	return []provider.Message{
		{Role: provider.RoleSystem, Content: evaluationPrompt},
		{Role: provider.RoleSystem, Content: detail},
	}
}

func quizPrompt(docContext, topic string) string {
	return fmt.Sprintf(`You are creating a technical quiz question based on the job description.

Job Description:
========================
%s
========================

Quiz Topic: %s

Create ONE multiple-choice question with 4 options (A, B, C, D) and indicate the correct answer.

Format:
Question: [Your question here]

A) [Option A]
B) [Option B]
C) [Option C]
D) [Option D]

Correct Answer: [Letter]
Explanation: [Brief explanation]

Generate the quiz question now:`, docContext, topic)
}
