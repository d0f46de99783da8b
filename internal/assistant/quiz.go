package assistant

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question is a single multiple-choice item. Correct indexes into
// Options and never leaves the server; grading happens here.
type Question struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Quiz is a generated set of questions, stored server-side until graded
// or expired.
type Quiz struct {
	ID         string     `json:"id"`
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Difficulties accepted by Generate.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// topicAliases folds user spellings onto bank keys.
var topicAliases = map[string]string{
	"python":                      "python",
	"machine learning":            "machine learning",
	"ml":                          "machine learning",
	"deep learning":               "deep learning",
	"nlp":                         "nlp",
	"natural language processing": "nlp",
	"computer vision":             "computer vision",
	"cv":                          "computer vision",
}

// Generate assembles a quiz of up to n questions for the topic and
// difficulty, shuffled so repeated requests differ. Unknown topics and
// difficulties are caller errors.
func Generate(topic string, n int, difficulty string) (*Quiz, error) {
	key, ok := topicAliases[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		return nil, fmt.Errorf("unsupported topic %q, supported: %s", topic, strings.Join(SupportedTopics(), ", "))
	}

	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	pool, ok := quizBank[key][difficulty]
	if !ok {
		return nil, fmt.Errorf("unsupported difficulty %q, supported: easy, medium, hard", difficulty)
	}

	if n < 1 {
		n = 1
	}
	if n > len(pool) {
		n = len(pool)
	}

	picked := make([]Question, len(pool))
	copy(picked, pool)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	return &Quiz{
		ID:         uuid.NewString(),
		Topic:      key,
		Difficulty: difficulty,
		Questions:  picked[:n],
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// SupportedTopics lists the bank's topics, sorted for stable output.
func SupportedTopics() []string {
	topics := make([]string, 0, len(quizBank))
	for topic := range quizBank {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// StudentAnswer is one selected option, referencing a question by its
// position in the generated quiz.
type StudentAnswer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"`
}

// QuestionReview is the per-question grading detail.
type QuestionReview struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// GradingResult is the outcome of grading a stored quiz.
type GradingResult struct {
	QuizID       string           `json:"quizId"`
	Topic        string           `json:"topic"`
	Score        float64          `json:"score"`
	CorrectCount int              `json:"correctCount"`
	Total        int              `json:"total"`
	Review       []QuestionReview `json:"review"`
}

// Grade scores the answers against the stored quiz. Unanswered or
// out-of-range selections count as wrong; score is a 0-100 percentage.
func Grade(quiz *Quiz, answers []StudentAnswer) *GradingResult {
	selected := make(map[int]int, len(answers))
	for _, a := range answers {
		selected[a.QuestionIndex] = a.SelectedOption
	}

	result := &GradingResult{
		QuizID: quiz.ID,
		Topic:  quiz.Topic,
		Total:  len(quiz.Questions),
		Review: make([]QuestionReview, 0, len(quiz.Questions)),
	}

	for i, q := range quiz.Questions {
		review := QuestionReview{
			Question:      q.Text,
			YourAnswer:    "no answer",
			CorrectAnswer: q.Options[q.Correct],
			Explanation:   q.Explanation,
		}
		if opt, ok := selected[i]; ok && opt >= 0 && opt < len(q.Options) {
			review.YourAnswer = q.Options[opt]
			review.Correct = opt == q.Correct
		}
		if review.Correct {
			result.CorrectCount++
		}
		result.Review = append(result.Review, review)
	}

	if result.Total > 0 {
		result.Score = float64(result.CorrectCount) / float64(result.Total) * 100
	}
	return result
}
