package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKnownTopic(t *testing.T) {
	quiz, err := Generate("python", 2, DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, "python", quiz.Topic)
	assert.Equal(t, DifficultyEasy, quiz.Difficulty)
	assert.Len(t, quiz.Questions, 2)
	assert.NotEmpty(t, quiz.ID)
}

func TestGenerateTopicAliases(t *testing.T) {
	cases := map[string]string{
		"ml":                          "machine learning",
		"ML":                          "machine learning",
		"  nlp ":                      "nlp",
		"natural language processing": "nlp",
		"cv":                          "computer vision",
	}
	for input, want := range cases {
		quiz, err := Generate(input, 1, DifficultyMedium)
		require.NoError(t, err, "topic %q", input)
		assert.Equal(t, want, quiz.Topic, "topic %q", input)
	}
}

func TestGenerateUnknownTopic(t *testing.T) {
	_, err := Generate("quantum basket weaving", 3, DifficultyEasy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported topic")
}

func TestGenerateUnknownDifficulty(t *testing.T) {
	_, err := Generate("python", 3, "impossible")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported difficulty")
}

func TestGenerateClampsCount(t *testing.T) {
	quiz, err := Generate("python", 100, DifficultyEasy)
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, len(quizBank["python"][DifficultyEasy]))

	quiz, err = Generate("python", 0, DifficultyEasy)
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 1)
}

func TestSupportedTopicsSorted(t *testing.T) {
	topics := SupportedTopics()
	require.Len(t, topics, len(quizBank))
	for i := 1; i < len(topics); i++ {
		assert.Less(t, topics[i-1], topics[i])
	}
}

func gradedQuiz() *Quiz {
	return &Quiz{
		ID:    "q1",
		Topic: "python",
		Questions: []Question{
			{Text: "a", Options: []string{"x", "y"}, Correct: 0, Explanation: "ea"},
			{Text: "b", Options: []string{"x", "y"}, Correct: 1, Explanation: "eb"},
			{Text: "c", Options: []string{"x", "y", "z"}, Correct: 2, Explanation: "ec"},
		},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	quiz := gradedQuiz()
	result := Grade(quiz, []StudentAnswer{
		{QuestionIndex: 0, SelectedOption: 0},
		{QuestionIndex: 1, SelectedOption: 1},
		{QuestionIndex: 2, SelectedOption: 2},
	})

	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 3, result.Total)
	assert.InDelta(t, 100.0, result.Score, 0.001)
	for _, r := range result.Review {
		assert.True(t, r.Correct)
	}
}

func TestGradePartial(t *testing.T) {
	quiz := gradedQuiz()
	result := Grade(quiz, []StudentAnswer{
		{QuestionIndex: 0, SelectedOption: 0},
		{QuestionIndex: 1, SelectedOption: 0},
	})

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 3, result.Total)
	assert.InDelta(t, 100.0/3, result.Score, 0.001)

	// question 2 was never answered
	assert.Equal(t, "no answer", result.Review[2].YourAnswer)
	assert.False(t, result.Review[2].Correct)
}

func TestGradeOutOfRangeSelection(t *testing.T) {
	quiz := gradedQuiz()
	result := Grade(quiz, []StudentAnswer{
		{QuestionIndex: 0, SelectedOption: 99},
		{QuestionIndex: 1, SelectedOption: -1},
		{QuestionIndex: 99, SelectedOption: 0},
	})

	assert.Equal(t, 0, result.CorrectCount)
	assert.InDelta(t, 0.0, result.Score, 0.001)
}

func TestGradeReviewRevealsCorrectAnswer(t *testing.T) {
	quiz := gradedQuiz()
	result := Grade(quiz, nil)

	require.Len(t, result.Review, 3)
	assert.Equal(t, "x", result.Review[0].CorrectAnswer)
	assert.Equal(t, "y", result.Review[1].CorrectAnswer)
	assert.Equal(t, "z", result.Review[2].CorrectAnswer)
	assert.Equal(t, "ea", result.Review[0].Explanation)
}
