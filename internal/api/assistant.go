package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/athena-edu/backend/internal/assistant"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// AssistantHandler fronts the study assistant: question answering via
// the external RAG service, and the self-contained quiz flow.
type AssistantHandler struct {
	answerer assistant.Answerer
	store    assistant.QuizStore
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewAssistantHandler(answerer assistant.Answerer, store assistant.QuizStore, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		answerer: answerer,
		store:    store,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// auth already happened in the middleware; browser origin
			// enforcement is handled by the CORS layer
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type askRequest struct {
	Question string `json:"question" binding:"required,min=3"`
}

type quizRequest struct {
	Topic        string `json:"topic" binding:"required"`
	NumQuestions int    `json:"numQuestions" binding:"required,gte=1,lte=10"`
	Difficulty   string `json:"difficulty" binding:"required"`
}

type gradeRequest struct {
	QuizID  string                    `json:"quizId" binding:"required"`
	Answers []assistant.StudentAnswer `json:"answers" binding:"required"`
}

// Ask handles POST /v1/assistant/ask
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.answerer.Answer(c.Request.Context(), req.Question)
	if err != nil {
		h.logger.Error("failed to get answer", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":  answer.Text,
		"sources": answer.Sources,
	})
}

// Health handles GET /v1/assistant/health
func (h *AssistantHandler) Health(c *gin.Context) {
	ragStatus := "ok"
	if err := h.answerer.Ready(c.Request.Context()); err != nil {
		ragStatus = "unavailable"
	}

	status := http.StatusOK
	if ragStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"rag":    ragStatus,
		"topics": assistant.SupportedTopics(),
	})
}

// quizView strips the correct answers and explanations before a quiz
// leaves the server.
func quizView(quiz *assistant.Quiz) gin.H {
	questions := make([]gin.H, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions = append(questions, gin.H{
			"index":   i,
			"text":    q.Text,
			"options": q.Options,
		})
	}
	return gin.H{
		"quizId":     quiz.ID,
		"topic":      quiz.Topic,
		"difficulty": quiz.Difficulty,
		"questions":  questions,
	}
}

// GenerateQuiz handles POST /v1/assistant/quiz
func (h *AssistantHandler) GenerateQuiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := assistant.Generate(req.Topic, req.NumQuestions, req.Difficulty)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Save(c.Request.Context(), quiz); err != nil {
		h.logger.Error("failed to store quiz", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quizView(quiz)})
}

// GradeQuiz handles POST /v1/assistant/quiz/grade
func (h *AssistantHandler) GradeQuiz(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.store.Get(c.Request.Context(), req.QuizID)
	if err != nil {
		if errors.Is(err, assistant.ErrQuizNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found or expired"})
			return
		}
		h.logger.Error("failed to fetch quiz", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to grade quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": assistant.Grade(quiz, req.Answers)})
}

// streamFrame is one websocket message on the answer stream.
type streamFrame struct {
	Type    string   `json:"type"`
	Chunk   string   `json:"chunk,omitempty"`
	Sources []string `json:"sources,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Stream handles GET /v1/assistant/stream: the client sends a question
// as a text message, the answer comes back in word chunks followed by a
// "done" frame carrying the sources.
func (h *AssistantHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		question := strings.TrimSpace(string(message))
		if question == "" {
			conn.WriteJSON(streamFrame{Type: "error", Error: "empty question"})
			continue
		}

		answer, err := h.answerer.Answer(c.Request.Context(), question)
		if err != nil {
			h.logger.Error("failed to get answer", zap.Error(err))
			conn.WriteJSON(streamFrame{Type: "error", Error: "assistant is unavailable"})
			continue
		}

		for _, chunk := range chunkWords(answer.Text, 8) {
			if err := conn.WriteJSON(streamFrame{Type: "chunk", Chunk: chunk}); err != nil {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		if err := conn.WriteJSON(streamFrame{Type: "done", Sources: answer.Sources}); err != nil {
			return
		}
	}
}

// chunkWords splits text into groups of up to n words, keeping the
// original spacing between groups.
func chunkWords(text string, n int) []string {
	words := strings.Fields(text)
	var chunks []string
	for start := 0; start < len(words); start += n {
		end := start + n
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")
		if start > 0 {
			chunk = " " + chunk
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
