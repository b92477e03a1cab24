package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuizNextRequiresBothFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.QuizNext, http.MethodPost, "/v1/quizzes", `{}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "bad_request", body["error"])
	require.ElementsMatch(t, []string{"previous_questions", "quiz_category"}, fieldList(t, body))

	rec = env.call(t, env.quiz.QuizNext, http.MethodPost, "/v1/quizzes",
		`{"previous_questions": []}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"quiz_category"}, fieldList(t, decodeBody(t, rec)))
}

func TestQuizNextDrawsThenExhausts(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Science")
	id := env.seedQuestion(t, "Who discovered penicillin?", cat)

	rec := env.call(t, env.quiz.QuizNext, http.MethodPost, "/v1/quizzes",
		fmt.Sprintf(`{"previous_questions": [], "quiz_category": %d}`, cat), "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	q, ok := body["question"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(id), q["id"])

	rec = env.call(t, env.quiz.QuizNext, http.MethodPost, "/v1/quizzes",
		fmt.Sprintf(`{"previous_questions": [%d], "quiz_category": %d}`, id, cat), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decodeBody(t, rec)["question"])
}

func TestQuizNextCategoryZeroMeansWholeBank(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Art")
	env.seedQuestion(t, "La Giaconda is better known as what?", cat)

	rec := env.call(t, env.quiz.QuizNext, http.MethodPost, "/v1/quizzes",
		`{"previous_questions": [], "quiz_category": 0}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, decodeBody(t, rec)["question"])
}

func TestQuizNextUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.QuizNext, http.MethodPost, "/v1/quizzes",
		`{"previous_questions": [], "quiz_category": 42}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestCreateQuestionEnumeratesMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.CreateQuestion, http.MethodPost, "/v1/questions",
		`{"question": "What?"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.ElementsMatch(t, []string{"answer", "difficulty", "category"},
		fieldList(t, decodeBody(t, rec)))
}

func TestCreateQuestionUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.CreateQuestion, http.MethodPost, "/v1/questions",
		`{"question": "What?", "answer": "That.", "difficulty": 2, "category": 9}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "unknown_tag", decodeBody(t, rec)["error"])
}

func TestCreateQuestionSuccess(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "History")

	rec := env.call(t, env.quiz.CreateQuestion, http.MethodPost, "/v1/questions",
		fmt.Sprintf(`{"question": "What boxer's original name is Cassius Clay?", "answer": "Muhammad Ali", "difficulty": 1, "category": %d}`, cat), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.NotZero(t, body["created"])
}

func TestListQuestionsPaginatesAndReports404PastEnd(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Geography")
	for i := 0; i < 12; i++ {
		env.seedQuestion(t, fmt.Sprintf("question %02d", i), cat)
	}

	rec := env.call(t, env.quiz.ListQuestions, http.MethodGet, "/v1/questions?page=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Len(t, body["questions"], 10)
	require.Equal(t, float64(12), body["total_questions"])
	require.Contains(t, body, "categories")

	rec = env.call(t, env.quiz.ListQuestions, http.MethodGet, "/v1/questions?page=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody(t, rec)["questions"], 2)

	rec = env.call(t, env.quiz.ListQuestions, http.MethodGet, "/v1/questions?page=3", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListQuestionsEmptyBankIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.ListQuestions, http.MethodGet, "/v1/questions", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchQuestionsRequiresTerm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.SearchQuestions, http.MethodPost, "/v1/questions/search", `{}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"search_term"}, fieldList(t, decodeBody(t, rec)))
}

func TestSearchQuestionsZeroMatchesIsOK(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.SearchQuestions, http.MethodPost, "/v1/questions/search",
		`{"search_term": "zebra"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), decodeBody(t, rec)["total_questions"])
}

func TestQuestionsByCategory(t *testing.T) {
	env := newTestEnv(t)
	sci := env.seedCategory(t, "Science")
	art := env.seedCategory(t, "Art")
	env.seedQuestion(t, "Who discovered penicillin?", sci)
	env.seedQuestion(t, "Which Dutch painter cut off his own ear?", art)

	rec := env.call(t, env.quiz.QuestionsByCategory, http.MethodGet, "/v1/categories/:id/questions", "", fmt.Sprint(sci))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Len(t, body["questions"], 1)
	require.Equal(t, "Science", body["current_category"])

	rec = env.call(t, env.quiz.QuestionsByCategory, http.MethodGet, "/v1/categories/:id/questions", "", "99")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuestionsByCategoryPaginatesWithTrueTotal(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "Geography")
	for i := 0; i < 12; i++ {
		env.seedQuestion(t, fmt.Sprintf("geography question %02d", i), cat)
	}

	rec := env.call(t, env.quiz.QuestionsByCategory, http.MethodGet, "/v1/categories/:id/questions?page=1", "", fmt.Sprint(cat))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Len(t, body["questions"], 10)
	require.Equal(t, float64(12), body["total_questions"])

	rec = env.call(t, env.quiz.QuestionsByCategory, http.MethodGet, "/v1/categories/:id/questions?page=2", "", fmt.Sprint(cat))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	require.Len(t, body["questions"], 2)
	require.Equal(t, float64(12), body["total_questions"])
}

func TestListCategoriesKeyedByID(t *testing.T) {
	env := newTestEnv(t)
	sci := env.seedCategory(t, "Science")

	rec := env.call(t, env.quiz.ListCategories, http.MethodGet, "/v1/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cats, ok := decodeBody(t, rec)["categories"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Science", cats[fmt.Sprint(sci)])
}

func TestListCategoriesEmptyVocabularyIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, env.quiz.ListCategories, http.MethodGet, "/v1/categories", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
