package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarlsson/showtime/internal/pagination"
	"github.com/mkarlsson/showtime/internal/queue"
	"github.com/mkarlsson/showtime/internal/repository"
	queue_publisher "github.com/mkarlsson/showtime/internal/service"
)

// categoryMap renders the vocabulary as {"<id>": "<type>"}.
func (h *QuizHandler) categoryMap(c echo.Context) (map[string]string, error) {
	cats, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cats))
	for _, cat := range cats {
		out[strconv.FormatInt(cat.ID, 10)] = cat.Type
	}
	return out, nil
}

// ListCategories returns the category vocabulary keyed by id. An empty
// vocabulary is 404: the quiz side of the service is unusable until the
// categories are seeded.
func (h *QuizHandler) ListCategories(c echo.Context) error {
	cats, err := h.categoryMap(c)
	if err != nil {
		return httpError(c, err)
	}
	if len(cats) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "no categories"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

// ListQuestions returns one fixed-size page of the question bank ordered
// by id, together with the bank total and the category vocabulary. A page
// past the end of the bank is 404, matching the behavior of a pager that
// has run out of pages.
func (h *QuizHandler) ListQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	all, err := h.Questions.ListAll(ctx)
	if err != nil {
		return httpError(c, err)
	}
	page := pagination.Paginate(all, pageParam(c))
	if len(page) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "no questions on this page"})
	}
	cats, err := h.categoryMap(c)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"questions":        page,
		"total_questions":  len(all),
		"categories":       cats,
		"current_category": nil,
	})
}

// CreateQuestion adds a question to the bank. Every field is required and
// the category must resolve to the vocabulary; missing fields are
// enumerated in a 400 response and an unknown category is 422.
func (h *QuizHandler) CreateQuestion(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		Question   *string `json:"question"`
		Answer     *string `json:"answer"`
		Difficulty *int    `json:"difficulty"`
		Category   *int64  `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	var missing []string
	if req.Question == nil {
		missing = append(missing, "question")
	}
	if req.Answer == nil {
		missing = append(missing, "answer")
	}
	if req.Difficulty == nil {
		missing = append(missing, "difficulty")
	}
	if req.Category == nil {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return missingFields(c, missing)
	}
	q := &repository.Question{
		Question:   *req.Question,
		Answer:     *req.Answer,
		Difficulty: *req.Difficulty,
		CategoryID: *req.Category,
	}
	if err := h.Questions.Create(ctx, q); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": q.ID, "question": q})
}

// DeleteQuestion removes a question from the bank and notifies downstream
// consumers. Publish failures do not fail the request.
func (h *QuizHandler) DeleteQuestion(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	q, err := h.Questions.GetByID(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	if err := h.Questions.Delete(ctx, id); err != nil {
		return httpError(c, err)
	}
	_ = queue_publisher.PublishCatalogRemoved(ctx, queue.CatalogRemovedEvent{
		Kind:      "question",
		ID:        q.ID,
		Name:      q.Question,
		RemovedAt: time.Now().UTC().Format(dateLayout),
	})
	return c.NoContent(http.StatusNoContent)
}

// SearchQuestions performs a case-insensitive substring search over
// question texts. The response reports the total match count alongside
// one page of matches; zero matches is a valid 200.
func (h *QuizHandler) SearchQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		SearchTerm *string `json:"search_term"`
	}
	if err := c.Bind(&req); err != nil || req.SearchTerm == nil || *req.SearchTerm == "" {
		return missingFields(c, []string{"search_term"})
	}
	matches, err := h.Questions.SearchByText(ctx, *req.SearchTerm)
	if err != nil {
		return httpError(c, err)
	}
	page := pagination.Paginate(matches, pageParam(c))
	return c.JSON(http.StatusOK, echo.Map{
		"questions":        page,
		"total_questions":  len(matches),
		"current_category": nil,
	})
}

// QuestionsByCategory returns one page of the questions filed under one
// category, with the category's true total. An unknown category is 404; a
// known but empty category is a valid 200.
func (h *QuizHandler) QuestionsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	qs, err := h.Questions.ListByCategory(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"questions":        pagination.Paginate(qs, pageParam(c)),
		"total_questions":  len(qs),
		"current_category": cat.Type,
	})
}

// QuizNext serves one round of quiz play: it draws a uniformly random
// question from the requested category (0 means the whole bank) that has
// not been asked yet. When the pool is exhausted the question is null,
// which tells the client the quiz is over.
func (h *QuizHandler) QuizNext(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		PreviousQuestions *[]int64 `json:"previous_questions"`
		QuizCategory      *int64   `json:"quiz_category"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	var missing []string
	if req.PreviousQuestions == nil {
		missing = append(missing, "previous_questions")
	}
	if req.QuizCategory == nil {
		missing = append(missing, "quiz_category")
	}
	if len(missing) > 0 {
		return missingFields(c, missing)
	}
	if *req.QuizCategory != repository.AllCategories {
		if _, err := h.Categories.GetByID(ctx, *req.QuizCategory); err != nil {
			return httpError(c, err)
		}
	}
	q, err := h.Questions.PickRandom(ctx, *req.QuizCategory, *req.PreviousQuestions)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"question": q})
}
