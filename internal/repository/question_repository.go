// Package repository contains data access logic for the quiz question bank:
// CRUD over questions, text search and the constrained random selector that
// drives quiz play.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"strings"
)

// Question represents one quiz question. Difficulty is an ordinal starting
// at 1; Category references the categories vocabulary.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	CategoryID int64  `json:"category"`
}

// ErrQuestionNotFound is returned when a question cannot be found in the DB.
var ErrQuestionNotFound = errors.New("question not found")

// AllCategories is the sentinel category id meaning "no category filter"
// for the random selector.
const AllCategories int64 = 0

// QuestionRepo encapsulates all database queries related to questions.
type QuestionRepo struct {
	db *sql.DB
}

// NewQuestionRepo constructs a QuestionRepo with the provided DB handle.
func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

func validateQuestion(q *Question) error {
	var missing []string
	if strings.TrimSpace(q.Question) == "" {
		missing = append(missing, "question")
	}
	if strings.TrimSpace(q.Answer) == "" {
		missing = append(missing, "answer")
	}
	if q.Difficulty < 1 {
		missing = append(missing, "difficulty")
	}
	if q.CategoryID == 0 {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Create inserts a new question. The category reference must resolve to
// the vocabulary or the insert is rejected with ErrUnknownTag. On success
// the generated ID is assigned back to the question.
func (r *QuestionRepo) Create(ctx context.Context, q *Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = ?`, q.CategoryID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownTag
		}
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (question, answer, difficulty, category) VALUES (?, ?, ?, ?)`,
		q.Question, q.Answer, q.Difficulty, q.CategoryID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = id
	return nil
}

// GetByID fetches a question by its ID, returning ErrQuestionNotFound when
// no row matches.
func (r *QuestionRepo) GetByID(ctx context.Context, id int64) (*Question, error) {
	const q = `SELECT id, question, answer, difficulty, category FROM questions WHERE id = ?`
	var out Question
	err := r.db.QueryRowContext(ctx, q, id).Scan(&out.ID, &out.Question, &out.Answer, &out.Difficulty, &out.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Delete removes a question, returning ErrQuestionNotFound when the id
// does not exist.
func (r *QuestionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// ListAll returns every question ordered by ascending id.
func (r *QuestionRepo) ListAll(ctx context.Context) ([]*Question, error) {
	const q = `SELECT id, question, answer, difficulty, category FROM questions ORDER BY id`
	return r.queryQuestions(ctx, q)
}

// ListByCategory returns every question in one category ordered by
// ascending id.
func (r *QuestionRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*Question, error) {
	const q = `SELECT id, question, answer, difficulty, category FROM questions WHERE category = ? ORDER BY id`
	return r.queryQuestions(ctx, q, categoryID)
}

// SearchByText returns every question whose text contains the term in any
// letter case, ordered by ascending id. The full match set is returned so
// callers can report the true total independent of the page served.
func (r *QuestionRepo) SearchByText(ctx context.Context, term string) ([]*Question, error) {
	const q = `SELECT id, question, answer, difficulty, category FROM questions
	           WHERE LOWER(question) LIKE ? ORDER BY id`
	return r.queryQuestions(ctx, q, "%"+strings.ToLower(term)+"%")
}

// PickRandom selects one question uniformly at random from the candidate
// pool: questions in the given category (or the whole bank when categoryID
// is AllCategories) minus any whose id appears in excludedIDs. Excluded
// ids that do not exist are ignored. An empty pool yields (nil, nil):
// the quiz is exhausted, which is a valid terminal state, not an error.
func (r *QuestionRepo) PickRandom(ctx context.Context, categoryID int64, excludedIDs []int64) (*Question, error) {
	where := []string{}
	args := []any{}
	if categoryID != AllCategories {
		where = append(where, "category = ?")
		args = append(args, categoryID)
	}
	if len(excludedIDs) > 0 {
		ph := strings.TrimSuffix(strings.Repeat("?,", len(excludedIDs)), ",")
		where = append(where, "id NOT IN ("+ph+")")
		for _, id := range excludedIDs {
			args = append(args, id)
		}
	}
	q := `SELECT id, question, answer, difficulty, category FROM questions`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY id`

	pool, err := r.queryQuestions(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}
	// Selection happens in Go rather than SQL so the query stays portable
	// and the distribution is uniform over the materialized pool.
	return pool[rand.Intn(len(pool))], nil
}

func (r *QuestionRepo) queryQuestions(ctx context.Context, q string, args ...any) ([]*Question, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Question
	for rows.Next() {
		item := new(Question)
		if err := rows.Scan(&item.ID, &item.Question, &item.Answer, &item.Difficulty, &item.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
