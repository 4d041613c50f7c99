package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"retohub/internal/common"
	"retohub/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func newChallengeService(t *testing.T) (*ChallengeService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewChallengeService(repository.NewPgChallengeRepository(db), db), mock
}

func validChallengeRequest() CreateChallengeRequest {
	return CreateChallengeRequest{
		Title:          "Two Sum",
		Description:    "Find two numbers that add up to the target.",
		DifficultyName: "Easy",
		Languages:      []string{"Python", "Go"},
		Tests: []CreateTestCase{
			{Input: "1 2 3", ExpectedOutput: "3"},
		},
	}
}

func TestCreateChallengeCommitsEverything(t *testing.T) {
	svc, mock := newChallengeService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM difficulties WHERE name = $1`)).
		WithArgs("Easy").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Easy"))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO challenges`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, version FROM languages WHERE name IN`)).
		WithArgs("Python", "Go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "version"}).
			AddRow(1, "Python", "3.12").
			AddRow(2, "Go", "1.24"))
	prepLang := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO challenge_languages`))
	prepLang.ExpectExec().WithArgs(9, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	prepLang.ExpectExec().WithArgs(9, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	prepTests := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO tests`))
	prepTests.ExpectExec().WithArgs("1 2 3", "3", true, 9).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	challenge, err := svc.CreateChallenge(context.Background(), validChallengeRequest())
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if challenge.ID != 9 {
		t.Errorf("challenge.ID = %d, want 9", challenge.ID)
	}
	if challenge.Slug != "two-sum" {
		t.Errorf("challenge.Slug = %q, want %q", challenge.Slug, "two-sum")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateChallengeUnknownDifficultyRollsBack(t *testing.T) {
	svc, mock := newChallengeService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM difficulties WHERE name = $1`)).
		WithArgs("Impossible").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	req := validChallengeRequest()
	req.DifficultyName = "Impossible"
	_, err := svc.CreateChallenge(context.Background(), req)
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateChallengeUnknownLanguageRollsBack(t *testing.T) {
	svc, mock := newChallengeService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM difficulties WHERE name = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Easy"))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO challenges`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	// Only one of the two requested names resolves.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, version FROM languages WHERE name IN`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "version"}).AddRow(1, "Python", "3.12"))
	mock.ExpectRollback()

	_, err := svc.CreateChallenge(context.Background(), validChallengeRequest())
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateChallengeValidation(t *testing.T) {
	svc, _ := newChallengeService(t)

	cases := []struct {
		name   string
		mutate func(*CreateChallengeRequest)
	}{
		{"missing title", func(r *CreateChallengeRequest) { r.Title = "" }},
		{"no languages", func(r *CreateChallengeRequest) { r.Languages = nil }},
		{"no tests", func(r *CreateChallengeRequest) { r.Tests = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validChallengeRequest()
			tc.mutate(&req)
			_, err := svc.CreateChallenge(context.Background(), req)
			if !errors.Is(err, common.ErrBadRequest) {
				t.Errorf("err = %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestGetChallengeDetailHidesPrivateTests(t *testing.T) {
	svc, mock := newChallengeService(t)

	published := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.id = $1`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "slug", "description", "published_at", "time_limit_seconds", "difficulty_id", "name",
		}).AddRow(9, "Two Sum", "two-sum", "Find two numbers.", published, nil, 1, "Easy"))
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN challenge_languages cl ON l.id = cl.language_id`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "version"}).
			AddRow(1, "Python", "3.12").
			AddRow(2, "Go", "1.24"))
	// The store only ever serves public cases to the detail view.
	mock.ExpectQuery(regexp.QuoteMeta(`FROM tests WHERE challenge_id = $1 AND is_public = TRUE`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"input", "expected_output"}).
			AddRow("1 2 3", "3"))

	detail, err := svc.GetChallengeByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetChallengeByID: %v", err)
	}
	if detail.Slug != "two-sum" || detail.DifficultyName != "Easy" {
		t.Errorf("detail = %+v", detail.Challenge)
	}
	if len(detail.Languages) != 2 {
		t.Errorf("len(Languages) = %d, want 2", len(detail.Languages))
	}
	if len(detail.Tests) != 1 {
		t.Fatalf("len(Tests) = %d, want only the public case", len(detail.Tests))
	}
	if detail.Tests[0].Input != "1 2 3" || !detail.Tests[0].IsPublic {
		t.Errorf("Tests[0] = %+v, want the public case", detail.Tests[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetChallengeBySlugNotFound(t *testing.T) {
	svc, mock := newChallengeService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.slug = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetChallengeBySlug(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateChallengePrivateTests(t *testing.T) {
	svc, mock := newChallengeService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM difficulties WHERE name = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Easy"))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO challenges`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, version FROM languages WHERE name IN`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "version"}).
			AddRow(1, "Python", "3.12").
			AddRow(2, "Go", "1.24"))
	prepLang := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO challenge_languages`))
	prepLang.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prepLang.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prepTests := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO tests`))
	prepTests.ExpectExec().WithArgs("hidden", "out", false, 9).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	hidden := false
	req := validChallengeRequest()
	req.Tests = []CreateTestCase{{Input: "hidden", ExpectedOutput: "out", IsPublic: &hidden}}
	if _, err := svc.CreateChallenge(context.Background(), req); err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
