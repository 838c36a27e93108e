package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/ascenso/database"
	"github.com/lshigami/ascenso/internal/model"
	"github.com/lshigami/ascenso/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testUser  uint = 7
	otherUser uint = 8
)

var testStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// examFixture is a published, public exam with two sub-tests:
// A holds questions 0..2, B holds questions 3..4.
type examFixture struct {
	t           *testing.T
	ctx         context.Context
	db          *gorm.DB
	clock       *fakeClock
	timeAuth    *TimeAuthority
	attemptRepo repository.AttemptRepository
	svc         AttemptService
	sweeper     *ExpirySweeper

	exam        model.Exam
	subA, subB  model.SubTest
	joint       model.Track // A: +1 min 2, B: +1 no minimum
	independent model.Track // B only: +2 min 4
	questions   []model.ExamQuestion
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newExamFixture(t *testing.T) *examFixture {
	t.Helper()
	db := newTestDB(t)
	f := &examFixture{t: t, ctx: context.Background(), db: db, clock: newFakeClock(testStart)}

	f.exam = model.Exam{
		Title:            "Evaluación docente 2026",
		TimeLimitMinutes: 60,
		AccessMode:       model.AccessModePublic,
		Status:           model.ExamStatusPublished,
	}
	f.mustCreate(&f.exam)
	f.subA = model.SubTest{ExamID: f.exam.ID, Name: "Pedagogía"}
	f.subB = model.SubTest{ExamID: f.exam.ID, Name: "Disciplina"}
	f.mustCreate(&f.subA)
	f.mustCreate(&f.subB)

	for i := 0; i < 5; i++ {
		q := model.Question{
			Prompt: "Pregunta",
			Options: []model.QuestionOption{
				{Label: "correcta", IsCorrect: true, Position: 0},
				{Label: "incorrecta", Position: 1},
				{Label: "otra", Position: 2},
			},
		}
		f.mustCreate(&q)
		sub := f.subA.ID
		if i >= 3 {
			sub = f.subB.ID
		}
		eq := model.ExamQuestion{ExamID: f.exam.ID, QuestionID: q.ID, SubTestID: sub, OrderInExam: i}
		if err := db.Omit(clause.Associations).Create(&eq).Error; err != nil {
			t.Fatalf("create exam question: %v", err)
		}
	}

	f.joint = model.Track{ExamID: f.exam.ID, Name: "Conjunta", ApprovalMode: model.ApprovalJoint, ScoringRules: []model.ScoringRule{
		{SubTestID: f.subA.ID, PointsCorrect: 1, MinimumRequiredScore: floatPtr(2)},
		{SubTestID: f.subB.ID, PointsCorrect: 1},
	}}
	f.independent = model.Track{ExamID: f.exam.ID, Name: "Independiente", ApprovalMode: model.ApprovalIndependent, ScoringRules: []model.ScoringRule{
		{SubTestID: f.subB.ID, PointsCorrect: 2, MinimumRequiredScore: floatPtr(4)},
	}}
	f.mustCreate(&f.joint)
	f.mustCreate(&f.independent)

	examRepo := repository.NewExamRepository(db)
	loaded, err := examRepo.FindByIDWithQuestions(f.ctx, nil, f.exam.ID)
	if err != nil {
		t.Fatalf("reload exam: %v", err)
	}
	f.questions = loaded.Questions

	f.timeAuth = NewTimeAuthority(f.clock, time.UTC)
	f.attemptRepo = repository.NewAttemptRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	f.svc = NewAttemptService(
		db,
		examRepo,
		f.attemptRepo,
		answerRepo,
		repository.NewSubTestResultRepository(db),
		NewAnswerStore(answerRepo, f.attemptRepo, f.timeAuth),
		NewScoringService(),
		NewAccessPolicy(examRepo),
		f.timeAuth,
		NewAttemptLocker(),
		&geminiFeedbackGenerator{},
	)
	f.sweeper = &ExpirySweeper{attemptRepo: f.attemptRepo, attempts: f.svc, timeAuth: f.timeAuth, interval: time.Minute, batchSize: 10}
	return f
}

func (f *examFixture) mustCreate(v interface{}) {
	f.t.Helper()
	if err := f.db.Create(v).Error; err != nil {
		f.t.Fatalf("create %T: %v", v, err)
	}
}

func (f *examFixture) updateExam(fields map[string]interface{}) {
	f.t.Helper()
	if err := f.db.Model(&model.Exam{}).Where("id = ?", f.exam.ID).Updates(fields).Error; err != nil {
		f.t.Fatalf("update exam: %v", err)
	}
}

func (f *examFixture) startJoint(userID uint) *examView {
	f.t.Helper()
	view, _, err := f.svc.StartOrResume(f.ctx, StartAttemptInput{ExamID: f.exam.ID, UserID: userID, TrackID: f.joint.ID})
	if err != nil {
		f.t.Fatalf("StartOrResume: %v", err)
	}
	return &examView{f: f, attemptID: view.AttemptID, userID: userID}
}

// correct and wrong return option ids of the question at index i.
func (f *examFixture) correct(i int) uint { return f.questions[i].Question.Options[0].ID }
func (f *examFixture) wrong(i int) uint   { return f.questions[i].Question.Options[1].ID }
func (f *examFixture) qid(i int) uint     { return f.questions[i].QuestionID }

// examView is a started attempt plus helpers to drive it.
type examView struct {
	f         *examFixture
	attemptID uint
	userID    uint
}

func (v *examView) save(i int, options ...uint) {
	v.f.t.Helper()
	res, err := v.f.svc.SaveAnswer(v.f.ctx, SaveAnswerInput{
		AttemptID: v.attemptID, UserID: v.userID, QuestionID: v.f.qid(i), SelectedOptionIDs: options,
	})
	if err != nil {
		v.f.t.Fatalf("SaveAnswer(%d): %v", i, err)
	}
	if !res.Saved {
		v.f.t.Fatalf("SaveAnswer(%d) not saved: %+v", i, res)
	}
}

func (v *examView) attempt() *model.Attempt {
	v.f.t.Helper()
	a, err := v.f.attemptRepo.FindByID(v.f.ctx, nil, v.attemptID)
	if err != nil {
		v.f.t.Fatalf("load attempt: %v", err)
	}
	return a
}
