package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return repo
}

func seedMessage(t *testing.T, repo *Repository, messageID int64, username string, date time.Time, text string) {
	t.Helper()
	row := Message{
		MessageID: messageID,
		UserID:    messageID,
		Username:  username,
		Date:      date,
		Text:      &text,
		MediaType: "text",
	}
	if err := repo.DB().Create(&row).Error; err != nil {
		t.Fatal(err)
	}
}

func TestMessagesInRange(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	seedMessage(t, repo, 1, "Alice", base, "первое")
	seedMessage(t, repo, 2, "Bob", base.AddDate(0, 0, 5), "второе")
	seedMessage(t, repo, 3, "Alice", base.AddDate(0, 0, 10), "третье")

	window := domain.DateRange{From: base.AddDate(0, 0, 1), To: base.AddDate(0, 0, 7)}
	records, err := repo.MessagesInRange(context.Background(), window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record in window, got %d", len(records))
	}
	if records[0].Username != "Bob" {
		t.Fatalf("expected Bob, got %s", records[0].Username)
	}
	if records[0].MediaKind != domain.MediaText {
		t.Fatalf("expected text media kind, got %s", records[0].MediaKind)
	}
}

func TestMessagesFullHistoryOnZeroRange(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	seedMessage(t, repo, 1, "Alice", base, "a")
	seedMessage(t, repo, 2, "Bob", base.AddDate(0, 1, 0), "b")

	records, err := repo.MessagesInRange(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected full history, got %d records", len(records))
	}
	if !records[0].Date.Before(records[1].Date) {
		t.Fatalf("expected oldest-first ordering")
	}
}

func TestMentionsInRange(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []Mention{
		{SourceUsername: "Bob", TargetName: "@a", Date: base},
		{SourceUsername: "Bob", TargetName: "@unknown", Date: base.AddDate(0, 0, 2)},
	}
	for i := range rows {
		if err := repo.DB().Create(&rows[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	records, err := repo.MentionsInRange(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 mentions, got %d", len(records))
	}
	if records[0].TargetName != "@a" {
		t.Fatalf("expected raw target preserved, got %q", records[0].TargetName)
	}
}

func TestDateBounds(t *testing.T) {
	repo := newTestRepository(t)

	if _, _, ok, err := repo.DateBounds(context.Background()); err != nil || ok {
		t.Fatalf("expected empty archive bounds, ok=%v err=%v", ok, err)
	}

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seedMessage(t, repo, 1, "Alice", first, "old")
	seedMessage(t, repo, 2, "Alice", last, "new")

	minDate, maxDate, ok, err := repo.DateBounds(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected bounds")
	}
	if !minDate.Equal(first) || !maxDate.Equal(last) {
		t.Fatalf("unexpected bounds: %v .. %v", minDate, maxDate)
	}
}
