// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/store"
	"github.com/danielhkuo/ku-polls/testutil"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	return store.New(conn)
}

func TestCreateAndGetQuestion(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	pub := time.Now().Add(-time.Hour).Truncate(time.Second)
	end := pub.Add(48 * time.Hour)

	q, choices := testutil.CreateTestQuestion(t, st, "  Favourite colour?  ", pub, &end, "Red", "Green", "Blue")

	if q.ID == "" {
		t.Fatal("Expected non-empty question ID")
	}
	if len(choices) != 3 {
		t.Fatalf("Expected 3 choices, got %d", len(choices))
	}

	got, err := st.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if got.Text != "Favourite colour?" {
		t.Errorf("Expected trimmed text, got %q", got.Text)
	}
	if !got.PubDate.Equal(pub) {
		t.Errorf("PubDate = %v, want %v", got.PubDate, pub)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("EndDate = %v, want %v", got.EndDate, end)
	}

	stored, err := st.Choices(ctx, q.ID)
	if err != nil {
		t.Fatalf("Choices() error = %v", err)
	}
	for i, want := range []string{"Red", "Green", "Blue"} {
		if stored[i].Text != want {
			t.Errorf("choice %d = %q, want %q", i, stored[i].Text, want)
		}
		if stored[i].Votes != 0 {
			t.Errorf("choice %d has %d votes, want 0", i, stored[i].Votes)
		}
	}
}

func TestCreateQuestionRejectsEndBeforePub(t *testing.T) {
	st := setupStore(t)
	pub := time.Now()
	end := pub.Add(-time.Minute)

	_, _, err := st.CreateQuestion(context.Background(), models.Question{Text: "Bad", PubDate: pub, EndDate: &end}, nil)
	if !errors.Is(err, models.ErrInvalidDates) {
		t.Errorf("CreateQuestion() error = %v, want %v", err, models.ErrInvalidDates)
	}
}

func TestGetQuestionNotFound(t *testing.T) {
	st := setupStore(t)

	if _, err := st.GetQuestion(context.Background(), "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetQuestion() error = %v, want %v", err, models.ErrNotFound)
	}
}

func TestListPublished(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	now := time.Now()
	day := 24 * time.Hour

	past30, _ := testutil.CreateTestQuestion(t, st, "Past 30", now.Add(-30*day), nil)
	past5, _ := testutil.CreateTestQuestion(t, st, "Past 5", now.Add(-5*day), nil)
	closed, _ := testutil.CreateTestQuestion(t, st, "Closed", now.Add(-3*day), testutil.Ptr(now.Add(-day)))
	testutil.CreateTestQuestion(t, st, "Future", now.Add(30*day), nil)

	got, err := st.ListPublished(ctx, now, 5)
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}

	want := []string{closed.ID, past5.ID, past30.ID}
	if len(got) != len(want) {
		t.Fatalf("ListPublished() returned %d questions, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %s (%s), want %s", i, got[i].ID, got[i].Text, id)
		}
	}
}

func TestListPublishedLimit(t *testing.T) {
	st := setupStore(t)
	now := time.Now()

	for i := 0; i < 7; i++ {
		testutil.CreateTestQuestion(t, st, "Q", now.Add(-time.Duration(i+1)*time.Hour), nil)
	}

	got, err := st.ListPublished(context.Background(), now, 5)
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if len(got) != 5 {
		t.Errorf("ListPublished() returned %d, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].PubDate.After(got[i-1].PubDate) {
			t.Errorf("ListPublished() not ordered newest first at %d", i)
		}
	}
}

func TestUpdateQuestionDates(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	q, _ := testutil.CreateTestQuestion(t, st, "Q", now, nil)

	end := now.Add(time.Hour)
	updated, err := st.UpdateQuestionDates(ctx, q.ID, now, &end)
	if err != nil {
		t.Fatalf("UpdateQuestionDates() error = %v", err)
	}
	if updated.Text != "Q" {
		t.Errorf("text changed to %q", updated.Text)
	}

	got, _ := st.GetQuestion(ctx, q.ID)
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("EndDate = %v, want %v", got.EndDate, end)
	}

	bad := now.Add(-time.Hour)
	if _, err := st.UpdateQuestionDates(ctx, q.ID, now, &bad); !errors.Is(err, models.ErrInvalidDates) {
		t.Errorf("UpdateQuestionDates() error = %v, want %v", err, models.ErrInvalidDates)
	}
	if _, err := st.UpdateQuestionDates(ctx, "missing", now, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateQuestionDates() error = %v, want %v", err, models.ErrNotFound)
	}
}

func TestDeleteQuestionCascades(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	q, choices := testutil.CreateTestQuestion(t, st, "Q", time.Now().Add(-time.Hour), nil, "A", "B")
	u := testutil.CreateTestUser(t, st, "alice")
	if _, _, err := st.UpsertVote(ctx, u.ID, q.ID, choices[0].ID, time.Now()); err != nil {
		t.Fatalf("UpsertVote() error = %v", err)
	}

	if err := st.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("DeleteQuestion() error = %v", err)
	}

	if got, _ := st.Choices(ctx, q.ID); len(got) != 0 {
		t.Errorf("Choices() after delete = %d, want 0", len(got))
	}
	if n, _ := st.CountVotes(ctx, u.ID, q.ID); n != 0 {
		t.Errorf("votes after delete = %d, want 0", n)
	}
	if err := st.DeleteQuestion(ctx, q.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second DeleteQuestion() error = %v, want %v", err, models.ErrNotFound)
	}
}

func TestAddChoice(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	q, _ := testutil.CreateTestQuestion(t, st, "Q", time.Now(), nil, "A", "B")

	c, err := st.AddChoice(ctx, q.ID, "C")
	if err != nil {
		t.Fatalf("AddChoice() error = %v", err)
	}

	choices, _ := st.Choices(ctx, q.ID)
	if len(choices) != 3 || choices[2].ID != c.ID {
		t.Errorf("new choice should be last, got %+v", choices)
	}

	if _, err := st.AddChoice(ctx, "missing", "X"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("AddChoice() on missing question error = %v, want %v", err, models.ErrNotFound)
	}
}

func TestChoiceForQuestion(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	q1, c1 := testutil.CreateTestQuestion(t, st, "Q1", time.Now(), nil, "A")
	_, c2 := testutil.CreateTestQuestion(t, st, "Q2", time.Now(), nil, "B")

	if got, err := st.ChoiceForQuestion(ctx, q1.ID, c1[0].ID); err != nil || got.Text != "A" {
		t.Errorf("ChoiceForQuestion() = %+v, %v", got, err)
	}
	if _, err := st.ChoiceForQuestion(ctx, q1.ID, c2[0].ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ChoiceForQuestion() across questions error = %v, want %v", err, models.ErrNotFound)
	}
}

func TestUpsertVote(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	q, choices := testutil.CreateTestQuestion(t, st, "Q", time.Now().Add(-time.Hour), nil, "A", "B", "C")
	u := testutil.CreateTestUser(t, st, "alice")

	first, created, err := st.UpsertVote(ctx, u.ID, q.ID, choices[0].ID, time.Now())
	if err != nil {
		t.Fatalf("UpsertVote() error = %v", err)
	}
	if !created {
		t.Error("first vote should report created")
	}

	// Every later vote repoints the same row
	for _, c := range []models.Choice{choices[1], choices[2], choices[1]} {
		v, created, err := st.UpsertVote(ctx, u.ID, q.ID, c.ID, time.Now())
		if err != nil {
			t.Fatalf("UpsertVote() error = %v", err)
		}
		if created {
			t.Error("repeat vote should not report created")
		}
		if v.ID != first.ID {
			t.Errorf("vote ID changed from %s to %s", first.ID, v.ID)
		}
		if v.ChoiceID != c.ID {
			t.Errorf("vote choice = %s, want %s", v.ChoiceID, c.ID)
		}
	}

	if n, _ := st.CountVotes(ctx, u.ID, q.ID); n != 1 {
		t.Errorf("CountVotes() = %d, want 1", n)
	}

	// Counts are derived: only the latest choice holds the vote
	got, _ := st.Choices(ctx, q.ID)
	wantVotes := []int{0, 1, 0}
	for i, c := range got {
		if c.Votes != wantVotes[i] {
			t.Errorf("choice %s votes = %d, want %d", c.Text, c.Votes, wantVotes[i])
		}
	}
}

func TestUpsertVoteRejectsForeignChoice(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	q1, c1 := testutil.CreateTestQuestion(t, st, "Q1", time.Now(), nil, "A")
	_, c2 := testutil.CreateTestQuestion(t, st, "Q2", time.Now(), nil, "B")
	u := testutil.CreateTestUser(t, st, "alice")

	if _, _, err := st.UpsertVote(ctx, u.ID, q1.ID, c1[0].ID, time.Now()); err != nil {
		t.Fatalf("UpsertVote() error = %v", err)
	}

	_, _, err := st.UpsertVote(ctx, u.ID, q1.ID, c2[0].ID, time.Now())
	if !errors.Is(err, models.ErrInvalidChoice) {
		t.Fatalf("UpsertVote() error = %v, want %v", err, models.ErrInvalidChoice)
	}

	// Existing vote untouched
	v, err := st.VoteFor(ctx, u.ID, q1.ID)
	if err != nil {
		t.Fatalf("VoteFor() error = %v", err)
	}
	if v.ChoiceID != c1[0].ID {
		t.Errorf("vote choice = %s, want %s", v.ChoiceID, c1[0].ID)
	}

	if _, _, err := st.UpsertVote(ctx, u.ID, q1.ID, "missing", time.Now()); !errors.Is(err, models.ErrInvalidChoice) {
		t.Errorf("UpsertVote() with unknown choice error = %v, want %v", err, models.ErrInvalidChoice)
	}
}

func TestVoteForNotFound(t *testing.T) {
	st := setupStore(t)
	q, _ := testutil.CreateTestQuestion(t, st, "Q", time.Now(), nil, "A")
	u := testutil.CreateTestUser(t, st, "alice")

	if _, err := st.VoteFor(context.Background(), u.ID, q.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("VoteFor() error = %v, want %v", err, models.ErrNotFound)
	}
}

// TestConcurrentUpsertVote verifies the (user, question) constraint holds when
// one user submits many votes at once
func TestConcurrentUpsertVote(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	q, choices := testutil.CreateTestQuestion(t, st, "Q", time.Now().Add(-time.Hour), nil, "A", "B", "C")
	u := testutil.CreateTestUser(t, st, "racer")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := st.UpsertVote(ctx, u.ID, q.ID, choices[i%3].ID, time.Now()); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent UpsertVote() error = %v", err)
	}

	if n, _ := st.CountVotes(ctx, u.ID, q.ID); n != 1 {
		t.Errorf("CountVotes() = %d, want exactly 1", n)
	}

	total := 0
	got, _ := st.Choices(ctx, q.ID)
	for _, c := range got {
		total += c.Votes
	}
	if total != 1 {
		t.Errorf("total derived votes = %d, want 1", total)
	}
}

func TestUsers(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	u := testutil.CreateTestUser(t, st, "alice")

	byName, err := st.UserByUsername(ctx, "alice")
	if err != nil || byName.ID != u.ID {
		t.Errorf("UserByUsername() = %+v, %v", byName, err)
	}
	byID, err := st.UserByID(ctx, u.ID)
	if err != nil || byID.Username != "alice" {
		t.Errorf("UserByID() = %+v, %v", byID, err)
	}

	if _, err := st.CreateUser(ctx, "alice", "hash"); !errors.Is(err, models.ErrUsernameTaken) {
		t.Errorf("duplicate CreateUser() error = %v, want %v", err, models.ErrUsernameTaken)
	}
	if _, err := st.UserByUsername(ctx, "bob"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UserByUsername() error = %v, want %v", err, models.ErrNotFound)
	}
}
