// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/testutil"
)

// TestConcurrentVotesSameUser verifies that simultaneous submissions from
// one user (several tabs) leave exactly one vote behind
func TestConcurrentVotesSameUser(t *testing.T) {
	env := newPollsEnv(t)

	q, choices := testutil.CreateTestQuestion(t, env.st, "Race", testNow.Add(-time.Hour), nil, "A", "B", "C")
	user := testutil.CreateTestUser(t, env.st, "harry")

	numAttempts := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := postForm("/polls/"+q.ID+"/vote/", url.Values{"choice": {choices[idx%len(choices)].ID}})
			req.SetPathValue("id", q.ID)
			req = middleware.WithUser(req, user)
			w := httptest.NewRecorder()

			env.handler.Vote(w, req)

			if w.Code == http.StatusFound {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numAttempts {
		t.Errorf("Expected %d successful submissions, got %d", numAttempts, successCount.Load())
	}

	n, err := env.st.CountVotes(context.Background(), user.ID, q.ID)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected exactly 1 vote row, got %d", n)
	}
}

// TestConcurrentVotesManyUsers verifies that simultaneous votes from different
// users are all counted
func TestConcurrentVotesManyUsers(t *testing.T) {
	env := newPollsEnv(t)

	q, choices := testutil.CreateTestQuestion(t, env.st, "Lunch", testNow.Add(-time.Hour), nil, "Pizza", "Sushi")

	numVoters := 10
	users := make([]models.User, numVoters)
	for i := range users {
		users[i] = testutil.CreateTestUser(t, env.st, fmt.Sprintf("voter%02d", i))
	}

	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(idx int, u models.User) {
			defer wg.Done()

			req := postForm("/polls/"+q.ID+"/vote/", url.Values{"choice": {choices[idx%2].ID}})
			req.SetPathValue("id", q.ID)
			req = middleware.WithUser(req, u)
			env.handler.Vote(httptest.NewRecorder(), req)
		}(i, u)
	}

	wg.Wait()

	got, err := env.st.Choices(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("Failed to load choices: %v", err)
	}
	if got[0].Votes != numVoters/2 || got[1].Votes != numVoters/2 {
		t.Errorf("Expected %d votes each, got %d and %d", numVoters/2, got[0].Votes, got[1].Votes)
	}
	if totalVotes(got) != numVoters {
		t.Errorf("Expected %d votes in total, got %d", numVoters, totalVotes(got))
	}
}

// TestConcurrentSignupSameUsername verifies that exactly one of several
// simultaneous signups for one username wins
func TestConcurrentSignupSameUsername(t *testing.T) {
	st, _, h := newAccountEnv(t)

	numAttempts := 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			h.Signup(w, postForm("/signup/", url.Values{
				"username":  {"contested"},
				"password1": {"Leviosa123"},
				"password2": {"Leviosa123"},
			}))

			if w.Code == http.StatusFound {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful signup, got %d", successCount.Load())
	}
	if _, err := st.UserByUsername(context.Background(), "contested"); err != nil {
		t.Errorf("Expected the winning account to exist: %v", err)
	}
}
