package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"snaphunt/internal/hunt"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func seedThree(t *testing.T) (*Registry, []hunt.Task) {
	t.Helper()
	r := New(testLogger())
	tasks, err := r.Seed(context.Background(), []hunt.SeedTask{
		{Title: "first", Description: "a"},
		{Title: "second", Description: "b"},
		{Title: "third", Description: "c"},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return r, tasks
}

func TestSeedAssignsOrderedIDs(t *testing.T) {
	r, seeded := seedThree(t)

	listed := r.List(context.Background())
	if len(listed) != 3 {
		t.Fatalf("List returned %d tasks", len(listed))
	}
	seen := map[string]bool{}
	for i, task := range listed {
		if task.Title != seeded[i].Title {
			t.Errorf("task %d = %q, want %q", i, task.Title, seeded[i].Title)
		}
		if !strings.HasPrefix(task.ID, "t_") {
			t.Errorf("task id %q missing t_ prefix", task.ID)
		}
		if seen[task.ID] {
			t.Errorf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
		if task.Completed || task.Photo != nil || task.Location != nil {
			t.Errorf("seeded task %d not pending: %+v", i, task)
		}
	}
}

func TestSeedTwice(t *testing.T) {
	r, _ := seedThree(t)
	_, err := r.Seed(context.Background(), []hunt.SeedTask{{Title: "late"}})
	if !errors.Is(err, ErrAlreadySeeded) {
		t.Errorf("second Seed = %v, want ErrAlreadySeeded", err)
	}
	if len(r.List(context.Background())) != 3 {
		t.Error("failed reseed changed the checklist")
	}
}

func TestGetUnknown(t *testing.T) {
	r, _ := seedThree(t)
	_, err := r.Get(context.Background(), "t_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestUpdateCommitsMutation(t *testing.T) {
	r, tasks := seedThree(t)
	id := tasks[1].ID

	updated, err := r.Update(context.Background(), id, func(task *hunt.Task) error {
		task.Description = "rewritten"
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != "rewritten" {
		t.Errorf("returned task = %+v", updated)
	}

	got, err := r.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Description != "rewritten" {
		t.Errorf("stored task = %+v", got)
	}
}

func TestUpdateErrorLeavesTaskUntouched(t *testing.T) {
	r, tasks := seedThree(t)
	id := tasks[0].ID
	before, _ := r.Get(context.Background(), id)

	boom := errors.New("boom")
	_, err := r.Update(context.Background(), id, func(task *hunt.Task) error {
		task.Completed = true
		task.Description = "half done"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update = %v, want the mutation error", err)
	}

	after, _ := r.Get(context.Background(), id)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("failed mutation leaked: before %+v, after %+v", before, after)
	}
}

func TestUpdateUnknown(t *testing.T) {
	r, _ := seedThree(t)
	_, err := r.Update(context.Background(), "t_missing", func(*hunt.Task) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update = %v, want ErrNotFound", err)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	r, tasks := seedThree(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, task := range tasks {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(id string, i int) {
				defer wg.Done()
				_, err := r.Update(ctx, id, func(task *hunt.Task) error {
					task.Description = fmt.Sprintf("pass %d", i)
					return nil
				})
				if err != nil {
					t.Errorf("Update: %v", err)
				}
			}(task.ID, i)
		}
	}
	wg.Wait()

	for _, task := range r.List(ctx) {
		if !strings.HasPrefix(task.Description, "pass ") {
			t.Errorf("task %s description = %q", task.ID, task.Description)
		}
	}
}
