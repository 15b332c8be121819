package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/google/uuid"
)

func noop(context.Context) error { return nil }

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(time.Second, Job{Name: "broken", Schedule: "every tuesday", Run: noop})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("err = %v, want schedule error naming the job", err)
	}
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New(time.Second, Job{Name: "a", Run: noop}, Job{Name: "a", Run: noop})
	if err == nil {
		t.Error("duplicate job names accepted")
	}
}

func TestScheduler_RunByName(t *testing.T) {
	var ran []string
	job := func(name string) Job {
		return Job{Name: name, Schedule: "@daily", Run: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("job context has no deadline")
			}
			ran = append(ran, name)
			return nil
		}}
	}
	s, err := New(time.Minute, job("zeta"), job("alpha"), Job{Name: "manual", Run: noop})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := strings.Join(s.Names(), ","); got != "alpha,manual,zeta" {
		t.Errorf("Names = %s", got)
	}
	if err := s.Run(context.Background(), "zeta"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ran) != 1 || ran[0] != "zeta" {
		t.Errorf("ran = %v", ran)
	}
	if err := s.Run(context.Background(), "missing"); err == nil {
		t.Error("unknown job ran")
	}
}

func TestScheduler_RunReturnsJobError(t *testing.T) {
	boom := errors.New("boom")
	s, err := New(0, Job{Name: "fail", Run: func(context.Context) error { return boom }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(context.Background(), "fail"); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New(time.Second, Job{Name: "tick", Schedule: "@every 1h", Run: noop})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

type countingKeys struct {
	removed int64
}

func (c *countingKeys) GetByKey(context.Context, string, uuid.UUID) (*entity.IdempotencyKey, error) {
	return nil, nil
}
func (c *countingKeys) Claim(context.Context, *entity.IdempotencyKey) (bool, error) {
	return true, nil
}
func (c *countingKeys) Save(context.Context, *entity.IdempotencyKey) error { return nil }
func (c *countingKeys) Release(context.Context, uuid.UUID) error { return nil }
func (c *countingKeys) DeleteExpired(context.Context) (int64, error) {
	c.removed++
	return 3, nil
}

type snapshotter struct{ path string }

func (s *snapshotter) BackupTo(_ context.Context, path string) error {
	s.path = path
	return nil
}

func TestJobs_Wiring(t *testing.T) {
	keys := &countingKeys{}
	snap := &snapshotter{}
	backups := service.NewBackupService(snap, t.TempDir(), 0)

	s, err := New(time.Minute,
		IdempotencyCleanupJob("@hourly", keys),
		BackupJob("", backups),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Run(context.Background(), JobIdempotencyCleanup); err != nil || keys.removed != 1 {
		t.Errorf("cleanup: err=%v calls=%d", err, keys.removed)
	}

	// The fake snapshot writes nothing, so the size check fails after the call.
	err = s.Run(context.Background(), JobBackup)
	if snap.path == "" || filepath.Ext(snap.path) != ".db" {
		t.Errorf("snapshot path = %q", snap.path)
	}
	if err == nil {
		t.Error("backup without a written file succeeded")
	}
}
