package config

import (
	"fmt"
	"time"
)

// WorkflowConfig holds the windows and budgets of the job/candidate engine.
type WorkflowConfig struct {
	JobDefaultExpiryDays int
	ExpiringSoonDays     int
	RestoreWindowDays    int
	MaxRetries           int
	IdempotencyBucket    time.Duration
	IdempotencyTTL       time.Duration
	IdempotencyStore     string
	PurgeSweepEnabled    bool
	PurgeSweepInterval   time.Duration
	TalentBankTitle      string
	InviteConcurrency    int
	NotificationQueue    int
	NotificationWorkers  int
}

// DefaultWorkflowConfig returns the built-in windows, used as the base for
// environment overrides
func DefaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		JobDefaultExpiryDays: 20,
		ExpiringSoonDays:     3,
		RestoreWindowDays:    30,
		MaxRetries:           3,
		IdempotencyBucket:    time.Minute,
		IdempotencyTTL:       10 * time.Minute,
		IdempotencyStore:     "redis",
		PurgeSweepEnabled:    true,
		PurgeSweepInterval:   6 * time.Hour,
		TalentBankTitle:      "Talent Bank",
		InviteConcurrency:    4,
		NotificationQueue:    256,
		NotificationWorkers:  2,
	}
}

func loadWorkflowConfig() WorkflowConfig {
	d := DefaultWorkflowConfig()
	return WorkflowConfig{
		JobDefaultExpiryDays: getEnvInt("JOB_DEFAULT_EXPIRY_DAYS", d.JobDefaultExpiryDays),
		ExpiringSoonDays:     getEnvInt("JOB_EXPIRING_SOON_DAYS", d.ExpiringSoonDays),
		RestoreWindowDays:    getEnvInt("JOB_RESTORE_WINDOW_DAYS", d.RestoreWindowDays),
		MaxRetries:           getEnvInt("WORKFLOW_MAX_RETRIES", d.MaxRetries),
		IdempotencyBucket:    getEnvDuration("WORKFLOW_IDEMPOTENCY_BUCKET", d.IdempotencyBucket),
		IdempotencyTTL:       getEnvDuration("WORKFLOW_IDEMPOTENCY_TTL", d.IdempotencyTTL),
		IdempotencyStore:     getEnv("WORKFLOW_IDEMPOTENCY_STORE", d.IdempotencyStore),
		PurgeSweepEnabled:    getEnvBool("JOB_PURGE_SWEEP_ENABLED", d.PurgeSweepEnabled),
		PurgeSweepInterval:   getEnvDuration("JOB_PURGE_SWEEP_INTERVAL", d.PurgeSweepInterval),
		TalentBankTitle:      getEnv("TALENT_BANK_TITLE", d.TalentBankTitle),
		InviteConcurrency:    getEnvInt("INVITE_BATCH_CONCURRENCY", d.InviteConcurrency),
		NotificationQueue:    getEnvInt("NOTIFICATION_QUEUE_SIZE", d.NotificationQueue),
		NotificationWorkers:  getEnvInt("NOTIFICATION_WORKERS", d.NotificationWorkers),
	}
}

func (w WorkflowConfig) Validate() error {
	if w.JobDefaultExpiryDays <= 0 {
		return fmt.Errorf("JOB_DEFAULT_EXPIRY_DAYS must be positive")
	}
	if w.RestoreWindowDays <= 0 {
		return fmt.Errorf("JOB_RESTORE_WINDOW_DAYS must be positive")
	}
	if w.ExpiringSoonDays < 0 {
		return fmt.Errorf("JOB_EXPIRING_SOON_DAYS must not be negative")
	}
	if w.MaxRetries < 1 {
		return fmt.Errorf("WORKFLOW_MAX_RETRIES must be at least 1")
	}
	if w.IdempotencyBucket <= 0 {
		return fmt.Errorf("WORKFLOW_IDEMPOTENCY_BUCKET must be positive")
	}
	if w.InviteConcurrency < 1 {
		return fmt.Errorf("INVITE_BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}
