package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWelcomeEmail is the task type for post-registration emails.
	TaskTypeWelcomeEmail = "mail:welcome"
	// TaskTypePostCacheWarmup is the task type for refreshing the post
	// listing cache.
	TaskTypePostCacheWarmup = "posts:cache_warmup"
)

// WelcomeEmailPayload describes the information required to greet a new
// account.
type WelcomeEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewWelcomeEmailTask constructs an Asynq task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	if payload.Email == "" {
		return nil, fmt.Errorf("jobs: welcome email requires a recipient")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data), nil
}

// NewPostCacheWarmupTask constructs an Asynq task with no payload.
func NewPostCacheWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTypePostCacheWarmup, nil)
}
