package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter logs periodic progress of a batch operation
type ProgressReporter struct {
	mu          sync.Mutex
	total       int
	current     int
	description string
	interval    time.Duration
	startTime   time.Time
	lastUpdate  time.Time
	logger      *Logger
}

// NewProgressReporter creates a reporter logging at most every 5 seconds
func NewProgressReporter(total int, description string) *ProgressReporter {
	now := time.Now()
	return &ProgressReporter{
		total:       total,
		description: description,
		interval:    5 * time.Second,
		startTime:   now,
		lastUpdate:  now,
		logger:      GetLogger().Component("progress"),
	}
}

// Update adds increment to the counter and reports when due
func (pr *ProgressReporter) Update(increment int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current += increment
	now := time.Now()
	if now.Sub(pr.lastUpdate) >= pr.interval || pr.current >= pr.total {
		pr.report()
		pr.lastUpdate = now
	}
}

// Current returns the number of completed items
func (pr *ProgressReporter) Current() int {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.current
}

// must be called with lock held
func (pr *ProgressReporter) report() {
	percentage := 100.0
	if pr.total > 0 {
		percentage = float64(pr.current) / float64(pr.total) * 100
	}

	pr.logger.WithFields(map[string]interface{}{
		"current": pr.current,
		"total":   pr.total,
		"elapsed": time.Since(pr.startTime).Round(time.Millisecond).String(),
	}).Debug(fmt.Sprintf("%s: %d/%d (%.1f%%)", pr.description, pr.current, pr.total, percentage))
}
