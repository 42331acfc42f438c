package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

const (
	defaultWakeUpTimeEnv          = "DEFAULT_WAKE_UP_TIME"
	defaultSleepTimeEnv           = "DEFAULT_SLEEP_TIME"
	defaultBreakMinutesEnv        = "DEFAULT_BREAK_MINUTES"
	defaultStudySessionMinutesEnv = "DEFAULT_STUDY_SESSION_MINUTES"
	categoryPolicyFileEnv         = "CATEGORY_POLICY_FILE"
	timezoneEnv                   = "TIMEZONE"

	defaultWakeUpTime          = "06:00"
	defaultSleepTime           = "22:00"
	defaultBreakMinutes        = 15
	defaultStudySessionMinutes = 120
	defaultTimezone            = "Asia/Jakarta"
)

// SchedulerConfig holds the preferences applied when a request leaves them
// out, and the calendar settings used when materializing events.
type SchedulerConfig struct {
	WakeUpTime          string
	SleepTime           string
	BreakMinutes        int
	StudySessionMinutes int

	CategoryPolicyFile string
	Timezone           string
}

func LoadSchedulerConfig() *SchedulerConfig {
	wake := os.Getenv(defaultWakeUpTimeEnv)
	if wake == "" {
		wake = defaultWakeUpTime
	}

	sleep := os.Getenv(defaultSleepTimeEnv)
	if sleep == "" {
		sleep = defaultSleepTime
	}

	breakMinutes := defaultBreakMinutes
	if v := os.Getenv(defaultBreakMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			breakMinutes = parsed
		}
	}

	studySession := defaultStudySessionMinutes
	if v := os.Getenv(defaultStudySessionMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			studySession = parsed
		}
	}

	tz := os.Getenv(timezoneEnv)
	if tz == "" {
		tz = defaultTimezone
	}

	return &SchedulerConfig{
		WakeUpTime:          wake,
		SleepTime:           sleep,
		BreakMinutes:        breakMinutes,
		StudySessionMinutes: studySession,
		CategoryPolicyFile:  os.Getenv(categoryPolicyFileEnv),
		Timezone:            tz,
	}
}

// DefaultPreferences parses the configured defaults.
func (c *SchedulerConfig) DefaultPreferences() (domain.Preferences, error) {
	wake, err := domain.ParseClock(c.WakeUpTime)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("%s: %w", defaultWakeUpTimeEnv, err)
	}
	sleep, err := domain.ParseClock(c.SleepTime)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("%s: %w", defaultSleepTimeEnv, err)
	}
	if wake >= sleep {
		return domain.Preferences{}, ErrDefaultWindowEmpty
	}

	return domain.Preferences{
		WakeUpTime:                  wake,
		SleepTime:                   sleep,
		BreakDurationMinutes:        c.BreakMinutes,
		StudySessionDurationMinutes: c.StudySessionMinutes,
	}, nil
}

func (c *SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", timezoneEnv, err)
	}
	return loc, nil
}

func (c *SchedulerConfig) Validate() error {
	if _, err := c.DefaultPreferences(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
