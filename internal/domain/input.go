package domain

// CourseInput is a course as submitted by the portal.
type CourseInput struct {
	Name        string `json:"name"`
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	CourseType  string `json:"courseType,omitempty"`
}

// ActivityInput is a personal activity as submitted by the portal. An
// activity with SpecificDay and SpecificTime is fixed, otherwise flexible.
type ActivityInput struct {
	Name         string `json:"name"`
	Duration     int    `json:"duration"`
	Priority     string `json:"priority,omitempty"`
	SpecificDay  string `json:"specificDay,omitempty"`
	SpecificTime string `json:"specificTime,omitempty"`
	MustBeBefore string `json:"mustBeBefore,omitempty"`
	Category     string `json:"category,omitempty"`
	Location     string `json:"location,omitempty"`
	Description  string `json:"description,omitempty"`
}

// PreferencesInput leaves unset fields nil so that configured defaults apply.
type PreferencesInput struct {
	WakeUpTime           string `json:"wakeUpTime,omitempty"`
	SleepTime            string `json:"sleepTime,omitempty"`
	BreakDuration        *int   `json:"breakDuration,omitempty"`
	StudySessionDuration *int   `json:"studySessionDuration,omitempty"`
}

type OptimizeInput struct {
	Courses     []CourseInput    `json:"courses"`
	Activities  []ActivityInput  `json:"activities"`
	Preferences PreferencesInput `json:"preferences"`
}
