// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/mindmaze/videos"
	"github.com/danielhkuo/mindmaze/wellness"
)

// Chat senders
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Stress log sources
const (
	SourceDailyAssessment = "daily_assessment"
	SourceManual          = "manual"
)

// Stored records. All live under users/{uid}.

type Profile struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

type ChatUsage struct {
	MessagesCount int       `json:"messagesCount"`
	Date          string    `json:"date"`
	LastUpdate    time.Time `json:"lastUpdate"`
}

type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type DailyResponse struct {
	Answers     []int     `json:"answers"`
	StressScore int       `json:"stressScore"`
	Date        string    `json:"date"`
	Questions   []string  `json:"questions"`
	Timestamp   time.Time `json:"timestamp"`
}

type StressLog struct {
	StressLevel int       `json:"stressLevel"`
	Date        string    `json:"date"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
}

type MoodLog struct {
	Mood      string    `json:"mood"`
	Emoji     string    `json:"emoji"`
	Text      string    `json:"text"`
	Value     int       `json:"value"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

type JournalEntry struct {
	Entry       string    `json:"entry"`
	Date        string    `json:"date"`
	PromptIndex int       `json:"promptIndex"`
	Prompt      string    `json:"prompt,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type Activity struct {
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
	TimeAgo   string    `json:"timeAgo,omitempty"`
}

type FaceLog struct {
	Emotion              string    `json:"emotion"`
	Confidence           float64   `json:"confidence"`
	ConfidencePercentage int       `json:"confidencePercentage"`
	SampleCount          int       `json:"sampleCount"`
	Timestamp            time.Time `json:"timestamp"`
	Date                 string    `json:"date"`
}

// Wellbeing is written by other tools; the API only reads it.
type Wellbeing struct {
	Stress *float64 `json:"stress,omitempty"`
	Mood   string   `json:"mood,omitempty"`
}

type Preferences struct {
	Theme        string `json:"theme"`
	LastSeenDate string `json:"lastSeenDate,omitempty"`
}

// Request types

type SendMessageRequest struct {
	Message string `json:"message"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ProxyRequest struct {
	Messages []ChatTurn `json:"messages"`
}

type AssessmentRequest struct {
	Answers []int `json:"answers"`
}

type StressLogRequest struct {
	StressLevel *int   `json:"stressLevel"`
	Source      string `json:"source"`
}

type MoodRequest struct {
	Mood  string `json:"mood"`
	Emoji string `json:"emoji"`
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type JournalRequest struct {
	Entry string `json:"entry"`
}

type ActivityRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type FaceFrame struct {
	Expressions map[string]float64 `json:"expressions"`
}

type FaceSessionRequest struct {
	Frames []FaceFrame `json:"frames"`
}

type ExerciseStartRequest struct {
	FocusType string `json:"focusType"`
}

type PreferencesRequest struct {
	Theme string `json:"theme"`
}

type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Response types

type UsageResponse struct {
	MessagesCount int    `json:"messagesCount"`
	Remaining     int    `json:"remaining"`
	Limit         int    `json:"limit"`
	UsageText     string `json:"usageText"`
	Warning       string `json:"warning,omitempty"`
	Blocked       bool   `json:"blocked"`
	NewDay        bool   `json:"newDay"`
}

type TipResponse struct {
	Tip string `json:"tip"`
}

type MessagesResponse struct {
	Date     string        `json:"date"`
	Messages []ChatMessage `json:"messages"`
}

type SendMessageResponse struct {
	UserMessage ChatMessage `json:"userMessage"`
	BotMessage  ChatMessage `json:"botMessage"`
	Remaining   int         `json:"remaining"`
	UsageText   string      `json:"usageText"`
	Warning     string      `json:"warning,omitempty"`
	Blocked     bool        `json:"blocked"`
	Fallback    bool        `json:"fallback"`
}

type LimitResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining"`
	UsageText string `json:"usageText"`
	Blocked   bool   `json:"blocked"`
}

type ProxyResponse struct {
	Reply string `json:"reply"`
}

type ProfileResponse struct {
	Profile  Profile `json:"profile"`
	Greeting string  `json:"greeting"`
	Quote    string  `json:"quote"`
	Date     string  `json:"date"`
}

type TodayResponse struct {
	Date        string         `json:"date"`
	Assessment  *DailyResponse `json:"assessment"`
	Mood        *MoodLog       `json:"mood"`
	Journal     *JournalEntry  `json:"journal"`
	Prompt      string         `json:"prompt,omitempty"`
	PromptIndex int            `json:"promptIndex"`
}

type Question struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Weights  []int    `json:"weights"`
}

type QuestionsResponse struct {
	Completed   bool       `json:"completed"`
	StressScore int        `json:"stressScore,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

type AssessmentResponse struct {
	StressScore int    `json:"stressScore"`
	Level       int    `json:"level"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
}

type StressHistoryResponse struct {
	Points  []wellness.StressPoint `json:"points"`
	Summary wellness.StressSummary `json:"summary"`
	Sample  bool                   `json:"sample"`
}

type StressLogResponse struct {
	ID   string `json:"id"`
	Band string `json:"band"`
}

type PromptResponse struct {
	Prompt      string `json:"prompt"`
	PromptIndex int    `json:"promptIndex"`
}

type ActivitiesResponse struct {
	Activities []Activity `json:"activities"`
	Sample     bool       `json:"sample"`
}

type FaceSessionResponse struct {
	Available            bool    `json:"available"`
	Emotion              string  `json:"emotion,omitempty"`
	Emoji                string  `json:"emoji,omitempty"`
	Confidence           float64 `json:"confidence,omitempty"`
	ConfidencePercentage int     `json:"confidencePercentage,omitempty"`
	SampleCount          int     `json:"sampleCount"`
	Title                string  `json:"title"`
}

type VideosResponse struct {
	Items []videos.Video `json:"items"`
}

type SuggestionsResponse struct {
	Greeting      string         `json:"greeting"`
	StressPercent int            `json:"stressPercent"`
	Query         string         `json:"query"`
	Videos        []videos.Video `json:"videos"`
	Status        string         `json:"status"`
}

type FeedbackResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AuthErrorResponse tells the client where to sign in again.
type AuthErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	LoginURL string `json:"login_url"`
}
