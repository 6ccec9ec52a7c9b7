package models

import "strings"

// SubjectMark is one subject score on the student's record
type SubjectMark struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// Student represents the student shown on the parent dashboard
type Student struct {
	Name       string        `json:"name"`
	Class      string        `json:"class"`
	Section    string        `json:"section"`
	Attendance string        `json:"attendance"` // Percentage string, e.g. "92%"
	Marks      []SubjectMark `json:"marks"`      // Order matters: ties resolve to the first subject
}

// Credential is the parent login pair
type Credential struct {
	Email    string
	Password string
}

// DefaultCredential is the parent account used when none is configured
var DefaultCredential = Credential{
	Email:    "parent@school.com",
	Password: "password123",
}

// DefaultStudent returns the fixed student record served to every session.
// A fresh copy is returned so callers cannot mutate the shared record.
func DefaultStudent() Student {
	return Student{
		Name:       "Alex Doe",
		Class:      "10",
		Section:    "B",
		Attendance: "92%",
		Marks: []SubjectMark{
			{Subject: "Mathematics", Score: 85},
			{Subject: "Science", Score: 91},
			{Subject: "English", Score: 78},
			{Subject: "History", Score: 88},
		},
	}
}

// FirstName returns the first word of the student's name
func (s Student) FirstName() string {
	fields := strings.Fields(s.Name)
	if len(fields) == 0 {
		return s.Name
	}
	return fields[0]
}

// AverageMark returns the arithmetic mean of all scores, 0 when there are none
func (s Student) AverageMark() float64 {
	if len(s.Marks) == 0 {
		return 0
	}
	total := 0
	for _, m := range s.Marks {
		total += m.Score
	}
	return float64(total) / float64(len(s.Marks))
}

// LowestSubject returns the subject with the minimum score.
// On ties the first subject encountered wins.
func (s Student) LowestSubject() string {
	if len(s.Marks) == 0 {
		return ""
	}
	lowest := s.Marks[0]
	for _, m := range s.Marks[1:] {
		if m.Score < lowest.Score {
			lowest = m
		}
	}
	return lowest.Subject
}

// HighestSubject returns the subject with the maximum score.
// On ties the first subject encountered wins.
func (s Student) HighestSubject() string {
	if len(s.Marks) == 0 {
		return ""
	}
	highest := s.Marks[0]
	for _, m := range s.Marks[1:] {
		if m.Score > highest.Score {
			highest = m
		}
	}
	return highest.Subject
}
