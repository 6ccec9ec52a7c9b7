// Package chatbot answers parent questions about a student with canned replies
// picked by keyword matching.
package chatbot

import (
	"fmt"
	"strings"

	"parent-portal-go/models"
)

// Intent names, also used as metric labels
const (
	IntentReview     = "review"
	IntentSuggestion = "suggestion"
	IntentMotivation = "motivation"
	IntentMarks      = "marks"
	IntentAttendance = "attendance"
	IntentHelp       = "help"
)

const (
	motivationTips = "To help motivate your child, try to focus on effort, not just grades. " +
		"Create a consistent, quiet space for homework. " +
		"Celebrate small successes to build confidence. " +
		"Most importantly, maintain open communication about their challenges and successes at school."

	helpMessage = "I can help with a few things. Try asking for a 'review', 'suggestions for low marks', or 'how to motivate'."
)

// Rule pairs a keyword predicate with the reply it produces
type Rule struct {
	Intent   string
	Keywords []string
	Respond  func(student models.Student) string
}

// Matches reports whether the lower-cased message contains any keyword
func (r Rule) Matches(message string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// Rules are evaluated in order and the first match wins. Keywords overlap
// across rules ("low marks" vs "marks"), so the order must not change.
var Rules = []Rule{
	{Intent: IntentReview, Keywords: []string{"review", "summary", "performance"}, Respond: PerformanceReview},
	{Intent: IntentSuggestion, Keywords: []string{"suggest", "advice", "low marks"}, Respond: Suggestions},
	{Intent: IntentMotivation, Keywords: []string{"motivate", "homework", "guide"}, Respond: func(models.Student) string { return MotivationTips() }},
	{Intent: IntentMarks, Keywords: []string{"marks", "grade"}, Respond: MarksListing},
	{Intent: IntentAttendance, Keywords: []string{"attendance"}, Respond: AttendanceSummary},
}

// match returns the first rule whose keywords occur in the message
func match(message string) (Rule, bool) {
	msg := strings.ToLower(message)
	for _, r := range Rules {
		if r.Matches(msg) {
			return r, true
		}
	}
	return Rule{}, false
}

// Classify returns the intent of a message
func Classify(message string) string {
	if r, ok := match(message); ok {
		return r.Intent
	}
	return IntentHelp
}

// Reply classifies the message and returns the intent with its answer
func Reply(message string, student models.Student) (string, string) {
	r, ok := match(message)
	if !ok {
		return IntentHelp, helpMessage
	}
	return r.Intent, r.Respond(student)
}

// PerformanceReview summarises average, strongest and weakest subjects
func PerformanceReview(s models.Student) string {
	return fmt.Sprintf("Overall, %s is performing well with an average score of %.2f. "+
		"Their strongest subject is currently %s. "+
		"The area where they could use the most support is %s. "+
		"Their attendance at %s is excellent, which is a great sign of engagement.",
		s.Name, s.AverageMark(), s.HighestSubject(), s.LowestSubject(), s.Attendance)
}

// Suggestions gives fixed advice aimed at the lowest scoring subject
func Suggestions(s models.Student) string {
	return fmt.Sprintf("To help improve in %s, you could try a few things: "+
		"1. Review their homework in that subject together. "+
		"2. Use online resources like Khan Academy for difficult topics. "+
		"3. Encourage them to ask questions in class, even if they feel shy. "+
		"A little extra focus here can make a big difference!", s.LowestSubject())
}

// MotivationTips returns the fixed parenting tips
func MotivationTips() string {
	return motivationTips
}

// MarksListing lists every subject score in record order
func MarksListing(s models.Student) string {
	parts := make([]string, 0, len(s.Marks))
	for _, m := range s.Marks {
		parts = append(parts, fmt.Sprintf("%s: %d", m.Subject, m.Score))
	}
	return fmt.Sprintf("%s's current marks are: %s.", s.FirstName(), strings.Join(parts, ", "))
}

// AttendanceSummary echoes the attendance percentage
func AttendanceSummary(s models.Student) string {
	return fmt.Sprintf("%s's attendance is %s.", s.FirstName(), s.Attendance)
}

// HelpMessage returns the reply used when no rule matches
func HelpMessage() string {
	return helpMessage
}
