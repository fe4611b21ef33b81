package db

import "welfare-dashboard-go/models"

// DemoRoster returns the fixed ten-student dataset shown when no other roster
// has been loaded. Scores fall in the demo ranges: math 40-99, science 35-99,
// english 45-99, attendance 50-99, activity 10-49.
func DemoRoster() []models.StudentRecord {
	return []models.StudentRecord{
		{Name: "Aarav", Math: 49, Science: 62, English: 91, AttendancePct: 87, ActivityPoints: 27},
		{Name: "Riya", Math: 76, Science: 96, English: 83, AttendancePct: 91, ActivityPoints: 44},
		{Name: "Kabir", Math: 40, Science: 35, English: 58, AttendancePct: 73, ActivityPoints: 15},
		{Name: "Saanvi", Math: 93, Science: 88, English: 95, AttendancePct: 96, ActivityPoints: 38},
		{Name: "Arjun", Math: 68, Science: 55, English: 72, AttendancePct: 55, ActivityPoints: 21},
		{Name: "Meera", Math: 85, Science: 79, English: 90, AttendancePct: 82, ActivityPoints: 33},
		{Name: "Dev", Math: 57, Science: 41, English: 47, AttendancePct: 64, ActivityPoints: 11},
		{Name: "Isha", Math: 99, Science: 91, English: 86, AttendancePct: 98, ActivityPoints: 49},
		{Name: "Rohan", Math: 62, Science: 70, English: 66, AttendancePct: 77, ActivityPoints: 19},
		{Name: "Diya", Math: 81, Science: 67, English: 78, AttendancePct: 59, ActivityPoints: 30},
	}
}
